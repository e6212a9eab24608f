package postgres

import (
	"time"

	"gitlab.com/verimail/otp-backend/internal/domain/otp"
)

type PasscodeDTO struct {
	Email     string
	Code      string
	Status    string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func DomainToPasscodeDTO(p *otp.Passcode) PasscodeDTO {
	return PasscodeDTO{
		Email:     p.Email(),
		Code:      p.Code(),
		Status:    string(p.Status()),
		ExpiresAt: p.ExpiresAt(),
		CreatedAt: p.CreatedAt(),
		UpdatedAt: p.UpdatedAt(),
	}
}

func PasscodeToDomain(dto PasscodeDTO) *otp.Passcode {
	return otp.Rehydrate(otp.RehydrateArgs{
		Email:     dto.Email,
		Code:      dto.Code,
		Status:    otp.Status(dto.Status),
		ExpiresAt: dto.ExpiresAt,
		CreatedAt: dto.CreatedAt,
		UpdatedAt: dto.UpdatedAt,
	})
}
