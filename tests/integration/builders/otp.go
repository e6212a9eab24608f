package builders

import (
	"time"

	"gitlab.com/verimail/otp-backend/internal/domain/otp"
	"gitlab.com/verimail/otp-backend/pkg/randcode"
)

type PasscodeBuilder struct {
	email     string
	code      string
	status    otp.Status
	expiresAt time.Time
	createdAt time.Time
	updatedAt time.Time
}

func NewPasscodeBuilder() *PasscodeBuilder {
	code, _ := randcode.GenerateNumericCode(otp.CodeLength)
	now := time.Now()

	return &PasscodeBuilder{
		email:     "test@example.com",
		code:      code,
		status:    otp.StatusUnused,
		expiresAt: now.Add(otp.TTL),
		createdAt: now,
		updatedAt: now,
	}
}

func (b *PasscodeBuilder) WithEmail(email string) *PasscodeBuilder {
	b.email = email
	return b
}

func (b *PasscodeBuilder) WithCode(code string) *PasscodeBuilder {
	b.code = code
	return b
}

func (b *PasscodeBuilder) WithStatus(status otp.Status) *PasscodeBuilder {
	b.status = status
	return b
}

func (b *PasscodeBuilder) Used() *PasscodeBuilder {
	b.status = otp.StatusUsed
	return b
}

func (b *PasscodeBuilder) Expired() *PasscodeBuilder {
	b.expiresAt = time.Now().Add(-1 * time.Hour)
	return b
}

func (b *PasscodeBuilder) Build() *otp.Passcode {
	return otp.Rehydrate(otp.RehydrateArgs{
		Email:     b.email,
		Code:      b.code,
		Status:    b.status,
		ExpiresAt: b.expiresAt,
		CreatedAt: b.createdAt,
		UpdatedAt: b.updatedAt,
	})
}
