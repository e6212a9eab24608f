package cmd

import (
	"context"

	"gitlab.com/verimail/otp-backend/internal/domain/otp"
)

type Repo interface {
	GetPasscodeByEmail(ctx context.Context, email string) (*otp.Passcode, error)
	// SavePasscode writes the record for the passcode's email, overwriting any
	// prior record for that address.
	SavePasscode(ctx context.Context, p *otp.Passcode) error
	// UpdatePasscodeByEmail loads the record under a row lock, applies fn and
	// persists the result in one transaction. fn returning an error rolls the
	// whole update back.
	UpdatePasscodeByEmail(ctx context.Context, email string, fn func(context.Context, *otp.Passcode) error) error
}
