package postgres

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"gitlab.com/verimail/otp-backend/internal/adapters/repos"
)

var ErrNilFunc = errors.New("update function cannot be nil")

// translateError maps driver-level postgres faults to repo sentinel errors so
// callers never have to import pgconn.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return repos.ErrAlreadyExists
		case pgerrcode.CheckViolation:
			return errors.New("check constraint violated: " + pgErr.ConstraintName)
		}
	}

	return err
}
