package query

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gitlab.com/verimail/otp-backend/internal/domain/otp"
)

// GetCodeHandler backs the dev-only endpoint that exposes the active code for
// an email. Never routed outside test/local/dev modes.
type GetCodeHandler struct {
	pool *pgxpool.Pool
}

func NewGetCodeHandler(pool *pgxpool.Pool) *GetCodeHandler {
	return &GetCodeHandler{pool: pool}
}

func (h *GetCodeHandler) Handle(ctx context.Context, email string) (string, error) {
	var code string
	err := h.pool.QueryRow(ctx, `
        SELECT code
        FROM otp_codes
        WHERE email = $1
    `, email).Scan(&code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", otp.ErrNotFound
		}
		return "", err
	}
	return code, nil
}
