package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/verimail/otp-backend/internal/adapters/repos"
	"gitlab.com/verimail/otp-backend/internal/domain/otp"
	"gitlab.com/verimail/otp-backend/pkg/otelx"
	"gitlab.com/verimail/otp-backend/pkg/postgres"
	"gitlab.com/verimail/otp-backend/pkg/watermillx"
)

type OtpRepo struct {
	tracer  trace.Tracer
	logger  *slog.Logger
	pool    *pgxpool.Pool
	wlogger watermill.LoggerAdapter
}

// NewOtpRepo creates a new instance of OtpRepo, with default tracer and
// logger if they are nil.
//
//	WARNING: panics if pool is nil
func NewOtpRepo(pool *pgxpool.Pool, t trace.Tracer, l *slog.Logger) *OtpRepo {
	if pool == nil {
		panic("pgxpool.Pool cannot be nil")
	}
	if t == nil {
		t = tracer
	}
	if l == nil {
		l = logger
	}

	return &OtpRepo{
		tracer:  t,
		logger:  l,
		pool:    pool,
		wlogger: watermill.NewSlogLogger(l),
	}
}

func (r *OtpRepo) GetPasscodeByEmail(ctx context.Context, email string) (*otp.Passcode, error) {
	ctx, span := r.tracer.Start(ctx, "OtpRepo.GetPasscodeByEmail")
	defer span.End()

	query := `
        SELECT email, code, status, expires_at, created_at, updated_at
        FROM otp_codes
        WHERE email = $1;
    `

	var dto PasscodeDTO
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&dto.Email, &dto.Code, &dto.Status,
		&dto.ExpiresAt, &dto.CreatedAt, &dto.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repos.ErrNotFound
		}
		otelx.RecordSpanError(span, err, "failed to get passcode by email")
		return nil, translateError(err)
	}

	return PasscodeToDomain(dto), nil
}

// SavePasscode upserts the record for the passcode's email; a new issuance
// blindly overwrites whatever was there. Uncommitted domain events ride the
// same transaction through the watermill SQL outbox.
func (r *OtpRepo) SavePasscode(ctx context.Context, p *otp.Passcode) error {
	ctx, span := r.tracer.Start(ctx, "OtpRepo.SavePasscode")
	defer span.End()

	dto := DomainToPasscodeDTO(p)

	query := `
        INSERT INTO otp_codes (email, code, status, expires_at, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (email) DO UPDATE
        SET code = EXCLUDED.code,
            status = EXCLUDED.status,
            expires_at = EXCLUDED.expires_at,
            created_at = EXCLUDED.created_at,
            updated_at = EXCLUDED.updated_at;
    `

	return postgres.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		res, err := tx.Exec(ctx, query,
			dto.Email, dto.Code, dto.Status,
			dto.ExpiresAt, dto.CreatedAt, dto.UpdatedAt,
		)
		if err != nil {
			otelx.RecordSpanError(span, err, "failed to upsert passcode")
			return translateError(err)
		}
		if res.RowsAffected() == 0 {
			otelx.RecordSpanError(span, repos.ErrNoRowsAffected, "no rows affected when upserting passcode")
			return fmt.Errorf("failed to upsert passcode: %w", repos.ErrNoRowsAffected)
		}

		if events := p.GetUncommittedEvents(); len(events) > 0 {
			if err := watermillx.Publish(ctx, tx, r.wlogger, events...); err != nil {
				otelx.RecordSpanError(span, err, "failed to publish events")
				return err
			}
		}
		return nil
	})
}

// UpdatePasscodeByEmail loads the row FOR UPDATE, applies fn and writes the
// result back in the same transaction. The row lock serializes concurrent
// verifications for the same email, which is what makes consumption
// single-shot.
func (r *OtpRepo) UpdatePasscodeByEmail(
	ctx context.Context,
	email string,
	fn func(ctx context.Context, p *otp.Passcode) error,
) error {
	ctx, span := r.tracer.Start(ctx, "OtpRepo.UpdatePasscodeByEmail")
	defer span.End()
	if fn == nil {
		otelx.RecordSpanError(span, ErrNilFunc, "update function cannot be nil")
		return ErrNilFunc
	}

	selectquery := `
        SELECT email, code, status, expires_at, created_at, updated_at
        FROM otp_codes
        WHERE email = $1
        FOR UPDATE;
    `
	updatequery := `
        UPDATE otp_codes
        SET code = $2, status = $3, expires_at = $4, updated_at = $5
        WHERE email = $1;
    `

	return postgres.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		var dto PasscodeDTO
		err := tx.QueryRow(ctx, selectquery, email).Scan(
			&dto.Email, &dto.Code, &dto.Status,
			&dto.ExpiresAt, &dto.CreatedAt, &dto.UpdatedAt,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return repos.ErrNotFound
			}
			otelx.RecordSpanError(span, err, "failed to get passcode for update")
			return translateError(err)
		}

		p := PasscodeToDomain(dto)

		if err := fn(ctx, p); err != nil {
			return err
		}

		dto = DomainToPasscodeDTO(p)

		res, err := tx.Exec(ctx, updatequery,
			dto.Email, dto.Code, dto.Status, dto.ExpiresAt, dto.UpdatedAt,
		)
		if err != nil {
			otelx.RecordSpanError(span, err, "failed to update passcode")
			return translateError(err)
		}
		if res.RowsAffected() == 0 {
			otelx.RecordSpanError(span, repos.ErrNoRowsAffected, "no rows affected when updating passcode")
			return fmt.Errorf("failed to update passcode: %w", repos.ErrNoRowsAffected)
		}

		if events := p.GetUncommittedEvents(); len(events) > 0 {
			if err := watermillx.Publish(ctx, tx, r.wlogger, events...); err != nil {
				otelx.RecordSpanError(span, err, "failed to publish events")
				return err
			}
		}

		return nil
	})
}
