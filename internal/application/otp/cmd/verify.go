package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/verimail/otp-backend/internal/adapters/repos"
	"gitlab.com/verimail/otp-backend/internal/domain/otp"
	"gitlab.com/verimail/otp-backend/pkg/logging"
	"gitlab.com/verimail/otp-backend/pkg/otelx"
)

type Verify struct {
	Email string
	Code  string
}

type VerifyHandler struct {
	tracer trace.Tracer
	logger *slog.Logger
	repo   Repo
}

type VerifyHandlerArgs struct {
	Tracer trace.Tracer
	Logger *slog.Logger
	Repo   Repo
}

func NewVerifyHandler(args VerifyHandlerArgs) *VerifyHandler {
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}

	return &VerifyHandler{
		tracer: args.Tracer,
		logger: args.Logger,
		repo:   args.Repo,
	}
}

func (h *VerifyHandler) Handle(ctx context.Context, cmd Verify) error {
	ctx, span := h.tracer.Start(ctx, "VerifyHandler.Handle",
		trace.WithAttributes(attribute.String("email", logging.RedactEmail(cmd.Email))),
	)
	defer span.End()

	if cmd.Email == "" || cmd.Code == "" {
		return otp.ErrMissingInput
	}

	// The update runs under a row lock, so of N concurrent verifications for
	// the same code exactly one flips unused -> used; the rest observe the
	// consumed record and fail.
	err := h.repo.UpdatePasscodeByEmail(ctx, cmd.Email, func(ctx context.Context, p *otp.Passcode) error {
		if err := p.Verify(cmd.Code); err != nil {
			trace.SpanFromContext(ctx).AddEvent("passcode verification rejected")
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			span.AddEvent("no passcode for email")
			return otp.ErrNotFound
		}
		otelx.RecordSpanError(span, err, "failed to verify passcode")
		if errors.Is(err, otp.ErrCodeMismatch) || errors.Is(err, otp.ErrAlreadyUsed) || errors.Is(err, otp.ErrCodeExpired) {
			return err
		}
		return fmt.Errorf("failed to verify passcode: %w", err)
	}

	span.AddEvent("passcode consumed")
	return nil
}
