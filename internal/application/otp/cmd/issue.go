package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/verimail/otp-backend/internal/domain/otp"
	"gitlab.com/verimail/otp-backend/pkg/env"
	"gitlab.com/verimail/otp-backend/pkg/logging"
	"gitlab.com/verimail/otp-backend/pkg/otelx"
)

var (
	tracer = otel.Tracer("otp-backend/application/otp/cmd")
	logger = otelslog.NewLogger("otp-backend/application/otp/cmd")
)

type Issue struct {
	Email string
}

type IssueHandler struct {
	tracer trace.Tracer
	logger *slog.Logger
	mode   env.Mode
	repo   Repo
}

type IssueHandlerArgs struct {
	Tracer trace.Tracer
	Logger *slog.Logger
	Mode   env.Mode
	Repo   Repo
}

func NewIssueHandler(args IssueHandlerArgs) *IssueHandler {
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}

	return &IssueHandler{
		tracer: args.Tracer,
		logger: args.Logger,
		mode:   args.Mode,
		repo:   args.Repo,
	}
}

func (h *IssueHandler) Handle(ctx context.Context, cmd Issue) error {
	ctx, span := h.tracer.Start(ctx, "IssueHandler.Handle",
		trace.WithAttributes(attribute.String("email", logging.RedactEmail(cmd.Email))),
	)
	defer span.End()

	h.logger.DebugContext(ctx, "issuing passcode")

	p, err := otp.Issue(cmd.Email, h.mode)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to issue passcode")
		return err
	}

	// Blind overwrite: the newest issuance always wins, no check for an
	// existing unconsumed record. The OtpIssued event rides the same
	// transaction, so the record exists even when delivery later fails.
	if err := h.repo.SavePasscode(ctx, p); err != nil {
		otelx.RecordSpanError(span, err, "failed to save passcode")
		return fmt.Errorf("failed to save passcode: %w", err)
	}

	span.AddEvent("passcode issued")
	return nil
}
