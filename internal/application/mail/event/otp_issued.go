package mailevent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ARUMANDESU/validation"
	"github.com/ARUMANDESU/validation/is"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/verimail/otp-backend/internal/domain/otp"
	"gitlab.com/verimail/otp-backend/internal/domain/valueobject/mails"
	"gitlab.com/verimail/otp-backend/pkg/logging"
	"gitlab.com/verimail/otp-backend/pkg/otelx"
)

const (
	OtpIssuedSubject = "Your OTP Code"

	validityMinutes = 5
)

// HandleOtpIssued delivers the passcode mail. A send failure is reported to
// the message router and never touches the already-committed issuance record;
// redelivery is the channel's policy, not ours.
func (h *MailEventHandler) HandleOtpIssued(ctx context.Context, e *otp.OtpIssued) error {
	if e == nil {
		return nil
	}

	l := h.logger.With(slog.String("event", "OtpIssued"), slog.String("event.id", e.ID.String()))
	ctx, span := h.tracer.Start(
		ctx,
		"MailEventHandler.HandleOtpIssued",
		trace.WithNewRoot(),
		trace.WithLinks(trace.LinkFromContext(e.Extract())),
		trace.WithAttributes(
			attribute.String("event.email", logging.RedactEmail(e.Email)),
		),
	)
	defer span.End()

	err := validation.ValidateStruct(e,
		validation.Field(&e.Email, validation.Required, is.Email),
		validation.Field(&e.Code, validation.Required),
	)
	if err != nil {
		otelx.RecordSpanError(span, err, "validation failed")
		l.ErrorContext(ctx, "validation failed", slog.Any("error", err))
		return err
	}

	payload := mails.Payload{
		To:      e.Email,
		Subject: OtpIssuedSubject,
		Body:    fmt.Sprintf("Your OTP code is %s. It is valid for %d minutes.", e.Code, validityMinutes),
	}
	if err := h.mailsender.SendMail(ctx, payload); err != nil {
		otelx.RecordSpanError(span, err, "failed to send passcode mail")
		l.ErrorContext(ctx, "Failed to send passcode mail", slog.Any("error", err))
		return err
	}

	return nil
}
