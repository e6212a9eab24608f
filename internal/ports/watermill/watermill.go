package watermill

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jackc/pgx/v5/pgxpool"

	mailapp "gitlab.com/verimail/otp-backend/internal/application/mail"
	"gitlab.com/verimail/otp-backend/pkg/watermillx"
)

type Port struct {
	eventProcessor *cqrs.EventProcessor
}

type AppEventHandlers struct {
	Mail *mailapp.App
}

func NewPort(router *message.Router, conn *pgxpool.Pool, wmlogger watermill.LoggerAdapter) (*Port, error) {
	eventProcessor, err := watermillx.NewEventProcessor(router, conn, wmlogger)
	if err != nil {
		return nil, err
	}

	return &Port{eventProcessor: eventProcessor}, nil
}

func NewPortForTest(router *message.Router, conn *pgxpool.Pool, wmlogger watermill.LoggerAdapter) (*Port, error) {
	eventProcessor, err := watermillx.NewEventProcessorForTests(router, conn, wmlogger)
	if err != nil {
		return nil, err
	}

	return &Port{eventProcessor: eventProcessor}, nil
}

func (p *Port) Run(ctx context.Context, handlers AppEventHandlers) error {
	err := p.eventProcessor.AddHandlers(
		cqrs.NewEventHandler("MailOnOtpIssued", handlers.Mail.Event.HandleOtpIssued),
	)
	if err != nil {
		return fmt.Errorf("failed to add event handlers: %w", err)
	}

	return nil
}
