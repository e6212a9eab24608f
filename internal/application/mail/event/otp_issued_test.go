package mailevent

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/verimail/otp-backend/internal/domain/event"
	"gitlab.com/verimail/otp-backend/internal/domain/otp"
	"gitlab.com/verimail/otp-backend/tests/integration/fixtures"
	"gitlab.com/verimail/otp-backend/tests/mocks"
)

type MailEventSuite struct {
	Handler    *MailEventHandler
	MailSender *mocks.MockMailSender
}

func NewMailEventSuite() *MailEventSuite {
	mailSender := mocks.NewMockMailSender()
	handler := NewMailEventHandler(MailEventHandlerArgs{
		Mailsender: mailSender,
	})

	return &MailEventSuite{
		Handler:    handler,
		MailSender: mailSender,
	}
}

func TestHandleOtpIssued_HappyPath(t *testing.T) {
	t.Parallel()

	s := NewMailEventSuite()
	e := &otp.OtpIssued{
		Header: event.NewEventHeader(),
		Email:  fixtures.ValidEmail,
		Code:   fixtures.ValidCode,
	}

	err := s.Handler.HandleOtpIssued(t.Context(), e)
	require.NoError(t, err)

	s.MailSender.AssertMailSent(t, fixtures.ValidEmail, OtpIssuedSubject)
	s.MailSender.AssertBodyContains(t, fixtures.ValidEmail,
		fmt.Sprintf("Your OTP code is %s. It is valid for 5 minutes.", fixtures.ValidCode))
}

func TestHandleOtpIssued_NilEvent_ShouldBeNoop(t *testing.T) {
	t.Parallel()

	s := NewMailEventSuite()

	err := s.Handler.HandleOtpIssued(t.Context(), nil)
	require.NoError(t, err)
	assert.Empty(t, s.MailSender.GetSentMails())
}

func TestHandleOtpIssued_InvalidEvent_ShouldReturnError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		event *otp.OtpIssued
	}{
		{
			name:  "Missing Email",
			event: &otp.OtpIssued{Header: event.NewEventHeader(), Code: fixtures.ValidCode},
		},
		{
			name:  "Missing Code",
			event: &otp.OtpIssued{Header: event.NewEventHeader(), Email: fixtures.ValidEmail},
		},
		{
			name:  "Malformed Email",
			event: &otp.OtpIssued{Header: event.NewEventHeader(), Email: fixtures.InvalidEmail, Code: fixtures.ValidCode},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewMailEventSuite()
			err := s.Handler.HandleOtpIssued(t.Context(), tt.event)
			require.Error(t, err)
			assert.Empty(t, s.MailSender.GetSentMails())
		})
	}
}

func TestHandleOtpIssued_SendFailure_ShouldReturnError(t *testing.T) {
	t.Parallel()

	s := NewMailEventSuite()
	s.MailSender.FailWith(errors.New("smtp connection refused"))

	e := &otp.OtpIssued{
		Header: event.NewEventHeader(),
		Email:  fixtures.ValidEmail,
		Code:   fixtures.ValidCode,
	}

	err := s.Handler.HandleOtpIssued(t.Context(), e)
	require.Error(t, err)
	assert.Empty(t, s.MailSender.GetSentMails())
}
