package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/verimail/otp-backend/internal/domain/otp"
	"gitlab.com/verimail/otp-backend/pkg/env"
	"gitlab.com/verimail/otp-backend/tests/integration/builders"
	"gitlab.com/verimail/otp-backend/tests/integration/fixtures"
	"gitlab.com/verimail/otp-backend/tests/mocks"
)

type IssueSuite struct {
	Handler  *IssueHandler
	MockRepo *mocks.OtpRepo
}

func NewIssueSuite() *IssueSuite {
	mockRepo := mocks.NewOtpRepo()
	handler := NewIssueHandler(IssueHandlerArgs{
		Mode: env.Test,
		Repo: mockRepo,
	})

	return &IssueSuite{
		Handler:  handler,
		MockRepo: mockRepo,
	}
}

func TestIssueHandler_HappyPath(t *testing.T) {
	t.Parallel()

	s := NewIssueSuite()

	err := s.Handler.Handle(t.Context(), Issue{Email: fixtures.ValidEmail})
	require.NoError(t, err)

	p := s.MockRepo.AssertPasscodeExists(t, fixtures.ValidEmail)
	require.NotNil(t, p)
	assert.Len(t, p.Code(), otp.CodeLength)
	assert.Equal(t, otp.StatusUnused, p.Status())

	s.MockRepo.AssertEventCount(t, 1)
	e := mocks.RequireEventExists(t, s.MockRepo.EventRepo, &otp.OtpIssued{})
	require.NotNil(t, e)
	assert.Equal(t, fixtures.ValidEmail, e.Email)
	assert.Equal(t, p.Code(), e.Code)
}

func TestIssueHandler_InvalidEmail_ShouldReturnError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		email string
	}{
		{name: "Empty", email: ""},
		{name: "No At Sign", email: fixtures.InvalidEmail},
		{name: "No Domain", email: "user@"},
		{name: "Spaces", email: "user name@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewIssueSuite()
			err := s.Handler.Handle(t.Context(), Issue{Email: tt.email})
			require.Error(t, err)
			assert.ErrorIs(t, err, otp.ErrInvalidEmail)

			s.MockRepo.AssertPasscodeNotExists(t, tt.email)
			s.MockRepo.AssertEventCount(t, 0)
		})
	}
}

func TestIssueHandler_Reissue_OverwritesPrevious(t *testing.T) {
	t.Parallel()

	s := NewIssueSuite()
	prev := builders.NewPasscodeBuilder().
		WithEmail(fixtures.ValidEmail).
		WithCode(fixtures.ValidCode).
		Used().
		Build()
	s.MockRepo.SeedPasscode(t, prev)

	err := s.Handler.Handle(t.Context(), Issue{Email: fixtures.ValidEmail})
	require.NoError(t, err)

	p := s.MockRepo.AssertPasscodeExists(t, fixtures.ValidEmail)
	require.NotNil(t, p)
	assert.Equal(t, otp.StatusUnused, p.Status())
	assert.False(t, p.IsExpired())

	e := mocks.RequireEventExists(t, s.MockRepo.EventRepo, &otp.OtpIssued{})
	assert.Equal(t, p.Code(), e.Code)
}
