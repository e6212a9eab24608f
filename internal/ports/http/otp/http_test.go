package otphttp

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	otpapp "gitlab.com/verimail/otp-backend/internal/application/otp"
	"gitlab.com/verimail/otp-backend/pkg/env"
	"gitlab.com/verimail/otp-backend/tests/integration/builders"
	"gitlab.com/verimail/otp-backend/tests/integration/fixtures"
	"gitlab.com/verimail/otp-backend/tests/mocks"
)

type HTTPSuite struct {
	Router   chi.Router
	MockRepo *mocks.OtpRepo
}

func NewHTTPSuite() *HTTPSuite {
	mockRepo := mocks.NewOtpRepo()
	app := otpapp.NewApp(otpapp.Args{
		Mode: env.Test,
		Repo: mockRepo,
	})

	router := chi.NewRouter()
	NewHTTP(Args{App: app}).Route(router)

	return &HTTPSuite{
		Router:   router,
		MockRepo: mockRepo,
	}
}

func (s *HTTPSuite) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)
	return rec
}

func TestIssue_HappyPath(t *testing.T) {
	t.Parallel()

	s := NewHTTPSuite()

	rec := s.do(t, http.MethodPost, "/v1/otp",
		fmt.Sprintf(`{"email": %q}`, fixtures.ValidEmail))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"success": true, "message": "OTP generated and sent successfully."}`,
		rec.Body.String())

	p := s.MockRepo.AssertPasscodeExists(t, fixtures.ValidEmail)
	require.NotNil(t, p)
}

func TestIssue_InvalidEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "Empty Email", body: `{"email": ""}`},
		{name: "Not An Email", body: fmt.Sprintf(`{"email": %q}`, fixtures.InvalidEmail)},
		{name: "Missing Field", body: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewHTTPSuite()
			rec := s.do(t, http.MethodPost, "/v1/otp", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t,
				`{"success": false, "message": "Invalid email address."}`,
				rec.Body.String())
		})
	}
}

func TestIssue_MalformedBody(t *testing.T) {
	t.Parallel()

	s := NewHTTPSuite()
	rec := s.do(t, http.MethodPost, "/v1/otp", `{"email": `)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
	assert.Contains(t, rec.Body.String(), "badly-formed JSON")
	s.MockRepo.AssertPasscodeNotExists(t, fixtures.ValidEmail)
}

func TestVerify_MalformedBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "Truncated JSON", body: `{"email": `},
		{name: "Empty Body", body: ``},
		{name: "Unknown Field", body: `{"email": "a@b.com", "otp": "123456", "extra": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewHTTPSuite()
			rec := s.do(t, http.MethodPost, "/v1/otp/verify", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), `"success":false`)
		})
	}
}

func TestVerify_HappyPath(t *testing.T) {
	t.Parallel()

	s := NewHTTPSuite()
	p := builders.NewPasscodeBuilder().
		WithEmail(fixtures.ValidEmail).
		WithCode(fixtures.ValidCode).
		Build()
	s.MockRepo.SeedPasscode(t, p)

	rec := s.do(t, http.MethodPost, "/v1/otp/verify",
		fmt.Sprintf(`{"email": %q, "otp": %q}`, fixtures.ValidEmail, fixtures.ValidCode))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"success": true, "message": "OTP verified successfully"}`,
		rec.Body.String())
}

func TestVerify_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		seed        func(t *testing.T, s *HTTPSuite)
		body        string
		wantMessage string
	}{
		{
			name:        "Missing Fields",
			seed:        func(t *testing.T, s *HTTPSuite) {},
			body:        fmt.Sprintf(`{"email": %q, "otp": ""}`, fixtures.ValidEmail),
			wantMessage: "Email or OTP missing",
		},
		{
			name:        "Unknown Email",
			seed:        func(t *testing.T, s *HTTPSuite) {},
			body:        fmt.Sprintf(`{"email": %q, "otp": %q}`, fixtures.ValidEmail, fixtures.ValidCode),
			wantMessage: "No OTP found for this email",
		},
		{
			name: "Wrong Code",
			seed: func(t *testing.T, s *HTTPSuite) {
				s.MockRepo.SeedPasscode(t, builders.NewPasscodeBuilder().
					WithEmail(fixtures.ValidEmail).
					WithCode(fixtures.ValidCode).
					Build())
			},
			body:        fmt.Sprintf(`{"email": %q, "otp": %q}`, fixtures.ValidEmail, fixtures.WrongCode),
			wantMessage: "Invalid OTP",
		},
		{
			name: "Wrong Length Code",
			seed: func(t *testing.T, s *HTTPSuite) {
				s.MockRepo.SeedPasscode(t, builders.NewPasscodeBuilder().
					WithEmail(fixtures.ValidEmail).
					WithCode(fixtures.ValidCode).
					Build())
			},
			body:        fmt.Sprintf(`{"email": %q, "otp": "00000"}`, fixtures.ValidEmail),
			wantMessage: "Invalid OTP",
		},
		{
			name: "Already Used",
			seed: func(t *testing.T, s *HTTPSuite) {
				s.MockRepo.SeedPasscode(t, builders.NewPasscodeBuilder().
					WithEmail(fixtures.ValidEmail).
					WithCode(fixtures.ValidCode).
					Used().
					Build())
			},
			body:        fmt.Sprintf(`{"email": %q, "otp": %q}`, fixtures.ValidEmail, fixtures.ValidCode),
			wantMessage: "OTP already used",
		},
		{
			name: "Expired",
			seed: func(t *testing.T, s *HTTPSuite) {
				s.MockRepo.SeedPasscode(t, builders.NewPasscodeBuilder().
					WithEmail(fixtures.ValidEmail).
					WithCode(fixtures.ValidCode).
					Expired().
					Build())
			},
			body:        fmt.Sprintf(`{"email": %q, "otp": %q}`, fixtures.ValidEmail, fixtures.ValidCode),
			wantMessage: "OTP expired",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewHTTPSuite()
			tt.seed(t, s)

			rec := s.do(t, http.MethodPost, "/v1/otp/verify", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t,
				fmt.Sprintf(`{"success": false, "message": %q}`, tt.wantMessage),
				rec.Body.String())
		})
	}
}

func TestVerify_SecondAttemptRejected(t *testing.T) {
	t.Parallel()

	s := NewHTTPSuite()
	s.MockRepo.SeedPasscode(t, builders.NewPasscodeBuilder().
		WithEmail(fixtures.ValidEmail).
		WithCode(fixtures.ValidCode).
		Build())

	body := fmt.Sprintf(`{"email": %q, "otp": %q}`, fixtures.ValidEmail, fixtures.ValidCode)

	rec := s.do(t, http.MethodPost, "/v1/otp/verify", body)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/v1/otp/verify", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t,
		`{"success": false, "message": "OTP already used"}`,
		rec.Body.String())
}
