package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"gitlab.com/verimail/otp-backend/internal/domain/otp"
	"gitlab.com/verimail/otp-backend/pkg/env"
	"gitlab.com/verimail/otp-backend/tests/integration/fixtures"
)

type OtpSuite struct {
	TestSuite
}

func TestOtpSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	t.Parallel()

	suite.Run(t, new(OtpSuite))
}

func (s *OtpSuite) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.app.HTTPHandler.ServeHTTP(rec, req)
	return rec
}

func (s *OtpSuite) devCode(email string) string {
	rec := s.do(http.MethodGet, "/dev/otp/"+email, "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp struct {
		Otp string `json:"otp"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Require().Len(resp.Otp, otp.CodeLength)
	return resp.Otp
}

func (s *OtpSuite) TestIssue() {
	rec := s.do(http.MethodPost, "/v1/otp",
		fmt.Sprintf(`{"email": %q}`, fixtures.ValidEmail))

	s.Require().Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"success": true, "message": "OTP generated and sent successfully."}`, rec.Body.String())

	p, err := s.app.OtpRepo.GetPasscodeByEmail(s.T().Context(), fixtures.ValidEmail)
	s.Require().NoError(err)
	s.Equal(otp.StatusUnused, p.Status())
	s.Len(p.Code(), otp.CodeLength)
	s.WithinDuration(time.Now().Add(otp.TTL), p.ExpiresAt(), 5*time.Second)

	AssertEvent(&s.TestSuite, func(e *otp.OtpIssued) {
		s.Equal(fixtures.ValidEmail, e.Email)
		s.Equal(p.Code(), e.Code)
	})

	s.Require().Eventually(func() bool {
		for _, m := range s.app.MockMailSender.GetSentMails() {
			if m.To == fixtures.ValidEmail && strings.Contains(m.Body, p.Code()) {
				return true
			}
		}
		return false
	}, 5*time.Second, 50*time.Millisecond, "passcode mail should be delivered")
}

func (s *OtpSuite) TestReissueOverwrites() {
	body := fmt.Sprintf(`{"email": %q}`, fixtures.ValidEmail)

	rec := s.do(http.MethodPost, "/v1/otp", body)
	s.Require().Equal(http.StatusOK, rec.Code)
	first := s.devCode(fixtures.ValidEmail)

	rec = s.do(http.MethodPost, "/v1/otp", body)
	s.Require().Equal(http.StatusOK, rec.Code)
	second := s.devCode(fixtures.ValidEmail)

	// the old code is gone, only the newest one verifies
	if first != second {
		rec = s.do(http.MethodPost, "/v1/otp/verify",
			fmt.Sprintf(`{"email": %q, "otp": %q}`, fixtures.ValidEmail, first))
		s.Equal(http.StatusBadRequest, rec.Code)
		s.JSONEq(`{"success": false, "message": "Invalid OTP"}`, rec.Body.String())
	}

	rec = s.do(http.MethodPost, "/v1/otp/verify",
		fmt.Sprintf(`{"email": %q, "otp": %q}`, fixtures.ValidEmail, second))
	s.Equal(http.StatusOK, rec.Code)
}

func (s *OtpSuite) TestVerifyFlow() {
	rec := s.do(http.MethodPost, "/v1/otp",
		fmt.Sprintf(`{"email": %q}`, fixtures.ValidEmail))
	s.Require().Equal(http.StatusOK, rec.Code)

	code := s.devCode(fixtures.ValidEmail)
	verifyBody := fmt.Sprintf(`{"email": %q, "otp": %q}`, fixtures.ValidEmail, code)

	rec = s.do(http.MethodPost, "/v1/otp/verify", verifyBody)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"success": true, "message": "OTP verified successfully"}`, rec.Body.String())

	p, err := s.app.OtpRepo.GetPasscodeByEmail(s.T().Context(), fixtures.ValidEmail)
	s.Require().NoError(err)
	s.Equal(otp.StatusUsed, p.Status())

	rec = s.do(http.MethodPost, "/v1/otp/verify", verifyBody)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.JSONEq(`{"success": false, "message": "OTP already used"}`, rec.Body.String())
}

func (s *OtpSuite) TestVerifyUnknownEmail() {
	rec := s.do(http.MethodPost, "/v1/otp/verify",
		fmt.Sprintf(`{"email": %q, "otp": %q}`, fixtures.ValidSecondEmail, fixtures.ValidCode))

	s.Equal(http.StatusBadRequest, rec.Code)
	s.JSONEq(`{"success": false, "message": "No OTP found for this email"}`, rec.Body.String())
}

func (s *OtpSuite) TestConcurrentConsumption() {
	ctx := s.T().Context()

	p, err := otp.Issue(fixtures.ValidEmail, env.Test)
	s.Require().NoError(err)
	s.Require().NoError(s.app.OtpRepo.SavePasscode(ctx, p))

	const attempts = 8

	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = s.app.OtpRepo.UpdatePasscodeByEmail(ctx, fixtures.ValidEmail,
				func(ctx context.Context, stored *otp.Passcode) error {
					return stored.Verify(p.Code())
				})
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			s.ErrorIs(err, otp.ErrAlreadyUsed)
		}
	}
	s.Equal(1, succeeded)
}
