package otp

import (
	"net/http"

	"gitlab.com/verimail/otp-backend/pkg/apperr"
)

// Every lookup/match failure here is a client fault and maps to 400, matching
// the public API contract.
var (
	ErrInvalidEmail = apperr.NewInvalid("Invalid email address.")
	ErrMissingInput = apperr.NewInvalid("Email or OTP missing")
	ErrNotFound     = apperr.New(apperr.CodeNotFound, "No OTP found for this email", http.StatusBadRequest)
	ErrCodeMismatch = apperr.New(apperr.CodeInvalid, "Invalid OTP", http.StatusBadRequest)
	ErrAlreadyUsed  = apperr.New(apperr.CodeAlreadyProcessed, "OTP already used", http.StatusBadRequest)
	ErrCodeExpired  = apperr.New(apperr.CodeExpired, "OTP expired", http.StatusBadRequest)
)
