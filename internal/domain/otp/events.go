package otp

import "gitlab.com/verimail/otp-backend/internal/domain/event"

const EventStreamName = "events_otp"

// OtpIssued is published once per successful issuance and consumed by the
// mail subscriber. Field names follow the delivery event wire contract.
type OtpIssued struct {
	event.Header
	event.Otel
	Email string `json:"email"`
	Code  string `json:"otp"`
}

func (e *OtpIssued) GetStreamName() string {
	return EventStreamName
}
