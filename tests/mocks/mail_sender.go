package mocks

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"gitlab.com/verimail/otp-backend/internal/domain/valueobject/mails"
)

type MockMailSender struct {
	mu        sync.Mutex
	sentMails []mails.Payload
	failErr   error
}

func NewMockMailSender() *MockMailSender {
	return &MockMailSender{
		sentMails: make([]mails.Payload, 0),
	}
}

func (m *MockMailSender) SendMail(ctx context.Context, payload mails.Payload) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failErr != nil {
		return m.failErr
	}

	m.sentMails = append(m.sentMails, mails.Payload{
		To:      payload.To,
		Subject: payload.Subject,
		Body:    payload.Body,
	})
	fmt.Printf("Mock mail sent to %s with subject: %s\n", payload.To, payload.Subject)
	fmt.Printf("Mail body: %s\n", payload.Body)
	return nil
}

// FailWith makes every subsequent SendMail return err.
func (m *MockMailSender) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.failErr = err
}

func (m *MockMailSender) GetSentMails() []mails.Payload {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]mails.Payload{}, m.sentMails...)
}

func (m *MockMailSender) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sentMails = make([]mails.Payload, 0)
	m.failErr = nil
}

func (m *MockMailSender) AssertMailSent(t *testing.T, email, subject string) {
	t.Helper()
	for _, sent := range m.GetSentMails() {
		if sent.To == email && strings.Contains(sent.Subject, subject) {
			return
		}
	}
	t.Errorf("Expected mail to %s with subject containing %s not found", email, subject)
}

func (m *MockMailSender) AssertBodyContains(t *testing.T, email, fragment string) {
	t.Helper()
	for _, sent := range m.GetSentMails() {
		if sent.To == email && strings.Contains(sent.Body, fragment) {
			return
		}
	}
	t.Errorf("Expected mail to %s with body containing %q not found", email, fragment)
}
