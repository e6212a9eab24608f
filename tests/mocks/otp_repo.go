package mocks

import (
	"context"
	"errors"
	"sync"
	"testing"

	"gitlab.com/verimail/otp-backend/internal/adapters/repos"
	"gitlab.com/verimail/otp-backend/internal/domain/otp"
)

type OtpRepo struct {
	*EventRepo
	dbbyEmail map[string]*otp.Passcode
	mu        sync.Mutex
}

func NewOtpRepo() *OtpRepo {
	return &OtpRepo{
		EventRepo: NewEventRepo(),
		dbbyEmail: make(map[string]*otp.Passcode),
	}
}

func (r *OtpRepo) GetPasscodeByEmail(ctx context.Context, email string) (*otp.Passcode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, exists := r.dbbyEmail[email]; exists {
		return clonePasscode(p), nil
	}
	return nil, repos.ErrNotFound
}

func (r *OtpRepo) SavePasscode(ctx context.Context, p *otp.Passcode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p == nil {
		return errors.New("passcode cannot be nil")
	}

	// issuance overwrites whatever record the email had before
	r.dbbyEmail[p.Email()] = clonePasscode(p)

	r.appendEvents(p.GetUncommittedEvents()...)

	return nil
}

// UpdatePasscodeByEmail mimics the transactional repo: fn runs against a copy
// and an error from fn discards every change the copy accumulated.
func (r *OtpRepo) UpdatePasscodeByEmail(
	ctx context.Context,
	email string,
	fn func(context.Context, *otp.Passcode) error,
) error {
	if fn == nil {
		return errors.New("update function cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, exists := r.dbbyEmail[email]
	if !exists {
		return repos.ErrNotFound
	}

	working := clonePasscode(p)
	if err := fn(ctx, working); err != nil {
		return err
	}

	r.dbbyEmail[email] = working

	r.appendEvents(working.GetUncommittedEvents()...)

	return nil
}

func (r *OtpRepo) SeedPasscode(t *testing.T, p *otp.Passcode) {
	t.Helper()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.dbbyEmail[p.Email()] = clonePasscode(p)
}

func (r *OtpRepo) AssertPasscodeExists(t *testing.T, email string) *otp.Passcode {
	t.Helper()

	r.mu.Lock()
	defer r.mu.Unlock()

	p, exists := r.dbbyEmail[email]
	if !exists {
		t.Errorf("expected passcode for email %s to exist, but it does not", email)
		return nil
	}
	return clonePasscode(p)
}

func (r *OtpRepo) AssertPasscodeNotExists(t *testing.T, email string) *OtpRepo {
	t.Helper()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.dbbyEmail[email]; exists {
		t.Errorf("expected passcode for email %s to not exist, but it does", email)
	}
	return r
}

func clonePasscode(p *otp.Passcode) *otp.Passcode {
	return otp.Rehydrate(otp.RehydrateArgs{
		Email:     p.Email(),
		Code:      p.Code(),
		Status:    p.Status(),
		ExpiresAt: p.ExpiresAt(),
		CreatedAt: p.CreatedAt(),
		UpdatedAt: p.UpdatedAt(),
	})
}
