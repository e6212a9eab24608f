package otp

import (
	"net/mail"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"gitlab.com/verimail/otp-backend/internal/domain/event"
	"gitlab.com/verimail/otp-backend/pkg/env"
	"gitlab.com/verimail/otp-backend/pkg/randcode"
)

var emailRx = regexp.MustCompile(
	`^[a-zA-Z0-9._%+\-]+@` + // local part
		`(?:[A-Za-z0-9](?:[A-Za-z0-9-]{0,61}[A-Za-z0-9])?\.)+` + // labels
		`[A-Za-z]{2,63}$`) // TLD

const (
	CodeLength     = 6
	TTL            = 5 * time.Minute
	MaxEmailLength = 254
)

type Status string

func (s Status) String() string {
	return string(s)
}

const (
	StatusUnused Status = "unused"
	StatusUsed   Status = "used"
)

// Passcode is the one-time passcode issued for an email address. The email is
// the natural key; issuing again for the same email supersedes the old record.
type Passcode struct {
	event.Recorder
	email     string
	code      string
	status    Status
	expiresAt time.Time
	createdAt time.Time
	updatedAt time.Time
}

// Issue validates the email, draws a fresh numeric code and records an
// OtpIssued event for async delivery. Validation failures report ErrInvalidEmail
// before any side effect.
func Issue(email string, mode env.Mode) (*Passcode, error) {
	if email == "" || len(email) > MaxEmailLength {
		return nil, ErrInvalidEmail
	}
	if !emailRx.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if (mode == env.Dev || mode == env.Prod) && !hasRealTLD(email) {
		return nil, ErrInvalidEmail
	}

	code, err := randcode.GenerateNumericCode(CodeLength)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	p := &Passcode{
		email:     email,
		code:      code,
		status:    StatusUnused,
		expiresAt: now.Add(TTL),
		createdAt: now,
		updatedAt: now,
	}

	p.AddEvent(&OtpIssued{
		Header: event.NewEventHeader(),
		Email:  email,
		Code:   code,
	})

	return p, nil
}

type RehydrateArgs struct {
	Email     string
	Code      string
	Status    Status
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func Rehydrate(args RehydrateArgs) *Passcode {
	return &Passcode{
		email:     args.Email,
		code:      args.Code,
		status:    args.Status,
		expiresAt: args.ExpiresAt,
		createdAt: args.CreatedAt,
		updatedAt: args.UpdatedAt,
	}
}

// Verify checks the submitted code and consumes the passcode. The checks run
// in a fixed order: mismatch, already used, expired. The expiry check is
// deliberate even though the record may still be stored as unused.
func (p *Passcode) Verify(code string) error {
	if p.code != code {
		return ErrCodeMismatch
	}
	if p.status == StatusUsed {
		return ErrAlreadyUsed
	}
	if time.Now().After(p.expiresAt) {
		return ErrCodeExpired
	}

	p.status = StatusUsed
	p.updatedAt = time.Now().UTC()
	return nil
}

func (p *Passcode) IsExpired() bool {
	if p == nil || p.expiresAt.IsZero() {
		return true
	}
	return time.Now().After(p.expiresAt)
}

func (p *Passcode) Email() string {
	if p == nil {
		return ""
	}
	return p.email
}

func (p *Passcode) Code() string {
	if p == nil {
		return ""
	}
	return p.code
}

func (p *Passcode) Status() Status {
	if p == nil {
		return ""
	}
	return p.status
}

func (p *Passcode) ExpiresAt() time.Time {
	if p == nil {
		return time.Time{}
	}
	return p.expiresAt
}

func (p *Passcode) CreatedAt() time.Time {
	if p == nil {
		return time.Time{}
	}
	return p.createdAt
}

func (p *Passcode) UpdatedAt() time.Time {
	if p == nil {
		return time.Time{}
	}
	return p.updatedAt
}

func hasRealTLD(addr string) bool {
	parsed, err := mail.ParseAddress(addr)
	if err != nil {
		return false
	}

	at := strings.LastIndexByte(parsed.Address, '@')
	domain := parsed.Address[at+1:]

	suffix, icann := publicsuffix.PublicSuffix(domain)

	// If the suffix is the entire domain there is no registrable part, so
	// "localhost", "internal", etc. fail here.
	return icann && suffix != domain
}
