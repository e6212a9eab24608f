// Package smtp sends mail through a plain SMTP relay. Useful for local
// setups like Mailpit where SES credentials are not available.
package smtp

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"gitlab.com/verimail/otp-backend/internal/domain/valueobject/mails"
)

var ErrHostPortRequired = errors.New("smtp host and port are required")

type Client struct {
	addr   string
	sender string
	auth   smtp.Auth
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	// Sender is the From address on every outgoing mail.
	Sender string
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.Host == "" || cfg.Port == 0 {
		return nil, ErrHostPortRequired
	}

	var auth smtp.Auth
	if cfg.Username != "" && cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return &Client{
		addr:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		sender: cfg.Sender,
		auth:   auth,
	}, nil
}

func (c *Client) SendMail(ctx context.Context, payload mails.Payload) error {
	const op = "smtp.Client.SendMail"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	headers := []string{
		fmt.Sprintf("From: %s", c.sender),
		fmt.Sprintf("To: %s", payload.To),
		fmt.Sprintf("Subject: %s", payload.Subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
	}
	raw := strings.Join(headers, "\r\n") + "\r\n\r\n" + payload.Body

	if err := smtp.SendMail(c.addr, c.auth, c.sender, []string{payload.To}, []byte(raw)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
