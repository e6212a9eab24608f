package logging

import (
	"log/slog"
	"os"

	"gitlab.com/verimail/otp-backend/pkg/env"
)

// Setup builds the process-wide logger for the given mode. Prod and dev emit
// JSON for log shipping, everything else stays human-readable text.
func Setup(mode env.Mode) *slog.Logger {
	opts := &slog.HandlerOptions{Level: mode.SlogLevel()}

	var handler slog.Handler
	switch mode {
	case env.Dev, env.Prod:
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
