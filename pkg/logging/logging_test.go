package logging

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/verimail/otp-backend/pkg/env"
)

func TestSetup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		mode         env.Mode
		debugEnabled bool
	}{
		{name: "test mode logs debug", mode: env.Test, debugEnabled: true},
		{name: "dev mode logs debug", mode: env.Dev, debugEnabled: true},
		{name: "prod mode gates debug", mode: env.Prod, debugEnabled: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger := Setup(tt.mode)
			require.NotNil(t, logger)

			ctx := context.Background()
			assert.Equal(t, tt.debugEnabled, logger.Enabled(ctx, slog.LevelDebug))
			assert.True(t, logger.Enabled(ctx, slog.LevelInfo))
		})
	}
}
