package postgres

import (
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
)

var (
	tracer = otel.Tracer("otp-backend/adapters/repos/postgres")
	logger = otelslog.NewLogger("otp-backend/adapters/repos/postgres")
)
