package otelx

import "context"

type OtelTracePropagator interface {
	Propagate(ctx context.Context)
}
