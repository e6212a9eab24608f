package otelx

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

func RecordSpanError(span trace.Span, err error, desc string) {
	if span == nil || err == nil {
		return
	}
	if desc == "" {
		desc = err.Error()
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, desc)
}

// SetSpanAttrs sets attributes on a span from a map of key-value pairs,
// converting the common Go types to OpenTelemetry attributes.
func SetSpanAttrs(span trace.Span, attrs map[string]any) {
	if span == nil || len(attrs) == 0 {
		return
	}

	spanAttrs := make([]attribute.KeyValue, 0, len(attrs))
	for key, value := range attrs {
		if attr := convertToAttribute(key, value); attr.Valid() {
			spanAttrs = append(spanAttrs, attr)
		}
	}

	if len(spanAttrs) > 0 {
		span.SetAttributes(spanAttrs...)
	}
}

func convertToAttribute(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case nil:
		return attribute.String(key, "<nil>")
	case string:
		return attribute.String(key, v)
	case bool:
		return attribute.Bool(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case []string:
		return attribute.StringSlice(key, v)
	case []byte:
		return attribute.String(key, string(v))
	case time.Time:
		return attribute.String(key, v.Format(time.RFC3339Nano))
	case time.Duration:
		return attribute.String(key, v.String())
	case uuid.UUID:
		return attribute.String(key, v.String())
	case fmt.Stringer:
		return attribute.String(key, v.String())
	case error:
		return attribute.String(key, v.Error())
	default:
		return attribute.String(key, fmt.Sprintf("%v", v))
	}
}
