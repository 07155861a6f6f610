package logger

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// AttrsFromCtx lifts trace/span ids out of ctx when a valid span is recorded there.
func AttrsFromCtx(ctx context.Context) []slog.Attr {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return nil
	}
	return []slog.Attr{
		slog.String("trace_id", sc.TraceID().String()),
		slog.String("span_id", sc.SpanID().String()),
	}
}
