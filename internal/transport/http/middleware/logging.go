package httpmw

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/footysocial/chat-service/pkg/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger emits one line per request, carrying trace attrs when the
// context holds a recorded span.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		attrs := []any{
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
		}
		for _, a := range logger.AttrsFromCtx(r.Context()) {
			attrs = append(attrs, a)
		}
		slog.Info("http request", attrs...)
	})
}
