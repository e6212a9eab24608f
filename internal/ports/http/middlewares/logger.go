package middlewares

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}

		t1 := time.Now()
		defer func() {
			l := slog.With(
				slog.String("method", r.Method),
				slog.String("url", fmt.Sprintf("%s://%s%s", scheme, r.Host, r.RequestURI)),
				slog.String("remote_addr", r.RemoteAddr),
				slog.Int("status", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(t1)),
			)

			msg := "HTTP Request Completed"
			switch {
			case ww.Status() >= 500:
				l.ErrorContext(r.Context(), msg)
			case ww.Status() >= 400:
				l.WarnContext(r.Context(), msg)
			default:
				l.InfoContext(r.Context(), msg)
			}
		}()

		next.ServeHTTP(ww, r)
	})
}
