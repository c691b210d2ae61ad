// Package middleware provides decorators for the transport a dewey caller
// supplies. Each decorator wraps a dewey.Doer and returns another, so they
// compose in any order around the caller's real transport.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/tylermeekel/dewey"
)

// Logging wraps next so every request is logged using slog. It logs the
// start and end of each call, including status, duration and error.
// A nil logger uses slog.Default().
func Logging(next dewey.Doer, logger *slog.Logger) dewey.Doer {
	if logger == nil {
		logger = slog.Default()
	}

	return dewey.DoerFunc(func(req *http.Request) (*http.Response, error) {
		start := time.Now()

		logger.InfoContext(req.Context(), "request started",
			slog.String("method", req.Method),
			slog.String("url", req.URL.String()),
		)

		res, err := next.Do(req)
		duration := time.Since(start)

		if err != nil {
			logger.ErrorContext(req.Context(), "request failed",
				slog.String("method", req.Method),
				slog.String("url", req.URL.String()),
				slog.Duration("duration", duration),
				slog.Any("error", err),
			)
			return nil, err
		}

		logger.InfoContext(req.Context(), "request completed",
			slog.String("method", req.Method),
			slog.String("url", req.URL.String()),
			slog.Int("status", res.StatusCode),
			slog.Duration("duration", duration),
		)
		return res, nil
	})
}
