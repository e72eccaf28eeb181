package http

import (
	"context"
	"net/http"
	"time"

	"github.com/tamaslaszlototh/parking-management-system/internal/events"
	"go.uber.org/zap"
)

// RequestLogger logs basic request details and latency.
func RequestLogger(next http.Handler, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// OutboxFlusher drains a request's event outbox after the response.
type OutboxFlusher interface {
	Flush(ctx context.Context, outbox *events.Outbox)
}

// EventualConsistency installs a per-request event outbox and flushes it
// once the handler has written its response. The flush runs on a
// non-cancellable context so a client disconnect cannot abort the cascade
// mid-flight.
func EventualConsistency(next http.Handler, flusher OutboxFlusher) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		outbox := events.NewOutbox()
		ctx := events.NewContext(r.Context(), outbox)
		next.ServeHTTP(w, r.WithContext(ctx))

		if outbox.Len() == 0 {
			return
		}
		flusher.Flush(context.WithoutCancel(r.Context()), outbox)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
