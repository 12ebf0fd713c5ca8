package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// deadlineWriter suppresses handler writes that land after the timeout
// response has gone out, so a slow handler cannot corrupt the reply.
type deadlineWriter struct {
	http.ResponseWriter
	mu      sync.Mutex
	expired bool
	replied bool
}

func (dw *deadlineWriter) WriteHeader(code int) {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	if dw.expired || dw.replied {
		return
	}
	dw.replied = true
	dw.ResponseWriter.WriteHeader(code)
}

func (dw *deadlineWriter) Write(b []byte) (int, error) {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	if dw.expired {
		return 0, http.ErrHandlerTimeout
	}
	dw.replied = true
	return dw.ResponseWriter.Write(b)
}

// expire marks the deadline as passed and reports whether the timeout
// response still needs to be written.
func (dw *deadlineWriter) expire() bool {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	dw.expired = true
	if dw.replied {
		return false
	}
	dw.replied = true
	return true
}

// RequestTimeout bounds each request with a context deadline and answers 503
// if the handler has not produced a response in time.
func RequestTimeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			dw := &deadlineWriter{ResponseWriter: w}

			done := make(chan struct{})
			go func() {
				defer close(done)
				next.ServeHTTP(dw, r.WithContext(ctx))
			}()

			select {
			case <-done:
			case <-ctx.Done():
				if dw.expire() {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusServiceUnavailable)
					_, _ = w.Write([]byte(`{"error":"Request timeout"}`))
				}
			}
		})
	}
}
