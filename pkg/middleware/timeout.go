package middleware

import (
	"bytes"
	"context"
	"net/http"
	"sync"
	"time"

	apperrors "snaplink/pkg/errors"
	"snaplink/pkg/logger"
	"snaplink/pkg/metrics"
)

// bufferedWriter holds a handler's response until the handler returns, so a
// handler that overruns its deadline never races the 504 on the real writer.
type bufferedWriter struct {
	mu       sync.Mutex
	header   http.Header
	body     bytes.Buffer
	status   int
	timedOut bool
}

func newBufferedWriter() *bufferedWriter {
	return &bufferedWriter{header: make(http.Header)}
}

func (bw *bufferedWriter) Header() http.Header {
	return bw.header
}

func (bw *bufferedWriter) WriteHeader(code int) {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	if bw.status == 0 {
		bw.status = code
	}
}

func (bw *bufferedWriter) Write(b []byte) (int, error) {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	if bw.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	if bw.status == 0 {
		bw.status = http.StatusOK
	}
	return bw.body.Write(b)
}

func (bw *bufferedWriter) flush(w http.ResponseWriter) {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	for k, v := range bw.header {
		w.Header()[k] = v
	}
	if bw.status == 0 {
		bw.status = http.StatusOK
	}
	w.WriteHeader(bw.status)
	_, _ = w.Write(bw.body.Bytes())
}

// RequestTimeout bounds each request by timeout. Handlers see the deadline on
// their context; when it passes first the client gets a 504 and whatever the
// handler writes afterwards is discarded. A non-positive timeout disables it.
func RequestTimeout(timeout time.Duration, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			r = r.WithContext(ctx)

			bw := newBufferedWriter()
			done := make(chan struct{})
			panicked := make(chan any, 1)
			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicked <- p
					}
				}()
				next.ServeHTTP(bw, r)
				close(done)
			}()

			select {
			case p := <-panicked:
				panic(p)
			case <-done:
				bw.flush(w)
			case <-ctx.Done():
				bw.mu.Lock()
				bw.timedOut = true
				bw.mu.Unlock()

				route := RouteLabel(r.URL.Path)
				metrics.RecordHTTPAbort("timeout", route)
				logger.FromContext(ctx, log).Warn("Request deadline exceeded",
					"method", r.Method,
					"route", route,
					"timeout", timeout,
				)
				reject(w, apperrors.Timeout("request timed out"))
			}
		})
	}
}
