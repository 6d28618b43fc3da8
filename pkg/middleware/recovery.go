package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	apperrors "snaplink/pkg/errors"
	"snaplink/pkg/logger"
	"snaplink/pkg/metrics"
)

// Recovery turns a panicking handler into a 500 envelope. It sits outside
// RequestLogging, so the request id is read back from the response header.
// http.ErrAbortHandler is re-raised for net/http to handle.
func Recovery(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := wrap(w)
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				route := RouteLabel(r.URL.Path)
				metrics.RecordHTTPAbort("panic", route)
				log.Error("Panic recovered",
					"request_id", w.Header().Get(RequestIDHeader),
					"panic", rec,
					"method", r.Method,
					"route", route,
					"stack", string(debug.Stack()),
				)

				if wrapped.written {
					return
				}
				reject(wrapped, apperrors.Internal("Internal server error", nil))
			}()

			next.ServeHTTP(wrapped, r)
		})
	}
}
