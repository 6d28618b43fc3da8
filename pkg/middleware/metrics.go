package middleware

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"snaplink/pkg/metrics"
)

var idSegment = regexp.MustCompile(`^([0-9a-fA-F]{24}|[0-9a-fA-F-]{36}|\d+)$`)

// Metrics records request count and latency. Path segments that look like ids
// are collapsed so label cardinality stays bounded.
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := wrap(w)

			next.ServeHTTP(wrapped, r)

			metrics.RecordHTTPRequest(r.Method, RouteLabel(r.URL.Path), strconv.Itoa(wrapped.statusCode), time.Since(start).Seconds())
		})
	}
}

func RouteLabel(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segments {
		if idSegment.MatchString(s) || (i > 0 && segments[i-1] == "photographers") {
			segments[i] = ":id"
		}
	}
	return "/" + strings.Join(segments, "/")
}
