// internal/httpapi/middleware.go
//
// Chorus – HTTP layer: request-id, access-log, and bearer-auth middleware.
//
// Context
//   Every request gets a request id (echoed in X-Request-Id) and one access
//   log line carrying latency, status, and the user-agent and geo fields
//   the requestinfo middleware collected.  Bearer auth is opt-in per route
//   group: it resolves the acting user id and stores it on the context for
//   owner-scoped mutations.
//
//------------------------------------------------------------------------------

package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yanizio/chorus/internal/auth"
	"github.com/yanizio/chorus/internal/fail"
	"github.com/yanizio/chorus/internal/metrics"
	"github.com/yanizio/chorus/internal/requestinfo"
)

type actorKey struct{}

// actorID returns the authenticated user id, or 0 when the bearer
// middleware has not run.
func actorID(ctx context.Context) int64 {
	id, _ := ctx.Value(actorKey{}).(int64)
	return id
}

// requestID tags each request with a UUID and echoes it back.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response code for the access log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// accessLog writes one structured line per request and feeds the latency
// histogram.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		fields := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"elapsed_ms", elapsed.Milliseconds(),
			"request_id", w.Header().Get("X-Request-Id"),
		}
		if info := requestinfo.FromContext(r.Context()); info != nil {
			fields = append(fields,
				"browser", info.UA.Browser,
				"os", info.UA.OS,
				"device", info.UA.Device,
				"bot", info.UA.IsBot,
			)
			if info.Geo.CountryISO != "" {
				fields = append(fields, "country", info.Geo.CountryISO)
			}
		}
		zap.S().Named("access").Infow("request", fields...)

		// Label with the chi route pattern, not the raw path, so ids do not
		// mint unbounded metric series.
		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		class := strconv.Itoa(rec.status/100) + "xx"
		metrics.RequestDuration.WithLabelValues(route, class).Observe(elapsed.Seconds())
	})
}

// bearerAuth resolves the Authorization header into an acting user id.
// Requests without a valid token are rejected before the handler runs.
func bearerAuth(tokens *auth.Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if raw == "" || raw == r.Header.Get("Authorization") {
				writeFailure(w, fail.Forbidden("missing bearer token"))
				return
			}
			userID, err := tokens.UserID(raw)
			if err != nil {
				writeFailure(w, fail.Forbidden("invalid bearer token"))
				return
			}
			ctx := context.WithValue(r.Context(), actorKey{}, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
