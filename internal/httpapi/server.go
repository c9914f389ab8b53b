// internal/httpapi/server.go
//
// Chorus – HTTP server construction and graceful shutdown.
//
// Notes
//   Timeouts are deliberate: slow-read clients cannot hold connections
//   open indefinitely, and idle keep-alives are recycled after a minute.
//
//------------------------------------------------------------------------------

package httpapi

import (
	"context"
	"net/http"
	"time"
)

// NewServer wraps the router in an http.Server with production timeouts.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Shutdown drains in-flight requests with a bounded grace period.
func Shutdown(srv *http.Server, grace time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	return srv.Shutdown(ctx)
}
