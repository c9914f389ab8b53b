//
//  internal/requestinfo/middleware.go
//
//  Enrich parses the user-agent and client address once per request and
//  stores the result on the context for the access-log middleware.
//

package requestinfo

import (
	"context"
	"net"
	"net/http"
	"time"
)

// Enrich is standard net/http middleware.  It never fails a request: a
// missing or unparseable header just yields zero-valued fields.
func Enrich(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := &Info{
			UA:        parseUA(r.UserAgent()),
			Geo:       lookupGeo(clientIP(r)),
			Timestamp: time.Now(),
		}
		ctx := context.WithValue(r.Context(), ctxKey{}, info)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientIP extracts the direct peer address, ignoring forwarding chains.
func clientIP(r *http.Request) net.IP {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return net.ParseIP(host)
}
