// internal/requestinfo/requestinfo_test.go
//
// User-agent parsing tests over the real uasurfer parser.

package requestinfo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	chromeUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36"
	googlebotUA = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
)

func TestParseUADesktopBrowser(t *testing.T) {
	ua := parseUA(chromeUA)

	require.Equal(t, "Chrome", ua.Browser)
	require.Equal(t, "macOS", ua.OS)
	require.Equal(t, "Desktop", ua.Device)
	require.False(t, ua.IsBot)
}

func TestParseUABot(t *testing.T) {
	ua := parseUA(googlebotUA)
	require.True(t, ua.IsBot)
}

func TestParseUAEmptyHeader(t *testing.T) {
	ua := parseUA("")
	require.False(t, ua.IsBot)
}

func TestEnrichStoresInfoOnContext(t *testing.T) {
	var got *Info
	h := Enrich(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("User-Agent", chromeUA)
	r.RemoteAddr = "203.0.113.9:4418"
	h.ServeHTTP(httptest.NewRecorder(), r)

	require.NotNil(t, got)
	require.Equal(t, "Chrome", got.UA.Browser)
	require.Equal(t, "203.0.113.9", got.Geo.IP.String())
}

func TestFromContextWithoutEnrich(t *testing.T) {
	require.Nil(t, FromContext(context.Background()))
}
