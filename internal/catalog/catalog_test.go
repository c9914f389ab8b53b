// internal/catalog/catalog_test.go

package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanizio/chorus/internal/fail"
)

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "blue in green", r.URL.Query().Get("term"))
		require.Equal(t, "5", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[
			{"id":"trk_1","name":"Blue in Green","artist":"Miles Davis","album":"Kind of Blue"}
		]}`))
	}))
	defer srv.Close()

	tracks, err := New(srv.URL).Search(context.Background(), "blue in green", 5)
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	require.Equal(t, "trk_1", tracks[0].Ref)
	require.Equal(t, "Miles Davis", tracks[0].Artist)
}

func TestSearchEmptyTermIsBadRequest(t *testing.T) {
	_, err := New("http://unused").Search(context.Background(), "", 5)
	require.True(t, fail.Is(err, fail.StatusBadRequest))
}

func TestSearchUpstreamErrorIsInternal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Search(context.Background(), "anything", 5)
	require.True(t, fail.Is(err, fail.StatusInternal))
}
