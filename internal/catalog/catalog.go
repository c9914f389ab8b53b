// internal/catalog/catalog.go
//
// Chorus – external music-catalog lookups.
//
// Context
//   Posts may reference a track, and the client offers search-as-you-type
//   against a third-party catalog API.  This client is a thin JSON wrapper:
//   no caching, no retries, and failures surface as Internal so the feed
//   itself keeps working when the catalog is down.
//
//------------------------------------------------------------------------------

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/yanizio/chorus/internal/fail"
)

// Track is one catalog search hit.
type Track struct {
	Ref     string `json:"ref"`
	Title   string `json:"title"`
	Artist  string `json:"artist"`
	Album   string `json:"album"`
	Artwork string `json:"artwork,omitempty"`
}

// Client queries one catalog endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

// New constructs a Client with a conservative request timeout.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

// searchResponse mirrors the catalog's wire shape.
type searchResponse struct {
	Results []struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Artist  string `json:"artist"`
		Album   string `json:"album"`
		Artwork string `json:"artwork_url"`
	} `json:"results"`
}

// Search returns up to limit tracks matching term.
func (c *Client) Search(ctx context.Context, term string, limit int) ([]Track, error) {
	if term == "" {
		return nil, fail.BadRequest("you must pass a search term")
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}

	u := fmt.Sprintf("%s/search?term=%s&limit=%d", c.baseURL, url.QueryEscape(term), limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fail.Internal(err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fail.Internal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fail.Internal(fmt.Errorf("catalog returned %d", resp.StatusCode))
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fail.Internal(err)
	}

	out := make([]Track, 0, len(body.Results))
	for _, r := range body.Results {
		out = append(out, Track{
			Ref:     r.ID,
			Title:   r.Name,
			Artist:  r.Artist,
			Album:   r.Album,
			Artwork: r.Artwork,
		})
	}
	return out, nil
}
