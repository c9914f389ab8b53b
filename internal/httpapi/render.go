// internal/httpapi/render.go
//
// Chorus – HTTP layer: JSON rendering and query-option parsing.
//
// Context
//   Failures render as a fixed envelope `{status, message, details}` with
//   the status code the classification maps to.  Successful payloads render
//   as-is.  Query options for list endpoints come from the query string:
//
//     page, per_page       – pagination window
//     sort, dir            – orderBy (dir: asc or desc)
//     f_<column>           – filter; value is "<condition>:<value>" or a
//                            bare value, which means equality
//     q                    – free-text search term, where supported
//
//------------------------------------------------------------------------------

package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/yanizio/chorus/internal/fail"
	"github.com/yanizio/chorus/internal/metrics"
	"github.com/yanizio/chorus/internal/table"
)

// failureEnvelope is the wire shape of every error response.
type failureEnvelope struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// writeJSON renders payload with the given code.  Encoding failures are
// logged and abandoned; headers are already gone.
func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.S().Errorw("response encode failed", "err", err)
	}
}

// writeFailure classifies err and renders the envelope.  Internal causes are
// logged server-side and never leak to the client.
func writeFailure(w http.ResponseWriter, err error) {
	fe := fail.From(err)
	if fe.Status == fail.StatusInternal {
		zap.S().Errorw("internal failure", "err", fe.Unwrap())
	}
	metrics.FailuresTotal.WithLabelValues(fe.Status.String()).Inc()
	writeJSON(w, fe.Status.HTTPCode(), failureEnvelope{
		Status:  fe.Status.String(),
		Message: fe.Message,
		Details: fe.Details,
	})
}

// decodeBody parses a JSON object body into a loose submission map.
func decodeBody(r *http.Request) (map[string]any, error) {
	var sub map[string]any
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		return nil, fail.BadRequest("request body must be a JSON object")
	}
	return sub, nil
}

// pathID parses a numeric id path parameter.
func pathID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fail.BadRequest("id must be a positive integer")
	}
	return id, nil
}

// parseOptions builds table.Options from the query string.  Filter values
// are passed through as strings; the store compares them in column type.
func parseOptions(r *http.Request) table.Options {
	q := r.URL.Query()

	var opts table.Options
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		opts.PageNo = page
	}
	if per, err := strconv.Atoi(q.Get("per_page")); err == nil {
		opts.ItemsPerPage = per
	}
	if col := q.Get("sort"); col != "" {
		dir := table.Direction(q.Get("dir"))
		if dir == "" {
			dir = table.Descending
		}
		opts.OrderBy = &table.Order{Column: col, Direction: dir}
	}

	for name, vals := range q {
		if !strings.HasPrefix(name, "f_") || len(vals) == 0 {
			continue
		}
		if opts.Where == nil {
			opts.Where = make(map[string]table.Filter)
		}
		key := strings.TrimPrefix(name, "f_")
		cond, value := splitFilter(vals[0])
		opts.Where[key] = table.Filter{Value: value, Condition: cond}
	}
	return opts
}

// splitFilter parses "<condition>:<value>" or a bare value.  Bare values
// keep an empty condition, which the engine treats as equality.
func splitFilter(raw string) (table.Condition, any) {
	i := strings.IndexByte(raw, ':')
	if i < 1 {
		return "", raw
	}
	return table.Condition(raw[:i]), raw[i+1:]
}
