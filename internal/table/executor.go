// internal/table/executor.go
//
// Chorus – tabular engine: query execution over sqlx.
//
// Context
//   Engine binds one Registry to one table and primary key and executes the
//   constrained queries the rest of the engine produces.  It owns no state
//   between calls; every method is a request-scoped round trip on the shared
//   *sqlx.DB pool.
//
// Workflow
//   •  List issues the windowed page fetch and the count as two independent
//      read queries in parallel, and waits for both.  The count is always a
//      COUNT(*) query, never a full fetch.
//   •  A validation failure from the predicate or sort builder short-circuits
//      before either query is issued.
//   •  Rows come back as generic maps so the engine stays ignorant of entity
//      shapes; services layer typed behavior on top.
//
//------------------------------------------------------------------------------

package table

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"

	"github.com/yanizio/chorus/internal/fail"
	"github.com/yanizio/chorus/internal/metrics"
)

// Record is one row, keyed by column name.  Only Selectable columns appear.
type Record map[string]any

// Result combines one page of rows with its navigation metadata.
type Result struct {
	Data       []Record   `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Engine executes registry-constrained queries against a single table.
type Engine struct {
	DB      *sqlx.DB
	Table   string
	Key     string // primary key column
	Columns Registry
}

// New constructs an Engine.  The registry must declare the primary key.
func New(db *sqlx.DB, tableName, primaryKey string, columns Registry) *Engine {
	return &Engine{DB: db, Table: tableName, Key: primaryKey, Columns: columns}
}

// selectList returns the comma-joined Selectable column list.
func (e *Engine) selectList() string {
	return strings.Join(e.Columns.SelectableKeys(), ", ")
}

// -----------------------------------------------------------------------------
// Reads
// -----------------------------------------------------------------------------

// List fetches one page of rows plus the total count under the same filter.
// The page fetch and the count run concurrently; a failure in either aborts
// the call.
func (e *Engine) List(ctx context.Context, opts Options) (*Result, error) {
	opts = opts.normalize()

	where, args, ferr := buildWhere(e.Columns, opts.Where, opts.Search)
	if ferr != nil {
		return nil, ferr
	}
	order, ferr := buildOrder(e.Columns, e.Key, opts.OrderBy)
	if ferr != nil {
		return nil, ferr
	}

	pageQ := fmt.Sprintf("SELECT %s FROM %s", e.selectList(), e.Table)
	countQ := fmt.Sprintf("SELECT COUNT(*) FROM %s", e.Table)
	if where != "" {
		pageQ += " WHERE " + where
		countQ += " WHERE " + where
	}
	pageQ += fmt.Sprintf(" ORDER BY %s LIMIT ? OFFSET ?", order)

	offset := (opts.PageNo - 1) * opts.ItemsPerPage
	pageArgs := append(append([]any{}, args...), opts.ItemsPerPage, offset)

	var (
		rows  []Record
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = e.queryRecords(gctx, pageQ, pageArgs)
		return err
	})
	g.Go(func() error {
		return e.DB.GetContext(gctx, &total, countQ, args...)
	})
	if err := g.Wait(); err != nil {
		return nil, fail.Internal(err)
	}
	metrics.EngineQueries.WithLabelValues(e.Table, "list").Inc()

	return &Result{
		Data:       rows,
		Pagination: Paginate(total, opts.PageNo, opts.ItemsPerPage),
	}, nil
}

// Count returns the number of rows matching the filter, ignoring pagination
// and sort.
func (e *Engine) Count(ctx context.Context, opts Options) (int, error) {
	opts = opts.normalize()

	where, args, ferr := buildWhere(e.Columns, opts.Where, opts.Search)
	if ferr != nil {
		return 0, ferr
	}

	q := fmt.Sprintf("SELECT COUNT(*) FROM %s", e.Table)
	if where != "" {
		q += " WHERE " + where
	}

	var total int
	if err := e.DB.GetContext(ctx, &total, q, args...); err != nil {
		return 0, fail.Internal(err)
	}
	metrics.EngineQueries.WithLabelValues(e.Table, "count").Inc()
	return total, nil
}

// Get fetches one row by primary key.  Missing rows surface as Not Found.
func (e *Engine) Get(ctx context.Context, id any) (Record, error) {
	q := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ? LIMIT 1", e.selectList(), e.Table, e.Key)
	return e.one(ctx, q, id)
}

// First fetches the first row matching a validated where map, in default
// order.  Missing rows surface as Not Found.  Services use this for
// unique-key lookups (a username, a relation pair).
func (e *Engine) First(ctx context.Context, where map[string]Filter) (Record, error) {
	clause, args, ferr := buildWhere(e.Columns, where, nil)
	if ferr != nil {
		return nil, ferr
	}
	q := fmt.Sprintf("SELECT %s FROM %s", e.selectList(), e.Table)
	if clause != "" {
		q += " WHERE " + clause
	}
	q += fmt.Sprintf(" ORDER BY %s DESC LIMIT 1", e.Key)
	return e.one(ctx, q, args...)
}

func (e *Engine) one(ctx context.Context, q string, args ...any) (Record, error) {
	rows, err := e.queryRecords(ctx, q, args)
	if err != nil {
		return nil, fail.Internal(err)
	}
	metrics.EngineQueries.WithLabelValues(e.Table, "get").Inc()
	if len(rows) == 0 {
		return nil, fail.NotFound(fmt.Sprintf("no %s record found", e.Table))
	}
	return rows[0], nil
}

// queryRecords runs q and scans every row into a generic map.
func (e *Engine) queryRecords(ctx context.Context, q string, args []any) ([]Record, error) {
	rws, err := e.DB.QueryxContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rws.Close()

	out := make([]Record, 0, 16)
	for rws.Next() {
		rec := make(Record)
		if err := rws.MapScan(rec); err != nil {
			return nil, err
		}
		normalizeRecord(rec)
		out = append(out, rec)
	}
	return out, rws.Err()
}

// normalizeRecord converts driver []byte values to string so records JSON-
// encode as text rather than base64.
func normalizeRecord(rec Record) {
	for k, v := range rec {
		if b, ok := v.([]byte); ok {
			rec[k] = string(b)
		}
	}
}

// -----------------------------------------------------------------------------
// Writes
// -----------------------------------------------------------------------------

// Insert writes one row from a submission map and returns the new primary
// key.  Fields are emitted in sorted key order so generated SQL is
// deterministic.
func (e *Engine) Insert(ctx context.Context, submission map[string]any) (int64, error) {
	keys := make([]string, 0, len(submission))
	for k := range submission {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cols := make([]string, 0, len(keys))
	marks := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for _, k := range keys {
		cols = append(cols, k)
		marks = append(marks, "?")
		args = append(args, submission[k])
	}

	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		e.Table, strings.Join(cols, ", "), strings.Join(marks, ", "))

	res, err := e.DB.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err // services translate duplicate-key errors
	}
	metrics.EngineQueries.WithLabelValues(e.Table, "insert").Inc()
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fail.Internal(err)
	}
	return id, nil
}

// Update applies the supplied fields to one row and touches updated_at.  An
// empty submission still refreshes updated_at, so callers observe a new
// last-modified timestamp either way.
func (e *Engine) Update(ctx context.Context, id any, submission map[string]any) error {
	keys := make([]string, 0, len(submission))
	for k := range submission {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sets := make([]string, 0, len(keys)+1)
	args := make([]any, 0, len(keys)+1)
	for _, k := range keys {
		sets = append(sets, k+" = ?")
		args = append(args, submission[k])
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	q := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", e.Table, strings.Join(sets, ", "), e.Key)

	res, err := e.DB.ExecContext(ctx, q, args...)
	if err != nil {
		return err // services translate duplicate-key errors
	}
	metrics.EngineQueries.WithLabelValues(e.Table, "update").Inc()

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// MySQL reports 0 affected rows both for a missing id and for a
		// no-change update, so confirm existence before reporting Not Found.
		if _, gerr := e.Get(ctx, id); gerr != nil {
			return gerr
		}
	}
	return nil
}

// Delete removes one row outright.  Only relation tables (likes, follows)
// use this; everything else soft-deletes through Update.
func (e *Engine) Delete(ctx context.Context, id any) error {
	q := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", e.Table, e.Key)
	if _, err := e.DB.ExecContext(ctx, q, id); err != nil {
		return fail.Internal(err)
	}
	metrics.EngineQueries.WithLabelValues(e.Table, "delete").Inc()
	return nil
}

// Upsert inserts a relation row or, when the table's unique key already
// holds a row for the pair, applies the update fields to it.  Backed by
// INSERT ... ON DUPLICATE KEY UPDATE so two concurrent toggles for the same
// pair cannot create duplicate rows.
func (e *Engine) Upsert(ctx context.Context, insert, update map[string]any) error {
	ikeys := make([]string, 0, len(insert))
	for k := range insert {
		ikeys = append(ikeys, k)
	}
	sort.Strings(ikeys)
	ukeys := make([]string, 0, len(update))
	for k := range update {
		ukeys = append(ukeys, k)
	}
	sort.Strings(ukeys)

	cols := make([]string, 0, len(ikeys))
	marks := make([]string, 0, len(ikeys))
	args := make([]any, 0, len(ikeys)+len(ukeys))
	for _, k := range ikeys {
		cols = append(cols, k)
		marks = append(marks, "?")
		args = append(args, insert[k])
	}
	sets := make([]string, 0, len(ukeys)+1)
	for _, k := range ukeys {
		sets = append(sets, k+" = ?")
		args = append(args, update[k])
	}
	sets = append(sets, "updated_at = NOW()")

	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON DUPLICATE KEY UPDATE %s",
		e.Table, strings.Join(cols, ", "), strings.Join(marks, ", "), strings.Join(sets, ", "))

	if _, err := e.DB.ExecContext(ctx, q, args...); err != nil {
		return fail.Internal(err)
	}
	metrics.EngineQueries.WithLabelValues(e.Table, "upsert").Inc()
	return nil
}

// IsNoRows reports whether err is the driver's empty-result sentinel.
func IsNoRows(err error) bool { return errors.Is(err, sql.ErrNoRows) }
