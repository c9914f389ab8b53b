// internal/table/query.go
//
// Chorus – tabular engine: predicate and sort construction.
//
// Context
//   Callers describe what they want as a loose where map, an optional
//   free-text search, and an orderBy request.  This file validates each part
//   against the Registry and emits parameterized SQL fragments.  Column
//   identifiers only ever come from the Registry, never from caller input,
//   so the fragments are safe to splice into query text.
//
// Workflow
//   •  buildWhere validates every entry before any SQL is assembled, and a
//      single bad entry fails the whole request.
//   •  Search terms become per-column LIKE comparisons joined with OR, then
//      ANDed with the base filters (e.g. a not-deleted filter).
//   •  buildOrder falls back to descending primary key when no orderBy is
//      requested.
//
//------------------------------------------------------------------------------

package table

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yanizio/chorus/internal/fail"
)

// -----------------------------------------------------------------------------
// Caller-facing option types
// -----------------------------------------------------------------------------

// Filter is one entry in a where map.  Condition may be empty, which means
// equality.
type Filter struct {
	Value     any
	Condition Condition
}

// Order names a sort column and direction.
type Order struct {
	Column    string
	Direction Direction
}

// Search requests free-text matching of Term across the named columns, each
// of which must be declared Searchable.
type Search struct {
	Term    string
	Columns []string
}

// Options carries everything a single list or count call needs.  The zero
// value lists page one of ten rows in default order.
type Options struct {
	Where        map[string]Filter
	Search       *Search
	ItemsPerPage int    // default 10
	PageNo       int    // 1-indexed, default 1
	OrderBy      *Order // default: descending primary key
}

// normalize applies the documented defaults without mutating the caller's
// struct.
func (o Options) normalize() Options {
	if o.ItemsPerPage < 1 {
		o.ItemsPerPage = 10
	}
	if o.PageNo < 1 {
		o.PageNo = 1
	}
	return o
}

// -----------------------------------------------------------------------------
// Failure message helpers
// -----------------------------------------------------------------------------

func badFilterColumn(key string) *fail.Error {
	return fail.BadRequest(fmt.Sprintf("you cannot filter by column: %s", key))
}

func badFilterCondition(key string, cond Condition) *fail.Error {
	return fail.BadRequest(fmt.Sprintf("you cannot filter column %s on condition: %s", key, cond))
}

func badFilterValue(key string) *fail.Error {
	return fail.BadRequest(fmt.Sprintf("you must pass a valid value to filter on column: %s", key))
}

func badSearchColumn(key string) *fail.Error {
	return fail.BadRequest(fmt.Sprintf("you cannot search by column: %s", key))
}

func badSortColumn(key string) *fail.Error {
	return fail.BadRequest(fmt.Sprintf("you cannot sort by column: %s", key))
}

func badSortDirection(dir Direction) *fail.Error {
	return fail.BadRequest(fmt.Sprintf("you cannot sort by direction: %s", dir))
}

// -----------------------------------------------------------------------------
// WHERE construction
// -----------------------------------------------------------------------------

// buildWhere validates the where map and optional search against reg and
// returns a WHERE fragment (without the keyword) plus its arguments.  An
// empty fragment means no constraints.  Map entries are emitted in sorted
// key order so generated SQL is deterministic.
func buildWhere(reg Registry, where map[string]Filter, search *Search) (string, []any, *fail.Error) {
	keys := make([]string, 0, len(where))
	for k := range where {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var (
		parts []string
		args  []any
	)
	for _, key := range keys {
		f := where[key]

		col, ok := reg.Find(key)
		if !ok || !col.filterable() {
			return "", nil, badFilterColumn(key)
		}
		cond := f.Condition
		if cond == "" {
			cond = Equal
		}
		if !col.allowsCondition(cond) {
			return "", nil, badFilterCondition(key, cond)
		}
		if f.Value == nil {
			return "", nil, badFilterValue(key)
		}

		parts = append(parts, fmt.Sprintf("%s %s ?", col.Key, cond.sqlOperator()))
		args = append(args, f.Value)
	}

	if search != nil && search.Term != "" {
		var likes []string
		for _, key := range search.Columns {
			col, ok := reg.Find(key)
			if !ok || !col.Searchable {
				return "", nil, badSearchColumn(key)
			}
			likes = append(likes, fmt.Sprintf("%s LIKE ?", col.Key))
			args = append(args, "%"+search.Term+"%")
		}
		if len(likes) > 0 {
			parts = append(parts, "("+strings.Join(likes, " OR ")+")")
		}
	}

	return strings.Join(parts, " AND "), args, nil
}

// -----------------------------------------------------------------------------
// ORDER BY construction
// -----------------------------------------------------------------------------

// buildOrder validates the orderBy request and returns an ORDER BY fragment
// (without the keywords).  A nil request sorts by primary key, newest first.
func buildOrder(reg Registry, primaryKey string, orderBy *Order) (string, *fail.Error) {
	if orderBy == nil {
		return primaryKey + " DESC", nil
	}

	col, ok := reg.Find(orderBy.Column)
	if !ok || !col.Sortable {
		return "", badSortColumn(orderBy.Column)
	}

	switch orderBy.Direction {
	case Ascending:
		return col.Key + " ASC", nil
	case Descending:
		return col.Key + " DESC", nil
	default:
		return "", badSortDirection(orderBy.Direction)
	}
}
