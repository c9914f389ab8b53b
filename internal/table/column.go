// internal/table/column.go
//
// Chorus – tabular engine: declarative column metadata.
//
// Context
//   Every entity (user, post, comment, like, follow, preference) describes its
//   table as a static Registry of Column values.  The engine is written once
//   against that metadata: validation, filtering, sorting, and selection all
//   consult the Registry at request time, so a column that is not declared
//   filterable can never reach SQL text no matter what a caller sends.
//
// Workflow
//   •  Each service constructs its Registry once, at service construction.
//   •  Validate (validate.go) consumes the create/update subsets.
//   •  buildWhere / buildOrder (query.go) consult FilterOptions and Sortable.
//   •  The executor (executor.go) selects only Selectable columns.
//
// Style
//   Comments follow the house guide: full sentences, two spaces after
//   periods, Oxford commas.
//
//------------------------------------------------------------------------------

package table

// -----------------------------------------------------------------------------
// Filter conditions and sort directions
// -----------------------------------------------------------------------------

// Condition names one comparison a filterable column may permit.  The string
// values double as the public API vocabulary, so handlers pass them through
// untranslated.
type Condition string

const (
	Equal              Condition = "equal"
	GreaterThan        Condition = "greaterThan"
	GreaterThanOrEqual Condition = "greaterThanOrEqual"
	LessThan           Condition = "lessThan"
	LessThanOrEqual    Condition = "lessThanOrEqual"
)

// sqlOperator maps a Condition onto its SQL comparison operator.  Unknown
// conditions return "" and are rejected by buildWhere before SQL is built.
func (c Condition) sqlOperator() string {
	switch c {
	case Equal:
		return "="
	case GreaterThan:
		return ">"
	case GreaterThanOrEqual:
		return ">="
	case LessThan:
		return "<"
	case LessThanOrEqual:
		return "<="
	default:
		return ""
	}
}

// Direction is a sort direction.  Only Ascending and Descending are valid;
// anything else is rejected at request time.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// -----------------------------------------------------------------------------
// Column definition
// -----------------------------------------------------------------------------

// CheckFunc is a per-column value rule.  It receives the candidate value and
// the full submission (so rules may compare sibling fields, e.g. a
// confirmation field), and returns a user-facing violation message, or ""
// when the value is acceptable.
type CheckFunc func(value any, submission map[string]any) string

// Column declares one table column and the operations the engine permits on
// it.  Values are immutable after registry construction.
type Column struct {
	Key   string // SQL identifier, unique within the table.
	Label string // Human-readable name used in violation messages.

	Selectable bool // Included in SELECT lists for get/list output.
	Searchable bool // May participate in free-text search.
	Sortable   bool // May be named in an orderBy request.

	// FilterOptions lists the permitted filter conditions.  A nil or empty
	// slice means the column cannot be filtered at all.
	FilterOptions []Condition

	RequiredOnCreate bool // Must be present, and non-blank, on create.
	Editable         bool // May be supplied on update.

	Check CheckFunc // Optional value rule, may be nil.
}

// filterable reports whether the column permits any filtering.
func (c Column) filterable() bool { return len(c.FilterOptions) > 0 }

// allowsCondition reports whether cond is in the column's permitted set.
func (c Column) allowsCondition(cond Condition) bool {
	for _, fc := range c.FilterOptions {
		if fc == cond {
			return true
		}
	}
	return false
}

// -----------------------------------------------------------------------------
// Registry
// -----------------------------------------------------------------------------

// Registry is the ordered list of column definitions for one table.
type Registry []Column

// Find returns the column with the given key.  The boolean is false when the
// key is not declared.
func (r Registry) Find(key string) (Column, bool) {
	for _, c := range r {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}

// SelectableKeys returns, in declaration order, the keys included in read
// output.  Sensitive columns (password hashes) simply never set Selectable.
func (r Registry) SelectableKeys() []string {
	out := make([]string, 0, len(r))
	for _, c := range r {
		if c.Selectable {
			out = append(out, c.Key)
		}
	}
	return out
}

// CreateSet returns the columns a client may supply on create: everything
// that is required on create or editable later.  Validate treats the
// RequiredOnCreate members as mandatory.
func (r Registry) CreateSet() []Column {
	out := make([]Column, 0, len(r))
	for _, c := range r {
		if c.RequiredOnCreate || c.Editable {
			out = append(out, c)
		}
	}
	return out
}

// UpdateSet returns the columns a client may supply on update.  None are
// mandatory; partial updates are allowed.
func (r Registry) UpdateSet() []Column {
	out := make([]Column, 0, len(r))
	for _, c := range r {
		if c.Editable {
			out = append(out, c)
		}
	}
	return out
}

// SortableColumns returns the keys that may appear in an orderBy request.
// The schema layer uses this to enumerate valid sort values.
func (r Registry) SortableColumns() []string {
	out := make([]string, 0, len(r))
	for _, c := range r {
		if c.Sortable {
			out = append(out, c.Key)
		}
	}
	return out
}

// FilterConditions returns the permitted conditions for one column, or a
// Bad Request failure when the column is unknown or not filterable.  The
// schema layer uses this for enumerations, mirroring request-time rules.
func (r Registry) FilterConditions(key string) ([]Condition, error) {
	col, ok := r.Find(key)
	if !ok || !col.filterable() {
		return nil, badFilterColumn(key)
	}
	return col.FilterOptions, nil
}
