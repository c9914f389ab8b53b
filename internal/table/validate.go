// internal/table/validate.go
//
// Chorus – tabular engine: submission validation.
//
// Context
//   Create and update submissions arrive as loose maps.  Validate checks a
//   submission against the registry subset for the operation and reports
//   every violation found in one pass, so a client fixing a form sees the
//   complete list rather than one failure per round-trip.
//
// Workflow
//   •  Null fields are stripped first, so an omitted optional field never
//      reaches a Check rule.
//   •  Each column may contribute up to two violations in the same pass: a
//      required-field violation and, independently, a Check violation.
//   •  On any violation the whole list is returned as a Validation failure;
//      the store is never touched.
//
//------------------------------------------------------------------------------

package table

import (
	"fmt"
	"strings"

	"github.com/yanizio/chorus/internal/fail"
)

// Create and Update select the registry subset and the required-field rules
// that Validate applies.
type Operation int

const (
	OpCreate Operation = iota
	OpUpdate
)

// Validate checks submission against the registry subset for op.  It returns
// nil when the submission is acceptable, or a Validation failure listing
// every violation found.  The submission is mutated as a side effect:
// nil-valued fields are removed, and so is every field outside the
// operation's column subset, so nothing a client smuggles in (a primary key,
// an ownership column, a server-managed flag) can ever reach a write.
// Services inject their own trusted fields after Validate returns.
func Validate(reg Registry, op Operation, submission map[string]any) *fail.Error {
	stripNulls(submission)

	cols := reg.CreateSet()
	if op == OpUpdate {
		cols = reg.UpdateSet()
	}
	restrictTo(cols, submission)

	var violations []string
	for _, col := range cols {
		required := op == OpCreate && col.RequiredOnCreate

		val, present := submission[col.Key]
		if !present {
			if required {
				violations = append(violations, requiredViolation(col))
			}
			continue
		}

		// A present but blank value still violates a required rule.  The
		// Check rule runs independently, so one column can contribute both
		// messages in the same pass.
		if required && isBlank(val) {
			violations = append(violations, requiredViolation(col))
		}
		if col.Check != nil {
			if msg := col.Check(val, submission); msg != "" {
				violations = append(violations, msg)
			}
		}
	}

	if len(violations) > 0 {
		return fail.Validation(violations)
	}
	return nil
}

// stripNulls removes nil-valued fields in place.
func stripNulls(submission map[string]any) {
	for k, v := range submission {
		if v == nil {
			delete(submission, k)
		}
	}
}

// restrictTo removes every submission field that is not in the operation's
// column subset.  The registry gates writes: a key the subset does not name
// must never survive to SQL.
func restrictTo(cols []Column, submission map[string]any) {
	allowed := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		allowed[c.Key] = struct{}{}
	}
	for k := range submission {
		if _, ok := allowed[k]; !ok {
			delete(submission, k)
		}
	}
}

// isBlank reports whether the trimmed string form of v has zero length.
func isBlank(v any) bool {
	return strings.TrimSpace(fmt.Sprintf("%v", v)) == ""
}

func requiredViolation(col Column) string {
	return fmt.Sprintf("%s is a required field", col.Label)
}

// TrimStrings trims whitespace from every string-valued field in place.
// Services call this after validation so stored values match what get/list
// returns.
func TrimStrings(submission map[string]any) {
	for k, v := range submission {
		if s, ok := v.(string); ok {
			submission[k] = strings.TrimSpace(s)
		}
	}
}

// MaxLength returns a CheckFunc enforcing a rune-count ceiling with the
// conventional message, e.g. "Body cannot be more than 500 characters".
func MaxLength(label string, max int) CheckFunc {
	return func(value any, _ map[string]any) string {
		s, ok := value.(string)
		if !ok {
			s = fmt.Sprintf("%v", value)
		}
		if len([]rune(s)) > max {
			return fmt.Sprintf("%s cannot be more than %d characters", label, max)
		}
		return ""
	}
}

// MinLength returns a CheckFunc enforcing a rune-count floor.
func MinLength(label string, min int) CheckFunc {
	return func(value any, _ map[string]any) string {
		s, ok := value.(string)
		if !ok {
			s = fmt.Sprintf("%v", value)
		}
		if len([]rune(s)) < min {
			return fmt.Sprintf("%s must be at least %d characters", label, min)
		}
		return ""
	}
}

// MatchesField returns a CheckFunc requiring the value to equal another
// submission field, e.g. a password confirmation.
func MatchesField(label, otherKey, otherLabel string) CheckFunc {
	return func(value any, submission map[string]any) string {
		if value != submission[otherKey] {
			return fmt.Sprintf("%s must match %s", label, otherLabel)
		}
		return ""
	}
}
