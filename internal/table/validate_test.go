// internal/table/validate_test.go

package table

import (
	"strings"
	"testing"

	"github.com/yanizio/chorus/internal/fail"
)

func testRegistry() Registry {
	return Registry{
		{Key: "id", Label: "ID", Selectable: true, Sortable: true,
			FilterOptions: []Condition{Equal, GreaterThan, LessThan}},
		{Key: "username", Label: "Username", Selectable: true, Searchable: true,
			RequiredOnCreate: true, FilterOptions: []Condition{Equal}},
		{Key: "body", Label: "Body", Selectable: true, Searchable: true,
			RequiredOnCreate: true, Editable: true, Check: MaxLength("Body", 500)},
		{Key: "bio", Label: "Bio", Selectable: true, Editable: true,
			Check: MaxLength("Bio", 160)},
		{Key: "password", Label: "Password", RequiredOnCreate: true,
			Check: MinLength("Password", 8)},
	}
}

func TestValidateCreateCollectsEveryViolation(t *testing.T) {
	reg := testRegistry()
	sub := map[string]any{
		"body":     strings.Repeat("x", 600),
		"password": "short",
		// username missing entirely
	}

	ferr := Validate(reg, OpCreate, sub)
	if ferr == nil {
		t.Fatal("expected a validation failure")
	}
	if ferr.Status != fail.StatusValidation {
		t.Fatalf("status = %v, want validation", ferr.Status)
	}

	want := []string{
		"Username is a required field",
		"Body cannot be more than 500 characters",
		"Password must be at least 8 characters",
	}
	if len(ferr.Details) != len(want) {
		t.Fatalf("details = %v, want %v", ferr.Details, want)
	}
	for i, w := range want {
		if ferr.Details[i] != w {
			t.Errorf("detail[%d] = %q, want %q", i, ferr.Details[i], w)
		}
	}
}

func TestValidateRequiredAndCheckBothFire(t *testing.T) {
	reg := Registry{
		{Key: "password", Label: "Password", RequiredOnCreate: true,
			Check: MinLength("Password", 8)},
	}
	// Present but blank: required violation and check violation in one pass.
	ferr := Validate(reg, OpCreate, map[string]any{"password": "   "})
	if ferr == nil || len(ferr.Details) != 2 {
		t.Fatalf("expected two violations, got %+v", ferr)
	}
	if ferr.Details[0] != "Password is a required field" {
		t.Errorf("detail[0] = %q", ferr.Details[0])
	}
}

func TestValidateStripsNullFields(t *testing.T) {
	reg := testRegistry()
	sub := map[string]any{
		"username": "ada",
		"body":     "hello",
		"password": "longenough",
		"bio":      nil, // must not reach the Bio check
	}
	if ferr := Validate(reg, OpCreate, sub); ferr != nil {
		t.Fatalf("unexpected failure: %+v", ferr)
	}
	if _, present := sub["bio"]; present {
		t.Error("nil field survived stripping")
	}
}

func TestValidateUpdateForcesNothingRequired(t *testing.T) {
	reg := testRegistry()

	// Empty submission: partial updates are allowed, nothing to report.
	if ferr := Validate(reg, OpUpdate, map[string]any{}); ferr != nil {
		t.Fatalf("empty update should pass, got %+v", ferr)
	}

	// Checks still run on supplied editable fields.
	ferr := Validate(reg, OpUpdate, map[string]any{"bio": strings.Repeat("y", 200)})
	if ferr == nil || ferr.Details[0] != "Bio cannot be more than 160 characters" {
		t.Fatalf("expected bio length violation, got %+v", ferr)
	}

	// Non-editable fields are outside the update set and are ignored.
	if ferr := Validate(reg, OpUpdate, map[string]any{"username": ""}); ferr != nil {
		t.Fatalf("non-editable field should be ignored, got %+v", ferr)
	}
}

func TestValidateDropsFieldsOutsideOperationSubset(t *testing.T) {
	reg := testRegistry()

	// Create: id is neither required nor editable, so it must not survive.
	sub := map[string]any{
		"id":       99,
		"username": "ada",
		"body":     "hello",
		"password": "longenough",
	}
	if ferr := Validate(reg, OpCreate, sub); ferr != nil {
		t.Fatalf("unexpected failure: %+v", ferr)
	}
	if _, present := sub["id"]; present {
		t.Error("non-create field survived restriction")
	}

	// Update: only editable columns may pass through.
	sub = map[string]any{
		"id":       99,
		"username": "mallory",
		"bio":      "new bio",
	}
	if ferr := Validate(reg, OpUpdate, sub); ferr != nil {
		t.Fatalf("unexpected failure: %+v", ferr)
	}
	if _, present := sub["id"]; present {
		t.Error("primary key survived restriction on update")
	}
	if _, present := sub["username"]; present {
		t.Error("non-editable field survived restriction on update")
	}
	if sub["bio"] != "new bio" {
		t.Errorf("editable field lost: %v", sub["bio"])
	}
}

func TestMatchesField(t *testing.T) {
	reg := Registry{
		{Key: "password", Label: "Password", RequiredOnCreate: true},
		{Key: "password_confirm", Label: "Password confirmation", RequiredOnCreate: true,
			Check: MatchesField("Password confirmation", "password", "Password")},
	}
	ferr := Validate(reg, OpCreate, map[string]any{
		"password":         "hunter22",
		"password_confirm": "hunter23",
	})
	if ferr == nil || ferr.Details[0] != "Password confirmation must match Password" {
		t.Fatalf("expected mismatch violation, got %+v", ferr)
	}
}

func TestTrimStrings(t *testing.T) {
	sub := map[string]any{"username": "  ada  ", "age": 33}
	TrimStrings(sub)
	if sub["username"] != "ada" {
		t.Errorf("username = %q", sub["username"])
	}
	if sub["age"] != 33 {
		t.Errorf("non-string mutated: %v", sub["age"])
	}
}
