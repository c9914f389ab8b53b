// internal/table/query_test.go

package table

import (
	"strings"
	"testing"

	"github.com/yanizio/chorus/internal/fail"
)

func expectBadRequest(t *testing.T, ferr *fail.Error, wantDetail string) {
	t.Helper()
	if ferr == nil {
		t.Fatal("expected a bad-request failure")
	}
	if ferr.Status != fail.StatusBadRequest {
		t.Fatalf("status = %v, want bad request", ferr.Status)
	}
	if len(ferr.Details) != 1 || ferr.Details[0] != wantDetail {
		t.Fatalf("details = %v, want [%q]", ferr.Details, wantDetail)
	}
}

func TestBuildWhereRejectsUnfilterableColumn(t *testing.T) {
	reg := testRegistry()
	// bio exists but declares no filter options.
	_, _, ferr := buildWhere(reg, map[string]Filter{"bio": {Value: "x"}}, nil)
	expectBadRequest(t, ferr, "you cannot filter by column: bio")

	// Unknown columns get the same rejection.
	_, _, ferr = buildWhere(reg, map[string]Filter{"nope": {Value: 1}}, nil)
	expectBadRequest(t, ferr, "you cannot filter by column: nope")
}

func TestBuildWhereRejectsOutOfSetCondition(t *testing.T) {
	reg := testRegistry()
	_, _, ferr := buildWhere(reg, map[string]Filter{
		"username": {Value: "ada", Condition: GreaterThan},
	}, nil)
	expectBadRequest(t, ferr, "you cannot filter column username on condition: greaterThan")
}

func TestBuildWhereRejectsNilValue(t *testing.T) {
	reg := testRegistry()
	_, _, ferr := buildWhere(reg, map[string]Filter{"id": {Value: nil}}, nil)
	expectBadRequest(t, ferr, "you must pass a valid value to filter on column: id")
}

func TestBuildWhereDefaultsToEquality(t *testing.T) {
	reg := testRegistry()
	clause, args, ferr := buildWhere(reg, map[string]Filter{"username": {Value: "ada"}}, nil)
	if ferr != nil {
		t.Fatalf("unexpected failure: %+v", ferr)
	}
	if clause != "username = ?" {
		t.Errorf("clause = %q", clause)
	}
	if len(args) != 1 || args[0] != "ada" {
		t.Errorf("args = %v", args)
	}
}

func TestBuildWhereCombinesWithAND(t *testing.T) {
	reg := testRegistry()
	clause, args, ferr := buildWhere(reg, map[string]Filter{
		"username": {Value: "ada"},
		"id":       {Value: 100, Condition: GreaterThan},
	}, nil)
	if ferr != nil {
		t.Fatalf("unexpected failure: %+v", ferr)
	}
	// Entries emit in sorted key order: id before username.
	if clause != "id > ? AND username = ?" {
		t.Errorf("clause = %q", clause)
	}
	if len(args) != 2 || args[0] != 100 || args[1] != "ada" {
		t.Errorf("args = %v", args)
	}
}

func TestBuildWhereSearchORsAcrossColumns(t *testing.T) {
	reg := testRegistry()
	clause, args, ferr := buildWhere(reg,
		map[string]Filter{"id": {Value: 5, Condition: GreaterThan}},
		&Search{Term: "jazz", Columns: []string{"username", "body"}},
	)
	if ferr != nil {
		t.Fatalf("unexpected failure: %+v", ferr)
	}
	if clause != "id > ? AND (username LIKE ? OR body LIKE ?)" {
		t.Errorf("clause = %q", clause)
	}
	if len(args) != 3 || args[1] != "%jazz%" || args[2] != "%jazz%" {
		t.Errorf("args = %v", args)
	}
}

func TestBuildWhereSearchRejectsUnsearchableColumn(t *testing.T) {
	reg := testRegistry()
	_, _, ferr := buildWhere(reg, nil, &Search{Term: "x", Columns: []string{"bio"}})
	expectBadRequest(t, ferr, "you cannot search by column: bio")
}

func TestBuildOrder(t *testing.T) {
	reg := testRegistry()

	// Default: descending primary key.
	order, ferr := buildOrder(reg, "id", nil)
	if ferr != nil || order != "id DESC" {
		t.Fatalf("default order = %q, err %+v", order, ferr)
	}

	order, ferr = buildOrder(reg, "id", &Order{Column: "id", Direction: Ascending})
	if ferr != nil || order != "id ASC" {
		t.Fatalf("order = %q, err %+v", order, ferr)
	}

	_, ferr = buildOrder(reg, "id", &Order{Column: "body", Direction: Ascending})
	expectBadRequest(t, ferr, "you cannot sort by column: body")

	_, ferr = buildOrder(reg, "id", &Order{Column: "id", Direction: "sideways"})
	expectBadRequest(t, ferr, "you cannot sort by direction: sideways")
}

func TestRegistryIntrospection(t *testing.T) {
	reg := testRegistry()

	sortable := reg.SortableColumns()
	if len(sortable) != 1 || sortable[0] != "id" {
		t.Errorf("SortableColumns = %v", sortable)
	}

	conds, err := reg.FilterConditions("id")
	if err != nil || len(conds) != 3 {
		t.Errorf("FilterConditions(id) = %v, %v", conds, err)
	}

	if _, err := reg.FilterConditions("bio"); err == nil {
		t.Error("FilterConditions(bio) should fail")
	}

	keys := reg.SelectableKeys()
	if strings.Join(keys, ",") != "id,username,body,bio" {
		t.Errorf("SelectableKeys = %v", keys)
	}
}
