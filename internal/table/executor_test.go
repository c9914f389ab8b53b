// internal/table/executor_test.go
//
// Executor tests using sqlmock.  Expectations are unordered because List
// issues its page and count queries concurrently.

package table

import (
	"context"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/yanizio/chorus/internal/fail"
)

func newMockEngine(t *testing.T) (*Engine, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	mock.MatchExpectationsInOrder(false)

	eng := New(sqlx.NewDb(db, "sqlmock"), "post", "id", testRegistry())
	return eng, mock
}

func pageRows(n int) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "username", "body", "bio"})
	for i := 1; i <= n; i++ {
		rows.AddRow(i, fmt.Sprintf("user%d", i), "hello", "")
	}
	return rows
}

func TestListFirstOfTwoPages(t *testing.T) {
	eng, mock := newMockEngine(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, username, body, bio FROM post ORDER BY id DESC LIMIT ? OFFSET ?`,
	)).WithArgs(5, 0).WillReturnRows(pageRows(5))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM post`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(10))

	res, err := eng.List(context.Background(), Options{ItemsPerPage: 5, PageNo: 1})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(res.Data) != 5 {
		t.Fatalf("rows = %d, want 5", len(res.Data))
	}
	p := res.Pagination
	if p.CurrentPage != 1 || p.ItemsPerPage != 5 || p.TotalPages != 2 ||
		p.TotalRecords != 10 || p.NextPage == nil || *p.NextPage != 2 || p.PrevPage != nil {
		t.Fatalf("pagination = %+v", p)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestListBeyondLastPageEchoesWindow(t *testing.T) {
	eng, mock := newMockEngine(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, username, body, bio FROM post ORDER BY id DESC LIMIT ? OFFSET ?`,
	)).WithArgs(10000, 9990000).WillReturnRows(pageRows(0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM post`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(10))

	res, err := eng.List(context.Background(), Options{ItemsPerPage: 10000, PageNo: 1000})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(res.Data) != 0 {
		t.Fatalf("rows = %d, want 0", len(res.Data))
	}
	p := res.Pagination
	if p.CurrentPage != 1000 || p.ItemsPerPage != 10000 || p.TotalPages != 1 ||
		p.TotalRecords != 10 || p.NextPage != nil || p.PrevPage != nil {
		t.Fatalf("pagination = %+v", p)
	}
}

func TestListAppliesValidatedFilter(t *testing.T) {
	eng, mock := newMockEngine(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, username, body, bio FROM post WHERE id > ? ORDER BY id ASC LIMIT ? OFFSET ?`,
	)).WithArgs(100, 10, 10).WillReturnRows(pageRows(3))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM post WHERE id > ?`)).
		WithArgs(100).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(13))

	res, err := eng.List(context.Background(), Options{
		Where:        map[string]Filter{"id": {Value: 100, Condition: GreaterThan}},
		ItemsPerPage: 10,
		PageNo:       2,
		OrderBy:      &Order{Column: "id", Direction: Ascending},
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if res.Pagination.TotalRecords != 13 {
		t.Fatalf("pagination = %+v", res.Pagination)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestListShortCircuitsOnBadFilter(t *testing.T) {
	eng, mock := newMockEngine(t)
	// No ExpectQuery: a bad filter must never reach the store.

	_, err := eng.List(context.Background(), Options{
		Where: map[string]Filter{"bio": {Value: "x"}},
	})
	if !fail.Is(err, fail.StatusBadRequest) {
		t.Fatalf("err = %v, want bad request", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("query issued despite invalid filter: %v", err)
	}
}

func TestCountIgnoresPaginationWindow(t *testing.T) {
	eng, mock := newMockEngine(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM post`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(10))

	// Out-of-range window values are normalized away, same as List.
	total, err := eng.Count(context.Background(), Options{PageNo: -3, ItemsPerPage: 0})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if total != 10 {
		t.Fatalf("total = %d, want 10", total)
	}
}

func TestGetMissingRowIsNotFound(t *testing.T) {
	eng, mock := newMockEngine(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, username, body, bio FROM post WHERE id = ? LIMIT 1`,
	)).WithArgs(99).WillReturnRows(pageRows(0))

	_, err := eng.Get(context.Background(), 99)
	if !fail.Is(err, fail.StatusNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestInsertReturnsNewKey(t *testing.T) {
	eng, mock := newMockEngine(t)

	mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO post (body, username) VALUES (?, ?)`,
	)).WithArgs("hi", "ada").WillReturnResult(sqlmock.NewResult(42, 1))

	id, err := eng.Insert(context.Background(), map[string]any{"username": "ada", "body": "hi"})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if id != 42 {
		t.Fatalf("id = %d, want 42", id)
	}
}

func TestUpdateTouchesTimestampEvenWhenEmpty(t *testing.T) {
	eng, mock := newMockEngine(t)

	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE post SET updated_at = NOW() WHERE id = ?`,
	)).WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 1))

	if err := eng.Update(context.Background(), 7, map[string]any{}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestUpsertUsesDuplicateKeyUpdate(t *testing.T) {
	eng, mock := newMockEngine(t)

	mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO post (body, username) VALUES (?, ?) ON DUPLICATE KEY UPDATE bio = ?, updated_at = NOW()`,
	)).WithArgs("b", "a", "c").WillReturnResult(sqlmock.NewResult(1, 1))

	err := eng.Upsert(context.Background(),
		map[string]any{"username": "a", "body": "b"},
		map[string]any{"bio": "c"},
	)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
}
