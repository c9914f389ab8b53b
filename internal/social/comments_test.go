// internal/social/comments_test.go

package social

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/yanizio/chorus/internal/fail"
)

const selectPost = `SELECT id, user_id, body, track_ref, deleted, created_at, updated_at FROM post WHERE id = ? LIMIT 1`

const selectComment = `SELECT id, post_id, user_id, body, deleted, created_at, updated_at FROM comment WHERE id = ? LIMIT 1`

var commentCols = []string{
	"id", "post_id", "user_id", "body", "deleted", "created_at", "updated_at",
}

func TestCommentOnDeletedPostIsForbidden(t *testing.T) {
	svcs, mock := newMockServices(t)

	// The post lookup runs first and fails; the author lookup and insert
	// must never happen.
	mock.ExpectQuery(regexp.QuoteMeta(selectPost)).
		WithArgs(int64(17)).WillReturnRows(postRow(17, 2, true))

	_, err := svcs.Comments.Create(context.Background(), 5, map[string]any{
		"post_id": int64(17),
		"body":    "nice track",
	})
	if !fail.Is(err, fail.StatusForbidden) {
		t.Fatalf("err = %v, want forbidden", err)
	}
	if fail.From(err).Details[0] != "post 17 is deleted" {
		t.Errorf("detail = %q", fail.From(err).Details[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected store access: %v", err)
	}
}

func TestCommentCreate(t *testing.T) {
	svcs, mock := newMockServices(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectPost)).
		WithArgs(int64(17)).WillReturnRows(postRow(17, 2, false))
	mock.ExpectQuery(regexp.QuoteMeta(selectUser)).
		WithArgs(int64(5)).WillReturnRows(userRow(5, false, false))

	mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO comment (body, deleted, post_id, user_id) VALUES (?, ?, ?, ?)`,
	)).WithArgs("nice track", false, int64(17), int64(5)).
		WillReturnResult(sqlmock.NewResult(31, 1))

	mock.ExpectQuery(regexp.QuoteMeta(selectComment)).
		WithArgs(int64(31)).
		WillReturnRows(sqlmock.NewRows(commentCols).
			AddRow(31, 17, 5, "nice track", 0, "2026-01-01 00:00:00", "2026-01-01 00:00:00"))

	rec, err := svcs.Comments.Create(context.Background(), 5, map[string]any{
		"post_id": int64(17),
		"body":    "  nice track  ",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if recInt64(rec, "post_id") != 17 || rec["body"] != "nice track" {
		t.Errorf("record = %v", rec)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestCommentUpdateRequiresOwner(t *testing.T) {
	svcs, mock := newMockServices(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectComment)).
		WithArgs(int64(31)).
		WillReturnRows(sqlmock.NewRows(commentCols).
			AddRow(31, 17, 5, "nice track", 0, "2026-01-01 00:00:00", "2026-01-01 00:00:00"))

	// Actor 9 does not own comment 31 (user 5 does).
	_, err := svcs.Comments.Update(context.Background(), 9, 31, map[string]any{"body": "edit"})
	if !fail.Is(err, fail.StatusForbidden) {
		t.Fatalf("err = %v, want forbidden", err)
	}
}

func TestCommentUpdateIgnoresNonEditableColumns(t *testing.T) {
	svcs, mock := newMockServices(t)

	commentRow := func() *sqlmock.Rows {
		return sqlmock.NewRows(commentCols).
			AddRow(31, 17, 5, "nice track", 0, "2026-01-01 00:00:00", "2026-01-01 00:00:00")
	}

	mock.ExpectQuery(regexp.QuoteMeta(selectComment)).
		WithArgs(int64(31)).WillReturnRows(commentRow())

	// Only the editable body may reach SQL; the smuggled user_id must not
	// appear in the SET list.
	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE comment SET body = ?, updated_at = NOW() WHERE id = ?`,
	)).WithArgs("edit", int64(31)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectQuery(regexp.QuoteMeta(selectComment)).
		WithArgs(int64(31)).WillReturnRows(commentRow())

	_, err := svcs.Comments.Update(context.Background(), 5, 31, map[string]any{
		"body":    "edit",
		"user_id": int64(9),
		"post_id": int64(99),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestCommentBodyTooLong(t *testing.T) {
	svcs, mock := newMockServices(t)

	long := make([]byte, 600)
	for i := range long {
		long[i] = 'x'
	}
	_, err := svcs.Comments.Create(context.Background(), 5, map[string]any{
		"post_id": int64(17),
		"body":    string(long),
	})
	if !fail.Is(err, fail.StatusValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
	if fail.From(err).Details[0] != "Body cannot be more than 500 characters" {
		t.Errorf("detail = %q", fail.From(err).Details[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("store touched on invalid submission: %v", err)
	}
}
