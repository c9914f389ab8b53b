// internal/social/comments.go
//
// Chorus – comments on posts.
//
// Context
//   A comment references a post and an author.  Create checks both: the
//   target post must exist and must not be soft-deleted, and the author must
//   be an active account.  Failures from those sibling lookups propagate
//   unchanged, so a deleted target post surfaces as the same Forbidden the
//   post service raised.
//
//------------------------------------------------------------------------------

package social

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yanizio/chorus/internal/fail"
	"github.com/yanizio/chorus/internal/table"
)

func commentColumns() table.Registry {
	return table.Registry{
		{Key: "id", Label: "ID", Selectable: true, Sortable: true,
			FilterOptions: []table.Condition{table.Equal, table.GreaterThan, table.LessThan}},
		{Key: "post_id", Label: "Post", Selectable: true, Sortable: true,
			RequiredOnCreate: true,
			FilterOptions:    []table.Condition{table.Equal}},
		{Key: "user_id", Label: "Author", Selectable: true,
			FilterOptions: []table.Condition{table.Equal}},
		{Key: "body", Label: "Body", Selectable: true, Searchable: true,
			RequiredOnCreate: true, Editable: true,
			Check:            table.MaxLength("Body", 500)},
		{Key: "deleted", Label: "Deleted", Selectable: true,
			FilterOptions: []table.Condition{table.Equal}},
		{Key: "created_at", Label: "Created", Selectable: true, Sortable: true,
			FilterOptions: []table.Condition{
				table.GreaterThan, table.GreaterThanOrEqual,
				table.LessThan, table.LessThanOrEqual}},
		{Key: "updated_at", Label: "Updated", Selectable: true},
	}
}

// CommentService orchestrates comments on top of the engine.
type CommentService struct {
	eng   *table.Engine
	users *UserService // set by Wire
	posts *PostService // set by Wire
	log   *zap.SugaredLogger
}

func NewCommentService(db *sqlx.DB) *CommentService {
	return &CommentService{
		eng: table.New(db, "comment", "id", commentColumns()),
		log: zap.S().Named("comments"),
	}
}

func (s *CommentService) Registry() table.Registry { return s.eng.Columns }

// Create validates, resolves the target post and author, inserts, and
// re-reads through Get.
func (s *CommentService) Create(ctx context.Context, authorID int64, sub map[string]any) (table.Record, error) {
	if ferr := table.Validate(s.eng.Columns, table.OpCreate, sub); ferr != nil {
		return nil, ferr
	}
	table.TrimStrings(sub)

	postID := submittedInt64(sub, "post_id")
	if _, err := s.posts.RequirePresent(ctx, postID); err != nil {
		return nil, err
	}
	if _, err := s.users.RequireActive(ctx, authorID); err != nil {
		return nil, err
	}

	sub["post_id"] = postID
	sub["user_id"] = authorID
	sub["deleted"] = false

	id, err := s.eng.Insert(ctx, sub)
	if err != nil {
		return nil, fail.From(err)
	}
	s.log.Infow("comment created", "id", id, "post", postID, "author", authorID)
	return s.eng.Get(ctx, id)
}

func (s *CommentService) Get(ctx context.Context, id int64) (table.Record, error) {
	return s.eng.Get(ctx, id)
}

// Update applies a partial submission to the caller's own comment.
func (s *CommentService) Update(ctx context.Context, actorID, id int64, sub map[string]any) (table.Record, error) {
	if err := s.requireOwner(ctx, actorID, id); err != nil {
		return nil, err
	}
	if ferr := table.Validate(s.eng.Columns, table.OpUpdate, sub); ferr != nil {
		return nil, ferr
	}
	table.TrimStrings(sub)

	if err := s.eng.Update(ctx, id, sub); err != nil {
		return nil, fail.From(err)
	}
	return s.eng.Get(ctx, id)
}

// SoftDelete flips the deleted flag on the caller's own comment.
func (s *CommentService) SoftDelete(ctx context.Context, actorID, id int64) (bool, error) {
	if err := s.requireOwner(ctx, actorID, id); err != nil {
		return false, err
	}
	if err := s.eng.Update(ctx, id, map[string]any{"deleted": true}); err != nil {
		return false, fail.From(err)
	}
	// Re-read through Get so callers observe the updated flag.
	if _, err := s.eng.Get(ctx, id); err != nil {
		return false, err
	}
	return true, nil
}

// List excludes soft-deleted comments unless the caller filters the flag.
func (s *CommentService) List(ctx context.Context, opts table.Options) (*table.Result, error) {
	opts.Where = defaultNotDeleted(opts.Where)
	return s.eng.List(ctx, opts)
}

func (s *CommentService) Count(ctx context.Context, opts table.Options) (int, error) {
	opts.Where = defaultNotDeleted(opts.Where)
	return s.eng.Count(ctx, opts)
}

// ListForPost pages the comments under one post, oldest first by default.
func (s *CommentService) ListForPost(ctx context.Context, postID int64, opts table.Options) (*table.Result, error) {
	if opts.Where == nil {
		opts.Where = make(map[string]table.Filter, 2)
	}
	opts.Where["post_id"] = table.Filter{Value: postID}
	if opts.OrderBy == nil {
		opts.OrderBy = &table.Order{Column: "created_at", Direction: table.Ascending}
	}
	return s.List(ctx, opts)
}

func (s *CommentService) requireOwner(ctx context.Context, actorID, id int64) error {
	rec, err := s.eng.Get(ctx, id)
	if err != nil {
		return err
	}
	if recInt64(rec, "user_id") != actorID {
		return fail.Forbidden(fmt.Sprintf("comment %d does not belong to user %d", id, actorID))
	}
	return nil
}

// submittedInt64 reads an id field from a raw submission, tolerating the
// numeric shapes JSON decoding produces.
func submittedInt64(sub map[string]any, key string) int64 {
	switch v := sub[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}
