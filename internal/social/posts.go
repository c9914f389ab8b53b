// internal/social/posts.go
//
// Chorus – feed posts.
//
// Context
//   Posts belong to an author and may reference a catalog track.  The
//   service enforces author state on create (banned and deleted users cannot
//   post), owner scope on mutation, and exposes the active-post check the
//   comment and like services rely on.
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

func postColumns() table.Registry {
	return table.Registry{
		{Key: "id", Label: "ID", Selectable: true, Sortable: true,
			FilterOptions: []table.Condition{table.Equal, table.GreaterThan, table.LessThan}},
		{Key: "user_id", Label: "Author", Selectable: true, Sortable: true,
			FilterOptions: []table.Condition{table.Equal}},
		{Key: "body", Label: "Body", Selectable: true, Searchable: true,
			RequiredOnCreate: true, Editable: true,
			Check:            table.MaxLength("Body", 500)},
		{Key: "track_ref", Label: "Track", Selectable: true, Editable: true,
			FilterOptions: []table.Condition{table.Equal},
			Check:         table.MaxLength("Track", 100)},
		{Key: "deleted", Label: "Deleted", Selectable: true,
			FilterOptions: []table.Condition{table.Equal}},
		{Key: "created_at", Label: "Created", Selectable: true, Sortable: true,
			FilterOptions: []table.Condition{
				table.GreaterThan, table.GreaterThanOrEqual,
				table.LessThan, table.LessThanOrEqual}},
		{Key: "updated_at", Label: "Updated", Selectable: true, Sortable: true},
	}
}

// PostService orchestrates feed posts on top of the engine.
type PostService struct {
	eng   *table.Engine
	users *UserService // set by Wire
	log   *zap.SugaredLogger
}

func NewPostService(db *sqlx.DB) *PostService {
	return &PostService{
		eng: table.New(db, "post", "id", postColumns()),
		log: zap.S().Named("posts"),
	}
}

func (s *PostService) Registry() table.Registry { return s.eng.Columns }

// Create validates the submission, confirms the author may post, inserts,
// and re-reads through Get.
func (s *PostService) Create(ctx context.Context, authorID int64, sub map[string]any) (table.Record, error) {
	if ferr := table.Validate(s.eng.Columns, table.OpCreate, sub); ferr != nil {
		return nil, ferr
	}
	table.TrimStrings(sub)

	if _, err := s.users.RequireActive(ctx, authorID); err != nil {
		return nil, err
	}

	sub["user_id"] = authorID
	sub["deleted"] = false

	id, err := s.eng.Insert(ctx, sub)
	if err != nil {
		return nil, fail.From(err)
	}
	s.log.Infow("post created", "id", id, "author", authorID)
	return s.eng.Get(ctx, id)
}

func (s *PostService) Get(ctx context.Context, id int64) (table.Record, error) {
	return s.eng.Get(ctx, id)
}

// Update applies a partial submission to the caller's own post.
func (s *PostService) Update(ctx context.Context, actorID, id int64, sub map[string]any) (table.Record, error) {
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

// SoftDelete flips the deleted flag on the caller's own post.  Idempotent.
func (s *PostService) SoftDelete(ctx context.Context, actorID, id int64) (bool, error) {
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
	s.log.Infow("post soft-deleted", "id", id, "actor", actorID)
	return true, nil
}

// List excludes soft-deleted posts unless the caller filters the flag.
func (s *PostService) List(ctx context.Context, opts table.Options) (*table.Result, error) {
	opts.Where = defaultNotDeleted(opts.Where)
	return s.eng.List(ctx, opts)
}

func (s *PostService) Count(ctx context.Context, opts table.Options) (int, error) {
	opts.Where = defaultNotDeleted(opts.Where)
	return s.eng.Count(ctx, opts)
}

// Search free-texts across post bodies, keeping the not-deleted base filter.
func (s *PostService) Search(ctx context.Context, term string, opts table.Options) (*table.Result, error) {
	opts.Where = defaultNotDeleted(opts.Where)
	opts.Search = &table.Search{Term: term, Columns: []string{"body"}}
	return s.eng.List(ctx, opts)
}

// RequirePresent fetches a post for cross-entity checks.  A missing post is
// Not Found; a soft-deleted one is Forbidden, with the detail naming the id.
func (s *PostService) RequirePresent(ctx context.Context, id int64) (table.Record, error) {
	rec, err := s.eng.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if recBool(rec, "deleted") {
		return nil, fail.Forbidden(fmt.Sprintf("post %d is deleted", id))
	}
	return rec, nil
}

// requireOwner rejects mutations of rows the actor does not own.
func (s *PostService) requireOwner(ctx context.Context, actorID, id int64) error {
	rec, err := s.eng.Get(ctx, id)
	if err != nil {
		return err
	}
	if recInt64(rec, "user_id") != actorID {
		return fail.Forbidden(fmt.Sprintf("post %d does not belong to user %d", id, actorID))
	}
	return nil
}
