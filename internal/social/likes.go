// internal/social/likes.go
//
// Chorus – post likes.
//
// Context
//   A like is a relation row keyed by the (user, post) pair with an active
//   flag, so unliking keeps the row and flips the flag.  The table carries a
//   UNIQUE KEY on the pair and the toggle goes through the engine's upsert,
//   so two concurrent toggles for the same pair converge on one row instead
//   of racing a lookup-then-act window.
//
//------------------------------------------------------------------------------

package social

import (
	"context"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yanizio/chorus/internal/table"
)

func likeColumns() table.Registry {
	return table.Registry{
		{Key: "id", Label: "ID", Selectable: true, Sortable: true,
			FilterOptions: []table.Condition{table.Equal}},
		{Key: "user_id", Label: "User", Selectable: true,
			FilterOptions: []table.Condition{table.Equal}},
		{Key: "post_id", Label: "Post", Selectable: true,
			FilterOptions: []table.Condition{table.Equal}},
		{Key: "active", Label: "Active", Selectable: true,
			FilterOptions: []table.Condition{table.Equal}},
		{Key: "created_at", Label: "Created", Selectable: true, Sortable: true,
			FilterOptions: []table.Condition{
				table.GreaterThan, table.GreaterThanOrEqual,
				table.LessThan, table.LessThanOrEqual}},
		{Key: "updated_at", Label: "Updated", Selectable: true},
	}
}

// LikeService orchestrates the like relation on top of the engine.
type LikeService struct {
	eng   *table.Engine
	users *UserService // set by Wire
	posts *PostService // set by Wire
	log   *zap.SugaredLogger
}

func NewLikeService(db *sqlx.DB) *LikeService {
	return &LikeService{
		eng: table.New(db, "user_like", "id", likeColumns()),
		log: zap.S().Named("likes"),
	}
}

func (s *LikeService) Registry() table.Registry { return s.eng.Columns }

// Toggle sets the actor's like state for a post.  Safe to call repeatedly
// with the same or opposite desired state; exactly one relation row exists
// per pair afterward.  The resulting row is returned.
func (s *LikeService) Toggle(ctx context.Context, actorID, postID int64, active bool) (table.Record, error) {
	if _, err := s.users.RequireActive(ctx, actorID); err != nil {
		return nil, err
	}
	if _, err := s.posts.RequirePresent(ctx, postID); err != nil {
		return nil, err
	}

	err := s.eng.Upsert(ctx,
		map[string]any{"user_id": actorID, "post_id": postID, "active": active},
		map[string]any{"active": active},
	)
	if err != nil {
		return nil, err
	}
	s.log.Debugw("like toggled", "actor", actorID, "post", postID, "active", active)

	return s.eng.First(ctx, map[string]table.Filter{
		"user_id": {Value: actorID},
		"post_id": {Value: postID},
	})
}

// Remove hard-deletes the actor's relation row for a post.  Relation rows
// are the one place hard deletes are allowed.
func (s *LikeService) Remove(ctx context.Context, actorID, postID int64) error {
	rec, err := s.eng.First(ctx, map[string]table.Filter{
		"user_id": {Value: actorID},
		"post_id": {Value: postID},
	})
	if err != nil {
		return err
	}
	return s.eng.Delete(ctx, recInt64(rec, "id"))
}

// CountForPost returns the number of active likes on a post.
func (s *LikeService) CountForPost(ctx context.Context, postID int64) (int, error) {
	return s.eng.Count(ctx, table.Options{Where: map[string]table.Filter{
		"post_id": {Value: postID},
		"active":  {Value: true},
	}})
}

// List pages relation rows; callers usually filter by user or post.
func (s *LikeService) List(ctx context.Context, opts table.Options) (*table.Result, error) {
	return s.eng.List(ctx, opts)
}
