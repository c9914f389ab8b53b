// internal/social/follows.go
//
// Chorus – user follows.
//
// Context
//   A follow is a relation row keyed by the (follower, followee) pair with
//   an active flag, mirroring likes.  The followee must be an active
//   account, and following yourself is rejected outright.
//
//------------------------------------------------------------------------------

package social

import (
	"context"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yanizio/chorus/internal/fail"
	"github.com/yanizio/chorus/internal/table"
)

func followColumns() table.Registry {
	return table.Registry{
		{Key: "id", Label: "ID", Selectable: true, Sortable: true,
			FilterOptions: []table.Condition{table.Equal}},
		{Key: "follower_id", Label: "Follower", Selectable: true,
			FilterOptions: []table.Condition{table.Equal}},
		{Key: "followee_id", Label: "Followee", Selectable: true,
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

// FollowService orchestrates the follow relation on top of the engine.
type FollowService struct {
	eng   *table.Engine
	users *UserService // set by Wire
	log   *zap.SugaredLogger
}

func NewFollowService(db *sqlx.DB) *FollowService {
	return &FollowService{
		eng: table.New(db, "user_follow", "id", followColumns()),
		log: zap.S().Named("follows"),
	}
}

func (s *FollowService) Registry() table.Registry { return s.eng.Columns }

// Toggle sets the actor's follow state for another user.  Safe to repeat
// with the same or opposite desired state.
func (s *FollowService) Toggle(ctx context.Context, actorID, targetID int64, active bool) (table.Record, error) {
	if actorID == targetID {
		return nil, fail.Forbidden("you cannot follow yourself")
	}
	if _, err := s.users.RequireActive(ctx, actorID); err != nil {
		return nil, err
	}
	if _, err := s.users.RequireActive(ctx, targetID); err != nil {
		return nil, err
	}

	err := s.eng.Upsert(ctx,
		map[string]any{"follower_id": actorID, "followee_id": targetID, "active": active},
		map[string]any{"active": active},
	)
	if err != nil {
		return nil, err
	}
	s.log.Debugw("follow toggled", "actor", actorID, "target", targetID, "active", active)

	return s.eng.First(ctx, map[string]table.Filter{
		"follower_id": {Value: actorID},
		"followee_id": {Value: targetID},
	})
}

// Remove hard-deletes the actor's relation row for a target user.
func (s *FollowService) Remove(ctx context.Context, actorID, targetID int64) error {
	rec, err := s.eng.First(ctx, map[string]table.Filter{
		"follower_id": {Value: actorID},
		"followee_id": {Value: targetID},
	})
	if err != nil {
		return err
	}
	return s.eng.Delete(ctx, recInt64(rec, "id"))
}

// Followers pages the active follows pointing at a user.
func (s *FollowService) Followers(ctx context.Context, userID int64, opts table.Options) (*table.Result, error) {
	if opts.Where == nil {
		opts.Where = make(map[string]table.Filter, 2)
	}
	opts.Where["followee_id"] = table.Filter{Value: userID}
	opts.Where["active"] = table.Filter{Value: true}
	return s.eng.List(ctx, opts)
}

// Following pages the active follows a user has made.
func (s *FollowService) Following(ctx context.Context, userID int64, opts table.Options) (*table.Result, error) {
	if opts.Where == nil {
		opts.Where = make(map[string]table.Filter, 2)
	}
	opts.Where["follower_id"] = table.Filter{Value: userID}
	opts.Where["active"] = table.Filter{Value: true}
	return s.eng.List(ctx, opts)
}
