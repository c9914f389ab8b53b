// internal/social/service.go
//
// Chorus – entity services: shared wiring and record helpers.
//
// Context
//   One service per entity composes the tabular engine with entity-specific
//   orchestration: cross-entity existence checks, soft-delete flags, and
//   uniqueness-conflict translation.  Services hold references to their
//   siblings (a comment checks its post, a follow checks its target user),
//   so Wire builds the whole family at once against one *sqlx.DB.
//
// Notes
//   •  Composition over inheritance: every service holds an Engine, none
//      embeds another service.
//   •  Records are generic maps straight from the engine; the helpers below
//      normalize the driver's integer and boolean shapes.
//
//------------------------------------------------------------------------------

package social

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/yanizio/chorus/internal/fail"
	"github.com/yanizio/chorus/internal/table"
)

// Services bundles every entity service wired against one database pool.
type Services struct {
	Users       *UserService
	Posts       *PostService
	Comments    *CommentService
	Likes       *LikeService
	Follows     *FollowService
	Preferences *PreferenceService
}

// Wire constructs the full service family.
func Wire(db *sqlx.DB) *Services {
	s := &Services{
		Users:       NewUserService(db),
		Posts:       NewPostService(db),
		Comments:    NewCommentService(db),
		Likes:       NewLikeService(db),
		Follows:     NewFollowService(db),
		Preferences: NewPreferenceService(db),
	}

	// Sibling references for cross-entity checks.
	s.Users.prefs = s.Preferences
	s.Posts.users = s.Users
	s.Comments.users = s.Users
	s.Comments.posts = s.Posts
	s.Likes.users = s.Users
	s.Likes.posts = s.Posts
	s.Follows.users = s.Users

	return s
}

// -----------------------------------------------------------------------------
// Record helpers
// -----------------------------------------------------------------------------

// recInt64 reads an integer column from a record regardless of the shape the
// driver returned it in.
func recInt64(rec table.Record, key string) int64 {
	switch v := rec[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case []byte:
		n, _ := strconv.ParseInt(string(v), 10, 64)
		return n
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	default:
		return 0
	}
}

// recBool reads a boolean column (TINYINT in MySQL) from a record.
func recBool(rec table.Record, key string) bool {
	switch v := rec[key].(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case int:
		return v != 0
	case []byte:
		return len(v) > 0 && v[0] != '0'
	case string:
		return v != "" && v != "0"
	default:
		return false
	}
}

// -----------------------------------------------------------------------------
// Conflict translation
// -----------------------------------------------------------------------------

// translateDuplicate converts a MySQL duplicate-key error into a Conflict
// naming the violated column.  Candidate columns are matched against the
// driver's key name, longest first, so the most specific column wins when
// one name contains another.  Non-duplicate errors pass through classified
// as usual.
func translateDuplicate(err error, columns ...string) error {
	var me *mysql.MySQLError
	if !errors.As(err, &me) || me.Number != 1062 {
		return fail.From(err)
	}

	sorted := append([]string(nil), columns...)
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
	for _, col := range sorted {
		if strings.Contains(me.Message, col) {
			return fail.Conflict(col + " is already taken")
		}
	}
	return fail.Conflict("record already exists")
}
