// internal/social/users.go
//
// Chorus – user accounts.
//
// Context
//   The user service owns the `user` registry and layers account rules on
//   the engine: password hashing on create and password change, conflict
//   translation for the unique email and username columns, ban and
//   soft-delete flags, and the active-account check every other service
//   consults before accepting a write that references a user.
//
//------------------------------------------------------------------------------

package social

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yanizio/chorus/internal/auth"
	"github.com/yanizio/chorus/internal/fail"
	"github.com/yanizio/chorus/internal/table"
)

// userColumns declares the `user` table.  The password hash is deliberately
// not selectable, so no read path can ever leak it.
func userColumns() table.Registry {
	return table.Registry{
		{Key: "id", Label: "ID", Selectable: true, Sortable: true,
			FilterOptions: []table.Condition{table.Equal, table.GreaterThan, table.LessThan}},
		{Key: "username", Label: "Username", Selectable: true, Searchable: true, Sortable: true,
			RequiredOnCreate: true, Editable: true,
			FilterOptions:    []table.Condition{table.Equal},
			Check:            table.MaxLength("Username", 30)},
		{Key: "email", Label: "Email", Selectable: true,
			RequiredOnCreate: true, Editable: true,
			FilterOptions:    []table.Condition{table.Equal},
			Check:            checkEmail},
		{Key: "password", Label: "Password",
			RequiredOnCreate: true, Editable: true,
			Check:            checkPassword},
		{Key: "name", Label: "Name", Selectable: true, Searchable: true, Editable: true,
			Check: table.MaxLength("Name", 60)},
		{Key: "bio", Label: "Bio", Selectable: true, Searchable: true, Editable: true,
			Check: table.MaxLength("Bio", 160)},
		{Key: "banned", Label: "Banned", Selectable: true,
			FilterOptions: []table.Condition{table.Equal}},
		{Key: "deleted", Label: "Deleted", Selectable: true,
			FilterOptions: []table.Condition{table.Equal}},
		{Key: "created_at", Label: "Created", Selectable: true, Sortable: true,
			FilterOptions: []table.Condition{
				table.GreaterThan, table.GreaterThanOrEqual,
				table.LessThan, table.LessThanOrEqual}},
		{Key: "updated_at", Label: "Updated", Selectable: true, Sortable: true},
	}
}

// checkPassword rejects non-string values before the length rule runs, so
// a numeric JSON password fails validation instead of reaching the hasher.
func checkPassword(value any, sub map[string]any) string {
	if _, ok := value.(string); !ok {
		return "Password must be a string"
	}
	return table.MinLength("Password", 8)(value, sub)
}

// checkEmail rejects anything the mail package cannot parse.
func checkEmail(value any, _ map[string]any) string {
	s, _ := value.(string)
	if _, err := mail.ParseAddress(s); err != nil {
		return "Email must be a valid email address"
	}
	return ""
}

// searchableUserColumns is the subset free-text user search spans.
var searchableUserColumns = []string{"username", "name", "bio"}

// UserService orchestrates account operations on top of the engine.
type UserService struct {
	eng   *table.Engine
	prefs *PreferenceService // set by Wire
	log   *zap.SugaredLogger
}

func NewUserService(db *sqlx.DB) *UserService {
	return &UserService{
		eng: table.New(db, "user", "id", userColumns()),
		log: zap.S().Named("users"),
	}
}

// Registry exposes introspection for the schema layer.
func (s *UserService) Registry() table.Registry { return s.eng.Columns }

// Create validates and inserts a new account, hashes the password, seeds
// default preferences, and re-reads the row through Get so the returned
// shape matches every other read path.
func (s *UserService) Create(ctx context.Context, sub map[string]any) (table.Record, error) {
	if ferr := table.Validate(s.eng.Columns, table.OpCreate, sub); ferr != nil {
		return nil, ferr
	}
	table.TrimStrings(sub)

	plain, ok := sub["password"].(string)
	if !ok {
		return nil, fail.Validation([]string{"Password must be a string"})
	}
	hash, err := auth.HashPassword(plain)
	if err != nil {
		return nil, fail.Internal(err)
	}
	sub["password"] = hash
	sub["banned"] = false
	sub["deleted"] = false

	id, err := s.eng.Insert(ctx, sub)
	if err != nil {
		return nil, translateDuplicate(err, "username", "email")
	}
	if err := s.prefs.ensureDefaults(ctx, id); err != nil {
		return nil, err
	}

	s.log.Infow("user created", "id", id)
	return s.eng.Get(ctx, id)
}

// Get returns one account.  The password hash is never part of the output.
func (s *UserService) Get(ctx context.Context, id int64) (table.Record, error) {
	return s.eng.Get(ctx, id)
}

// Update applies a partial submission.  Password changes re-hash; duplicate
// email or username surfaces as a Conflict naming the specific column.
func (s *UserService) Update(ctx context.Context, id int64, sub map[string]any) (table.Record, error) {
	if ferr := table.Validate(s.eng.Columns, table.OpUpdate, sub); ferr != nil {
		return nil, ferr
	}
	table.TrimStrings(sub)

	if raw, present := sub["password"]; present {
		plain, ok := raw.(string)
		if !ok {
			return nil, fail.Validation([]string{"Password must be a string"})
		}
		hash, err := auth.HashPassword(plain)
		if err != nil {
			return nil, fail.Internal(err)
		}
		sub["password"] = hash
	}

	if err := s.eng.Update(ctx, id, sub); err != nil {
		return nil, translateDuplicate(err, "username", "email")
	}
	return s.eng.Get(ctx, id)
}

// SoftDelete flips the deleted flag.  Idempotent: deleting twice reports
// true both times, and the caller always observes the updated flag through
// the re-read.
func (s *UserService) SoftDelete(ctx context.Context, id int64) (bool, error) {
	if err := s.eng.Update(ctx, id, map[string]any{"deleted": true}); err != nil {
		return false, fail.From(err)
	}
	// Re-read through Get so callers observe the updated flag.
	if _, err := s.eng.Get(ctx, id); err != nil {
		return false, err
	}
	s.log.Infow("user soft-deleted", "id", id)
	return true, nil
}

// SetBanned flips the moderation flag.
func (s *UserService) SetBanned(ctx context.Context, id int64, banned bool) (table.Record, error) {
	if err := s.eng.Update(ctx, id, map[string]any{"banned": banned}); err != nil {
		return nil, fail.From(err)
	}
	return s.eng.Get(ctx, id)
}

// List returns one page of accounts.  Unless the caller filters on the
// deleted flag explicitly, soft-deleted accounts are excluded.
func (s *UserService) List(ctx context.Context, opts table.Options) (*table.Result, error) {
	opts.Where = defaultNotDeleted(opts.Where)
	return s.eng.List(ctx, opts)
}

// Count mirrors List without fetching rows.
func (s *UserService) Count(ctx context.Context, opts table.Options) (int, error) {
	opts.Where = defaultNotDeleted(opts.Where)
	return s.eng.Count(ctx, opts)
}

// Search free-texts across username, name, and bio.
func (s *UserService) Search(ctx context.Context, term string, opts table.Options) (*table.Result, error) {
	opts.Where = defaultNotDeleted(opts.Where)
	opts.Search = &table.Search{Term: term, Columns: searchableUserColumns}
	return s.eng.List(ctx, opts)
}

// RequireActive fetches a user and rejects accounts that cannot act or be
// acted upon: soft-deleted or banned.  Not Found and Forbidden propagate
// unchanged to whichever service asked.
func (s *UserService) RequireActive(ctx context.Context, id int64) (table.Record, error) {
	rec, err := s.eng.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if recBool(rec, "deleted") {
		return nil, fail.Forbidden(fmt.Sprintf("user %d is deleted", id))
	}
	if recBool(rec, "banned") {
		return nil, fail.Forbidden(fmt.Sprintf("user %d is banned", id))
	}
	return rec, nil
}

// Login verifies credentials and returns the account row.  A missing
// account and a wrong password produce the same Forbidden, so the response
// does not reveal which address exists.  This is the one read path that
// touches the password column, through its own query rather than the
// engine's selectable set.
func (s *UserService) Login(ctx context.Context, email, password string) (table.Record, error) {
	var row struct {
		ID       int64  `db:"id"`
		Password string `db:"password"`
		Banned   bool   `db:"banned"`
		Deleted  bool   `db:"deleted"`
	}
	const q = `SELECT id, password, banned, deleted FROM user WHERE email = ? LIMIT 1`
	if err := s.eng.DB.GetContext(ctx, &row, q, email); err != nil {
		if table.IsNoRows(err) {
			return nil, fail.Forbidden("incorrect email or password")
		}
		return nil, fail.Internal(err)
	}
	if row.Deleted || !auth.CheckPassword(row.Password, password) {
		return nil, fail.Forbidden("incorrect email or password")
	}
	if row.Banned {
		return nil, fail.Forbidden(fmt.Sprintf("user %d is banned", row.ID))
	}
	return s.eng.Get(ctx, row.ID)
}

// defaultNotDeleted adds deleted = false unless the caller filtered on the
// flag themselves.
func defaultNotDeleted(where map[string]table.Filter) map[string]table.Filter {
	if where == nil {
		where = make(map[string]table.Filter, 1)
	}
	if _, present := where["deleted"]; !present {
		where["deleted"] = table.Filter{Value: false}
	}
	return where
}
