// internal/social/preferences.go
//
// Chorus – per-user preferences.
//
// Context
//   Every account owns exactly one preference row, seeded with defaults when
//   the account is created.  There is no direct create API: callers only
//   read and update, and an empty update still succeeds and refreshes the
//   last-modified timestamp.
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

var allowedThemes = map[string]bool{"light": true, "dark": true, "system": true}

func checkTheme(value any, _ map[string]any) string {
	s, _ := value.(string)
	if !allowedThemes[s] {
		return "Theme must be one of: light, dark, system"
	}
	return ""
}

func preferenceColumns() table.Registry {
	return table.Registry{
		{Key: "id", Label: "ID", Selectable: true, Sortable: true,
			FilterOptions: []table.Condition{table.Equal}},
		{Key: "user_id", Label: "User", Selectable: true,
			FilterOptions: []table.Condition{table.Equal}},
		{Key: "theme", Label: "Theme", Selectable: true, Editable: true,
			Check: checkTheme},
		{Key: "locale", Label: "Locale", Selectable: true, Editable: true,
			Check: table.MaxLength("Locale", 10)},
		{Key: "private", Label: "Private profile", Selectable: true, Editable: true},
		{Key: "email_digest", Label: "Email digest", Selectable: true, Editable: true},
		{Key: "created_at", Label: "Created", Selectable: true},
		{Key: "updated_at", Label: "Updated", Selectable: true},
	}
}

// PreferenceService orchestrates the one-row-per-user preference table.
type PreferenceService struct {
	eng *table.Engine
	log *zap.SugaredLogger
}

func NewPreferenceService(db *sqlx.DB) *PreferenceService {
	return &PreferenceService{
		eng: table.New(db, "preference", "id", preferenceColumns()),
		log: zap.S().Named("preferences"),
	}
}

func (s *PreferenceService) Registry() table.Registry { return s.eng.Columns }

// ensureDefaults seeds the row for a new account.  The unique user_id key
// makes this idempotent: re-running only refreshes the timestamp.
func (s *PreferenceService) ensureDefaults(ctx context.Context, userID int64) error {
	return s.eng.Upsert(ctx,
		map[string]any{
			"user_id":      userID,
			"theme":        "system",
			"locale":       "en",
			"private":      false,
			"email_digest": true,
		},
		map[string]any{},
	)
}

// ForUser returns a user's preference row.
func (s *PreferenceService) ForUser(ctx context.Context, userID int64) (table.Record, error) {
	return s.eng.First(ctx, map[string]table.Filter{
		"user_id": {Value: userID},
	})
}

// Update applies a partial submission to the caller's own row.  An empty
// submission succeeds, returning the unchanged record with a refreshed
// last-modified timestamp.
func (s *PreferenceService) Update(ctx context.Context, userID int64, sub map[string]any) (table.Record, error) {
	if ferr := table.Validate(s.eng.Columns, table.OpUpdate, sub); ferr != nil {
		return nil, ferr
	}
	table.TrimStrings(sub)

	rec, err := s.ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.eng.Update(ctx, recInt64(rec, "id"), sub); err != nil {
		return nil, fail.From(err)
	}
	return s.ForUser(ctx, userID)
}
