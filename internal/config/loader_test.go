// internal/config/loader_test.go

package config

import "testing"

func TestParseVaultRef(t *testing.T) {
	cases := []struct {
		in         string
		path, key  string
		ok         bool
	}{
		{"vault:secret/data/chorus#db_password", "secret/data/chorus", "db_password", true},
		{"plain-password", "", "", false},
		{"vault:missing-key#", "", "", false},
		{"vault:#key", "", "", false},
	}
	for _, tc := range cases {
		path, key, ok := parseVaultRef(tc.in)
		if path != tc.path || key != tc.key || ok != tc.ok {
			t.Errorf("parseVaultRef(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tc.in, path, key, ok, tc.path, tc.key, tc.ok)
		}
	}
}

func TestDSNInjectsPassword(t *testing.T) {
	c := &Config{}
	c.Database.DSN = "chorus:%s@tcp(db:3306)/chorus?parseTime=true"
	c.Database.Password = "s3cret"
	want := "chorus:s3cret@tcp(db:3306)/chorus?parseTime=true"
	if got := c.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}

	// Templates without a verb pass through untouched.
	c.Database.DSN = "chorus@tcp(db:3306)/chorus"
	if got := c.DSN(); got != c.Database.DSN {
		t.Errorf("DSN() = %q, want %q", got, c.Database.DSN)
	}
}
