// internal/config/model.go
//
// Typed configuration model for Chorus.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                          – dotenv values,
//   • `conf/chorus.yaml`                       – primary static file,
//   • `CHORUS_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client *before* validation, so the model never stores
// Vault URIs—only plain strings.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`—Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.

package config

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
}

//
// Database section
//

// Database holds the DSN template and its secret.  The template stays in
// YAML so operators can tweak host, port, or flags without touching Vault;
// the password arrives as a `vault:` reference and is injected at runtime.
type Database struct {
	DSN      string `koanf:"dsn"      validate:"required"`
	Password string `koanf:"password" validate:"required"`
}

//
// Auth section
//

// Auth holds bearer-token settings.  TokenSecret is normally a `vault:`
// reference; TokenTTLMinutes defaults to a day when unset.
type Auth struct {
	TokenSecret     string `koanf:"token_secret" validate:"required"`
	TokenTTLMinutes int    `koanf:"token_ttl_minutes"`
}

//
// Catalog section
//

// Catalog points at the external music-metadata search API.
type Catalog struct {
	BaseURL string `koanf:"base_url" validate:"required,url"`
}

//
// Log and Geo sections
//

// Log selects the logger level.
type Log struct {
	Level string `koanf:"level"`
}

// Geo optionally points at a MaxMind database for access-log enrichment.
// Empty means geolocation is skipped.
type Geo struct {
	DBPath string `koanf:"db_path"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime—never set in YAML or env.  The loader
// discovers `Root` (repo root or CHORUS_ROOT override) so later code can
// build absolute file paths.
type Paths struct {
	Root string
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	Auth     Auth     `koanf:"auth"`
	Catalog  Catalog  `koanf:"catalog"`
	Log      Log      `koanf:"log"`
	Geo      Geo      `koanf:"geo"`
	Paths    Paths    `koanf:"-"`
}
