// internal/vault/vault.go
//
// Vault client wrapper for Chorus.
//
// Context
// -------
//   - Concurrency-safe wrapper around the HashiCorp Vault Go SDK, used by the
//     config loader to resolve `vault:` secret references (database password,
//     token-signing key) before the typed model is validated.
//   - Adds simple KV-v2 helpers and per-key caching so repeated reads of the
//     same secret inside one boot do not hammer the server.
//
// Public workflow
// ---------------
//  1. cli, err := vault.New(ctx)                   // during boot.
//  2. val, err := cli.GetKV(ctx, path, key, ttl)   // anywhere afterward.
//
// Environment expectations
// ------------------------
// • VAULT_ADDR   – scheme and host of the Vault server.
// • VAULT_TOKEN  – initial token (falls back to ~/.vault-token).
package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	vault "github.com/hashicorp/vault/api"
)

// Client is safe for concurrent use.  Create once at startup.  Zero value is
// invalid.
type Client struct {
	api *vault.Client

	cacheMu sync.RWMutex
	cache   map[string]cached // canonical path#key → value + expiry
}

type cached struct {
	val string
	exp time.Time
}

// New constructs a Vault client from the environment.
func New(_ context.Context) (*Client, error) {
	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault env cfg: %w", err)
	}

	apiCli, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault api: %w", err)
	}
	if tok := os.Getenv("VAULT_TOKEN"); tok != "" {
		apiCli.SetToken(tok)
	}

	return &Client{api: apiCli, cache: make(map[string]cached)}, nil
}

// GetKV fetches a single key from a KV-v2 secret.  If ttl > 0 the result is
// cached for that duration, and subsequent callers within the TTL receive
// the cached copy.
func (c *Client) GetKV(ctx context.Context, secretPath, key string, ttl time.Duration) (string, error) {
	if secretPath == "" || key == "" {
		return "", errors.New("secret path and key must be non-empty")
	}

	canonical := secretPath + "#" + key

	if ttl > 0 {
		c.cacheMu.RLock()
		if cv, ok := c.cache[canonical]; ok && time.Now().Before(cv.exp) {
			c.cacheMu.RUnlock()
			return cv.val, nil
		}
		c.cacheMu.RUnlock()
	}

	secret, err := c.api.Logical().ReadWithContext(ctx, secretPath)
	if err != nil {
		return "", fmt.Errorf("vault read %s: %w", secretPath, err)
	}
	if secret == nil || secret.Data == nil {
		return "", fmt.Errorf("vault: no secret at %s", secretPath)
	}

	// KV-v2 nests the payload under "data".
	data := secret.Data
	if nested, ok := data["data"].(map[string]any); ok {
		data = nested
	}
	val, ok := data[key].(string)
	if !ok {
		return "", fmt.Errorf("vault: key %q missing at %s", key, secretPath)
	}

	if ttl > 0 {
		c.cacheMu.Lock()
		c.cache[canonical] = cached{val: val, exp: time.Now().Add(ttl)}
		c.cacheMu.Unlock()
	}
	return val, nil
}
