// cmd/api/main.go
//
// Chorus – HTTP entry point.
//
// Startup sequence
// ----------------
//
//  1. Load env vars (server-wide file → .env fallback).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Load layered configuration and resolve Vault secret references.
//
//  4. Open the database pool and log a row-count sanity check.
//
//  5. Open the optional GeoIP database for access-log enrichment.
//
//  6. Wire the entity services, token helper, and catalog client into the
//     chi router, expose /metrics, and serve until SIGINT/SIGTERM.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/yanizio/chorus/internal/auth"
	"github.com/yanizio/chorus/internal/catalog"
	"github.com/yanizio/chorus/internal/config"
	"github.com/yanizio/chorus/internal/database"
	"github.com/yanizio/chorus/internal/httpapi"
	"github.com/yanizio/chorus/internal/logger"
	"github.com/yanizio/chorus/internal/requestinfo"
	"github.com/yanizio/chorus/internal/social"
)

const serverEnvPath = "/usr/local/etc/chorus/global.env"

// loadEnv prefers the server-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() { loadEnv() }

func main() {
	ctx := context.Background()

	//
	// ── 1.  Configuration ──────────────────────────────────────────────
	//
	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	sug, err := logger.New(cfg.Paths.Root, cfg.Log.Level, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer func() { _ = sug.Sync() }()

	//
	// ── 2.  Database pool ──────────────────────────────────────────────
	//
	sug.Info("connecting to database …")
	db, err := database.Open(cfg.DSN())
	if err != nil {
		sug.Fatalf("connect database: %v", err)
	}
	defer db.Close()
	sug.Info("database online")

	// Log active-user count as an early sanity check.
	var active int
	_ = db.Get(&active, `SELECT COUNT(*) FROM user WHERE deleted = 0 AND banned = 0`)
	sug.Infof("%d active user(s) found", active)

	//
	// ── 3.  GeoIP (optional) ───────────────────────────────────────────
	//
	if err := requestinfo.InitGeo(cfg.Geo.DBPath); err != nil {
		sug.Warnf("geoip disabled: %v", err)
	}

	//
	// ── 4.  Services and router ────────────────────────────────────────
	//
	api := &httpapi.API{
		Social:  social.Wire(db),
		Tokens:  auth.NewTokens(cfg.Auth.TokenSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute),
		Catalog: catalog.New(cfg.Catalog.BaseURL),
	}

	srv := httpapi.NewServer(cfg.HTTP.ListenAddr, api.Router())

	//
	// ── 5.  Serve until signalled, then drain ──────────────────────────
	//
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	sug.Infof("listening on %s", cfg.HTTP.ListenAddr)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		sug.Fatalf("http server: %v", err)
	case sig := <-stop:
		sug.Infof("received %s, shutting down", sig)
		if err := httpapi.Shutdown(srv, 15*time.Second); err != nil {
			sug.Errorf("shutdown: %v", err)
		}
	}
}
