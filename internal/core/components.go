package core

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/awsl-project/dontcaught/internal/config"
	"github.com/awsl-project/dontcaught/internal/handler"
	"github.com/awsl-project/dontcaught/internal/prefsync"
	"github.com/awsl-project/dontcaught/internal/repository/local"
	"github.com/awsl-project/dontcaught/internal/repository/sqlite"
	"github.com/awsl-project/dontcaught/internal/service"
)

// Components 应用组件
type Components struct {
	Config      *config.Config
	DB          *sqlite.DB
	SettingRepo *sqlite.SystemSettingRepository
	Fallback    *local.CustomizableStore
	Page        *prefsync.Page
	SkipTaskbar *prefsync.Toggle
	Backup      *service.BackupService
	Auth        *handler.AuthMiddleware
	Hub         *handler.WebSocketHub

	unsubscribe func()
}

// NewComponents opens the durable store and wires the settings page.
// host is the skip-taskbar window effect; nil means store-only (headless).
func NewComponents(cfg *config.Config, host prefsync.HostEffect) (*Components, error) {
	db, err := sqlite.NewDBWithDSN(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	c := &Components{
		Config:      cfg,
		DB:          db,
		SettingRepo: sqlite.NewSystemSettingRepository(db),
		Fallback:    local.NewCustomizableStore(cfg.DataDir),
		Page:        prefsync.NewPage(),
		Auth:        handler.NewAuthMiddleware(cfg.Server.AdminPassword),
		Hub:         handler.NewWebSocketHub(),
	}

	opts := prefsync.SkipTaskbarOptions(cfg.Settings.SkipTaskbarDefault)
	opts.StoreTimeout = cfg.StoreTimeout()
	opts.HostTimeout = cfg.HostTimeout()
	c.SkipTaskbar = prefsync.NewToggle(opts, c.SettingRepo, c.Fallback, host)
	if err := c.Page.Register(c.SkipTaskbar); err != nil {
		db.Close()
		return nil, err
	}

	c.Backup = service.NewBackupService(c.SettingRepo, c.Page)
	c.unsubscribe = c.Page.Subscribe(c.Hub.BroadcastSetting)

	log.Printf("[Core] Components ready (database: %s)", db.Dialector())
	return c, nil
}

// Initialize loads every toggle; failures are carried in the states
func (c *Components) Initialize(ctx context.Context) {
	states, _ := c.Page.InitializeAll(ctx)
	for _, state := range states {
		if state.Error != "" {
			log.Printf("[Core] %s loaded with %s (policy %s)", state.Key, state.ErrorKind, state.Policy)
			continue
		}
		log.Printf("[Core] %s = %v (policy %s)", state.Key, state.Value, state.Policy)
	}
}

// Handler returns the HTTP API
func (c *Components) Handler() http.Handler {
	return handler.NewRouter(handler.RouterDeps{
		Page:   c.Page,
		Backup: c.Backup,
		Auth:   c.Auth,
		Hub:    c.Hub,
	})
}

// Close releases the websocket clients and the database
func (c *Components) Close() error {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
	c.Hub.Close()
	return c.DB.Close()
}

// SetupLogging mirrors the standard logger into the log file. The returned
// closer restores stderr output.
func SetupLogging(path string) (io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	log.SetOutput(io.MultiWriter(os.Stdout, f))
	return closerFunc(func() error {
		log.SetOutput(os.Stderr)
		return f.Close()
	}), nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
