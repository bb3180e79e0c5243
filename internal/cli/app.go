// Package cli wires the local store, remote document store, identity
// provider, backup engine and notification service into the dompet
// command-line tool.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmarifin/dompet/internal/backup"
	"github.com/dmarifin/dompet/internal/config"
	"github.com/dmarifin/dompet/internal/identity"
	"github.com/dmarifin/dompet/internal/logging"
	"github.com/dmarifin/dompet/internal/notify"
	"github.com/dmarifin/dompet/internal/remote"
	"github.com/dmarifin/dompet/internal/store"
	"golang.org/x/text/language"
)

// App bundles the wired services behind the CLI subcommands.
type App struct {
	config *config.Config
	log    logging.Logger
	store  *store.Store
	engine *backup.Engine
	notify *notify.Service
}

func newRemoteStore(ctx context.Context, cfg *config.Config) (remote.Store, error) {
	switch cfg.RemoteBackend {
	case "s3":
		return remote.NewS3Store(ctx, remote.S3Config{
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
		})
	case "postgres":
		return remote.NewPostgresStore(ctx, cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown remote backend %q", cfg.RemoteBackend)
	}
}

// NewApp builds the application: opens the local store (running migrations),
// connects the configured remote backend, and constructs the backup engine
// and notification service.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.NewJSONLogger(os.Stderr)

	st, err := store.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("opening local store: %w", err)
	}

	rs, err := newRemoteStore(ctx, cfg)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	idp := identity.NewTokenProvider(cfg.SessionTokenFile, []byte(cfg.SessionSecret), log)

	device := cfg.DeviceLabel
	if device == "" {
		if host, err := os.Hostname(); err == nil {
			device = host
		}
	}

	locale, err := language.Parse(cfg.Locale)
	if err != nil {
		log.Warn(ctx, "invalid locale tag, falling back to Indonesian", "locale", cfg.Locale)
		locale = language.Indonesian
	}

	engine := backup.New(st.Snapshots, st.Settings, idp, rs, log, device)
	notifier := notify.New(st.Notifications, log, locale)

	return &App{config: cfg, log: log, store: st, engine: engine, notify: notifier}, nil
}

// Close releases the local store.
func (app *App) Close() error {
	return app.store.Close()
}

func printResult(kind string, r backup.Result) int {
	if !r.Success {
		fmt.Printf("%s failed: %s\n", kind, r.Error)
		return 1
	}
	fmt.Printf("%s succeeded at %s\n", kind, r.Timestamp.Format("2006-01-02 15:04:05"))
	return 0
}

// Run dispatches the subcommand and returns a process exit code.
func (app *App) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Println("usage: dompet [flags] backup|restore|info|welcome")
		return 2
	}

	switch args[0] {
	case "backup":
		return printResult("backup", app.engine.Backup(ctx))
	case "restore":
		return printResult("restore", app.engine.Restore(ctx))
	case "info":
		if ts := app.engine.LastBackupInfo(ctx); ts != nil {
			fmt.Printf("last backup: %s\n", ts.Format("2006-01-02 15:04:05"))
		} else {
			fmt.Println("no backup yet")
		}
		return 0
	case "welcome":
		app.notify.Welcome(ctx)
		return 0
	default:
		fmt.Printf("unknown command %q\n", args[0])
		return 2
	}
}
