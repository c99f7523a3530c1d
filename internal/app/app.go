package app

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/trueblocks/deskshell/internal/backend"
	"github.com/trueblocks/deskshell/internal/config"
	"github.com/trueblocks/deskshell/internal/events"
	"github.com/trueblocks/deskshell/internal/logging"
	"github.com/trueblocks/deskshell/internal/state"
	"github.com/trueblocks/deskshell/internal/ui"
)

const startupTimeout = 3 * time.Second

// Options configure the shell.
type Options struct {
	ConfigPath string
	Remote     bool          // talk to a running "serve" instead of the files
	Dev        bool          // enable development hotkeys
	PollEvery  time.Duration // zero uses the configured interval
}

// Run boots the shell until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.Dev {
		cfg.Dev = true
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = opts.PollEvery
	}

	logger, closer, err := logging.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer closer.Close()

	b, err := OpenBackend(cfg, opts.Remote, logger)
	if err != nil {
		return err
	}

	store := state.New(
		state.WithMirror(b),
		state.WithLogger(logger),
		state.WithRoutes(ui.Routes()...),
	)

	startCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	app, appErr := b.GetAppPreferences(startCtx)
	route := startupRoute(startCtx, b)
	cancel()
	if appErr == nil {
		store.Restore(app)
	} else {
		logger.Warn("load app preferences failed", "err", appErr)
	}
	store.ForceRoute(route)
	logger.Info("shell starting", "route", route, "remote", opts.Remote, "dev", cfg.Dev)

	theme := cfg.Theme
	if appErr == nil && app.Theme != "" && slices.Contains(ui.ThemeNames(), app.Theme) {
		theme = app.Theme
	}

	interval := cfg.PollInterval
	return ui.Run(ui.Options{
		Context:   ctx,
		Backend:   b,
		Store:     store,
		Events:    &events.Bus{},
		Logger:    logger,
		LogPath:   cfg.LogPath,
		Language:  cfg.Language,
		ThemeName: theme,
		Dev:       cfg.Dev,
		StartPoller: func() ui.Poller {
			p := NewPoller(b, store, interval, logger)
			p.Start(ctx)
			return p
		},
	})
}

// OpenBackend returns the HTTP client when remote is set and the in-process
// service over cfg.PrefsDir otherwise.
func OpenBackend(cfg config.Config, remote bool, logger *log.Logger) (backend.Backend, error) {
	if remote {
		client, err := backend.NewClient(cfg.APIBind)
		if err != nil {
			return nil, fmt.Errorf("init backend client: %w", err)
		}
		return client, nil
	}
	svc, err := backend.Open(cfg.PrefsDir, backend.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("open preferences: %w", err)
	}
	return svc, nil
}

// startupRoute picks the first route: the wizard while setup is incomplete
// or unknown, otherwise the last view when it is still served.
func startupRoute(ctx context.Context, b backend.Backend) string {
	initialized, err := b.IsInitialized(ctx)
	if err != nil || !initialized {
		return backend.WizardRoute
	}
	ws, err := b.GetWizardState(ctx)
	if err != nil || ws.MissingNameEmail {
		return backend.WizardRoute
	}
	app, err := b.GetAppPreferences(ctx)
	if err != nil {
		return "/"
	}
	if app.LastView != "" && app.LastView != backend.WizardRoute && slices.Contains(ui.Routes(), app.LastView) {
		return app.LastView
	}
	return "/"
}
