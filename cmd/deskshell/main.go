package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/trueblocks/deskshell/internal/app"
	"github.com/trueblocks/deskshell/internal/backend"
	"github.com/trueblocks/deskshell/internal/config"
	"github.com/trueblocks/deskshell/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "deskshell: %v\n", err)
		return 1
	}
	return 0
}

type rootFlags struct {
	config string
	remote bool
	dev    bool
	poll   time.Duration
}

func newRootCmd() *cobra.Command {
	var flags rootFlags
	cmd := &cobra.Command{
		Use:   "deskshell",
		Short: "Terminal shell for preferences, RPC setup and help",
		Long: `deskshell opens the terminal shell. On first run it walks through
setup (name, email, RPC endpoint) before showing the main views.

Run the backend on its own and attach to it:
  deskshell serve
  deskshell --remote`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), app.Options{
				ConfigPath: flags.config,
				Remote:     flags.remote,
				Dev:        flags.dev,
				PollEvery:  flags.poll,
			})
		},
	}
	cmd.PersistentFlags().StringVar(&flags.config, "config", "", "override config path (optional)")
	cmd.Flags().BoolVar(&flags.remote, "remote", false, "use the backend of a running 'deskshell serve'")
	cmd.Flags().BoolVar(&flags.dev, "dev", false, "enable development hotkeys")
	cmd.Flags().DurationVar(&flags.poll, "poll", 0, "readiness poll interval (optional, defaults to 1.5s)")

	cmd.AddCommand(newServeCmd(&flags), newResetCmd(&flags, os.Stdout))
	return cmd
}

func newServeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the preferences backend over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(flags.config)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, closer, err := logging.New(cfg.LogPath, cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("init logging: %w", err)
			}
			defer closer.Close()

			svc, err := backend.Open(cfg.PrefsDir, backend.WithLogger(logger))
			if err != nil {
				return fmt.Errorf("open preferences: %w", err)
			}
			srv := backend.NewServer(cfg.APIBind, svc, logger)
			srv.Start()
			logger.Info("backend listening", "addr", cfg.APIBind, "prefs", cfg.PrefsDir)
			fmt.Fprintf(cmd.OutOrStdout(), "deskshell backend listening on %s\n", cfg.APIBind)

			<-cmd.Context().Done()
			srv.Stop()
			logger.Info("backend stopped")
			return nil
		},
	}
}

func newResetCmd(flags *rootFlags, out io.Writer) *cobra.Command {
	var (
		yes    bool
		remote bool
	)
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear identity, RPCs and the initialized flag so setup runs again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				confirmed := false
				err := huh.NewConfirm().
					Title("Reset first-run setup?").
					Description("Your name, email, RPC endpoints and recent files are cleared.").
					Affirmative("Reset").
					Negative("Cancel").
					Value(&confirmed).
					Run()
				if errors.Is(err, huh.ErrUserAborted) || (err == nil && !confirmed) {
					fmt.Fprintln(out, "reset cancelled")
					return nil
				}
				if err != nil {
					return fmt.Errorf("confirm reset: %w", err)
				}
			}

			cfg, err := config.Load(flags.config)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			b, err := app.OpenBackend(cfg, remote, logging.Discard())
			if err != nil {
				return err
			}
			if err := b.ResetWizardState(cmd.Context()); err != nil {
				return fmt.Errorf("reset wizard state: %w", err)
			}
			fmt.Fprintln(out, "setup will run on next start")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	cmd.Flags().BoolVar(&remote, "remote", false, "reset through a running 'deskshell serve'")
	return cmd
}
