package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/faizmokh/angkat/internal/config"
	"github.com/faizmokh/angkat/internal/diag"
	"github.com/faizmokh/angkat/internal/session"
	"github.com/faizmokh/angkat/internal/ui"
	"github.com/faizmokh/angkat/internal/workout"
)

// NewRootCommand creates the top-level Cobra command to host subcommands and TUI launcher.
func NewRootCommand(ctx context.Context, store session.Store, cfg config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "angkat",
		Short: "Log and review workouts from your terminal.",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, closer, err := openLog(cfg)
			if err != nil {
				return err
			}
			defer closer.Close()

			m := ui.NewModel(ctx, store, workout.NewClient(store, nil), ui.Options{
				Logger:         logger,
				DefaultAddress: cfg.Client.DefaultAddress,
			})
			program := tea.NewProgram(m,
				tea.WithContext(ctx),
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
			)
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("run TUI: %w", err)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		newServerCommand(store),
		newAddCommand(ctx, store),
		newListCommand(ctx, store),
		newShowCommand(ctx, store),
		newDeleteCommand(ctx, store),
		newServeCommand(ctx, cfg),
		newVersionCommand(),
	)

	return cmd
}

// ExecuteCommand is a thin wrapper that executes the Cobra root command.
func ExecuteCommand(ctx context.Context) error {
	base, err := session.ResolveBasePath()
	if err != nil {
		return fmt.Errorf("resolve base path: %w", err)
	}
	cfg, err := config.Load(base)
	if err != nil {
		return err
	}

	dir, err := session.ResolveSessionDir()
	if err != nil {
		return fmt.Errorf("resolve session dir: %w", err)
	}
	store, err := session.NewFileStore(dir, session.Key())
	if err != nil {
		return err
	}

	cmd := NewRootCommand(ctx, store, cfg)
	return cmd.ExecuteContext(ctx)
}

// Main is a helper used by cmd/angkat/main.go to keep wiring contained in one package.
func Main(ctx context.Context) {
	if err := ExecuteCommand(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// openLog opens the diagnostic log. ANGKAT_LOG overrides the configured file.
func openLog(cfg config.Config) (*log.Logger, io.Closer, error) {
	path := cfg.Log.File
	if override := os.Getenv("ANGKAT_LOG"); override != "" {
		path = override
	}
	return diag.OpenFile(path, cfg.Log.Level)
}
