package cli

import (
	"context"
	"fmt"
	"net"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/faizmokh/angkat/internal/config"
	"github.com/faizmokh/angkat/internal/diag"
	"github.com/faizmokh/angkat/internal/server"
)

func newServeCommand(ctx context.Context, cfg config.Config) *cobra.Command {
	var (
		listenFlag string
		dbFlag     string
		limitFlag  int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the workout service backed by SQLite.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := diag.New(cmd.ErrOrStderr(), cfg.Log.Level)

			store, err := server.OpenStore(dbFlag)
			if err != nil {
				return err
			}
			defer store.Close()

			ln, err := net.Listen("tcp", listenFlag)
			if err != nil {
				return fmt.Errorf("listen: %w", err)
			}

			gin.SetMode(gin.ReleaseMode)
			router := server.NewRouter(store, logger, server.Options{Limit: limitFlag})

			logger.Info("serving workouts", "addr", ln.Addr().String(), "db", dbFlag)
			if err := server.Serve(ctx, ln, router); err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			logger.Info("stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&listenFlag, "listen", cfg.Serve.Listen, "Address to listen on")
	cmd.Flags().StringVar(&dbFlag, "db", cfg.Serve.Database, "SQLite database path")
	cmd.Flags().IntVar(&limitFlag, "limit", cfg.Serve.Limit, "Default number of workouts listed")

	return cmd
}
