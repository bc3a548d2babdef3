package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"marquee/internal/searchindex"
	"marquee/internal/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the editorial HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			services, err := buildServices(cfg, logger)
			if err != nil {
				return err
			}

			store, err := searchindex.Open(runCtx, cfg.Index.DBPath)
			if err != nil {
				return fmt.Errorf("open search index: %w", err)
			}
			defer store.Close()

			builder, err := buildIndexer(cfg, services, store, logger)
			if err != nil {
				return err
			}

			srv, err := server.New(cfg, services.editorial, store, builder, logger)
			if err != nil {
				return err
			}
			if err := srv.Start(runCtx); err != nil {
				return err
			}
			defer srv.Stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Marquee API listening on %s\n", srv.Addr())
			<-runCtx.Done()
			if err := runCtx.Err(); err != nil && err != context.Canceled {
				return err
			}
			return nil
		},
	}
}
