package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/jekabolt/grbpwr-waitlist/app"
	"github.com/jekabolt/grbpwr-waitlist/internal/auth/jwt"
	"github.com/jekabolt/grbpwr-waitlist/internal/store"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"
)

func newServeCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the moderation HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.loadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			logger := slog.Default()

			a := app.New(cfg)
			if err := a.Start(ctx); err != nil {
				return fmt.Errorf("cannot start the application %v", err.Error())
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
			select {
			case s := <-sigCh:
				logger.With("signal", s.String()).Warn("signal received, exiting")
				a.Stop(ctx)
				logger.Info("application exited")
			case <-a.Done():
				logger.Error("application exited")
			}
			return nil
		},
	}
}

func newMigrateCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}
	run := func(dir migrate.MigrationDirection) func(cmd *cobra.Command, args []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := o.loadConfig()
			if err != nil {
				return err
			}
			n, err := store.MigrateDSN(cmd.Context(), cfg.DB, dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migrations\n", n)
			return nil
		}
	}
	cmd.AddCommand(
		&cobra.Command{Use: "up", Short: "Apply pending migrations", Args: cobra.NoArgs, RunE: run(migrate.Up)},
		&cobra.Command{Use: "down", Short: "Roll back migrations", Args: cobra.NoArgs, RunE: run(migrate.Down)},
	)
	return cmd
}

func newTokenCmd(o *rootOptions) *cobra.Command {
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token <moderator>",
		Short: "Issue an API token for a moderator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.loadConfig()
			if err != nil {
				return err
			}
			ja, err := jwt.New(&cfg.Auth)
			if err != nil {
				return err
			}
			if ttl == 0 {
				ttl = cfg.Auth.JWTTTL
			}
			tok, err := jwt.NewTokenWithSubject(ja, ttl, args[0])
			if err != nil {
				return fmt.Errorf("can't issue token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to auth.jwt_ttl)")
	return cmd
}
