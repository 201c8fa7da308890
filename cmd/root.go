package main

import (
	"context"
	"fmt"

	"log/slog"

	"github.com/jekabolt/grbpwr-waitlist/app"
	"github.com/jekabolt/grbpwr-waitlist/config"
	"github.com/jekabolt/grbpwr-waitlist/internal/waitlist"
	"github.com/jekabolt/grbpwr-waitlist/log"
	"github.com/spf13/cobra"
)

// openService builds the service used by the queue commands. Tests replace it.
var openService = func(ctx context.Context, cfg *config.Config) (*waitlist.Service, func(), error) {
	svc, db, err := app.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return svc, db.Close, nil
}

type rootOptions struct {
	cfgFile string
	json    bool
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{}
	root := &cobra.Command{
		Use:           "grbpwr-waitlist",
		Short:         "Moderation queue for proposed product records",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&o.cfgFile, "config", "c", "", "path to configuration file (optional)")
	root.PersistentFlags().BoolVar(&o.json, "json", false, "print results as JSON")

	root.AddCommand(
		newListCmd(o),
		newDiffCmd(o),
		newApproveCmd(o),
		newRejectCmd(o),
		newReviseCmd(o),
		newStatusCmd(o),
		newChangeableCmd(o),
		newStatsCmd(o),
		newAuditCmd(o),
		newTokenCmd(o),
		newMigrateCmd(o),
		newServeCmd(o),
		newVersionCmd(),
	)
	return root
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(o.cfgFile)
	if err != nil {
		return nil, fmt.Errorf("cannot load a config %v", err.Error())
	}
	slog.SetDefault(log.NewWithWriter(cfg.Logger, stderr))
	return cfg, nil
}

// withService loads the config, opens the service and runs f with it.
func (o *rootOptions) withService(cmd *cobra.Command, f func(ctx context.Context, svc *waitlist.Service) error) error {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc, closeFn, err := openService(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()
	return f(ctx, svc)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the grbpwr-waitlist version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
