package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jekabolt/grbpwr-waitlist/internal/form"
	"github.com/jekabolt/grbpwr-waitlist/internal/waitlist"
	"github.com/spf13/cobra"
)

func newStatusCmd(o *rootOptions) *cobra.Command {
	var actor string
	cmd := &cobra.Command{
		Use:   "status <product-id> <active|passive|waiting_approval|rejected|pending_update>",
		Short: "Set the catalog status of a product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := form.SetStatusRequest{Status: args[1]}
			if err := form.Validate(&req); err != nil {
				return err
			}
			return o.withService(cmd, func(ctx context.Context, svc *waitlist.Service) error {
				if err := svc.SetProductStatus(ctx, args[0], req.Status, actor); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "product %s status set to %s\n", args[0], req.Status)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&actor, "actor", "a", "", "moderator recorded on the change")
	return cmd
}

func newChangeableCmd(o *rootOptions) *cobra.Command {
	var actor string
	cmd := &cobra.Command{
		Use:   "changeable <product-slug> <true|false>",
		Short: "Allow or forbid ingestion changes of a product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("invalid changeability %q: %w", args[1], err)
			}
			return o.withService(cmd, func(ctx context.Context, svc *waitlist.Service) error {
				if err := svc.SetProductChangeability(ctx, args[0], v, actor); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "product %s changeable: %t\n", args[0], v)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&actor, "actor", "a", "", "moderator recorded on the change")
	return cmd
}
