package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jekabolt/grbpwr-waitlist/internal/entity"
	"github.com/jekabolt/grbpwr-waitlist/internal/form"
	"github.com/jekabolt/grbpwr-waitlist/internal/waitlist"
	"github.com/spf13/cobra"
)

func newListCmd(o *rootOptions) *cobra.Command {
	req := form.ListRequest{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pending waitlist entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := form.Validate(&req); err != nil {
				return err
			}
			return o.withService(cmd, func(ctx context.Context, svc *waitlist.Service) error {
				entries, err := svc.List(ctx, entity.WaitlistFilter(req.Filter), req.Limit)
				if err != nil {
					return err
				}
				return o.print(cmd, entries, func(p *printer) { p.entries(entries) })
			})
		},
	}
	cmd.Flags().StringVarP(&req.Filter, "filter", "f", "", "new, update or manual_review")
	cmd.Flags().IntVarP(&req.Limit, "limit", "l", 0, "max entries to list (0 uses the configured default)")
	return cmd
}

func newDiffCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "diff <waitlist-id>",
		Short: "Show the changes an entry proposes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withService(cmd, func(ctx context.Context, svc *waitlist.Service) error {
				d, err := svc.Diff(ctx, args[0])
				if err != nil {
					return err
				}
				return o.print(cmd, d, func(p *printer) { p.diff(d) })
			})
		},
	}
}

func newApproveCmd(o *rootOptions) *cobra.Command {
	var actor string
	cmd := &cobra.Command{
		Use:   "approve <waitlist-id>...",
		Short: "Approve one or many waitlist entries",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := splitIds(args)
			return o.withService(cmd, func(ctx context.Context, svc *waitlist.Service) error {
				if len(ids) == 1 {
					return o.outcome(cmd, svc.Approve(ctx, ids[0], actor))
				}
				if err := svc.CheckBulk(ids); err != nil {
					return err
				}
				res := svc.BulkApprove(ctx, ids, actor)
				return o.print(cmd, res, func(p *printer) { p.bulk("approved", res) })
			})
		},
	}
	cmd.Flags().StringVarP(&actor, "actor", "a", "", "moderator recorded on the decision")
	return cmd
}

func newRejectCmd(o *rootOptions) *cobra.Command {
	var actor string
	req := form.RejectRequest{}
	cmd := &cobra.Command{
		Use:   "reject <waitlist-id>...",
		Short: "Reject one or many waitlist entries",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := form.Validate(&req); err != nil {
				return err
			}
			ids := splitIds(args)
			return o.withService(cmd, func(ctx context.Context, svc *waitlist.Service) error {
				if len(ids) == 1 {
					return o.outcome(cmd, svc.Reject(ctx, ids[0], actor, req.Reason))
				}
				if err := svc.CheckBulk(ids); err != nil {
					return err
				}
				res := svc.BulkReject(ctx, ids, actor, req.Reason)
				return o.print(cmd, res, func(p *printer) { p.bulk("rejected", res) })
			})
		},
	}
	cmd.Flags().StringVarP(&actor, "actor", "a", "", "moderator recorded on the decision")
	cmd.Flags().StringVarP(&req.Reason, "reason", "r", "", "rejection reason")
	return cmd
}

func newReviseCmd(o *rootOptions) *cobra.Command {
	var actor, payload, file string
	cmd := &cobra.Command{
		Use:   "revise <waitlist-id>",
		Short: "Replace the payload of a pending entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := []byte(payload)
			if file != "" {
				b, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("can't read payload file: %w", err)
				}
				raw = b
			}
			req := form.RevisePayloadRequest{Payload: json.RawMessage(raw)}
			if err := form.Validate(&req); err != nil {
				return err
			}
			return o.withService(cmd, func(ctx context.Context, svc *waitlist.Service) error {
				return o.outcome(cmd, svc.Revise(ctx, args[0], req.Payload, actor))
			})
		},
	}
	cmd.Flags().StringVarP(&actor, "actor", "a", "", "moderator recorded on the revision")
	cmd.Flags().StringVarP(&payload, "payload", "p", "", "new payload as a JSON object")
	cmd.Flags().StringVar(&file, "file", "", "read the new payload from a file")
	return cmd
}

func newStatsCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show queue statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withService(cmd, func(ctx context.Context, svc *waitlist.Service) error {
				st, err := svc.Stats(ctx)
				if err != nil {
					return err
				}
				return o.print(cmd, st, func(p *printer) { p.stats(st) })
			})
		},
	}
}

func newAuditCmd(o *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "audit <waitlist|product> <id>",
		Short: "Show the audit trail of an entry or product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withService(cmd, func(ctx context.Context, svc *waitlist.Service) error {
				logs, err := svc.AuditTrail(ctx, args[0], args[1], limit)
				if err != nil {
					return err
				}
				return o.print(cmd, logs, func(p *printer) { p.audit(logs) })
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "max rows (0 uses the configured default)")
	return cmd
}

// outcome prints a single transition and fails the command when it failed.
func (o *rootOptions) outcome(cmd *cobra.Command, out waitlist.Outcome) error {
	if err := o.print(cmd, out, func(p *printer) { p.outcome(out) }); err != nil {
		return err
	}
	if !out.OK {
		return out.Err
	}
	return nil
}

// splitIds accepts ids as separate arguments or comma separated.
func splitIds(args []string) []string {
	var ids []string
	for _, a := range args {
		ids = append(ids, form.ParseIds(a)...)
	}
	return ids
}
