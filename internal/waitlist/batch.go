package waitlist

import (
	"context"
	"strings"

	"log/slog"

	"github.com/jekabolt/grbpwr-waitlist/internal/entity"
	gerr "github.com/jekabolt/grbpwr-waitlist/internal/errors"
)

// Op is a single-entry operation applied by RunBulk.
type Op func(ctx context.Context, id string) Outcome

// RunBulk applies op to every id in order, one at a time. A failing id is
// counted and skipped, the rest of the batch still runs.
func RunBulk(ctx context.Context, ids []string, op Op) entity.BulkResult {
	res := entity.BulkResult{}
	for _, id := range ids {
		if o := op(ctx, id); o.OK {
			res.Succeeded++
		} else {
			res.Failed++
		}
	}
	slog.Default().InfoContext(ctx, "bulk operation finished",
		slog.Int("total", len(ids)),
		slog.Int("succeeded", res.Succeeded),
		slog.Int("failed", res.Failed),
	)
	return res
}

// CheckBulk validates a bulk request before any entry is touched.
func (s *Service) CheckBulk(ids []string) error {
	if len(ids) == 0 {
		return gerr.New(gerr.KindInvalidRequest, "at least one waitlist id is required")
	}
	if len(ids) > s.c.MaxBulkItems {
		return gerr.New(gerr.KindInvalidRequest, "too many waitlist ids: %d, max %d", len(ids), s.c.MaxBulkItems)
	}
	for i, id := range ids {
		if strings.TrimSpace(id) == "" {
			return gerr.New(gerr.KindInvalidRequest, "waitlist id at position %d is empty", i)
		}
	}
	return nil
}

// BulkApprove approves ids in the given order.
func (s *Service) BulkApprove(ctx context.Context, ids []string, actor string) entity.BulkResult {
	return RunBulk(ctx, ids, func(ctx context.Context, id string) Outcome {
		return s.Approve(ctx, id, actor)
	})
}

// BulkReject rejects ids in the given order with the same reason.
func (s *Service) BulkReject(ctx context.Context, ids []string, actor string, reason string) entity.BulkResult {
	return RunBulk(ctx, ids, func(ctx context.Context, id string) Outcome {
		return s.Reject(ctx, id, actor, reason)
	})
}
