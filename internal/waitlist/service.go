package waitlist

import (
	"context"

	"log/slog"

	"github.com/jekabolt/grbpwr-waitlist/internal/dependency"
	"github.com/jekabolt/grbpwr-waitlist/internal/entity"
	gerr "github.com/jekabolt/grbpwr-waitlist/internal/errors"
)

// Service drives the moderation queue on top of a repository.
type Service struct {
	repo dependency.Repository
	c    Config
}

// New creates a new waitlist service.
func New(c *Config, repo dependency.Repository) *Service {
	if c == nil {
		dc := DefaultConfig()
		c = &dc
	}
	return &Service{
		repo: repo,
		c:    c.withDefaults(),
	}
}

// Config returns the effective configuration.
func (s *Service) Config() Config {
	return s.c
}

// Ping checks the repository connection.
func (s *Service) Ping(ctx context.Context) error {
	if err := s.repo.Ping(ctx); err != nil {
		return gerr.Wrap(gerr.KindStorageFailure, err, "store is unreachable")
	}
	return nil
}

// List returns pending entries, oldest first. A zero limit uses the configured default.
func (s *Service) List(ctx context.Context, filter entity.WaitlistFilter, limit int) ([]entity.WaitlistEntry, error) {
	if !filter.Valid() {
		return nil, gerr.New(gerr.KindInvalidRequest, "unknown filter %q", filter)
	}
	if limit < 0 {
		return nil, gerr.New(gerr.KindInvalidRequest, "limit can't be negative")
	}
	if limit == 0 {
		limit = s.c.DefaultListLimit
	}
	entries, err := s.repo.Waitlist().ListEntries(ctx, filter, limit)
	if err != nil {
		return nil, gerr.Wrap(gerr.KindStorageFailure, err, "can't list waitlist entries")
	}
	return entries, nil
}

// Diff loads an entry and the product it targets and compares them.
func (s *Service) Diff(ctx context.Context, id string) (*entity.DiffResult, error) {
	entry, err := s.repo.Waitlist().GetEntryById(ctx, id)
	if err != nil {
		return nil, entryErr(err, id)
	}

	var current *entity.Product
	if entry.Type() == entity.EntryTypeUpdate {
		current, err = s.repo.Products().GetProductById(ctx, entry.ProductId.String)
		switch {
		case gerr.KindOf(err) == gerr.KindNotFound:
			current = nil
		case err != nil:
			return nil, productErr(err, entry.ProductId.String)
		}
	}

	res, err := ComputeDiff(s.c, entry, current)
	if err != nil {
		return nil, err
	}
	if res.Stale {
		slog.Default().WarnContext(ctx, "waitlist entry is stale",
			slog.String("waitlist_id", id),
			slog.String("product_id", res.ProductId),
		)
	}
	return res, nil
}

// Stats aggregates the pending queue, reading at most StatsSampleLimit entries.
func (s *Service) Stats(ctx context.Context) (*entity.QueueStats, error) {
	entries, err := s.repo.Waitlist().ListEntries(ctx, entity.WaitlistFilterNone, s.c.StatsSampleLimit)
	if err != nil {
		return nil, gerr.Wrap(gerr.KindStorageFailure, err, "can't list waitlist entries")
	}
	st := ComputeStats(entries)
	st.SampleLimit = s.c.StatsSampleLimit
	st.Sampled = len(entries) >= s.c.StatsSampleLimit
	return &st, nil
}

// SetProductStatus changes the catalog status of a product.
func (s *Service) SetProductStatus(ctx context.Context, id string, status string, actor string) error {
	st, err := entity.ParseProductStatus(status)
	if err != nil {
		return gerr.Wrap(gerr.KindInvalidRequest, err, "can't set status of product %s", id)
	}
	actor = s.actor(actor)

	err = s.repo.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
		prd, err := rep.Products().GetProductById(ctx, id)
		if err != nil {
			return productErr(err, id)
		}
		if err := rep.Products().SetProductStatus(ctx, id, st); err != nil {
			return productErr(err, id)
		}
		return addProductAudit(ctx, rep, &entity.AuditLogInsert{
			Actor:       actor,
			Action:      entity.AuditActionSetStatus,
			TargetId:    id,
			BeforeState: snapshot(map[string]any{entity.FieldStatus: prd.Status}),
			AfterState:  snapshot(map[string]any{entity.FieldStatus: st}),
		})
	})
	if err != nil {
		return err
	}
	slog.Default().InfoContext(ctx, "product status changed",
		slog.String("product_id", id),
		slog.String("status", string(st)),
		slog.String("actor", actor),
	)
	return nil
}

// SetProductChangeability toggles whether ingestion may alter the product.
func (s *Service) SetProductChangeability(ctx context.Context, slug string, changeable bool, actor string) error {
	if slug == "" {
		return gerr.New(gerr.KindInvalidRequest, "slug is required")
	}
	actor = s.actor(actor)

	err := s.repo.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
		prd, err := rep.Products().GetProductBySlug(ctx, slug)
		if err != nil {
			return productErr(err, slug)
		}
		if err := rep.Products().SetProductChangeability(ctx, slug, changeable); err != nil {
			return productErr(err, slug)
		}
		return addProductAudit(ctx, rep, &entity.AuditLogInsert{
			Actor:       actor,
			Action:      entity.AuditActionSetChangeable,
			TargetId:    prd.Id,
			BeforeState: snapshot(map[string]any{entity.FieldIsChangeable: prd.IsChangeable}),
			AfterState:  snapshot(map[string]any{entity.FieldIsChangeable: changeable}),
		})
	})
	if err != nil {
		return err
	}
	slog.Default().InfoContext(ctx, "product changeability changed",
		slog.String("slug", slug),
		slog.Bool("is_changeable", changeable),
		slog.String("actor", actor),
	)
	return nil
}

// AuditTrail returns the newest audit rows of a waitlist entry or product.
func (s *Service) AuditTrail(ctx context.Context, targetType, targetId string, limit int) ([]entity.AuditLog, error) {
	if targetType != entity.AuditTargetWaitlist && targetType != entity.AuditTargetProduct {
		return nil, gerr.New(gerr.KindInvalidRequest, "unknown audit target %q", targetType)
	}
	if limit <= 0 {
		limit = s.c.DefaultListLimit
	}
	logs, err := s.repo.Audit().ListAuditLogs(ctx, targetType, targetId, limit)
	if err != nil {
		return nil, gerr.Wrap(gerr.KindStorageFailure, err, "can't list audit logs of %s %s", targetType, targetId)
	}
	return logs, nil
}

func addProductAudit(ctx context.Context, rep dependency.Repository, al *entity.AuditLogInsert) error {
	al.TargetType = entity.AuditTargetProduct
	if err := rep.Audit().AddAuditLog(ctx, al); err != nil {
		return gerr.Wrap(gerr.KindStorageFailure, err, "can't write audit log")
	}
	return nil
}
