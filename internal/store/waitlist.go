package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jekabolt/grbpwr-waitlist/internal/dependency"
	"github.com/jekabolt/grbpwr-waitlist/internal/entity"
	gerr "github.com/jekabolt/grbpwr-waitlist/internal/errors"
)

type waitlistStore struct {
	*MYSQLStore
}

func (ms *MYSQLStore) Waitlist() dependency.Waitlist {
	return &waitlistStore{
		MYSQLStore: ms,
	}
}

const waitlistColumns = `id, product_slug, product_id, reason, payload, version, state,
	has_invalid_discount, price_drop_percentage, requires_manual_review,
	decided_by, decided_at, rejection_reason, created_at, updated_at`

// ListEntries returns pending entries ordered by creation time.
func (ms *waitlistStore) ListEntries(ctx context.Context, filter entity.WaitlistFilter, limit int) ([]entity.WaitlistEntry, error) {
	query := `SELECT ` + waitlistColumns + ` FROM waitlist_entry WHERE state = :state`
	switch filter {
	case entity.WaitlistFilterNew:
		query += ` AND product_id IS NULL`
	case entity.WaitlistFilterUpdate:
		query += ` AND product_id IS NOT NULL`
	case entity.WaitlistFilterManualReview:
		query += ` AND requires_manual_review = TRUE`
	case entity.WaitlistFilterNone:
	default:
		return nil, fmt.Errorf("unknown waitlist filter %q", filter)
	}
	query += ` ORDER BY created_at ASC, id ASC LIMIT :limit`

	entries, err := QueryListNamed[entity.WaitlistEntry](ctx, ms.DB(), query, map[string]any{
		"state": entity.WaitlistStatePending,
		"limit": limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list waitlist entries: %w", err)
	}
	return entries, nil
}

func (ms *waitlistStore) GetEntryById(ctx context.Context, id string) (*entity.WaitlistEntry, error) {
	query := `SELECT ` + waitlistColumns + ` FROM waitlist_entry WHERE id = :id`
	e, err := QueryNamedOne[entity.WaitlistEntry](ctx, ms.DB(), query, map[string]any{
		"id": id,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get waitlist entry %s: %w", id, err)
	}
	return &e, nil
}

func (ms *waitlistStore) AddEntry(ctx context.Context, e *entity.WaitlistEntryInsert) (string, error) {
	id := uuid.NewString()
	query := `
	INSERT INTO waitlist_entry
		(id, product_slug, product_id, reason, payload, has_invalid_discount,
		price_drop_percentage, requires_manual_review, created_at, updated_at)
	VALUES
		(:id, :productSlug, :productId, :reason, :payload, :hasInvalidDiscount,
		:priceDropPercentage, :requiresManualReview, :now, :now)`
	err := ExecNamed(ctx, ms.DB(), query, map[string]any{
		"id":                   id,
		"productSlug":          e.ProductSlug,
		"productId":            e.ProductId,
		"reason":               e.Reason,
		"payload":              string(e.Payload),
		"hasInvalidDiscount":   e.HasInvalidDiscount,
		"priceDropPercentage":  e.PriceDropPercentage,
		"requiresManualReview": e.RequiresManualReview,
		"now":                  ms.Now(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to add waitlist entry: %w", err)
	}
	return id, nil
}

func (ms *waitlistStore) RecordApproval(ctx context.Context, id string, actor string) error {
	query := `
	UPDATE waitlist_entry
	SET state = :approved, decided_by = :actor, decided_at = :now, updated_at = :now
	WHERE id = :id AND state = :pending`
	n, err := ExecNamedAffected(ctx, ms.DB(), query, map[string]any{
		"approved": entity.WaitlistStateApproved,
		"pending":  entity.WaitlistStatePending,
		"actor":    actor,
		"now":      ms.Now(),
		"id":       id,
	})
	if err != nil {
		return fmt.Errorf("failed to record approval: %w", err)
	}
	if n == 0 {
		return ms.transitionLost(ctx, id)
	}
	return nil
}

func (ms *waitlistStore) RecordRejection(ctx context.Context, id string, actor string, reason string) error {
	query := `
	UPDATE waitlist_entry
	SET state = :rejected, decided_by = :actor, decided_at = :now,
		rejection_reason = :reason, updated_at = :now
	WHERE id = :id AND state = :pending`
	n, err := ExecNamedAffected(ctx, ms.DB(), query, map[string]any{
		"rejected": entity.WaitlistStateRejected,
		"pending":  entity.WaitlistStatePending,
		"actor":    actor,
		"reason":   sql.NullString{String: reason, Valid: reason != ""},
		"now":      ms.Now(),
		"id":       id,
	})
	if err != nil {
		return fmt.Errorf("failed to record rejection: %w", err)
	}
	if n == 0 {
		return ms.transitionLost(ctx, id)
	}
	return nil
}

func (ms *waitlistStore) UpdateEntryPayload(ctx context.Context, id string, payload json.RawMessage, v *entity.Validation) (int, error) {
	query := `
	UPDATE waitlist_entry
	SET payload = :payload, version = version + 1,
		has_invalid_discount = :hasInvalidDiscount,
		price_drop_percentage = :priceDropPercentage,
		requires_manual_review = :requiresManualReview,
		updated_at = :now
	WHERE id = :id AND state = :pending`
	n, err := ExecNamedAffected(ctx, ms.DB(), query, map[string]any{
		"payload":              string(payload),
		"hasInvalidDiscount":   v.HasInvalidDiscount,
		"priceDropPercentage":  v.PriceDropPercentage,
		"requiresManualReview": v.RequiresManualReview,
		"now":                  ms.Now(),
		"id":                   id,
		"pending":              entity.WaitlistStatePending,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to update waitlist payload: %w", err)
	}
	if n == 0 {
		return 0, ms.transitionLost(ctx, id)
	}
	e, err := ms.GetEntryById(ctx, id)
	if err != nil {
		return 0, err
	}
	return e.Version, nil
}

// transitionLost explains why a conditional update of a pending entry
// matched no rows.
func (ms *waitlistStore) transitionLost(ctx context.Context, id string) error {
	e, err := ms.GetEntryById(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return err
		}
		return fmt.Errorf("failed to reload waitlist entry: %w", err)
	}
	return gerr.Wrap(gerr.KindInvalidTransition, gerr.ErrInvalidTransition,
		"waitlist entry %s is %s", id, e.State)
}
