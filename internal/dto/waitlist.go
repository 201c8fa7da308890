package dto

import (
	"encoding/json"
	"time"

	"github.com/jekabolt/grbpwr-waitlist/internal/entity"
	"github.com/shopspring/decimal"
)

type WaitlistEntry struct {
	Id                   string               `json:"id"`
	ProductSlug          string               `json:"product_slug"`
	ProductId            *string              `json:"product_id"`
	Type                 entity.EntryType     `json:"type"`
	Reason               string               `json:"reason"`
	Version              int                  `json:"version"`
	State                entity.WaitlistState `json:"state"`
	Payload              json.RawMessage      `json:"payload"`
	HasInvalidDiscount   bool                 `json:"has_invalid_discount"`
	PriceDropPercentage  decimal.NullDecimal  `json:"price_drop_percentage"`
	RequiresManualReview bool                 `json:"requires_manual_review"`
	DecidedBy            *string              `json:"decided_by,omitempty"`
	DecidedAt            *time.Time           `json:"decided_at,omitempty"`
	RejectionReason      *string              `json:"rejection_reason,omitempty"`
	CreatedAt            time.Time            `json:"created_at"`
	UpdatedAt            time.Time            `json:"updated_at"`
}

// ConvertWaitlistEntry converts a stored entry to its API view.
func ConvertWaitlistEntry(e *entity.WaitlistEntry) WaitlistEntry {
	we := WaitlistEntry{
		Id:                   e.Id,
		ProductSlug:          e.ProductSlug,
		Type:                 e.Type(),
		Reason:               e.Reason,
		Version:              e.Version,
		State:                e.State,
		Payload:              e.Payload,
		HasInvalidDiscount:   e.HasInvalidDiscount,
		PriceDropPercentage:  e.PriceDropPercentage,
		RequiresManualReview: e.RequiresManualReview,
		CreatedAt:            e.CreatedAt,
		UpdatedAt:            e.UpdatedAt,
	}
	if e.ProductId.Valid {
		we.ProductId = &e.ProductId.String
	}
	if e.DecidedBy.Valid {
		we.DecidedBy = &e.DecidedBy.String
	}
	if e.DecidedAt.Valid {
		we.DecidedAt = &e.DecidedAt.Time
	}
	if e.RejectionReason.Valid {
		we.RejectionReason = &e.RejectionReason.String
	}
	if len(we.Payload) == 0 {
		we.Payload = json.RawMessage("null")
	}
	return we
}

func ConvertWaitlistEntries(entries []entity.WaitlistEntry) []WaitlistEntry {
	out := make([]WaitlistEntry, 0, len(entries))
	for i := range entries {
		out = append(out, ConvertWaitlistEntry(&entries[i]))
	}
	return out
}

// ConvertProduct flattens a product into plain JSON values.
func ConvertProduct(p *entity.Product) map[string]any {
	m := p.ProductInsert.Snapshot()
	m["id"] = p.Id
	m["created_at"] = p.CreatedAt
	m["updated_at"] = p.UpdatedAt
	return m
}

type AuditLog struct {
	Id          int                `json:"id"`
	Actor       string             `json:"actor"`
	Action      entity.AuditAction `json:"action"`
	TargetType  string             `json:"target_type"`
	TargetId    string             `json:"target_id"`
	BeforeState json.RawMessage    `json:"before_state"`
	AfterState  json.RawMessage    `json:"after_state"`
	Reason      *string            `json:"reason,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

func ConvertAuditLogs(logs []entity.AuditLog) []AuditLog {
	out := make([]AuditLog, 0, len(logs))
	for _, l := range logs {
		al := AuditLog{
			Id:          l.Id,
			Actor:       l.Actor,
			Action:      l.Action,
			TargetType:  l.TargetType,
			TargetId:    l.TargetId,
			BeforeState: orNull(l.BeforeState),
			AfterState:  orNull(l.AfterState),
			CreatedAt:   l.CreatedAt,
		}
		if l.Reason.Valid {
			reason := l.Reason.String
			al.Reason = &reason
		}
		out = append(out, al)
	}
	return out
}

func orNull(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("null")
	}
	return raw
}
