package entity

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Validation is the anomaly summary of a proposal.
type Validation struct {
	IsValid              bool                `json:"is_valid"`
	Issues               []string            `json:"issues"`
	HasInvalidDiscount   bool                `json:"has_invalid_discount"`
	PriceDropPercentage  decimal.NullDecimal `json:"price_drop_percentage"`
	RequiresManualReview bool                `json:"requires_manual_review"`
	ReviewReasons        []string            `json:"review_reasons"`
}

type ChangeKind string

const (
	ChangeAdded   ChangeKind = "added"
	ChangeRemoved ChangeKind = "removed"
	ChangeChanged ChangeKind = "changed"
)

type ValueType string

const (
	ValueNumeric ValueType = "numeric"
	ValueText    ValueType = "text"
	ValueBoolean ValueType = "boolean"
	ValueObject  ValueType = "object"
)

// FieldChange is a single field of a product diff. Current is nil for added
// fields and Proposed is nil for removed ones.
type FieldChange struct {
	Field            string              `json:"field"`
	Change           ChangeKind          `json:"change"`
	Type             ValueType           `json:"type"`
	Current          any                 `json:"current"`
	Proposed         any                 `json:"proposed"`
	PercentageChange decimal.NullDecimal `json:"percentage_change"`
}

type DiffResult struct {
	WaitlistId  string            `json:"waitlist_id"`
	ProductSlug string            `json:"product_slug"`
	Kind        EntryType         `json:"kind"`
	ProductId   string            `json:"product_id,omitempty"`
	Proposed    json.RawMessage   `json:"proposed,omitempty"`
	Changes     []FieldChange     `json:"changes,omitempty"`
	Significant map[string]string `json:"significant_changes,omitempty"`
	Summary     string            `json:"summary"`
	Stale       bool              `json:"stale"`
	Validation  Validation        `json:"validation"`
}
