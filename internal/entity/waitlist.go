package entity

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type WaitlistState string

const (
	WaitlistStatePending  WaitlistState = "pending"
	WaitlistStateApproved WaitlistState = "approved"
	WaitlistStateRejected WaitlistState = "rejected"
)

// Terminal reports whether no further transition is allowed from the state.
func (s WaitlistState) Terminal() bool {
	return s == WaitlistStateApproved || s == WaitlistStateRejected
}

// Reasons ingestion tags entries with.
const (
	ReasonNewProduct      = "new_product"
	ReasonPriceChange     = "price_change"
	ReasonVariantChange   = "variant_change"
	ReasonNameChange      = "name_change"
	ReasonImageChange     = "image_change"
	ReasonSkuChange       = "sku_change"
	ReasonMultipleChanges = "multiple_changes"

	ReasonUnknown = "unknown"
)

type EntryType string

const (
	EntryTypeNew    EntryType = "new"
	EntryTypeUpdate EntryType = "update"
)

// WaitlistFilter narrows the pending queue listing.
type WaitlistFilter string

const (
	WaitlistFilterNone         WaitlistFilter = ""
	WaitlistFilterNew          WaitlistFilter = "new"
	WaitlistFilterUpdate       WaitlistFilter = "update"
	WaitlistFilterManualReview WaitlistFilter = "manual_review"
)

func (f WaitlistFilter) Valid() bool {
	switch f {
	case WaitlistFilterNone, WaitlistFilterNew, WaitlistFilterUpdate, WaitlistFilterManualReview:
		return true
	}
	return false
}

// WaitlistEntryInsert is a proposal as produced by ingestion.
type WaitlistEntryInsert struct {
	ProductSlug          string              `db:"product_slug"`
	ProductId            sql.NullString      `db:"product_id"`
	Reason               string              `db:"reason"`
	Payload              json.RawMessage     `db:"payload"`
	HasInvalidDiscount   bool                `db:"has_invalid_discount"`
	PriceDropPercentage  decimal.NullDecimal `db:"price_drop_percentage"`
	RequiresManualReview bool                `db:"requires_manual_review"`
}

type WaitlistEntry struct {
	Id              string         `db:"id"`
	Version         int            `db:"version"`
	State           WaitlistState  `db:"state"`
	DecidedBy       sql.NullString `db:"decided_by"`
	DecidedAt       sql.NullTime   `db:"decided_at"`
	RejectionReason sql.NullString `db:"rejection_reason"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
	WaitlistEntryInsert
}

// Type tells new-product proposals from updates of an existing product.
func (we *WaitlistEntry) Type() EntryType {
	if we.ProductId.Valid {
		return EntryTypeUpdate
	}
	return EntryTypeNew
}
