package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type QueueHealth string

const (
	QueueHealthGood     QueueHealth = "good"
	QueueHealthWarning  QueueHealth = "warning"
	QueueHealthCritical QueueHealth = "critical"
)

type VersionStats struct {
	TotalRevisions int             `json:"total_revisions"`
	Average        decimal.Decimal `json:"average"`
	Max            int             `json:"max"`
}

type RecentEntry struct {
	Id                   string    `json:"id"`
	ProductSlug          string    `json:"product_slug"`
	Reason               string    `json:"reason"`
	Type                 EntryType `json:"type"`
	RequiresManualReview bool      `json:"requires_manual_review"`
	HasInvalidDiscount   bool      `json:"has_invalid_discount"`
	CreatedAt            time.Time `json:"created_at"`
}

type QueueHealthReport struct {
	Status           QueueHealth     `json:"status"`
	ErrorRate        decimal.Decimal `json:"error_rate"`
	ManualReviewRate decimal.Decimal `json:"manual_review_rate"`
}

type QueueStats struct {
	TotalEntries               int                 `json:"total_entries"`
	NewProducts                int                 `json:"new_products"`
	PendingUpdates             int                 `json:"pending_updates"`
	ManualReviewRequired       int                 `json:"manual_review_required"`
	InvalidDiscounts           int                 `json:"invalid_discounts"`
	AverageVersion             float64             `json:"average_version"`
	Reasons                    map[string]int      `json:"reasons"`
	Categories                 map[string]int      `json:"categories"`
	AveragePriceDropPercentage decimal.NullDecimal `json:"average_price_drop_percentage"`
	Versions                   VersionStats        `json:"version_statistics"`
	RecentEntries              []RecentEntry       `json:"recent_entries"`
	Health                     QueueHealthReport   `json:"health"`

	// SampleLimit caps the entries read, Sampled is set when the queue
	// holds at least that many and the figures cover only the oldest ones.
	SampleLimit int  `json:"sample_limit"`
	Sampled     bool `json:"sampled"`
}

// BulkResult is the tally of a bulk approve or reject.
type BulkResult struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}
