package waitlist

import (
	"sort"
	"strings"

	"github.com/jekabolt/grbpwr-waitlist/internal/entity"
	"github.com/shopspring/decimal"
)

const recentEntriesLimit = 10

// Reason categories used by the queue statistics.
const (
	CategoryPricing    = "pricing"
	CategoryVariants   = "variants"
	CategoryContent    = "content"
	CategoryMedia      = "media"
	CategoryInventory  = "inventory"
	CategoryMultiple   = "multiple"
	CategoryNewProduct = "new_product"
	CategoryOther      = "other"
)

// CategorizeReason groups a free-form queue reason.
func CategorizeReason(reason string) string {
	switch {
	case strings.Contains(reason, "price"):
		return CategoryPricing
	case strings.Contains(reason, "variant"):
		return CategoryVariants
	case strings.Contains(reason, "name"), strings.Contains(reason, "description"):
		return CategoryContent
	case strings.Contains(reason, "image"):
		return CategoryMedia
	case strings.Contains(reason, "sku"), strings.Contains(reason, "stock"):
		return CategoryInventory
	case strings.Contains(reason, "multiple"):
		return CategoryMultiple
	case strings.Contains(reason, "new"):
		return CategoryNewProduct
	}
	return CategoryOther
}

// ComputeStats aggregates the given pending entries. It reads the flags
// stored on the entries and never recomputes them.
func ComputeStats(entries []entity.WaitlistEntry) entity.QueueStats {
	st := entity.QueueStats{
		TotalEntries:  len(entries),
		Reasons:       map[string]int{},
		Categories:    map[string]int{},
		RecentEntries: []entity.RecentEntry{},
	}

	var versionSum int
	var dropSum decimal.Decimal
	var drops int
	for _, e := range entries {
		if e.Type() == entity.EntryTypeNew {
			st.NewProducts++
		} else {
			st.PendingUpdates++
		}
		if e.RequiresManualReview {
			st.ManualReviewRequired++
		}
		if e.HasInvalidDiscount {
			st.InvalidDiscounts++
		}

		reason := e.Reason
		if reason == "" {
			reason = entity.ReasonUnknown
		}
		st.Reasons[reason]++
		st.Categories[CategorizeReason(reason)]++

		version := e.Version
		if version < 1 {
			version = 1
		}
		versionSum += version
		if version > st.Versions.Max {
			st.Versions.Max = version
		}

		if e.PriceDropPercentage.Valid && e.PriceDropPercentage.Decimal.IsPositive() {
			dropSum = dropSum.Add(e.PriceDropPercentage.Decimal)
			drops++
		}
	}

	st.Versions.TotalRevisions = versionSum
	if len(entries) > 0 {
		st.AverageVersion = float64(versionSum) / float64(len(entries))
		st.Versions.Average = decimal.NewFromInt(int64(versionSum)).
			Div(decimal.NewFromInt(int64(len(entries)))).Round(2)
	}
	if drops > 0 {
		st.AveragePriceDropPercentage = decimal.NullDecimal{
			Decimal: dropSum.Div(decimal.NewFromInt(int64(drops))).Round(2),
			Valid:   true,
		}
	}

	st.RecentEntries = recentEntries(entries)
	st.Health = queueHealth(st)
	return st
}

func recentEntries(entries []entity.WaitlistEntry) []entity.RecentEntry {
	sorted := make([]entity.WaitlistEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		}
		return sorted[i].Id < sorted[j].Id
	})
	if len(sorted) > recentEntriesLimit {
		sorted = sorted[:recentEntriesLimit]
	}
	out := make([]entity.RecentEntry, 0, len(sorted))
	for _, e := range sorted {
		out = append(out, entity.RecentEntry{
			Id:                   e.Id,
			ProductSlug:          e.ProductSlug,
			Reason:               e.Reason,
			Type:                 e.Type(),
			RequiresManualReview: e.RequiresManualReview,
			HasInvalidDiscount:   e.HasInvalidDiscount,
			CreatedAt:            e.CreatedAt,
		})
	}
	return out
}

func rate(n, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(n)).Mul(hundred).Div(decimal.NewFromInt(int64(total))).Round(2)
}

func queueHealth(st entity.QueueStats) entity.QueueHealthReport {
	h := entity.QueueHealthReport{
		Status:           entity.QueueHealthGood,
		ErrorRate:        rate(st.InvalidDiscounts, st.TotalEntries),
		ManualReviewRate: rate(st.ManualReviewRequired, st.TotalEntries),
	}
	switch {
	case st.TotalEntries > 200,
		h.ErrorRate.GreaterThan(decimal.NewFromInt(20)),
		h.ManualReviewRate.GreaterThan(decimal.NewFromInt(50)):
		h.Status = entity.QueueHealthCritical
	case st.TotalEntries > 100,
		h.ErrorRate.GreaterThan(decimal.NewFromInt(10)),
		h.ManualReviewRate.GreaterThan(decimal.NewFromInt(30)):
		h.Status = entity.QueueHealthWarning
	}
	return h
}
