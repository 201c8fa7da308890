package waitlist

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/asaskevich/govalidator"
	"github.com/jekabolt/grbpwr-waitlist/internal/entity"
	"github.com/shopspring/decimal"
)

// Review reasons attached to a validation summary.
const (
	ReviewInvalidDiscount = "invalid_discount"
	ReviewPriceDrop       = "price_drop"
	ReviewPriceIncrease   = "price_increase"
	ReviewSensitiveField  = "sensitive_field"
	ReviewLockedProduct   = "product_not_changeable"
	ReviewEmptyVariants   = "empty_variants"
	ReviewTooManyIssues   = "too_many_issues"
)

// dropLimit bounds the stored price drop, it has to fit DECIMAL(7, 2).
var dropLimit = decimal.RequireFromString("99999.99")

// Validate computes the anomaly flags of a payload. current is nil for
// new-product entries. The payload is never modified.
func Validate(cfg Config, p *entity.ProductPayload, current *entity.Product) entity.Validation {
	cfg = cfg.withDefaults()
	v := entity.Validation{
		Issues:        []string{},
		ReviewReasons: []string{},
	}

	var listPrice decimal.NullDecimal
	switch {
	case p.Price.Valid:
		listPrice = decimal.NullDecimal{Decimal: p.Price.V, Valid: true}
	case current != nil && !p.Price.Set:
		listPrice = current.Price
	}

	if issues := discountIssues(cfg, p, current, listPrice); len(issues) > 0 {
		v.HasInvalidDiscount = true
		v.Issues = append(v.Issues, issues...)
	}
	v.Issues = append(v.Issues, fieldIssues(cfg, p, current)...)

	if current != nil && p.Price.Valid && current.Price.Valid && current.Price.Decimal.IsPositive() {
		cur := current.Price.Decimal
		drop := cur.Sub(p.Price.V).Div(cur).Mul(hundred).Round(2)
		drop = decimal.Max(dropLimit.Neg(), decimal.Min(drop, dropLimit))
		v.PriceDropPercentage = decimal.NullDecimal{Decimal: drop, Valid: true}
	}

	review := func(reason string) {
		v.RequiresManualReview = true
		v.ReviewReasons = append(v.ReviewReasons, reason)
	}
	if v.HasInvalidDiscount {
		review(ReviewInvalidDiscount)
	}
	if v.PriceDropPercentage.Valid {
		drop := v.PriceDropPercentage.Decimal
		if drop.GreaterThan(cfg.maxDrop()) {
			review(ReviewPriceDrop)
		}
		if drop.Neg().GreaterThan(cfg.maxIncrease()) {
			review(ReviewPriceIncrease)
		}
	}
	if current != nil {
		for _, ch := range fieldChanges(p, &current.ProductInsert) {
			if cfg.isSensitive(ch.Field) {
				review(ReviewSensitiveField)
				break
			}
		}
		if !current.IsChangeable {
			review(ReviewLockedProduct)
		}
	}
	if p.HasEmptyVariants() {
		review(ReviewEmptyVariants)
	}
	if len(v.Issues) > cfg.MaxIssuesBeforeReview {
		review(ReviewTooManyIssues)
	}

	v.IsValid = len(v.Issues) == 0
	return v
}

func discountIssues(cfg Config, p *entity.ProductPayload, current *entity.Product, listPrice decimal.NullDecimal) []string {
	var issues []string

	discount := decimal.NullDecimal{}
	switch {
	case p.DiscountPrice.Valid:
		discount = decimal.NullDecimal{Decimal: p.DiscountPrice.V, Valid: true}
	case current != nil && !p.DiscountPrice.Set:
		discount = current.DiscountPrice
	}

	switch {
	case p.DiscountPrice.Valid && p.DiscountPrice.V.IsNegative():
		issues = append(issues, fmt.Sprintf("discount price %s is negative", p.DiscountPrice.V))
	case p.DiscountPrice.Valid && listPrice.Valid && discount.Decimal.GreaterThanOrEqual(listPrice.Decimal):
		issues = append(issues, fmt.Sprintf("discount price %s is not below price %s", discount.Decimal, listPrice.Decimal))
	case p.Price.Valid && discount.Valid && discount.Decimal.GreaterThanOrEqual(listPrice.Decimal):
		// the product keeps its discount
		issues = append(issues, fmt.Sprintf("price %s is not above kept discount price %s", listPrice.Decimal, discount.Decimal))
	}

	if p.DiscountPercentage.Valid {
		pct := p.DiscountPercentage.V
		switch {
		case pct.IsNegative() || pct.GreaterThan(hundred):
			issues = append(issues, fmt.Sprintf("discount percentage %s is out of range", pct))
		case discount.Valid && listPrice.Valid && listPrice.Decimal.IsPositive():
			lp := listPrice.Decimal
			expected := lp.Sub(discount.Decimal).Div(lp).Mul(hundred)
			if pct.Sub(expected).Abs().GreaterThan(cfg.discountTolerance()) {
				issues = append(issues, fmt.Sprintf("discount percentage %s does not match discount price (expected %s)",
					pct, expected.Round(2)))
			}
		}
	}
	return issues
}

func fieldIssues(cfg Config, p *entity.ProductPayload, current *entity.Product) []string {
	var issues []string
	if current == nil {
		if !p.Name.Valid || strings.TrimSpace(p.Name.V) == "" {
			issues = append(issues, "name is required")
		}
		if !p.Price.Valid {
			issues = append(issues, "price is required")
		}
	} else {
		if p.Name.Removed() {
			issues = append(issues, "name can't be removed")
		}
		if p.Price.Removed() {
			issues = append(issues, "price can't be removed")
		}
		if p.CreatedAt.Valid && !p.CreatedAt.V.Equal(current.CreatedAt) {
			issues = append(issues, fmt.Sprintf("created_at %s does not match product (%s)",
				p.CreatedAt.V.Format(time.RFC3339), current.CreatedAt.Format(time.RFC3339)))
		}
	}
	if p.Slug.Valid && strings.TrimSpace(p.Slug.V) == "" {
		issues = append(issues, "slug can't be empty")
	}
	if p.Name.Valid && current != nil && strings.TrimSpace(p.Name.V) == "" {
		issues = append(issues, "name can't be empty")
	}
	if p.Price.Valid && !p.Price.V.IsPositive() {
		issues = append(issues, "price must be positive")
	}
	if p.Stock.Valid && p.Stock.V < 0 {
		issues = append(issues, "stock can't be negative")
	}
	if p.StockCode.Valid && strings.TrimSpace(p.StockCode.V) == "" {
		issues = append(issues, "stock code can't be empty")
	}
	if p.Description.Valid && utf8.RuneCountInString(p.Description.V) > cfg.MaxDescriptionLength {
		issues = append(issues, fmt.Sprintf("description exceeds %d characters", cfg.MaxDescriptionLength))
	}
	if p.ImageURL.Valid && !govalidator.IsRequestURL(p.ImageURL.V) {
		issues = append(issues, fmt.Sprintf("image url %q is not valid", p.ImageURL.V))
	}
	return issues
}
