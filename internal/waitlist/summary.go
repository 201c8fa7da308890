package waitlist

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jekabolt/grbpwr-waitlist/internal/entity"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FieldDisplayName turns a payload key into a label, stock_code becomes Stock Code.
func FieldDisplayName(field string) string {
	// casers keep state, one per call
	return cases.Title(language.English).String(strings.ReplaceAll(field, "_", " "))
}

func isPriceField(field string) bool {
	return field == entity.FieldPrice || field == entity.FieldDiscountPrice
}

// DisplayValue renders a diff value for humans.
func DisplayValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "none"
	case decimal.Decimal:
		return t.String()
	case json.RawMessage:
		return string(t)
	case string:
		return t
	}
	return fmt.Sprint(v)
}

func changesSummary(changes []entity.FieldChange) string {
	switch len(changes) {
	case 0:
		return "No changes detected"
	case 1:
		ch := changes[0]
		if ch.Field == entity.FieldPrice {
			pct := ""
			if ch.PercentageChange.Valid && !ch.PercentageChange.Decimal.IsZero() {
				sign := ""
				if ch.PercentageChange.Decimal.IsPositive() {
					sign = "+"
				}
				pct = fmt.Sprintf(" (%s%s%%)", sign, ch.PercentageChange.Decimal)
			}
			return fmt.Sprintf("Price changed from %s to %s%s", DisplayValue(ch.Current), DisplayValue(ch.Proposed), pct)
		}
		return fmt.Sprintf("%s changed from %q to %q", FieldDisplayName(ch.Field), DisplayValue(ch.Current), DisplayValue(ch.Proposed))
	}

	var price, other []string
	for _, ch := range changes {
		if isPriceField(ch.Field) {
			price = append(price, ch.Field)
		} else {
			other = append(other, ch.Field)
		}
	}

	sb := strings.Builder{}
	fmt.Fprintf(&sb, "%d changes: ", len(changes))
	if len(price) == 0 {
		names := make([]string, 0, len(other))
		for _, f := range other {
			names = append(names, FieldDisplayName(f))
		}
		sb.WriteString(strings.Join(names, ", "))
		return sb.String()
	}
	fmt.Fprintf(&sb, "price updates (%s)", strings.Join(price, ", "))
	if len(other) > 0 {
		plural := ""
		if len(other) > 1 {
			plural = "s"
		}
		fmt.Fprintf(&sb, " and %d other field%s", len(other), plural)
	}
	return sb.String()
}

func newProductSummary(p *entity.ProductPayload) string {
	name := "unnamed product"
	if p.Name.Valid && strings.TrimSpace(p.Name.V) != "" {
		name = p.Name.V
	}
	if p.Price.Valid {
		return fmt.Sprintf("New product %q priced %s", name, p.Price.V)
	}
	return fmt.Sprintf("New product %q", name)
}

// SignificantChanges flags changes an operator should double check:
// large price moves, large stock swings and category or brand moves.
func SignificantChanges(changes []entity.FieldChange) map[string]string {
	out := map[string]string{}
	for _, ch := range changes {
		pct := ch.PercentageChange
		switch {
		case isPriceField(ch.Field) && pct.Valid && pct.Decimal.Abs().GreaterThan(decimal.NewFromInt(20)):
			out[ch.Field] = "major_price_change"
		case ch.Field == entity.FieldStock && pct.Valid && pct.Decimal.LessThan(decimal.NewFromInt(-80)):
			out[ch.Field] = "major_stock_decrease"
		case ch.Field == entity.FieldStock && pct.Valid && pct.Decimal.GreaterThan(decimal.NewFromInt(500)):
			out[ch.Field] = "major_stock_increase"
		case ch.Field == entity.FieldCategoryId || ch.Field == entity.FieldBrandId:
			out[ch.Field] = "category_or_brand_change"
		}
	}
	return out
}
