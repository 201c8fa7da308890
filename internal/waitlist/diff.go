package waitlist

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"sort"

	"github.com/jekabolt/grbpwr-waitlist/internal/entity"
	gerr "github.com/jekabolt/grbpwr-waitlist/internal/errors"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// proposal is one payload key as seen by the diff.
type proposal struct {
	set   bool
	valid bool
	value any
}

type fieldSpec struct {
	name     string
	typ      entity.ValueType
	current  func(*entity.ProductInsert) (any, bool)
	proposed func(*entity.ProductPayload) proposal
}

func opt[T any](o entity.Optional[T]) proposal {
	return proposal{set: o.Set, valid: o.Valid, value: o.V}
}

func optInt(o entity.Optional[int64]) proposal {
	return proposal{set: o.Set, valid: o.Valid, value: decimal.NewFromInt(o.V)}
}

func nullString(ns sql.NullString) (any, bool) {
	return ns.String, ns.Valid
}

func nullInt(ni sql.NullInt64) (any, bool) {
	return decimal.NewFromInt(ni.Int64), ni.Valid
}

func nullDecimal(nd decimal.NullDecimal) (any, bool) {
	return nd.Decimal, nd.Valid
}

// catalogFields is sorted by name. Integers are compared as decimals.
var catalogFields = []fieldSpec{
	{entity.FieldBrandId, entity.ValueNumeric,
		func(p *entity.ProductInsert) (any, bool) { return nullInt(p.BrandId) },
		func(p *entity.ProductPayload) proposal { return optInt(p.BrandId) }},
	{entity.FieldCategoryId, entity.ValueNumeric,
		func(p *entity.ProductInsert) (any, bool) { return nullInt(p.CategoryId) },
		func(p *entity.ProductPayload) proposal { return optInt(p.CategoryId) }},
	{entity.FieldDescription, entity.ValueText,
		func(p *entity.ProductInsert) (any, bool) { return nullString(p.Description) },
		func(p *entity.ProductPayload) proposal { return opt(p.Description) }},
	{entity.FieldDiscountPercentage, entity.ValueNumeric,
		func(p *entity.ProductInsert) (any, bool) { return nullDecimal(p.DiscountPercentage) },
		func(p *entity.ProductPayload) proposal { return opt(p.DiscountPercentage) }},
	{entity.FieldDiscountPrice, entity.ValueNumeric,
		func(p *entity.ProductInsert) (any, bool) { return nullDecimal(p.DiscountPrice) },
		func(p *entity.ProductPayload) proposal { return opt(p.DiscountPrice) }},
	{entity.FieldImageURL, entity.ValueText,
		func(p *entity.ProductInsert) (any, bool) { return nullString(p.ImageURL) },
		func(p *entity.ProductPayload) proposal { return opt(p.ImageURL) }},
	{entity.FieldIsChangeable, entity.ValueBoolean,
		func(p *entity.ProductInsert) (any, bool) { return p.IsChangeable, true },
		func(p *entity.ProductPayload) proposal { return opt(p.IsChangeable) }},
	{entity.FieldName, entity.ValueText,
		func(p *entity.ProductInsert) (any, bool) { return nullString(p.Name) },
		func(p *entity.ProductPayload) proposal { return opt(p.Name) }},
	{entity.FieldPrice, entity.ValueNumeric,
		func(p *entity.ProductInsert) (any, bool) { return nullDecimal(p.Price) },
		func(p *entity.ProductPayload) proposal { return opt(p.Price) }},
	{entity.FieldSlug, entity.ValueText,
		func(p *entity.ProductInsert) (any, bool) { return p.Slug, p.Slug != "" },
		func(p *entity.ProductPayload) proposal { return opt(p.Slug) }},
	{entity.FieldStatus, entity.ValueText,
		func(p *entity.ProductInsert) (any, bool) { return string(p.Status), p.Status != "" },
		func(p *entity.ProductPayload) proposal {
			return proposal{set: p.Status.Set, valid: p.Status.Valid, value: string(p.Status.V)}
		}},
	{entity.FieldStock, entity.ValueNumeric,
		func(p *entity.ProductInsert) (any, bool) { return nullInt(p.Stock) },
		func(p *entity.ProductPayload) proposal { return optInt(p.Stock) }},
	{entity.FieldStockCode, entity.ValueText,
		func(p *entity.ProductInsert) (any, bool) { return nullString(p.StockCode) },
		func(p *entity.ProductPayload) proposal { return opt(p.StockCode) }},
}

// ComputeDiff compares the entry payload to the current product. New-product
// entries report the payload as proposed, update entries get a field diff
// and fail with a not found error when the product is gone.
func ComputeDiff(cfg Config, entry *entity.WaitlistEntry, current *entity.Product) (*entity.DiffResult, error) {
	cfg = cfg.withDefaults()
	payload, err := entity.ParsePayload(entry.Payload)
	if err != nil {
		return nil, gerr.Wrap(gerr.KindValidationComputation, err, "can't parse payload of waitlist entry %s", entry.Id)
	}

	res := &entity.DiffResult{
		WaitlistId:  entry.Id,
		ProductSlug: entry.ProductSlug,
		Kind:        entry.Type(),
	}

	if entry.Type() == entity.EntryTypeNew {
		res.Proposed = entry.Payload
		res.Validation = Validate(cfg, payload, nil)
		res.Summary = newProductSummary(payload)
		return res, nil
	}

	if current == nil {
		return nil, gerr.NotFound("Product", entry.ProductId.String)
	}
	if err := checkIdentity(payload, current); err != nil {
		return nil, err
	}
	res.ProductId = current.Id
	res.Changes = fieldChanges(payload, &current.ProductInsert)
	res.Validation = Validate(cfg, payload, current)
	res.Significant = SignificantChanges(res.Changes)
	res.Summary = changesSummary(res.Changes)
	res.Stale = IsStale(entry, current) || restatesOlder(payload, current)
	return res, nil
}

// checkIdentity refuses a payload whose id names another product.
func checkIdentity(p *entity.ProductPayload, current *entity.Product) error {
	if p.Id.Valid && p.Id.V != current.Id {
		return gerr.New(gerr.KindValidationComputation, "payload id %s does not match product %s", p.Id.V, current.Id)
	}
	return nil
}

// restatesOlder reports whether the payload was copied from an earlier
// version of the product.
func restatesOlder(p *entity.ProductPayload, current *entity.Product) bool {
	return p.UpdatedAt.Valid && p.UpdatedAt.V.Before(current.UpdatedAt)
}

// IsStale reports whether the product changed after the entry was last proposed.
func IsStale(entry *entity.WaitlistEntry, current *entity.Product) bool {
	proposedAt := entry.UpdatedAt
	if proposedAt.IsZero() {
		proposedAt = entry.CreatedAt
	}
	return current.UpdatedAt.After(proposedAt)
}

// fieldChanges lists the changes the payload makes to current, sorted by field.
func fieldChanges(payload *entity.ProductPayload, current *entity.ProductInsert) []entity.FieldChange {
	var changes []entity.FieldChange
	for _, f := range catalogFields {
		cur, hasCur := f.current(current)
		if ch, ok := classify(f.name, f.typ, cur, hasCur, f.proposed(payload)); ok {
			changes = append(changes, ch)
		}
	}

	for _, k := range payload.ExtraKeys() {
		raw := payload.Extra[k]
		p := proposal{set: true, valid: !isJSONNull(raw), value: raw}
		curRaw, hasCur := current.Attributes[k]
		typ := jsonValueType(raw)
		if hasCur && !p.valid {
			typ = jsonValueType(curRaw)
		}
		var cur any
		if hasCur {
			cur = curRaw
		}
		if ch, ok := classify(k, typ, cur, hasCur, p); ok {
			changes = append(changes, ch)
		}
	}

	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].Field < changes[j].Field
	})
	return changes
}

func classify(field string, typ entity.ValueType, cur any, hasCur bool, p proposal) (entity.FieldChange, bool) {
	if !p.set {
		return entity.FieldChange{}, false
	}
	ch := entity.FieldChange{Field: field, Type: typ}
	switch {
	case !p.valid:
		if !hasCur {
			return ch, false
		}
		ch.Change = entity.ChangeRemoved
		ch.Current = cur
	case !hasCur:
		ch.Change = entity.ChangeAdded
		ch.Proposed = p.value
	case equalValues(cur, p.value):
		return ch, false
	default:
		ch.Change = entity.ChangeChanged
		ch.Current = cur
		ch.Proposed = p.value
		ch.PercentageChange = percentageChange(cur, p.value)
	}
	return ch, true
}

func percentageChange(cur, proposed any) decimal.NullDecimal {
	c, ok := asDecimal(cur)
	if !ok || c.IsZero() {
		return decimal.NullDecimal{}
	}
	p, ok := asDecimal(proposed)
	if !ok {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: p.Sub(c).Div(c).Mul(hundred).Round(2), Valid: true}
}

func asDecimal(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case decimal.Decimal:
		return t, true
	case json.RawMessage:
		var d decimal.Decimal
		if jsonValueType(t) != entity.ValueNumeric {
			return d, false
		}
		if err := d.UnmarshalJSON(t); err != nil {
			return d, false
		}
		return d, true
	}
	return decimal.Decimal{}, false
}

func equalValues(a, b any) bool {
	if da, ok := a.(decimal.Decimal); ok {
		db, ok := b.(decimal.Decimal)
		return ok && da.Equal(db)
	}
	if ra, ok := a.(json.RawMessage); ok {
		rb, ok := b.(json.RawMessage)
		return ok && equalJSON(ra, rb)
	}
	return a == b
}

func equalJSON(a, b json.RawMessage) bool {
	var ca, cb bytes.Buffer
	if json.Compact(&ca, a) != nil || json.Compact(&cb, b) != nil {
		return bytes.Equal(a, b)
	}
	if bytes.Equal(ca.Bytes(), cb.Bytes()) {
		return true
	}
	// numbers and objects with reordered keys
	var va, vb any
	if json.Unmarshal(a, &va) != nil || json.Unmarshal(b, &vb) != nil {
		return false
	}
	na, _ := json.Marshal(va)
	nb, _ := json.Marshal(vb)
	return bytes.Equal(na, nb)
}

func isJSONNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func jsonValueType(raw json.RawMessage) entity.ValueType {
	t := bytes.TrimSpace(raw)
	if len(t) == 0 {
		return entity.ValueObject
	}
	switch c := t[0]; {
	case c == '"':
		return entity.ValueText
	case c == 't' || c == 'f':
		return entity.ValueBoolean
	case c == '-' || (c >= '0' && c <= '9'):
		return entity.ValueNumeric
	}
	return entity.ValueObject
}
