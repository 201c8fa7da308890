package entity

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Optional is a payload field that tells apart a key missing from the
// payload (Set is false), an explicit null (Set true, Valid false) and a value.
type Optional[T any] struct {
	Set   bool
	Valid bool
	V     T
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Valid: true, V: v}
}

// Null returns an Optional for an explicit null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// Removed reports whether the payload explicitly nulls the field.
func (o Optional[T]) Removed() bool {
	return o.Set && !o.Valid
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Valid = false
		return nil
	}
	if err := json.Unmarshal(b, &o.V); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.V)
}

// Payload keys with a dedicated catalog column.
const (
	FieldSlug               = "slug"
	FieldName               = "name"
	FieldPrice              = "price"
	FieldDiscountPrice      = "discount_price"
	FieldDiscountPercentage = "discount_percentage"
	FieldStock              = "stock"
	FieldDescription        = "description"
	FieldStockCode          = "stock_code"
	FieldImageURL           = "image_url"
	FieldBrandId            = "brand_id"
	FieldCategoryId         = "category_id"
	FieldStatus             = "status"
	FieldIsChangeable       = "is_changeable"
	FieldVariants           = "variants"
	FieldAttributes         = "attributes"

	// read-only product columns, never merged into the catalog
	FieldId        = "id"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"

	// legacy spelling some feeds still send
	fieldDiscountedPrice = "discounted_price"
)

var knownFields = map[string]struct{}{
	FieldSlug: {}, FieldName: {}, FieldPrice: {}, FieldDiscountPrice: {},
	FieldDiscountPercentage: {}, FieldStock: {}, FieldDescription: {},
	FieldStockCode: {}, FieldImageURL: {}, FieldBrandId: {}, FieldCategoryId: {},
	FieldStatus: {}, FieldIsChangeable: {}, fieldDiscountedPrice: {},
	FieldAttributes: {}, FieldId: {}, FieldCreatedAt: {}, FieldUpdatedAt: {},
}

// ProductPayload is the decoded form of a waitlist entry payload.
// Keys without a catalog column end up in Extra, along with the keys of a
// nested attributes object. Top-level keys win over nested ones.
type ProductPayload struct {
	Slug               Optional[string]          `json:"slug"`
	Name               Optional[string]          `json:"name"`
	Price              Optional[decimal.Decimal] `json:"price"`
	DiscountPrice      Optional[decimal.Decimal] `json:"discount_price"`
	DiscountPercentage Optional[decimal.Decimal] `json:"discount_percentage"`
	Stock              Optional[int64]           `json:"stock"`
	Description        Optional[string]          `json:"description"`
	StockCode          Optional[string]          `json:"stock_code"`
	ImageURL           Optional[string]          `json:"image_url"`
	BrandId            Optional[int64]           `json:"brand_id"`
	CategoryId         Optional[int64]           `json:"category_id"`
	Status             Optional[ProductStatus]   `json:"status"`
	IsChangeable       Optional[bool]            `json:"is_changeable"`

	Id        Optional[string]    `json:"id"`
	CreatedAt Optional[time.Time] `json:"created_at"`
	UpdatedAt Optional[time.Time] `json:"updated_at"`

	Extra map[string]json.RawMessage `json:"-"`
}

type payloadFields ProductPayload

func (p *ProductPayload) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("payload must be a JSON object: %w", err)
	}
	if raw == nil {
		return fmt.Errorf("payload must be a JSON object")
	}
	var f payloadFields
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("can't decode payload: %w", err)
	}
	if dp, ok := raw[fieldDiscountedPrice]; ok && !f.DiscountPrice.Set {
		if err := f.DiscountPrice.UnmarshalJSON(dp); err != nil {
			return fmt.Errorf("can't decode %s: %w", fieldDiscountedPrice, err)
		}
	}
	for name, o := range map[string]bool{
		FieldSlug:         f.Slug.Removed(),
		FieldStatus:       f.Status.Removed(),
		FieldIsChangeable: f.IsChangeable.Removed(),
		FieldId:           f.Id.Removed(),
	} {
		if o {
			return fmt.Errorf("field %s can't be null", name)
		}
	}
	f.Extra = map[string]json.RawMessage{}
	if nested, ok := raw[FieldAttributes]; ok {
		var attrs map[string]json.RawMessage
		if err := json.Unmarshal(nested, &attrs); err != nil || attrs == nil {
			return fmt.Errorf("field %s must be a JSON object", FieldAttributes)
		}
		for k, v := range attrs {
			f.Extra[k] = v
		}
	}
	for k, v := range raw {
		if _, ok := knownFields[k]; !ok {
			f.Extra[k] = v
		}
	}
	*p = ProductPayload(f)
	return nil
}

// ParsePayload decodes a raw entry payload.
func ParsePayload(raw json.RawMessage) (*ProductPayload, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("payload is empty")
	}
	p := &ProductPayload{}
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ExtraKeys returns the free-form keys of the payload in sorted order.
func (p *ProductPayload) ExtraKeys() []string {
	keys := make([]string, 0, len(p.Extra))
	for k := range p.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// HasEmptyVariants reports whether the payload sends an explicit empty variants list.
func (p *ProductPayload) HasEmptyVariants() bool {
	raw, ok := p.Extra[FieldVariants]
	if !ok {
		return false
	}
	var v []json.RawMessage
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	return v != nil && len(v) == 0
}

// ApplyTo overwrites the fields of dst present in the payload. Explicit nulls
// clear the column or drop the attribute. Fields absent from the payload are
// left untouched, as are id and the timestamps.
func (p *ProductPayload) ApplyTo(dst ProductInsert) ProductInsert {
	if p.Slug.Valid {
		dst.Slug = p.Slug.V
	}
	applyString(&dst.Name, p.Name)
	applyDecimal(&dst.Price, p.Price)
	applyDecimal(&dst.DiscountPrice, p.DiscountPrice)
	applyDecimal(&dst.DiscountPercentage, p.DiscountPercentage)
	applyInt(&dst.Stock, p.Stock)
	applyString(&dst.Description, p.Description)
	applyString(&dst.StockCode, p.StockCode)
	applyString(&dst.ImageURL, p.ImageURL)
	applyInt(&dst.BrandId, p.BrandId)
	applyInt(&dst.CategoryId, p.CategoryId)
	if p.Status.Valid {
		dst.Status = p.Status.V
	}
	if p.IsChangeable.Valid {
		dst.IsChangeable = p.IsChangeable.V
	}

	attrs := make(Attributes, len(dst.Attributes)+len(p.Extra))
	for k, v := range dst.Attributes {
		attrs[k] = v
	}
	for k, v := range p.Extra {
		if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			delete(attrs, k)
			continue
		}
		attrs[k] = v
	}
	dst.Attributes = attrs
	return dst
}

func applyString(dst *sql.NullString, o Optional[string]) {
	if o.Set {
		*dst = sql.NullString{String: o.V, Valid: o.Valid}
	}
}

func applyInt(dst *sql.NullInt64, o Optional[int64]) {
	if o.Set {
		*dst = sql.NullInt64{Int64: o.V, Valid: o.Valid}
	}
}

func applyDecimal(dst *decimal.NullDecimal, o Optional[decimal.Decimal]) {
	if o.Set {
		*dst = decimal.NullDecimal{Decimal: o.V, Valid: o.Valid}
	}
}
