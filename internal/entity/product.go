package entity

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	ProductStatusActive          ProductStatus = "active"
	ProductStatusPassive         ProductStatus = "passive"
	ProductStatusWaitingApproval ProductStatus = "waiting_approval"
	ProductStatusRejected        ProductStatus = "rejected"
	ProductStatusPendingUpdate   ProductStatus = "pending_update"
)

var productStatuses = map[ProductStatus]struct{}{
	ProductStatusActive:          {},
	ProductStatusPassive:         {},
	ProductStatusWaitingApproval: {},
	ProductStatusRejected:        {},
	ProductStatusPendingUpdate:   {},
}

func (ps ProductStatus) String() string {
	return string(ps)
}

func (ps ProductStatus) Valid() bool {
	_, ok := productStatuses[ps]
	return ok
}

// ParseProductStatus converts a raw status name into a ProductStatus.
func ParseProductStatus(s string) (ProductStatus, error) {
	ps := ProductStatus(s)
	if !ps.Valid() {
		return "", fmt.Errorf("unknown product status %q", s)
	}
	return ps, nil
}

func (ps *ProductStatus) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("status must be a string: %w", err)
	}
	parsed, err := ParseProductStatus(s)
	if err != nil {
		return err
	}
	*ps = parsed
	return nil
}

// Attributes holds free-form catalog fields that have no dedicated column.
// Stored as a JSON object.
type Attributes map[string]json.RawMessage

// Value encodes the attributes as a string, MySQL refuses JSON from binary strings.
func (a Attributes) Value() (driver.Value, error) {
	if a == nil {
		return "{}", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (a *Attributes) Scan(src any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		*a = Attributes{}
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("unsupported attributes type %T", src)
	}
	m := Attributes{}
	if len(b) > 0 {
		if err := json.Unmarshal(b, &m); err != nil {
			return fmt.Errorf("can't unmarshal attributes: %w", err)
		}
	}
	*a = m
	return nil
}

// ProductInsert is the writable part of a catalog product.
type ProductInsert struct {
	Slug               string              `db:"slug"`
	Name               sql.NullString      `db:"name"`
	Price              decimal.NullDecimal `db:"price"`
	DiscountPrice      decimal.NullDecimal `db:"discount_price"`
	DiscountPercentage decimal.NullDecimal `db:"discount_percentage"`
	Stock              sql.NullInt64       `db:"stock"`
	Description        sql.NullString      `db:"description"`
	StockCode          sql.NullString      `db:"stock_code"`
	ImageURL           sql.NullString      `db:"image_url"`
	BrandId            sql.NullInt64       `db:"brand_id"`
	CategoryId         sql.NullInt64       `db:"category_id"`
	Status             ProductStatus       `db:"status"`
	IsChangeable       bool                `db:"is_changeable"`
	Attributes         Attributes          `db:"attributes"`
}

type Product struct {
	Id        string    `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
	ProductInsert
}

// Snapshot returns the product as plain JSON values, NULL columns included
// as nulls. Used for audit states and views.
func (p ProductInsert) Snapshot() map[string]any {
	nullable := func(ok bool, v any) any {
		if !ok {
			return nil
		}
		return v
	}
	attrs := p.Attributes
	if attrs == nil {
		attrs = Attributes{}
	}
	return map[string]any{
		FieldSlug:               p.Slug,
		FieldName:               nullable(p.Name.Valid, p.Name.String),
		FieldPrice:              nullable(p.Price.Valid, p.Price.Decimal),
		FieldDiscountPrice:      nullable(p.DiscountPrice.Valid, p.DiscountPrice.Decimal),
		FieldDiscountPercentage: nullable(p.DiscountPercentage.Valid, p.DiscountPercentage.Decimal),
		FieldStock:              nullable(p.Stock.Valid, p.Stock.Int64),
		FieldDescription:        nullable(p.Description.Valid, p.Description.String),
		FieldStockCode:          nullable(p.StockCode.Valid, p.StockCode.String),
		FieldImageURL:           nullable(p.ImageURL.Valid, p.ImageURL.String),
		FieldBrandId:            nullable(p.BrandId.Valid, p.BrandId.Int64),
		FieldCategoryId:         nullable(p.CategoryId.Valid, p.CategoryId.Int64),
		FieldStatus:             p.Status,
		FieldIsChangeable:       p.IsChangeable,
		FieldAttributes:         attrs,
	}
}
