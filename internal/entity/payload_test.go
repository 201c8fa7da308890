package entity

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePayloadPresence(t *testing.T) {
	p, err := ParsePayload(json.RawMessage(`{"name":"Chair","stock":null,"legs":4}`))
	require.NoError(t, err)

	assert.Equal(t, Some("Chair"), p.Name)
	assert.True(t, p.Stock.Removed())
	assert.False(t, p.Price.Set, "absent keys are not set")
	assert.Equal(t, []string{"legs"}, p.ExtraKeys())
}

func TestParsePayloadLegacyDiscount(t *testing.T) {
	p, err := ParsePayload(json.RawMessage(`{"price":100,"discounted_price":120}`))
	require.NoError(t, err)
	require.True(t, p.DiscountPrice.Valid)
	assert.True(t, p.DiscountPrice.V.Equal(decimal.NewFromInt(120)))
	assert.Empty(t, p.Extra)

	p, err = ParsePayload(json.RawMessage(`{"discount_price":80,"discounted_price":120}`))
	require.NoError(t, err)
	assert.True(t, p.DiscountPrice.V.Equal(decimal.NewFromInt(80)))
}

func TestParsePayloadErrors(t *testing.T) {
	for _, raw := range []string{``, ` `, `null`, `[]`, `"x"`, `{"price":"abc"}`, `{"status":"deleted"}`, `{"slug":null}`, `{"is_changeable":null}`, `{"stock":1.5}`,
		`{"id":null}`, `{"attributes":null}`, `{"attributes":[1]}`, `{"attributes":"x"}`, `{"created_at":"yesterday"}`} {
		_, err := ParsePayload(json.RawMessage(raw))
		assert.Error(t, err, raw)
	}
}

func TestParsePayloadProductColumns(t *testing.T) {
	p, err := ParsePayload(json.RawMessage(`{
		"id":"p1","slug":"chair","price":200,
		"attributes":{"color":"black","legs":4},
		"legs":3,
		"created_at":"2024-02-01T10:00:00Z","updated_at":"2024-02-01T10:00:00Z"
	}`))
	require.NoError(t, err)

	assert.Equal(t, Some("p1"), p.Id)
	require.True(t, p.CreatedAt.Valid)
	assert.True(t, p.CreatedAt.V.Equal(time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)))
	assert.True(t, p.UpdatedAt.Valid)
	assert.Equal(t, []string{"color", "legs"}, p.ExtraKeys())
	assert.JSONEq(t, `3`, string(p.Extra["legs"]), "top-level keys win over nested attributes")

	got := p.ApplyTo(ProductInsert{Slug: "chair", Attributes: Attributes{"color": json.RawMessage(`"white"`)}})
	assert.Equal(t, Attributes{
		"color": json.RawMessage(`"black"`),
		"legs":  json.RawMessage(`3`),
	}, got.Attributes)
}

func TestHasEmptyVariants(t *testing.T) {
	p, err := ParsePayload(json.RawMessage(`{"variants":[]}`))
	require.NoError(t, err)
	assert.True(t, p.HasEmptyVariants())

	p, err = ParsePayload(json.RawMessage(`{"variants":[{"size":"m"}]}`))
	require.NoError(t, err)
	assert.False(t, p.HasEmptyVariants())

	p, err = ParsePayload(json.RawMessage(`{"variants":null}`))
	require.NoError(t, err)
	assert.False(t, p.HasEmptyVariants())
}

func TestApplyTo(t *testing.T) {
	dst := ProductInsert{
		Slug:         "chair",
		Name:         sql.NullString{String: "Chair", Valid: true},
		Price:        decimal.NullDecimal{Decimal: decimal.NewFromInt(200), Valid: true},
		Stock:        sql.NullInt64{Int64: 3, Valid: true},
		Status:       ProductStatusActive,
		IsChangeable: true,
		Attributes: Attributes{
			"color": json.RawMessage(`"black"`),
			"legs":  json.RawMessage(`4`),
		},
	}
	p, err := ParsePayload(json.RawMessage(`{"price":150,"stock":null,"legs":null,"material":"oak","is_changeable":false}`))
	require.NoError(t, err)

	got := p.ApplyTo(dst)
	assert.Equal(t, "chair", got.Slug)
	assert.Equal(t, "Chair", got.Name.String)
	assert.True(t, got.Price.Decimal.Equal(decimal.NewFromInt(150)))
	assert.False(t, got.Stock.Valid)
	assert.False(t, got.IsChangeable)
	assert.Equal(t, Attributes{
		"color":    json.RawMessage(`"black"`),
		"material": json.RawMessage(`"oak"`),
	}, got.Attributes)

	assert.Contains(t, dst.Attributes, "legs", "the input is not modified")
	assert.True(t, dst.Stock.Valid)
}

func TestAttributesScan(t *testing.T) {
	var a Attributes
	require.NoError(t, a.Scan([]byte(`{"color":"black"}`)))
	assert.JSONEq(t, `"black"`, string(a["color"]))

	require.NoError(t, a.Scan(nil))
	assert.Empty(t, a)

	assert.Error(t, a.Scan(42))

	v, err := Attributes(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", v)
}

func TestProductStatus(t *testing.T) {
	for _, s := range []string{"active", "passive", "waiting_approval", "rejected", "pending_update"} {
		ps, err := ParseProductStatus(s)
		require.NoError(t, err)
		assert.Equal(t, s, ps.String())
	}
	_, err := ParseProductStatus("archived")
	assert.Error(t, err)
}

func TestSnapshot(t *testing.T) {
	snap := ProductInsert{
		Slug:  "chair",
		Price: decimal.NullDecimal{Decimal: decimal.NewFromInt(10), Valid: true},
	}.Snapshot()

	assert.Nil(t, snap[FieldName])
	assert.Nil(t, snap[FieldStock])
	assert.Equal(t, "chair", snap[FieldSlug])
	assert.Equal(t, Attributes{}, snap[FieldAttributes])
	assert.True(t, decimal.NewFromInt(10).Equal(snap[FieldPrice].(decimal.Decimal)))
}
