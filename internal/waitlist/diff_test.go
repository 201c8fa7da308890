package waitlist

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jekabolt/grbpwr-waitlist/internal/entity"
	gerr "github.com/jekabolt/grbpwr-waitlist/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeDiffNewProduct(t *testing.T) {
	entry := newEntry("w1", "", `{"name":"Chair","price":100}`)

	res, err := ComputeDiff(DefaultConfig(), &entry, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.EntryTypeNew, res.Kind)
	assert.JSONEq(t, `{"name":"Chair","price":100}`, string(res.Proposed))
	assert.Empty(t, res.Changes)
	assert.True(t, res.Validation.IsValid)
	assert.Equal(t, `New product "Chair" priced 100`, res.Summary)
}

func TestComputeDiffNewIgnoresProduct(t *testing.T) {
	entry := newEntry("w1", "", `{"name":"Chair","price":100}`)
	prd := newProduct("p1", 50)

	res, err := ComputeDiff(DefaultConfig(), &entry, &prd)
	require.NoError(t, err)
	assert.Equal(t, entity.EntryTypeNew, res.Kind)
	assert.Empty(t, res.ProductId)
}

func TestComputeDiffUpdate(t *testing.T) {
	entry := newEntry("w2", "p1", `{"price":150,"name":"Chair","stock":null,"color":"white","legs":4,"image_url":null}`)
	prd := newProduct("p1", 200)

	res, err := ComputeDiff(DefaultConfig(), &entry, &prd)
	require.NoError(t, err)
	assert.Equal(t, entity.EntryTypeUpdate, res.Kind)
	assert.Equal(t, "p1", res.ProductId)
	assert.Nil(t, res.Proposed)

	require.Len(t, res.Changes, 4)
	fields := make([]string, 0, len(res.Changes))
	for _, ch := range res.Changes {
		fields = append(fields, ch.Field)
	}
	// name is unchanged, image_url is null on both sides
	assert.Equal(t, []string{"color", "legs", "price", "stock"}, fields)

	color, legs, price, stock := res.Changes[0], res.Changes[1], res.Changes[2], res.Changes[3]
	assert.Equal(t, entity.ChangeChanged, color.Change)
	assert.Equal(t, entity.ValueText, color.Type)
	assert.Equal(t, entity.ChangeAdded, legs.Change)
	assert.Equal(t, entity.ValueNumeric, legs.Type)
	assert.Nil(t, legs.Current)

	assert.Equal(t, entity.ChangeChanged, price.Change)
	require.True(t, price.PercentageChange.Valid)
	assert.True(t, price.PercentageChange.Decimal.Equal(dec(-25)))

	assert.Equal(t, entity.ChangeRemoved, stock.Change)
	assert.Nil(t, stock.Proposed)

	assert.True(t, res.Validation.PriceDropPercentage.Decimal.Equal(dec(25)))
	assert.Equal(t, "4 changes: price updates (price) and 3 other fields", res.Summary)
	assert.Equal(t, map[string]string{"price": "major_price_change"}, res.Significant)
	assert.False(t, res.Stale)
}

func TestComputeDiffAbsentKeysAreNotRemovals(t *testing.T) {
	entry := newEntry("w2", "p1", `{"price":200}`)
	prd := newProduct("p1", 200)

	res, err := ComputeDiff(DefaultConfig(), &entry, &prd)
	require.NoError(t, err)
	assert.Empty(t, res.Changes)
	assert.Equal(t, "No changes detected", res.Summary)
}

const fullChair = `{
	"id":"p1","slug":"chair","name":"Chair","price":200,"discount_price":null,
	"discount_percentage":null,"stock":10,"description":null,"stock_code":null,
	"image_url":null,"brand_id":null,"category_id":1,"status":"active","is_changeable":true,
	"attributes":{"color":"black"},
	"created_at":"2024-02-01T10:00:00Z","updated_at":"2024-02-01T10:00:00Z"
}`

func TestComputeDiffFullRepresentation(t *testing.T) {
	entry := newEntry("w2", "p1", fullChair)
	prd := newProduct("p1", 200)

	res, err := ComputeDiff(DefaultConfig(), &entry, &prd)
	require.NoError(t, err)
	assert.Empty(t, res.Changes)
	assert.Equal(t, "No changes detected", res.Summary)
	assert.True(t, res.Validation.IsValid, res.Validation.Issues)
	assert.False(t, res.Validation.RequiresManualReview, res.Validation.ReviewReasons)
	assert.False(t, res.Stale)
}

func TestComputeDiffNestedAttributes(t *testing.T) {
	entry := newEntry("w2", "p1", `{"id":"p1","price":150,"attributes":{"color":"white","legs":4}}`)
	prd := newProduct("p1", 200)

	res, err := ComputeDiff(DefaultConfig(), &entry, &prd)
	require.NoError(t, err)
	fields := make([]string, 0, len(res.Changes))
	for _, ch := range res.Changes {
		fields = append(fields, ch.Field)
	}
	assert.Equal(t, []string{"color", "legs", "price"}, fields)
}

func TestComputeDiffProductMetadata(t *testing.T) {
	prd := newProduct("p1", 200)

	entry := newEntry("w2", "p1", `{"id":"p2","price":150}`)
	_, err := ComputeDiff(DefaultConfig(), &entry, &prd)
	require.Error(t, err)
	assert.Equal(t, gerr.KindValidationComputation, gerr.KindOf(err))

	entry = newEntry("w2", "p1", `{"price":200,"updated_at":"2024-01-15T10:00:00Z"}`)
	res, err := ComputeDiff(DefaultConfig(), &entry, &prd)
	require.NoError(t, err)
	assert.Empty(t, res.Changes)
	assert.True(t, res.Stale, "payload copied from an older product version")

	entry = newEntry("w2", "p1", `{"price":200,"created_at":"2023-01-01T00:00:00Z"}`)
	res, err = ComputeDiff(DefaultConfig(), &entry, &prd)
	require.NoError(t, err)
	assert.Empty(t, res.Changes)
	assert.False(t, res.Validation.IsValid)
	assert.Len(t, res.Validation.Issues, 1)
}

func TestComputeDiffSinglePriceSummary(t *testing.T) {
	entry := newEntry("w2", "p1", `{"price":150}`)
	prd := newProduct("p1", 200)

	res, err := ComputeDiff(DefaultConfig(), &entry, &prd)
	require.NoError(t, err)
	assert.Equal(t, "Price changed from 200 to 150 (-25%)", res.Summary)
}

func TestComputeDiffProductMissing(t *testing.T) {
	entry := newEntry("w2", "p404", `{"price":150}`)

	_, err := ComputeDiff(DefaultConfig(), &entry, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, gerr.ErrNotFound)
	assert.Equal(t, "Product not found: p404", err.Error())
}

func TestComputeDiffMalformedPayload(t *testing.T) {
	cases := []string{`{"price":"abc"}`, `[1,2]`, `{"status":"gone"}`, `{"slug":null}`, ``}
	prd := newProduct("p1", 200)
	for _, raw := range cases {
		entry := newEntry("w3", "p1", raw)
		_, err := ComputeDiff(DefaultConfig(), &entry, &prd)
		assert.Equal(t, gerr.KindValidationComputation, gerr.KindOf(err), raw)
	}
}

func TestComputeDiffDeterministic(t *testing.T) {
	entry := newEntry("w2", "p1", `{"price":150,"z":1,"a":{"b":2},"category_id":3,"brand_id":7,"description":"new"}`)
	prd := newProduct("p1", 200)

	first, err := ComputeDiff(DefaultConfig(), &entry, &prd)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		next, err := ComputeDiff(DefaultConfig(), &entry, &prd)
		require.NoError(t, err)
		assert.Equal(t, first, next)
	}

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(first)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestComputeDiffKindBranching(t *testing.T) {
	prd := newProduct("p1", 200)
	for _, pid := range []string{"", "p1"} {
		entry := newEntry("w", pid, `{"price":10}`)
		res, err := ComputeDiff(DefaultConfig(), &entry, &prd)
		require.NoError(t, err)
		if pid == "" {
			assert.Equal(t, entity.EntryTypeNew, res.Kind)
		} else {
			assert.Equal(t, entity.EntryTypeUpdate, res.Kind)
		}
	}
}

func TestComputeDiffStale(t *testing.T) {
	entry := newEntry("w2", "p1", `{"price":150}`)
	prd := newProduct("p1", 200)
	prd.UpdatedAt = queuedAt.Add(time.Hour)

	res, err := ComputeDiff(DefaultConfig(), &entry, &prd)
	require.NoError(t, err)
	assert.True(t, res.Stale)
}

func TestSignificantChanges(t *testing.T) {
	entry := newEntry("w2", "p1", `{"stock":1,"brand_id":3}`)
	prd := newProduct("p1", 200)

	res, err := ComputeDiff(DefaultConfig(), &entry, &prd)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"stock":    "major_stock_decrease",
		"brand_id": "category_or_brand_change",
	}, res.Significant)
}

func TestFieldDisplayName(t *testing.T) {
	assert.Equal(t, "Stock Code", FieldDisplayName("stock_code"))
	assert.Equal(t, "Price", FieldDisplayName("price"))
}
