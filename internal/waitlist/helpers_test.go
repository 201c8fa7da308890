package waitlist

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/jekabolt/grbpwr-waitlist/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	queuedAt  = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	updatedAt = time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
)

func newEntry(id string, productId string, payload string) entity.WaitlistEntry {
	return entity.WaitlistEntry{
		Id:        id,
		Version:   1,
		State:     entity.WaitlistStatePending,
		CreatedAt: queuedAt,
		UpdatedAt: queuedAt,
		WaitlistEntryInsert: entity.WaitlistEntryInsert{
			ProductSlug: "chair",
			ProductId:   sql.NullString{String: productId, Valid: productId != ""},
			Reason:      entity.ReasonPriceChange,
			Payload:     json.RawMessage(payload),
		},
	}
}

func newProduct(id string, price int64) entity.Product {
	return entity.Product{
		Id:        id,
		CreatedAt: updatedAt,
		UpdatedAt: updatedAt,
		ProductInsert: entity.ProductInsert{
			Slug:         "chair",
			Name:         sql.NullString{String: "Chair", Valid: true},
			Price:        decimal.NullDecimal{Decimal: decimal.NewFromInt(price), Valid: true},
			Stock:        sql.NullInt64{Int64: 10, Valid: true},
			CategoryId:   sql.NullInt64{Int64: 1, Valid: true},
			Status:       entity.ProductStatusActive,
			IsChangeable: true,
			Attributes: entity.Attributes{
				"color": json.RawMessage(`"black"`),
			},
		},
	}
}

func mustPayload(t *testing.T, raw string) *entity.ProductPayload {
	t.Helper()
	p, err := entity.ParsePayload(json.RawMessage(raw))
	require.NoError(t, err)
	return p
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}
