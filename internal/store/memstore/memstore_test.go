package memstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"github.com/jekabolt/grbpwr-waitlist/internal/dependency"
	"github.com/jekabolt/grbpwr-waitlist/internal/entity"
	gerr "github.com/jekabolt/grbpwr-waitlist/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxRollback(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.PutProduct(entity.Product{Id: "p1", ProductInsert: entity.ProductInsert{
		Slug:       "chair",
		Attributes: entity.Attributes{"color": json.RawMessage(`"black"`)},
	}})

	boom := errors.New("boom")
	err := s.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
		prd, err := rep.Products().GetProductById(ctx, "p1")
		require.NoError(t, err)
		prd.Attributes["color"] = json.RawMessage(`"white"`)
		require.NoError(t, rep.Products().UpdateProductFields(ctx, "p1", &prd.ProductInsert))
		_, err = rep.Waitlist().AddEntry(ctx, &entity.WaitlistEntryInsert{ProductSlug: "chair"})
		require.NoError(t, err)
		require.NoError(t, rep.Audit().AddAuditLog(ctx, &entity.AuditLogInsert{Actor: "alice"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	prd, err := s.Products().GetProductById(ctx, "p1")
	require.NoError(t, err)
	assert.JSONEq(t, `"black"`, string(prd.Attributes["color"]))
	entries, err := s.Waitlist().ListEntries(ctx, entity.WaitlistFilterNone, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Empty(t, s.AuditLogs())
}

func TestNestedTx(t *testing.T) {
	ctx := context.Background()
	s := New()

	err := s.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
		return rep.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
			_, err := rep.Products().CreateProduct(ctx, &entity.ProductInsert{Slug: "chair"})
			return err
		})
	})
	require.NoError(t, err)

	_, err = s.Products().GetProductBySlug(ctx, "chair")
	assert.NoError(t, err)
}

func TestDecide(t *testing.T) {
	ctx := context.Background()
	s := New()
	id, err := s.Waitlist().AddEntry(ctx, &entity.WaitlistEntryInsert{ProductSlug: "chair"})
	require.NoError(t, err)

	require.NoError(t, s.Waitlist().RecordRejection(ctx, id, "alice", "dup"))
	assert.ErrorIs(t, s.Waitlist().RecordApproval(ctx, id, "bob"), gerr.ErrInvalidTransition)
	_, err = s.Waitlist().UpdateEntryPayload(ctx, id, json.RawMessage(`{}`), &entity.Validation{})
	assert.ErrorIs(t, err, gerr.ErrInvalidTransition)

	assert.ErrorIs(t, s.Waitlist().RecordApproval(ctx, "missing", "bob"), sql.ErrNoRows)
}

func TestSlugUnique(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, err := s.Products().CreateProduct(ctx, &entity.ProductInsert{Slug: "chair"})
	require.NoError(t, err)
	_, err = s.Products().CreateProduct(ctx, &entity.ProductInsert{Slug: "chair"})
	assert.Equal(t, gerr.KindStorageFailure, gerr.KindOf(err))
}
