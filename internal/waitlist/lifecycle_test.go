package waitlist

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jekabolt/grbpwr-waitlist/internal/dependency"
	"github.com/jekabolt/grbpwr-waitlist/internal/dependency/mocks"
	"github.com/jekabolt/grbpwr-waitlist/internal/entity"
	gerr "github.com/jekabolt/grbpwr-waitlist/internal/errors"
	"github.com/jekabolt/grbpwr-waitlist/internal/store/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *memstore.Store) {
	t.Helper()
	ms := memstore.New()
	ms.SetClock(func() time.Time { return queuedAt.Add(24 * time.Hour) })
	return New(nil, ms), ms
}

func getEntry(t *testing.T, ms *memstore.Store, id string) *entity.WaitlistEntry {
	t.Helper()
	e, err := ms.Waitlist().GetEntryById(context.Background(), id)
	require.NoError(t, err)
	return e
}

func TestApproveNewProduct(t *testing.T) {
	ctx := context.Background()
	s, ms := newTestService(t)
	ms.PutEntry(newEntry("w1", "", `{"name":"Chair","price":100,"legs":4}`))

	out := s.Approve(ctx, "w1", "alice")
	require.True(t, out.OK, out.Message)
	assert.NotEmpty(t, out.ProductId)
	assert.Empty(t, out.Kind)

	prd, err := ms.Products().GetProductById(ctx, out.ProductId)
	require.NoError(t, err)
	assert.Equal(t, "chair", prd.Slug)
	assert.Equal(t, "Chair", prd.Name.String)
	assert.True(t, prd.Price.Decimal.Equal(dec(100)))
	assert.Equal(t, entity.ProductStatusWaitingApproval, prd.Status)
	assert.True(t, prd.IsChangeable)
	assert.JSONEq(t, `4`, string(prd.Attributes["legs"]))

	e := getEntry(t, ms, "w1")
	assert.Equal(t, entity.WaitlistStateApproved, e.State)
	assert.Equal(t, "alice", e.DecidedBy.String)
	assert.True(t, e.DecidedAt.Valid)

	logs := ms.AuditLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, entity.AuditActionApproveNew, logs[0].Action)
	assert.Equal(t, entity.AuditTargetProduct, logs[0].TargetType)
	assert.Equal(t, out.ProductId, logs[0].TargetId)
	assert.Equal(t, "alice", logs[0].Actor)
	assert.Empty(t, logs[0].BeforeState)

	pending, err := s.List(ctx, entity.WaitlistFilterNone, 0)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestApproveNewProductKeepsPayloadStatus(t *testing.T) {
	ctx := context.Background()
	s, ms := newTestService(t)
	ms.PutEntry(newEntry("w1", "", `{"name":"Chair","price":100,"status":"active","slug":"chair-v2"}`))

	out := s.Approve(ctx, "w1", "alice")
	require.True(t, out.OK, out.Message)

	prd, err := ms.Products().GetProductById(ctx, out.ProductId)
	require.NoError(t, err)
	assert.Equal(t, entity.ProductStatusActive, prd.Status)
	assert.Equal(t, "chair-v2", prd.Slug)
}

func TestApproveTwice(t *testing.T) {
	ctx := context.Background()
	s, ms := newTestService(t)
	ms.PutEntry(newEntry("w1", "", `{"name":"Chair","price":100}`))

	first := s.Approve(ctx, "w1", "alice")
	require.True(t, first.OK)

	second := s.Approve(ctx, "w1", "bob")
	assert.False(t, second.OK)
	assert.Equal(t, gerr.KindInvalidTransition, second.Kind)
	assert.ErrorIs(t, second.Err, gerr.ErrInvalidTransition)

	e := getEntry(t, ms, "w1")
	assert.Equal(t, entity.WaitlistStateApproved, e.State)
	assert.Equal(t, "alice", e.DecidedBy.String)
	assert.Len(t, ms.AuditLogs(), 1)

	rejected := s.Reject(ctx, "w1", "bob", "late")
	assert.False(t, rejected.OK)
	assert.Equal(t, gerr.KindInvalidTransition, rejected.Kind)
	assert.Equal(t, entity.WaitlistStateApproved, getEntry(t, ms, "w1").State)
}

func TestApproveUpdateMergesPayload(t *testing.T) {
	ctx := context.Background()
	s, ms := newTestService(t)
	ms.PutProduct(newProduct("p1", 200))
	ms.PutEntry(newEntry("w2", "p1", `{"price":150,"stock":null,"color":null,"legs":4}`))

	out := s.Approve(ctx, "w2", "alice")
	require.True(t, out.OK, out.Message)
	assert.Equal(t, "p1", out.ProductId)
	assert.False(t, out.Stale)

	prd, err := ms.Products().GetProductById(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, prd.Price.Decimal.Equal(dec(150)))
	assert.False(t, prd.Stock.Valid, "explicit null clears the column")
	assert.Equal(t, "Chair", prd.Name.String, "absent keys are untouched")
	assert.Equal(t, entity.ProductStatusActive, prd.Status)
	assert.NotContains(t, prd.Attributes, "color")
	assert.Contains(t, prd.Attributes, "legs")

	logs := ms.AuditLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, entity.AuditActionApproveUpdate, logs[0].Action)
	assert.Equal(t, "waitlist entry w2", logs[0].Reason.String)

	var before, after map[string]any
	require.NoError(t, json.Unmarshal(logs[0].BeforeState, &before))
	require.NoError(t, json.Unmarshal(logs[0].AfterState, &after))
	assert.EqualValues(t, 10, before["stock"])
	assert.Nil(t, after["stock"])
}

func TestApproveUpdateStale(t *testing.T) {
	ctx := context.Background()
	s, ms := newTestService(t)
	prd := newProduct("p1", 200)
	prd.UpdatedAt = queuedAt.Add(time.Hour)
	ms.PutProduct(prd)
	ms.PutEntry(newEntry("w2", "p1", `{"price":150}`))

	out := s.Approve(ctx, "w2", "alice")
	require.True(t, out.OK)
	assert.True(t, out.Stale)
}

func TestApproveUpdateFullRepresentation(t *testing.T) {
	ctx := context.Background()
	s, ms := newTestService(t)
	ms.PutProduct(newProduct("p1", 200))
	ms.PutEntry(newEntry("w2", "p1", `{
		"id":"p1","slug":"chair","name":"Chair","price":150,
		"attributes":{"color":"black"},
		"created_at":"2024-02-01T10:00:00Z","updated_at":"2024-02-01T10:00:00Z"
	}`))

	out := s.Approve(ctx, "w2", "alice")
	require.True(t, out.OK, out.Message)
	assert.False(t, out.Stale)

	prd, err := ms.Products().GetProductById(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, prd.Price.Decimal.Equal(dec(150)))
	assert.Equal(t, "p1", prd.Id)
	assert.True(t, prd.CreatedAt.Equal(updatedAt))
	assert.Equal(t, entity.Attributes{"color": json.RawMessage(`"black"`)}, prd.Attributes)
}

func TestApproveUpdateForeignId(t *testing.T) {
	ctx := context.Background()
	s, ms := newTestService(t)
	ms.PutProduct(newProduct("p1", 200))
	ms.PutEntry(newEntry("w2", "p1", `{"id":"p9","price":150}`))

	out := s.Approve(ctx, "w2", "alice")
	assert.False(t, out.OK)
	assert.Equal(t, gerr.KindValidationComputation, out.Kind)

	prd, err := ms.Products().GetProductById(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, prd.Price.Decimal.Equal(dec(200)))
	assert.Equal(t, entity.WaitlistStatePending, getEntry(t, ms, "w2").State)
	assert.Empty(t, ms.AuditLogs())

	revised := s.Revise(ctx, "w2", json.RawMessage(`{"id":"p9","price":120}`), "bob")
	assert.False(t, revised.OK)
	assert.Equal(t, gerr.KindValidationComputation, revised.Kind)
	assert.Equal(t, 1, getEntry(t, ms, "w2").Version)
}

func TestApproveUpdateProductGone(t *testing.T) {
	ctx := context.Background()
	s, ms := newTestService(t)
	ms.PutEntry(newEntry("w2", "p404", `{"price":150}`))

	out := s.Approve(ctx, "w2", "alice")
	assert.False(t, out.OK)
	assert.Equal(t, gerr.KindNotFound, out.Kind)
	assert.Equal(t, "Product not found: p404", out.Message)
	assert.Equal(t, entity.WaitlistStatePending, getEntry(t, ms, "w2").State)
	assert.Empty(t, ms.AuditLogs())
}

func TestApproveUnknownEntry(t *testing.T) {
	s, _ := newTestService(t)

	out := s.Approve(context.Background(), "nope", "alice")
	assert.False(t, out.OK)
	assert.Equal(t, gerr.KindNotFound, out.Kind)
	assert.Equal(t, "Waitlist entry not found: nope", out.Message)
}

func TestApproveMalformedPayload(t *testing.T) {
	s, ms := newTestService(t)
	ms.PutEntry(newEntry("w3", "", `{"price":"cheap"}`))

	out := s.Approve(context.Background(), "w3", "alice")
	assert.False(t, out.OK)
	assert.Equal(t, gerr.KindValidationComputation, out.Kind)
	assert.Equal(t, entity.WaitlistStatePending, getEntry(t, ms, "w3").State)
}

func TestApproveDuplicateSlugRollsBack(t *testing.T) {
	ctx := context.Background()
	s, ms := newTestService(t)
	ms.PutProduct(newProduct("p1", 200))
	ms.PutEntry(newEntry("w1", "", `{"name":"Chair","price":100}`))

	out := s.Approve(ctx, "w1", "alice")
	assert.False(t, out.OK)
	assert.Equal(t, gerr.KindStorageFailure, out.Kind)
	assert.Equal(t, entity.WaitlistStatePending, getEntry(t, ms, "w1").State)
	assert.Empty(t, ms.AuditLogs())
}

func TestApproveDefaultActor(t *testing.T) {
	s, ms := newTestService(t)
	ms.PutEntry(newEntry("w1", "", `{"name":"Chair","price":100}`))

	out := s.Approve(context.Background(), "w1", "")
	require.True(t, out.OK)
	assert.Equal(t, "admin", getEntry(t, ms, "w1").DecidedBy.String)
}

func TestReject(t *testing.T) {
	ctx := context.Background()
	s, ms := newTestService(t)
	ms.PutProduct(newProduct("p1", 200))
	ms.PutEntry(newEntry("w2", "p1", `{"price":1}`))

	out := s.Reject(ctx, "w2", "alice", "price looks wrong")
	require.True(t, out.OK, out.Message)

	e := getEntry(t, ms, "w2")
	assert.Equal(t, entity.WaitlistStateRejected, e.State)
	assert.Equal(t, "price looks wrong", e.RejectionReason.String)
	assert.Equal(t, "alice", e.DecidedBy.String)

	prd, err := ms.Products().GetProductById(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, prd.Price.Decimal.Equal(dec(200)), "rejection leaves the catalog alone")

	logs := ms.AuditLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, entity.AuditActionReject, logs[0].Action)
	assert.Equal(t, entity.AuditTargetWaitlist, logs[0].TargetType)
	assert.Equal(t, "w2", logs[0].TargetId)

	again := s.Reject(ctx, "w2", "alice", "")
	assert.False(t, again.OK)
	assert.Equal(t, gerr.KindInvalidTransition, again.Kind)

	approve := s.Approve(ctx, "w2", "alice")
	assert.False(t, approve.OK)
	assert.Equal(t, gerr.KindInvalidTransition, approve.Kind)
}

func TestRejectWithoutReason(t *testing.T) {
	s, ms := newTestService(t)
	ms.PutEntry(newEntry("w1", "", `{"name":"Chair"}`))

	out := s.Reject(context.Background(), "w1", "alice", "")
	require.True(t, out.OK)
	assert.False(t, getEntry(t, ms, "w1").RejectionReason.Valid)
}

func TestRevise(t *testing.T) {
	ctx := context.Background()
	s, ms := newTestService(t)
	ms.PutProduct(newProduct("p1", 200))
	ms.PutEntry(newEntry("w2", "p1", `{"price":190}`))

	out := s.Revise(ctx, "w2", json.RawMessage(`{"price":100,"discount_price":120}`), "alice")
	require.True(t, out.OK, out.Message)
	assert.Equal(t, 2, out.Version)

	e := getEntry(t, ms, "w2")
	assert.Equal(t, 2, e.Version)
	assert.Equal(t, entity.WaitlistStatePending, e.State)
	assert.True(t, e.HasInvalidDiscount)
	assert.True(t, e.RequiresManualReview)
	assert.True(t, e.PriceDropPercentage.Decimal.Equal(dec(50)))
	assert.JSONEq(t, `{"price":100,"discount_price":120}`, string(e.Payload))

	logs := ms.AuditLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, entity.AuditActionUpdatePayload, logs[0].Action)
	assert.JSONEq(t, `{"price":190}`, string(logs[0].BeforeState))

	bad := s.Revise(ctx, "w2", json.RawMessage(`"nope"`), "alice")
	assert.False(t, bad.OK)
	assert.Equal(t, gerr.KindValidationComputation, bad.Kind)
	assert.Equal(t, 2, getEntry(t, ms, "w2").Version)

	require.True(t, s.Reject(ctx, "w2", "alice", "").OK)
	late := s.Revise(ctx, "w2", json.RawMessage(`{"price":150}`), "alice")
	assert.False(t, late.OK)
	assert.Equal(t, gerr.KindInvalidTransition, late.Kind)
}

func txRepo(repo *mocks.Repository) {
	repo.On("Tx", mock.Anything, mock.Anything).Return(
		func(ctx context.Context, f func(context.Context, dependency.Repository) error) error {
			return f(ctx, repo)
		})
}

func TestApproveStorageFailure(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewRepository(t)
	wl := mocks.NewWaitlist(t)
	prd := mocks.NewProducts(t)
	txRepo(repo)
	repo.On("Waitlist").Return(wl)
	repo.On("Products").Return(prd)

	entry := newEntry("w1", "", `{"name":"Chair","price":100}`)
	wl.On("GetEntryById", mock.Anything, "w1").Return(&entry, nil)
	prd.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p *entity.ProductInsert) bool {
		return p.Slug == "chair" && p.Status == entity.ProductStatusWaitingApproval
	})).Return("p1", nil)
	wl.On("RecordApproval", mock.Anything, "w1", "alice").Return(errors.New("connection reset by peer"))

	out := New(nil, repo).Approve(ctx, "w1", "alice")
	assert.False(t, out.OK)
	assert.Equal(t, gerr.KindStorageFailure, out.Kind)
	assert.Contains(t, out.Message, "connection reset by peer")
}

func TestRejectStoreUnreachable(t *testing.T) {
	repo := mocks.NewRepository(t)
	wl := mocks.NewWaitlist(t)
	txRepo(repo)
	repo.On("Waitlist").Return(wl)
	wl.On("GetEntryById", mock.Anything, "w1").Return(nil, errors.New("dial tcp: connection refused"))

	out := New(nil, repo).Reject(context.Background(), "w1", "alice", "")
	assert.False(t, out.OK)
	assert.Equal(t, gerr.KindStorageFailure, out.Kind)
}

func TestApproveLostRace(t *testing.T) {
	repo := mocks.NewRepository(t)
	wl := mocks.NewWaitlist(t)
	audit := mocks.NewAudit(t)
	txRepo(repo)
	repo.On("Waitlist").Return(wl)

	entry := newEntry("w1", "", `{"name":"Chair"}`)
	wl.On("GetEntryById", mock.Anything, "w1").Return(&entry, nil)
	wl.On("RecordRejection", mock.Anything, "w1", "alice", "dup").
		Return(gerr.Wrap(gerr.KindInvalidTransition, gerr.ErrInvalidTransition, "waitlist entry w1 is approved"))

	out := New(nil, repo).Reject(context.Background(), "w1", "alice", "dup")
	assert.False(t, out.OK)
	assert.Equal(t, gerr.KindInvalidTransition, out.Kind)
	audit.AssertNotCalled(t, "AddAuditLog", mock.Anything, mock.Anything)
}
