package waitlist

import (
	"context"
	"fmt"
	"testing"

	"github.com/jekabolt/grbpwr-waitlist/internal/entity"
	gerr "github.com/jekabolt/grbpwr-waitlist/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBulkAttemptsEveryId(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}
	var seen []string
	res := RunBulk(context.Background(), ids, func(ctx context.Context, id string) Outcome {
		seen = append(seen, id)
		return Outcome{Id: id, OK: id != "c"}
	})
	assert.Equal(t, ids, seen)
	assert.Equal(t, entity.BulkResult{Succeeded: 4, Failed: 1}, res)
}

func TestRunBulkEmpty(t *testing.T) {
	res := RunBulk(context.Background(), nil, func(ctx context.Context, id string) Outcome {
		t.Fatal("op must not run")
		return Outcome{}
	})
	assert.Equal(t, entity.BulkResult{}, res)
}

func TestBulkApproveWithTerminalEntry(t *testing.T) {
	ctx := context.Background()
	s, ms := newTestService(t)

	var ids []string
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("w%d", i)
		e := newEntry(id, "", `{"name":"Chair","price":100}`)
		e.ProductSlug = fmt.Sprintf("chair-%d", i)
		ms.PutEntry(e)
		ids = append(ids, id)
	}
	require.True(t, s.Reject(ctx, "w2", "alice", "").OK)

	res := s.BulkApprove(ctx, ids, "alice")
	assert.Equal(t, entity.BulkResult{Succeeded: 4, Failed: 1}, res)

	for _, id := range ids {
		want := entity.WaitlistStateApproved
		if id == "w2" {
			want = entity.WaitlistStateRejected
		}
		assert.Equal(t, want, getEntry(t, ms, id).State, id)
	}
}

func TestBulkApproveKeepsCallerOrder(t *testing.T) {
	ctx := context.Background()
	s, ms := newTestService(t)
	for _, id := range []string{"w1", "w2", "w3"} {
		e := newEntry(id, "", `{"name":"Chair","price":100}`)
		e.ProductSlug = "slug-" + id
		ms.PutEntry(e)
	}

	res := s.BulkApprove(ctx, []string{"w3", "missing", "w1", "w2"}, "alice")
	assert.Equal(t, entity.BulkResult{Succeeded: 3, Failed: 1}, res)

	logs := ms.AuditLogs()
	require.Len(t, logs, 3)
	var order []string
	for _, l := range logs {
		order = append(order, l.Reason.String)
	}
	assert.Equal(t, []string{"waitlist entry w3", "waitlist entry w1", "waitlist entry w2"}, order)
}

func TestBulkReject(t *testing.T) {
	ctx := context.Background()
	s, ms := newTestService(t)
	ms.PutEntry(newEntry("w1", "", `{"name":"Chair"}`))
	ms.PutEntry(newEntry("w2", "", `{"name":"Chair"}`))

	res := s.BulkReject(ctx, []string{"w1", "w2", "w1"}, "alice", "duplicate feed")
	assert.Equal(t, entity.BulkResult{Succeeded: 2, Failed: 1}, res)
	assert.Equal(t, "duplicate feed", getEntry(t, ms, "w2").RejectionReason.String)
}

func TestCheckBulk(t *testing.T) {
	s := New(&Config{MaxBulkItems: 2}, nil)

	assert.NoError(t, s.CheckBulk([]string{"a", "b"}))
	for _, ids := range [][]string{nil, {"a", "b", "c"}, {"a", " "}} {
		err := s.CheckBulk(ids)
		assert.Equal(t, gerr.KindInvalidRequest, gerr.KindOf(err), ids)
	}
}
