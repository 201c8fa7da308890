package form

import (
	"strings"
	"testing"

	gerr "github.com/jekabolt/grbpwr-waitlist/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBulk(t *testing.T) {
	req := &BulkRequest{}
	require.NoError(t, Decode(strings.NewReader(`{"ids":["w1","w2"],"reason":"dup"}`), req))
	assert.Equal(t, []string{"w1", "w2"}, req.Ids)

	err := Decode(strings.NewReader(`{"ids":[]}`), &BulkRequest{})
	assert.Equal(t, gerr.KindInvalidRequest, gerr.KindOf(err))

	err = Decode(strings.NewReader(`{"ids":["w1"],"actor":"root"}`), &BulkRequest{})
	assert.Equal(t, gerr.KindInvalidRequest, gerr.KindOf(err), "unknown fields are refused")

	err = Decode(strings.NewReader(`not json`), &BulkRequest{})
	assert.Equal(t, gerr.KindInvalidRequest, gerr.KindOf(err))
}

func TestSetStatusRequest(t *testing.T) {
	assert.NoError(t, Validate(&SetStatusRequest{Status: "active"}))
	assert.Error(t, Validate(&SetStatusRequest{Status: "archived"}))
	assert.Error(t, Validate(&SetStatusRequest{}))
}

func TestSetChangeableRequest(t *testing.T) {
	req := &SetChangeableRequest{}
	require.NoError(t, Decode(strings.NewReader(`{"is_changeable":false}`), req))
	require.NotNil(t, req.IsChangeable)
	assert.False(t, *req.IsChangeable)

	assert.Error(t, Decode(strings.NewReader(`{}`), &SetChangeableRequest{}))
}

func TestRevisePayloadRequest(t *testing.T) {
	req := &RevisePayloadRequest{}
	require.NoError(t, Decode(strings.NewReader(`{"payload":{"price":10}}`), req))
	assert.JSONEq(t, `{"price":10}`, string(req.Payload))

	err := Decode(strings.NewReader(`{"payload":[1]}`), &RevisePayloadRequest{})
	assert.Equal(t, gerr.KindValidationComputation, gerr.KindOf(err))

	err = Decode(strings.NewReader(`{}`), &RevisePayloadRequest{})
	assert.Equal(t, gerr.KindInvalidRequest, gerr.KindOf(err))
}

func TestListRequest(t *testing.T) {
	assert.NoError(t, Validate(&ListRequest{}))
	assert.NoError(t, Validate(&ListRequest{Filter: "manual_review", Limit: 10}))
	assert.Error(t, Validate(&ListRequest{Filter: "all"}))
	assert.Error(t, Validate(&ListRequest{Limit: 5000}))
}

func TestParseIds(t *testing.T) {
	assert.Equal(t, []string{"w1", "w2", "w3"}, ParseIds("w1, w2,,w3 "))
	assert.Nil(t, ParseIds(" "))
}
