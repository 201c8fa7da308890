package form

import (
	"encoding/json"
	"strings"

	"github.com/jekabolt/grbpwr-waitlist/internal/entity"
	gerr "github.com/jekabolt/grbpwr-waitlist/internal/errors"
)

type BulkRequest struct {
	Ids    []string `json:"ids"`
	Reason string   `json:"reason" valid:"length(0|500)"`
}

func (r *BulkRequest) Validate() error {
	if len(r.Ids) == 0 {
		return gerr.New(gerr.KindInvalidRequest, "ids are required")
	}
	return nil
}

type RejectRequest struct {
	Reason string `json:"reason" valid:"length(0|500)"`
}

type RevisePayloadRequest struct {
	Payload json.RawMessage `json:"payload"`
}

func (r *RevisePayloadRequest) Validate() error {
	if len(r.Payload) == 0 {
		return gerr.New(gerr.KindInvalidRequest, "payload is required")
	}
	if _, err := entity.ParsePayload(r.Payload); err != nil {
		return gerr.Wrap(gerr.KindValidationComputation, err, "invalid payload")
	}
	return nil
}

type SetStatusRequest struct {
	Status string `json:"status" valid:"required,in(active|passive|waiting_approval|rejected|pending_update)"`
}

type SetChangeableRequest struct {
	IsChangeable *bool `json:"is_changeable"`
}

func (r *SetChangeableRequest) Validate() error {
	if r.IsChangeable == nil {
		return gerr.New(gerr.KindInvalidRequest, "is_changeable is required")
	}
	return nil
}

type ListRequest struct {
	Filter string `valid:"in(new|update|manual_review)"`
	Limit  int    `valid:"range(0|1000)"`
}

// ParseIds splits a comma separated id list, dropping blanks around commas.
func ParseIds(raw string) []string {
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
