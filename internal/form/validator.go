package form

import (
	"encoding/json"
	"io"

	"github.com/asaskevich/govalidator"
	gerr "github.com/jekabolt/grbpwr-waitlist/internal/errors"
)

// Decode reads a JSON request body into v and validates its struct tags.
func Decode(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return gerr.Wrap(gerr.KindInvalidRequest, err, "can't decode request")
	}
	return Validate(v)
}

type validator interface {
	Validate() error
}

// Validate checks the govalidator tags of a request struct, then its own
// Validate method when it has one.
func Validate(v any) error {
	if _, err := govalidator.ValidateStruct(v); err != nil {
		return gerr.Wrap(gerr.KindInvalidRequest, err, "invalid request")
	}
	if vv, ok := v.(validator); ok {
		return vv.Validate()
	}
	return nil
}
