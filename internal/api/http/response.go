package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"

	gerr "github.com/jekabolt/grbpwr-waitlist/internal/errors"
	"github.com/jekabolt/grbpwr-waitlist/internal/waitlist"
)

type response struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   string    `json:"error,omitempty"`
	Kind    gerr.Kind `json:"kind,omitempty"`
}

func statusFor(kind gerr.Kind) int {
	switch kind {
	case gerr.KindNotFound:
		return http.StatusNotFound
	case gerr.KindInvalidTransition:
		return http.StatusConflict
	case gerr.KindValidationComputation:
		return http.StatusUnprocessableEntity
	case gerr.KindInvalidRequest:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().ErrorContext(r.Context(), "can't write response", slog.String("err", err.Error()))
	}
}

func writeData(w http.ResponseWriter, r *http.Request, data any) {
	writeJSON(w, r, http.StatusOK, response{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := gerr.KindOf(err)
	msg := err.Error()
	var e *gerr.Error
	if kind == gerr.KindStorageFailure && !errors.As(err, &e) {
		msg = "internal error"
	}
	writeJSON(w, r, statusFor(kind), response{Error: msg, Kind: kind})
}

// writeOutcome reports a single transition. Failed outcomes keep their body
// so callers see the entry id and kind.
func writeOutcome(w http.ResponseWriter, r *http.Request, out waitlist.Outcome) {
	if out.OK {
		writeData(w, r, out)
		return
	}
	writeJSON(w, r, statusFor(out.Kind), response{Data: out, Error: out.Message, Kind: out.Kind})
}
