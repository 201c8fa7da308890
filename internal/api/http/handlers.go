package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jekabolt/grbpwr-waitlist/internal/auth/jwt"
	"github.com/jekabolt/grbpwr-waitlist/internal/dto"
	"github.com/jekabolt/grbpwr-waitlist/internal/entity"
	gerr "github.com/jekabolt/grbpwr-waitlist/internal/errors"
	"github.com/jekabolt/grbpwr-waitlist/internal/form"
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Ping(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, map[string]string{"status": "ok"})
}

func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, gerr.Wrap(gerr.KindInvalidRequest, err, "invalid %s", key)
	}
	return n, nil
}

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, r, err)
		return
	}
	req := form.ListRequest{
		Filter: r.URL.Query().Get("filter"),
		Limit:  limit,
	}
	if err := form.Validate(&req); err != nil {
		writeError(w, r, err)
		return
	}
	entries, err := s.svc.List(r.Context(), entity.WaitlistFilter(req.Filter), req.Limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, dto.ConvertWaitlistEntries(entries))
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, st)
}

func (s *Server) diff(w http.ResponseWriter, r *http.Request) {
	d, err := s.svc.Diff(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, d)
}

func (s *Server) entryAudit(w http.ResponseWriter, r *http.Request) {
	s.audit(w, r, entity.AuditTargetWaitlist, chi.URLParam(r, "id"))
}

func (s *Server) productAudit(w http.ResponseWriter, r *http.Request) {
	s.audit(w, r, entity.AuditTargetProduct, chi.URLParam(r, "id"))
}

func (s *Server) audit(w http.ResponseWriter, r *http.Request, targetType, targetId string) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, r, err)
		return
	}
	logs, err := s.svc.AuditTrail(r.Context(), targetType, targetId, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, dto.ConvertAuditLogs(logs))
}

func (s *Server) revise(w http.ResponseWriter, r *http.Request) {
	var req form.RevisePayloadRequest
	if err := form.Decode(r.Body, &req); err != nil {
		writeError(w, r, err)
		return
	}
	out := s.svc.Revise(r.Context(), chi.URLParam(r, "id"), req.Payload, jwt.ActorFromContext(r.Context()))
	writeOutcome(w, r, out)
}

func (s *Server) approve(w http.ResponseWriter, r *http.Request) {
	out := s.svc.Approve(r.Context(), chi.URLParam(r, "id"), jwt.ActorFromContext(r.Context()))
	writeOutcome(w, r, out)
}

func (s *Server) reject(w http.ResponseWriter, r *http.Request) {
	var req form.RejectRequest
	if err := decodeOptional(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	out := s.svc.Reject(r.Context(), chi.URLParam(r, "id"), jwt.ActorFromContext(r.Context()), req.Reason)
	writeOutcome(w, r, out)
}

func (s *Server) bulkApprove(w http.ResponseWriter, r *http.Request) {
	var req form.BulkRequest
	if err := form.Decode(r.Body, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.CheckBulk(req.Ids); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, s.svc.BulkApprove(r.Context(), req.Ids, jwt.ActorFromContext(r.Context())))
}

func (s *Server) bulkReject(w http.ResponseWriter, r *http.Request) {
	var req form.BulkRequest
	if err := form.Decode(r.Body, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.CheckBulk(req.Ids); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, s.svc.BulkReject(r.Context(), req.Ids, jwt.ActorFromContext(r.Context()), req.Reason))
}

func (s *Server) setStatus(w http.ResponseWriter, r *http.Request) {
	var req form.SetStatusRequest
	if err := form.Decode(r.Body, &req); err != nil {
		writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	if err := s.svc.SetProductStatus(r.Context(), id, req.Status, jwt.ActorFromContext(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, map[string]string{"id": id, "status": req.Status})
}

func (s *Server) setChangeable(w http.ResponseWriter, r *http.Request) {
	var req form.SetChangeableRequest
	if err := form.Decode(r.Body, &req); err != nil {
		writeError(w, r, err)
		return
	}
	slug := chi.URLParam(r, "slug")
	if err := s.svc.SetProductChangeability(r.Context(), slug, *req.IsChangeable, jwt.ActorFromContext(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, map[string]any{"slug": slug, "is_changeable": *req.IsChangeable})
}

// decodeOptional treats an empty body as an empty request.
func decodeOptional(r *http.Request, v any) error {
	err := form.Decode(r.Body, v)
	if errors.Is(err, io.EOF) {
		return form.Validate(v)
	}
	return err
}
