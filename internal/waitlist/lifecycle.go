package waitlist

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"log/slog"

	"github.com/jekabolt/grbpwr-waitlist/internal/dependency"
	"github.com/jekabolt/grbpwr-waitlist/internal/entity"
	gerr "github.com/jekabolt/grbpwr-waitlist/internal/errors"
)

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionRevise  Action = "revise"
)

// Outcome is the result of a single entry transition. Failures are
// reported through OK and Kind, never as a returned error.
type Outcome struct {
	Id        string    `json:"id"`
	Action    Action    `json:"action"`
	OK        bool      `json:"ok"`
	Kind      gerr.Kind `json:"kind,omitempty"`
	Message   string    `json:"error,omitempty"`
	ProductId string    `json:"product_id,omitempty"`
	Version   int       `json:"version,omitempty"`
	Stale     bool      `json:"stale,omitempty"`
	Err       error     `json:"-"`
}

// Approve merges the entry payload into the catalog and archives the entry
// as approved. Update entries overwrite the fields present in the payload,
// new-product entries create a product in waiting_approval unless the
// payload sets a status.
func (s *Service) Approve(ctx context.Context, id string, actor string) Outcome {
	out := Outcome{Id: id, Action: ActionApprove}
	actor = s.actor(actor)

	err := s.repo.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
		entry, err := loadPending(ctx, rep, id)
		if err != nil {
			return err
		}
		payload, err := entity.ParsePayload(entry.Payload)
		if err != nil {
			return gerr.Wrap(gerr.KindValidationComputation, err, "can't parse payload of waitlist entry %s", id)
		}

		al := &entity.AuditLogInsert{
			Actor:      actor,
			TargetType: entity.AuditTargetProduct,
			Reason:     sql.NullString{String: "waitlist entry " + id, Valid: true},
		}

		if entry.Type() == entity.EntryTypeUpdate {
			prd, err := rep.Products().GetProductById(ctx, entry.ProductId.String)
			if err != nil {
				return productErr(err, entry.ProductId.String)
			}
			if err := checkIdentity(payload, prd); err != nil {
				return err
			}
			if IsStale(entry, prd) || restatesOlder(payload, prd) {
				out.Stale = true
				slog.Default().WarnContext(ctx, "product changed after the entry was queued",
					slog.String("waitlist_id", id),
					slog.String("product_id", prd.Id),
					slog.Time("product_updated_at", prd.UpdatedAt),
					slog.Time("entry_updated_at", entry.UpdatedAt),
				)
			}
			merged := payload.ApplyTo(prd.ProductInsert)
			if err := rep.Products().UpdateProductFields(ctx, prd.Id, &merged); err != nil {
				return productErr(err, prd.Id)
			}
			out.ProductId = prd.Id
			al.Action = entity.AuditActionApproveUpdate
			al.BeforeState = snapshot(prd.ProductInsert.Snapshot())
			al.AfterState = snapshot(merged.Snapshot())
		} else {
			prd := payload.ApplyTo(entity.ProductInsert{
				Slug:         entry.ProductSlug,
				Status:       entity.ProductStatusWaitingApproval,
				IsChangeable: true,
				Attributes:   entity.Attributes{},
			})
			pid, err := rep.Products().CreateProduct(ctx, &prd)
			if err != nil {
				return gerr.Wrap(gerr.KindStorageFailure, err, "can't create product %s", prd.Slug)
			}
			out.ProductId = pid
			al.Action = entity.AuditActionApproveNew
			al.AfterState = snapshot(prd.Snapshot())
		}
		al.TargetId = out.ProductId

		if err := rep.Waitlist().RecordApproval(ctx, id, actor); err != nil {
			return entryErr(err, id)
		}
		if err := rep.Audit().AddAuditLog(ctx, al); err != nil {
			return gerr.Wrap(gerr.KindStorageFailure, err, "can't write audit log")
		}
		return nil
	})
	return s.finish(ctx, out, actor, err)
}

// Reject archives the entry as rejected. The catalog is not touched.
func (s *Service) Reject(ctx context.Context, id string, actor string, reason string) Outcome {
	out := Outcome{Id: id, Action: ActionReject}
	actor = s.actor(actor)

	err := s.repo.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
		entry, err := loadPending(ctx, rep, id)
		if err != nil {
			return err
		}
		if err := rep.Waitlist().RecordRejection(ctx, id, actor, reason); err != nil {
			return entryErr(err, id)
		}
		return addEntryAudit(ctx, rep, &entity.AuditLogInsert{
			Actor:       actor,
			Action:      entity.AuditActionReject,
			BeforeState: entryState(entry.State, entry.Version),
			AfterState:  entryState(entity.WaitlistStateRejected, entry.Version),
			Reason:      sql.NullString{String: reason, Valid: reason != ""},
		}, id)
	})
	return s.finish(ctx, out, actor, err)
}

// Revise replaces the payload of a pending entry, bumps its version and
// refreshes the stored validation flags.
func (s *Service) Revise(ctx context.Context, id string, payload json.RawMessage, actor string) Outcome {
	out := Outcome{Id: id, Action: ActionRevise}
	actor = s.actor(actor)

	err := s.repo.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
		entry, err := loadPending(ctx, rep, id)
		if err != nil {
			return err
		}
		p, err := entity.ParsePayload(payload)
		if err != nil {
			return gerr.Wrap(gerr.KindValidationComputation, err, "can't parse revised payload of waitlist entry %s", id)
		}

		var current *entity.Product
		if entry.Type() == entity.EntryTypeUpdate {
			current, err = rep.Products().GetProductById(ctx, entry.ProductId.String)
			if err != nil {
				return productErr(err, entry.ProductId.String)
			}
			if err := checkIdentity(p, current); err != nil {
				return err
			}
		}
		v := Validate(s.c, p, current)

		version, err := rep.Waitlist().UpdateEntryPayload(ctx, id, payload, &v)
		if err != nil {
			return entryErr(err, id)
		}
		out.Version = version
		return addEntryAudit(ctx, rep, &entity.AuditLogInsert{
			Actor:       actor,
			Action:      entity.AuditActionUpdatePayload,
			BeforeState: entry.Payload,
			AfterState:  payload,
		}, id)
	})
	return s.finish(ctx, out, actor, err)
}

func (s *Service) actor(actor string) string {
	if actor == "" {
		return s.c.DefaultActor
	}
	return actor
}

func (s *Service) finish(ctx context.Context, out Outcome, actor string, err error) Outcome {
	if err == nil {
		out.OK = true
		slog.Default().InfoContext(ctx, "waitlist entry transitioned",
			slog.String("waitlist_id", out.Id),
			slog.String("action", string(out.Action)),
			slog.String("actor", actor),
			slog.String("product_id", out.ProductId),
		)
		return out
	}
	out.Err = err
	out.Kind = gerr.KindOf(err)
	out.Message = err.Error()

	level := slog.LevelError
	if out.Kind == gerr.KindInvalidTransition || out.Kind == gerr.KindNotFound {
		level = slog.LevelWarn
	}
	slog.Default().Log(ctx, level, "waitlist transition failed",
		slog.String("waitlist_id", out.Id),
		slog.String("action", string(out.Action)),
		slog.String("actor", actor),
		slog.String("kind", string(out.Kind)),
		slog.String("err", err.Error()),
	)
	return out
}

// loadPending reads the entry and refuses terminal ones.
func loadPending(ctx context.Context, rep dependency.Repository, id string) (*entity.WaitlistEntry, error) {
	entry, err := rep.Waitlist().GetEntryById(ctx, id)
	if err != nil {
		return nil, entryErr(err, id)
	}
	if entry.State != entity.WaitlistStatePending {
		return nil, gerr.Wrap(gerr.KindInvalidTransition, gerr.ErrInvalidTransition,
			"waitlist entry %s is %s", id, entry.State)
	}
	return entry, nil
}

// entryErr keeps kinds set by the store and tags the rest.
func entryErr(err error, id string) error {
	switch gerr.KindOf(err) {
	case gerr.KindNotFound:
		return gerr.NotFound("Waitlist entry", id)
	case gerr.KindStorageFailure:
		return gerr.Wrap(gerr.KindStorageFailure, err, "waitlist entry %s", id)
	}
	return err
}

func productErr(err error, id string) error {
	switch gerr.KindOf(err) {
	case gerr.KindNotFound:
		return gerr.NotFound("Product", id)
	case gerr.KindStorageFailure:
		return gerr.Wrap(gerr.KindStorageFailure, err, "product %s", id)
	}
	return err
}

func addEntryAudit(ctx context.Context, rep dependency.Repository, al *entity.AuditLogInsert, id string) error {
	al.TargetType = entity.AuditTargetWaitlist
	al.TargetId = id
	if err := rep.Audit().AddAuditLog(ctx, al); err != nil {
		return gerr.Wrap(gerr.KindStorageFailure, err, "can't write audit log")
	}
	return nil
}

func snapshot(v map[string]any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage(fmt.Sprintf(`{"error":%q}`, err.Error()))
	}
	return b
}

func entryState(state entity.WaitlistState, version int) json.RawMessage {
	return snapshot(map[string]any{
		"state":   state,
		"version": version,
	})
}
