// Package memstore is an in-memory dependency.Repository. Transactions are
// serialized by a single lock and roll back by restoring a snapshot.
package memstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jekabolt/grbpwr-waitlist/internal/dependency"
	"github.com/jekabolt/grbpwr-waitlist/internal/entity"
	gerr "github.com/jekabolt/grbpwr-waitlist/internal/errors"
)

type data struct {
	entries  map[string]entity.WaitlistEntry
	products map[string]entity.Product
	audit    []entity.AuditLog
}

func (d *data) clone() *data {
	c := &data{
		entries:  make(map[string]entity.WaitlistEntry, len(d.entries)),
		products: make(map[string]entity.Product, len(d.products)),
		audit:    append([]entity.AuditLog(nil), d.audit...),
	}
	for k, v := range d.entries {
		c.entries[k] = v
	}
	for k, v := range d.products {
		c.products[k] = copyProduct(v)
	}
	return c
}

func copyProduct(p entity.Product) entity.Product {
	attrs := make(entity.Attributes, len(p.Attributes))
	for k, v := range p.Attributes {
		attrs[k] = v
	}
	p.Attributes = attrs
	return p
}

// Store keeps waitlist entries, products and audit rows in memory.
type Store struct {
	mu    *sync.Mutex
	data  *data
	inTx  bool
	ts    time.Time
	clock func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		mu: &sync.Mutex{},
		data: &data{
			entries:  map[string]entity.WaitlistEntry{},
			products: map[string]entity.Product{},
		},
		clock: func() time.Time { return time.Now().UTC() },
	}
}

// SetClock replaces the time source.
func (s *Store) SetClock(clock func() time.Time) {
	s.clock = clock
}

func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// PutProduct stores p as is.
func (s *Store) PutProduct(p entity.Product) {
	defer s.lock()()
	s.data.products[p.Id] = copyProduct(p)
}

// PutEntry stores e as is.
func (s *Store) PutEntry(e entity.WaitlistEntry) {
	defer s.lock()()
	s.data.entries[e.Id] = e
}

// AuditLogs returns all audit rows in insertion order.
func (s *Store) AuditLogs() []entity.AuditLog {
	defer s.lock()()
	return append([]entity.AuditLog(nil), s.data.audit...)
}

func (s *Store) Waitlist() dependency.Waitlist { return &waitlist{s} }
func (s *Store) Products() dependency.Products { return &products{s} }
func (s *Store) Audit() dependency.Audit       { return &audit{s} }

func (s *Store) Now() time.Time {
	if !s.ts.IsZero() {
		return s.ts
	}
	return s.clock()
}

func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) Close() {}

// Tx runs f against the store under the lock and restores the previous
// state when f fails.
func (s *Store) Tx(ctx context.Context, f func(context.Context, dependency.Repository) error) error {
	if s.inTx {
		return f(ctx, s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.data.clone()
	tx := &Store{mu: s.mu, data: s.data, inTx: true, ts: s.Now(), clock: s.clock}
	if err := f(ctx, tx); err != nil {
		*s.data = *snap
		return err
	}
	return nil
}

func noRows(what, id string) error {
	return fmt.Errorf("%s %s: %w", what, id, sql.ErrNoRows)
}

type waitlist struct{ *Store }

func (w *waitlist) ListEntries(ctx context.Context, filter entity.WaitlistFilter, limit int) ([]entity.WaitlistEntry, error) {
	if !filter.Valid() {
		return nil, fmt.Errorf("unknown waitlist filter %q", filter)
	}
	defer w.lock()()
	var out []entity.WaitlistEntry
	for _, e := range w.data.entries {
		if e.State != entity.WaitlistStatePending {
			continue
		}
		switch filter {
		case entity.WaitlistFilterNew:
			if e.ProductId.Valid {
				continue
			}
		case entity.WaitlistFilterUpdate:
			if !e.ProductId.Valid {
				continue
			}
		case entity.WaitlistFilterManualReview:
			if !e.RequiresManualReview {
				continue
			}
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Id < out[j].Id
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (w *waitlist) GetEntryById(ctx context.Context, id string) (*entity.WaitlistEntry, error) {
	defer w.lock()()
	e, ok := w.data.entries[id]
	if !ok {
		return nil, noRows("waitlist entry", id)
	}
	return &e, nil
}

func (w *waitlist) AddEntry(ctx context.Context, in *entity.WaitlistEntryInsert) (string, error) {
	defer w.lock()()
	now := w.Now()
	e := entity.WaitlistEntry{
		Id:                  uuid.NewString(),
		Version:             1,
		State:               entity.WaitlistStatePending,
		CreatedAt:           now,
		UpdatedAt:           now,
		WaitlistEntryInsert: *in,
	}
	w.data.entries[e.Id] = e
	return e.Id, nil
}

func (w *waitlist) decide(id string, mutate func(*entity.WaitlistEntry)) error {
	defer w.lock()()
	e, ok := w.data.entries[id]
	if !ok {
		return noRows("waitlist entry", id)
	}
	if e.State != entity.WaitlistStatePending {
		return gerr.Wrap(gerr.KindInvalidTransition, gerr.ErrInvalidTransition,
			"waitlist entry %s is %s", id, e.State)
	}
	mutate(&e)
	e.UpdatedAt = w.Now()
	w.data.entries[id] = e
	return nil
}

func (w *waitlist) RecordApproval(ctx context.Context, id string, actor string) error {
	return w.decide(id, func(e *entity.WaitlistEntry) {
		e.State = entity.WaitlistStateApproved
		e.DecidedBy = sql.NullString{String: actor, Valid: true}
		e.DecidedAt = sql.NullTime{Time: w.Now(), Valid: true}
	})
}

func (w *waitlist) RecordRejection(ctx context.Context, id string, actor string, reason string) error {
	return w.decide(id, func(e *entity.WaitlistEntry) {
		e.State = entity.WaitlistStateRejected
		e.DecidedBy = sql.NullString{String: actor, Valid: true}
		e.DecidedAt = sql.NullTime{Time: w.Now(), Valid: true}
		e.RejectionReason = sql.NullString{String: reason, Valid: reason != ""}
	})
}

func (w *waitlist) UpdateEntryPayload(ctx context.Context, id string, payload json.RawMessage, v *entity.Validation) (int, error) {
	var version int
	err := w.decide(id, func(e *entity.WaitlistEntry) {
		e.Payload = payload
		e.Version++
		e.HasInvalidDiscount = v.HasInvalidDiscount
		e.PriceDropPercentage = v.PriceDropPercentage
		e.RequiresManualReview = v.RequiresManualReview
		version = e.Version
	})
	return version, err
}

type products struct{ *Store }

func (p *products) GetProductById(ctx context.Context, id string) (*entity.Product, error) {
	defer p.lock()()
	prd, ok := p.data.products[id]
	if !ok {
		return nil, noRows("product", id)
	}
	prd = copyProduct(prd)
	return &prd, nil
}

func (p *products) GetProductBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	defer p.lock()()
	for _, prd := range p.data.products {
		if prd.Slug == slug {
			prd = copyProduct(prd)
			return &prd, nil
		}
	}
	return nil, noRows("product slug", slug)
}

func (p *products) slugTaken(slug, exceptId string) bool {
	for id, prd := range p.data.products {
		if prd.Slug == slug && id != exceptId {
			return true
		}
	}
	return false
}

func (p *products) CreateProduct(ctx context.Context, in *entity.ProductInsert) (string, error) {
	defer p.lock()()
	if p.slugTaken(in.Slug, "") {
		return "", gerr.New(gerr.KindStorageFailure, "product slug %s already exists", in.Slug)
	}
	now := p.Now()
	prd := entity.Product{
		Id:            uuid.NewString(),
		CreatedAt:     now,
		UpdatedAt:     now,
		ProductInsert: *in,
	}
	p.data.products[prd.Id] = copyProduct(prd)
	return prd.Id, nil
}

func (p *products) UpdateProductFields(ctx context.Context, id string, in *entity.ProductInsert) error {
	defer p.lock()()
	prd, ok := p.data.products[id]
	if !ok {
		return noRows("product", id)
	}
	if p.slugTaken(in.Slug, id) {
		return gerr.New(gerr.KindStorageFailure, "product slug %s already exists", in.Slug)
	}
	prd.ProductInsert = *in
	prd.UpdatedAt = p.Now()
	p.data.products[id] = copyProduct(prd)
	return nil
}

func (p *products) SetProductStatus(ctx context.Context, id string, status entity.ProductStatus) error {
	defer p.lock()()
	prd, ok := p.data.products[id]
	if !ok {
		return noRows("product", id)
	}
	prd.Status = status
	prd.UpdatedAt = p.Now()
	p.data.products[id] = prd
	return nil
}

func (p *products) SetProductChangeability(ctx context.Context, slug string, changeable bool) error {
	defer p.lock()()
	for id, prd := range p.data.products {
		if prd.Slug == slug {
			prd.IsChangeable = changeable
			prd.UpdatedAt = p.Now()
			p.data.products[id] = prd
			return nil
		}
	}
	return noRows("product slug", slug)
}

type audit struct{ *Store }

func (a *audit) AddAuditLog(ctx context.Context, al *entity.AuditLogInsert) error {
	defer a.lock()()
	a.data.audit = append(a.data.audit, entity.AuditLog{
		Id:             len(a.data.audit) + 1,
		CreatedAt:      a.Now(),
		AuditLogInsert: *al,
	})
	return nil
}

func (a *audit) ListAuditLogs(ctx context.Context, targetType string, targetId string, limit int) ([]entity.AuditLog, error) {
	defer a.lock()()
	var out []entity.AuditLog
	for i := len(a.data.audit) - 1; i >= 0; i-- {
		al := a.data.audit[i]
		if al.TargetType != targetType || al.TargetId != targetId {
			continue
		}
		out = append(out, al)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
