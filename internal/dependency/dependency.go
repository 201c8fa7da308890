package dependency

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jekabolt/grbpwr-waitlist/internal/entity"
	"github.com/jmoiron/sqlx"
)

//go:generate mockery --case underscore --all --output=./mocks
type (
	Waitlist interface {
		// ListEntries returns pending entries matching the filter, oldest first.
		ListEntries(ctx context.Context, filter entity.WaitlistFilter, limit int) ([]entity.WaitlistEntry, error)
		// GetEntryById returns an entry in any state.
		GetEntryById(ctx context.Context, id string) (*entity.WaitlistEntry, error)
		// AddEntry queues a new proposal and returns its id.
		AddEntry(ctx context.Context, e *entity.WaitlistEntryInsert) (string, error)
		// RecordApproval moves a pending entry to approved.
		RecordApproval(ctx context.Context, id string, actor string) error
		// RecordRejection moves a pending entry to rejected.
		RecordRejection(ctx context.Context, id string, actor string, reason string) error
		// UpdateEntryPayload replaces the payload of a pending entry, refreshes
		// its flags and returns the new version.
		UpdateEntryPayload(ctx context.Context, id string, payload json.RawMessage, v *entity.Validation) (int, error)
	}

	Products interface {
		GetProductById(ctx context.Context, id string) (*entity.Product, error)
		GetProductBySlug(ctx context.Context, slug string) (*entity.Product, error)
		// CreateProduct inserts a product and returns its generated id.
		CreateProduct(ctx context.Context, prd *entity.ProductInsert) (string, error)
		UpdateProductFields(ctx context.Context, id string, prd *entity.ProductInsert) error
		SetProductStatus(ctx context.Context, id string, status entity.ProductStatus) error
		SetProductChangeability(ctx context.Context, slug string, changeable bool) error
	}

	Audit interface {
		AddAuditLog(ctx context.Context, al *entity.AuditLogInsert) error
		ListAuditLogs(ctx context.Context, targetType string, targetId string, limit int) ([]entity.AuditLog, error)
	}

	Repository interface {
		Waitlist() Waitlist
		Products() Products
		Audit() Audit
		Tx(ctx context.Context, f func(context.Context, Repository) error) error
		Now() time.Time
		Ping(ctx context.Context) error
		Close()
	}

	// DB represents database interface.
	DB interface {
		BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
		ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)

		// sqlx methods
		GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
		QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
		QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error)
		SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	}
)
