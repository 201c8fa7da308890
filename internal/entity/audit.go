package entity

import (
	"database/sql"
	"encoding/json"
	"time"
)

type AuditAction string

const (
	AuditActionApproveNew    AuditAction = "approve_new"
	AuditActionApproveUpdate AuditAction = "approve_update"
	AuditActionReject        AuditAction = "reject"
	AuditActionUpdatePayload AuditAction = "update_payload"
	AuditActionSetStatus     AuditAction = "set_status"
	AuditActionSetChangeable AuditAction = "set_changeable"
)

const (
	AuditTargetWaitlist = "waitlist"
	AuditTargetProduct  = "product"
)

type AuditLogInsert struct {
	Actor       string          `db:"actor"`
	Action      AuditAction     `db:"action"`
	TargetType  string          `db:"target_type"`
	TargetId    string          `db:"target_id"`
	BeforeState json.RawMessage `db:"before_state"`
	AfterState  json.RawMessage `db:"after_state"`
	Reason      sql.NullString  `db:"reason"`
}

type AuditLog struct {
	Id        int       `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	AuditLogInsert
}
