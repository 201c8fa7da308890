package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jekabolt/grbpwr-waitlist/internal/dependency"
	"github.com/jekabolt/grbpwr-waitlist/internal/entity"
)

type auditStore struct {
	*MYSQLStore
}

func (ms *MYSQLStore) Audit() dependency.Audit {
	return &auditStore{
		MYSQLStore: ms,
	}
}

// jsonOrNull keeps audit states non-NULL so they scan into json.RawMessage.
func jsonOrNull(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "null"
	}
	return string(raw)
}

func (ms *auditStore) AddAuditLog(ctx context.Context, al *entity.AuditLogInsert) error {
	query := `
	INSERT INTO audit_log (actor, action, target_type, target_id, before_state, after_state, reason, created_at)
	VALUES (:actor, :action, :targetType, :targetId, :beforeState, :afterState, :reason, :now)`
	err := ExecNamed(ctx, ms.DB(), query, map[string]any{
		"actor":       al.Actor,
		"action":      al.Action,
		"targetType":  al.TargetType,
		"targetId":    al.TargetId,
		"beforeState": jsonOrNull(al.BeforeState),
		"afterState":  jsonOrNull(al.AfterState),
		"reason":      al.Reason,
		"now":         ms.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to add audit log: %w", err)
	}
	return nil
}

// ListAuditLogs returns the newest audit rows for a target first.
func (ms *auditStore) ListAuditLogs(ctx context.Context, targetType string, targetId string, limit int) ([]entity.AuditLog, error) {
	query := `
	SELECT id, actor, action, target_type, target_id, before_state, after_state, reason, created_at
	FROM audit_log
	WHERE target_type = :targetType AND target_id = :targetId
	ORDER BY created_at DESC, id DESC
	LIMIT :limit`
	logs, err := QueryListNamed[entity.AuditLog](ctx, ms.DB(), query, map[string]any{
		"targetType": targetType,
		"targetId":   targetId,
		"limit":      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return logs, nil
}
