package repos

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Nidish2/Climate-Platform/internal/platform/ctxutil"
	"github.com/Nidish2/Climate-Platform/internal/platform/logger"
	"github.com/Nidish2/Climate-Platform/internal/types"
)

type AuditRepo interface {
	Append(ctx context.Context, tx *gorm.DB, entry *types.AuditLogEntry) error
	ListByRecord(ctx context.Context, tx *gorm.DB, table string, recordID uuid.UUID) ([]*types.AuditLogEntry, error)
	CountSince(ctx context.Context, tx *gorm.DB, since time.Time) (int64, error)
}

type auditRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAuditRepo(db *gorm.DB, baseLog *logger.Logger) AuditRepo {
	return &auditRepo{db: db, log: baseLog.With("repo", "AuditRepo")}
}

func (ar *auditRepo) Append(ctx context.Context, tx *gorm.DB, entry *types.AuditLogEntry) error {
	conn := tx
	if conn == nil {
		conn = ar.db
	}
	if entry == nil {
		return fmt.Errorf("nil audit entry")
	}
	return conn.WithContext(ctx).Create(entry).Error
}

func (ar *auditRepo) ListByRecord(ctx context.Context, tx *gorm.DB, table string, recordID uuid.UUID) ([]*types.AuditLogEntry, error) {
	conn := tx
	if conn == nil {
		conn = ar.db
	}
	var results []*types.AuditLogEntry
	if err := conn.WithContext(ctx).
		Where("table_name = ? AND record_id = ?", table, recordID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *auditRepo) CountSince(ctx context.Context, tx *gorm.DB, since time.Time) (int64, error) {
	conn := tx
	if conn == nil {
		conn = ar.db
	}
	var count int64
	if err := conn.WithContext(ctx).
		Model(&types.AuditLogEntry{}).
		Where("created_at >= ?", since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// writeAudit appends the ledger row for a mutation inside the caller's
// transaction. The tx fails atomically when this fails, so no audited
// mutation can land without its entry.
func writeAudit(ctx context.Context, tx *gorm.DB, table string, recordID uuid.UUID, action types.AuditAction, oldVal, newVal any) error {
	entry := &types.AuditLogEntry{
		EntityTable: table,
		RecordID:    recordID,
		Action:      action,
		UserID:      ctxutil.ActorID(ctx),
	}
	if oldVal != nil {
		raw, err := json.Marshal(oldVal)
		if err != nil {
			return fmt.Errorf("marshal audit old value: %w", err)
		}
		entry.OldValue = datatypes.JSON(raw)
	}
	if newVal != nil {
		raw, err := json.Marshal(newVal)
		if err != nil {
			return fmt.Errorf("marshal audit new value: %w", err)
		}
		entry.NewValue = datatypes.JSON(raw)
	}
	if err := tx.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

// withTx runs fn inside tx when the caller already holds one, otherwise
// opens a new transaction so the mutation and its audit entry commit
// together.
func withTx(ctx context.Context, db *gorm.DB, tx *gorm.DB, fn func(tx *gorm.DB) error) error {
	if tx != nil {
		return fn(tx)
	}
	return db.WithContext(ctx).Transaction(fn)
}
