package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AuditAction string

const (
	AuditInsert AuditAction = "INSERT"
	AuditUpdate AuditAction = "UPDATE"
	AuditDelete AuditAction = "DELETE"
)

// AuditLogEntry is the write-once change ledger. Appended in the same
// transaction as the mutation it records; nothing references it by foreign
// key and rows are never updated or deleted.
type AuditLogEntry struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	EntityTable string         `gorm:"column:table_name;not null;index" json:"table_name"`
	RecordID    uuid.UUID      `gorm:"type:uuid;column:record_id;not null;index" json:"record_id"`
	Action      AuditAction    `gorm:"column:action;not null" json:"action"`
	OldValue    datatypes.JSON `gorm:"column:old_value;type:jsonb" json:"old_value,omitempty"`
	NewValue    datatypes.JSON `gorm:"column:new_value;type:jsonb" json:"new_value,omitempty"`
	UserID      uuid.UUID      `gorm:"type:uuid;column:user_id" json:"user_id"`
	CreatedAt   time.Time      `gorm:"not null;index" json:"created_at"`
}

func (AuditLogEntry) TableName() string { return "audit_log_entries" }

func (e *AuditLogEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
