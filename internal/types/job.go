package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// Terminal reports whether no further transition is allowed.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// ProcessingJob records one async operation. Transitions are
// pending -> running -> completed|failed, enforced at the storage boundary.
// ErrorMessage is set only on failure.
type ProcessingJob struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	JobType      string         `gorm:"column:job_type;not null;index" json:"job_type"`
	Status       JobStatus      `gorm:"column:status;not null;index;default:pending" json:"status"`
	Payload      datatypes.JSON `gorm:"column:payload;type:jsonb" json:"payload"`
	Result       datatypes.JSON `gorm:"column:result;type:jsonb" json:"result,omitempty"`
	ErrorMessage string         `gorm:"column:error_message" json:"error_message,omitempty"`
	SubmittedBy  uuid.UUID      `gorm:"type:uuid;column:submitted_by" json:"submitted_by"`
	StartedAt    *time.Time     `gorm:"column:started_at" json:"started_at,omitempty"`
	FinishedAt   *time.Time     `gorm:"column:finished_at" json:"finished_at,omitempty"`
	CreatedAt    time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null" json:"updated_at"`
}

func (ProcessingJob) TableName() string { return "processing_jobs" }

func (j *ProcessingJob) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}
