package repos

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Nidish2/Climate-Platform/internal/platform/logger"
	"github.com/Nidish2/Climate-Platform/internal/types"
)

type JobRepo interface {
	Create(ctx context.Context, tx *gorm.DB, job *types.ProcessingJob) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ProcessingJob, error)
	ClaimNextPending(ctx context.Context, tx *gorm.DB) (*types.ProcessingJob, error)
	MarkCompleted(ctx context.Context, tx *gorm.DB, id uuid.UUID, result datatypes.JSON) error
	MarkFailed(ctx context.Context, tx *gorm.DB, id uuid.UUID, errMsg string) error
	RequeueRunning(ctx context.Context, tx *gorm.DB) (int64, error)
	CountSince(ctx context.Context, tx *gorm.DB, since time.Time) (int64, error)
}

type jobRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewJobRepo(db *gorm.DB, baseLog *logger.Logger) JobRepo {
	return &jobRepo{db: db, log: baseLog.With("repo", "JobRepo")}
}

func (jr *jobRepo) Create(ctx context.Context, tx *gorm.DB, job *types.ProcessingJob) error {
	conn := tx
	if conn == nil {
		conn = jr.db
	}
	job.Status = types.JobPending
	return conn.WithContext(ctx).Create(job).Error
}

func (jr *jobRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ProcessingJob, error) {
	conn := tx
	if conn == nil {
		conn = jr.db
	}
	var job types.ProcessingJob
	if err := conn.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// ClaimNextPending moves the oldest pending job to running. The guarded
// UPDATE makes the claim atomic; a second worker hitting the same row claims
// nothing and retries with the next one.
func (jr *jobRepo) ClaimNextPending(ctx context.Context, tx *gorm.DB) (*types.ProcessingJob, error) {
	conn := tx
	if conn == nil {
		conn = jr.db
	}
	var job types.ProcessingJob
	err := conn.WithContext(ctx).
		Where("status = ?", types.JobPending).
		Order("created_at ASC").
		First(&job).Error
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	res := conn.WithContext(ctx).
		Model(&types.ProcessingJob{}).
		Where("id = ? AND status = ?", job.ID, types.JobPending).
		Updates(map[string]any{
			"status":     types.JobRunning,
			"started_at": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	job.Status = types.JobRunning
	job.StartedAt = &now
	return &job, nil
}

func (jr *jobRepo) MarkCompleted(ctx context.Context, tx *gorm.DB, id uuid.UUID, result datatypes.JSON) error {
	return jr.finish(ctx, tx, id, types.JobCompleted, result, "")
}

func (jr *jobRepo) MarkFailed(ctx context.Context, tx *gorm.DB, id uuid.UUID, errMsg string) error {
	return jr.finish(ctx, tx, id, types.JobFailed, nil, errMsg)
}

// finish transitions a running job into a terminal state. Terminal rows are
// immutable: the status guard refuses a second transition.
func (jr *jobRepo) finish(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.JobStatus, result datatypes.JSON, errMsg string) error {
	conn := tx
	if conn == nil {
		conn = jr.db
	}
	updates := map[string]any{
		"status":      status,
		"finished_at": time.Now().UTC(),
	}
	if status == types.JobFailed {
		updates["error_message"] = errMsg
	}
	if result != nil {
		updates["result"] = result
	}
	res := conn.WithContext(ctx).
		Model(&types.ProcessingJob{}).
		Where("id = ? AND status = ?", id, types.JobRunning).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("job %s is not running, cannot transition to %s", id, status)
	}
	return nil
}

// RequeueRunning puts every running job back to pending. Only the single
// worker moves jobs to running, so at its startup any running row is an
// orphan from a previous crash.
func (jr *jobRepo) RequeueRunning(ctx context.Context, tx *gorm.DB) (int64, error) {
	conn := tx
	if conn == nil {
		conn = jr.db
	}
	res := conn.WithContext(ctx).
		Model(&types.ProcessingJob{}).
		Where("status = ?", types.JobRunning).
		Updates(map[string]any{
			"status":     types.JobPending,
			"started_at": nil,
		})
	return res.RowsAffected, res.Error
}

func (jr *jobRepo) CountSince(ctx context.Context, tx *gorm.DB, since time.Time) (int64, error) {
	conn := tx
	if conn == nil {
		conn = jr.db
	}
	var count int64
	if err := conn.WithContext(ctx).
		Model(&types.ProcessingJob{}).
		Where("created_at >= ?", since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
