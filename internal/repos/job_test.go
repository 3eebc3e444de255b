package repos

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Nidish2/Climate-Platform/internal/types"
)

func TestJobLifecycle(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	jobRepo := NewJobRepo(db, log)
	ctx := actorContext(uuid.New())

	job := &types.ProcessingJob{JobType: "urban_simulation", Status: types.JobCompleted}
	if err := jobRepo.Create(ctx, nil, job); err != nil {
		t.Fatalf("create job: %v", err)
	}
	if job.Status != types.JobPending {
		t.Fatalf("new jobs must start pending, got %s", job.Status)
	}

	claimed, err := jobRepo.ClaimNextPending(ctx, nil)
	if err != nil {
		t.Fatalf("claim job: %v", err)
	}
	if claimed.ID != job.ID {
		t.Fatalf("claimed wrong job: %s", claimed.ID)
	}
	if claimed.Status != types.JobRunning || claimed.StartedAt == nil {
		t.Fatalf("claimed job should be running with started_at set, got %s", claimed.Status)
	}

	if err := jobRepo.MarkCompleted(ctx, nil, job.ID, datatypes.JSON(`{"ok":true}`)); err != nil {
		t.Fatalf("mark completed: %v", err)
	}

	stored, err := jobRepo.GetByID(ctx, nil, job.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if stored.Status != types.JobCompleted {
		t.Fatalf("expected completed, got %s", stored.Status)
	}
	if stored.FinishedAt == nil {
		t.Fatal("finished_at should be set on completion")
	}
	if stored.ErrorMessage != "" {
		t.Fatalf("error_message must stay empty on success, got %q", stored.ErrorMessage)
	}

	// Terminal rows are immutable.
	if err := jobRepo.MarkFailed(ctx, nil, job.ID, "boom"); err == nil {
		t.Fatal("expected error transitioning a completed job to failed")
	}
	stored, err = jobRepo.GetByID(ctx, nil, job.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if stored.Status != types.JobCompleted {
		t.Fatalf("terminal status changed to %s", stored.Status)
	}
}

func TestJobFailure_SetsErrorMessage(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	jobRepo := NewJobRepo(db, log)
	ctx := actorContext(uuid.New())

	job := &types.ProcessingJob{JobType: "urban_simulation"}
	if err := jobRepo.Create(ctx, nil, job); err != nil {
		t.Fatalf("create job: %v", err)
	}
	if _, err := jobRepo.ClaimNextPending(ctx, nil); err != nil {
		t.Fatalf("claim job: %v", err)
	}
	if err := jobRepo.MarkFailed(ctx, nil, job.ID, "upstream timed out"); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	stored, err := jobRepo.GetByID(ctx, nil, job.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if stored.Status != types.JobFailed {
		t.Fatalf("expected failed, got %s", stored.Status)
	}
	if stored.ErrorMessage != "upstream timed out" {
		t.Fatalf("unexpected error message %q", stored.ErrorMessage)
	}
}

func TestClaimNextPending_EmptyQueue(t *testing.T) {
	db := newTestDB(t)
	jobRepo := NewJobRepo(db, newTestLogger(t))

	_, err := jobRepo.ClaimNextPending(actorContext(uuid.New()), nil)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound on empty queue, got %v", err)
	}
}

func TestRequeueRunning_OnlyTouchesRunningJobs(t *testing.T) {
	db := newTestDB(t)
	jobRepo := NewJobRepo(db, newTestLogger(t))
	ctx := actorContext(uuid.New())

	orphan := &types.ProcessingJob{JobType: "urban_simulation"}
	if err := jobRepo.Create(ctx, nil, orphan); err != nil {
		t.Fatalf("create job: %v", err)
	}
	if _, err := jobRepo.ClaimNextPending(ctx, nil); err != nil {
		t.Fatalf("claim job: %v", err)
	}

	finished := &types.ProcessingJob{JobType: "urban_simulation"}
	if err := jobRepo.Create(ctx, nil, finished); err != nil {
		t.Fatalf("create job: %v", err)
	}
	if _, err := jobRepo.ClaimNextPending(ctx, nil); err != nil {
		t.Fatalf("claim job: %v", err)
	}
	if err := jobRepo.MarkCompleted(ctx, nil, finished.ID, nil); err != nil {
		t.Fatalf("mark completed: %v", err)
	}

	requeued, err := jobRepo.RequeueRunning(ctx, nil)
	if err != nil {
		t.Fatalf("requeue: %v", err)
	}
	if requeued != 1 {
		t.Fatalf("expected 1 requeued job, got %d", requeued)
	}

	stored, err := jobRepo.GetByID(ctx, nil, orphan.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if stored.Status != types.JobPending || stored.StartedAt != nil {
		t.Fatalf("orphan should be pending with started_at cleared, got %s %v", stored.Status, stored.StartedAt)
	}

	stored, err = jobRepo.GetByID(ctx, nil, finished.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if stored.Status != types.JobCompleted {
		t.Fatalf("terminal job must not be requeued, got %s", stored.Status)
	}
}

// MarkCompleted on a still-pending job must be rejected: only running jobs
// may finish.
func TestFinish_RequiresRunning(t *testing.T) {
	db := newTestDB(t)
	jobRepo := NewJobRepo(db, newTestLogger(t))
	ctx := actorContext(uuid.New())

	job := &types.ProcessingJob{JobType: "urban_simulation"}
	if err := jobRepo.Create(ctx, nil, job); err != nil {
		t.Fatalf("create job: %v", err)
	}
	if err := jobRepo.MarkCompleted(ctx, nil, job.ID, nil); err == nil {
		t.Fatal("expected error completing a pending job")
	}
}
