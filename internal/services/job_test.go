package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/Nidish2/Climate-Platform/internal/platform/apierror"
	"github.com/Nidish2/Climate-Platform/internal/repos"
	"github.com/Nidish2/Climate-Platform/internal/types"
)

func newJobService(t *testing.T) (*jobService, repos.JobRepo) {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger(t)
	jobRepo := repos.NewJobRepo(db, log)
	svc := NewJobService(log, jobRepo, 0).(*jobService)
	return svc, jobRepo
}

func enqueueJob(t *testing.T, jobRepo repos.JobRepo, jobType string, payload string) *types.ProcessingJob {
	t.Helper()
	job := &types.ProcessingJob{
		JobType:     jobType,
		Payload:     datatypes.JSON(payload),
		SubmittedBy: uuid.New(),
	}
	if err := jobRepo.Create(actorContext(job.SubmittedBy), nil, job); err != nil {
		t.Fatalf("enqueue job: %v", err)
	}
	return job
}

func TestDrain_RunsRegisteredExecutor(t *testing.T) {
	svc, jobRepo := newJobService(t)
	ctx := actorContext(uuid.New())

	var gotPayload string
	svc.RegisterExecutor("echo", func(ctx context.Context, payload datatypes.JSON) (datatypes.JSON, error) {
		gotPayload = string(payload)
		return datatypes.JSON(`{"ok":true}`), nil
	})
	job := enqueueJob(t, jobRepo, "echo", `{"n":1}`)

	svc.drain(ctx)

	if gotPayload != `{"n":1}` {
		t.Fatalf("executor did not receive the payload, got %q", gotPayload)
	}
	done, err := jobRepo.GetByID(ctx, nil, job.ID)
	if err != nil {
		t.Fatalf("load job: %v", err)
	}
	if done.Status != types.JobCompleted {
		t.Fatalf("expected completed, got %s", done.Status)
	}
	if string(done.Result) != `{"ok":true}` {
		t.Fatalf("result not stored: %s", done.Result)
	}
	if done.FinishedAt == nil {
		t.Fatal("finished_at not set")
	}
}

func TestDrain_ExecutorErrorMarksFailed(t *testing.T) {
	svc, jobRepo := newJobService(t)
	ctx := actorContext(uuid.New())

	svc.RegisterExecutor("boom", func(ctx context.Context, payload datatypes.JSON) (datatypes.JSON, error) {
		return nil, errors.New("simulation diverged")
	})
	job := enqueueJob(t, jobRepo, "boom", `{}`)

	svc.drain(ctx)

	done, err := jobRepo.GetByID(ctx, nil, job.ID)
	if err != nil {
		t.Fatalf("load job: %v", err)
	}
	if done.Status != types.JobFailed || done.ErrorMessage != "simulation diverged" {
		t.Fatalf("expected failed with message, got %s %q", done.Status, done.ErrorMessage)
	}
}

func TestDrain_UnknownJobTypeMarksFailed(t *testing.T) {
	svc, jobRepo := newJobService(t)
	ctx := actorContext(uuid.New())
	job := enqueueJob(t, jobRepo, "mystery", `{}`)

	svc.drain(ctx)

	done, err := jobRepo.GetByID(ctx, nil, job.ID)
	if err != nil {
		t.Fatalf("load job: %v", err)
	}
	if done.Status != types.JobFailed {
		t.Fatalf("expected failed, got %s", done.Status)
	}
}

func TestDrain_ProcessesQueueInOrder(t *testing.T) {
	svc, jobRepo := newJobService(t)
	ctx := actorContext(uuid.New())

	var order []string
	svc.RegisterExecutor("seq", func(ctx context.Context, payload datatypes.JSON) (datatypes.JSON, error) {
		order = append(order, string(payload))
		return datatypes.JSON(`{}`), nil
	})
	enqueueJob(t, jobRepo, "seq", `"first"`)
	enqueueJob(t, jobRepo, "seq", `"second"`)

	svc.drain(ctx)

	if len(order) != 2 || order[0] != `"first"` || order[1] != `"second"` {
		t.Fatalf("jobs not drained oldest first: %v", order)
	}
}

func TestStart_RequeuesOrphanedRunningJobs(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	jobRepo := repos.NewJobRepo(db, log)
	// A long poll interval keeps the worker from draining the queue itself.
	svc := NewJobService(log, jobRepo, time.Hour).(*jobService)
	ctx := actorContext(uuid.New())

	svc.RegisterExecutor("echo", func(ctx context.Context, payload datatypes.JSON) (datatypes.JSON, error) {
		return datatypes.JSON(`{}`), nil
	})
	job := enqueueJob(t, jobRepo, "echo", `{}`)

	// Claim the job and walk away, as a crashed worker would.
	if _, err := jobRepo.ClaimNextPending(ctx, nil); err != nil {
		t.Fatalf("claim: %v", err)
	}

	workerCtx, cancel := context.WithCancel(ctx)
	svc.Start(workerCtx)
	cancel()
	svc.Wait()

	recovered, err := jobRepo.GetByID(ctx, nil, job.ID)
	if err != nil {
		t.Fatalf("load job: %v", err)
	}
	if recovered.Status != types.JobPending {
		t.Fatalf("orphaned job should be pending again, got %s", recovered.Status)
	}
	if recovered.StartedAt != nil {
		t.Fatalf("started_at should be cleared, got %v", recovered.StartedAt)
	}

	// The requeued job is runnable: a drain pass completes it.
	svc.drain(ctx)
	done, err := jobRepo.GetByID(ctx, nil, job.ID)
	if err != nil {
		t.Fatalf("load job: %v", err)
	}
	if done.Status != types.JobCompleted {
		t.Fatalf("expected completed after drain, got %s", done.Status)
	}
}

func TestGetJob_NotFound(t *testing.T) {
	svc, _ := newJobService(t)
	_, err := svc.GetJob(actorContext(uuid.New()), uuid.New())
	if apierror.KindOf(err) != apierror.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
