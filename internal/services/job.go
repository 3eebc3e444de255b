package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Nidish2/Climate-Platform/internal/platform/apierror"
	"github.com/Nidish2/Climate-Platform/internal/platform/logger"
	"github.com/Nidish2/Climate-Platform/internal/repos"
	"github.com/Nidish2/Climate-Platform/internal/types"
)

// JobExecutor runs one job type's work and returns the result document.
type JobExecutor func(ctx context.Context, payload datatypes.JSON) (datatypes.JSON, error)

type JobService interface {
	GetJob(ctx context.Context, id uuid.UUID) (*types.ProcessingJob, error)
	RegisterExecutor(jobType string, exec JobExecutor)

	// Start launches the polling worker; it stops when ctx is cancelled.
	Start(ctx context.Context)
	Wait()
}

type jobService struct {
	log          *logger.Logger
	jobRepo      repos.JobRepo
	pollInterval time.Duration

	mu        sync.RWMutex
	executors map[string]JobExecutor
	wg        sync.WaitGroup
}

func NewJobService(log *logger.Logger, jobRepo repos.JobRepo, pollInterval time.Duration) JobService {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &jobService{
		log:          log.With("service", "JobService"),
		jobRepo:      jobRepo,
		pollInterval: pollInterval,
		executors:    make(map[string]JobExecutor),
	}
}

func (js *jobService) GetJob(ctx context.Context, id uuid.UUID) (*types.ProcessingJob, error) {
	job, err := js.jobRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("job not found")
		}
		return nil, apierror.Internal("load job", err)
	}
	return job, nil
}

func (js *jobService) RegisterExecutor(jobType string, exec JobExecutor) {
	js.mu.Lock()
	defer js.mu.Unlock()
	js.executors[jobType] = exec
}

func (js *jobService) executor(jobType string) (JobExecutor, bool) {
	js.mu.RLock()
	defer js.mu.RUnlock()
	exec, ok := js.executors[jobType]
	return exec, ok
}

func (js *jobService) Start(ctx context.Context) {
	// Jobs stranded in running by a crashed worker go back to the queue
	// before polling begins.
	if requeued, err := js.jobRepo.RequeueRunning(ctx, nil); err != nil {
		js.log.Error("Failed to requeue orphaned jobs", "error", err)
	} else if requeued > 0 {
		js.log.Warn("Requeued orphaned jobs", "count", requeued)
	}

	js.wg.Add(1)
	go func() {
		defer js.wg.Done()
		ticker := time.NewTicker(js.pollInterval)
		defer ticker.Stop()
		js.log.Info("Job worker started", "poll_interval", js.pollInterval)
		for {
			select {
			case <-ctx.Done():
				js.log.Info("Job worker stopped")
				return
			case <-ticker.C:
				js.drain(ctx)
			}
		}
	}()
}

func (js *jobService) Wait() { js.wg.Wait() }

// drain claims and runs pending jobs until the queue is empty or ctx ends.
func (js *jobService) drain(ctx context.Context) {
	for ctx.Err() == nil {
		job, err := js.jobRepo.ClaimNextPending(ctx, nil)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				js.log.Error("Failed to claim job", "error", err)
			}
			return
		}
		js.run(ctx, job)
	}
}

func (js *jobService) run(ctx context.Context, job *types.ProcessingJob) {
	exec, ok := js.executor(job.JobType)
	if !ok {
		js.log.Error("No executor for job type", "job_id", job.ID, "job_type", job.JobType)
		if err := js.jobRepo.MarkFailed(ctx, nil, job.ID, "unknown job type "+job.JobType); err != nil {
			js.log.Error("Failed to mark job failed", "job_id", job.ID, "error", err)
		}
		return
	}

	result, err := exec(ctx, job.Payload)
	if err != nil {
		js.log.Warn("Job execution failed", "job_id", job.ID, "job_type", job.JobType, "error", err)
		if mErr := js.jobRepo.MarkFailed(ctx, nil, job.ID, err.Error()); mErr != nil {
			js.log.Error("Failed to mark job failed", "job_id", job.ID, "error", mErr)
		}
		return
	}
	if err := js.jobRepo.MarkCompleted(ctx, nil, job.ID, result); err != nil {
		js.log.Error("Failed to mark job completed", "job_id", job.ID, "error", err)
		return
	}
	js.log.Info("Job completed", "job_id", job.ID, "job_type", job.JobType)
}
