// Package scheduler runs recurring background maintenance for tenants:
// pruning aged metric samples, evaluating performance alerts, and
// generating daily business insights.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobStatus represents the status of a scheduled job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// JobType represents the kind of maintenance work a job performs
type JobType string

const (
	// JobTypeMetricRetention prunes metric samples past the retention window
	JobTypeMetricRetention JobType = "METRIC_RETENTION"
	// JobTypeAlertEvaluation compares recent metrics against baselines and raises alerts
	JobTypeAlertEvaluation JobType = "ALERT_EVALUATION"
	// JobTypeInsightGeneration derives business insights from tenant aggregates
	JobTypeInsightGeneration JobType = "INSIGHT_GENERATION"
)

// HourlyJobTypes returns the job types driven by the hourly metric cron
func HourlyJobTypes() []JobType {
	return []JobType{
		JobTypeMetricRetention,
		JobTypeAlertEvaluation,
	}
}

// DailyJobTypes returns the job types driven by the daily insight cron
func DailyJobTypes() []JobType {
	return []JobType{
		JobTypeInsightGeneration,
	}
}

// Job represents a scheduled maintenance job for a single tenant
type Job struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	Type        JobType
	Status      JobStatus
	Error       string
	StartedAt   *time.Time
	CompletedAt *time.Time
	RetryCount  int
	MaxRetries  int
	NextRetryAt *time.Time
}

// NewJob creates a new job instance
func NewJob(tenantID uuid.UUID, jobType JobType, maxRetries int) *Job {
	return &Job{
		ID:         uuid.New(),
		TenantID:   tenantID,
		Type:       jobType,
		Status:     JobStatusPending,
		MaxRetries: maxRetries,
	}
}

// Start marks the job as running
func (j *Job) Start() {
	now := time.Now()
	j.Status = JobStatusRunning
	j.StartedAt = &now
	j.Error = ""
}

// Complete marks the job as successful
func (j *Job) Complete() {
	now := time.Now()
	j.Status = JobStatusSuccess
	j.CompletedAt = &now
}

// Fail marks the job as failed
func (j *Job) Fail(err string) {
	now := time.Now()
	j.Status = JobStatusFailed
	j.CompletedAt = &now
	j.Error = err
}

// ShouldRetry returns true if the job should be retried
func (j *Job) ShouldRetry() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// ScheduleRetry schedules the job for retry
func (j *Job) ScheduleRetry(delay time.Duration) {
	j.RetryCount++
	j.Status = JobStatusPending
	nextRetry := time.Now().Add(delay)
	j.NextRetryAt = &nextRetry
	j.Error = ""
}

// JobExecutor is the interface for executing maintenance jobs
type JobExecutor interface {
	Execute(ctx context.Context, job *Job) error
}

// WorkerPoolConfig holds worker pool configuration
type WorkerPoolConfig struct {
	MaxConcurrentJobs int
	JobTimeout        time.Duration
	RetryAttempts     int
	RetryDelay        time.Duration
}

// DefaultWorkerPoolConfig returns default worker pool configuration
func DefaultWorkerPoolConfig() WorkerPoolConfig {
	return WorkerPoolConfig{
		MaxConcurrentJobs: 3,
		JobTimeout:        10 * time.Minute,
		RetryAttempts:     3,
		RetryDelay:        time.Minute,
	}
}

// WorkerPool executes maintenance jobs with bounded concurrency
type WorkerPool struct {
	config   WorkerPoolConfig
	executor JobExecutor
	logger   *zap.Logger

	jobs      chan *Job
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewWorkerPool creates a new worker pool
func NewWorkerPool(config WorkerPoolConfig, executor JobExecutor, logger *zap.Logger) *WorkerPool {
	return &WorkerPool{
		config:   config,
		executor: executor,
		logger:   logger,
		jobs:     make(chan *Job, 100),
	}
}

// Start starts the worker pool
func (p *WorkerPool) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.isRunning {
		p.mu.Unlock()
		return nil
	}
	p.isRunning = true
	p.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.config.MaxConcurrentJobs; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}

	p.logger.Info("Maintenance worker pool started",
		zap.Int("workers", p.config.MaxConcurrentJobs),
		zap.Duration("job_timeout", p.config.JobTimeout),
	)

	return nil
}

// Stop gracefully stops the worker pool
func (p *WorkerPool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.isRunning {
		p.mu.Unlock()
		return nil
	}
	p.isRunning = false
	p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
	}

	close(p.jobs)

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("Maintenance worker pool stopped gracefully")
		return nil
	case <-ctx.Done():
		p.logger.Warn("Maintenance worker pool stop timed out")
		return ctx.Err()
	}
}

// Submit submits a job for execution
func (p *WorkerPool) Submit(job *Job) error {
	p.mu.Lock()
	if !p.isRunning {
		p.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	p.mu.Unlock()

	select {
	case p.jobs <- job:
		p.logger.Debug("Job submitted",
			zap.String("job_id", job.ID.String()),
			zap.String("job_type", string(job.Type)),
		)
		return nil
	default:
		return ErrJobQueueFull
	}
}

// worker processes jobs from the queue
func (p *WorkerPool) worker(ctx context.Context, workerID int) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			p.processJob(ctx, job, workerID)
		}
	}
}

// processJob executes a single job, retrying on failure up to MaxRetries
func (p *WorkerPool) processJob(ctx context.Context, job *Job, workerID int) {
	// Jobs waiting on a retry delay go back to the queue
	if job.NextRetryAt != nil && time.Now().Before(*job.NextRetryAt) {
		select {
		case p.jobs <- job:
		default:
			p.logger.Warn("Failed to re-queue job for retry",
				zap.String("job_id", job.ID.String()),
			)
		}
		return
	}

	job.Start()
	p.logger.Debug("Processing job",
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("job_type", string(job.Type)),
		zap.String("tenant_id", job.TenantID.String()),
	)

	jobCtx, cancel := context.WithTimeout(ctx, p.config.JobTimeout)
	defer cancel()

	if err := p.executor.Execute(jobCtx, job); err != nil {
		job.Fail(err.Error())
		p.logger.Error("Job failed",
			zap.Int("worker_id", workerID),
			zap.String("job_id", job.ID.String()),
			zap.String("job_type", string(job.Type)),
			zap.String("tenant_id", job.TenantID.String()),
			zap.Error(err),
		)

		if job.ShouldRetry() {
			job.ScheduleRetry(p.config.RetryDelay)
			p.logger.Info("Job scheduled for retry",
				zap.String("job_id", job.ID.String()),
				zap.Int("retry_count", job.RetryCount),
				zap.Int("max_retries", job.MaxRetries),
			)
			select {
			case p.jobs <- job:
			default:
				p.logger.Warn("Failed to re-queue job for retry",
					zap.String("job_id", job.ID.String()),
				)
			}
		}
		return
	}

	job.Complete()
	p.logger.Debug("Job completed",
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("job_type", string(job.Type)),
	)
}
