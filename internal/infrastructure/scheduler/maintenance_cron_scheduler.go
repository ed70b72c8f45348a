package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/bizsuite/backend/internal/domain/identity"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// cronTickerInterval is the interval at which the cron loop checks for due schedules
const cronTickerInterval = 1 * time.Minute

// MaintenanceJobRecord records one execution of a maintenance job
type MaintenanceJobRecord struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	TenantID    uuid.UUID  `gorm:"column:tenant_id;type:uuid;not null"`
	JobType     string     `gorm:"column:job_type;size:50;not null"`
	Status      string     `gorm:"column:last_run_status;size:20"`
	Error       string     `gorm:"column:last_error;type:text"`
	StartedAt   *time.Time `gorm:"column:last_run_at"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

// TableName returns the table name for GORM
func (MaintenanceJobRecord) TableName() string {
	return "maintenance_job_runs"
}

// MaintenanceJobRepository handles persistence of maintenance job records
type MaintenanceJobRepository struct {
	db *gorm.DB
}

// NewMaintenanceJobRepository creates a new MaintenanceJobRepository
func NewMaintenanceJobRepository(db *gorm.DB) *MaintenanceJobRepository {
	return &MaintenanceJobRepository{db: db}
}

// RecordJobStart records the start of a job execution
func (r *MaintenanceJobRepository) RecordJobStart(ctx context.Context, tenantID uuid.UUID, jobType JobType) (uuid.UUID, error) {
	now := time.Now()
	record := &MaintenanceJobRecord{
		ID:        uuid.New(),
		TenantID:  tenantID,
		JobType:   string(jobType),
		Status:    string(JobStatusRunning),
		StartedAt: &now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return uuid.Nil, err
	}
	return record.ID, nil
}

// RecordJobComplete records the completion of a job
func (r *MaintenanceJobRepository) RecordJobComplete(ctx context.Context, jobID uuid.UUID, success bool, errMsg string) error {
	now := time.Now()
	status := string(JobStatusSuccess)
	if !success {
		status = string(JobStatusFailed)
	}
	return r.db.WithContext(ctx).
		Model(&MaintenanceJobRecord{}).
		Where("id = ?", jobID).
		Updates(map[string]any{
			"last_run_status": status,
			"last_error":      errMsg,
			"completed_at":    now,
			"updated_at":      now,
		}).Error
}

// GetLastJobStatus gets the most recent record for a tenant and job type
func (r *MaintenanceJobRepository) GetLastJobStatus(ctx context.Context, tenantID uuid.UUID, jobType JobType) (*MaintenanceJobRecord, error) {
	var record MaintenanceJobRecord
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND job_type = ?", tenantID, string(jobType)).
		Order("last_run_at DESC").
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// MaintenanceCronScheduler drives recurring maintenance across all active
// tenants. Two schedules run independently: an hourly metric schedule
// (retention pruning, alert evaluation) and a daily insight schedule.
type MaintenanceCronScheduler struct {
	config          config.SchedulerConfig
	metricSchedule  CronSchedule
	insightSchedule CronSchedule
	tenantRepo      identity.TenantRepository
	jobRepo         *MaintenanceJobRepository
	logger          *zap.Logger
	pool            *WorkerPool

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	lastMetricRunAt  *time.Time
	lastInsightRunAt *time.Time
	nextMetricRunAt  *time.Time
	nextInsightRunAt *time.Time
}

// NewMaintenanceCronScheduler creates a new cron-based maintenance scheduler
func NewMaintenanceCronScheduler(
	cfg config.SchedulerConfig,
	executor JobExecutor,
	tenantRepo identity.TenantRepository,
	jobRepo *MaintenanceJobRepository,
	logger *zap.Logger,
) (*MaintenanceCronScheduler, error) {
	metricSchedule, err := ParseCronSchedule(cfg.MetricRollupCron)
	if err != nil {
		return nil, err
	}
	insightSchedule, err := ParseCronSchedule(cfg.InsightCron)
	if err != nil {
		return nil, err
	}

	poolConfig := WorkerPoolConfig{
		MaxConcurrentJobs: cfg.MaxConcurrentJobs,
		JobTimeout:        cfg.JobTimeout,
		RetryAttempts:     cfg.RetryAttempts,
		RetryDelay:        cfg.RetryDelay,
	}

	return &MaintenanceCronScheduler{
		config:          cfg,
		metricSchedule:  metricSchedule,
		insightSchedule: insightSchedule,
		tenantRepo:      tenantRepo,
		jobRepo:         jobRepo,
		logger:          logger,
		pool:            NewWorkerPool(poolConfig, executor, logger),
	}, nil
}

// Start starts the cron scheduler
func (s *MaintenanceCronScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	if err := s.pool.Start(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.calculateNextRunTimes(time.Now())

	s.wg.Add(1)
	go s.cronLoop(ctx)

	s.logger.Info("Maintenance cron scheduler started",
		zap.String("metric_cron", s.config.MetricRollupCron),
		zap.String("insight_cron", s.config.InsightCron),
		zap.Timep("next_metric_run_at", s.nextMetricRunAt),
		zap.Timep("next_insight_run_at", s.nextInsightRunAt),
	)

	return nil
}

// Stop stops the cron scheduler
func (s *MaintenanceCronScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		if err := s.pool.Stop(ctx); err != nil {
			s.logger.Warn("Error stopping maintenance worker pool", zap.Error(err))
		}
		s.logger.Info("Maintenance cron scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Maintenance cron scheduler stop timed out")
		return ctx.Err()
	}
}

// cronLoop checks both schedules once per minute
func (s *MaintenanceCronScheduler) cronLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(cronTickerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if s.metricSchedule.Matches(now) {
				s.runForAllTenants(ctx, HourlyJobTypes(), &s.lastMetricRunAt)
			}
			if s.insightSchedule.Matches(now) {
				s.runForAllTenants(ctx, DailyJobTypes(), &s.lastInsightRunAt)
			}
			s.calculateNextRunTimes(now)
		}
	}
}

// calculateNextRunTimes updates the next firing times for both schedules
func (s *MaintenanceCronScheduler) calculateNextRunTimes(now time.Time) {
	nextMetric := s.metricSchedule.Next(now)
	nextInsight := s.insightSchedule.Next(now)

	s.mu.Lock()
	s.nextMetricRunAt = &nextMetric
	s.nextInsightRunAt = &nextInsight
	s.mu.Unlock()
}

// runForAllTenants submits the given job types for every active tenant
func (s *MaintenanceCronScheduler) runForAllTenants(ctx context.Context, jobTypes []JobType, lastRun **time.Time) {
	now := time.Now()
	s.mu.Lock()
	*lastRun = &now
	s.mu.Unlock()

	tenants, err := s.tenantRepo.FindByStatus(ctx, identity.TenantStatusActive, shared.Filter{})
	if err != nil {
		s.logger.Error("Failed to fetch active tenants for maintenance", zap.Error(err))
		return
	}

	for _, tenant := range tenants {
		tenantID := tenant.ID
		for _, jobType := range jobTypes {
			var jobID uuid.UUID
			if s.jobRepo != nil {
				var recordErr error
				jobID, recordErr = s.jobRepo.RecordJobStart(ctx, tenantID, jobType)
				if recordErr != nil {
					s.logger.Warn("Failed to record job start",
						zap.String("tenant_id", tenantID.String()),
						zap.String("job_type", string(jobType)),
						zap.Error(recordErr),
					)
				}
			}

			job := NewJob(tenantID, jobType, s.config.RetryAttempts)
			if err := s.pool.Submit(job); err != nil {
				s.logger.Error("Failed to submit maintenance job",
					zap.String("tenant_id", tenantID.String()),
					zap.String("job_type", string(jobType)),
					zap.Error(err),
				)
				if s.jobRepo != nil && jobID != uuid.Nil {
					_ = s.jobRepo.RecordJobComplete(ctx, jobID, false, err.Error())
				}
			}
		}
	}

	s.logger.Info("Maintenance jobs scheduled",
		zap.Int("tenant_count", len(tenants)),
		zap.Int("job_types", len(jobTypes)),
	)
}

// TriggerTenantMaintenance submits every maintenance job type for one tenant.
// Used by the admin API to force a run outside the cron windows.
func (s *MaintenanceCronScheduler) TriggerTenantMaintenance(ctx context.Context, tenantID uuid.UUID) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.mu.Unlock()

	jobTypes := append(HourlyJobTypes(), DailyJobTypes()...)
	for _, jobType := range jobTypes {
		job := NewJob(tenantID, jobType, s.config.RetryAttempts)
		if err := s.pool.Submit(job); err != nil {
			return err
		}
	}
	return nil
}

// GetStatus returns the current status of the cron scheduler
func (s *MaintenanceCronScheduler) GetStatus() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]any{
		"enabled":             s.config.Enabled,
		"is_running":          s.isRunning,
		"metric_cron":         s.config.MetricRollupCron,
		"insight_cron":        s.config.InsightCron,
		"last_metric_run_at":  s.lastMetricRunAt,
		"last_insight_run_at": s.lastInsightRunAt,
		"next_metric_run_at":  s.nextMetricRunAt,
		"next_insight_run_at": s.nextInsightRunAt,
	}
}
