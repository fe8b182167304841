// Package jobs runs collection operations in the background and tracks their status.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gcbaptista/abstract-retrieval/internal/errors"
	"github.com/gcbaptista/abstract-retrieval/internal/logger"
	"github.com/gcbaptista/abstract-retrieval/model"
)

// Observer is called with a copy of every job that reaches a terminal status.
type Observer func(job model.Job)

// Manager handles background job execution and tracking
type Manager struct {
	mu       sync.RWMutex
	jobs     map[string]*model.Job
	workers  chan struct{} // Limits concurrent jobs
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	observer Observer
	log      *slog.Logger
}

// NewManager creates a new job manager running at most maxWorkers jobs at once.
// observer may be nil.
func NewManager(maxWorkers int, observer Observer) *Manager {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		jobs:     make(map[string]*model.Job),
		workers:  make(chan struct{}, maxWorkers),
		ctx:      ctx,
		cancel:   cancel,
		observer: observer,
		log:      logger.WithComponent("jobs"),
	}
}

// Start launches the periodic cleanup of finished jobs.
func (m *Manager) Start() {
	m.log.Info("Job manager started", "max_workers", cap(m.workers))

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.cleanupRoutine()
	}()
}

// Stop cancels running jobs and waits for them to return.
func (m *Manager) Stop() {
	m.cancel()
	m.wg.Wait()
	m.log.Info("Job manager stopped")
}

// CreateJob registers a pending job and returns its ID
func (m *Manager) CreateJob(jobType model.JobType, collection string, metadata map[string]string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	job := &model.Job{
		ID:         uuid.New().String(),
		Type:       jobType,
		Status:     model.JobStatusPending,
		Collection: collection,
		CreatedAt:  time.Now(),
		Metadata:   metadata,
	}

	m.jobs[job.ID] = job
	m.log.Info("Job created", "job_id", job.ID, "type", job.Type, "collection", collection)
	return job.ID
}

// GetJob returns a copy of the job with the given ID
func (m *Manager) GetJob(jobID string) (model.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return model.Job{}, errors.NewJobNotFoundError(jobID)
	}
	return *job, nil
}

// ListJobs returns the jobs of a collection, newest first. An empty collection
// matches every job; a nil status matches every status.
func (m *Manager) ListJobs(collection string, status *model.JobStatus) []model.Job {
	m.mu.RLock()
	result := make([]model.Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		if collection != "" && job.Collection != collection {
			continue
		}
		if status != nil && job.Status != *status {
			continue
		}
		result = append(result, *job)
	}
	m.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

// ExecuteJob runs fn for a pending job in the background. The context passed to
// fn is cancelled by Stop.
func (m *Manager) ExecuteJob(jobID string, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	job, exists := m.jobs[jobID]
	if !exists {
		m.mu.Unlock()
		return errors.NewJobNotFoundError(jobID)
	}
	if job.Status != model.JobStatusPending {
		m.mu.Unlock()
		return fmt.Errorf("job with ID '%s' is not in pending status (current: %s)", jobID, job.Status)
	}
	if m.ctx.Err() != nil {
		m.mu.Unlock()
		m.finish(jobID, model.JobStatusCancelled, "job manager shutting down")
		return fmt.Errorf("job manager is shutting down")
	}
	m.wg.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.wg.Done()

		select {
		case m.workers <- struct{}{}:
		case <-m.ctx.Done():
			m.finish(jobID, model.JobStatusCancelled, "job manager shutting down")
			return
		}
		defer func() { <-m.workers }()

		m.mu.Lock()
		now := time.Now()
		job.Status = model.JobStatusRunning
		job.StartedAt = &now
		m.mu.Unlock()

		err := fn(m.ctx)
		switch {
		case err != nil && m.ctx.Err() != nil:
			m.finish(jobID, model.JobStatusCancelled, err.Error())
		case err != nil:
			m.finish(jobID, model.JobStatusFailed, err.Error())
		default:
			m.finish(jobID, model.JobStatusCompleted, "")
		}
	}()

	return nil
}

// finish moves a job to a terminal status and notifies the observer.
func (m *Manager) finish(jobID string, status model.JobStatus, errorMsg string) {
	m.mu.Lock()
	job, exists := m.jobs[jobID]
	if !exists {
		m.mu.Unlock()
		return
	}
	now := time.Now()
	if job.StartedAt == nil {
		job.StartedAt = &now
	}
	job.Status = status
	job.Error = errorMsg
	job.CompletedAt = &now
	snapshot := *job
	m.mu.Unlock()

	if status == model.JobStatusCompleted {
		m.log.Info("Job completed", "job_id", jobID, "type", snapshot.Type, "duration", snapshot.Duration())
	} else {
		m.log.Warn("Job did not complete", "job_id", jobID, "type", snapshot.Type, "status", status, "error", errorMsg)
	}
	if m.observer != nil {
		m.observer(snapshot)
	}
}

// cleanupRoutine runs periodic job cleanup
func (m *Manager) cleanupRoutine() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.CleanupOldJobs(24 * time.Hour)
		case <-m.ctx.Done():
			return
		}
	}
}

// CleanupOldJobs removes finished jobs that completed more than maxAge ago
func (m *Manager) CleanupOldJobs(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	cleaned := 0
	for jobID, job := range m.jobs {
		if job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
			delete(m.jobs, jobID)
			cleaned++
		}
	}

	if cleaned > 0 {
		m.log.Info("Cleaned up old jobs", "count", cleaned)
	}
	return cleaned
}
