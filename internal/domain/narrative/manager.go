package narrative

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"ledgerlens/internal/core/apperror"
	"ledgerlens/internal/domain/analysis"
	"ledgerlens/pkg/logger"
)

// Job lifecycle states.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

const (
	defaultGenerateTimeout = 3 * time.Minute
	defaultRetention       = time.Hour
)

// Job is one narrative generation request. IDs are content-addressed, so
// resubmitting the same company/period reuses the in-flight or finished job.
type Job struct {
	ID          string    `json:"id"`
	Company     string    `json:"company"`
	Period      string    `json:"period"`
	Status      Status    `json:"status"`
	Narrative   string    `json:"narrative,omitempty"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	CompletedAt time.Time `json:"completed_at,omitempty"`
}

// Manager runs narrative jobs in the background and serves their status.
// A failed generation fails its job only; it is never fatal to callers.
type Manager struct {
	provider  Provider
	timeout   time.Duration
	retention time.Duration

	mu   sync.RWMutex
	jobs map[string]*Job
}

// ManagerOption configures the manager.
type ManagerOption func(*Manager)

// WithGenerateTimeout bounds one provider call.
func WithGenerateTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithRetention sets how long finished jobs stay pollable.
func WithRetention(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.retention = d
		}
	}
}

// NewManager creates a narrative manager. A nil provider disables
// generation; Submit then reports the service as unavailable.
func NewManager(provider Provider, opts ...ManagerOption) *Manager {
	m := &Manager{
		provider:  provider,
		timeout:   defaultGenerateTimeout,
		retention: defaultRetention,
		jobs:      make(map[string]*Job),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Available reports whether a provider is configured.
func (m *Manager) Available() bool {
	return m != nil && m.provider != nil
}

// JobID derives the content-addressed identifier for a company/period pair.
func JobID(company, period string) string {
	sum := sha256.Sum256([]byte(company + "|" + period))
	return hex.EncodeToString(sum[:])
}

// Submit starts (or reuses) a narrative job for the result. The returned ID
// is stable for identical company/period inputs; a previously failed job is
// retried.
func (m *Manager) Submit(ctx context.Context, result *analysis.Result) (string, error) {
	if !m.Available() {
		return "", apperror.NewExternalService("narrative provider", errors.New("not configured"))
	}

	id := JobID(result.Company, result.Period)

	m.mu.Lock()
	m.sweepLocked()
	if job, ok := m.jobs[id]; ok && job.Status != StatusFailed {
		m.mu.Unlock()
		return id, nil
	}
	job := &Job{
		ID:        id,
		Company:   result.Company,
		Period:    result.Period,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}
	m.jobs[id] = job
	m.mu.Unlock()

	// The job outlives the submitting request.
	go m.run(id, BuildPrompt(result))

	return id, nil
}

// Status returns a snapshot of the job.
func (m *Manager) Status(id string) (Job, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

// Narrative returns the completed text for a company/period, if any.
func (m *Manager) Narrative(company, period string) (string, bool) {
	job, ok := m.Status(JobID(company, period))
	if !ok || job.Status != StatusCompleted {
		return "", false
	}
	return job.Narrative, true
}

func (m *Manager) run(id, prompt string) {
	m.setStatus(id, StatusRunning)

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	text, err := m.provider.Generate(ctx, prompt)

	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return
	}
	job.CompletedAt = time.Now()
	if err != nil {
		job.Status = StatusFailed
		job.Error = err.Error()
		logger.Warn(ctx, "narrative generation failed",
			"job_id", id, "provider", m.provider.Name(), "error", err)
		return
	}
	job.Status = StatusCompleted
	job.Narrative = text
}

func (m *Manager) setStatus(id string, status Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if job, ok := m.jobs[id]; ok {
		job.Status = status
	}
}

// sweepLocked drops finished jobs past retention. Caller holds mu.
func (m *Manager) sweepLocked() {
	cutoff := time.Now().Add(-m.retention)
	for id, job := range m.jobs {
		done := job.Status == StatusCompleted || job.Status == StatusFailed
		if done && job.CompletedAt.Before(cutoff) {
			delete(m.jobs, id)
		}
	}
}
