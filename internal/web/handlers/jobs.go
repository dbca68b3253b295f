package handlers

import (
	"context"
	"sync"
	"time"

	"emoscan/internal/constants"
	"emoscan/internal/processor"
)

// JobStatus represents the status of an async processing job.
type JobStatus string

// JobStatus constants define the lifecycle states of an async job.
const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// ProcessJob represents an async video processing run.
type ProcessJob struct {
	EventBroadcaster

	ID              string            `json:"id"`
	Input           string            `json:"input"`
	Status          JobStatus         `json:"status"`
	FramesProcessed int               `json:"frames_processed"`
	Error           string            `json:"error,omitempty"`
	StartedAt       time.Time         `json:"started_at"`
	CompletedAt     *time.Time        `json:"completed_at,omitempty"`
	Result          *processor.Result `json:"result,omitempty"`
}

// GetStatus returns the current job status (implements SSEJob).
func (j *ProcessJob) GetStatus() JobStatus {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.Status
}

// SetStatus transitions the job to a new status.
func (j *ProcessJob) SetStatus(status JobStatus) {
	j.mu.Lock()
	j.Status = status
	j.mu.Unlock()
}

// SetProgress records the running frame count.
func (j *ProcessJob) SetProgress(frames int) {
	j.mu.Lock()
	j.FramesProcessed = frames
	j.mu.Unlock()
}

// Finish records the terminal result of the run.
func (j *ProcessJob) Finish(status JobStatus, result *processor.Result, errMsg string) {
	now := time.Now()
	j.mu.Lock()
	j.Status = status
	j.Result = result
	j.Error = errMsg
	j.CompletedAt = &now
	if result != nil {
		j.FramesProcessed = result.FramesProcessed
	}
	j.mu.Unlock()
}

// JobSnapshot is a point-in-time copy of a job's state, safe to serialize
// while the run keeps mutating the job.
type JobSnapshot struct {
	ID              string            `json:"id"`
	Input           string            `json:"input"`
	Status          JobStatus         `json:"status"`
	FramesProcessed int               `json:"frames_processed"`
	Error           string            `json:"error,omitempty"`
	StartedAt       time.Time         `json:"started_at"`
	CompletedAt     *time.Time        `json:"completed_at,omitempty"`
	Result          *processor.Result `json:"result,omitempty"`
}

// Snapshot copies the job state under the lock.
func (j *ProcessJob) Snapshot() JobSnapshot {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return JobSnapshot{
		ID:              j.ID,
		Input:           j.Input,
		Status:          j.Status,
		FramesProcessed: j.FramesProcessed,
		Error:           j.Error,
		StartedAt:       j.StartedAt,
		CompletedAt:     j.CompletedAt,
		Result:          j.Result,
	}
}

// Cancel cancels the processing job.
func (j *ProcessJob) Cancel() {
	j.EventBroadcaster.Cancel()
	j.SetStatus(JobStatusCancelled)
}

// JobEvent represents an event from a job.
type JobEvent struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// EventBroadcaster provides listener management and event broadcasting for async jobs.
// Embed this in job structs to get AddListener, RemoveListener, and SendEvent methods.
type EventBroadcaster struct {
	cancel    context.CancelFunc
	listeners []chan JobEvent
	mu        sync.RWMutex
}

// AddListener adds an event listener.
func (b *EventBroadcaster) AddListener() chan JobEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan JobEvent, constants.EventChannelBuffer)
	b.listeners = append(b.listeners, ch)
	return ch
}

// RemoveListener removes an event listener.
func (b *EventBroadcaster) RemoveListener(ch chan JobEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, listener := range b.listeners {
		if listener == ch {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			close(ch)
			return
		}
	}
}

// SendEvent sends an event to all listeners.
func (b *EventBroadcaster) SendEvent(event JobEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, listener := range b.listeners {
		select {
		case listener <- event:
		default:
			// Listener buffer full, skip.
		}
	}
}

// Cancel cancels the job via context and sends a cancelled event.
func (b *EventBroadcaster) Cancel() {
	if b.cancel != nil {
		b.cancel()
	}
	b.SendEvent(JobEvent{Type: "cancelled", Message: "Job cancelled by user"})
}

// SSEJob is the interface required by streamSSEEvents to stream job events via SSE.
type SSEJob interface {
	AddListener() chan JobEvent
	RemoveListener(ch chan JobEvent)
	GetStatus() JobStatus
}

// JobManager manages async processing jobs.
type JobManager struct {
	jobs map[string]*ProcessJob
	mu   sync.RWMutex
}

// NewJobManager creates a new job manager.
func NewJobManager() *JobManager {
	return &JobManager{
		jobs: make(map[string]*ProcessJob),
	}
}

// CreateJob creates a new processing job bound to a cancel function.
func (m *JobManager) CreateJob(id, input string, cancel context.CancelFunc) *ProcessJob {
	job := &ProcessJob{
		ID:        id,
		Input:     input,
		Status:    JobStatusPending,
		StartedAt: time.Now(),
	}
	job.cancel = cancel

	m.mu.Lock()
	m.jobs[id] = job
	m.mu.Unlock()

	return job
}

// GetJob retrieves a job by ID.
func (m *JobManager) GetJob(id string) *ProcessJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.jobs[id]
}

// DeleteJob removes a job.
func (m *JobManager) DeleteJob(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.jobs, id)
}

// ListJobs returns all jobs.
func (m *JobManager) ListJobs() []*ProcessJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	jobs := make([]*ProcessJob, 0, len(m.jobs))
	for _, job := range m.jobs {
		jobs = append(jobs, job)
	}
	return jobs
}
