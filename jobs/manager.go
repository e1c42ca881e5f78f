package jobs

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"timervid/types"
)

// ErrJobNotFound is returned for unknown job IDs
var ErrJobNotFound = errors.New("job not found")

// State is the lifecycle position of a render job
type State string

const (
	StateQueued    State = "queued"
	StateRendering State = "rendering"
	StateDone      State = "done"
	StateFailed    State = "failed"
	StateSkipped   State = "skipped"
)

// LogEntry is a single log line with timestamp
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	JobID     string    `json:"job_id,omitempty"`
	Message   string    `json:"message"`
}

// Job is a snapshot of one render request
type Job struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Kind      types.TimerKind     `json:"kind"`
	State     State               `json:"state"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
	Result    *types.RenderResult `json:"result,omitempty"`
	Error     string              `json:"error,omitempty"`
}

// RunFunc performs the work of a job
type RunFunc func(ctx context.Context, req types.RenderRequest) (types.RenderResult, error)

// Manager holds render jobs with thread-safe access
type Manager struct {
	mu sync.RWMutex

	jobs map[string]*Job

	// Logs (ring buffer)
	logs    []LogEntry
	maxLogs int

	wg  sync.WaitGroup
	now func() time.Time
}

// NewManager creates a job manager keeping the last maxLogs log entries
func NewManager(maxLogs int) *Manager {
	if maxLogs <= 0 {
		maxLogs = 50
	}
	return &Manager{
		jobs:    make(map[string]*Job),
		logs:    make([]LogEntry, 0),
		maxLogs: maxLogs,
		now:     time.Now,
	}
}

// Create registers a queued job. The request ID is used when present,
// otherwise a new UUID is assigned and written back into req.
func (m *Manager) Create(req *types.RenderRequest) Job {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	job := &Job{
		ID:        req.ID,
		Name:      req.Name(),
		Kind:      req.Kind,
		State:     StateQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.jobs[job.ID] = job
	m.addLogLocked(job.ID, fmt.Sprintf("Queued %s timer %q", req.Kind, job.Name))
	return *job
}

// Submit creates a job and runs it in the background
func (m *Manager) Submit(ctx context.Context, req types.RenderRequest, run RunFunc) Job {
	job := m.Create(&req)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := m.SetState(job.ID, StateRendering); err != nil {
			return
		}
		result, err := run(ctx, req)
		_ = m.Finish(job.ID, result, err)
	}()

	return job
}

// Wait blocks until all submitted jobs have finished
func (m *Manager) Wait() {
	m.wg.Wait()
}

// SetState moves a job to state
func (m *Manager) SetState(id string, state State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	job.State = state
	job.UpdatedAt = m.now()
	m.addLogLocked(id, fmt.Sprintf("%s: %s", job.Name, state))
	return nil
}

// Finish stores the outcome of a job
func (m *Manager) Finish(id string, result types.RenderResult, err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}

	switch {
	case err != nil:
		job.State = StateFailed
		job.Error = err.Error()
	case result.Status == types.StatusSkipped:
		job.State = StateSkipped
	case result.Status == types.StatusFailed:
		job.State = StateFailed
		job.Error = result.Error
	default:
		job.State = StateDone
	}
	if result.Status != "" {
		r := result
		job.Result = &r
	}
	job.UpdatedAt = m.now()

	if job.Error != "" {
		m.addLogLocked(id, fmt.Sprintf("Error: %s: %s", job.Name, job.Error))
	} else {
		m.addLogLocked(id, fmt.Sprintf("%s: %s", job.Name, job.State))
	}
	return nil
}

// Get returns a snapshot of one job
func (m *Manager) Get(id string) (Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, ok := m.jobs[id]
	if !ok {
		return Job{}, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	return *job, nil
}

// List returns all jobs, newest first
func (m *Manager) List() []Job {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Job, 0, len(m.jobs))
	for _, j := range m.jobs {
		out = append(out, *j)
	}
	sort.Slice(out, func(i, k int) bool {
		if out[i].CreatedAt.Equal(out[k].CreatedAt) {
			return out[i].ID < out[k].ID
		}
		return out[i].CreatedAt.After(out[k].CreatedAt)
	})
	return out
}

// AddLog adds a log entry (thread-safe)
func (m *Manager) AddLog(jobID, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addLogLocked(jobID, message)
}

// Logs returns a copy of the log ring buffer, oldest first
func (m *Manager) Logs() []LogEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]LogEntry{}, m.logs...)
}

// must hold lock
func (m *Manager) addLogLocked(jobID, message string) {
	m.logs = append(m.logs, LogEntry{
		Timestamp: m.now(),
		JobID:     jobID,
		Message:   message,
	})
	if len(m.logs) > m.maxLogs {
		m.logs = m.logs[len(m.logs)-m.maxLogs:]
	}
}
