// Package jobs tracks the lifecycle of extraction jobs.
package jobs

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/jjones1stptllc/titlegrab-desktop/constants"
	"github.com/jjones1stptllc/titlegrab-desktop/internal/llm"
)

// Job is one document-extraction request and its state.
type Job struct {
	ID        string                 `json:"id"`
	Filename  string                 `json:"filename"`
	Status    constants.JobStatus    `json:"status"`
	CreatedAt time.Time              `json:"createdAt"`
	Result    *llm.ExtractedDocument `json:"result,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// Store is the storage seam under the registry so tests can use the
// in-memory implementation and deployments can opt into sqlite.
type Store interface {
	Put(job Job) error
	Get(id string) (Job, bool, error)
	List() ([]Job, error)
	Count() (int, error)
}

// Registry is the service the pipeline and API talk to.
type Registry struct {
	store  Store
	logger *slog.Logger
}

func NewRegistry(store Store, logger *slog.Logger) *Registry {
	if store == nil {
		store = NewMemoryStore(0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{store: store, logger: logger}
}

// Create registers a new job in processing state.
func (r *Registry) Create(id, filename string) (Job, error) {
	job := Job{
		ID:        id,
		Filename:  filename,
		Status:    constants.JobStatusProcessing,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.store.Put(job); err != nil {
		return Job{}, fmt.Errorf("create job %s: %w", id, err)
	}
	return job, nil
}

// Get returns a job by id.
func (r *Registry) Get(id string) (Job, bool, error) {
	return r.store.Get(id)
}

// SetStatus updates the lifecycle state of a job.
func (r *Registry) SetStatus(id string, status constants.JobStatus) error {
	return r.update(id, func(j *Job) { j.Status = status })
}

// SetResult stores the structured result and marks the job complete.
func (r *Registry) SetResult(id string, result *llm.ExtractedDocument) error {
	return r.update(id, func(j *Job) {
		j.Status = constants.JobStatusComplete
		j.Result = result
	})
}

// SetError records the failure message and marks the job failed.
func (r *Registry) SetError(id string, msg string) error {
	return r.update(id, func(j *Job) {
		j.Status = constants.JobStatusFailed
		j.Error = msg
	})
}

// List returns all known jobs, newest first.
func (r *Registry) List() ([]Job, error) {
	out, err := r.store.List()
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Count returns the number of tracked jobs.
func (r *Registry) Count() int {
	n, err := r.store.Count()
	if err != nil {
		r.logger.Warn("jobs.count_failed", "error", err)
		return 0
	}
	return n
}

func (r *Registry) update(id string, mutate func(*Job)) error {
	job, ok, err := r.store.Get(id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("job %s not found", id)
	}
	mutate(&job)
	return r.store.Put(job)
}

// MemoryStore is a mutex-guarded map with bounded retention: when the
// entry count exceeds the cap, the oldest terminal jobs are evicted.
// Active jobs are never evicted.
type MemoryStore struct {
	mu      sync.RWMutex
	max     int
	entries map[string]Job
}

const defaultMaxEntries = 1000

func NewMemoryStore(maxEntries int) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	return &MemoryStore{max: maxEntries, entries: make(map[string]Job)}
}

func (s *MemoryStore) Put(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[job.ID] = job
	s.evictLocked()
	return nil
}

func (s *MemoryStore) Get(id string) (Job, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.entries[id]
	return job, ok, nil
}

func (s *MemoryStore) List() ([]Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Job, 0, len(s.entries))
	for _, j := range s.entries {
		out = append(out, j)
	}
	return out, nil
}

func (s *MemoryStore) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

func (s *MemoryStore) evictLocked() {
	if len(s.entries) <= s.max {
		return
	}
	var terminal []Job
	for _, j := range s.entries {
		if j.Status.IsTerminal() {
			terminal = append(terminal, j)
		}
	}
	sort.Slice(terminal, func(i, j int) bool {
		return terminal[i].CreatedAt.Before(terminal[j].CreatedAt)
	})
	for _, j := range terminal {
		if len(s.entries) <= s.max {
			return
		}
		delete(s.entries, j.ID)
	}
}
