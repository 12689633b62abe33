// Package registry provides the concurrency-safe store mapping
// (session, job) to live download status and, once complete, to the
// finished file's location.
package registry

import (
	"hash/fnv"
	"sync"

	"github.com/colebaker/ytfetch/internal/domain"
)

const shardCount = 16

type key struct {
	session domain.SessionID
	job     domain.JobID
}

type entry struct {
	status     domain.JobStatus
	outputPath string
	hasOutput  bool
}

type shard struct {
	mu      sync.RWMutex
	entries map[key]*entry
}

// Registry is a sharded in-memory job status store. Each job has a single
// writer (its runner goroutine), so snapshots for one key are totally
// ordered; sharding keeps unrelated jobs from contending on one lock.
type Registry struct {
	shards [shardCount]shard
}

// New creates an empty Registry.
func New() *Registry {
	r := &Registry{}
	for i := range r.shards {
		r.shards[i].entries = make(map[key]*entry)
	}
	return r
}

// Stats contains per-state job counts.
type Stats struct {
	Ready       int `json:"ready"`
	Downloading int `json:"downloading"`
	Processing  int `json:"processing"`
	Completed   int `json:"completed"`
	Errored     int `json:"errored"`
}

func (r *Registry) shardFor(k key) *shard {
	h := fnv.New32a()
	h.Write([]byte(k.session))
	h.Write([]byte{0})
	h.Write([]byte(k.job))
	return &r.shards[h.Sum32()%shardCount]
}

// Create inserts a new job entry in the ready state. A duplicate key is an
// internal invariant violation and returns ErrJobExists.
func (r *Registry) Create(sid domain.SessionID, jid domain.JobID) error {
	k := key{sid, jid}
	s := r.shardFor(k)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[k]; ok {
		return domain.ErrJobExists
	}
	s.entries[k] = &entry{status: domain.ReadyStatus()}
	return nil
}

// UpdateStatus replaces the job's status snapshot wholesale. Writes against
// a terminal snapshot are dropped, so a terminal record never mutates and a
// stale progress callback cannot resurrect old fields.
func (r *Registry) UpdateStatus(sid domain.SessionID, jid domain.JobID, status domain.JobStatus) {
	k := key{sid, jid}
	s := r.shardFor(k)

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[k]
	if !ok {
		s.entries[k] = &entry{status: status}
		return
	}
	if e.status.State.IsTerminal() {
		return
	}
	e.status = status
}

// Status returns the job's current snapshot. Querying an unknown key is not
// an error: it reports the default ready snapshot with zero progress.
func (r *Registry) Status(sid domain.SessionID, jid domain.JobID) domain.JobStatus {
	k := key{sid, jid}
	s := r.shardFor(k)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, ok := s.entries[k]; ok {
		return e.status
	}
	return domain.ReadyStatus()
}

// SetOutput records the finished file's server-local path. It is called at
// most once per job, immediately before the completed transition.
func (r *Registry) SetOutput(sid domain.SessionID, jid domain.JobID, path string) error {
	k := key{sid, jid}
	s := r.shardFor(k)

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[k]
	if !ok {
		e = &entry{status: domain.ReadyStatus()}
		s.entries[k] = e
	}
	if e.hasOutput {
		return domain.ErrOutputAlreadySet
	}
	e.outputPath = path
	e.hasOutput = true
	return nil
}

// Output returns the recorded output path for a completed job.
func (r *Registry) Output(sid domain.SessionID, jid domain.JobID) (string, error) {
	k := key{sid, jid}
	s := r.shardFor(k)

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[k]
	if !ok || !e.hasOutput {
		return "", domain.ErrOutputNotFound
	}
	return e.outputPath, nil
}

// Stats returns job counts per state across all shards.
func (r *Registry) Stats() Stats {
	var stats Stats
	for i := range r.shards {
		s := &r.shards[i]
		s.mu.RLock()
		for _, e := range s.entries {
			switch e.status.State {
			case domain.StateReady:
				stats.Ready++
			case domain.StateDownloading:
				stats.Downloading++
			case domain.StateProcessing:
				stats.Processing++
			case domain.StateCompleted:
				stats.Completed++
			case domain.StateError:
				stats.Errored++
			}
		}
		s.mu.RUnlock()
	}
	return stats
}

// Clear removes all entries (useful for testing).
func (r *Registry) Clear() {
	for i := range r.shards {
		s := &r.shards[i]
		s.mu.Lock()
		s.entries = make(map[key]*entry)
		s.mu.Unlock()
	}
}
