// Package progress tracks which signs a user has completed. The in-memory
// map is authoritative for the session; each mutation persists the whole
// map to the durable store on a best-effort basis.
package progress

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/handspeak/handspeak/internal/catalog"
	"github.com/handspeak/handspeak/internal/platform/kvstore"
)

const progressKey = "progress:signs"

// Record marks one sign as completed. Once created it is never mutated;
// repeat completions are no-ops.
type Record struct {
	Completed   bool      `json:"completed"`
	CompletedAt time.Time `json:"completedAt"`
}

// CourseProgress is the derived completion summary for one course.
type CourseProgress struct {
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// Store holds per-sign completion records.
type Store struct {
	kv kvstore.KV

	mu      sync.RWMutex
	records map[string]Record
}

// NewStore creates an empty store backed by the given durable KV.
func NewStore(kv kvstore.KV) *Store {
	return &Store{
		kv:      kv,
		records: make(map[string]Record),
	}
}

// Load populates the store from durable storage. Absent or unreadable
// data starts the session with an empty map.
func (s *Store) Load(ctx context.Context) {
	raw, found, err := s.kv.Get(ctx, progressKey)
	if err != nil {
		slog.Warn("progress unreadable, starting empty", "error", err)
		return
	}
	if !found {
		return
	}

	records := make(map[string]Record)
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		slog.Warn("stored progress corrupt, starting empty", "error", err)
		return
	}

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()
	slog.Info("progress loaded", "completed_signs", len(records))
}

// MarkCompleted records a sign as completed. It reports whether a new
// record was created and whether the durable write succeeded. Marking an
// already-completed sign creates nothing and still counts as persisted;
// a failed write leaves the in-memory record standing.
func (s *Store) MarkCompleted(ctx context.Context, signID string) (created, persisted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, done := s.records[signID]; done {
		return false, true
	}

	s.records[signID] = Record{Completed: true, CompletedAt: time.Now().UTC()}
	return true, s.persistLocked(ctx)
}

// persistLocked writes the full map to the durable store. Callers hold mu,
// so concurrent marks cannot interleave with an in-flight write.
func (s *Store) persistLocked(ctx context.Context) bool {
	data, err := json.Marshal(s.records)
	if err != nil {
		slog.Warn("marshaling progress", "error", err)
		return false
	}
	if err := s.kv.Set(ctx, progressKey, string(data)); err != nil {
		slog.Warn("persisting progress, session continues in memory", "error", err)
		return false
	}
	return true
}

// IsCompleted reports whether a sign has a completion record.
func (s *Store) IsCompleted(signID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records[signID].Completed
}

// Record returns the completion record for a sign.
func (s *Store) Record(signID string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[signID]
	return rec, ok
}

// Progress computes the completion summary for a course. An unknown
// course yields the zero value.
func (s *Store) Progress(courseID string, courses []catalog.Course) CourseProgress {
	var course *catalog.Course
	for i := range courses {
		if courses[i].ID == courseID {
			course = &courses[i]
			break
		}
	}
	if course == nil {
		return CourseProgress{}
	}

	s.mu.RLock()
	completed := 0
	for _, sign := range course.Signs {
		if s.records[sign.SignID].Completed {
			completed++
		}
	}
	s.mu.RUnlock()

	cp := CourseProgress{Completed: completed, Total: course.TotalChapters}
	if cp.Total > 0 {
		cp.Percentage = int(math.Round(float64(completed) / float64(cp.Total) * 100))
	}
	return cp
}

// ResetAll clears every completion record, in memory and durably.
func (s *Store) ResetAll(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]Record)
	if err := s.kv.Remove(ctx, progressKey); err != nil {
		slog.Warn("clearing stored progress", "error", err)
	}
}
