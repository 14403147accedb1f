// Package learning is the single API surface for the course engine. It
// wires the catalog loader, course organizer, progress store and sign
// resolver together and owns their initialization order.
package learning

import (
	"context"
	"log/slog"
	"sync"

	"github.com/handspeak/handspeak/internal/assets"
	"github.com/handspeak/handspeak/internal/catalog"
	"github.com/handspeak/handspeak/internal/progress"
	"github.com/handspeak/handspeak/internal/resolver"
)

// Service composes the course engine. Construct one per process with
// NewService and call Start before serving queries.
type Service struct {
	assets *assets.Resolver
	store  *progress.Store
	feed   *Feed

	mu           sync.RWMutex
	signs        []catalog.Sign
	courses      []catalog.Course
	res          *resolver.Resolver
	catalogDone  bool
	progressDone bool
	loadErr      error
}

// NewService creates the facade over the given asset resolver and
// progress store.
func NewService(res *assets.Resolver, store *progress.Store) *Service {
	return &Service{
		assets: res,
		store:  store,
		feed:   NewFeed(),
	}
}

// Start loads the catalog and persisted progress. The two loads are
// independent and run concurrently; courses only become visible once the
// whole catalog is organized, never half-merged. A structurally invalid
// source leaves the service in an error state with empty courses.
func (s *Service) Start(ctx context.Context, categories []catalog.Category, sources ...catalog.Source) error {
	progressDone := make(chan struct{})
	go func() {
		defer close(progressDone)
		s.store.Load(ctx)
	}()

	signs, err := catalog.LoadSources(s.assets, sources...)

	s.mu.Lock()
	if err != nil {
		s.loadErr = err
	} else {
		s.signs = signs
		s.courses = catalog.Organize(signs, categories)
		s.res = resolver.New(s.assets, signs)
	}
	s.catalogDone = true
	s.mu.Unlock()

	<-progressDone
	s.mu.Lock()
	s.progressDone = true
	s.mu.Unlock()

	if err != nil {
		slog.Error("catalog load failed, courses unavailable", "error", err)
		return err
	}
	slog.Info("course engine ready", "signs", len(signs), "courses", len(categories))
	return nil
}

// Loading reports whether either the catalog or persisted progress is
// still being loaded.
func (s *Service) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !(s.catalogDone && s.progressDone)
}

// Err returns the catalog load error, if any.
func (s *Service) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// Courses returns every course, including empty ones.
func (s *Service) Courses() []catalog.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.courses
}

// Signs returns the flat catalog, including signs outside any course.
func (s *Service) Signs() []catalog.Sign {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.signs
}

// SignByWord resolves free text to a sign. Nil means the query was empty.
func (s *Service) SignByWord(word string) *catalog.Sign {
	s.mu.RLock()
	res := s.res
	s.mu.RUnlock()
	if res == nil {
		return nil
	}
	return res.Resolve(word)
}

// SignsByCategory returns the catalog signs in a category, in catalog
// order.
func (s *Service) SignsByCategory(category string) []catalog.Sign {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []catalog.Sign
	for _, sign := range s.signs {
		if sign.Category == category {
			out = append(out, sign)
		}
	}
	return out
}

// CourseProgress returns the completion summary for a course.
func (s *Service) CourseProgress(courseID string) progress.CourseProgress {
	s.mu.RLock()
	courses := s.courses
	s.mu.RUnlock()
	return s.store.Progress(courseID, courses)
}

// MarkSignCompleted records a completion and notifies subscribers. The
// return value is false only when the durable write failed; the session
// state is updated regardless.
func (s *Service) MarkSignCompleted(ctx context.Context, signID string) bool {
	created, persisted := s.store.MarkCompleted(ctx, signID)
	if created {
		s.feed.Publish(Event{Type: EventSignCompleted, SignID: signID})
	}
	return persisted
}

// ResetProgress clears all completion state.
func (s *Service) ResetProgress(ctx context.Context) {
	s.store.ResetAll(ctx)
	s.feed.Publish(Event{Type: EventProgressReset})
}

// Subscribe registers a live progress event subscriber.
func (s *Service) Subscribe() chan Event {
	return s.feed.Subscribe()
}

// Unsubscribe removes a subscriber registered with Subscribe.
func (s *Service) Unsubscribe(ch chan Event) {
	s.feed.Unsubscribe(ch)
}

func (s *Service) courseByID(courseID string) (catalog.Course, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.courses {
		if c.ID == courseID {
			return c, true
		}
	}
	return catalog.Course{}, false
}
