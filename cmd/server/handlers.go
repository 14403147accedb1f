package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"

	"github.com/handspeak/handspeak/internal/assets"
	"github.com/handspeak/handspeak/internal/catalog"
	"github.com/handspeak/handspeak/internal/learning"
)

type server struct {
	svc       *learning.Service
	failCache *assets.FailCache
}

// newMux creates the HTTP router.
func newMux(s *server) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)

	mux.HandleFunc("GET /api/courses", s.handleCourses)
	mux.HandleFunc("GET /api/courses/{id}/progress", s.handleCourseProgress)
	mux.HandleFunc("GET /api/courses/{id}/quiz", s.handleQuiz)
	mux.HandleFunc("GET /api/courses/{id}/flashcards", s.handleFlashcards)
	mux.HandleFunc("GET /api/signs", s.handleResolveSign)
	mux.HandleFunc("GET /api/signs/category/{id}", s.handleSignsByCategory)
	mux.HandleFunc("POST /api/progress/{signId}", s.handleMarkCompleted)
	mux.HandleFunc("DELETE /api/progress", s.handleResetProgress)
	mux.HandleFunc("GET /api/progress/watch", s.handleWatchProgress)
	mux.HandleFunc("POST /api/assets/failures", s.handleReportFailedURL)

	return mux
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	switch {
	case s.svc.Err() != nil:
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "error",
			"error":  s.svc.Err().Error(),
		})
	case s.svc.Loading():
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "loading"})
	default:
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func (s *server) handleCourses(w http.ResponseWriter, r *http.Request) {
	courses := s.svc.Courses()
	if courses == nil {
		courses = []catalog.Course{}
	}
	writeJSON(w, http.StatusOK, courses)
}

func (s *server) handleCourseProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.CourseProgress(r.PathValue("id")))
}

func (s *server) handleQuiz(w http.ResponseWriter, r *http.Request) {
	questions := s.svc.QuizQuestions(r.PathValue("id"))
	if questions == nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

func (s *server) handleFlashcards(w http.ResponseWriter, r *http.Request) {
	cards := s.svc.Flashcards(r.PathValue("id"))
	if cards == nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (s *server) handleResolveSign(w http.ResponseWriter, r *http.Request) {
	word := r.URL.Query().Get("word")
	sign := s.svc.SignByWord(word)
	if sign == nil {
		http.Error(w, `{"error":"word query parameter is required"}`, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, sign)
}

func (s *server) handleSignsByCategory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.SignsByCategory(r.PathValue("id")))
}

func (s *server) handleMarkCompleted(w http.ResponseWriter, r *http.Request) {
	ok := s.svc.MarkSignCompleted(r.Context(), r.PathValue("signId"))
	writeJSON(w, http.StatusOK, map[string]bool{"persisted": ok})
}

func (s *server) handleResetProgress(w http.ResponseWriter, r *http.Request) {
	s.svc.ResetProgress(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleReportFailedURL(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.URL == "" {
		http.Error(w, `{"error":"url is required"}`, http.StatusBadRequest)
		return
	}
	s.failCache.ReportFailure(r.Context(), body.URL)
	w.WriteHeader(http.StatusNoContent)
}

// handleWatchProgress streams progress events over a websocket until the
// client disconnects.
func (s *server) handleWatchProgress(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		slog.Warn("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	events := s.svc.Subscribe()
	defer s.svc.Unsubscribe(events)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusGoingAway, "server shutting down")
			return
		case ev, open := <-events:
			if !open {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
				return
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encoding response", "error", err)
	}
}
