package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/handspeak/handspeak/internal/assets"
	"github.com/handspeak/handspeak/internal/catalog"
	"github.com/handspeak/handspeak/internal/learning"
	"github.com/handspeak/handspeak/internal/platform/kvstore"
	"github.com/handspeak/handspeak/internal/progress"
)

func testServer(t *testing.T) *server {
	t.Helper()

	kv := kvstore.NewMemory()
	svc := learning.NewService(
		assets.NewResolver(assets.DefaultConfig()),
		progress.NewStore(kv),
	)

	categories := []catalog.Category{
		{ID: "alphabet", Title: "Alphabet"},
		{ID: "conversation", Title: "Starting a conversation"},
	}
	records := []catalog.RawSign{
		{Word: "A", Category: "alphabet", VideoURL: "https://x/a.mp4"},
		{Word: "B", Category: "alphabet", VideoURL: "https://x/b.mp4"},
		{Word: "Hello", Category: "conversation", VideoURL: "https://x/hello.mp4"},
	}
	if err := svc.Start(context.Background(), categories, catalog.FromRecords(records)); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	return &server{svc: svc, failCache: assets.NewFailCache(kv)}
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body string, out any) int {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if out != nil && rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decoding %s %s response: %v", method, path, err)
		}
	}
	return rec.Code
}

func TestHealthEndpoints(t *testing.T) {
	mux := newMux(testServer(t))

	var health map[string]string
	if code := doJSON(t, mux, http.MethodGet, "/healthz", "", &health); code != http.StatusOK {
		t.Errorf("healthz status = %d, want 200", code)
	}
	if health["status"] != "ok" {
		t.Errorf("healthz status = %q, want ok", health["status"])
	}

	var ready map[string]string
	if code := doJSON(t, mux, http.MethodGet, "/readyz", "", &ready); code != http.StatusOK {
		t.Errorf("readyz status = %d, want 200", code)
	}
	if ready["status"] != "ready" {
		t.Errorf("readyz status = %q, want ready", ready["status"])
	}
}

func TestCoursesEndpoint(t *testing.T) {
	mux := newMux(testServer(t))

	var courses []catalog.Course
	if code := doJSON(t, mux, http.MethodGet, "/api/courses", "", &courses); code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if len(courses) != 2 {
		t.Fatalf("courses = %d, want 2", len(courses))
	}
	if courses[0].ID != "alphabet" || courses[0].TotalChapters != 2 {
		t.Errorf("first course = %+v, want alphabet with 2 chapters", courses[0])
	}
}

func TestResolveSignEndpoint(t *testing.T) {
	mux := newMux(testServer(t))

	var sign catalog.Sign
	if code := doJSON(t, mux, http.MethodGet, "/api/signs?word=hello", "", &sign); code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if sign.Word != "Hello" {
		t.Errorf("resolved word = %q, want Hello", sign.Word)
	}

	if code := doJSON(t, mux, http.MethodGet, "/api/signs", "", nil); code != http.StatusBadRequest {
		t.Errorf("missing word status = %d, want 400", code)
	}
}

func TestMarkAndCourseProgress(t *testing.T) {
	mux := newMux(testServer(t))

	var mark map[string]bool
	if code := doJSON(t, mux, http.MethodPost, "/api/progress/a-001", "", &mark); code != http.StatusOK {
		t.Fatalf("mark status = %d, want 200", code)
	}
	if !mark["persisted"] {
		t.Error("persisted = false, want true")
	}

	var cp progress.CourseProgress
	doJSON(t, mux, http.MethodGet, "/api/courses/alphabet/progress", "", &cp)
	if cp.Completed != 1 || cp.Total != 2 || cp.Percentage != 50 {
		t.Errorf("progress = %+v, want 1/2 = 50%%", cp)
	}

	if code := doJSON(t, mux, http.MethodDelete, "/api/progress", "", nil); code != http.StatusNoContent {
		t.Errorf("reset status = %d, want 204", code)
	}
	doJSON(t, mux, http.MethodGet, "/api/courses/alphabet/progress", "", &cp)
	if cp.Completed != 0 {
		t.Errorf("completed after reset = %d, want 0", cp.Completed)
	}
}

func TestQuizEndpoint(t *testing.T) {
	mux := newMux(testServer(t))

	var questions []learning.QuizQuestion
	if code := doJSON(t, mux, http.MethodGet, "/api/courses/alphabet/quiz", "", &questions); code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if len(questions) != 2 {
		t.Errorf("questions = %d, want 2", len(questions))
	}

	if code := doJSON(t, mux, http.MethodGet, "/api/courses/unknown/quiz", "", nil); code != http.StatusNotFound {
		t.Errorf("unknown course status = %d, want 404", code)
	}
}

func TestReportFailedURL(t *testing.T) {
	srv := testServer(t)
	mux := newMux(srv)

	code := doJSON(t, mux, http.MethodPost, "/api/assets/failures", `{"url":"https://x/gone.mp4"}`, nil)
	if code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", code)
	}
	if !srv.failCache.HasFailed("https://x/gone.mp4") {
		t.Error("reported URL not recorded")
	}

	if code := doJSON(t, mux, http.MethodPost, "/api/assets/failures", `{}`, nil); code != http.StatusBadRequest {
		t.Errorf("empty body status = %d, want 400", code)
	}
}

func TestWatchProgressWebsocket(t *testing.T) {
	mux := newMux(testServer(t))
	ts := httptest.NewServer(mux)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, ts.URL+"/api/progress/watch", nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer conn.CloseNow()

	// Give the handler a moment to register its subscription.
	time.Sleep(50 * time.Millisecond)

	resp, err := http.Post(ts.URL+"/api/progress/a-001", "application/json", nil)
	if err != nil {
		t.Fatalf("marking sign: %v", err)
	}
	resp.Body.Close()

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("reading event: %v", err)
	}

	var ev learning.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("decoding event: %v", err)
	}
	if ev.Type != learning.EventSignCompleted || ev.SignID != "a-001" {
		t.Errorf("event = %+v, want sign_completed for a-001", ev)
	}
}

func TestSourcesFromPaths(t *testing.T) {
	sources, err := sourcesFromPaths([]string{"a.json", "b.yaml", "c.yml", "d.xlsx"})
	if err != nil {
		t.Fatalf("sourcesFromPaths() error = %v", err)
	}
	if len(sources) != 4 {
		t.Errorf("sources = %d, want 4", len(sources))
	}

	if _, err := sourcesFromPaths([]string{"e.csv"}); err == nil {
		t.Error("sourcesFromPaths() should reject unsupported extensions")
	}
}
