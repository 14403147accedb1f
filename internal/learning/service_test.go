package learning_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/handspeak/handspeak/internal/assets"
	"github.com/handspeak/handspeak/internal/catalog"
	"github.com/handspeak/handspeak/internal/learning"
	"github.com/handspeak/handspeak/internal/platform/kvstore"
	"github.com/handspeak/handspeak/internal/progress"
)

var testCategories = []catalog.Category{
	{ID: "alphabet", Title: "Alphabet"},
	{ID: "conversation", Title: "Starting a conversation"},
	{ID: "numbers", Title: "Numbers"},
}

var testRecords = []catalog.RawSign{
	{Word: "A", Category: "alphabet", VideoURL: "https://x/a.mp4"},
	{Word: "B", Category: "alphabet", VideoURL: "https://x/b.mp4"},
	{Word: "Hello", Category: "conversation", VideoURL: "https://x/hello.mp4"},
	{Word: "Thank you", Category: "conversation", VideoURL: "https://x/ty.mp4"},
	{Word: "Stray", Category: "uncategorized", VideoURL: "https://x/stray.mp4"},
}

func startedService(t *testing.T, kv kvstore.KV) *learning.Service {
	t.Helper()
	svc := learning.NewService(
		assets.NewResolver(assets.DefaultConfig()),
		progress.NewStore(kv),
	)
	err := svc.Start(context.Background(), testCategories, catalog.FromRecords(testRecords))
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return svc
}

func TestService_StartLoadsCatalog(t *testing.T) {
	svc := startedService(t, kvstore.NewMemory())

	if svc.Loading() {
		t.Error("Loading() = true after Start returned")
	}
	if svc.Err() != nil {
		t.Errorf("Err() = %v, want nil", svc.Err())
	}

	courses := svc.Courses()
	if len(courses) != len(testCategories) {
		t.Fatalf("Courses() = %d, want %d", len(courses), len(testCategories))
	}
	if courses[0].TotalChapters != 2 {
		t.Errorf("alphabet TotalChapters = %d, want 2", courses[0].TotalChapters)
	}
	// The numbers category has no signs but still appears.
	if courses[2].ID != "numbers" || courses[2].TotalChapters != 0 {
		t.Errorf("empty course = %+v, want numbers with 0 chapters", courses[2])
	}
}

func TestService_StartWithInvalidSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"not": "an array"}`), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	svc := learning.NewService(
		assets.NewResolver(assets.DefaultConfig()),
		progress.NewStore(kvstore.NewMemory()),
	)
	err := svc.Start(context.Background(), testCategories, catalog.FromJSONFile(path))
	if err == nil {
		t.Fatal("Start() should fail on invalid source")
	}

	if svc.Err() == nil {
		t.Error("Err() = nil, want load error surfaced")
	}
	if svc.Loading() {
		t.Error("Loading() = true, want false even after failed load")
	}
	if got := svc.Courses(); len(got) != 0 {
		t.Errorf("Courses() = %d, want none in error state", len(got))
	}
}

func TestService_SignByWord(t *testing.T) {
	svc := startedService(t, kvstore.NewMemory())

	got := svc.SignByWord("hello")
	if got == nil || got.Word != "Hello" {
		t.Errorf("SignByWord(hello) = %+v, want the Hello sign", got)
	}

	if got := svc.SignByWord("  "); got != nil {
		t.Errorf("SignByWord(blank) = %+v, want nil", got)
	}
}

func TestService_SynthesizedSignStaysOutOfCourses(t *testing.T) {
	svc := startedService(t, kvstore.NewMemory())

	got := svc.SignByWord("zzz-unknown-word")
	if got == nil || got.VideoURL == "" {
		t.Fatalf("SignByWord(unknown) = %+v, want synthesized sign with URL", got)
	}

	for _, course := range svc.Courses() {
		for _, sign := range course.Signs {
			if sign.SignID == got.SignID {
				t.Fatalf("synthesized sign %s leaked into course %s", sign.SignID, course.ID)
			}
		}
	}
	for _, sign := range svc.Signs() {
		if sign.SignID == got.SignID {
			t.Fatal("synthesized sign leaked into the flat catalog")
		}
	}
}

func TestService_SignsByCategory(t *testing.T) {
	svc := startedService(t, kvstore.NewMemory())

	// Signs with an unknown category are outside every course but still
	// reachable by direct category query.
	got := svc.SignsByCategory("uncategorized")
	if len(got) != 1 || got[0].Word != "Stray" {
		t.Errorf("SignsByCategory(uncategorized) = %+v, want the Stray sign", got)
	}
}

func TestService_ProgressRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := startedService(t, kvstore.NewMemory())

	signs := svc.SignsByCategory("alphabet")
	if !svc.MarkSignCompleted(ctx, signs[0].SignID) {
		t.Fatal("MarkSignCompleted() = false")
	}

	cp := svc.CourseProgress("alphabet")
	if cp.Completed != 1 || cp.Total != 2 || cp.Percentage != 50 {
		t.Errorf("CourseProgress = %+v, want 1/2 = 50%%", cp)
	}

	svc.ResetProgress(ctx)
	for _, course := range svc.Courses() {
		if got := svc.CourseProgress(course.ID); got.Completed != 0 {
			t.Errorf("course %s Completed = %d after reset, want 0", course.ID, got.Completed)
		}
	}
}

func TestService_ProgressSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()

	first := startedService(t, kv)
	signs := first.SignsByCategory("alphabet")
	first.MarkSignCompleted(ctx, signs[0].SignID)

	second := startedService(t, kv)
	if got := second.CourseProgress("alphabet"); got.Completed != 1 {
		t.Errorf("restarted CourseProgress.Completed = %d, want 1", got.Completed)
	}
}

func TestService_MarkPublishesEventOnce(t *testing.T) {
	ctx := context.Background()
	svc := startedService(t, kvstore.NewMemory())

	ch := svc.Subscribe()
	defer svc.Unsubscribe(ch)

	svc.MarkSignCompleted(ctx, "a-001")
	svc.MarkSignCompleted(ctx, "a-001") // repeat, no event

	ev := <-ch
	if ev.Type != learning.EventSignCompleted || ev.SignID != "a-001" {
		t.Errorf("event = %+v, want sign_completed for a-001", ev)
	}

	select {
	case extra := <-ch:
		t.Errorf("unexpected second event %+v for repeated mark", extra)
	default:
	}
}

func TestService_ConcurrentMarksPublishOneEvent(t *testing.T) {
	ctx := context.Background()
	svc := startedService(t, kvstore.NewMemory())

	ch := svc.Subscribe()
	defer svc.Unsubscribe(ch)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.MarkSignCompleted(ctx, "a-001")
		}()
	}
	wg.Wait()

	events := 0
	for drained := false; !drained; {
		select {
		case <-ch:
			events++
		default:
			drained = true
		}
	}
	if events != 1 {
		t.Errorf("published %d events for one sign, want 1", events)
	}
}
