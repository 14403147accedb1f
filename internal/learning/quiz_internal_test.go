package learning

import (
	"testing"

	"github.com/handspeak/handspeak/internal/catalog"
)

// The catalog loader repairs every missing video URL, so a videoless sign
// only occurs in hand-assembled courses; the filter still has to hold.
func TestWithVideos_ExcludesVideolessSigns(t *testing.T) {
	signs := []catalog.Sign{
		{SignID: "red-001", Word: "Red", VideoURL: "https://x/red.mp4"},
		{SignID: "ghost-001", Word: "Ghost"},
		{SignID: "blue-001", Word: "Blue", VideoURL: "https://x/blue.mp4"},
	}

	got := withVideos(signs)
	if len(got) != 2 {
		t.Fatalf("withVideos() = %d signs, want 2", len(got))
	}
	for _, s := range got {
		if s.VideoURL == "" {
			t.Errorf("videoless sign %s kept", s.SignID)
		}
	}
}

func TestDistractors_ExcludesCorrectWord(t *testing.T) {
	pool := []catalog.Sign{
		{Word: "Red"}, {Word: "Blue"}, {Word: "Green"}, {Word: "Yellow"},
	}

	got := distractors("Red", pool, 3)
	if len(got) != 3 {
		t.Fatalf("distractors() = %d, want 3", len(got))
	}
	for _, w := range got {
		if w == "Red" {
			t.Error("correct word appeared among distractors")
		}
	}
}
