package queue

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", n, err)
		}
	}
}

func titles(q *Queue) []string {
	var out []string
	for _, img := range q.images {
		out = append(out, img.Title)
	}
	return out
}

func TestFromDirListsSupportedSiblingsSorted(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.png", "A.jpg", "notes.txt", ".hidden.png", "c.mp3", "d.wav")
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	q, err := FromDir(filepath.Join(dir, "b.png"))
	if err != nil {
		t.Fatalf("FromDir() unexpected error: %v", err)
	}
	got := titles(q)
	want := []string{"A.jpg", "b.png", "c.mp3"}
	if len(got) != len(want) {
		t.Fatalf("titles = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("titles = %v, want %v", got, want)
		}
	}
	if q.CurrentIndex() != 1 || q.Current().Title != "b.png" {
		t.Fatalf("current = %d (%v), want b.png", q.CurrentIndex(), q.Current())
	}
}

func TestFromDirKeepsUnlistedInput(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.png", "picture")
	q, err := FromDir(filepath.Join(dir, "picture"))
	if err != nil {
		t.Fatalf("FromDir() unexpected error: %v", err)
	}
	if q.Len() != 2 || q.Current().Title != "picture" {
		t.Fatalf("titles = %v, current %v, want the input first", titles(q), q.Current())
	}
}

func TestAdvanceAndPreviousWrap(t *testing.T) {
	q := New([]Image{{Title: "a"}, {Title: "b"}, {Title: "c"}})
	if !q.Advance() || q.Current().Title != "b" {
		t.Fatalf("after Advance current = %v, want b", q.Current())
	}
	q.Advance()
	q.Advance()
	if q.Current().Title != "a" {
		t.Fatalf("expected wrap to a, got %v", q.Current())
	}
	if !q.Previous() || q.Current().Title != "c" {
		t.Fatalf("expected Previous to wrap to c, got %v", q.Current())
	}
}

func TestSingleImageDoesNotMove(t *testing.T) {
	q := New([]Image{{Title: "only"}})
	if q.Advance() || q.Previous() {
		t.Fatal("expected no movement with a single image")
	}
	if New(nil).Current() != nil {
		t.Fatal("expected nil current for empty queue")
	}
}

func TestStepSkipsFailedImages(t *testing.T) {
	q := New([]Image{{Title: "a"}, {Title: "b"}, {Title: "c"}, {Title: "d"}})
	q.SetState(1, Failed)
	q.SetState(9, Failed)

	if !q.Advance() || q.Current().Title != "c" {
		t.Fatalf("Advance = %v, want c past the failed b", q.Current())
	}
	q.Previous()
	if q.Current().Title != "a" {
		t.Fatalf("Previous = %v, want a past the failed b", q.Current())
	}
	if q.Failed() != 1 {
		t.Fatalf("Failed() = %d, want 1", q.Failed())
	}
}

func TestStepStopsWhenOthersFailed(t *testing.T) {
	q := New([]Image{{Title: "a"}, {Title: "b", State: Failed}, {Title: "c", State: Failed}})
	if q.Advance() || q.Previous() {
		t.Fatal("expected no movement when every other image failed")
	}
	if q.Current().Title != "a" {
		t.Fatalf("current = %v, want a", q.Current())
	}
}
