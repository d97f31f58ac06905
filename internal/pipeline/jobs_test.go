package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/dgallion1/deckgest/internal/deck"
	"github.com/dgallion1/deckgest/internal/present"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestContentHashHex_DifferentInputs(t *testing.T) {
	if ContentHashHex([]byte("aaa")) == ContentHashHex([]byte("bbb")) {
		t.Error("expected different hashes for different inputs")
	}
}

func TestNewJob(t *testing.T) {
	a, b := NewJob(), NewJob()
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("expected unique non-empty IDs, got %q and %q", a.ID, b.ID)
	}
	if len(a.ID) != 36 {
		t.Errorf("expected uuid job id, got %q", a.ID)
	}
	if a.Status != StatusQueued {
		t.Errorf("expected queued status, got %q", a.Status)
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := NewJob()

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusConverting, "converting"},
		{StatusBuilding, "building"},
		{StatusPublishing, "publishing"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		snap := job.Snapshot()
		if snap.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, snap.Status)
		}
		if snap.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, snap.Phase)
		}
		if !snap.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJob_Fail(t *testing.T) {
	job := NewJob()
	job.Fail("converting", errors.New("unsupported file type"))

	snap := job.Snapshot()
	if snap.Status != StatusFailed || snap.Phase != "converting" {
		t.Fatalf("expected failed/converting, got %s/%s", snap.Status, snap.Phase)
	}
	if len(snap.Errors) != 1 || snap.Errors[0] != "unsupported file type" {
		t.Fatalf("unexpected errors: %v", snap.Errors)
	}
}

func TestJob_SnapshotWithResult(t *testing.T) {
	job := NewJob()
	job.SetResult(Result{
		Deck:           deck.Deck{{Heading: "Intro", Body: deck.DefaultPlaceholderBody}},
		Source:         deck.SourceFallback,
		TargetCount:    2,
		Sections:       []deck.Section{{Heading: "Intro", Body: []string{"Hello"}}},
		FallbackReason: errors.New("summarize: timeout"),
	})
	job.SetPublication(present.Publication{PresentationID: "p1", URL: "https://x/view/t", Slides: 1})

	snap := job.Snapshot()
	if snap.Source != deck.SourceFallback || snap.TargetCount != 2 || snap.SectionCount != 1 {
		t.Fatalf("unexpected result fields: %+v", snap)
	}
	if len(snap.Slides) != 1 || snap.Slides[0].Heading != "Intro" {
		t.Fatalf("unexpected slides: %v", snap.Slides)
	}
	if snap.FallbackReason != "summarize: timeout" {
		t.Fatalf("unexpected fallback reason %q", snap.FallbackReason)
	}
	if snap.Publication == nil || snap.Publication.URL != "https://x/view/t" {
		t.Fatalf("unexpected publication %+v", snap.Publication)
	}

	// Snapshot must not alias job state.
	snap.Slides[0].Heading = "changed"
	if job.Snapshot().Slides[0].Heading != "Intro" {
		t.Fatal("snapshot slides alias the job result")
	}
}

func TestJob_SetTitleKeepsExplicitTitle(t *testing.T) {
	job := NewJob()
	job.Title = "Given"
	job.SetTitle("From Document")
	if job.Snapshot().Title != "Given" {
		t.Fatalf("explicit title was replaced")
	}

	other := NewJob()
	other.SetTitle("From Document")
	if other.Snapshot().Title != "From Document" {
		t.Fatalf("document title not applied")
	}
}

func TestJob_FileData(t *testing.T) {
	job := NewJob()
	data := []byte("file content here")
	job.SetFileData(data)
	if string(job.FileData()) != string(data) {
		t.Errorf("expected file data %q, got %q", data, job.FileData())
	}
	job.releaseFileData()
	if job.FileData() != nil {
		t.Error("expected file data to be released")
	}
}

func TestJob_SnapshotEmptySlices(t *testing.T) {
	snap := NewJob().Snapshot()
	if snap.Errors == nil || snap.Slides == nil {
		t.Error("expected non-nil errors and slides in snapshot")
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := NewJob()
	store.Put(job)

	got := store.Get(job.ID)
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 job, got %d", store.Len())
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := NewJob()
	store.Put(expired)

	time.Sleep(100 * time.Millisecond)

	fresh := NewJob()
	store.Put(fresh)

	store.Cleanup()

	if store.Get(expired.ID) != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get(fresh.ID) == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestJobStore_CleanupEmpty(t *testing.T) {
	store := NewJobStore(time.Hour)
	store.Cleanup()
}
