package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fmohsen/cvbank/internal/ai"
	"github.com/fmohsen/cvbank/internal/bank"
	"github.com/fmohsen/cvbank/internal/ingest"
)

type fakeExtractor struct {
	calls      int
	processing int
	maxActive  int
	fail       map[string]error
}

func (f *fakeExtractor) ExtractResume(_ context.Context, doc ingest.Document) (*ai.Extraction, error) {
	f.calls++
	f.processing++
	if f.processing > f.maxActive {
		f.maxActive = f.processing
	}
	defer func() { f.processing-- }()

	if err, ok := f.fail[doc.Name]; ok {
		return nil, err
	}
	return &ai.Extraction{
		Name:      "Candidate from " + doc.Name,
		Skills:    []string{"Go"},
		AISummary: "summary",
	}, nil
}

type fakeBlobStore struct {
	uploads  []string
	removals []string
	failUp   error
}

func (f *fakeBlobStore) Upload(_ context.Context, key string, _ []byte, _ string) (string, error) {
	if f.failUp != nil {
		return "", f.failUp
	}
	f.uploads = append(f.uploads, key)
	return "https://files.example.com/" + key, nil
}

func (f *fakeBlobStore) Remove(_ context.Context, key string) error {
	f.removals = append(f.removals, key)
	return nil
}

type fakeInserter struct {
	inserted []*bank.Resume
	fail     error
}

func (f *fakeInserter) InsertResume(_ context.Context, r *bank.Resume) error {
	if f.fail != nil {
		return f.fail
	}
	f.inserted = append(f.inserted, r)
	return nil
}

func newTestQueue(extractor *fakeExtractor, blobs *fakeBlobStore, records *fakeInserter, cfg Config) *Queue {
	q := New(extractor, blobs, records, cfg, nil)
	q.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return q
}

func docs(names ...string) []ingest.Document {
	out := make([]ingest.Document, 0, len(names))
	for _, name := range names {
		out = append(out, ingest.Document{Name: name, Data: []byte("data")})
	}
	return out
}

func TestRunProcessesOneItemAtATime(t *testing.T) {
	extractor := &fakeExtractor{}
	blobs := &fakeBlobStore{}
	records := &fakeInserter{}

	q := newTestQueue(extractor, blobs, records, Config{UserID: "u1"})
	q.Enqueue(docs("a.pdf", "b.pdf", "c.pdf")...)

	summary := q.Run(context.Background())

	if extractor.maxActive != 1 {
		t.Fatalf("expected at most one active extraction, saw %d", extractor.maxActive)
	}
	if summary.Added != 3 || summary.Failed != 0 || !summary.Done {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(records.inserted) != 3 {
		t.Fatalf("expected 3 inserted records, got %d", len(records.inserted))
	}
}

func TestRunContinuesAfterFailures(t *testing.T) {
	extractor := &fakeExtractor{fail: map[string]error{
		"bad.pdf": errors.New("analysis failed"),
	}}
	blobs := &fakeBlobStore{}
	records := &fakeInserter{}

	q := newTestQueue(extractor, blobs, records, Config{UserID: "u1"})
	q.Enqueue(docs("good.pdf", "bad.pdf", "also-good.pdf")...)

	summary := q.Run(context.Background())

	if summary.Added != 2 || summary.Failed != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.String() != "2 added, 1 failed" {
		t.Fatalf("unexpected summary string: %q", summary.String())
	}

	var failed *Item
	for _, item := range q.Items() {
		if item.Status == StatusError {
			failed = item
		}
	}
	if failed == nil || failed.Doc.Name != "bad.pdf" {
		t.Fatal("expected bad.pdf to be the failed item")
	}
	if failed.Error == "" {
		t.Fatal("expected the failure reason to be recorded on the item")
	}
}

func TestInsertFailureRemovesUploadedBlob(t *testing.T) {
	extractor := &fakeExtractor{}
	blobs := &fakeBlobStore{}
	records := &fakeInserter{fail: errors.New("permission denied")}

	q := newTestQueue(extractor, blobs, records, Config{UserID: "u1"})
	q.Enqueue(docs("cv.pdf")...)

	summary := q.Run(context.Background())

	if summary.Failed != 1 {
		t.Fatalf("expected the item to fail, got %+v", summary)
	}
	if len(blobs.uploads) != 1 {
		t.Fatalf("expected one upload, got %d", len(blobs.uploads))
	}
	if len(blobs.removals) != 1 || blobs.removals[0] != blobs.uploads[0] {
		t.Fatalf("expected compensating removal of %q, got %v", blobs.uploads[0], blobs.removals)
	}
}

func TestOnSuccessReceivesPersistedResume(t *testing.T) {
	extractor := &fakeExtractor{}
	blobs := &fakeBlobStore{}
	records := &fakeInserter{}

	var got []*bank.Resume
	q := newTestQueue(extractor, blobs, records, Config{
		UserID:    "u1",
		OnSuccess: func(r *bank.Resume) { got = append(got, r) },
	})
	q.Enqueue(docs("cv.pdf")...)
	q.Run(context.Background())

	if len(got) != 1 {
		t.Fatalf("expected one callback, got %d", len(got))
	}
	r := got[0]
	if r.Name != "Candidate from cv.pdf" {
		t.Errorf("name = %q", r.Name)
	}
	if r.UserID != "u1" {
		t.Errorf("user id = %q", r.UserID)
	}
	if r.Favorited {
		t.Error("new resumes must not be favorited")
	}
	if r.FileURL == "" || r.FileName != "cv.pdf" {
		t.Errorf("file fields = %q %q", r.FileURL, r.FileName)
	}
}

func TestClearCompletedKeepsPending(t *testing.T) {
	extractor := &fakeExtractor{fail: map[string]error{
		"bad.pdf": errors.New("boom"),
	}}
	q := newTestQueue(extractor, &fakeBlobStore{}, &fakeInserter{}, Config{UserID: "u1"})

	q.Enqueue(docs("good.pdf", "bad.pdf")...)
	q.Run(context.Background())
	q.Enqueue(docs("later.pdf")...)

	q.ClearCompleted()

	items := q.Items()
	if len(items) != 1 || items[0].Doc.Name != "later.pdf" {
		t.Fatalf("expected only the queued item to remain, got %d items", len(items))
	}
}

func TestBlobKey(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	got := BlobKey("u1", now, "my resume.pdf")
	want := "u1/1700000000000-my_resume.pdf"
	if got != want {
		t.Fatalf("BlobKey = %q, want %q", got, want)
	}
}
