// Package queue drives the upload pipeline: a FIFO of ingestion jobs
// processed strictly one at a time, each producing a persisted resume or a
// recorded failure.
package queue

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fmohsen/cvbank/internal/ai"
	"github.com/fmohsen/cvbank/internal/bank"
	"github.com/fmohsen/cvbank/internal/ingest"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
)

// Item is one unit of the pipeline. Queue items live only for the process
// lifetime and are never persisted.
type Item struct {
	ID     uuid.UUID
	Doc    ingest.Document
	Status Status
	Error  string
}

func (i *Item) terminal() bool {
	return i.Status == StatusSuccess || i.Status == StatusError
}

// BlobStore uploads and removes stored documents. Upload returns the public
// URL of the stored object.
type BlobStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Remove(ctx context.Context, key string) error
}

type Inserter interface {
	InsertResume(ctx context.Context, r *bank.Resume) error
}

type Config struct {
	// UserID prefixes blob keys and owns the created records.
	UserID string
	// FolderID assigns new records to a folder; nil leaves them unassigned.
	FolderID *uuid.UUID
	// OnSuccess receives each persisted record, typically to append it to
	// the collection store.
	OnSuccess func(*bank.Resume)
}

type Queue struct {
	items     []*Item
	extractor ai.Extractor
	blobs     BlobStore
	records   Inserter
	cfg       Config
	logger    *zap.Logger

	now func() time.Time
}

func New(extractor ai.Extractor, blobs BlobStore, records Inserter, cfg Config, logger *zap.Logger) *Queue {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Queue{
		extractor: extractor,
		blobs:     blobs,
		records:   records,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

func (q *Queue) Enqueue(docs ...ingest.Document) {
	for _, doc := range docs {
		q.items = append(q.items, &Item{ID: uuid.New(), Doc: doc, Status: StatusQueued})
	}
}

func (q *Queue) Items() []*Item { return q.items }

// next returns the oldest queued item, or nil while another item is
// processing or nothing is queued. The single-processing rule bounds
// concurrent AI and storage calls to one.
func (q *Queue) next() *Item {
	for _, item := range q.items {
		if item.Status == StatusProcessing {
			return nil
		}
	}
	for _, item := range q.items {
		if item.Status == StatusQueued {
			return item
		}
	}
	return nil
}

// Run processes queued items until none remain, then returns the derived
// summary. A failed item never aborts the batch; the pipeline moves on to
// the next one.
func (q *Queue) Run(ctx context.Context) Summary {
	for {
		item := q.next()
		if item == nil {
			break
		}
		q.process(ctx, item)
	}
	return q.Summarize()
}

func (q *Queue) process(ctx context.Context, item *Item) {
	item.Status = StatusProcessing

	fail := func(err error) {
		item.Status = StatusError
		item.Error = err.Error()
		q.logger.Warn("upload failed",
			zap.String("file", item.Doc.Name),
			zap.Error(err),
		)
	}

	q.logger.Info("analyzing resume", zap.String("file", item.Doc.Name))

	extraction, err := q.extractor.ExtractResume(ctx, item.Doc)
	if err != nil {
		fail(err)
		return
	}

	key := BlobKey(q.cfg.UserID, q.now(), item.Doc.Name)

	url, err := q.blobs.Upload(ctx, key, item.Doc.Data, item.Doc.MIMEType())
	if err != nil {
		fail(fmt.Errorf("storage upload failed: %w", err))
		return
	}

	resume := newResume(extraction, url, item.Doc.Name, q.cfg)

	if err := q.records.InsertResume(ctx, resume); err != nil {
		// Best-effort compensation: drop the orphaned blob. A crash here
		// can still leave one behind.
		if rmErr := q.blobs.Remove(ctx, key); rmErr != nil {
			q.logger.Warn("removing orphaned blob failed",
				zap.String("key", key),
				zap.Error(rmErr),
			)
		}
		fail(fmt.Errorf("database insert failed: %w", err))
		return
	}

	item.Status = StatusSuccess
	q.logger.Info("resume added", zap.String("file", item.Doc.Name), zap.String("name", resume.Name))

	if q.cfg.OnSuccess != nil {
		q.cfg.OnSuccess(resume)
	}
}

// ClearCompleted drops terminal items; queued and processing items stay.
func (q *Queue) ClearCompleted() {
	kept := q.items[:0]
	for _, item := range q.items {
		if !item.terminal() {
			kept = append(kept, item)
		}
	}
	q.items = kept
}

type Summary struct {
	Added  int
	Failed int
	// Done reports that no item is queued or processing.
	Done bool
}

func (s Summary) String() string {
	return fmt.Sprintf("%d added, %d failed", s.Added, s.Failed)
}

// Summarize derives the completion status from item counts.
func (q *Queue) Summarize() Summary {
	s := Summary{Done: true}
	for _, item := range q.items {
		switch item.Status {
		case StatusSuccess:
			s.Added++
		case StatusError:
			s.Failed++
		default:
			s.Done = false
		}
	}
	return s
}

// BlobKey builds the storage key for an uploaded document: user prefix,
// millisecond timestamp, and the filename with spaces flattened.
func BlobKey(userID string, now time.Time, fileName string) string {
	return fmt.Sprintf("%s/%d-%s", userID, now.UnixMilli(), strings.ReplaceAll(fileName, " ", "_"))
}

func newResume(e *ai.Extraction, fileURL, fileName string, cfg Config) *bank.Resume {
	var age *int
	if e.Age > 0 {
		a := e.Age
		age = &a
	}

	return &bank.Resume{
		ID:          uuid.New(),
		Name:        e.Name,
		Age:         age,
		Governorate: e.Governorate,
		Email:       e.Email,
		Phone:       e.Phone,
		AppliedFor:  e.AppliedFor,
		Skills:      e.Skills,
		AISummary:   e.AISummary,
		FileURL:     fileURL,
		FileName:    fileName,
		FolderID:    cfg.FolderID,
		UserID:      cfg.UserID,
		Favorited:   false,
	}
}
