package bank

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Resume is one record in the CV bank. Age is nil when the document did not
// state one; an empty string means the field was not extracted.
type Resume struct {
	ID          uuid.UUID
	Name        string
	Age         *int
	Governorate string
	Email       string
	Phone       string
	AppliedFor  string
	Skills      []string
	AISummary   string
	FileURL     string
	FileName    string
	FolderID    *uuid.UUID
	UserID      string
	Favorited   bool
}

// Folder groups resumes. Names are unique by convention only.
type Folder struct {
	ID   uuid.UUID
	Name string
}

type Comment struct {
	ID        uuid.UUID
	ResumeID  uuid.UUID
	Content   string
	UserID    string
	UserEmail string
	CreatedAt time.Time
}

// TempScore is a volatile suitability annotation. It is never persisted and
// is dropped whenever filters, the job description, or the folder scope
// change.
type TempScore struct {
	Score  int
	Reason string
}

// Repository is the remote side of the bank: the three persisted tables.
type Repository interface {
	ListResumes(ctx context.Context) ([]*Resume, error)
	ListFolders(ctx context.Context) ([]*Folder, error)
	ListComments(ctx context.Context) ([]*Comment, error)

	InsertResume(ctx context.Context, r *Resume) error
	SetResumeFolder(ctx context.Context, id uuid.UUID, folderID *uuid.UUID) error
	SetResumeFavorited(ctx context.Context, id uuid.UUID, favorited bool) error
	DeleteResume(ctx context.Context, id uuid.UUID) error

	InsertFolder(ctx context.Context, f *Folder) error
	DeleteFolder(ctx context.Context, id uuid.UUID) error

	InsertComment(ctx context.Context, c *Comment) error
	DeleteComment(ctx context.Context, id uuid.UUID) error
}

// BlobRemover deletes the stored document behind a resume's file URL.
// Implementations treat a missing blob as success.
type BlobRemover interface {
	RemoveByURL(ctx context.Context, fileURL string) error
}

// Bank is the in-memory mirror of the remote tables plus the volatile
// temp-score layer. It is not safe for concurrent use; the application is
// single-flight by design.
type Bank struct {
	resumes  []*Resume
	folders  []*Folder
	comments []*Comment
	scores   map[uuid.UUID]TempScore
}

func New() *Bank {
	return &Bank{scores: make(map[uuid.UUID]TempScore)}
}

// Load fetches all three tables and returns a populated mirror. Folders are
// kept sorted by name.
func Load(ctx context.Context, repo Repository) (*Bank, error) {
	b := New()

	resumes, err := repo.ListResumes(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading resumes: %w", err)
	}

	folders, err := repo.ListFolders(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading folders: %w", err)
	}

	comments, err := repo.ListComments(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading comments: %w", err)
	}

	sort.Slice(folders, func(i, j int) bool { return folders[i].Name < folders[j].Name })

	b.resumes = resumes
	b.folders = folders
	b.comments = comments

	return b, nil
}

func (b *Bank) Resumes() []*Resume { return b.resumes }

func (b *Bank) Folders() []*Folder { return b.folders }

func (b *Bank) Len() int { return len(b.resumes) }

func (b *Bank) FindResume(id uuid.UUID) *Resume {
	for _, r := range b.resumes {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func (b *Bank) FindFolderByName(name string) *Folder {
	for _, f := range b.folders {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// CommentsFor returns the comments of one resume in creation order.
func (b *Bank) CommentsFor(resumeID uuid.UUID) []*Comment {
	var out []*Comment
	for _, c := range b.comments {
		if c.ResumeID == resumeID {
			out = append(out, c)
		}
	}
	return out
}

// AppendResume adds a freshly persisted record to the mirror. Used by the
// upload queue after a successful insert.
func (b *Bank) AppendResume(r *Resume) {
	b.resumes = append(b.resumes, r)
}

// SetScores replaces the temp-score layer.
func (b *Bank) SetScores(scores map[uuid.UUID]TempScore) {
	if scores == nil {
		scores = make(map[uuid.UUID]TempScore)
	}
	b.scores = scores
}

func (b *Bank) Score(id uuid.UUID) (TempScore, bool) {
	s, ok := b.scores[id]
	return s, ok
}

// InvalidateScores drops all temp scores. Callers invoke it whenever
// filters, the job description, or the folder scope change.
func (b *Bank) InvalidateScores() {
	b.scores = make(map[uuid.UUID]TempScore)
}

func (b *Bank) removeResumeLocally(id uuid.UUID) {
	kept := b.resumes[:0]
	for _, r := range b.resumes {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	b.resumes = kept

	keptComments := b.comments[:0]
	for _, c := range b.comments {
		if c.ResumeID != id {
			keptComments = append(keptComments, c)
		}
	}
	b.comments = keptComments

	delete(b.scores, id)
}
