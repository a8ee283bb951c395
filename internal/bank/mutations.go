package bank

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Every mutation follows the same contract: the forward patch is applied to
// the mirror first, then the remote call runs; on failure the inverse patch
// restores the pre-mutation state and the error is surfaced.
func (b *Bank) mutate(ctx context.Context, forward, inverse func(), remote func(context.Context) error) error {
	forward()
	if err := remote(ctx); err != nil {
		inverse()
		return err
	}
	return nil
}

// ToggleFavorite flips the favorited flag, rolling back on remote failure.
func (b *Bank) ToggleFavorite(ctx context.Context, repo Repository, id uuid.UUID) error {
	r := b.FindResume(id)
	if r == nil {
		return fmt.Errorf("resume %s not found", id)
	}

	previous := r.Favorited

	return b.mutate(ctx,
		func() { r.Favorited = !previous },
		func() { r.Favorited = previous },
		func(ctx context.Context) error {
			if err := repo.SetResumeFavorited(ctx, id, !previous); err != nil {
				return fmt.Errorf("updating favorite status: %w", err)
			}
			return nil
		},
	)
}

// MoveResume assigns the resume to a folder, or unassigns it when folderID
// is nil.
func (b *Bank) MoveResume(ctx context.Context, repo Repository, id uuid.UUID, folderID *uuid.UUID) error {
	r := b.FindResume(id)
	if r == nil {
		return fmt.Errorf("resume %s not found", id)
	}
	if folderID != nil && b.findFolder(*folderID) == nil {
		return fmt.Errorf("folder %s not found", folderID)
	}

	previous := r.FolderID

	return b.mutate(ctx,
		func() { r.FolderID = folderID },
		func() { r.FolderID = previous },
		func(ctx context.Context) error {
			if err := repo.SetResumeFolder(ctx, id, folderID); err != nil {
				return fmt.Errorf("moving resume: %w", err)
			}
			return nil
		},
	)
}

// CreateFolder adds a folder with a client-generated identity.
func (b *Bank) CreateFolder(ctx context.Context, repo Repository, name string) (*Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("folder name is required")
	}

	folder := &Folder{ID: uuid.New(), Name: name}

	err := b.mutate(ctx,
		func() {
			b.folders = append(b.folders, folder)
			sort.Slice(b.folders, func(i, j int) bool { return b.folders[i].Name < b.folders[j].Name })
		},
		func() {
			kept := b.folders[:0]
			for _, f := range b.folders {
				if f.ID != folder.ID {
					kept = append(kept, f)
				}
			}
			b.folders = kept
		},
		func(ctx context.Context) error {
			if err := repo.InsertFolder(ctx, folder); err != nil {
				return fmt.Errorf("creating folder: %w", err)
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	return folder, nil
}

// DeleteFolder removes the folder and unassigns its member resumes. Member
// resumes are never deleted.
func (b *Bank) DeleteFolder(ctx context.Context, repo Repository, id uuid.UUID) error {
	folder := b.findFolder(id)
	if folder == nil {
		return fmt.Errorf("folder %s not found", id)
	}

	// Remember previous assignments for the inverse patch.
	var members []*Resume
	for _, r := range b.resumes {
		if r.FolderID != nil && *r.FolderID == id {
			members = append(members, r)
		}
	}

	return b.mutate(ctx,
		func() {
			kept := b.folders[:0]
			for _, f := range b.folders {
				if f.ID != id {
					kept = append(kept, f)
				}
			}
			b.folders = kept
			for _, r := range members {
				r.FolderID = nil
			}
		},
		func() {
			b.folders = append(b.folders, folder)
			sort.Slice(b.folders, func(i, j int) bool { return b.folders[i].Name < b.folders[j].Name })
			fid := id
			for _, r := range members {
				r.FolderID = &fid
			}
		},
		func(ctx context.Context) error {
			if err := repo.DeleteFolder(ctx, id); err != nil {
				return fmt.Errorf("deleting folder: %w", err)
			}
			return nil
		},
	)
}

// AddComment appends a comment with a client-generated identity and the
// current timestamp.
func (b *Bank) AddComment(ctx context.Context, repo Repository, resumeID uuid.UUID, content, userID, userEmail string) (*Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("comment text is required")
	}
	if b.FindResume(resumeID) == nil {
		return nil, fmt.Errorf("resume %s not found", resumeID)
	}

	comment := &Comment{
		ID:        uuid.New(),
		ResumeID:  resumeID,
		Content:   content,
		UserID:    userID,
		UserEmail: userEmail,
		CreatedAt: time.Now().UTC(),
	}

	err := b.mutate(ctx,
		func() { b.comments = append(b.comments, comment) },
		func() { b.comments = b.comments[:len(b.comments)-1] },
		func(ctx context.Context) error {
			if err := repo.InsertComment(ctx, comment); err != nil {
				return fmt.Errorf("adding comment: %w", err)
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	return comment, nil
}

func (b *Bank) DeleteComment(ctx context.Context, repo Repository, id uuid.UUID) error {
	idx := -1
	for i, c := range b.comments {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("comment %s not found", id)
	}

	removed := b.comments[idx]

	return b.mutate(ctx,
		func() { b.comments = append(b.comments[:idx], b.comments[idx+1:]...) },
		func() {
			b.comments = append(b.comments, nil)
			copy(b.comments[idx+1:], b.comments[idx:])
			b.comments[idx] = removed
		},
		func(ctx context.Context) error {
			if err := repo.DeleteComment(ctx, id); err != nil {
				return fmt.Errorf("deleting comment: %w", err)
			}
			return nil
		},
	)
}

// DeleteResume is not optimistic: the blob is removed first (a missing blob
// counts as success), then the database record; the mirror is updated only
// after both remote steps succeed. A failure between the two steps leaves a
// stale record with a dangling file reference. That gap is accepted, not
// remediated.
func (b *Bank) DeleteResume(ctx context.Context, repo Repository, blobs BlobRemover, id uuid.UUID) error {
	r := b.FindResume(id)
	if r == nil {
		return fmt.Errorf("resume %s not found", id)
	}

	if err := blobs.RemoveByURL(ctx, r.FileURL); err != nil {
		return fmt.Errorf("deleting stored file: %w", err)
	}

	if err := repo.DeleteResume(ctx, id); err != nil {
		return fmt.Errorf("deleting resume record: %w", err)
	}

	b.removeResumeLocally(id)
	return nil
}

func (b *Bank) findFolder(id uuid.UUID) *Folder {
	for _, f := range b.folders {
		if f.ID == id {
			return f
		}
	}
	return nil
}
