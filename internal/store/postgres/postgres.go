// Package postgres persists the three CV bank tables: resumes, folders,
// and comments.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "embed"

	"github.com/fmohsen/cvbank/internal/bank"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

//go:embed schema.sql
var schema string

// insufficientPrivilege is the Postgres error code raised when a policy
// rejects the statement.
const insufficientPrivilege = "42501"

type Repository struct {
	db *sql.DB
}

func Open(dsn string) (*Repository, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("database dsn is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error { return r.db.Close() }

// InitSchema creates the tables when they do not exist yet.
func (r *Repository) InitSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return classify("init schema", err)
	}
	return nil
}

func (r *Repository) ListResumes(ctx context.Context) ([]*bank.Resume, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, age, governorate, email, phone, applied_for,
		       skills, ai_summary, file_url, file_name, folder_id, user_id, is_favorited
		FROM resumes`)
	if err != nil {
		return nil, classify("resumes", err)
	}
	defer rows.Close()

	var resumes []*bank.Resume
	for rows.Next() {
		var (
			res         bank.Resume
			age         sql.NullInt64
			governorate sql.NullString
			email       sql.NullString
			phone       sql.NullString
			appliedFor  sql.NullString
			folderID    sql.NullString
		)

		err := rows.Scan(&res.ID, &res.Name, &age, &governorate, &email, &phone, &appliedFor,
			pq.Array(&res.Skills), &res.AISummary, &res.FileURL, &res.FileName, &folderID,
			&res.UserID, &res.Favorited)
		if err != nil {
			return nil, fmt.Errorf("scanning resume: %w", err)
		}

		if age.Valid {
			a := int(age.Int64)
			res.Age = &a
		}
		res.Governorate = governorate.String
		res.Email = email.String
		res.Phone = phone.String
		res.AppliedFor = appliedFor.String

		if folderID.Valid {
			id, err := uuid.Parse(folderID.String)
			if err != nil {
				return nil, fmt.Errorf("parsing folder id %q: %w", folderID.String, err)
			}
			res.FolderID = &id
		}

		resumes = append(resumes, &res)
	}

	return resumes, rows.Err()
}

func (r *Repository) ListFolders(ctx context.Context) ([]*bank.Folder, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM folders`)
	if err != nil {
		return nil, classify("folders", err)
	}
	defer rows.Close()

	var folders []*bank.Folder
	for rows.Next() {
		var f bank.Folder
		if err := rows.Scan(&f.ID, &f.Name); err != nil {
			return nil, fmt.Errorf("scanning folder: %w", err)
		}
		folders = append(folders, &f)
	}

	return folders, rows.Err()
}

func (r *Repository) ListComments(ctx context.Context) ([]*bank.Comment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, resume_id, content, user_id, user_email, created_at
		FROM comments ORDER BY created_at ASC`)
	if err != nil {
		return nil, classify("comments", err)
	}
	defer rows.Close()

	var comments []*bank.Comment
	for rows.Next() {
		var c bank.Comment
		if err := rows.Scan(&c.ID, &c.ResumeID, &c.Content, &c.UserID, &c.UserEmail, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning comment: %w", err)
		}
		comments = append(comments, &c)
	}

	return comments, rows.Err()
}

func (r *Repository) InsertResume(ctx context.Context, res *bank.Resume) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO resumes (id, name, age, governorate, email, phone, applied_for,
		                     skills, ai_summary, file_url, file_name, folder_id, user_id, is_favorited)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		res.ID, res.Name, nullInt(res.Age), nullString(res.Governorate), nullString(res.Email),
		nullString(res.Phone), nullString(res.AppliedFor), pq.Array(res.Skills), res.AISummary,
		res.FileURL, res.FileName, nullUUID(res.FolderID), res.UserID, res.Favorited)
	return classify("resumes", err)
}

func (r *Repository) SetResumeFolder(ctx context.Context, id uuid.UUID, folderID *uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE resumes SET folder_id = $1 WHERE id = $2`, nullUUID(folderID), id)
	return classify("resumes", err)
}

func (r *Repository) SetResumeFavorited(ctx context.Context, id uuid.UUID, favorited bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE resumes SET is_favorited = $1 WHERE id = $2`, favorited, id)
	return classify("resumes", err)
}

func (r *Repository) DeleteResume(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	return classify("resumes", err)
}

func (r *Repository) InsertFolder(ctx context.Context, f *bank.Folder) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO folders (id, name) VALUES ($1, $2)`, f.ID, f.Name)
	return classify("folders", err)
}

// DeleteFolder removes the folder row. Member resumes are unassigned by the
// folder_id foreign key's ON DELETE SET NULL, never deleted.
func (r *Repository) DeleteFolder(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM folders WHERE id = $1`, id)
	return classify("folders", err)
}

func (r *Repository) InsertComment(ctx context.Context, c *bank.Comment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO comments (id, resume_id, content, user_id, user_email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.ResumeID, c.Content, c.UserID, c.UserEmail, c.CreatedAt)
	return classify("comments", err)
}

func (r *Repository) DeleteComment(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	return classify("comments", err)
}

// classify names the table in the error and turns policy rejections into an
// actionable diagnostic.
func classify(table string, err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == insufficientPrivilege {
		return fmt.Errorf("%s: permission denied by the database security policy, grant access to the %s table: %w", table, table, err)
	}

	return fmt.Errorf("%s: %w", table, err)
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullUUID(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return *id
}
