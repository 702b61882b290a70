package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/repodoc"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var (
	_ repodoc.FileService = (*FileService)(nil)
	_ repodoc.Sink        = (*FileService)(nil)
)

const fileColumns = "id, url, owner, repo, ref, path, full_path, name, content, content_hash, position, fetched_at"

// FileService implements repodoc.FileService using SQLite.
// It is also a repodoc.Sink, so a crawl can be cached as it runs.
type FileService struct {
	db *DB
}

// NewFileService creates a new FileService.
func NewFileService(db *DB) *FileService {
	return &FileService{db: db}
}

// hashContent computes the xxHash of content as a hex string.
func hashContent(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

// querier is satisfied by both *DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CreateFile stores the file. A file with the same URL is replaced in place
// and keeps its ID.
func (s *FileService) CreateFile(ctx context.Context, file *repodoc.ExtractedFile) error {
	if err := file.Validate(); err != nil {
		return err
	}
	return insertFile(ctx, s.db, file)
}

// Write implements repodoc.Sink. The crawl result shares the file, so a copy
// is stored and the caller's file is left untouched.
func (s *FileService) Write(ctx context.Context, file *repodoc.ExtractedFile) error {
	f := *file
	return s.CreateFile(ctx, &f)
}

// ReplaceRepoFiles swaps the stored files of owner/repo for files in one
// transaction. On any error the earlier files are kept.
func (s *FileService) ReplaceRepoFiles(ctx context.Context, owner, repo string, files []*repodoc.ExtractedFile) error {
	if owner == "" || repo == "" {
		return repodoc.Errorf(repodoc.EINVALID, "owner and repo required")
	}
	for _, file := range files {
		if err := file.Validate(); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM files WHERE owner = ? AND repo = ?", owner, repo); err != nil {
		return err
	}
	for _, file := range files {
		f := *file
		if err := insertFile(ctx, tx, &f); err != nil {
			return fmt.Errorf("storing %s: %w", file.URL, err)
		}
	}
	return tx.Commit()
}

func insertFile(ctx context.Context, q querier, file *repodoc.ExtractedFile) error {
	file.FetchedAt = time.Now().UTC()
	file.ContentHash = hashContent(file.Content)

	return q.QueryRowContext(ctx, `
		INSERT INTO files (`+fileColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			owner = excluded.owner,
			repo = excluded.repo,
			ref = excluded.ref,
			path = excluded.path,
			full_path = excluded.full_path,
			name = excluded.name,
			content = excluded.content,
			content_hash = excluded.content_hash,
			position = excluded.position,
			fetched_at = excluded.fetched_at
		RETURNING id
	`, uuid.New().String(), file.URL, file.Owner, file.Repo, file.Ref, file.Path, file.FullPath, file.Name,
		file.Content, file.ContentHash, file.Position, file.FetchedAt.Format(time.RFC3339)).Scan(&file.ID)
}

// FindFiles retrieves files matching the filter in crawl order.
func (s *FileService) FindFiles(ctx context.Context, filter repodoc.FileFilter) ([]*repodoc.ExtractedFile, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + fileColumns + " FROM files WHERE 1=1")

	if filter.Owner != nil {
		query.WriteString(" AND owner = ?")
		args = append(args, *filter.Owner)
	}
	if filter.Repo != nil {
		query.WriteString(" AND repo = ?")
		args = append(args, *filter.Repo)
	}
	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}

	query.WriteString(" ORDER BY owner, repo, position ASC")
	if filter.Limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		if filter.Limit <= 0 {
			query.WriteString(" LIMIT -1")
		}
		query.WriteString(" OFFSET ?")
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []*repodoc.ExtractedFile
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}

	return files, rows.Err()
}

// DeleteFilesByRepo removes every stored file of owner/repo.
func (s *FileService) DeleteFilesByRepo(ctx context.Context, owner, repo string) error {
	if owner == "" || repo == "" {
		return repodoc.Errorf(repodoc.EINVALID, "owner and repo required")
	}
	_, err := s.db.ExecContext(ctx, "DELETE FROM files WHERE owner = ? AND repo = ?", owner, repo)
	return err
}

func scanFile(rows *sql.Rows) (*repodoc.ExtractedFile, error) {
	var file repodoc.ExtractedFile
	var fetchedAt string

	if err := rows.Scan(&file.ID, &file.URL, &file.Owner, &file.Repo, &file.Ref, &file.Path, &file.FullPath,
		&file.Name, &file.Content, &file.ContentHash, &file.Position, &fetchedAt); err != nil {
		return nil, err
	}

	var err error
	if file.FetchedAt, err = time.Parse(time.RFC3339, fetchedAt); err != nil {
		return nil, fmt.Errorf("parsing fetched_at of %s: %w", file.URL, err)
	}
	return &file, nil
}
