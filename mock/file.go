package mock

import (
	"context"

	"github.com/fwojciec/repodoc"
)

var _ repodoc.FileService = (*FileService)(nil)

// FileService is a mock implementation of repodoc.FileService.
type FileService struct {
	CreateFileFn        func(ctx context.Context, file *repodoc.ExtractedFile) error
	FindFilesFn         func(ctx context.Context, filter repodoc.FileFilter) ([]*repodoc.ExtractedFile, error)
	DeleteFilesByRepoFn func(ctx context.Context, owner, repo string) error
	ReplaceRepoFilesFn  func(ctx context.Context, owner, repo string, files []*repodoc.ExtractedFile) error
}

func (s *FileService) CreateFile(ctx context.Context, file *repodoc.ExtractedFile) error {
	return s.CreateFileFn(ctx, file)
}

func (s *FileService) FindFiles(ctx context.Context, filter repodoc.FileFilter) ([]*repodoc.ExtractedFile, error) {
	return s.FindFilesFn(ctx, filter)
}

func (s *FileService) DeleteFilesByRepo(ctx context.Context, owner, repo string) error {
	return s.DeleteFilesByRepoFn(ctx, owner, repo)
}

func (s *FileService) ReplaceRepoFiles(ctx context.Context, owner, repo string, files []*repodoc.ExtractedFile) error {
	return s.ReplaceRepoFilesFn(ctx, owner, repo, files)
}
