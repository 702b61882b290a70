package repodoc

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// BlobMarker is the path segment that separates owner/repo from the ref and
// file path in a file page URL (e.g. /owner/repo/blob/main/src/app.go).
const BlobMarker = "blob"

// ExtractedFile is the content pulled from one file page during a crawl.
// It is created once per unique file URL and not modified afterwards.
type ExtractedFile struct {
	URL      string `json:"url"`
	Owner    string `json:"owner"`
	Repo     string `json:"repo"`
	Ref      string `json:"ref,omitempty"`
	Path     string `json:"path"`
	FullPath string `json:"full_path"`
	Name     string `json:"name"`
	Content  string `json:"content"`

	// Storage metadata, set by persistence layers.
	ID          string    `json:"-"`
	ContentHash string    `json:"-"`
	Position    int       `json:"-"`
	FetchedAt   time.Time `json:"-"`
}

// Validate returns an error if the file contains invalid fields.
func (f *ExtractedFile) Validate() error {
	if f.URL == "" {
		return Errorf(EINVALID, "file URL required")
	}
	return nil
}

// FileLocation is the repository location decoded from a file page URL.
type FileLocation struct {
	Owner    string
	Repo     string
	Ref      string
	Path     string
	FullPath string
	Name     string
}

// ParseFileURL decodes owner, repository, ref and file path from a file page URL.
//
// Segment 1 is the owner and segment 2 the repository. When segment 3 is the
// blob marker, segment 4 is taken as the ref and segments 5 onward
// (percent-decoded) form the repository-relative path. Ref names containing
// slashes are not supported. Without the marker only owner and repository
// are returned; this is not an error.
func ParseFileURL(rawURL string) (FileLocation, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return FileLocation{}, Errorf(EINVALID, "invalid file URL %q: %v", rawURL, err)
	}

	segments := strings.Split(u.EscapedPath(), "/")
	var loc FileLocation
	if len(segments) > 1 {
		loc.Owner = unescapeSegment(segments[1])
	}
	if len(segments) > 2 {
		loc.Repo = unescapeSegment(segments[2])
	}
	if len(segments) < 4 || segments[3] != BlobMarker {
		return loc, nil
	}
	if len(segments) > 4 {
		loc.Ref = unescapeSegment(segments[4])
	}
	if len(segments) < 6 {
		return loc, nil
	}

	parts := make([]string, 0, len(segments)-5)
	for _, s := range segments[5:] {
		if s == "" {
			continue
		}
		parts = append(parts, unescapeSegment(s))
	}
	if len(parts) == 0 {
		return loc, nil
	}

	loc.Path = strings.Join(parts, "/")
	loc.FullPath = loc.Repo + "/" + loc.Path
	loc.Name = parts[len(parts)-1]
	return loc, nil
}

// NewExtractedFile builds an ExtractedFile for the URL, filling the
// location fields from ParseFileURL.
func NewExtractedFile(rawURL, content string) (*ExtractedFile, error) {
	loc, err := ParseFileURL(rawURL)
	if err != nil {
		return nil, err
	}
	return &ExtractedFile{
		URL:      rawURL,
		Owner:    loc.Owner,
		Repo:     loc.Repo,
		Ref:      loc.Ref,
		Path:     loc.Path,
		FullPath: loc.FullPath,
		Name:     loc.Name,
		Content:  content,
	}, nil
}

func unescapeSegment(s string) string {
	if v, err := url.PathUnescape(s); err == nil {
		return v
	}
	return s
}

// FileService persists extracted files.
type FileService interface {
	// CreateFile stores a file, replacing any earlier copy with the same URL.
	CreateFile(ctx context.Context, file *ExtractedFile) error

	// FindFiles retrieves files matching the filter, ordered by position.
	FindFiles(ctx context.Context, filter FileFilter) ([]*ExtractedFile, error)

	// DeleteFilesByRepo removes every stored file of a repository.
	DeleteFilesByRepo(ctx context.Context, owner, repo string) error

	// ReplaceRepoFiles atomically swaps the stored files of a repository
	// for files. The earlier files survive if the replacement fails.
	ReplaceRepoFiles(ctx context.Context, owner, repo string, files []*ExtractedFile) error
}

// FileFilter represents a filter for FindFiles.
type FileFilter struct {
	Owner *string `json:"owner"`
	Repo  *string `json:"repo"`
	URL   *string `json:"url"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
