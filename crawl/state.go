package crawl

import "strings"

// State tracks which directory and file pages a crawl has already seen.
// URLs are compared after dropping any fragment, so "a#L1" and "a" are the
// same page. Membership is exact: a URL is never reported as visited unless it
// was marked.
type State struct {
	directories map[string]struct{}
	files       map[string]struct{}
}

// NewState returns an empty State.
func NewState() *State {
	return &State{
		directories: make(map[string]struct{}),
		files:       make(map[string]struct{}),
	}
}

func (s *State) MarkDirectoryVisited(url string) {
	s.directories[visitKey(url)] = struct{}{}
}

func (s *State) IsDirectoryVisited(url string) bool {
	_, ok := s.directories[visitKey(url)]
	return ok
}

func (s *State) MarkFileVisited(url string) {
	s.files[visitKey(url)] = struct{}{}
}

func (s *State) IsFileVisited(url string) bool {
	_, ok := s.files[visitKey(url)]
	return ok
}

// DirectoryCount returns the number of directories marked visited.
func (s *State) DirectoryCount() int {
	return len(s.directories)
}

// FileCount returns the number of files marked visited.
func (s *State) FileCount() int {
	return len(s.files)
}

func visitKey(url string) string {
	if idx := strings.Index(url, "#"); idx != -1 {
		return url[:idx]
	}
	return url
}
