package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/repodoc"
)

// Run executes the files command.
func (c *FilesCmd) Run(deps *Dependencies) error {
	owner, repo, err := splitRepo(c.Repo)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repodoc.ErrorMessage(err))
		return err
	}

	files, err := deps.Files.FindFiles(deps.Ctx, repodoc.FileFilter{Owner: &owner, Repo: &repo})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repodoc.ErrorMessage(err))
		return err
	}

	if len(files) == 0 {
		fmt.Fprintf(deps.Stderr, "error: no stored files for %s/%s. Use 'repodoc crawl --save <url>' to store some.\n", owner, repo)
		return repodoc.Errorf(repodoc.ENOTFOUND, "no stored files for %s/%s", owner, repo)
	}

	if c.Full {
		for _, f := range files {
			fmt.Fprintf(deps.Stdout, "=== %s ===\n\n%s\n\n", f.FullPath, f.Content)
		}
		return nil
	}

	fmt.Fprintf(deps.Stdout, "Files for %s/%s (%d total):\n\n", owner, repo, len(files))
	for i, f := range files {
		name := f.FullPath
		if name == "" {
			name = f.URL
		}
		fmt.Fprintf(deps.Stdout, "  %d. %s\n     %s\n", i+1, name, f.URL)
	}
	return nil
}

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return repodoc.Errorf(repodoc.EINVALID, "use --force to confirm deletion")
	}

	owner, repo, err := splitRepo(c.Repo)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repodoc.ErrorMessage(err))
		return err
	}

	if err := deps.Files.DeleteFilesByRepo(deps.Ctx, owner, repo); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repodoc.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted stored files of %s/%s\n", owner, repo)
	return nil
}

// splitRepo parses "owner/repo".
func splitRepo(s string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(strings.Trim(s, "/"), "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", repodoc.Errorf(repodoc.EINVALID, "expected OWNER/REPO, got %q", s)
	}
	return owner, repo, nil
}
