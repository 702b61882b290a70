package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/repodoc"
)

// Run executes the readme command.
func (c *ReadmeCmd) Run(deps *Dependencies) error {
	var (
		readme string
		err    error
	)
	if c.Cached {
		readme, err = c.fromStore(deps)
	} else {
		readme, err = deps.Readme.Generate(deps.Ctx, c.URL)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repodoc.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, strings.TrimRight(readme, "\n"))
	return nil
}

// fromStore summarizes the files saved for the repository of c.URL.
func (c *ReadmeCmd) fromStore(deps *Dependencies) (string, error) {
	loc, err := repodoc.ParseFileURL(c.URL)
	if err != nil {
		return "", err
	}
	if loc.Owner == "" || loc.Repo == "" {
		return "", repodoc.Errorf(repodoc.EINVALID, "cannot tell owner and repository from %q", c.URL)
	}

	files, err := deps.Files.FindFiles(deps.Ctx, repodoc.FileFilter{Owner: &loc.Owner, Repo: &loc.Repo})
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", repodoc.Errorf(repodoc.ENOTFOUND, "no stored files for %s/%s. Run 'repodoc crawl --save %s' first", loc.Owner, loc.Repo, c.URL)
	}
	return deps.Summarizer.Summarize(deps.Ctx, files)
}
