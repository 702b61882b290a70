package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fwojciec/repodoc"
	"github.com/fwojciec/repodoc/crawl"
	"github.com/fwojciec/repodoc/fs"
	"github.com/fwojciec/repodoc/gemini"
	reposlog "github.com/fwojciec/repodoc/slog"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	rootURL, err := c.rootURL(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repodoc.ErrorMessage(err))
		return err
	}

	loc, err := repodoc.ParseFileURL(rootURL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repodoc.ErrorMessage(err))
		return err
	}
	if (c.Save || c.Mirror != "") && (loc.Owner == "" || loc.Repo == "") {
		err := repodoc.Errorf(repodoc.EINVALID, "cannot tell owner and repository from %q", rootURL)
		fmt.Fprintf(deps.Stderr, "error: %s\n", repodoc.ErrorMessage(err))
		return err
	}

	var sinks []repodoc.Sink
	addSink := func(name string, s repodoc.Sink) {
		if deps.Verbose {
			s = reposlog.NewLoggingSink(s, name, deps.Logger)
		}
		sinks = append(sinks, s)
	}

	switch c.Output {
	case "preview":
		addSink("preview", repodoc.NewPreviewWriter(deps.Stdout, repodoc.DefaultPreviewLength))
	case "append":
		addSink("append", fs.NewAppender(c.OutFile))
	}

	var mirror *fs.Mirror
	if c.Mirror != "" {
		mirror = fs.NewMirror(c.Mirror, filepath.Join(loc.Owner, loc.Repo))
		addSink("mirror", mirror)
	}

	session, err := deps.NewSession(deps.Ctx)
	if err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed, or use --static")
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.Close()

	crawler := *deps.Crawler
	crawler.Session = session

	progress := func(event crawl.ProgressEvent) {
		if event.Type == crawl.ProgressFailed {
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", event.URL, event.Error)
		}
	}

	result, err := crawler.Crawl(deps.Ctx, rootURL, repodoc.MultiSink(sinks...), progress)
	if err != nil {
		if mirror != nil {
			_ = mirror.Abort()
		}
		fmt.Fprintf(deps.Stderr, "error crawling: %s\n", repodoc.ErrorMessage(err))
		return err
	}

	if mirror != nil {
		if err := mirror.Commit(); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %v\n", err)
			return err
		}
	}

	// The stored copy is only swapped once the whole crawl has succeeded.
	if c.Save {
		if err := deps.Files.ReplaceRepoFiles(deps.Ctx, loc.Owner, loc.Repo, result.Files); err != nil {
			fmt.Fprintf(deps.Stderr, "error saving: %s\n", repodoc.ErrorMessage(err))
			return err
		}
	}

	// Keep stdout parseable when it carries JSON.
	report := deps.Stdout
	if c.Output == "json" {
		if err := writeFilesJSON(deps.Stdout, result.Files); err != nil {
			return err
		}
		report = deps.Stderr
	}

	tokens := -1
	if deps.TokenCounter != nil && len(result.Files) > 0 {
		if n, err := gemini.CountPrompt(deps.Ctx, deps.TokenCounter, result.Files); err == nil {
			tokens = n
		}
	}

	fmt.Fprintln(report, crawl.FormatResult(result, tokens))
	if c.Output == "append" {
		fmt.Fprintf(report, "  Appended to %s\n", c.OutFile)
	}
	if mirror != nil {
		fmt.Fprintf(report, "  Mirrored to %s\n", mirror.Dir())
	}
	if c.Save {
		fmt.Fprintf(report, "  Saved as %s/%s\n", loc.Owner, loc.Repo)
	}
	return nil
}

// rootURL returns the URL argument or prompts for one on stdin.
func (c *CrawlCmd) rootURL(deps *Dependencies) (string, error) {
	if u := strings.TrimSpace(c.URL); u != "" {
		return u, nil
	}

	fmt.Fprint(deps.Stdout, "Enter the URL: ")
	if deps.Stdin == nil {
		return "", repodoc.Errorf(repodoc.EINVALID, "repository URL required")
	}
	line, err := bufio.NewReader(deps.Stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	if u := strings.TrimSpace(line); u != "" {
		return u, nil
	}
	return "", repodoc.Errorf(repodoc.EINVALID, "repository URL required")
}

func writeFilesJSON(w io.Writer, files []*repodoc.ExtractedFile) error {
	if files == nil {
		files = []*repodoc.ExtractedFile{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(files)
}
