// Package crawl provides repository crawling orchestration.
// It walks directory pages depth-first through a repodoc.Session,
// extracts every reachable file once, and hands the files to a sink.
package crawl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/repodoc"
)

// Crawl defaults.
const (
	// DefaultWaitTimeout bounds every wait for a page element.
	DefaultWaitTimeout = 10 * time.Second

	// DefaultMaxDepth limits directory nesting below the root.
	DefaultMaxDepth = 32

	// DefaultMaxDirectories limits the number of directory pages visited per crawl.
	DefaultMaxDirectories = 1000

	// DefaultWidgetSelector selects the read-only text area holding raw file text.
	DefaultWidgetSelector = "#read-only-cursor-text-area"

	// pageReadySelector is awaited on file pages before reading markup.
	pageReadySelector = "body"
)

// Mode selects what content is extracted from a file page.
type Mode string

// Extraction modes.
const (
	ModeText     Mode = "text"     // text of the read-only widget, empty if absent
	ModeMarkup   Mode = "markup"   // full rendered page markup
	ModeMarkdown Mode = "markdown" // page markup converted to markdown
)

// Crawler walks a repository's directory pages and extracts its files.
// A Crawler drives a single Session and is not safe for concurrent use.
type Crawler struct {
	Session     repodoc.Session
	Parser      repodoc.MarkupParser // required for ModeText
	Converter   repodoc.Converter    // required for ModeMarkdown
	RateLimiter repodoc.RateLimiter  // optional, waited on before each navigation
	Logger      *slog.Logger

	Mode           Mode
	LinkClass      string
	WidgetSelector string
	WaitTimeout    time.Duration
	MaxDepth       int
	MaxDirectories int

	// FilterChrome ignores anchors with empty or UI-chrome display text.
	FilterChrome bool

	// KeepEmpty records files whose extracted content is empty.
	// By default they are skipped.
	KeepEmpty bool
}

// Result holds the outcome of a crawl.
type Result struct {
	Files       []*repodoc.ExtractedFile
	Directories int
	Failed      int
	Empty       int
	Bytes       int
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressDirectory ProgressType = iota
	ProgressExtracted
	ProgressFailed
	ProgressFinished
)

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type      ProgressType
	URL       string
	Depth     int
	Extracted int
	Failed    int
	Error     error
}

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// Crawl walks the repository depth-first starting at the directory page
// rootURL. Each extracted file is written to sink (which may be nil) and
// collected in the result.
//
// A failure on a single file is logged and the file is skipped. A failure on
// a directory page aborts the crawl; the files extracted so far are returned
// together with the error.
func (c *Crawler) Crawl(ctx context.Context, rootURL string, sink repodoc.Sink, progress ProgressFunc) (*Result, error) {
	if strings.TrimSpace(rootURL) == "" {
		return nil, repodoc.Errorf(repodoc.EINVALID, "repository URL required")
	}
	if _, err := url.ParseRequestURI(rootURL); err != nil {
		return nil, repodoc.Errorf(repodoc.EINVALID, "invalid repository URL %q", rootURL)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}

	w := &walker{
		c:        c,
		state:    NewState(),
		sink:     sink,
		progress: progress,
		result:   &Result{},
		logger:   c.logger(),
	}

	err := w.visitDirectory(ctx, rootURL, 0)

	w.emit(ProgressEvent{Type: ProgressFinished})
	return w.result, err
}

// Extract loads a file page and returns its content per the crawler's mode.
// Returns ETIMEOUT if the page does not become ready in time. A missing text
// widget is not an error: the content is empty.
func (c *Crawler) Extract(ctx context.Context, fileURL string) (*repodoc.ExtractedFile, error) {
	if err := c.navigate(ctx, fileURL); err != nil {
		return nil, err
	}
	if err := c.Session.WaitFor(ctx, pageReadySelector, c.waitTimeout()); err != nil {
		return nil, err
	}

	markup, err := c.Session.ReadMarkup(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading markup: %w", err)
	}

	content, err := c.content(markup)
	if err != nil {
		return nil, err
	}

	return repodoc.NewExtractedFile(fileURL, content)
}

// content turns page markup into file content according to the mode.
func (c *Crawler) content(markup string) (string, error) {
	switch c.mode() {
	case ModeMarkup:
		return markup, nil
	case ModeMarkdown:
		return c.Converter.Convert(markup)
	default:
		text, found, err := c.Parser.Text(markup, c.widgetSelector())
		if err != nil {
			return "", err
		}
		if !found {
			return "", nil
		}
		return text, nil
	}
}

// listDirectory loads a directory page and classifies its links.
func (c *Crawler) listDirectory(ctx context.Context, dirURL string) (files, dirs []repodoc.PageLink, err error) {
	if err := c.navigate(ctx, dirURL); err != nil {
		return nil, nil, err
	}

	class := c.linkClass()
	if err := c.Session.WaitFor(ctx, "."+class, c.waitTimeout()); err != nil {
		return nil, nil, err
	}

	anchors, err := c.Session.FindLinks(ctx, class)
	if err != nil {
		return nil, nil, fmt.Errorf("finding links: %w", err)
	}

	files, dirs = repodoc.ClassifyLinks(anchors, c.FilterChrome)
	return files, dirs, nil
}

func (c *Crawler) navigate(ctx context.Context, rawURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.RateLimiter != nil {
		key, err := repodoc.RepoKey(rawURL)
		if err != nil {
			return err
		}
		if err := c.RateLimiter.Wait(ctx, key); err != nil {
			return err
		}
	}
	return c.Session.Navigate(ctx, rawURL)
}

func (c *Crawler) validate() error {
	if c.Session == nil {
		return repodoc.Errorf(repodoc.EINVALID, "crawler session required")
	}
	switch c.mode() {
	case ModeText:
		if c.Parser == nil {
			return repodoc.Errorf(repodoc.EINVALID, "markup parser required for %s mode", ModeText)
		}
	case ModeMarkdown:
		if c.Converter == nil {
			return repodoc.Errorf(repodoc.EINVALID, "converter required for %s mode", ModeMarkdown)
		}
	case ModeMarkup:
	default:
		return repodoc.Errorf(repodoc.EINVALID, "unknown extraction mode %q", c.Mode)
	}
	return nil
}

func (c *Crawler) mode() Mode {
	if c.Mode == "" {
		return ModeText
	}
	return c.Mode
}

func (c *Crawler) linkClass() string {
	if c.LinkClass == "" {
		return repodoc.DefaultLinkClass
	}
	return c.LinkClass
}

func (c *Crawler) widgetSelector() string {
	if c.WidgetSelector == "" {
		return DefaultWidgetSelector
	}
	return c.WidgetSelector
}

func (c *Crawler) waitTimeout() time.Duration {
	if c.WaitTimeout <= 0 {
		return DefaultWaitTimeout
	}
	return c.WaitTimeout
}

func (c *Crawler) maxDepth() int {
	if c.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return c.MaxDepth
}

func (c *Crawler) maxDirectories() int {
	if c.MaxDirectories <= 0 {
		return DefaultMaxDirectories
	}
	return c.MaxDirectories
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.Logger
}

// walker holds the mutable state of one Crawl call.
type walker struct {
	c        *Crawler
	state    *State
	sink     repodoc.Sink
	progress ProgressFunc
	result   *Result
	logger   *slog.Logger
}

// visitDirectory processes one directory page and then recurses into its
// sub-directories, finishing each subtree before starting the next sibling.
func (w *walker) visitDirectory(ctx context.Context, dirURL string, depth int) error {
	if w.state.IsDirectoryVisited(dirURL) || repodoc.IsExcluded(dirURL) {
		return nil
	}
	if depth > w.c.maxDepth() {
		w.logger.Warn("max depth reached, skipping directory", "url", dirURL, "depth", depth)
		return nil
	}
	if w.state.DirectoryCount() >= w.c.maxDirectories() {
		w.logger.Warn("directory limit reached, skipping directory", "url", dirURL, "limit", w.c.maxDirectories())
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	w.state.MarkDirectoryVisited(dirURL)
	w.result.Directories++
	w.emit(ProgressEvent{Type: ProgressDirectory, URL: dirURL, Depth: depth})

	files, dirs, err := w.c.listDirectory(ctx, dirURL)
	if err != nil {
		return fmt.Errorf("crawling directory %s: %w", dirURL, err)
	}

	for _, link := range files {
		if w.state.IsFileVisited(link.URL) {
			continue
		}
		w.state.MarkFileVisited(link.URL)

		if err := ctx.Err(); err != nil {
			return err
		}
		w.visitFile(ctx, link)
	}

	for _, link := range dirs {
		if err := w.visitDirectory(ctx, link.URL, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// visitFile extracts one file. Errors are logged and the file is skipped.
func (w *walker) visitFile(ctx context.Context, link repodoc.PageLink) {
	file, err := w.c.Extract(ctx, link.URL)
	if err != nil {
		w.fail(link, err)
		return
	}

	if file.Content == "" && !w.c.KeepEmpty {
		w.result.Empty++
		w.logger.Info("skipping empty file", "file", link.Text, "url", link.URL)
		return
	}

	file.Position = len(w.result.Files)
	if w.sink != nil {
		if err := w.sink.Write(ctx, file); err != nil {
			w.fail(link, fmt.Errorf("writing to sink: %w", err))
			return
		}
	}

	w.result.Files = append(w.result.Files, file)
	w.result.Bytes += len(file.Content)
	w.emit(ProgressEvent{
		Type:      ProgressExtracted,
		URL:       link.URL,
		Extracted: len(w.result.Files),
		Failed:    w.result.Failed,
	})
}

func (w *walker) fail(link repodoc.PageLink, err error) {
	w.result.Failed++
	w.logger.Warn("error processing file", "file", link.Text, "url", link.URL, "err", err)
	w.emit(ProgressEvent{
		Type:      ProgressFailed,
		URL:       link.URL,
		Extracted: len(w.result.Files),
		Failed:    w.result.Failed,
		Error:     err,
	})
}

func (w *walker) emit(event ProgressEvent) {
	if w.progress != nil {
		if event.Type == ProgressFinished {
			event.Extracted = len(w.result.Files)
			event.Failed = w.result.Failed
		}
		w.progress(event)
	}
}
