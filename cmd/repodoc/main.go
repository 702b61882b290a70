package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/repodoc"
	"github.com/fwojciec/repodoc/crawl"
	"github.com/fwojciec/repodoc/gemini"
	"github.com/fwojciec/repodoc/goquery"
	"github.com/fwojciec/repodoc/htmltomarkdown"
	repohttp "github.com/fwojciec/repodoc/http"
	"github.com/fwojciec/repodoc/resty"
	"github.com/fwojciec/repodoc/rod"
	reposlog "github.com/fwojciec/repodoc/slog"
	"github.com/fwojciec/repodoc/sqlite"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run(). The --db flag and REPODOC_DB
	// take precedence.
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Stdin is read when crawl prompts for a URL.
	Stdin io.Reader

	// NewTokenCounter loads the tokenizer used for crawl token estimates.
	NewTokenCounter func(model string) (repodoc.TokenCounter, error)
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:          defaultDBPath(),
		Stdin:           os.Stdin,
		NewTokenCounter: newTokenCounter,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("repodoc"),
		kong.Description("Extract repository files from code-hosting pages and summarize them into a README"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'repodoc --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	deps.Verbose = cli.Verbose
	deps.Logger = newLogger(stderr, cli.Verbose)

	if cli.DB != "" {
		m.DBPath = cli.DB
	}
	if needsDB(cmd, cli) {
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set REPODOC_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		defer m.Close()

		deps.DB = m.DB
		deps.Files = sqlite.NewFileService(m.DB)
	}

	switch cmd {
	case "crawl":
		deps.NewSession = newSessionFactory(cli.Crawl.CrawlFlags, deps.Logger, cli.Verbose)
		deps.Crawler = newCrawler(cli.Crawl.CrawlFlags, cli.Crawl.URL, deps.Logger)
		if cli.Crawl.Tokens && m.NewTokenCounter != nil {
			// The tokenizer model is downloaded on first use; the crawl
			// goes ahead without an estimate when that fails.
			tokenCounter, err := m.NewTokenCounter(gemini.TokenizerModel)
			if err != nil {
				deps.Logger.Warn("token estimate unavailable", "err", err)
			} else {
				deps.TokenCounter = tokenCounter
			}
		}

	case "readme":
		summarizer, err := newSummarizer(ctx, cli.Readme.LLMFlags, stderr)
		if err != nil {
			return err
		}
		deps.Summarizer = decorateSummarizer(summarizer, deps.Logger, cli.Verbose)
		deps.NewSession = newSessionFactory(cli.Readme.CrawlFlags, deps.Logger, cli.Verbose)
		deps.Crawler = newCrawler(cli.Readme.CrawlFlags, cli.Readme.URL, deps.Logger)
		deps.Readme = &crawl.ReadmeService{
			NewSession: deps.NewSession,
			Summarizer: deps.Summarizer,
			Crawler:    *deps.Crawler,
		}

	case "serve":
		summarizer, err := newSummarizer(ctx, cli.Serve.LLMFlags, stderr)
		if err != nil {
			return err
		}
		deps.Summarizer = decorateSummarizer(summarizer, deps.Logger, cli.Verbose)
		deps.NewSession = newSessionFactory(cli.Serve.CrawlFlags, deps.Logger, cli.Verbose)
		deps.Crawler = newCrawler(cli.Serve.CrawlFlags, "", deps.Logger)
		deps.Readme = &crawl.ReadmeService{
			NewSession: deps.NewSession,
			Summarizer: deps.Summarizer,
			Crawler:    *deps.Crawler,
		}
	}

	return kongCtx.Run(deps)
}

// needsDB reports whether the parsed command reads or writes stored files.
func needsDB(cmd string, cli *CLI) bool {
	switch cmd {
	case "files", "delete":
		return true
	case "crawl":
		return cli.Crawl.Save
	case "readme":
		return cli.Readme.Cached
	}
	return false
}

func newTokenCounter(model string) (repodoc.TokenCounter, error) {
	return gemini.NewTokenCounter(model)
}

// newLogger logs warnings by default. Verbose mode logs everything down to
// the per-file sink writes and markup reads.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func newSessionFactory(f CrawlFlags, logger *slog.Logger, verbose bool) repodoc.SessionFactory {
	var factory repodoc.SessionFactory
	if f.Static {
		factory = repohttp.Factory(goquery.NewParser())
	} else {
		factory = rod.Factory()
	}
	if verbose {
		factory = reposlog.SessionFactory(factory, logger)
	}
	return factory
}

// newCrawler builds a crawler template from flags. rootURL, when known, sets
// the domain used to resolve relative links in markdown output.
func newCrawler(f CrawlFlags, rootURL string, logger *slog.Logger) *crawl.Crawler {
	var opts []htmltomarkdown.Option
	if u, err := url.Parse(rootURL); err == nil && u.Host != "" {
		opts = append(opts, htmltomarkdown.WithDomain(u.Scheme+"://"+u.Host))
	}

	c := &crawl.Crawler{
		Parser:         goquery.NewParser(),
		Converter:      htmltomarkdown.NewConverter(opts...),
		Logger:         logger,
		Mode:           crawl.Mode(f.Mode),
		LinkClass:      f.LinkClass,
		WaitTimeout:    f.Timeout,
		MaxDepth:       f.MaxDepth,
		MaxDirectories: f.MaxDirs,
		FilterChrome:   f.FilterChrome,
		KeepEmpty:      f.KeepEmpty,
	}
	if f.RPS > 0 {
		c.RateLimiter = crawl.NewRepoLimiter(f.RPS)
	}
	return c
}

func newSummarizer(ctx context.Context, f LLMFlags, stderr io.Writer) (repodoc.Summarizer, error) {
	if f.LLM != "gemini" {
		return resty.NewSummarizer(f.LLMURL,
			resty.WithModel(f.LLMModel),
			resty.WithAPIKey(f.LLMKey),
		), nil
	}

	if f.GeminiKey == "" {
		fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
		return nil, fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  f.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}

	return gemini.NewSummarizer(client, f.LLMModel), nil
}

func decorateSummarizer(s repodoc.Summarizer, logger *slog.Logger, verbose bool) repodoc.Summarizer {
	if !verbose {
		return s
	}
	return reposlog.NewLoggingSummarizer(s, logger)
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "repodoc.db"
	}
	dir := filepath.Join(home, ".repodoc")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "repodoc.db")
}
