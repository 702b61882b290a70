package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/repodoc"
	"github.com/fwojciec/repodoc/crawl"
	"github.com/fwojciec/repodoc/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	// Verbose wraps sinks in logging decorators.
	Verbose bool

	DB           *sqlite.DB
	Files        repodoc.FileService
	NewSession   repodoc.SessionFactory
	Crawler      *crawl.Crawler
	Summarizer   repodoc.Summarizer
	Readme       repodoc.ReadmeGenerator
	TokenCounter repodoc.TokenCounter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool   `short:"v" help:"Log every browser step and sink write"`
	DB      string `name:"db" env:"REPODOC_DB" help:"SQLite database path (default ~/.repodoc/repodoc.db)"`

	Crawl  CrawlCmd  `cmd:"" help:"Crawl a repository and extract its files"`
	Readme ReadmeCmd `cmd:"" help:"Generate a README for a repository"`
	Files  FilesCmd  `cmd:"" help:"List stored files of a repository"`
	Delete DeleteCmd `cmd:"" help:"Delete stored files of a repository"`
	Serve  ServeCmd  `cmd:"" help:"Run the README HTTP API"`
}

// CrawlFlags configure how repository pages are loaded and read.
type CrawlFlags struct {
	Mode         string        `enum:"text,markup,markdown" default:"text" help:"Content to extract from file pages (text, markup, markdown)"`
	LinkClass    string        `default:"Link--primary" help:"CSS class of file and directory anchors"`
	Timeout      time.Duration `default:"10s" help:"Timeout for each wait on a page element"`
	MaxDepth     int           `default:"32" help:"Maximum directory depth below the root"`
	MaxDirs      int           `default:"1000" help:"Maximum number of directory pages to visit"`
	KeepEmpty    bool          `help:"Keep files whose extracted content is empty"`
	FilterChrome bool          `negatable:"" default:"true" help:"Ignore anchors labelled Releases, Packages or Contributors"`
	Static       bool          `help:"Load pages over plain HTTP instead of a headless browser"`
	RPS          float64       `name:"rps" default:"0" help:"Page loads per second per repository (0 = unlimited)"`
}

// LLMFlags select the language model used for README generation.
type LLMFlags struct {
	LLM       string `name:"llm" enum:"local,gemini" default:"local" env:"REPODOC_LLM" help:"Language model backend (local, gemini)"`
	LLMURL    string `name:"llm-url" env:"REPODOC_LLM_URL" default:"http://127.0.0.1:11434/v1" help:"Base URL of the OpenAI-compatible API"`
	LLMModel  string `name:"llm-model" env:"REPODOC_LLM_MODEL" help:"Model name"`
	LLMKey    string `name:"llm-key" env:"REPODOC_LLM_KEY" help:"Bearer token for the OpenAI-compatible API"`
	GeminiKey string `name:"gemini-key" env:"GEMINI_API_KEY" help:"Gemini API key"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URL string `arg:"" optional:"" help:"Repository directory URL (prompted for when omitted)"`

	CrawlFlags `embed:""`

	Output  string `short:"o" enum:"preview,json,append,none" default:"preview" help:"How to emit extracted files (preview, json, append, none)"`
	OutFile string `default:"extracted_repo_html.html" help:"File that --output append writes to"`
	Mirror  string `help:"Recreate the repository tree under this directory"`
	Save    bool   `help:"Store extracted files in the database"`
	Tokens  bool   `negatable:"" default:"true" help:"Estimate the README prompt size in tokens"`
}

// ReadmeCmd is the "readme" subcommand.
type ReadmeCmd struct {
	URL    string `arg:"" help:"Repository directory URL"`
	Cached bool   `help:"Summarize files stored by 'repodoc crawl --save' instead of crawling"`

	CrawlFlags `embed:""`
	LLMFlags   `embed:""`
}

// FilesCmd is the "files" subcommand.
type FilesCmd struct {
	Repo string `arg:"" help:"Repository as OWNER/REPO"`
	Full bool   `help:"Print full file content"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	Repo  string `arg:"" help:"Repository as OWNER/REPO"`
	Force bool   `help:"Confirm deletion"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr        string `env:"REPODOC_ADDR" default:"127.0.0.1:8000" help:"Address to listen on"`
	AllowOrigin string `default:"*" help:"Value of the Access-Control-Allow-Origin header"`

	CrawlFlags `embed:""`
	LLMFlags   `embed:""`
}
