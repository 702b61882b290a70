// Package resty generates READMEs through an OpenAI-compatible chat
// completions endpoint, such as a local Ollama or llama.cpp server.
package resty

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/repodoc"
	"github.com/go-resty/resty/v2"
)

// Defaults for a local model server.
const (
	DefaultBaseURL = "http://127.0.0.1:11434/v1"
	DefaultModel   = "llama3.2"
	DefaultTimeout = 5 * time.Minute
)

// Ensure Summarizer implements repodoc.Summarizer at compile time.
var _ repodoc.Summarizer = (*Summarizer)(nil)

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Stream      bool      `json:"stream"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Summarizer implements repodoc.Summarizer with a single non-streaming
// chat completion request.
type Summarizer struct {
	client *resty.Client
	model  string
}

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithModel sets the model name sent with each request.
func WithModel(model string) Option {
	return func(s *Summarizer) {
		if model != "" {
			s.model = model
		}
	}
}

// WithAPIKey sends key as a bearer token.
func WithAPIKey(key string) Option {
	return func(s *Summarizer) {
		if key != "" {
			s.client.SetAuthToken(key)
		}
	}
}

// WithTimeout sets the request timeout. Defaults to DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Summarizer) {
		s.client.SetTimeout(d)
	}
}

// NewSummarizer creates a Summarizer for the API rooted at baseURL.
// An empty baseURL selects DefaultBaseURL.
func NewSummarizer(baseURL string, opts ...Option) *Summarizer {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	client := resty.New()
	client.SetBaseURL(strings.TrimRight(baseURL, "/"))
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(DefaultTimeout)

	s := &Summarizer{client: client, model: DefaultModel}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize sends the README prompt and returns the first choice verbatim.
func (s *Summarizer) Summarize(ctx context.Context, files []*repodoc.ExtractedFile) (string, error) {
	if len(files) == 0 {
		return "", repodoc.Errorf(repodoc.EINVALID, "no files to summarize")
	}

	prompt, err := repodoc.BuildReadmePrompt(files)
	if err != nil {
		return "", err
	}

	var result chatResponse
	var apiErr errorResponse
	res, err := s.client.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model: s.model,
			Messages: []message{
				{Role: "system", Content: repodoc.ReadmeSystemInstruction},
				{Role: "user", Content: prompt},
			},
			Stream:      false,
			Temperature: 0.3,
		}).
		SetResult(&result).
		SetError(&apiErr).
		Post("/chat/completions")
	if err != nil {
		return "", err
	}
	if res.IsError() {
		msg := apiErr.Error.Message
		if msg == "" {
			msg = strings.TrimSpace(res.String())
		}
		return "", repodoc.Errorf(repodoc.EINTERNAL, "chat completion failed: HTTP %d: %s", res.StatusCode(), msg)
	}
	if len(result.Choices) == 0 {
		return "", repodoc.Errorf(repodoc.EINTERNAL, "chat completion returned no choices")
	}

	return result.Choices[0].Message.Content, nil
}
