// Package gemini generates READMEs and counts tokens with Google Gemini.
package gemini

import (
	"context"

	"github.com/fwojciec/repodoc"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Ensure Summarizer implements repodoc.Summarizer at compile time.
var _ repodoc.Summarizer = (*Summarizer)(nil)

// Summarizer implements repodoc.Summarizer using Google Gemini.
type Summarizer struct {
	client *genai.Client
	model  string
}

// NewSummarizer creates a new Summarizer. An empty model selects DefaultModel.
func NewSummarizer(client *genai.Client, model string) *Summarizer {
	if model == "" {
		model = DefaultModel
	}
	return &Summarizer{client: client, model: model}
}

// Summarize asks Gemini for a README describing the files.
func (s *Summarizer) Summarize(ctx context.Context, files []*repodoc.ExtractedFile) (string, error) {
	if len(files) == 0 {
		return "", repodoc.Errorf(repodoc.EINVALID, "no files to summarize")
	}

	prompt, err := repodoc.BuildReadmePrompt(files)
	if err != nil {
		return "", err
	}

	result, err := s.client.Models.GenerateContent(ctx, s.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		BuildConfig(),
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", repodoc.Errorf(repodoc.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for README requests.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.4)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: repodoc.ReadmeSystemInstruction}},
		},
		Temperature: &temp,
	}
}
