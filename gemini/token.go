package gemini

import (
	"context"

	"github.com/fwojciec/repodoc"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

// TokenizerModel is a model the local tokenizer ships a vocabulary for.
const TokenizerModel = "gemini-2.0-flash"

var _ repodoc.TokenCounter = (*TokenCounter)(nil)

// TokenCounter counts tokens offline using the Gemini tokenizer.
type TokenCounter struct {
	tok *tokenizer.LocalTokenizer
}

// NewTokenCounter creates a new TokenCounter for the given model.
func NewTokenCounter(model string) (*TokenCounter, error) {
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, err
	}
	return &TokenCounter{tok: tok}, nil
}

// CountTokens counts the number of tokens in the given text.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}

	result, err := tc.tok.CountTokens([]*genai.Content{genai.NewContentFromText(text, "user")}, nil)
	if err != nil {
		return 0, err
	}
	return int(result.TotalTokens), nil
}

// CountPrompt counts the tokens of the README prompt built from files,
// which is what a Summarizer sends as the user message.
func CountPrompt(ctx context.Context, tc repodoc.TokenCounter, files []*repodoc.ExtractedFile) (int, error) {
	prompt, err := repodoc.BuildReadmePrompt(files)
	if err != nil {
		return 0, err
	}
	return tc.CountTokens(ctx, prompt)
}
