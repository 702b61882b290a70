package repodoc

import (
	"context"
	"encoding/json"
	"strings"
)

// ReadmeSystemInstruction is the system message sent with every README request.
const ReadmeSystemInstruction = "You are an expert technical writer. You write clear, accurate README.md files for software repositories. Base the README only on the repository files provided. Do not invent features, commands or configuration that the files do not show."

// Summarizer turns extracted repository files into a README.
type Summarizer interface {
	// Summarize sends the files to a language model in a single,
	// non-streaming request and returns the generated text verbatim.
	// Returns EINVALID if files is empty.
	Summarize(ctx context.Context, files []*ExtractedFile) (string, error)
}

// ReadmeGenerator produces a README for the repository at a URL.
type ReadmeGenerator interface {
	// Generate crawls the repository and summarizes its files.
	// Returns EINVALID if repoURL is empty and ENOTFOUND if no files
	// could be extracted.
	Generate(ctx context.Context, repoURL string) (string, error)
}

// BuildReadmePrompt builds the user prompt embedding the JSON-serialized files.
func BuildReadmePrompt(files []*ExtractedFile) (string, error) {
	if files == nil {
		files = []*ExtractedFile{}
	}
	payload, err := json.MarshalIndent(files, "", "  ")
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("Write a README.md for the repository whose files are listed below as JSON. ")
	sb.WriteString("Each entry has the file URL, owner, repo, path and content. ")
	sb.WriteString("Describe what the project does and how to install and use it.\n\n")
	sb.WriteString("<files>\n")
	sb.Write(payload)
	sb.WriteString("\n</files>")
	return sb.String(), nil
}
