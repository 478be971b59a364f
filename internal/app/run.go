// Package app contains the core application logic for the nearest CLI tool:
// collecting documents, analyzing a question against them, and rendering the result.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/chriscorrea/nearest/internal/extract"
	"github.com/chriscorrea/nearest/internal/fetch"
	"github.com/chriscorrea/nearest/internal/progress"
)

// OutputFormat defines the output format for results
type OutputFormat int

const (
	// markdown output format (default)
	Markdown OutputFormat = iota
	// plaintext output format with tables
	Text
	// JSON output format
	JSON
)

// String returns the string representation of the output
func (f OutputFormat) String() string {
	switch f {
	case Markdown:
		return "Markdown"
	case Text:
		return "Text"
	case JSON:
		return "JSON"
	default:
		return "Unknown"
	}
}

// SplitMode controls how loaded text is cut into documents.
type SplitMode int

const (
	// one document per line
	Lines SplitMode = iota
	// one document per sentence
	Sentences
)

// String returns the flag value for the mode.
func (m SplitMode) String() string {
	switch m {
	case Lines:
		return "lines"
	case Sentences:
		return "sentences"
	default:
		return "unknown"
	}
}

// ParseSplitMode converts a flag value into a SplitMode.
func ParseSplitMode(s string) (SplitMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lines", "line":
		return Lines, nil
	case "sentences", "sentence":
		return Sentences, nil
	default:
		return Lines, fmt.Errorf("unknown split mode %q (want lines or sentences)", s)
	}
}

// Config holds all configuration options for a non-interactive run.
type Config struct {
	Sources          []string // file paths, URLs, or "-" for stdin; empty uses DefaultDocuments
	DefaultDocuments string   // newline separated documents used without sources
	Selector         string   // CSS selector for HTML sources
	IncludeAll       bool     // convert whole HTML pages without readability filtering
	Split            SplitMode
	Question         string
	OutputFormat     OutputFormat
	Precision        int // decimal places for displayed weights and scores
	Analysis         Options
	Quiet            bool // suppress warnings
	Debug            bool
}

// Run collects the documents, analyzes the question, and renders the report.
func Run(ctx context.Context, cfg Config) (string, error) {
	documents, err := CollectDocuments(ctx, cfg)
	if err != nil {
		return "", err
	}

	result, err := Analyze(cfg.Analysis, Request{Documents: documents, Question: cfg.Question})
	if err != nil {
		return "", err
	}

	return Render(result, cfg.OutputFormat, cfg.Precision)
}

// CollectDocuments returns the newline separated documents text for cfg:
// the content of every source, or DefaultDocuments when there are none.
// Sources that fail are skipped with a warning; if all fail an error is returned.
func CollectDocuments(ctx context.Context, cfg Config) (string, error) {
	if len(cfg.Sources) == 0 {
		return splitText(cfg.DefaultDocuments, cfg.Split)
	}

	var indicator *progress.Indicator
	if !cfg.Quiet && hasRemote(cfg.Sources) {
		indicator = progress.New(os.Stderr, "Loading documents...")
		indicator.Start(ctx)
		defer indicator.Stop()
	}

	var combined strings.Builder
	loaded := 0
	for _, source := range cfg.Sources {
		text, err := loadSource(ctx, source, cfg.Selector, cfg.IncludeAll)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			slog.Debug("Source failed", "source", source, "error", err)
			if !cfg.Quiet {
				fmt.Fprintf(os.Stderr, "Warning: failed to process source %q: %v\n", source, err)
			}
			continue
		}

		if combined.Len() > 0 {
			combined.WriteString("\n")
		}
		combined.WriteString(text)
		loaded++
	}

	if loaded == 0 {
		return "", fmt.Errorf("no content extracted from any source")
	}

	return splitText(combined.String(), cfg.Split)
}

// loadSource fetches one source and converts HTML to plain lines.
func loadSource(ctx context.Context, source, selector string, includeAll bool) (string, error) {
	data, err := fetch.ReadAll(ctx, source)
	if err != nil {
		return "", err
	}

	var baseURL *url.URL
	if fetch.IsURL(source) {
		baseURL, _ = url.Parse(source) // nil on error is fine for extraction
	}

	text, err := extract.Documents(data, selector, includeAll, baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no content extracted")
	}

	slog.Debug("Source loaded", "source", source, "bytes", len(data))
	return text, nil
}

func splitText(text string, mode SplitMode) (string, error) {
	if mode != Sentences {
		return text, nil
	}
	return extract.Sentences(text)
}

func hasRemote(sources []string) bool {
	for _, s := range sources {
		if fetch.IsURL(s) {
			return true
		}
	}
	return false
}
