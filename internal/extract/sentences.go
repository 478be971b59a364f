package extract

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/jdkato/prose/v2"
)

// Sentences splits every non-blank line of text into sentences and returns them
// one per line. Sentences never span two input lines.
func Sentences(text string) (string, error) {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		doc, err := prose.NewDocument(line,
			prose.WithTagging(false),
			prose.WithExtraction(false),
			prose.WithTokenization(false),
		)
		if err != nil {
			return "", fmt.Errorf("failed to segment sentences: %w", err)
		}

		sentences := doc.Sentences()
		if len(sentences) == 0 {
			out = append(out, line)
			continue
		}
		for _, s := range sentences {
			if sentence := strings.TrimSpace(s.Text); sentence != "" {
				out = append(out, sentence)
			}
		}
	}

	slog.Debug("Sentence segmentation completed", "sentences", len(out))
	return strings.Join(out, "\n"), nil
}
