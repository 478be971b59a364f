// Package counter measures the size of documents shown in analysis reports.
//
// Two strategies are available: words (whitespace separated) and characters
// (Unicode runes). Both sit behind the Counter interface so reports can list
// any set of measures side by side.
//
// Usage Example:
//
//	words := counter.NewWordCounter().Count("El perro ladra.")
//	// words == 3
package counter

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// Counter defines the interface for different text counting strategies.
type Counter interface {
	// Count returns the number of units (words or characters) in given text.
	Count(text string) int

	// Name returns a human-readable name for this counting method (for logging and column headers)
	Name() string
}

// CountingMethod represents the available counting strategies.
type CountingMethod int

const (
	// Words counts words using whitespace splitting
	Words CountingMethod = iota
	// Characters counts Unicode characters including whitespace
	Characters
)

// String returns the string representation of the counting method.
func (cm CountingMethod) String() string {
	switch cm {
	case Words:
		return "words"
	case Characters:
		return "characters"
	default:
		return "unknown"
	}
}

// NewCounter returns the Counter for method, or an error for an unknown method.
func NewCounter(method CountingMethod) (Counter, error) {
	switch method {
	case Words:
		return NewWordCounter(), nil
	case Characters:
		return NewCharCounter(), nil
	default:
		return nil, fmt.Errorf("unknown counting method %d", int(method))
	}
}

// WordCounter counts whitespace-separated words.
type WordCounter struct{}

// NewWordCounter creates a new WordCounter instance.
func NewWordCounter() Counter {
	return &WordCounter{}
}

// Count returns the number of words in text. Punctuation attached to a word
// does not split it, so "ladra." is one word.
func (wc *WordCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(strings.Fields(text))
}

// Name returns "words".
func (wc *WordCounter) Name() string {
	return "words"
}

// CharCounter counts runes rather than bytes, so "ñ" is one character.
type CharCounter struct{}

// NewCharCounter creates a new CharCounter instance.
func NewCharCounter() Counter {
	return &CharCounter{}
}

// Count returns the number of UTF-8 characters in text.
func (cc *CharCounter) Count(text string) int {
	return utf8.RuneCountInString(text)
}

// Name returns "characters".
func (cc *CharCounter) Name() string {
	return "characters"
}

// CountAll applies every counter to text and returns the results keyed by counter name.
func CountAll(text string, counters ...Counter) map[string]int {
	counts := make(map[string]int, len(counters))
	for _, c := range counters {
		counts[c.Name()] = c.Count(text)
	}
	slog.Debug("Text measured", "textLength", len(text), "counts", counts)
	return counts
}
