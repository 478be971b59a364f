// Package tokenize turns raw text into the stemmed tokens used by the TF-IDF model.
//
// All language-specific behavior lives in an explicit Rules value: the locale used
// for lowercasing, the letters accepted beyond a-z, the minimum word length, and
// the Snowball stemmer. A Tokenizer built from Rules never changes afterwards, so
// documents and questions tokenized by the same Tokenizer always agree on stems.
//
// Usage Example:
//
//	tok, err := tokenize.New(tokenize.Spanish())
//	stems := tok.Tokenize("¿Dónde juegan el perro y el gato?")
package tokenize

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kljensen/snowball"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Rules describes how one language is normalized.
type Rules struct {
	Name      string       // display name, e.g. "spanish"
	Locale    language.Tag // locale for case mapping
	Letters   string       // letters accepted in addition to a-z
	MinLength int          // shortest word kept, in runes
	Stemmer   string       // snowball language name; empty disables stemming
}

// Spanish returns the rules used by default: Spanish lowercasing, the accented
// vowels plus ü and ñ, words of two letters or more, and the Snowball Spanish stemmer.
func Spanish() Rules {
	return Rules{
		Name:      "spanish",
		Locale:    language.Spanish,
		Letters:   "áéíóúüñ",
		MinLength: 2,
		Stemmer:   "spanish",
	}
}

// Tokenizer applies a fixed set of Rules. It holds no mutable state and is safe for concurrent use.
type Tokenizer struct {
	rules     Rules
	separator *regexp.Regexp
}

// New validates rules and compiles the separator pattern.
func New(rules Rules) (*Tokenizer, error) {
	if rules.MinLength < 1 {
		return nil, fmt.Errorf("minimum token length must be at least 1, got %d", rules.MinLength)
	}

	for _, r := range rules.Letters {
		if !unicode.IsLetter(r) || unicode.IsUpper(r) {
			return nil, fmt.Errorf("invalid letter %q in alphabet: letters must be lowercase", r)
		}
	}

	if rules.Stemmer != "" {
		if _, err := snowball.Stem("prueba", rules.Stemmer, true); err != nil {
			return nil, fmt.Errorf("unsupported stemmer %q: %w", rules.Stemmer, err)
		}
	}

	// anything that is neither an accepted letter nor whitespace separates words
	separator, err := regexp.Compile(`[^a-z` + rules.Letters + `\s\p{Z}\v]+`)
	if err != nil {
		return nil, fmt.Errorf("failed to compile alphabet for %q: %w", rules.Name, err)
	}

	slog.Debug("Tokenizer created", "rules", rules.Name, "locale", rules.Locale.String(), "stemmer", rules.Stemmer)
	return &Tokenizer{rules: rules, separator: separator}, nil
}

// Rules returns the rules the tokenizer was built with.
func (t *Tokenizer) Rules() Rules {
	return t.rules
}

// Tokenize lowercases text, drops everything outside the alphabet, removes short
// words and stems what is left. Duplicates are kept in order because term
// frequency depends on them. The result is never nil.
func (t *Tokenizer) Tokenize(text string) []string {
	if text == "" {
		return []string{}
	}

	// a Caser carries state, so each call gets its own
	lower := cases.Lower(t.rules.Locale).String(text)
	cleaned := t.separator.ReplaceAllString(lower, " ")

	words := strings.FieldsFunc(cleaned, isSeparatorSpace)
	stems := make([]string, 0, len(words))
	for _, word := range words {
		if utf8.RuneCountInString(word) < t.rules.MinLength {
			continue
		}
		stems = append(stems, t.stem(word))
	}

	return stems
}

// stem reduces a single lowercase word to its root, falling back to the word itself.
func (t *Tokenizer) stem(word string) string {
	if t.rules.Stemmer == "" {
		return word
	}

	stemmed, err := snowball.Stem(word, t.rules.Stemmer, true)
	if err != nil || stemmed == "" {
		return word
	}
	return stemmed
}

func isSeparatorSpace(r rune) bool {
	return unicode.IsSpace(r) || unicode.Is(unicode.Z, r)
}
