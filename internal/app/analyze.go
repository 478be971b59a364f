package app

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/chriscorrea/bm25md"
	"github.com/chriscorrea/nearest/internal/counter"
	"github.com/chriscorrea/nearest/internal/tfidf"
	"github.com/chriscorrea/nearest/internal/tokenize"
)

// DefaultThreshold is the similarity a best match must exceed to be reported with confidence.
const DefaultThreshold = 0.01

// Validation errors returned by Analyze. Messages are meant for the end user.
var (
	ErrEmptyCorpus   = errors.New("enter at least one document")
	ErrEmptyQuestion = errors.New("write a question")
)

// Options controls an analysis.
type Options struct {
	Rules       tokenize.Rules      // normalization and stemming rules
	Tokenizer   *tokenize.Tokenizer // prebuilt tokenizer; nil builds one from Rules
	Threshold   float64             // confidence threshold for the best score
	CompareBM25 bool                // also compute BM25md scores for inspection
}

// DefaultOptions returns Spanish rules and the default threshold.
func DefaultOptions() Options {
	return Options{
		Rules:     tokenize.Spanish(),
		Threshold: DefaultThreshold,
	}
}

// Request is one analysis: newline separated documents and a question.
type Request struct {
	Documents string
	Question  string
}

// DocumentScore describes one document and how it scored against the question.
type DocumentScore struct {
	Position   int     `json:"position"` // 1-based position in the corpus
	Label      string  `json:"label"`
	Text       string  `json:"text"`
	Score      float64 `json:"score"`          // cosine similarity in [0,1]
	BM25       float64 `json:"bm25,omitempty"` // only with Options.CompareBM25
	Words      int     `json:"words"`
	Characters int     `json:"characters"`
	Stems      int     `json:"stems"` // recognised tokens after normalization
}

// Result is the outcome of Analyze.
type Result struct {
	Question  string
	Matrix    tfidf.Matrix
	Documents []DocumentScore // corpus order
	Ranking   []DocumentScore // highest score first, ties in corpus order
	Best      DocumentScore
	Confident bool
	Threshold float64
	BM25      bool
}

// Scores returns the similarity of every document in corpus order.
func (r *Result) Scores() []float64 {
	scores := make([]float64, len(r.Documents))
	for i, d := range r.Documents {
		scores[i] = d.Score
	}
	return scores
}

// SplitDocuments splits text into one document per line, trimming each line
// and dropping blank ones.
func SplitDocuments(text string) []string {
	var documents []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			documents = append(documents, line)
		}
	}
	return documents
}

// DocumentLabel returns the display label for a 1-based position.
func DocumentLabel(position int) string {
	return fmt.Sprintf("Doc %d", position)
}

// Analyze finds the document most similar to the question.
//
// Validation happens before any tokenization: ErrEmptyCorpus when no non-blank
// line remains, ErrEmptyQuestion when the question is blank. Otherwise the best
// document is always returned; Confident only reports whether its score exceeds
// opts.Threshold.
func Analyze(opts Options, req Request) (*Result, error) {
	documents := SplitDocuments(req.Documents)
	if len(documents) == 0 {
		return nil, ErrEmptyCorpus
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	tokenizer := opts.Tokenizer
	if tokenizer == nil {
		var err error
		if tokenizer, err = tokenize.New(opts.Rules); err != nil {
			return nil, fmt.Errorf("invalid language rules: %w", err)
		}
	}

	counters, err := documentCounters()
	if err != nil {
		return nil, err
	}

	slog.Debug("Analyzing question", "documents", len(documents), "question", question, "rules", tokenizer.Rules().Name)

	corpus := tfidf.NewCorpus(documents, tokenizer)

	labels := make([]string, len(documents))
	for i := range documents {
		labels[i] = DocumentLabel(i + 1)
	}

	similarities := corpus.Similarities(question)

	var bm25Scores []float64
	if opts.CompareBM25 {
		bm25Scores = scoreBM25(documents, question)
	}

	scored := make([]DocumentScore, len(documents))
	for i, doc := range documents {
		stems := 0
		for _, count := range corpus.TermCounts[i] {
			stems += count
		}
		counts := counter.CountAll(doc, counters...)
		scored[i] = DocumentScore{
			Position:   i + 1,
			Label:      labels[i],
			Text:       doc,
			Score:      similarities[i],
			Words:      counts[counter.Words.String()],
			Characters: counts[counter.Characters.String()],
			Stems:      stems,
		}
		if bm25Scores != nil {
			scored[i].BM25 = bm25Scores[i]
		}
	}

	best := selectBest(similarities)

	ranking := append([]DocumentScore(nil), scored...)
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Score > ranking[j].Score
	})

	result := &Result{
		Question:  question,
		Matrix:    corpus.Matrix(labels),
		Documents: scored,
		Ranking:   ranking,
		Best:      scored[best],
		Confident: similarities[best] > opts.Threshold,
		Threshold: opts.Threshold,
		BM25:      opts.CompareBM25,
	}

	slog.Debug("Analysis completed", "best", result.Best.Label, "score", result.Best.Score, "confident", result.Confident)
	return result, nil
}

// documentCounters returns the size measures reported for every document.
func documentCounters() ([]counter.Counter, error) {
	methods := []counter.CountingMethod{counter.Words, counter.Characters}
	counters := make([]counter.Counter, 0, len(methods))
	for _, method := range methods {
		c, err := counter.NewCounter(method)
		if err != nil {
			return nil, err
		}
		counters = append(counters, c)
	}
	return counters, nil
}

// selectBest returns the index of the strictly highest score; the first wins a tie.
func selectBest(scores []float64) int {
	best := 0
	for i, score := range scores {
		if score > scores[best] {
			best = i
		}
	}
	return best
}

// scoreBM25 ranks the same documents with BM25md as a lexical baseline.
func scoreBM25(documents []string, question string) []float64 {
	corpus := bm25md.NewCorpus()
	parser := bm25md.NewMarkdownFieldParser()
	for i, doc := range documents {
		corpus.AddDocument(bm25md.Document{
			ID:       i,
			Fields:   parser.ParseDocument(doc),
			Original: doc,
		})
	}

	scores := make([]float64, len(documents))
	for i := range documents {
		scores[i] = corpus.Score(question, i)
	}
	return scores
}
