// Package tfidf provides a TF-IDF (Term Frequency-Inverse Document Frequency) vector space model.
//
// A Corpus is built once per analysis from a list of documents. It fixes the vocabulary,
// the inverse document frequencies and an L2-normalized weight row per document, so that
// cosine similarity against a query reduces to a dot product.
//
// Weighting:
//   - Term Frequency (TF): raw count of a term in a document
//   - Inverse Document Frequency (IDF): ln((1+N)/(1+df)) + 1, which stays defined and
//     positive even for terms present in every document
//
// Usage Example:
//
//	corpus := tfidf.NewCorpus(documents, tokenizer)
//	scores := corpus.Similarities("search query")
//
// Tokenization is delegated to the caller's Tokenizer; the same one is used for
// documents and queries.
package tfidf

import (
	"log/slog"
	"math"
	"sort"
)

// Tokenizer turns text into terms.
type Tokenizer interface {
	Tokenize(text string) []string
}

// Corpus holds the docs and pre-calculated TF-IDF data for querying.
type Corpus struct {
	Documents      []string         // Original documents
	TermCounts     []map[string]int // raw term counts for each document
	DocFrequencies map[string]int   // Document frequency for each term
	TotalDocuments int              // Total number of documents
	Vocabulary     []string         // distinct terms, sorted
	IDF            []float64        // IDF per vocabulary column
	Weights        [][]float64      // L2-normalized TF-IDF rows, one per document

	tokenizer Tokenizer
	columns   map[string]int
}

// NewCorpus creates a TF-IDF corpus from a collection of documents.
// Every term seen in any document becomes a column; rare terms are never pruned.
func NewCorpus(documents []string, tokenizer Tokenizer) *Corpus {
	corpus := &Corpus{
		Documents:      documents,
		TermCounts:     make([]map[string]int, len(documents)),
		DocFrequencies: make(map[string]int),
		TotalDocuments: len(documents),
		Vocabulary:     []string{},
		IDF:            []float64{},
		Weights:        make([][]float64, len(documents)),
		tokenizer:      tokenizer,
		columns:        make(map[string]int),
	}

	if len(documents) == 0 {
		slog.Debug("Empty document collection provided")
		return corpus
	}

	slog.Debug("Creating TF-IDF corpus", "documentCount", len(documents))

	// count terms per document and track document frequency
	for docIdx, doc := range documents {
		counts := countTerms(tokenizer.Tokenize(doc))
		corpus.TermCounts[docIdx] = counts
		for term := range counts {
			corpus.DocFrequencies[term]++
		}
	}

	// stable column order
	for term := range corpus.DocFrequencies {
		corpus.Vocabulary = append(corpus.Vocabulary, term)
	}
	sort.Strings(corpus.Vocabulary)

	corpus.IDF = make([]float64, len(corpus.Vocabulary))
	for col, term := range corpus.Vocabulary {
		corpus.columns[term] = col
		corpus.IDF[col] = SmoothIDF(corpus.TotalDocuments, corpus.DocFrequencies[term])
	}

	for docIdx, counts := range corpus.TermCounts {
		corpus.Weights[docIdx] = corpus.weigh(counts)
	}

	slog.Debug("TF-IDF corpus created", "totalTerms", len(corpus.Vocabulary), "documents", corpus.TotalDocuments)
	return corpus
}

// SmoothIDF returns ln((1+totalDocs)/(1+docFreq)) + 1.
func SmoothIDF(totalDocs, docFreq int) float64 {
	return math.Log(float64(1+totalDocs)/float64(1+docFreq)) + 1
}

// Vectorize projects a query into the corpus vector space.
// Terms outside the vocabulary are dropped; the result is L2-normalized
// unless it is all zeros.
func (c *Corpus) Vectorize(query string) []float64 {
	counts := countTerms(c.tokenizer.Tokenize(query))

	known := make(map[string]int, len(counts))
	for term, count := range counts {
		if _, ok := c.columns[term]; ok {
			known[term] = count
		}
	}

	slog.Debug("Query vectorized", "queryTerms", len(counts), "knownTerms", len(known))
	return c.weigh(known)
}

// Similarities returns the cosine similarity between query and every document, in corpus order.
// Every score is in [0,1].
func (c *Corpus) Similarities(query string) []float64 {
	queryVec := c.Vectorize(query)

	scores := make([]float64, c.TotalDocuments)
	for docIdx, row := range c.Weights {
		scores[docIdx] = CosineSimilarity(queryVec, row)
	}

	slog.Debug("Similarities computed", "documents", c.TotalDocuments)
	return scores
}

// Matrix returns a labeled copy of the weight rows. labels must have one entry
// per document; missing labels are left empty.
func (c *Corpus) Matrix(labels []string) Matrix {
	rows := make([]string, c.TotalDocuments)
	copy(rows, labels)

	values := make([][]float64, c.TotalDocuments)
	for i, row := range c.Weights {
		values[i] = append([]float64(nil), row...)
	}

	return Matrix{
		Rows:    rows,
		Columns: append([]string(nil), c.Vocabulary...),
		Values:  values,
	}
}

// weigh turns raw term counts into an L2-normalized TF-IDF row.
func (c *Corpus) weigh(counts map[string]int) []float64 {
	row := make([]float64, len(c.Vocabulary))
	for term, count := range counts {
		col := c.columns[term]
		row[col] = float64(count) * c.IDF[col]
	}
	normalize(row)
	return row
}

// CosineSimilarity computes the cosine of the angle between a and b, clamped to [0,1]
// against rounding drift on parallel vectors. It returns 0 when either vector is
// all zeros or the lengths differ.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	normA, normB := Norm(a), Norm(b)
	if normA == 0 || normB == 0 {
		return 0
	}
	return min(1, max(0, dot(a, b)/(normA*normB)))
}

// Norm returns the Euclidean length of v.
func Norm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

func normalize(v []float64) {
	norm := Norm(v)
	if norm == 0 {
		return
	}
	for i := range v {
		v[i] /= norm
	}
}

// dot expects len(a) == len(b).
func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// countTerms returns raw occurrence counts.
func countTerms(tokens []string) map[string]int {
	counts := make(map[string]int, len(tokens))
	for _, token := range tokens {
		counts[token]++
	}
	return counts
}
