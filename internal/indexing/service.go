// Package indexing produces inverted indexes from document abstracts. It is the
// offline counterpart of the retrieval core, which only ever reads indexes.
package indexing

import (
	"fmt"
	"log/slog"

	"github.com/gcbaptista/abstract-retrieval/index"
	"github.com/gcbaptista/abstract-retrieval/internal/tokenizer"
	"github.com/gcbaptista/abstract-retrieval/model"
	"github.com/gcbaptista/abstract-retrieval/store"
)

// Service tokenizes abstracts and counts term frequencies per document.
type Service struct {
	tokenizer *tokenizer.Tokenizer
}

// NewService creates a new indexing Service using tok for normalization and stop-word removal.
func NewService(tok *tokenizer.Tokenizer) (*Service, error) {
	if tok == nil {
		return nil, fmt.Errorf("tokenizer cannot be nil")
	}
	return &Service{tokenizer: tok}, nil
}

// BuildIndex indexes the abstracts of every catalog document with tok.
func BuildIndex(catalog *store.Catalog, tok *tokenizer.Tokenizer) (*index.InvertedIndex, error) {
	s, err := NewService(tok)
	if err != nil {
		return nil, err
	}
	return s.BuildIndex(catalog.Documents())
}

// BuildIndex counts, for every document with an abstract, how often each significant
// term occurs in it. Documents without an abstract contribute nothing.
func (s *Service) BuildIndex(docs []model.Document) (*index.InvertedIndex, error) {
	raw := make(map[string]map[string]int)
	skipped := 0
	for _, doc := range docs {
		if !doc.HasAbstract() {
			skipped++
			continue
		}
		s.addDocument(raw, doc)
	}
	if skipped > 0 {
		slog.Warn("Documents without abstract were not indexed", "count", skipped)
	}
	return index.NewInvertedIndex(raw)
}

// TermFrequencies returns the significant terms of text with their counts.
func (s *Service) TermFrequencies(text string) map[string]int {
	counts := make(map[string]int)
	for _, term := range s.tokenizer.Tokenize(text) {
		counts[term]++
	}
	return counts
}

// addDocument merges one document's term counts into raw.
func (s *Service) addDocument(raw map[string]map[string]int, doc model.Document) {
	for term, count := range s.TermFrequencies(doc.Abstract) {
		postings, ok := raw[term]
		if !ok {
			postings = make(map[string]int)
			raw[term] = postings
		}
		postings[doc.DocumentID] += count
	}
}
