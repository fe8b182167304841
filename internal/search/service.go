package search

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gcbaptista/abstract-retrieval/index"
	internalErrors "github.com/gcbaptista/abstract-retrieval/internal/errors"
	"github.com/gcbaptista/abstract-retrieval/internal/tokenizer"
	"github.com/gcbaptista/abstract-retrieval/services"
	"github.com/gcbaptista/abstract-retrieval/store"
)

// Service implements boolean and vector retrieval over one immutable collection.
// It fulfills the services.Searcher interface and is safe for concurrent use.
type Service struct {
	invertedIndex *index.InvertedIndex
	idf           IDFTable
	catalog       *store.Catalog
	tokenizer     *tokenizer.Tokenizer
	docIDs        []string // catalog order, fixed for reproducible rankings
}

// NewService creates a new search Service.
// Every document referenced by the index must be present in the catalog, so no
// result can name a document without metadata.
func NewService(invIndex *index.InvertedIndex, idf IDFTable, catalog *store.Catalog, tok *tokenizer.Tokenizer) (*Service, error) {
	if invIndex == nil {
		return nil, fmt.Errorf("inverted index cannot be nil")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog cannot be nil")
	}
	if tok == nil {
		return nil, fmt.Errorf("tokenizer cannot be nil")
	}

	for id := range invIndex.DocumentIDs() {
		if !catalog.Has(id) {
			return nil, internalErrors.NewInvalidIndexError("", id, "document referenced by postings is missing from the catalog")
		}
	}

	return &Service{
		invertedIndex: invIndex,
		idf:           idf,
		catalog:       catalog,
		tokenizer:     tok,
		docIDs:        catalog.IDs(),
	}, nil
}

// BooleanSearch returns the documents satisfying a boolean query such as
// "lgpd AND dados NOT saúde". Operators are case-insensitive and applied left to right.
// Stop-words are not removed from boolean queries.
func (s *Service) BooleanSearch(query string) []string {
	tokens := tokenizer.Words(query)
	ids := EvaluateBoolean(s.invertedIndex, tokens)
	slog.Debug("Boolean query evaluated", "tokens", len(tokens), "results", len(ids))
	return ids
}

// VectorSearch returns documents ranked by descending cosine similarity to the query.
func (s *Service) VectorSearch(query string) []string {
	scored := s.rank(query)
	ids := make([]string, len(scored))
	for i, sd := range scored {
		ids[i] = sd.DocumentID
	}
	return ids
}

// ScoredVectorSearch is VectorSearch with the similarity scores attached.
func (s *Service) ScoredVectorSearch(query string) []ScoredDocument {
	return s.rank(query)
}

func (s *Service) rank(query string) []ScoredDocument {
	terms := s.tokenizer.Tokenize(query)
	scored := RankDocuments(s.invertedIndex, s.idf, s.docIDs, terms)
	slog.Debug("Vector query ranked", "terms", len(terms), "candidates", len(s.docIDs), "results", len(scored))
	return scored
}

// Search runs a query in the requested mode and decorates hits with catalog metadata.
// The only error is an unrecognized mode; any query text yields a (possibly empty) result.
func (s *Service) Search(query services.SearchQuery) (services.SearchResult, error) {
	startTime := time.Now()

	if !query.Mode.Valid() {
		return services.SearchResult{}, internalErrors.NewValidationError("mode", "must be 'boolean' or 'vector', got '"+string(query.Mode)+"'")
	}

	var hits []services.HitResult
	switch query.Mode {
	case services.ModeBoolean:
		ids := s.BooleanSearch(query.QueryString)
		hits = make([]services.HitResult, 0, len(ids))
		for _, id := range ids {
			hits = append(hits, s.hit(id, nil))
		}
	case services.ModeVector:
		scored := s.rank(query.QueryString)
		hits = make([]services.HitResult, 0, len(scored))
		for _, sd := range scored {
			score := sd.Score
			hits = append(hits, s.hit(sd.DocumentID, &score))
		}
	}

	return services.SearchResult{
		Hits:    hits,
		Total:   len(hits),
		Mode:    query.Mode,
		Took:    time.Since(startTime).Microseconds(),
		QueryID: uuid.New().String(),
	}, nil
}

func (s *Service) hit(id string, score *float64) services.HitResult {
	doc, _ := s.catalog.Get(id)
	return services.HitResult{
		DocumentID: id,
		Title:      doc.Title,
		Authors:    doc.ShortAuthors(),
		Score:      score,
	}
}

// IDF returns the table the service scores with.
func (s *Service) IDF() IDFTable {
	return s.idf
}
