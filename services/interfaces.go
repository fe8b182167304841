package services

import (
	"context"
	"strings"

	"github.com/gcbaptista/abstract-retrieval/config"
	internalErrors "github.com/gcbaptista/abstract-retrieval/internal/errors"
	"github.com/gcbaptista/abstract-retrieval/model"
)

// SearchMode selects the retrieval model. Exactly two values are recognized.
type SearchMode string

const (
	ModeBoolean SearchMode = "boolean" // exact set matching with AND/OR/NOT
	ModeVector  SearchMode = "vector"  // TF-IDF cosine ranking
)

// ParseSearchMode maps a case-insensitive mode name to a SearchMode.
func ParseSearchMode(s string) (SearchMode, error) {
	mode := SearchMode(strings.ToLower(strings.TrimSpace(s)))
	if !mode.Valid() {
		return "", internalErrors.NewValidationError("mode", "must be 'boolean' or 'vector', got '"+s+"'")
	}
	return mode, nil
}

// Valid reports whether m is one of the two recognized modes.
func (m SearchMode) Valid() bool {
	return m == ModeBoolean || m == ModeVector
}

// HitResult represents a single document in the search results.
type HitResult struct {
	DocumentID string   `json:"doc_id"`
	Title      string   `json:"title"`
	Authors    string   `json:"authors"`         // truncated for listings, see model.Document.ShortAuthors
	Score      *float64 `json:"score,omitempty"` // cosine similarity, vector mode only
}

type SearchResult struct {
	Hits    []HitResult `json:"hits"`
	Total   int         `json:"total"`
	Mode    SearchMode  `json:"mode"`
	Took    int64       `json:"took_us"`  // microseconds
	QueryID string      `json:"query_id"` // unique UUID for this search query
}

// DocumentIDs returns the hit identifiers in result order.
func (r SearchResult) DocumentIDs() []string {
	ids := make([]string, len(r.Hits))
	for i, hit := range r.Hits {
		ids[i] = hit.DocumentID
	}
	return ids
}

type SearchQuery struct {
	QueryString string
	Mode        SearchMode
}

// DocumentStats reports how many significant term occurrences a document holds.
type DocumentStats struct {
	DocumentID       string `json:"doc_id"`
	Title            string `json:"title"`
	SignificantTerms int    `json:"significant_terms"`
}

// CollectionStats summarizes a loaded collection.
type CollectionStats struct {
	Name             string          `json:"name"`
	CollectionSize   int             `json:"collection_size"` // N used for IDF
	DocumentCount    int             `json:"document_count"`
	TermCount        int             `json:"term_count"`
	TotalOccurrences int             `json:"total_occurrences"`
	LastDocumentID   string          `json:"last_doc_id,omitempty"`
	Documents        []DocumentStats `json:"documents"`
}

// Searcher defines operations for querying a collection
type Searcher interface {
	Search(query SearchQuery) (SearchResult, error)
}

// CollectionAccessor exposes one loaded, immutable collection.
type CollectionAccessor interface {
	Searcher
	Settings() config.CollectionSettings
	Document(id string) (model.Document, error)
	Stats() CollectionStats
}

// CollectionManager manages the set of loaded collections
type CollectionManager interface {
	LoadCollection(settings config.CollectionSettings, dir string) error
	// LoadCollectionContext stops reading inputs once ctx is cancelled.
	LoadCollectionContext(ctx context.Context, settings config.CollectionSettings, dir string) error
	GetCollection(name string) (CollectionAccessor, error)
	ListCollections() []string
	DeleteCollection(name string) error
	PersistCollection(name string) error
}
