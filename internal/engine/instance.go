package engine

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gcbaptista/abstract-retrieval/config"
	"github.com/gcbaptista/abstract-retrieval/index"
	internalErrors "github.com/gcbaptista/abstract-retrieval/internal/errors"
	"github.com/gcbaptista/abstract-retrieval/internal/search"
	"github.com/gcbaptista/abstract-retrieval/internal/tokenizer"
	"github.com/gcbaptista/abstract-retrieval/model"
	"github.com/gcbaptista/abstract-retrieval/services"
	"github.com/gcbaptista/abstract-retrieval/store"
)

// Collection holds everything needed to answer queries over one document collection:
// settings, inverted index, IDF table, catalog and tokenizer. It is built once and
// never mutated, so any number of goroutines may query it concurrently.
// It implements the services.CollectionAccessor interface.
type Collection struct {
	settings      config.CollectionSettings
	invertedIndex *index.InvertedIndex
	catalog       *store.Catalog
	searcher      *search.Service
	stats         services.CollectionStats
}

// NewCollection validates the inputs and derives the IDF table and searcher.
// A CollectionSize of 0 in settings resolves to the number of catalog documents.
func NewCollection(settings config.CollectionSettings, invIndex *index.InvertedIndex, catalog *store.Catalog) (*Collection, error) {
	if invIndex == nil || catalog == nil {
		return nil, fmt.Errorf("collection '%s' needs both an inverted index and a catalog", settings.Name)
	}
	settings.ApplyDefaults()
	if problems := settings.Validate(); len(problems) > 0 {
		return nil, internalErrors.NewValidationError("settings", strings.Join(problems, "; "))
	}

	n := settings.CollectionSize
	if n == 0 {
		n = catalog.Len()
	}
	idf, err := search.NewIDFTable(invIndex, n)
	if err != nil {
		return nil, fmt.Errorf("collection '%s': %w", settings.Name, err)
	}

	searcher, err := search.NewService(invIndex, idf, catalog, tokenizer.New(settings.StopWords))
	if err != nil {
		return nil, fmt.Errorf("collection '%s': %w", settings.Name, err)
	}

	c := &Collection{
		settings:      settings,
		invertedIndex: invIndex,
		catalog:       catalog,
		searcher:      searcher,
	}
	c.stats = c.computeStats(n)
	return c, nil
}

// Search delegates to the underlying search service.
func (c *Collection) Search(query services.SearchQuery) (services.SearchResult, error) {
	return c.searcher.Search(query)
}

// BooleanSearch returns the documents matching a boolean query in lexical order.
func (c *Collection) BooleanSearch(query string) []string {
	return c.searcher.BooleanSearch(query)
}

// VectorSearch returns the documents ranked by cosine similarity to the query.
func (c *Collection) VectorSearch(query string) []string {
	return c.searcher.VectorSearch(query)
}

// Settings returns a copy of the collection's settings.
func (c *Collection) Settings() config.CollectionSettings {
	s := c.settings
	s.StopWords = append([]string(nil), c.settings.StopWords...)
	return s
}

// Document returns the full catalog record, abstract included.
func (c *Collection) Document(id string) (model.Document, error) {
	doc, ok := c.catalog.Get(id)
	if !ok {
		return model.Document{}, internalErrors.NewDocumentNotFoundError(id, c.settings.Name)
	}
	return doc, nil
}

// Stats returns the statistics computed when the collection was built.
func (c *Collection) Stats() services.CollectionStats {
	s := c.stats
	s.Documents = append([]services.DocumentStats(nil), c.stats.Documents...)
	return s
}

// computeStats sums the postings of every catalog document. Documents without
// any postings report 0.
func (c *Collection) computeStats(collectionSize int) services.CollectionStats {
	perDoc := c.invertedIndex.DocumentOccurrences()

	stats := services.CollectionStats{
		Name:           c.settings.Name,
		CollectionSize: collectionSize,
		DocumentCount:  c.catalog.Len(),
		TermCount:      c.invertedIndex.Len(),
		Documents:      make([]services.DocumentStats, 0, c.catalog.Len()),
	}

	for _, doc := range c.catalog.Documents() {
		count, ok := perDoc[doc.DocumentID]
		if !ok {
			slog.Warn("Document has no postings in the index", "collection", c.settings.Name, "document_id", doc.DocumentID)
		}
		stats.TotalOccurrences += count
		stats.Documents = append(stats.Documents, services.DocumentStats{
			DocumentID:       doc.DocumentID,
			Title:            doc.Title,
			SignificantTerms: count,
		})
		stats.LastDocumentID = doc.DocumentID
	}
	return stats
}
