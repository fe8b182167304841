// Package testing provides fixtures and helpers shared by the retrieval tests.
package testing

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/abstract-retrieval/config"
	"github.com/gcbaptista/abstract-retrieval/index"
	"github.com/gcbaptista/abstract-retrieval/internal/engine"
	"github.com/gcbaptista/abstract-retrieval/model"
	"github.com/gcbaptista/abstract-retrieval/services"
	"github.com/gcbaptista/abstract-retrieval/store"
)

// SampleCollectionName is the name used by CreateTestCollection.
const SampleCollectionName = "artigos"

// SamplePostings is a small index: "lgpd" appears in both documents, "dados" only in Artigo 01.
func SamplePostings() map[string]map[string]int {
	return map[string]map[string]int{
		"lgpd":        {"Artigo 01": 3, "Artigo 02": 1},
		"dados":       {"Artigo 01": 2},
		"privacidade": {"Artigo 02": 2},
		"saude":       {"Artigo 03": 1},
	}
}

// SampleDocuments returns the catalog matching SamplePostings.
func SampleDocuments() []model.Document {
	return []model.Document{
		{
			DocumentID: "Artigo 01",
			Title:      "LGPD e dados pessoais",
			Authors:    "Silva, A.; Pereira, D.",
			Abstract:   "A LGPD regula o tratamento de dados pessoais.",
		},
		{
			DocumentID: "Artigo 02",
			Title:      "Privacidade na rede",
			Authors:    "Souza, B.",
			Abstract:   "Privacidade e LGPD em redes sociais.",
		},
		{
			DocumentID: "Artigo 03",
			Title:      "Dados de saúde",
			Authors:    "Costa, C.",
			Abstract:   "Saude digital.",
		},
	}
}

// CreateTestCollection builds the sample collection with a fixed N of 20.
func CreateTestCollection(t *testing.T, name string) *engine.Collection {
	t.Helper()

	invIndex, err := index.NewInvertedIndex(SamplePostings())
	require.NoError(t, err, "Failed to build sample index")
	catalog, err := store.NewCatalog(SampleDocuments())
	require.NoError(t, err, "Failed to build sample catalog")

	c, err := engine.NewCollection(config.CollectionSettings{Name: name, CollectionSize: 20}, invIndex, catalog)
	require.NoError(t, err, "Failed to create test collection")
	return c
}

// CreateTestEngine creates an engine persisting into a per-test temporary
// directory, with the sample collection already registered.
func CreateTestEngine(t *testing.T) *engine.Engine {
	t.Helper()

	eng := engine.NewEngine(t.TempDir())
	require.NoError(t, eng.AddCollection(CreateTestCollection(t, SampleCollectionName)))
	return eng
}

// WriteCollectionDir writes the sample inputs in the on-disk layout the loader
// expects and returns the directory. Abstracts go to files, except for the
// last document whose file is omitted.
func WriteCollectionDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeJSON(t, filepath.Join(dir, config.DefaultIndexFile), SamplePostings())

	docs := SampleDocuments()
	abstractsDir := filepath.Join(dir, config.DefaultAbstractsDir)
	require.NoError(t, os.MkdirAll(abstractsDir, 0750))
	for i := range docs {
		if i < len(docs)-1 {
			path := filepath.Join(abstractsDir, fmt.Sprintf(config.DefaultAbstractPattern, i+1))
			require.NoError(t, os.WriteFile(path, []byte(docs[i].Abstract), 0600))
		}
		docs[i].Abstract = ""
	}
	writeJSON(t, filepath.Join(dir, config.DefaultMetadataFile), docs)
	return dir
}

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0600))
}

// SearchTestCase represents a test case for search operations
type SearchTestCase struct {
	Name         string
	Query        services.SearchQuery
	ExpectedIDs  []string
	ValidateFunc func(t *testing.T, results *services.SearchResult)
}

// RunSearchTests runs a suite of search tests against a collection
func RunSearchTests(t *testing.T, collection services.Searcher, tests []SearchTestCase) {
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			results, err := collection.Search(tt.Query)
			require.NoError(t, err, "Search should not fail")

			assert.Equal(t, len(tt.ExpectedIDs), results.Total, "Result count should match")
			if len(tt.ExpectedIDs) == 0 {
				assert.Empty(t, results.Hits)
			} else {
				assert.Equal(t, tt.ExpectedIDs, results.DocumentIDs(), "Result order should match")
			}

			if tt.ValidateFunc != nil {
				tt.ValidateFunc(t, &results)
			}
		})
	}
}
