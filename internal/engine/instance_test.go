package engine_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/abstract-retrieval/config"
	"github.com/gcbaptista/abstract-retrieval/index"
	"github.com/gcbaptista/abstract-retrieval/internal/engine"
	internalErrors "github.com/gcbaptista/abstract-retrieval/internal/errors"
	testutil "github.com/gcbaptista/abstract-retrieval/internal/testing"
	"github.com/gcbaptista/abstract-retrieval/model"
	"github.com/gcbaptista/abstract-retrieval/services"
	"github.com/gcbaptista/abstract-retrieval/store"
)

func TestCollection_Search(t *testing.T) {
	c := testutil.CreateTestCollection(t, "artigos")

	testutil.RunSearchTests(t, c, []testutil.SearchTestCase{
		{
			Name:        "boolean OR",
			Query:       services.SearchQuery{QueryString: "saude OR lgpd", Mode: services.ModeBoolean},
			ExpectedIDs: []string{"Artigo 01", "Artigo 02", "Artigo 03"},
		},
		{
			Name:        "boolean NOT",
			Query:       services.SearchQuery{QueryString: "lgpd NOT privacidade", Mode: services.ModeBoolean},
			ExpectedIDs: []string{"Artigo 01"},
		},
		{
			Name:        "vector ranking",
			Query:       services.SearchQuery{QueryString: "lgpd saude", Mode: services.ModeVector},
			ExpectedIDs: []string{"Artigo 03", "Artigo 01", "Artigo 02"},
			ValidateFunc: func(t *testing.T, results *services.SearchResult) {
				for _, hit := range results.Hits {
					require.NotNil(t, hit.Score)
				}
				assert.Equal(t, "Dados de saúde", results.Hits[0].Title)
			},
		},
		{
			Name:        "vector stop-words only",
			Query:       services.SearchQuery{QueryString: "de que para", Mode: services.ModeVector},
			ExpectedIDs: nil,
		},
	})

	assert.Equal(t, []string{"Artigo 01"}, c.BooleanSearch("lgpd AND dados"))
	assert.Equal(t, []string{"Artigo 02"}, c.VectorSearch("privacidade"))
}

func TestNewCollection_ResolvesCollectionSize(t *testing.T) {
	invIndex, err := index.NewInvertedIndex(testutil.SamplePostings())
	require.NoError(t, err)
	catalog, err := store.NewCatalog(testutil.SampleDocuments())
	require.NoError(t, err)

	c, err := engine.NewCollection(config.CollectionSettings{Name: "artigos"}, invIndex, catalog)
	require.NoError(t, err)

	assert.Equal(t, 3, c.Stats().CollectionSize)
	assert.Equal(t, 0, c.Settings().CollectionSize, "configured value is reported unchanged")
	assert.Equal(t, config.DefaultIndexFile, c.Settings().IndexFile)
}

func TestNewCollection_Errors(t *testing.T) {
	invIndex, err := index.NewInvertedIndex(testutil.SamplePostings())
	require.NoError(t, err)
	catalog, err := store.NewCatalog(testutil.SampleDocuments())
	require.NoError(t, err)
	partial, err := store.NewCatalog(testutil.SampleDocuments()[:2])
	require.NoError(t, err)
	empty, err := store.NewCatalog(nil)
	require.NoError(t, err)
	emptyIndex, err := index.NewInvertedIndex(nil)
	require.NoError(t, err)

	tests := []struct {
		name     string
		settings config.CollectionSettings
		index    *index.InvertedIndex
		catalog  *store.Catalog
		wantIs   error
	}{
		{"invalid name", config.CollectionSettings{Name: " "}, invIndex, catalog, internalErrors.ErrInvalidInput},
		{"negative size", config.CollectionSettings{Name: "a", CollectionSize: -1}, invIndex, catalog, internalErrors.ErrInvalidInput},
		{"empty catalog resolves N to zero", config.CollectionSettings{Name: "a"}, emptyIndex, empty, internalErrors.ErrInvalidInput},
		{"index references unknown document", config.CollectionSettings{Name: "a"}, invIndex, partial, internalErrors.ErrInvalidIndex},
		{"nil index", config.CollectionSettings{Name: "a"}, nil, catalog, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.NewCollection(tt.settings, tt.index, tt.catalog)
			require.Error(t, err)
			if tt.wantIs != nil {
				assert.True(t, errors.Is(err, tt.wantIs), "got %v", err)
			}
		})
	}
}

func TestCollection_Document(t *testing.T) {
	c := testutil.CreateTestCollection(t, "artigos")

	doc, err := c.Document("Artigo 02")
	require.NoError(t, err)
	assert.Equal(t, "Privacidade na rede", doc.Title)
	assert.Equal(t, "Privacidade e LGPD em redes sociais.", doc.Abstract)

	_, err = c.Document("Artigo 99")
	assert.True(t, errors.Is(err, internalErrors.ErrDocumentNotFound))
}

func TestCollection_Stats(t *testing.T) {
	c := testutil.CreateTestCollection(t, "artigos")

	stats := c.Stats()
	assert.Equal(t, "artigos", stats.Name)
	assert.Equal(t, 20, stats.CollectionSize)
	assert.Equal(t, 3, stats.DocumentCount)
	assert.Equal(t, 4, stats.TermCount)
	assert.Equal(t, 9, stats.TotalOccurrences)
	assert.Equal(t, "Artigo 03", stats.LastDocumentID)
	assert.Equal(t, []services.DocumentStats{
		{DocumentID: "Artigo 01", Title: "LGPD e dados pessoais", SignificantTerms: 5},
		{DocumentID: "Artigo 02", Title: "Privacidade na rede", SignificantTerms: 3},
		{DocumentID: "Artigo 03", Title: "Dados de saúde", SignificantTerms: 1},
	}, stats.Documents)

	stats.Documents[0].SignificantTerms = 100
	assert.Equal(t, 5, c.Stats().Documents[0].SignificantTerms, "Stats must return a copy")
}

func TestCollection_StatsDocumentWithoutPostings(t *testing.T) {
	invIndex, err := index.NewInvertedIndex(map[string]map[string]int{"lgpd": {"Artigo 01": 2}})
	require.NoError(t, err)
	catalog, err := store.NewCatalog([]model.Document{{DocumentID: "Artigo 01"}, {DocumentID: "Artigo 02"}})
	require.NoError(t, err)

	c, err := engine.NewCollection(config.CollectionSettings{Name: "a"}, invIndex, catalog)
	require.NoError(t, err)

	stats := c.Stats()
	assert.Equal(t, 2, stats.TotalOccurrences)
	assert.Equal(t, 0, stats.Documents[1].SignificantTerms)
}

func TestCollection_CustomStopWords(t *testing.T) {
	invIndex, err := index.NewInvertedIndex(testutil.SamplePostings())
	require.NoError(t, err)
	catalog, err := store.NewCatalog(testutil.SampleDocuments())
	require.NoError(t, err)

	c, err := engine.NewCollection(config.CollectionSettings{Name: "a", CollectionSize: 20, StopWords: []string{"lgpd"}}, invIndex, catalog)
	require.NoError(t, err)

	assert.Empty(t, c.VectorSearch("lgpd"))
	assert.Equal(t, []string{"Artigo 01", "Artigo 02"}, c.BooleanSearch("lgpd"), "boolean queries keep stop-words")
}

func TestCollection_ConcurrentSearch(t *testing.T) {
	c := testutil.CreateTestCollection(t, "artigos")
	want := c.VectorSearch("lgpd dados saude")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				assert.Equal(t, want, c.VectorSearch("lgpd dados saude"))
				c.BooleanSearch("lgpd OR saude NOT dados")
			}
		}()
	}
	wg.Wait()
}
