package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/abstract-retrieval/index"
	"github.com/gcbaptista/abstract-retrieval/internal/tokenizer"
	"github.com/gcbaptista/abstract-retrieval/model"
	"github.com/gcbaptista/abstract-retrieval/store"
)

// --- Test Helpers ---

// newSampleIndex builds the two-term index used throughout the boolean tests.
func newSampleIndex(t *testing.T) *index.InvertedIndex {
	t.Helper()
	ii, err := index.NewInvertedIndex(map[string]map[string]int{
		"lgpd":  {"Artigo 01": 3, "Artigo 02": 1},
		"dados": {"Artigo 01": 2},
	})
	require.NoError(t, err)
	return ii
}

// newRankingIndex adds terms unique to single documents.
func newRankingIndex(t *testing.T) *index.InvertedIndex {
	t.Helper()
	ii, err := index.NewInvertedIndex(map[string]map[string]int{
		"lgpd":        {"Artigo 01": 3, "Artigo 02": 1},
		"dados":       {"Artigo 01": 2},
		"privacidade": {"Artigo 02": 2},
		"saude":       {"Artigo 03": 1},
	})
	require.NoError(t, err)
	return ii
}

func newSampleCatalog(t *testing.T) *store.Catalog {
	t.Helper()
	c, err := store.NewCatalog([]model.Document{
		{DocumentID: "Artigo 01", Title: "LGPD e dados pessoais", Authors: "Silva, A."},
		{DocumentID: "Artigo 02", Title: "Privacidade na rede", Authors: "Souza, B."},
		{DocumentID: "Artigo 03", Title: "Dados de saúde", Authors: "Costa, C."},
	})
	require.NoError(t, err)
	return c
}

func setupTestSearchService(t *testing.T, ii *index.InvertedIndex, collectionSize int) *Service {
	t.Helper()
	idf, err := NewIDFTable(ii, collectionSize)
	require.NoError(t, err)
	svc, err := NewService(ii, idf, newSampleCatalog(t), tokenizer.NewDefault())
	require.NoError(t, err)
	return svc
}
