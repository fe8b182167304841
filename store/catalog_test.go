package store

import (
	"bytes"
	"encoding/gob"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalErrors "github.com/gcbaptista/abstract-retrieval/internal/errors"
	"github.com/gcbaptista/abstract-retrieval/model"
)

func sampleDocs() []model.Document {
	return []model.Document{
		{DocumentID: "Artigo 02", Title: "Segundo", Authors: "B"},
		{DocumentID: "Artigo 01", Title: "Primeiro", Authors: "A"},
		{DocumentID: "Artigo 03", Title: "Terceiro", Authors: "C"},
	}
}

func TestNewCatalog_PreservesOrder(t *testing.T) {
	c, err := NewCatalog(sampleDocs())
	require.NoError(t, err)

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"Artigo 02", "Artigo 01", "Artigo 03"}, c.IDs())

	doc, ok := c.Get("Artigo 01")
	require.True(t, ok)
	assert.Equal(t, "Primeiro", doc.Title)

	_, ok = c.Get("Artigo 99")
	assert.False(t, ok)
	assert.True(t, c.Has("Artigo 03"))
	assert.False(t, c.Has(""))
}

func TestNewCatalog_Validation(t *testing.T) {
	tests := []struct {
		name string
		docs []model.Document
	}{
		{"empty id", []model.Document{{DocumentID: "  "}}},
		{"duplicate id", []model.Document{{DocumentID: "Artigo 01"}, {DocumentID: "Artigo 01"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.docs)
			if !errors.Is(err, internalErrors.ErrInvalidCatalog) {
				t.Errorf("expected ErrInvalidCatalog, got %v", err)
			}
		})
	}
}

func TestCatalog_DocumentsIsCopy(t *testing.T) {
	c, err := NewCatalog(sampleDocs())
	require.NoError(t, err)

	docs := c.Documents()
	docs[0].Title = "changed"

	doc, _ := c.Get("Artigo 02")
	assert.Equal(t, "Segundo", doc.Title)
}

func TestCatalog_GobRoundTrip(t *testing.T) {
	c, err := NewCatalog(sampleDocs())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(c))

	decoded := &Catalog{}
	require.NoError(t, gob.NewDecoder(&buf).Decode(decoded))

	assert.Equal(t, c.IDs(), decoded.IDs())
	assert.Equal(t, c.Documents(), decoded.Documents())
}
