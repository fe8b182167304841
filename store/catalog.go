package store

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"strings"

	internalErrors "github.com/gcbaptista/abstract-retrieval/internal/errors"
	"github.com/gcbaptista/abstract-retrieval/model"
)

// Catalog is the immutable metadata catalog of a collection.
// Documents keep the order they were supplied in; that order drives every
// "all documents" iteration so ranked results are reproducible.
type Catalog struct {
	docs []model.Document
	byID map[string]int // DocumentID -> position in docs
}

// NewCatalog validates and copies docs into a Catalog.
// Empty and duplicate document identifiers are rejected.
func NewCatalog(docs []model.Document) (*Catalog, error) {
	c := &Catalog{
		docs: make([]model.Document, 0, len(docs)),
		byID: make(map[string]int, len(docs)),
	}
	for i, doc := range docs {
		if strings.TrimSpace(doc.DocumentID) == "" {
			return nil, internalErrors.NewInvalidCatalogError(i, "empty DocId")
		}
		if _, dup := c.byID[doc.DocumentID]; dup {
			return nil, internalErrors.NewInvalidCatalogError(i, fmt.Sprintf("duplicate DocId '%s'", doc.DocumentID))
		}
		c.byID[doc.DocumentID] = len(c.docs)
		c.docs = append(c.docs, doc)
	}
	return c, nil
}

// Get returns the document with the given identifier.
func (c *Catalog) Get(id string) (model.Document, bool) {
	pos, ok := c.byID[id]
	if !ok {
		return model.Document{}, false
	}
	return c.docs[pos], true
}

// Has reports whether id is a catalog key.
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// IDs returns the document identifiers in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.docs))
	for i, doc := range c.docs {
		ids[i] = doc.DocumentID
	}
	return ids
}

// Documents returns a copy of the documents in catalog order.
func (c *Catalog) Documents() []model.Document {
	docs := make([]model.Document, len(c.docs))
	copy(docs, c.docs)
	return docs
}

// Len returns the number of documents.
func (c *Catalog) Len() int {
	return len(c.docs)
}

// gobCatalogData is a helper struct for Gob encoding/decoding Catalog data.
type gobCatalogData struct {
	Docs []model.Document
}

// GobEncode implements the gob.GobEncoder interface for Catalog.
func (c *Catalog) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)
	if err := encoder.Encode(gobCatalogData{Docs: c.docs}); err != nil {
		return nil, fmt.Errorf("failed to gob encode catalog data: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface for Catalog.
func (c *Catalog) GobDecode(data []byte) error {
	decodedData := gobCatalogData{}

	decoder := gob.NewDecoder(bytes.NewBuffer(data))
	if err := decoder.Decode(&decodedData); err != nil {
		return fmt.Errorf("failed to gob decode catalog data: %w", err)
	}

	validated, err := NewCatalog(decodedData.Docs)
	if err != nil {
		return err
	}
	c.docs = validated.docs
	c.byID = validated.byID
	return nil
}
