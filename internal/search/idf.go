package search

import (
	"fmt"
	"math"

	"github.com/gcbaptista/abstract-retrieval/index"
	internalErrors "github.com/gcbaptista/abstract-retrieval/internal/errors"
)

// IDFTable holds the inverse document frequency of every indexed term.
// It is derived once from an InvertedIndex and read-only afterwards.
type IDFTable struct {
	values         map[string]float64
	collectionSize int
}

// NewIDFTable derives the IDF of every term as ln(N / (df + 1)), where N is the fixed
// collection size and df the number of documents containing the term.
// Terms with no postings get 0. A term present in every document gets a negative
// value, which is kept as is: it down-weights ubiquitous terms.
func NewIDFTable(idx *index.InvertedIndex, collectionSize int) (IDFTable, error) {
	if collectionSize <= 0 {
		return IDFTable{}, internalErrors.NewValidationError("collection_size", fmt.Sprintf("must be positive, got %d", collectionSize))
	}

	table := IDFTable{
		values:         make(map[string]float64, idx.Len()),
		collectionSize: collectionSize,
	}

	var derr error
	idx.ForEach(func(term string, pl index.PostingList) {
		if derr != nil {
			return
		}
		idf := calculateIDF(collectionSize, len(pl))
		if math.IsNaN(idf) || math.IsInf(idf, 0) {
			derr = internalErrors.NewInvalidIndexError(term, "", fmt.Sprintf("non-finite IDF %v", idf))
			return
		}
		table.values[term] = idf
	})
	if derr != nil {
		return IDFTable{}, derr
	}
	return table, nil
}

// calculateIDF calculates the inverse document frequency
// IDF = ln(N / (df + 1)), or 0 when df is 0
func calculateIDF(collectionSize, docFreq int) float64 {
	if docFreq == 0 {
		return 0.0
	}
	idf := math.Log(float64(collectionSize) / float64(docFreq+1))
	if idf == 0 {
		return 0.0 // no negative zero
	}
	return idf
}

// Get returns the IDF of term, or 0 when the term is unknown.
func (t IDFTable) Get(term string) float64 {
	return t.values[term]
}

// Lookup returns the IDF of term and whether the term is in the table.
func (t IDFTable) Lookup(term string) (float64, bool) {
	v, ok := t.values[term]
	return v, ok
}

// Len returns the number of terms in the table.
func (t IDFTable) Len() int {
	return len(t.values)
}

// CollectionSize returns the N the table was derived with.
func (t IDFTable) CollectionSize() int {
	return t.collectionSize
}
