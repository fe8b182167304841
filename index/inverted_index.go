package index

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sort"

	internalErrors "github.com/gcbaptista/abstract-retrieval/internal/errors"
)

// InvertedIndex maps a term to the documents containing it and the term's frequency in each.
// It is built once from an externally supplied mapping and never mutated afterwards,
// so concurrent readers need no locking.
type InvertedIndex struct {
	postings map[string]PostingList
	pruned   int
}

// NewInvertedIndex validates raw postings and copies them into an InvertedIndex.
// Empty terms, empty document identifiers and negative frequencies are rejected.
// Zero frequencies are dropped (a document only appears under a term it contains);
// the number of dropped entries is reported by Pruned.
// Terms with no postings are kept and behave like absent terms.
func NewInvertedIndex(raw map[string]map[string]int) (*InvertedIndex, error) {
	ii := &InvertedIndex{postings: make(map[string]PostingList, len(raw))}

	for term, docs := range raw {
		if term == "" {
			return nil, internalErrors.NewInvalidIndexError("", "", "empty term")
		}
		pl := make(PostingList, len(docs))
		for docID, freq := range docs {
			if docID == "" {
				return nil, internalErrors.NewInvalidIndexError(term, "", "empty document identifier")
			}
			if freq < 0 {
				return nil, internalErrors.NewInvalidIndexError(term, docID, fmt.Sprintf("negative frequency %d", freq))
			}
			if freq == 0 {
				ii.pruned++
				continue
			}
			pl[docID] = freq
		}
		ii.postings[term] = pl
	}

	return ii, nil
}

// Postings returns the posting list for term, or nil when the term is unknown.
// The returned list is shared with the index and must not be modified.
func (ii *InvertedIndex) Postings(term string) PostingList {
	return ii.postings[term]
}

// Contains reports whether the term has an entry in the index (possibly with no postings).
func (ii *InvertedIndex) Contains(term string) bool {
	_, ok := ii.postings[term]
	return ok
}

// DocumentFrequency returns the number of documents containing term.
func (ii *InvertedIndex) DocumentFrequency(term string) int {
	return len(ii.postings[term])
}

// TotalOccurrences returns the sum of term's frequencies across the collection.
func (ii *InvertedIndex) TotalOccurrences(term string) int {
	return ii.postings[term].Total()
}

// Terms returns all indexed terms in lexical order.
func (ii *InvertedIndex) Terms() []string {
	terms := make([]string, 0, len(ii.postings))
	for term := range ii.postings {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

// ForEach calls fn for every term and its posting list, in no particular order.
// The posting lists must not be modified.
func (ii *InvertedIndex) ForEach(fn func(term string, pl PostingList)) {
	for term, pl := range ii.postings {
		fn(term, pl)
	}
}

// Len returns the number of distinct terms.
func (ii *InvertedIndex) Len() int {
	return len(ii.postings)
}

// Pruned returns how many zero-frequency postings were dropped at construction.
func (ii *InvertedIndex) Pruned() int {
	return ii.pruned
}

// DocumentIDs returns the set of every document identifier referenced by a posting.
func (ii *InvertedIndex) DocumentIDs() map[string]struct{} {
	ids := make(map[string]struct{})
	for _, pl := range ii.postings {
		for id := range pl {
			ids[id] = struct{}{}
		}
	}
	return ids
}

// DocumentOccurrences returns, per document, the sum of all its term frequencies.
func (ii *InvertedIndex) DocumentOccurrences() map[string]int {
	totals := make(map[string]int)
	for _, pl := range ii.postings {
		for id, freq := range pl {
			totals[id] += freq
		}
	}
	return totals
}

// Raw returns a deep copy of the postings in the plain term -> document -> frequency shape.
func (ii *InvertedIndex) Raw() map[string]map[string]int {
	raw := make(map[string]map[string]int, len(ii.postings))
	for term, pl := range ii.postings {
		docs := make(map[string]int, len(pl))
		for id, freq := range pl {
			docs[id] = freq
		}
		raw[term] = docs
	}
	return raw
}

// gobInvertedIndexData is a helper struct for Gob encoding/decoding InvertedIndex data.
type gobInvertedIndexData struct {
	Postings map[string]map[string]int
}

// GobEncode implements the gob.GobEncoder interface for InvertedIndex.
func (ii *InvertedIndex) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)
	if err := encoder.Encode(gobInvertedIndexData{Postings: ii.Raw()}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface for InvertedIndex.
// Decoded data goes through the same validation as NewInvertedIndex.
func (ii *InvertedIndex) GobDecode(data []byte) error {
	decodedData := gobInvertedIndexData{}

	decoder := gob.NewDecoder(bytes.NewBuffer(data))
	if err := decoder.Decode(&decodedData); err != nil {
		return err
	}

	validated, err := NewInvertedIndex(decodedData.Postings)
	if err != nil {
		return err
	}
	ii.postings = validated.postings
	ii.pruned = validated.pruned
	return nil
}
