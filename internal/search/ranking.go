package search

import (
	"sort"

	"github.com/gcbaptista/abstract-retrieval/index"
)

// ScoredDocument pairs a document with its cosine similarity to the query.
type ScoredDocument struct {
	DocumentID string
	Score      float64
}

// QueryVector weights each query term by its frequency in the query times its IDF.
// Terms missing from the IDF table are dropped.
func QueryVector(idf IDFTable, terms []string) Vector {
	counts := make(map[string]int, len(terms))
	for _, term := range terms {
		counts[term]++
	}

	weights := make(map[string]float64, len(counts))
	for term, count := range counts {
		w, ok := idf.Lookup(term)
		if !ok {
			continue
		}
		weights[term] = float64(count) * w
	}
	return NewVector(weights)
}

// DocumentVectors builds the TF-IDF vector of each requested document in one pass
// over the index. A document's vector holds every term with a posting for it.
func DocumentVectors(idx *index.InvertedIndex, idf IDFTable, docIDs []string) map[string]Vector {
	wanted := make(map[string]map[string]float64, len(docIDs))
	for _, id := range docIDs {
		wanted[id] = make(map[string]float64)
	}

	idx.ForEach(func(term string, pl index.PostingList) {
		w := idf.Get(term)
		for id, freq := range pl {
			if weights, ok := wanted[id]; ok {
				weights[term] = float64(freq) * w
			}
		}
	})

	vectors := make(map[string]Vector, len(wanted))
	for id, weights := range wanted {
		vectors[id] = NewVector(weights)
	}
	return vectors
}

// RankDocuments scores every document in docIDs against the query terms and returns
// those with strictly positive similarity, best first. Equal scores keep docIDs order.
func RankDocuments(idx *index.InvertedIndex, idf IDFTable, docIDs []string, terms []string) []ScoredDocument {
	if len(terms) == 0 {
		return []ScoredDocument{}
	}

	query := QueryVector(idf, terms)
	if len(query) == 0 {
		return []ScoredDocument{}
	}

	docVectors := DocumentVectors(idx, idf, docIDs)

	scored := make([]ScoredDocument, 0)
	for _, id := range docIDs {
		sim := CosineSimilarity(query, docVectors[id])
		if sim > 0 {
			scored = append(scored, ScoredDocument{DocumentID: id, Score: sim})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}
