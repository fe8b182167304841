package search

import (
	"math"
	"sort"
)

// weightedTerm is a single term-weight pair in a sparse vector.
type weightedTerm struct {
	Term   string
	Weight float64
}

// Vector is a sparse TF-IDF vector, always sorted by Term for merge-join operations.
type Vector []weightedTerm

// NewVector creates a sorted Vector from a term-weight map.
func NewVector(weights map[string]float64) Vector {
	if len(weights) == 0 {
		return nil
	}
	v := make(Vector, 0, len(weights))
	for term, w := range weights {
		v = append(v, weightedTerm{Term: term, Weight: w})
	}
	sort.Slice(v, func(i, j int) bool {
		return v[i].Term < v[j].Term
	})
	return v
}

// Norm returns the Euclidean norm over all components.
func (v Vector) Norm() float64 {
	var sum float64
	for _, t := range v {
		sum += t.Weight * t.Weight
	}
	return math.Sqrt(sum)
}

// Weight returns the weight of term, or 0 when absent.
func (v Vector) Weight(term string) float64 {
	i := sort.Search(len(v), func(i int) bool { return v[i].Term >= term })
	if i < len(v) && v[i].Term == term {
		return v[i].Weight
	}
	return 0
}

// dot computes the dot product over the shared terms of two sorted vectors.
func dot(a, b Vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Term == b[j].Term:
			sum += a[i].Weight * b[j].Weight
			i++
			j++
		case a[i].Term < b[j].Term:
			i++
		default:
			j++
		}
	}
	return sum
}

// CosineSimilarity computes the cosine of the angle between two sorted sparse vectors.
// The dot product runs over the shared terms; each norm runs over all of its vector's
// components. Returns 0 if either vector is empty or has zero norm.
func CosineSimilarity(a, b Vector) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	normA, normB := a.Norm(), b.Norm()
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot(a, b) / (normA * normB)
}
