package search

import (
	"sort"

	"github.com/gcbaptista/abstract-retrieval/index"
	"github.com/gcbaptista/abstract-retrieval/internal/tokenizer"
)

// EvaluateBoolean evaluates a boolean token stream against the index and returns
// the matching document identifiers in lexical order.
//
// The working set is seeded from the first non-operator token. The stream is then
// folded strictly left to right: every AND/OR/NOT followed by another token applies
// intersection/union/difference with that token's postings and consumes it.
// There is no precedence and no grouping, so "a AND b OR c" is ((a AND b) OR c)
// and "a OR b AND c" is ((a OR b) AND c).
//
// Unknown operands act as empty sets. A trailing operator is ignored. If the seed
// term has no postings the result is empty.
func EvaluateBoolean(idx *index.InvertedIndex, tokens []string) []string {
	seed := ""
	for _, tok := range tokens {
		if !tokenizer.IsOperator(tok) {
			seed = tok
			break
		}
	}
	if seed == "" {
		return []string{}
	}

	seedPostings := idx.Postings(seed)
	if len(seedPostings) == 0 {
		return []string{}
	}
	result := seedPostings.DocIDs()

	for i := 0; i < len(tokens)-1; {
		op := tokens[i]
		if !tokenizer.IsOperator(op) {
			i++
			continue
		}
		applyOperator(result, op, idx.Postings(tokens[i+1]))
		i += 2
	}

	ids := make([]string, 0, len(result))
	for id := range result {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// applyOperator updates result in place with the operand's postings.
func applyOperator(result map[string]struct{}, op string, operand index.PostingList) {
	switch op {
	case tokenizer.OperatorAnd:
		for id := range result {
			if _, ok := operand[id]; !ok {
				delete(result, id)
			}
		}
	case tokenizer.OperatorOr:
		for id := range operand {
			result[id] = struct{}{}
		}
	case tokenizer.OperatorNot:
		for id := range operand {
			delete(result, id)
		}
	}
}
