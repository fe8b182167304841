package search

import (
	"reflect"
	"testing"

	"github.com/gcbaptista/abstract-retrieval/internal/tokenizer"
)

func TestEvaluateBoolean(t *testing.T) {
	ii := newSampleIndex(t)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"AND", "lgpd AND dados", []string{"Artigo 01"}},
		{"OR", "lgpd OR dados", []string{"Artigo 01", "Artigo 02"}},
		{"NOT", "lgpd NOT dados", []string{"Artigo 02"}},
		{"case-insensitive operators and terms", "LGPD and Dados", []string{"Artigo 01"}},
		{"single term", "lgpd", []string{"Artigo 01", "Artigo 02"}},
		{"punctuation around tokens", "lgpd, AND (dados)!", []string{"Artigo 01"}},
		{"adjacent terms without operator", "lgpd dados", []string{"Artigo 01", "Artigo 02"}},
		{"empty query", "", []string{}},
		{"whitespace query", "   ", []string{}},
		{"only operators", "AND OR NOT", []string{}},
		{"unknown seed term", "ausente OR lgpd", []string{}},
		{"stop-word seed is not filtered", "de OR lgpd", []string{}},
		{"unknown AND operand is empty set", "lgpd AND ausente", []string{}},
		{"unknown OR operand is empty set", "lgpd OR ausente", []string{"Artigo 01", "Artigo 02"}},
		{"unknown NOT operand is empty set", "lgpd NOT ausente", []string{"Artigo 01", "Artigo 02"}},
		{"dangling operator ignored", "lgpd AND", []string{"Artigo 01", "Artigo 02"}},
		{"leading operator consumes seed", "NOT dados", []string{}},
		{"left fold AND then OR", "lgpd AND dados OR lgpd", []string{"Artigo 01", "Artigo 02"}},
		{"left fold OR then AND", "dados OR lgpd AND dados", []string{"Artigo 01"}},
		{"operator as operand", "lgpd OR AND dados", []string{"Artigo 01", "Artigo 02"}},
		{"garbage", "#$%&*()", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateBoolean(ii, tokenizer.Words(tt.query))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("EvaluateBoolean(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestEvaluateBoolean_AndIsSubsetOfSingleTerm(t *testing.T) {
	ii := newRankingIndex(t)
	terms := []string{"lgpd", "dados", "privacidade", "saude", "ausente"}

	for _, t1 := range terms {
		single := toSet(EvaluateBoolean(ii, []string{t1}))
		for _, t2 := range terms {
			both := EvaluateBoolean(ii, []string{t1, "and", t2})
			for _, id := range both {
				if _, ok := single[id]; !ok {
					t.Errorf("%q AND %q returned %q which %q alone does not", t1, t2, id, t1)
				}
			}
		}
	}
}

func TestEvaluateBoolean_DoesNotMutateIndex(t *testing.T) {
	ii := newSampleIndex(t)
	before := ii.Raw()

	EvaluateBoolean(ii, []string{"lgpd", "not", "dados"})
	EvaluateBoolean(ii, []string{"lgpd", "and", "dados"})

	if !reflect.DeepEqual(before, ii.Raw()) {
		t.Errorf("index changed after evaluation: before %v, after %v", before, ii.Raw())
	}
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
