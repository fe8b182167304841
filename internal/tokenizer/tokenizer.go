package tokenizer

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// wordRegex matches maximal runs of word characters (letters, marks, digits, underscore)
// with hyphens allowed inside the run but never at its edges.
// For example "proteção-de-dados" is one token, "-lgpd-" yields "lgpd".
var wordRegex = regexp.MustCompile(`[\p{L}\p{M}\p{N}_](?:[\p{L}\p{M}\p{N}_-]*[\p{L}\p{M}\p{N}_])?`)

// Boolean operator words, compared after lowercasing.
const (
	OperatorAnd = "and"
	OperatorOr  = "or"
	OperatorNot = "not"
)

// DefaultStopWords is the closed list of Portuguese function words
// (articles, prepositions, conjunctions, common verb forms, pronouns) removed from queries.
var DefaultStopWords = []string{
	"a", "o", "de", "em", "com", "para", "que", "e", "da", "do", "dos", "das",
	"um", "uma", "se", "como", "sobre", "na", "no", "por", "os", "as", "ao", "à",
	"é", "são", "foi", "ser", "está", "estão", "ter", "tem", "não", "mas", "ou",
	"nem", "já", "ainda", "até", "após", "antes", "durante", "entre", "sob", "sem",
	"desde", "pela", "pelo", "pelos", "pelas", "nas", "nos", "uns", "umas",
}

// Tokenizer lowercases text, extracts word runs and drops stop-words.
// It is immutable after construction and safe for concurrent use.
type Tokenizer struct {
	stopWords map[string]struct{}
}

// New creates a Tokenizer with the given stop-word list.
// Stop-words are normalized the same way as input text.
func New(stopWords []string) *Tokenizer {
	set := make(map[string]struct{}, len(stopWords))
	for _, w := range stopWords {
		set[normalize(w)] = struct{}{}
	}
	return &Tokenizer{stopWords: set}
}

// NewDefault creates a Tokenizer using DefaultStopWords.
func NewDefault() *Tokenizer {
	return New(DefaultStopWords)
}

// Tokenize converts text into a slice of normalized terms.
// Order and duplicates of the input are preserved; stop-words are removed.
func (t *Tokenizer) Tokenize(text string) []string {
	words := Words(text)

	tokens := make([]string, 0, len(words)) // Initialize as empty slice, not nil
	for _, w := range words {
		if t.IsStopWord(w) {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

// IsStopWord reports whether an already normalized token is a stop-word.
func (t *Tokenizer) IsStopWord(token string) bool {
	_, ok := t.stopWords[token]
	return ok
}

// StopWords returns the number of configured stop-words.
func (t *Tokenizer) StopWords() int {
	return len(t.stopWords)
}

// Words lowercases text and extracts every word run without stop-word filtering.
// Boolean queries are tokenized this way so operator words and all terms survive.
func Words(text string) []string {
	if text == "" {
		return make([]string, 0)
	}
	words := wordRegex.FindAllString(normalize(text), -1)
	if words == nil {
		return make([]string, 0)
	}
	return words
}

// IsOperator reports whether a normalized token is one of the boolean operator words.
func IsOperator(token string) bool {
	switch token {
	case OperatorAnd, OperatorOr, OperatorNot:
		return true
	}
	return false
}

// normalize lowercases and then composes accents (NFC). Lowercasing can turn
// a base letter into one that composes with the following mark, so NFC goes last.
func normalize(text string) string {
	return norm.NFC.String(strings.ToLower(text))
}
