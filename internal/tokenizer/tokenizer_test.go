package tokenizer

import (
	"reflect"
	"testing"

	"golang.org/x/text/unicode/norm"
)

func TestTokenize(t *testing.T) {
	tok := NewDefault()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty string", "", []string{}},
		{"simple lowercase", "lgpd dados", []string{"lgpd", "dados"}},
		{"uppercase is lowered", "LGPD Dados", []string{"lgpd", "dados"}},
		{"with punctuation", "privacidade, dados!", []string{"privacidade", "dados"}},
		{"stop-words removed", "proteção de dados para o cidadão", []string{"proteção", "dados", "cidadão"}},
		{"accented stop-word removed", "não é só isso", []string{"só", "isso"}},
		{"hyphenated word kept", "bem-estar digital", []string{"bem-estar", "digital"}},
		{"edge hyphens stripped", "-lgpd- --", []string{"lgpd"}},
		{"underscore kept", "dado_pessoal", []string{"dado_pessoal"}},
		{"numbers kept", "lei 13709 de 2018", []string{"lei", "13709", "2018"}},
		{"duplicates preserved", "dados dados lgpd dados", []string{"dados", "dados", "lgpd", "dados"}},
		{"only symbols", "!@#$%^", []string{}},
		{"only stop-words", "de para com", []string{}},
		{"decomposed accent composed", "prote\u0063\u0327a\u0303o", []string{"prote\u00e7\u00e3o"}},
		{"composes after lowering", "J\u030c", []string{"\u01f0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tok.Tokenize(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokenize_Idempotent(t *testing.T) {
	tok := NewDefault()
	inputs := []string{
		"A Lei Geral de Proteção de Dados (LGPD) e o tratamento de dados pessoais.",
		"bem-estar, privacidade; segurança da informação",
		"",
	}
	for _, in := range inputs {
		first := tok.Tokenize(in)
		second := tok.Tokenize(joinTokens(first))
		if !reflect.DeepEqual(first, second) {
			t.Errorf("tokenizing %q twice: first %v, second %v", in, first, second)
		}
	}
}

func TestWords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", []string{}},
		{"operators preserved", "lgpd AND dados", []string{"lgpd", "and", "dados"}},
		{"stop-words preserved", "dados de saúde", []string{"dados", "de", "saúde"}},
		{"operator prefix is a plain word", "android ORacle", []string{"android", "oracle"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Words(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Words(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize_IsNFC(t *testing.T) {
	inputs := []string{"J\u030c", "T\u0308", "\u03aa\u0301", "PROTEC\u0327A\u0303O", "İstanbul"}
	for _, in := range inputs {
		got := normalize(in)
		if !norm.NFC.IsNormalString(got) {
			t.Errorf("normalize(%q) = %q, not in NFC", in, got)
		}
		if again := normalize(got); again != got {
			t.Errorf("normalize not idempotent for %q: %q then %q", in, got, again)
		}
	}
}

func TestIsOperator(t *testing.T) {
	for _, op := range []string{"and", "or", "not"} {
		if !IsOperator(op) {
			t.Errorf("IsOperator(%q) = false, want true", op)
		}
	}
	for _, w := range []string{"AND", "nota", "", "lgpd"} {
		if IsOperator(w) {
			t.Errorf("IsOperator(%q) = true, want false", w)
		}
	}
}

func TestNew_CustomStopWords(t *testing.T) {
	tok := New([]string{"The", "of"})
	got := tok.Tokenize("The State of the Art")
	want := []string{"state", "art"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize() = %v, want %v", got, want)
	}
	if tok.StopWords() != 2 {
		t.Errorf("StopWords() = %d, want 2", tok.StopWords())
	}
}

func joinTokens(tokens []string) string {
	out := ""
	for i, tok := range tokens {
		if i > 0 {
			out += " "
		}
		out += tok
	}
	return out
}
