// Package fixtures builds small, deterministic synthetic corpora for
// codec/forwardindex/terms/spans/nfa tests. Tokenization and stemming
// reuse the teacher's analyzer pipeline (FieldsFunc-based tokenize,
// lowercase, snowballeng stem) to produce two annotations of the same
// base field — "word" (surface form) and "lemma" (stemmed form) — named
// per §6.4's composite convention.
package fixtures

import (
	"strings"
	"unicode"

	snowballeng "github.com/kljensen/snowball/english"

	"github.com/corpusql/blacklab-core"
	"github.com/corpusql/blacklab-core/internal/memindex"
)

// tokenize splits text the same way the teacher's analyzer does: any
// non-letter, non-digit rune is a delimiter.
func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

func lowercase(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = strings.ToLower(t)
	}
	return out
}

func stem(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = snowballeng.Stem(t, false)
	}
	return out
}

// Corpus is a synthetic test corpus: a base field name and the raw
// document texts indexed into it under two annotations.
type Corpus struct {
	Base string
	Docs []string
}

// Build tokenizes and indexes every doc into a fresh memindex.Index,
// writing both the "word" annotation (lowercased surface form, marked
// primary) and the "lemma" annotation (stemmed form) at the same
// positions, then freezes the index so its term dictionaries are in byte
// order and ready for codec.WriteSegment.
func (c Corpus) Build() *memindex.Index {
	ix := memindex.New()

	wordField := blacklab.FieldName{Base: c.Base, Annotation: "word"}.String()
	lemmaField := blacklab.FieldName{Base: c.Base, Annotation: "lemma"}.String()

	for doc, text := range c.Docs {
		tokens := lowercase(tokenize(text))
		lemmas := stem(tokens)
		ix.AddAnnotation(wordField, doc, tokens, true)
		ix.AddAnnotation(lemmaField, doc, lemmas, false)
	}

	ix.Freeze()
	return ix
}

// WordField and LemmaField return the composite field names Build()
// indexed this corpus's annotations under.
func (c Corpus) WordField() string  { return blacklab.FieldName{Base: c.Base, Annotation: "word"}.String() }
func (c Corpus) LemmaField() string { return blacklab.FieldName{Base: c.Base, Annotation: "lemma"}.String() }
