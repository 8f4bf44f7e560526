package fixtures_test

import (
	"testing"

	"github.com/corpusql/blacklab-core"
	"github.com/corpusql/blacklab-core/fixtures"
)

func TestCorpusBuildWordAndLemmaFields(t *testing.T) {
	corpus := fixtures.Corpus{Base: "contents", Docs: []string{"The foxes jumped"}}
	ix := corpus.Build()

	wordField := corpus.WordField()
	lemmaField := corpus.LemmaField()
	if wordField != "contents%word" {
		t.Fatalf("WordField = %q, want contents%%word", wordField)
	}
	if lemmaField != "contents%lemma" {
		t.Fatalf("LemmaField = %q, want contents%%lemma", lemmaField)
	}

	enum, err := ix.TermsOf(wordField)
	if err != nil {
		t.Fatalf("TermsOf(word): %v", err)
	}
	var words []string
	for enum.Next() {
		words = append(words, string(enum.Term()))
	}
	wantWords := []string{"foxes", "jumped", "the"} // lowercased, byte-sorted
	if len(words) != len(wantWords) {
		t.Fatalf("words = %v, want %v", words, wantWords)
	}
	for i := range wantWords {
		if words[i] != wantWords[i] {
			t.Fatalf("words = %v, want %v", words, wantWords)
		}
	}

	lemmaEnum, err := ix.TermsOf(lemmaField)
	if err != nil {
		t.Fatalf("TermsOf(lemma): %v", err)
	}
	found := false
	for lemmaEnum.Next() {
		if string(lemmaEnum.Term()) == "fox" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected stemmed lemma \"fox\" for \"foxes\"")
	}
}

func TestCorpusLemmaNotPrimary(t *testing.T) {
	corpus := fixtures.Corpus{Base: "contents", Docs: []string{"running"}}
	ix := corpus.Build()

	enum, err := ix.TermsOf(corpus.LemmaField())
	if err != nil {
		t.Fatalf("TermsOf: %v", err)
	}
	if !enum.Next() {
		t.Fatal("expected a lemma term")
	}
	pi, err := enum.Postings()
	if err != nil {
		t.Fatalf("Postings: %v", err)
	}
	if !pi.NextDoc() {
		t.Fatal("expected a doc")
	}
	positions := pi.Positions()
	if !positions.Next() {
		t.Fatal("expected a position")
	}
	if blacklab.IsPrimaryValue(positions.Payload()) {
		t.Fatal("lemma annotation must not be marked primary")
	}
}
