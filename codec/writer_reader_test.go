package codec_test

import (
	"testing"

	"github.com/corpusql/blacklab-core/codec"
	"github.com/corpusql/blacklab-core/fixtures"
	"github.com/corpusql/blacklab-core/internal/memindex"
)

func TestWriteReadSegmentRoundTrip(t *testing.T) {
	corpus := fixtures.Corpus{
		Base: "contents",
		Docs: []string{
			"the quick brown fox",
			"the lazy dog sleeps",
			"foxes jump over dogs",
		},
	}
	ix := corpus.Build()

	files, err := codec.WriteSegment(ix, "seg-1", "memindex", codec.ByteCollator{}, codec.FoldCollator{})
	if err != nil {
		t.Fatalf("WriteSegment: %v", err)
	}

	reader, err := codec.OpenSegmentReader(files, "seg-1", "memindex")
	if err != nil {
		t.Fatalf("OpenSegmentReader: %v", err)
	}

	wordField := corpus.WordField()

	// Q2: byte-identical round trip for a representative doc's tokens.
	tokens, err := reader.DocTokens(wordField, 0, 0, 4)
	if err != nil {
		t.Fatalf("DocTokens: %v", err)
	}
	if len(tokens) != 4 {
		t.Fatalf("len(tokens) = %d, want 4", len(tokens))
	}

	terms, err := reader.Terms(wordField)
	if err != nil {
		t.Fatalf("Terms: %v", err)
	}
	got := make([]string, len(tokens))
	for i, id := range tokens {
		term, err := terms.Term(id)
		if err != nil {
			t.Fatalf("Term(%d): %v", id, err)
		}
		got[i] = string(term)
	}
	want := []string{"the", "quick", "brown", "fox"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("doc 0 tokens = %v, want %v", got, want)
		}
	}
}

func TestSegmentReaderFieldsAndSortPos(t *testing.T) {
	// Built directly on memindex rather than fixtures.Corpus, whose Build
	// lowercases every token and so would never produce "Apple".
	wordField := "contents%word"
	ix := memindex.New()
	ix.AddAnnotation(wordField, 0, []string{"Apple", "banana", "apple"}, true)
	ix.AddAnnotation(wordField, 1, []string{"Banana", "APPLE", "cherry"}, true)
	ix.Freeze()

	files, err := codec.WriteSegment(ix, "seg-1", "memindex", codec.ByteCollator{}, codec.FoldCollator{})
	if err != nil {
		t.Fatalf("WriteSegment: %v", err)
	}
	reader, err := codec.OpenSegmentReader(files, "seg-1", "memindex")
	if err != nil {
		t.Fatalf("OpenSegmentReader: %v", err)
	}

	terms, err := reader.Terms(wordField)
	if err != nil {
		t.Fatalf("Terms: %v", err)
	}

	// "apple" and "Apple" collate equal case-insensitively; their insensitive
	// sort positions must match even though they're distinct terms.
	var appleLower, appleUpper int32 = -1, -1
	err = terms.All(func(id int32, term []byte) bool {
		switch string(term) {
		case "apple":
			appleLower = id
		case "Apple":
			appleUpper = id
		}
		return true
	})
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if appleLower == -1 || appleUpper == -1 {
		t.Fatal("expected both \"apple\" and \"Apple\" as distinct terms")
	}

	posLower, err := reader.SortPos(wordField, appleLower, true)
	if err != nil {
		t.Fatalf("SortPos: %v", err)
	}
	posUpper, err := reader.SortPos(wordField, appleUpper, true)
	if err != nil {
		t.Fatalf("SortPos: %v", err)
	}
	if posLower != posUpper {
		t.Fatalf("case-insensitive sort positions differ: %d vs %d", posLower, posUpper)
	}
}
