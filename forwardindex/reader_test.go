package forwardindex_test

import (
	"testing"

	"github.com/corpusql/blacklab-core/codec"
	"github.com/corpusql/blacklab-core/fixtures"
	"github.com/corpusql/blacklab-core/forwardindex"
)

func buildSegment(t *testing.T, docs []string) (*codec.SegmentReader, fixtures.Corpus) {
	t.Helper()
	corpus := fixtures.Corpus{Base: "contents", Docs: docs}
	ix := corpus.Build()
	files, err := codec.WriteSegment(ix, "seg-1", "memindex", codec.ByteCollator{}, codec.FoldCollator{})
	if err != nil {
		t.Fatalf("WriteSegment: %v", err)
	}
	reader, err := codec.OpenSegmentReader(files, "seg-1", "memindex")
	if err != nil {
		t.Fatalf("OpenSegmentReader: %v", err)
	}
	return reader, corpus
}

func TestSegmentViewSliceClamping(t *testing.T) {
	reader, corpus := buildSegment(t, []string{"the quick brown fox"})
	view := forwardindex.NewSegmentView(reader, corpus.WordField())

	length, err := view.DocLength(0)
	if err != nil {
		t.Fatalf("DocLength: %v", err)
	}
	if length != 4 {
		t.Fatalf("DocLength = %d, want 4", length)
	}

	// Request a range extending past the doc's end; Slice must clamp rather
	// than error, per the §4.2 four-step algorithm.
	tokens, err := view.Slice(0, 2, 100)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	if len(tokens) != 2 {
		t.Fatalf("len(tokens) = %d, want 2 (clamped)", len(tokens))
	}
}

func TestSegmentViewCloneIndependentScratch(t *testing.T) {
	reader, corpus := buildSegment(t, []string{"one two three", "four five six"})
	view := forwardindex.NewSegmentView(reader, corpus.WordField())
	clone := view.Clone()

	a, err := view.Slice(0, 0, 3)
	if err != nil {
		t.Fatalf("Slice(view): %v", err)
	}
	aCopy := append([]int32(nil), a...)

	// Driving the clone must not corrupt the slice already returned from
	// the parent view's own scratch buffer.
	_, err = clone.Slice(1, 0, 3)
	if err != nil {
		t.Fatalf("Slice(clone): %v", err)
	}
	for i := range aCopy {
		if a[i] != aCopy[i] {
			t.Fatalf("parent view's scratch buffer corrupted by clone: got %v, want %v", a, aCopy)
		}
	}
}

func TestSegmentViewAllTokensTheSame(t *testing.T) {
	reader, corpus := buildSegment(t, []string{"spam spam spam spam spam"})
	view := forwardindex.NewSegmentView(reader, corpus.WordField())

	tokens, err := view.Slice(0, 1, 4)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	if len(tokens) != 3 {
		t.Fatalf("len(tokens) = %d, want 3", len(tokens))
	}
	for _, id := range tokens {
		if id != tokens[0] {
			t.Fatalf("ALL_TOKENS_THE_SAME doc decoded non-uniform: %v", tokens)
		}
	}
}
