package nfa_test

import (
	"testing"

	"github.com/corpusql/blacklab-core/codec"
	"github.com/corpusql/blacklab-core/forwardindex"
	"github.com/corpusql/blacklab-core/internal/memindex"
	"github.com/corpusql/blacklab-core/nfa"
	"github.com/corpusql/blacklab-core/terms"
)

const field = "contents%word"

func buildSingleSegment(t *testing.T, docs [][]string) (*codec.SegmentReader, *terms.Service) {
	t.Helper()
	ix := memindex.New()
	for doc, tokens := range docs {
		ix.AddAnnotation(field, doc, tokens, true)
	}
	ix.Freeze()

	files, err := codec.WriteSegment(ix, "seg-1", "memindex", codec.ByteCollator{}, codec.FoldCollator{})
	if err != nil {
		t.Fatalf("WriteSegment: %v", err)
	}
	reader, err := codec.OpenSegmentReader(files, "seg-1", "memindex")
	if err != nil {
		t.Fatalf("OpenSegmentReader: %v", err)
	}

	svc, err := terms.Build([]terms.Input{
		{SegmentID: "seg-1", Reader: reader, Field: field},
	}, codec.ByteCollator{}, codec.FoldCollator{})
	if err != nil {
		t.Fatalf("terms.Build: %v", err)
	}
	return reader, svc
}

func TestNFAForwardLiteralMatch(t *testing.T) {
	reader, svc := buildSingleSegment(t, [][]string{{"the", "quick", "fox", "jumps"}})
	view := forwardindex.NewSegmentView(reader, field)

	query := nfa.SequenceQuery{
		Left:  nfa.TokenQuery{Pred: nfa.LiteralPredicate{Value: []byte("quick"), Collator: codec.ByteCollator{}}},
		Right: nfa.TokenQuery{Pred: nfa.LiteralPredicate{Value: []byte("fox"), Collator: codec.ByteCollator{}}},
	}
	program := nfa.Compile(query, svc, nfa.Forward)

	matched, end, err := program.Match(view, 0, 1, nil)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if !matched {
		t.Fatal("expected match for \"quick fox\" starting at position 1")
	}
	if end != 3 {
		t.Fatalf("end = %d, want 3 (one past \"fox\")", end)
	}

	matched, _, err = program.Match(view, 0, 0, nil)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if matched {
		t.Fatal("did not expect a match starting at position 0 (\"the\")")
	}
}

func TestNFABackwardDirection(t *testing.T) {
	reader, svc := buildSingleSegment(t, [][]string{{"a", "quick", "fox", "b"}})
	view := forwardindex.NewSegmentView(reader, field)

	query := nfa.TokenQuery{Pred: nfa.LiteralPredicate{Value: []byte("quick"), Collator: codec.ByteCollator{}}}
	program := nfa.Compile(query, svc, nfa.Backward)

	// Walking backward starting at position 1 ("quick"), the token just left
	// of "fox" at position 2.
	matched, _, err := program.Match(view, 0, 1, nil)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if !matched {
		t.Fatal("expected backward match at position 1 (\"quick\")")
	}
}

func TestNFARepetitionOptional(t *testing.T) {
	reader, svc := buildSingleSegment(t, [][]string{
		{"fox", "jumps"},
		{"fox", "quickly", "jumps"},
	})
	view := forwardindex.NewSegmentView(reader, field)

	quick := nfa.TokenQuery{Pred: nfa.LiteralPredicate{Value: []byte("quickly"), Collator: codec.ByteCollator{}}}
	jumps := nfa.TokenQuery{Pred: nfa.LiteralPredicate{Value: []byte("jumps"), Collator: codec.ByteCollator{}}}
	query := nfa.SequenceQuery{
		Left:  nfa.RepetitionQuery{Child: quick, Min: 0, Max: 1},
		Right: jumps,
	}
	program := nfa.Compile(query, svc, nfa.Forward)

	matched, _, err := program.Match(view, 0, 1, nil)
	if err != nil {
		t.Fatalf("Match doc0: %v", err)
	}
	if !matched {
		t.Fatal("expected doc 0 (\"jumps\" with zero \"quickly\") to match")
	}

	matched, _, err = program.Match(view, 1, 1, nil)
	if err != nil {
		t.Fatalf("Match doc1: %v", err)
	}
	if !matched {
		t.Fatal("expected doc 1 (\"quickly jumps\") to match")
	}
}

func TestRegexPredicate(t *testing.T) {
	reader, svc := buildSingleSegment(t, [][]string{{"foxes", "foxed", "dog"}})
	view := forwardindex.NewSegmentView(reader, field)

	pred, err := nfa.CompileRegex("^fox.*")
	if err != nil {
		t.Fatalf("CompileRegex: %v", err)
	}
	query := nfa.TokenQuery{Pred: pred}
	program := nfa.Compile(query, svc, nfa.Forward)

	matched, _, err := program.Match(view, 0, 0, nil)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if !matched {
		t.Fatal("expected \"foxes\" to match ^fox.*")
	}

	matched, _, err = program.Match(view, 0, 2, nil)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if matched {
		t.Fatal("did not expect \"dog\" to match ^fox.*")
	}
}
