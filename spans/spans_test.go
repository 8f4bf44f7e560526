package spans_test

import (
	"testing"

	"github.com/corpusql/blacklab-core/codec"
	"github.com/corpusql/blacklab-core/forwardindex"
	"github.com/corpusql/blacklab-core/internal/memindex"
	"github.com/corpusql/blacklab-core/spans"
)

const field = "contents%word"

func buildLookup(t *testing.T, docs [][]string) (*memindex.Index, *spans.DelegateLookup) {
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

	lookup := &spans.DelegateLookup{
		Delegate: ix,
		Views:    map[string]*forwardindex.SegmentView{field: forwardindex.NewSegmentView(reader, field)},
	}
	return ix, lookup
}

func drain(t *testing.T, sp spans.Spans) [][3]int {
	t.Helper()
	var hits [][3]int
	for {
		doc, err := sp.NextDoc()
		if err != nil {
			t.Fatalf("NextDoc: %v", err)
		}
		if doc == spans.NoMoreDocs {
			break
		}
		for {
			start, err := sp.NextStartPosition()
			if err != nil {
				t.Fatalf("NextStartPosition: %v", err)
			}
			if start == spans.NoMorePositions {
				break
			}
			hits = append(hits, [3]int{sp.Doc(), sp.Start(), sp.End()})
		}
	}
	return hits
}

func TestTermSpans(t *testing.T) {
	_, lookup := buildLookup(t, [][]string{
		{"the", "quick", "fox"},
		{"the", "lazy", "fox"},
	})

	node := &spans.Term{Field: field, Value: []byte("fox")}
	sp, err := node.SpansForSegment(lookup)
	if err != nil {
		t.Fatalf("SpansForSegment: %v", err)
	}
	hits := drain(t, sp)
	if len(hits) != 2 {
		t.Fatalf("hits = %v, want 2 (fox in both docs)", hits)
	}
}

func TestSequenceJoin(t *testing.T) {
	// S4-style: "quick fox" should match doc 0 only, at (1,3).
	_, lookup := buildLookup(t, [][]string{
		{"the", "quick", "fox"},
		{"the", "quick", "dog", "fox"},
	})

	seq := &spans.Sequence{
		Left:  &spans.Term{Field: field, Value: []byte("quick")},
		Right: &spans.Term{Field: field, Value: []byte("fox")},
	}
	sp, err := seq.SpansForSegment(lookup)
	if err != nil {
		t.Fatalf("SpansForSegment: %v", err)
	}
	hits := drain(t, sp)
	if len(hits) != 1 {
		t.Fatalf("hits = %v, want exactly 1 (quick immediately followed by fox only in doc 0)", hits)
	}
	if hits[0] != [3]int{0, 1, 3} {
		t.Fatalf("hit = %v, want {0,1,3}", hits[0])
	}
}

func TestAndIntersection(t *testing.T) {
	_, lookup := buildLookup(t, [][]string{
		{"fox", "dog"},
		{"fox", "cat"},
		{"dog", "cat"},
	})

	// And keeps only identical (doc, start, end) triples: fox·dog and
	// fox·(dog|cat) share (0,0,2); doc 1 has only fox·cat.
	fox := &spans.Term{Field: field, Value: []byte("fox")}
	dog := &spans.Term{Field: field, Value: []byte("dog")}
	cat := &spans.Term{Field: field, Value: []byte("cat")}
	and := &spans.And{Children: []spans.Node{
		&spans.Sequence{Left: fox, Right: dog},
		&spans.Sequence{Left: fox, Right: &spans.Or{Children: []spans.Node{dog, cat}}},
	}}
	sp, err := and.SpansForSegment(lookup)
	if err != nil {
		t.Fatalf("SpansForSegment: %v", err)
	}
	hits := drain(t, sp)
	if len(hits) != 1 || hits[0][0] != 0 {
		t.Fatalf("hits = %v, want a single hit in doc 0", hits)
	}
}

func TestOrUnion(t *testing.T) {
	_, lookup := buildLookup(t, [][]string{
		{"fox"},
		{"dog"},
		{"cat"},
	})

	or := &spans.Or{Children: []spans.Node{
		&spans.Term{Field: field, Value: []byte("fox")},
		&spans.Term{Field: field, Value: []byte("dog")},
	}}
	sp, err := or.SpansForSegment(lookup)
	if err != nil {
		t.Fatalf("SpansForSegment: %v", err)
	}
	hits := drain(t, sp)
	if len(hits) != 2 {
		t.Fatalf("hits = %v, want 2 (fox in doc 0, dog in doc 1)", hits)
	}
}

func TestNotComplement(t *testing.T) {
	_, lookup := buildLookup(t, [][]string{
		{"fox", "dog", "fox"},
	})

	not := &spans.Not{Child: &spans.Term{Field: field, Value: []byte("fox")}, Field: field}
	sp, err := not.SpansForSegment(lookup)
	if err != nil {
		t.Fatalf("SpansForSegment: %v", err)
	}
	hits := drain(t, sp)
	if len(hits) != 1 || hits[0] != [3]int{0, 1, 2} {
		t.Fatalf("hits = %v, want exactly position 1 ('dog')", hits)
	}
}

func TestUniqueDedupesAdjacent(t *testing.T) {
	_, lookup := buildLookup(t, [][]string{{"fox", "dog"}})

	or := &spans.Or{Children: []spans.Node{
		&spans.Term{Field: field, Value: []byte("fox")},
		&spans.Term{Field: field, Value: []byte("fox")},
	}}
	unique := &spans.Unique{Child: or}
	sp, err := unique.SpansForSegment(lookup)
	if err != nil {
		t.Fatalf("SpansForSegment: %v", err)
	}
	hits := drain(t, sp)
	if len(hits) != 1 {
		t.Fatalf("hits = %v, want a single deduped hit", hits)
	}
}

func TestTagSpansEmptySpanSurvives(t *testing.T) {
	// S6: an empty tag (end == start) must be emitted, not skipped.
	ix := memindex.New()
	ix.AddTagSpan(field, 0, 1, 4)
	ix.AddTagSpan(field, 1, 2, 2)
	ix.Freeze()

	files, err := codec.WriteSegment(ix, "seg-1", "memindex", codec.ByteCollator{}, codec.FoldCollator{})
	if err != nil {
		t.Fatalf("WriteSegment: %v", err)
	}
	reader, err := codec.OpenSegmentReader(files, "seg-1", "memindex")
	if err != nil {
		t.Fatalf("OpenSegmentReader: %v", err)
	}
	lookup := &spans.DelegateLookup{
		Delegate: ix,
		Views:    map[string]*forwardindex.SegmentView{field: forwardindex.NewSegmentView(reader, field)},
	}

	node := &spans.TagSpans{Field: field, TagName: []byte("<tag>")}
	sp, err := node.SpansForSegment(lookup)
	if err != nil {
		t.Fatalf("SpansForSegment: %v", err)
	}
	hits := drain(t, sp)
	if len(hits) != 2 {
		t.Fatalf("hits = %v, want 2 (one per doc)", hits)
	}
	if hits[0] != [3]int{0, 1, 4} {
		t.Fatalf("hits[0] = %v, want {0,1,4}", hits[0])
	}
	if hits[1] != [3]int{1, 2, 2} {
		t.Fatalf("hits[1] = %v, want {1,2,2} (empty span must survive, not be skipped)", hits[1])
	}
}

func TestRewriteLeafTermUnchanged(t *testing.T) {
	term := &spans.Term{Field: field, Value: []byte("fox")}
	rewritten := spans.Rewrite(term)
	if rewritten != spans.Node(term) {
		t.Fatalf("Rewrite of a leaf Term should return itself unchanged")
	}
}
