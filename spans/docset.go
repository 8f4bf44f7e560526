package spans

import (
	"sort"

	"github.com/RoaringBitmap/roaring"

	"github.com/corpusql/blacklab-core"
)

// FilterByDocset intersects Child's hits with a doc id set (§4.4
// "Filter-by-docset"). Doc membership is a roaring.Bitmap, the same
// structure the teacher uses for term-level doc sets, applied here to an
// arbitrary caller-supplied doc predicate instead of a single term's
// postings.
type FilterByDocset struct {
	Child Node
	Docs  *roaring.Bitmap
}

func (n *FilterByDocset) Rewrite() Node {
	return &FilterByDocset{Child: n.Child.Rewrite(), Docs: n.Docs}
}

func (n *FilterByDocset) MatchesEmptySequence() bool { return n.Child.MatchesEmptySequence() }
func (n *FilterByDocset) HitsAllSameLength() bool     { return n.Child.HitsAllSameLength() }
func (n *FilterByDocset) HitsLengthMin() int          { return n.Child.HitsLengthMin() }
func (n *FilterByDocset) HitsLengthMax() int          { return n.Child.HitsLengthMax() }
func (n *FilterByDocset) HitsStartPointSorted() bool  { return n.Child.HitsStartPointSorted() }
func (n *FilterByDocset) HitsEndPointSorted() bool    { return n.Child.HitsEndPointSorted() }
func (n *FilterByDocset) HitsHaveUniqueStart() bool   { return n.Child.HitsHaveUniqueStart() }
func (n *FilterByDocset) HitsHaveUniqueEnd() bool     { return n.Child.HitsHaveUniqueEnd() }
func (n *FilterByDocset) HitsAreUnique() bool         { return n.Child.HitsAreUnique() }

func (n *FilterByDocset) ReverseMatchingCost(src TermLookup) uint64 {
	return n.Child.ReverseMatchingCost(src)
}

func (n *FilterByDocset) SpansForSegment(src TermLookup) (Spans, error) {
	hits, err := materialize(src, n.Child)
	if err != nil {
		return nil, err
	}
	filtered := hits[:0:0]
	for _, h := range hits {
		if n.Docs.Contains(uint32(h.Doc)) {
			filtered = append(filtered, h)
		}
	}
	return newMaterializedSpans(filtered), nil
}

// Not is the complement of Child over the token universe of each doc
// (§4.4 "Not"): every width-1 position not covered by one of Child's hits.
// Not is only well-defined over single-position hits (the complement of a
// multi-position span set against "the token universe" is not otherwise
// specified by §4.4). Nothing checks that Child's hits have width 1:
// SpansForSegment only removes a position whose width-1 span equals one of
// Child's hits, so wider child hits remove nothing.
type Not struct {
	Child Node
	Field string // field whose per-doc length bounds the complement
}

func (n *Not) Rewrite() Node { return &Not{Child: n.Child.Rewrite(), Field: n.Field} }

func (n *Not) MatchesEmptySequence() bool { return false }
func (n *Not) HitsAllSameLength() bool     { return true }
func (n *Not) HitsLengthMin() int          { return 1 }
func (n *Not) HitsLengthMax() int          { return 1 }
func (n *Not) HitsStartPointSorted() bool  { return true }
func (n *Not) HitsEndPointSorted() bool    { return true }
func (n *Not) HitsHaveUniqueStart() bool   { return true }
func (n *Not) HitsHaveUniqueEnd() bool     { return true }
func (n *Not) HitsAreUnique() bool         { return true }

func (n *Not) ReverseMatchingCost(src TermLookup) uint64 {
	return uint64(src.MaxDoc()) * 64
}

func (n *Not) SpansForSegment(src TermLookup) (Spans, error) {
	childHits, err := materialize(src, n.Child)
	if err != nil {
		return nil, err
	}
	covered := make(map[blacklab.Span]bool, len(childHits))
	coveredDocs := make(map[int]bool, len(childHits))
	for _, h := range childHits {
		covered[h] = true
		coveredDocs[h.Doc] = true
	}

	var hits []blacklab.Span
	for doc := 0; doc < src.MaxDoc(); doc++ {
		length, err := src.DocLength(n.Field, doc)
		if err != nil {
			continue
		}
		for pos := 0; pos < length; pos++ {
			span := blacklab.Span{Doc: doc, Start: pos, End: pos + 1}
			if !covered[span] {
				hits = append(hits, span)
			}
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Less(hits[j]) })
	return newMaterializedSpans(hits), nil
}
