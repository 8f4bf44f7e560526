package spans

import (
	"sort"

	"github.com/corpusql/blacklab-core"
)

// SortEndpoint selects which coordinate Sorted orders hits by (§4.4
// "Sorted").
type SortEndpoint int

const (
	SortByStart SortEndpoint = iota
	SortByEnd
)

// Sorted buffers Child's hits per doc and reorders them by start or end
// point, optionally dropping adjacent duplicates in the same pass. The
// rewriter only ever wraps a child in Sorted when that child doesn't
// already report the matching HitsStartPointSorted/HitsEndPointSorted,
// since a node that's already sorted gets Unique applied directly instead
// (§4.4 "Rewriter rules").
type Sorted struct {
	Child    Node
	Endpoint SortEndpoint
	Dedupe   bool
}

func (n *Sorted) Rewrite() Node {
	child := n.Child.Rewrite()
	if n.Endpoint == SortByStart && child.HitsStartPointSorted() ||
		n.Endpoint == SortByEnd && child.HitsEndPointSorted() {
		if n.Dedupe {
			return &Unique{Child: child}
		}
		return child
	}
	return &Sorted{Child: child, Endpoint: n.Endpoint, Dedupe: n.Dedupe}
}

func (n *Sorted) MatchesEmptySequence() bool { return n.Child.MatchesEmptySequence() }
func (n *Sorted) HitsAllSameLength() bool     { return n.Child.HitsAllSameLength() }
func (n *Sorted) HitsLengthMin() int          { return n.Child.HitsLengthMin() }
func (n *Sorted) HitsLengthMax() int          { return n.Child.HitsLengthMax() }
func (n *Sorted) HitsStartPointSorted() bool  { return n.Endpoint == SortByStart }
func (n *Sorted) HitsEndPointSorted() bool    { return n.Endpoint == SortByEnd }
func (n *Sorted) HitsHaveUniqueStart() bool   { return n.Child.HitsHaveUniqueStart() }
func (n *Sorted) HitsHaveUniqueEnd() bool     { return n.Child.HitsHaveUniqueEnd() }
func (n *Sorted) HitsAreUnique() bool {
	return n.Dedupe || n.Child.HitsAreUnique()
}

func (n *Sorted) ReverseMatchingCost(src TermLookup) uint64 {
	return n.Child.ReverseMatchingCost(src)
}

func (n *Sorted) SpansForSegment(src TermLookup) (Spans, error) {
	hits, err := materialize(src, n.Child)
	if err != nil {
		return nil, err
	}
	hits = append([]blacklab.Span(nil), hits...)

	var less func(i, j int) bool
	switch n.Endpoint {
	case SortByEnd:
		less = func(i, j int) bool {
			a, b := hits[i], hits[j]
			if a.Doc != b.Doc {
				return a.Doc < b.Doc
			}
			if a.End != b.End {
				return a.End < b.End
			}
			return a.Start < b.Start
		}
	default:
		less = func(i, j int) bool { return hits[i].Less(hits[j]) }
	}
	sort.Slice(hits, less)

	if n.Dedupe {
		hits = dedupeAdjacent(hits)
	}
	return newMaterializedSpans(hits), nil
}

// Unique streams Child's hits, dropping adjacent duplicates. It requires
// start-sorted input (§4.4 "Unique"); the rewriter is responsible for only
// placing Unique over a child that is already sorted by the endpoint the
// caller cares about, inserting a Sorted wrapper otherwise.
type Unique struct {
	Child Node
}

func (n *Unique) Rewrite() Node {
	child := n.Child.Rewrite()
	if !child.HitsStartPointSorted() {
		return &Sorted{Child: child, Endpoint: SortByStart, Dedupe: true}
	}
	return &Unique{Child: child}
}

func (n *Unique) MatchesEmptySequence() bool { return n.Child.MatchesEmptySequence() }
func (n *Unique) HitsAllSameLength() bool     { return n.Child.HitsAllSameLength() }
func (n *Unique) HitsLengthMin() int          { return n.Child.HitsLengthMin() }
func (n *Unique) HitsLengthMax() int          { return n.Child.HitsLengthMax() }
func (n *Unique) HitsStartPointSorted() bool  { return n.Child.HitsStartPointSorted() }
func (n *Unique) HitsEndPointSorted() bool    { return n.Child.HitsEndPointSorted() }
func (n *Unique) HitsHaveUniqueStart() bool   { return n.Child.HitsHaveUniqueStart() }
func (n *Unique) HitsHaveUniqueEnd() bool     { return n.Child.HitsHaveUniqueEnd() }
func (n *Unique) HitsAreUnique() bool         { return true }

func (n *Unique) ReverseMatchingCost(src TermLookup) uint64 {
	return n.Child.ReverseMatchingCost(src)
}

func (n *Unique) SpansForSegment(src TermLookup) (Spans, error) {
	hits, err := materialize(src, n.Child)
	if err != nil {
		return nil, err
	}
	return newMaterializedSpans(dedupeAdjacent(hits)), nil
}

func dedupeAdjacent(hits []blacklab.Span) []blacklab.Span {
	if len(hits) == 0 {
		return hits
	}
	out := hits[:1]
	for _, h := range hits[1:] {
		if h != out[len(out)-1] {
			out = append(out, h)
		}
	}
	return out
}
