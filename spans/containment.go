package spans

import (
	"sort"

	"github.com/corpusql/blacklab-core"
)

// ContainmentKind selects which positional relationship Containment
// tests (§4.4 "Containment / positional filter").
type ContainmentKind int

const (
	Containing ContainmentKind = iota
	Within
	StartingAt
	EndingAt
)

// Containment keeps A's hits that stand in Kind's relationship to some hit
// of B (§4.4).
type Containment struct {
	A, B Node
	Kind ContainmentKind
}

func (n *Containment) Rewrite() Node {
	return &Containment{A: n.A.Rewrite(), B: n.B.Rewrite(), Kind: n.Kind}
}

func (n *Containment) MatchesEmptySequence() bool { return false }
func (n *Containment) HitsAllSameLength() bool     { return n.A.HitsAllSameLength() }
func (n *Containment) HitsLengthMin() int          { return n.A.HitsLengthMin() }
func (n *Containment) HitsLengthMax() int          { return n.A.HitsLengthMax() }
func (n *Containment) HitsStartPointSorted() bool  { return n.A.HitsStartPointSorted() }
func (n *Containment) HitsEndPointSorted() bool    { return false }
func (n *Containment) HitsHaveUniqueStart() bool   { return n.A.HitsHaveUniqueStart() }
func (n *Containment) HitsHaveUniqueEnd() bool     { return n.A.HitsHaveUniqueEnd() }
func (n *Containment) HitsAreUnique() bool         { return n.A.HitsAreUnique() }

func (n *Containment) ReverseMatchingCost(src TermLookup) uint64 {
	return n.A.ReverseMatchingCost(src)
}

func related(kind ContainmentKind, a, b blacklab.Span) bool {
	switch kind {
	case Containing:
		return a.Doc == b.Doc && a.Start <= b.Start && a.End >= b.End
	case Within:
		return a.Doc == b.Doc && b.Start <= a.Start && b.End >= a.End
	case StartingAt:
		return a.Doc == b.Doc && a.Start == b.Start
	case EndingAt:
		return a.Doc == b.Doc && a.End == b.End
	default:
		return false
	}
}

func (n *Containment) SpansForSegment(src TermLookup) (Spans, error) {
	aHits, err := materialize(src, n.A)
	if err != nil {
		return nil, err
	}
	bHits, err := materialize(src, n.B)
	if err != nil {
		return nil, err
	}

	byDoc := make(map[int][]blacklab.Span)
	for _, b := range bHits {
		byDoc[b.Doc] = append(byDoc[b.Doc], b)
	}

	var kept []blacklab.Span
	for _, a := range aHits {
		for _, b := range byDoc[a.Doc] {
			if related(n.Kind, a, b) {
				kept = append(kept, a)
				break
			}
		}
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].Less(kept[j]) })
	return newMaterializedSpans(kept), nil
}
