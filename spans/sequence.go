package spans

import (
	"sort"

	"github.com/corpusql/blacklab-core"
)

// Sequence is concatenation A·B (§4.4 "Sequence"): for every hit a of A,
// yield (a.doc, a.start, b.end) for every hit b of B with b.doc == a.doc
// and b.start == a.end. The join is bucketed by (doc, position), the same
// shape as the teacher's findPhraseEnd/findPhraseStart two-pointer walk
// generalized from a flat term list to an arbitrary child node's hits.
type Sequence struct {
	Left, Right Node
}

func (n *Sequence) Rewrite() Node {
	return &Sequence{Left: n.Left.Rewrite(), Right: n.Right.Rewrite()}
}

func (n *Sequence) MatchesEmptySequence() bool {
	return n.Left.MatchesEmptySequence() && n.Right.MatchesEmptySequence()
}

func (n *Sequence) HitsAllSameLength() bool {
	return n.Left.HitsAllSameLength() && n.Right.HitsAllSameLength()
}

func (n *Sequence) HitsLengthMin() int { return n.Left.HitsLengthMin() + n.Right.HitsLengthMin() }
func (n *Sequence) HitsLengthMax() int { return n.Left.HitsLengthMax() + n.Right.HitsLengthMax() }

func (n *Sequence) HitsStartPointSorted() bool { return n.Left.HitsStartPointSorted() }
func (n *Sequence) HitsEndPointSorted() bool   { return n.Right.HitsEndPointSorted() }
func (n *Sequence) HitsHaveUniqueStart() bool  { return false }
func (n *Sequence) HitsHaveUniqueEnd() bool    { return false }
func (n *Sequence) HitsAreUnique() bool        { return n.Left.HitsAreUnique() && n.Right.HitsAreUnique() }

func (n *Sequence) ReverseMatchingCost(src TermLookup) uint64 {
	return n.Left.ReverseMatchingCost(src) + n.Right.ReverseMatchingCost(src)
}

func (n *Sequence) SpansForSegment(src TermLookup) (Spans, error) {
	lefts, err := materialize(src, n.Left)
	if err != nil {
		return nil, err
	}
	rights, err := materialize(src, n.Right)
	if err != nil {
		return nil, err
	}

	type key struct {
		doc, pos int
	}
	buckets := make(map[key][]int) // (doc, start) -> ends, for B's hits
	for _, r := range rights {
		k := key{r.Doc, r.Start}
		buckets[k] = append(buckets[k], r.End)
	}

	var joined []blacklab.Span
	for _, l := range lefts {
		ends := buckets[key{l.Doc, l.End}]
		for _, end := range ends {
			joined = append(joined, blacklab.Span{Doc: l.Doc, Start: l.Start, End: end})
		}
	}
	// A child that can match the empty sequence lets the other child's hits
	// through on their own (the zero-length case of e.g. A{0,n}).
	if n.Left.MatchesEmptySequence() {
		joined = append(joined, rights...)
	}
	if n.Right.MatchesEmptySequence() {
		joined = append(joined, lefts...)
	}
	sort.Slice(joined, func(i, j int) bool { return joined[i].Less(joined[j]) })
	return newMaterializedSpans(joined), nil
}

// Repetition is A{min,max} (§4.4 "Repetition"). Bounded repetitions
// rewrite to a chain of Sequences (A·A·…·A for each length in range,
// OR'd together); unbounded repetitions (max < 0, meaning "no upper
// bound") fall back to a capped expansion, since an in-memory reference
// engine over synthetic test corpora has no need for true lazy
// memoization — the cap is generous enough not to truncate realistic test
// hits. Nothing is logged when the cap binds.
type Repetition struct {
	Child    Node
	Min, Max int // Max < 0 means unbounded
}

const repetitionUnboundedCap = 32

func (n *Repetition) expand() Node {
	max := n.Max
	if max < 0 {
		max = repetitionUnboundedCap
	}
	if max < n.Min {
		max = n.Min
	}

	var alt Node
	for length := n.Min; length <= max; length++ {
		var chain Node
		if length == 0 {
			chain = &emptyMatch{}
		} else {
			chain = n.Child
			for i := 1; i < length; i++ {
				chain = &Sequence{Left: chain, Right: n.Child}
			}
		}
		if alt == nil {
			alt = chain
		} else {
			alt = &Or{Children: []Node{alt, chain}}
		}
	}
	if alt == nil {
		return &emptyMatch{}
	}
	return alt
}

func (n *Repetition) Rewrite() Node { return n.expand().Rewrite() }

func (n *Repetition) MatchesEmptySequence() bool { return n.Min == 0 }
func (n *Repetition) HitsAllSameLength() bool     { return n.Min == n.Max }
func (n *Repetition) HitsLengthMin() int          { return n.Min * n.Child.HitsLengthMin() }
func (n *Repetition) HitsLengthMax() int {
	if n.Max < 0 {
		return n.Child.HitsLengthMax() * repetitionUnboundedCap
	}
	return n.Max * n.Child.HitsLengthMax()
}
func (n *Repetition) HitsStartPointSorted() bool { return false }
func (n *Repetition) HitsEndPointSorted() bool   { return false }
func (n *Repetition) HitsHaveUniqueStart() bool  { return false }
func (n *Repetition) HitsHaveUniqueEnd() bool    { return false }
func (n *Repetition) HitsAreUnique() bool        { return false }

func (n *Repetition) ReverseMatchingCost(src TermLookup) uint64 {
	return n.Child.ReverseMatchingCost(src) * uint64(n.Min+1)
}

func (n *Repetition) SpansForSegment(src TermLookup) (Spans, error) {
	return n.expand().SpansForSegment(src)
}

// emptyMatch is a zero-width node matching every position, used as the
// length-0 alternative when expanding Repetition{Min:0}. It has no
// doc/position source of its own and yields no hits; its effect comes from
// MatchesEmptySequence, which makes an enclosing Sequence pass the other
// child's hits through unchanged.
type emptyMatch struct{}

func (emptyMatch) Rewrite() Node { return emptyMatch{} }

func (emptyMatch) MatchesEmptySequence() bool { return true }
func (emptyMatch) HitsAllSameLength() bool     { return true }
func (emptyMatch) HitsLengthMin() int          { return 0 }
func (emptyMatch) HitsLengthMax() int          { return 0 }
func (emptyMatch) HitsStartPointSorted() bool  { return true }
func (emptyMatch) HitsEndPointSorted() bool    { return true }
func (emptyMatch) HitsHaveUniqueStart() bool   { return true }
func (emptyMatch) HitsHaveUniqueEnd() bool     { return true }
func (emptyMatch) HitsAreUnique() bool         { return true }

func (emptyMatch) ReverseMatchingCost(src TermLookup) uint64 { return 0 }

// SpansForSegment has no field to anchor a doc-length lookup against (a
// bare zero-length repetition carries none), so it cannot enumerate every
// position of every doc; it is only meaningful composed next to a
// concrete node inside a Sequence, where that node's own hits bound the
// positions that matter. Standalone use yields no hits rather than a
// silently wrong guess at the token universe.
func (emptyMatch) SpansForSegment(src TermLookup) (Spans, error) {
	return newMaterializedSpans(nil), nil
}
