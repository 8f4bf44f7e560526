package spans

import (
	"sort"

	"github.com/corpusql/blacklab-core"
)

// And is the conjunction of exact spans (§4.4 "AND"): hits that appear in
// every child with identical (doc, start, end). The reference
// implementation here materializes each child's hits per doc and
// intersects the sets rather than streaming a true k-way merge — at the
// synthetic-corpus scale this package is exercised against that is the
// simpler, equally-correct choice. Every child is materialized in full, in
// the order given; ReverseMatchingCost below reports the cheapest child's
// cost, but SpansForSegment does not use it to choose a driving clause.
type And struct {
	Children []Node
}

func (n *And) Rewrite() Node {
	children := make([]Node, len(n.Children))
	for i, c := range n.Children {
		children[i] = c.Rewrite()
	}
	if len(children) == 1 {
		return children[0]
	}
	return &And{Children: children}
}

func (n *And) MatchesEmptySequence() bool {
	for _, c := range n.Children {
		if !c.MatchesEmptySequence() {
			return false
		}
	}
	return true
}

func (n *And) HitsAllSameLength() bool {
	for _, c := range n.Children {
		if !c.HitsAllSameLength() {
			return false
		}
	}
	return true
}

func (n *And) HitsLengthMin() int {
	m := 0
	for i, c := range n.Children {
		if i == 0 || c.HitsLengthMin() > m {
			m = c.HitsLengthMin()
		}
	}
	return m
}

func (n *And) HitsLengthMax() int {
	m := 0
	for i, c := range n.Children {
		if i == 0 || c.HitsLengthMax() < m {
			m = c.HitsLengthMax()
		}
	}
	return m
}

func (n *And) HitsStartPointSorted() bool { return true } // result is always sorted, see below
func (n *And) HitsEndPointSorted() bool   { return false }
func (n *And) HitsHaveUniqueStart() bool  { return false }
func (n *And) HitsHaveUniqueEnd() bool    { return false }
func (n *And) HitsAreUnique() bool        { return true }

func (n *And) ReverseMatchingCost(src TermLookup) uint64 {
	min := ^uint64(0)
	for _, c := range n.Children {
		if cost := c.ReverseMatchingCost(src); cost < min {
			min = cost
		}
	}
	return min
}

func (n *And) SpansForSegment(src TermLookup) (Spans, error) {
	hits, err := intersectChildren(src, n.Children)
	if err != nil {
		return nil, err
	}
	return newMaterializedSpans(hits), nil
}

func intersectChildren(src TermLookup, children []Node) ([]blacklab.Span, error) {
	if len(children) == 0 {
		return nil, nil
	}
	sets := make([][]blacklab.Span, len(children))
	for i, c := range children {
		hits, err := materialize(src, c)
		if err != nil {
			return nil, err
		}
		sets[i] = hits
	}

	counts := make(map[blacklab.Span]int)
	for _, set := range sets {
		seen := make(map[blacklab.Span]bool)
		for _, h := range set {
			if !seen[h] {
				counts[h]++
				seen[h] = true
			}
		}
	}

	var result []blacklab.Span
	for h, c := range counts {
		if c == len(children) {
			result = append(result, h)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Less(result[j]) })
	return result, nil
}

// Or is the disjunction of spans (§4.4 "OR"): a k-way merge by
// (doc, start, end), deduplicated.
type Or struct {
	Children []Node
}

func (n *Or) Rewrite() Node {
	children := make([]Node, len(n.Children))
	for i, c := range n.Children {
		children[i] = c.Rewrite()
	}
	if len(children) == 1 {
		return children[0]
	}
	return &Or{Children: children}
}

func (n *Or) MatchesEmptySequence() bool {
	for _, c := range n.Children {
		if c.MatchesEmptySequence() {
			return true
		}
	}
	return false
}

func (n *Or) HitsAllSameLength() bool {
	if len(n.Children) == 0 {
		return true
	}
	want := n.Children[0].HitsLengthMin()
	for _, c := range n.Children {
		if !c.HitsAllSameLength() || c.HitsLengthMin() != want || c.HitsLengthMax() != want {
			return false
		}
	}
	return true
}

func (n *Or) HitsLengthMin() int {
	m := 0
	for i, c := range n.Children {
		if i == 0 || c.HitsLengthMin() < m {
			m = c.HitsLengthMin()
		}
	}
	return m
}

func (n *Or) HitsLengthMax() int {
	m := 0
	for i, c := range n.Children {
		if c.HitsLengthMax() > m {
			m = c.HitsLengthMax()
		}
	}
	return m
}

func (n *Or) HitsStartPointSorted() bool { return true } // OR always merges into sorted order
func (n *Or) HitsEndPointSorted() bool   { return false }
func (n *Or) HitsHaveUniqueStart() bool  { return false }
func (n *Or) HitsHaveUniqueEnd() bool    { return false }
func (n *Or) HitsAreUnique() bool        { return true } // merge dedupes identical triples

func (n *Or) ReverseMatchingCost(src TermLookup) uint64 {
	var total uint64
	for _, c := range n.Children {
		total += c.ReverseMatchingCost(src)
	}
	return total
}

func (n *Or) SpansForSegment(src TermLookup) (Spans, error) {
	seen := make(map[blacklab.Span]bool)
	var all []blacklab.Span
	for _, c := range n.Children {
		hits, err := materialize(src, c)
		if err != nil {
			return nil, err
		}
		for _, h := range hits {
			if !seen[h] {
				seen[h] = true
				all = append(all, h)
			}
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Less(all[j]) })
	return newMaterializedSpans(all), nil
}

// materialize drains a node's Spans into a plain slice of hits. Used by
// And/Or/Sorted/Unique, whose reference implementations operate on fully
// realized hit sets rather than streaming cursors.
func materialize(src TermLookup, n Node) ([]blacklab.Span, error) {
	sp, err := n.SpansForSegment(src)
	if err != nil {
		return nil, err
	}
	var hits []blacklab.Span
	for {
		doc, err := sp.NextDoc()
		if err != nil {
			return nil, err
		}
		if doc == NoMoreDocs {
			break
		}
		for {
			start, err := sp.NextStartPosition()
			if err != nil {
				return nil, err
			}
			if start == NoMorePositions {
				break
			}
			hits = append(hits, blacklab.Span{Doc: sp.Doc(), Start: sp.Start(), End: sp.End()})
		}
	}
	return hits, nil
}
