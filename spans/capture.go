package spans

import "github.com/corpusql/blacklab-core"

// Capture attaches a named slot to Child: each time Child's Spans yields a
// hit, the hit's (start, end) is recorded under Name in the slot buffer
// passed to GetCapturedGroups (§4.4 "Capture groups"). Captures are
// reported only through chains of Capture nodes: a Capture directly
// wrapping another Capture reports both slots. Composite and filtering
// nodes (And, Or, Sequence, Containment, Sorted, Unique, ...) replay
// materialized hits whose GetCapturedGroups records nothing, so a Capture
// below one of them does not surface at the root.
type Capture struct {
	Name  string
	Child Node
}

func (n *Capture) Rewrite() Node { return &Capture{Name: n.Name, Child: n.Child.Rewrite()} }

func (n *Capture) MatchesEmptySequence() bool { return n.Child.MatchesEmptySequence() }
func (n *Capture) HitsAllSameLength() bool     { return n.Child.HitsAllSameLength() }
func (n *Capture) HitsLengthMin() int          { return n.Child.HitsLengthMin() }
func (n *Capture) HitsLengthMax() int          { return n.Child.HitsLengthMax() }
func (n *Capture) HitsStartPointSorted() bool  { return n.Child.HitsStartPointSorted() }
func (n *Capture) HitsEndPointSorted() bool    { return n.Child.HitsEndPointSorted() }
func (n *Capture) HitsHaveUniqueStart() bool   { return n.Child.HitsHaveUniqueStart() }
func (n *Capture) HitsHaveUniqueEnd() bool     { return n.Child.HitsHaveUniqueEnd() }
func (n *Capture) HitsAreUnique() bool         { return n.Child.HitsAreUnique() }

func (n *Capture) ReverseMatchingCost(src TermLookup) uint64 {
	return n.Child.ReverseMatchingCost(src)
}

func (n *Capture) SpansForSegment(src TermLookup) (Spans, error) {
	inner, err := n.Child.SpansForSegment(src)
	if err != nil {
		return nil, err
	}
	return &captureSpans{name: n.Name, inner: inner}, nil
}

// captureSpans wraps any Spans implementation and records the current hit
// under its slot name on every GetCapturedGroups call, after first letting
// the wrapped Spans populate any captures nested further down.
type captureSpans struct {
	name  string
	inner Spans
}

func (s *captureSpans) NextDoc() (int, error)            { return s.inner.NextDoc() }
func (s *captureSpans) Advance(target int) (int, error)  { return s.inner.Advance(target) }
func (s *captureSpans) NextStartPosition() (int, error)  { return s.inner.NextStartPosition() }
func (s *captureSpans) AdvanceStartPosition(t int) (int, error) {
	return s.inner.AdvanceStartPosition(t)
}
func (s *captureSpans) Doc() int   { return s.inner.Doc() }
func (s *captureSpans) Start() int { return s.inner.Start() }
func (s *captureSpans) End() int   { return s.inner.End() }
func (s *captureSpans) Width() int { return s.inner.Width() }

func (s *captureSpans) GetCapturedGroups(buf map[string]blacklab.Span) {
	s.inner.GetCapturedGroups(buf)
	buf[s.name] = blacklab.Span{Doc: s.inner.Doc(), Start: s.inner.Start(), End: s.inner.End()}
}
