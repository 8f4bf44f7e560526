package spans

import "github.com/corpusql/blacklab-core"

// Term is a leaf node: the postings of a single (field, term) (§4.4
// "Term"). Its hits are single positions (end == start+1, i.e. width 1),
// already doc- and start-sorted and unique because a
// term's postings visit each (doc, position) at most once.
type Term struct {
	Field string
	Value []byte
}

func (t *Term) Rewrite() Node { return t }

func (t *Term) MatchesEmptySequence() bool { return false }
func (t *Term) HitsAllSameLength() bool    { return true }
func (t *Term) HitsLengthMin() int         { return 1 }
func (t *Term) HitsLengthMax() int         { return 1 }
func (t *Term) HitsStartPointSorted() bool { return true }
func (t *Term) HitsEndPointSorted() bool   { return true }
func (t *Term) HitsHaveUniqueStart() bool  { return true }
func (t *Term) HitsHaveUniqueEnd() bool    { return true }
func (t *Term) HitsAreUnique() bool        { return true }

func (t *Term) ReverseMatchingCost(src TermLookup) uint64 {
	pi, err := src.Postings(t.Field, t.Value)
	if err != nil {
		return ^uint64(0)
	}
	var docs uint64
	for pi.NextDoc() {
		docs++
	}
	return docs
}

func (t *Term) SpansForSegment(src TermLookup) (Spans, error) {
	pi, err := src.Postings(t.Field, t.Value)
	if err != nil {
		return nil, err
	}
	return &termSpans{pi: pi}, nil
}

type termSpans struct {
	pi       blacklab.PostingsIterator
	posIter  blacklab.PositionIterator
	doc      int
	start    int
	hasDoc   bool
	hasStart bool
}

func (s *termSpans) NextDoc() (int, error) {
	if !s.pi.NextDoc() {
		s.hasDoc = false
		return NoMoreDocs, nil
	}
	s.doc = s.pi.Doc()
	s.posIter = s.pi.Positions()
	s.hasDoc = true
	s.hasStart = false
	return s.doc, nil
}

func (s *termSpans) Advance(target int) (int, error) {
	for {
		doc, err := s.NextDoc()
		if err != nil || doc == NoMoreDocs {
			return doc, err
		}
		if doc >= target {
			return doc, nil
		}
	}
}

func (s *termSpans) NextStartPosition() (int, error) {
	if !s.hasDoc || !s.posIter.Next() {
		s.hasStart = false
		return NoMorePositions, nil
	}
	s.start = s.posIter.Position()
	s.hasStart = true
	return s.start, nil
}

func (s *termSpans) AdvanceStartPosition(target int) (int, error) {
	for {
		pos, err := s.NextStartPosition()
		if err != nil || pos == NoMorePositions {
			return pos, err
		}
		if pos >= target {
			return pos, nil
		}
	}
}

func (s *termSpans) Doc() int   { return s.doc }
func (s *termSpans) Start() int { return s.start }
func (s *termSpans) End() int   { return s.start + 1 }
func (s *termSpans) Width() int { return 1 }

func (s *termSpans) GetCapturedGroups(buf map[string]blacklab.Span) {}
