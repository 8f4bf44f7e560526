package spans

import "github.com/corpusql/blacklab-core"

// materializedSpans replays a pre-sorted, pre-computed slice of hits as a
// Spans cursor. Several node kinds (And, Or, Sorted, Unique) compute their
// whole result set up front rather than streaming, and all share this
// cursor shape.
type materializedSpans struct {
	hits     []blacklab.Span
	idx      int  // index of the current hit; -1 before the first NextDoc
	freshDoc bool // idx points at a hit NextStartPosition hasn't yielded yet
}

func newMaterializedSpans(hits []blacklab.Span) *materializedSpans {
	return &materializedSpans{hits: hits, idx: -1}
}

func (s *materializedSpans) NextDoc() (int, error) {
	if s.idx == -1 {
		s.idx = 0
	} else {
		curDoc := s.hits[s.idx].Doc
		for s.idx < len(s.hits) && s.hits[s.idx].Doc == curDoc {
			s.idx++
		}
	}
	if s.idx >= len(s.hits) {
		return NoMoreDocs, nil
	}
	s.freshDoc = true
	return s.hits[s.idx].Doc, nil
}

func (s *materializedSpans) Advance(target int) (int, error) {
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

func (s *materializedSpans) NextStartPosition() (int, error) {
	if s.idx < 0 || s.idx >= len(s.hits) {
		return NoMorePositions, nil
	}
	if s.freshDoc {
		s.freshDoc = false
		return s.hits[s.idx].Start, nil
	}
	doc := s.hits[s.idx].Doc
	if s.idx+1 < len(s.hits) && s.hits[s.idx+1].Doc == doc {
		s.idx++
		return s.hits[s.idx].Start, nil
	}
	return NoMorePositions, nil
}

func (s *materializedSpans) AdvanceStartPosition(target int) (int, error) {
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

func (s *materializedSpans) Doc() int   { return s.hits[s.idx].Doc }
func (s *materializedSpans) Start() int { return s.hits[s.idx].Start }
func (s *materializedSpans) End() int   { return s.hits[s.idx].End }
func (s *materializedSpans) Width() int { return s.hits[s.idx].Width() }

func (s *materializedSpans) GetCapturedGroups(buf map[string]blacklab.Span) {}
