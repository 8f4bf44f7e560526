package spans

import (
	"sort"

	"github.com/corpusql/blacklab-core"
)

// TagSpans reconstructs (start, end) pairs for an inline XML tag from its
// start-token postings, whose payload encodes the end offset as a
// trailing varint (§6.3 payload protocol, §4.4 "TagSpans"). Empty tags
// (end == start) are valid and pass straight through.
type TagSpans struct {
	Field   string
	TagName []byte
}

func (n *TagSpans) Rewrite() Node { return n }

func (n *TagSpans) MatchesEmptySequence() bool { return false }
func (n *TagSpans) HitsAllSameLength() bool     { return false }
func (n *TagSpans) HitsLengthMin() int          { return 0 }
func (n *TagSpans) HitsLengthMax() int          { return -1 }
func (n *TagSpans) HitsStartPointSorted() bool  { return true }
func (n *TagSpans) HitsEndPointSorted() bool    { return false }
func (n *TagSpans) HitsHaveUniqueStart() bool   { return true }
func (n *TagSpans) HitsHaveUniqueEnd() bool     { return false }
func (n *TagSpans) HitsAreUnique() bool         { return true }

func (n *TagSpans) ReverseMatchingCost(src TermLookup) uint64 {
	pi, err := src.Postings(n.Field, n.TagName)
	if err != nil {
		return ^uint64(0)
	}
	var docs uint64
	for pi.NextDoc() {
		docs++
	}
	return docs
}

func (n *TagSpans) SpansForSegment(src TermLookup) (Spans, error) {
	pi, err := src.Postings(n.Field, n.TagName)
	if err != nil {
		return nil, err
	}

	var hits []blacklab.Span
	for pi.NextDoc() {
		doc := pi.Doc()
		positions := pi.Positions()
		for positions.Next() {
			start := positions.Position()
			payload := positions.Payload()
			end := start
			if e, ok := blacklab.EndOffset(payload); ok {
				end = e
			}
			hits = append(hits, blacklab.Span{Doc: doc, Start: start, End: end})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Less(hits[j]) })
	return newMaterializedSpans(hits), nil
}
