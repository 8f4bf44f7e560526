// Package spans implements the span-query engine (§4.4): a tree of nodes
// over one segment's inverted-index postings, each producing a lazy Spans
// iterator of (doc, start, end) hit triples, plus a rewriter that
// normalizes and optimizes the tree before execution.
package spans

import "github.com/corpusql/blacklab-core"

// NoMoreDocs and NoMorePositions are the sentinel values a Spans iterator
// returns once exhausted (§4.4).
const (
	NoMoreDocs       = blacklab.NoMoreDocs
	NoMorePositions  = blacklab.NoMorePositions
)

// TermLookup is the read-time postings source span Term nodes query
// against: a segment's delegate inverted index (§6.3), not the forward
// index — the forward index only serves the NFA matcher (§4.5). It is a
// narrower read surface than blacklab.PostingsEnumerator (which only
// walks every term in a field) because Term nodes need to find one known
// term's postings directly.
type TermLookup interface {
	// Postings returns the PostingsIterator for (field, term), or an
	// iterator with no docs if the term does not occur.
	Postings(field string, term []byte) (blacklab.PostingsIterator, error)
	// DocLength returns doc's token count for field, needed by Not.
	DocLength(field string, doc int) (int, error)
	// MaxDoc returns one past the highest doc id in the segment.
	MaxDoc() int
}

// Spans is a lazy cursor over (doc, start, end) hit triples in one
// segment, in the order the producing node declares (§4.4 "Spans iterator
// contract"). Implementations are single-threaded, cooperative: nothing
// here is safe to call from more than one goroutine at a time, though
// independent Spans instances over independent segments may run in
// parallel.
type Spans interface {
	// NextDoc advances to the next doc with at least one hit, or returns
	// NoMoreDocs.
	NextDoc() (int, error)
	// NextStartPosition advances to the next hit's start within the
	// current doc, or returns NoMorePositions.
	NextStartPosition() (int, error)
	// Advance skips forward to the first doc >= target, or NoMoreDocs.
	Advance(target int) (int, error)
	// AdvanceStartPosition skips forward to the first start >= target
	// within the current doc, or NoMorePositions.
	AdvanceStartPosition(target int) (int, error)

	// Doc, Start, End, Width are valid only between successful advance
	// calls.
	Doc() int
	Start() int
	End() int
	Width() int

	// GetCapturedGroups materializes any named-capture slots ancestor
	// nodes set for the current hit into buf, keyed by capture name.
	GetCapturedGroups(buf map[string]blacklab.Span)
}

// Node is one span-query tree node (§4.4). And and Or own a flat slice of
// children; Sequence is binary (Left, Right).
type Node interface {
	// Rewrite returns a semantically equivalent, optimized node. The
	// rewriter (Rewrite in rewrite.go) calls this bottom-up.
	Rewrite() Node

	// Self-description predicates used by the rewriter.
	MatchesEmptySequence() bool
	HitsAllSameLength() bool
	HitsLengthMin() int
	HitsLengthMax() int
	HitsStartPointSorted() bool
	HitsEndPointSorted() bool
	HitsHaveUniqueStart() bool
	HitsHaveUniqueEnd() bool
	HitsAreUnique() bool

	// ReverseMatchingCost estimates the cost of driving a join from this
	// node. No SpansForSegment in this package consults it; And and
	// Sequence materialize all their children regardless of cost.
	ReverseMatchingCost(src TermLookup) uint64

	// SpansForSegment builds this node's Spans iterator over one segment.
	SpansForSegment(src TermLookup) (Spans, error)
}
