package spans

import (
	"github.com/corpusql/blacklab-core"
	"github.com/corpusql/blacklab-core/forwardindex"
)

// DelegateLookup adapts a segment's inverted-index delegate (§6.3) plus
// its forward-index views into the narrower TermLookup contract span Term
// nodes need. Postings lookups scan the delegate's term dictionary for a
// field once per call; this engine doesn't maintain its own term->postings
// index on top of the delegate, since the delegate already is one.
type DelegateLookup struct {
	Delegate blacklab.PostingsEnumerator
	Views    map[string]*forwardindex.SegmentView // field -> forward-index view, for DocLength
}

func (d *DelegateLookup) Postings(field string, term []byte) (blacklab.PostingsIterator, error) {
	enum, err := d.Delegate.TermsOf(field)
	if err != nil {
		return nil, err
	}
	for enum.Next() {
		if string(enum.Term()) == string(term) {
			return enum.Postings()
		}
	}
	return emptyPostings{}, nil
}

func (d *DelegateLookup) DocLength(field string, doc int) (int, error) {
	view, ok := d.Views[field]
	if !ok {
		return 0, blacklab.NewError(blacklab.KindQuery, "no forward-index view for field "+field)
	}
	return view.DocLength(doc)
}

func (d *DelegateLookup) MaxDoc() int { return d.Delegate.MaxDocInSegment() }

type emptyPostings struct{}

func (emptyPostings) NextDoc() bool             { return false }
func (emptyPostings) Doc() int                  { return -1 }
func (emptyPostings) Freq() int                 { return 0 }
func (emptyPostings) Positions() blacklab.PositionIterator { return emptyPositions{} }

type emptyPositions struct{}

func (emptyPositions) Next() bool      { return false }
func (emptyPositions) Position() int   { return -1 }
func (emptyPositions) Payload() []byte { return nil }
