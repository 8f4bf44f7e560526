// Package memindex is an in-memory reference implementation of the root
// package's §6.3 adapter contract (PostingsEnumerator/TermsEnum/
// PostingsIterator/PositionIterator), used by codec/forwardindex/terms/
// spans/nfa tests. It is grounded on the teacher's InvertedIndex: a
// roaring.Bitmap per term for document-level membership, paired here with
// plain per-doc position slices (the teacher used a SkipList for the same
// job; a slice is equivalent for the moderate synthetic corpora these
// tests build and keeps the test fixture small).
package memindex

import (
	"sort"
	"sync"

	"github.com/RoaringBitmap/roaring"

	"github.com/corpusql/blacklab-core"
)

type occurrence struct {
	pos     int
	payload []byte
}

type fieldIndex struct {
	termToID map[string]int32
	terms    []string // term id -> term string, dictionary order (sorted)

	docBitmaps []*roaring.Bitmap          // term id -> doc set
	postings   []map[int][]occurrence     // term id -> doc -> occurrences, position-sorted
}

func newFieldIndex() *fieldIndex {
	return &fieldIndex{termToID: make(map[string]int32)}
}

func (fi *fieldIndex) termID(term string) int32 {
	if id, ok := fi.termToID[term]; ok {
		return id
	}
	id := int32(len(fi.terms))
	fi.termToID[term] = id
	fi.terms = append(fi.terms, term)
	fi.docBitmaps = append(fi.docBitmaps, roaring.New())
	fi.postings = append(fi.postings, make(map[int][]occurrence))
	return id
}

// sortByTerm reassigns term ids in lexicographic order so TermsOf walks
// "in term order" (§6.3) deterministically, matching how the real codec
// writer expects a segment's terms presented.
func (fi *fieldIndex) sortByTerm() {
	order := make([]int, len(fi.terms))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return fi.terms[order[i]] < fi.terms[order[j]] })

	newTerms := make([]string, len(fi.terms))
	newBitmaps := make([]*roaring.Bitmap, len(fi.terms))
	newPostings := make([]map[int][]occurrence, len(fi.terms))
	newTermToID := make(map[string]int32, len(fi.terms))
	for newID, oldID := range order {
		newTerms[newID] = fi.terms[oldID]
		newBitmaps[newID] = fi.docBitmaps[oldID]
		newPostings[newID] = fi.postings[oldID]
		newTermToID[fi.terms[oldID]] = int32(newID)
	}
	fi.terms, fi.docBitmaps, fi.postings, fi.termToID = newTerms, newBitmaps, newPostings, newTermToID
}

// Index is an in-memory multi-field, multi-document inverted index
// supporting the primary-value payload protocol (§6.3) so it can double
// as a forward-index writer's source. Safe for concurrent AddAnnotation
// calls, following the teacher's single coarse mutex.
type Index struct {
	mu     sync.Mutex
	fields map[string]*fieldIndex
	maxDoc int
	frozen bool
}

// New returns an empty index.
func New() *Index {
	return &Index{fields: make(map[string]*fieldIndex)}
}

func (ix *Index) field(name string) *fieldIndex {
	fi, ok := ix.fields[name]
	if !ok {
		fi = newFieldIndex()
		ix.fields[name] = fi
	}
	return fi
}

// AddAnnotation records one annotation's values for doc at sequential
// positions 0..len(values)-1 (§6.4: base%annotation composite field name
// is the caller's concern, not this index's — field here is already the
// composite name). primary marks every position's payload with the
// primary-value bit (§6.3): exactly one annotation per base field should
// pass primary=true.
func (ix *Index) AddAnnotation(field string, doc int, values []string, primary bool) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	fi := ix.field(field)
	if doc+1 > ix.maxDoc {
		ix.maxDoc = doc + 1
	}
	for pos, v := range values {
		id := fi.termID(v)
		fi.docBitmaps[id].Add(uint32(doc))
		payload := blacklab.EncodePayload(primary, false, 0)
		fi.postings[id][doc] = append(fi.postings[id][doc], occurrence{pos: pos, payload: payload})
	}
}

// AddTagSpan records an inline-tag start token (§4.4 TagSpans) at position
// start whose payload encodes end as a following varint, under the fixed
// term "<tag>" within field.
func (ix *Index) AddTagSpan(field string, doc, start, end int) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	fi := ix.field(field)
	if doc+1 > ix.maxDoc {
		ix.maxDoc = doc + 1
	}
	id := fi.termID("<tag>")
	fi.docBitmaps[id].Add(uint32(doc))
	payload := blacklab.EncodePayload(true, true, end)
	fi.postings[id][doc] = append(fi.postings[id][doc], occurrence{pos: start, payload: payload})
}

// Freeze sorts every field's term dictionary into byte order; a second call
// is a no-op. It does not block later AddAnnotation/AddTagSpan calls, so it
// must be called after the last of them and before the index is handed to
// codec.WriteSegment, so term ids are assigned in the order TermsOf
// presents them.
func (ix *Index) Freeze() {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.frozen {
		return
	}
	for _, fi := range ix.fields {
		fi.sortByTerm()
		for _, byDoc := range fi.postings {
			for doc := range byDoc {
				sort.Slice(byDoc[doc], func(i, j int) bool { return byDoc[doc][i].pos < byDoc[doc][j].pos })
			}
		}
	}
	ix.frozen = true
}

// FieldsInSegment implements blacklab.PostingsEnumerator.
func (ix *Index) FieldsInSegment() []string {
	names := make([]string, 0, len(ix.fields))
	for name := range ix.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MaxDocInSegment implements blacklab.PostingsEnumerator.
func (ix *Index) MaxDocInSegment() int { return ix.maxDoc }

// TermsOf implements blacklab.PostingsEnumerator.
func (ix *Index) TermsOf(field string) (blacklab.TermsEnum, error) {
	fi, ok := ix.fields[field]
	if !ok {
		return nil, blacklab.NewError(blacklab.KindQuery, "no such field: "+field)
	}
	return &termsEnum{fi: fi, pos: -1}, nil
}

type termsEnum struct {
	fi  *fieldIndex
	pos int
}

func (e *termsEnum) Next() bool {
	e.pos++
	return e.pos < len(e.fi.terms)
}

func (e *termsEnum) Term() []byte { return []byte(e.fi.terms[e.pos]) }

func (e *termsEnum) DocFreq() int { return int(e.fi.docBitmaps[e.pos].GetCardinality()) }

func (e *termsEnum) Postings() (blacklab.PostingsIterator, error) {
	docs := e.fi.docBitmaps[e.pos].ToArray()
	return &postingsIter{docs: docs, idx: -1, occ: e.fi.postings[e.pos]}, nil
}

type postingsIter struct {
	docs []uint32
	idx  int
	occ  map[int][]occurrence
}

func (p *postingsIter) NextDoc() bool {
	p.idx++
	return p.idx < len(p.docs)
}

func (p *postingsIter) Doc() int { return int(p.docs[p.idx]) }

func (p *postingsIter) Freq() int { return len(p.occ[p.Doc()]) }

func (p *postingsIter) Positions() blacklab.PositionIterator {
	return &positionIter{occs: p.occ[p.Doc()], idx: -1}
}

type positionIter struct {
	occs []occurrence
	idx  int
}

func (p *positionIter) Next() bool {
	p.idx++
	return p.idx < len(p.occs)
}

func (p *positionIter) Position() int { return p.occs[p.idx].pos }

func (p *positionIter) Payload() []byte { return p.occs[p.idx].payload }
