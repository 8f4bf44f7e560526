package codec

import (
	"bytes"
	"sort"
	"strings"
)

// Collator compares two term byte strings under one sensitivity. Compare
// returns <0, 0, >0 like bytes.Compare. Terms that Compare reports as equal
// must collapse to the same sort position (§3 I3).
type Collator interface {
	Compare(a, b []byte) int
}

// ByteCollator is the case-sensitive collator: plain byte-wise comparison.
type ByteCollator struct{}

func (ByteCollator) Compare(a, b []byte) int { return bytes.Compare(a, b) }

// FoldCollator is the case-insensitive collator: byte-wise comparison of
// the lower-cased strings. This is the simple collation strategy the
// teacher's analyzer pipeline already relies on (strings.ToLower before
// indexing); a full locale-aware collator is out of scope for the core,
// which only needs *a* total order with the collapsing property, not a
// specific locale's order.
type FoldCollator struct{}

func (FoldCollator) Compare(a, b []byte) int {
	return strings.Compare(strings.ToLower(string(a)), strings.ToLower(string(b)))
}

// TermOrder holds the four parallel arrays described in §4.1: two
// permutations (term id -> sort position, sort position -> term id) for
// each of the two sensitivities.
type TermOrder struct {
	TermID2Insensitive []int32
	Insensitive2TermID []int32
	TermID2Sensitive   []int32
	Sensitive2TermID   []int32
}

// buildSortOrder computes one sensitivity's pair of arrays for a segment's
// terms using collator c. It implements §4.1's stable-sort-with-tie-
// collapse: pos2TermID is a stable sort of term ids by c, and termID2Pos
// collapses collation-equal adjacent entries onto the same position, per
// the invariant in §4.1 and tested by Q3/T2.
func buildSortOrder(terms [][]byte, c Collator) (termID2Pos, pos2TermID []int32) {
	n := len(terms)
	order := make([]int32, n)
	for i := range order {
		order[i] = int32(i)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return c.Compare(terms[order[i]], terms[order[j]]) < 0
	})

	pos2TermID = order
	termID2Pos = make([]int32, n)
	pos := int32(0)
	for i := 0; i < n; i++ {
		if i > 0 && c.Compare(terms[pos2TermID[i-1]], terms[pos2TermID[i]]) != 0 {
			pos = int32(i)
		}
		termID2Pos[pos2TermID[i]] = pos
	}
	return termID2Pos, pos2TermID
}

// BuildTermOrder computes both sensitivities' sort orders for one field's
// terms, in segment term-id order.
func BuildTermOrder(terms [][]byte, sensitive, insensitive Collator) TermOrder {
	termID2Sens, sens2TermID := buildSortOrder(terms, sensitive)
	termID2Ins, ins2TermID := buildSortOrder(terms, insensitive)
	return TermOrder{
		TermID2Insensitive: termID2Ins,
		Insensitive2TermID: ins2TermID,
		TermID2Sensitive:   termID2Sens,
		Sensitive2TermID:   sens2TermID,
	}
}

// writeTermOrderFile encodes the .termorder extension file: header, then
// the four int32 arrays in the order fixed by §4.1 (termID2InsensitivePos,
// insensitivePos2TermID, termID2SensitivePos, sensitivePos2TermID), then
// footer.
func writeTermOrderFile(h Header, o TermOrder) []byte {
	w := newBinWriter()
	writeHeader(w, h)
	writeInt32Array(w, o.TermID2Insensitive)
	writeInt32Array(w, o.Insensitive2TermID)
	writeInt32Array(w, o.TermID2Sensitive)
	writeInt32Array(w, o.Sensitive2TermID)
	return w.Finish()
}

func writeInt32Array(w *binWriter, a []int32) {
	for _, v := range a {
		w.WriteInt32(v)
	}
}

func readInt32Array(r *binReader, n int) ([]int32, error) {
	a := make([]int32, n)
	for i := range a {
		v, err := r.ReadInt32()
		if err != nil {
			return nil, err
		}
		a[i] = v
	}
	return a, nil
}

func readTermOrderFile(data []byte, wantSegmentID, wantDelegate string, numTerms int) (TermOrder, error) {
	if err := verifyFooter(data); err != nil {
		return TermOrder{}, err
	}
	r := newBinReader(data[:len(data)-4])
	h, err := readHeader(r)
	if err != nil {
		return TermOrder{}, err
	}
	if err := checkHeader(h, wantSegmentID, wantDelegate); err != nil {
		return TermOrder{}, err
	}
	var o TermOrder
	if o.TermID2Insensitive, err = readInt32Array(r, numTerms); err != nil {
		return TermOrder{}, err
	}
	if o.Insensitive2TermID, err = readInt32Array(r, numTerms); err != nil {
		return TermOrder{}, err
	}
	if o.TermID2Sensitive, err = readInt32Array(r, numTerms); err != nil {
		return TermOrder{}, err
	}
	if o.Sensitive2TermID, err = readInt32Array(r, numTerms); err != nil {
		return TermOrder{}, err
	}
	return o, nil
}

// SortPos returns the sort position of segment term id id under sensitivity
// s (§4.1 "sort_pos(field, term_id, sensitivity) → int").
func (o TermOrder) SortPos(id int32, insensitive bool) int32 {
	if insensitive {
		return o.TermID2Insensitive[id]
	}
	return o.TermID2Sensitive[id]
}
