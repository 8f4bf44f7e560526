package codec

import "github.com/corpusql/blacklab-core"

// writeTermsFile encodes the .terms extension file: header, then each
// term's length-prefixed UTF-8 bytes in term-id order, then footer.
// termIndexOffsets[i] is filled in with the byte offset (absolute within
// the file, header included) of term i's length-prefix record, for
// writeTermIndexFile to persist.
func writeTermsFile(h Header, terms [][]byte, termIndexOffsets []int64) []byte {
	w := newBinWriter()
	writeHeader(w, h)
	for i, t := range terms {
		termIndexOffsets[i] = w.Offset()
		w.WriteString(string(t))
	}
	return w.Finish()
}

// writeTermIndexFile encodes the .termindex extension file: header, then
// n_terms int64 offsets into .terms, then footer.
func writeTermIndexFile(h Header, offsets []int64) []byte {
	w := newBinWriter()
	writeHeader(w, h)
	for _, off := range offsets {
		w.WriteInt64(off)
	}
	return w.Finish()
}

// TermIndex is the decoded .termindex file: for each segment term id, the
// byte offset (absolute within .terms, header included) where its
// length-prefixed string record begins.
type TermIndex struct {
	Offsets []int64
}

func readTermIndexFile(data []byte, wantSegmentID, wantDelegate string, numTerms int) (TermIndex, error) {
	if err := verifyFooter(data); err != nil {
		return TermIndex{}, err
	}
	r := newBinReader(data[:len(data)-4])
	h, err := readHeader(r)
	if err != nil {
		return TermIndex{}, err
	}
	if err := checkHeader(h, wantSegmentID, wantDelegate); err != nil {
		return TermIndex{}, err
	}
	offs := make([]int64, numTerms)
	for i := range offs {
		if offs[i], err = r.ReadInt64(); err != nil {
			return TermIndex{}, err
		}
	}
	return TermIndex{Offsets: offs}, nil
}

// Terms is the .terms file contents (footer stripped, header kept): random
// access to a segment's term strings by id, via the accompanying TermIndex.
type Terms struct {
	body  []byte // .terms contents from byte 0, header included, footer stripped
	index TermIndex
}

func newTermsReader(body []byte, index TermIndex) Terms {
	return Terms{body: body, index: index}
}

// NumTerms returns the number of terms in this segment's term dictionary.
func (t Terms) NumTerms() int { return len(t.index.Offsets) }

// Term returns the byte string for segment term id id.
func (t Terms) Term(id int32) ([]byte, error) {
	if id < 0 || int(id) >= len(t.index.Offsets) {
		return nil, blacklab.NewError(blacklab.KindConfiguration, "term id out of range")
	}
	off := t.index.Offsets[id]
	r := newBinReader(t.body)
	r.Seek(off)
	s, err := r.ReadString()
	if err != nil {
		return nil, blacklab.Wrap(blacklab.KindFormat, err)
	}
	return []byte(s), nil
}

// TermString is a convenience wrapper around Term returning a string.
func (t Terms) TermString(id int32) (string, error) {
	b, err := t.Term(id)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// All iterates every term in segment term-id order, calling fn(id, term)
// for each until fn returns false or the terms are exhausted.
func (t Terms) All(fn func(id int32, term []byte) bool) error {
	for i := 0; i < t.NumTerms(); i++ {
		term, err := t.Term(int32(i))
		if err != nil {
			return err
		}
		if !fn(int32(i), term) {
			return nil
		}
	}
	return nil
}
