package codec

import "github.com/corpusql/blacklab-core"

// SegmentReader is the read surface of §4.1 over one segment's forward-index
// extension files: terms, doc_tokens, sort_pos, and the global-id mapping
// bundled in by SetGlobalMapping.
type SegmentReader struct {
	segmentID    string
	delegateName string
	numDocs      int

	fieldsByName map[string]Field
	fieldOrder   []string

	termsBody []byte
	termIdx   []byte

	termOrderBody []byte

	tokens Tokens

	global map[string][]int32 // field -> segment term id -> global term id
}

// OpenSegmentReader decodes a segment's extension files (already read into
// memory by the caller) into a SegmentReader. wantSegmentID/wantDelegate
// guard against a reader being pointed at the wrong segment or an
// incompatible delegate postings format (§7 format errors).
func OpenSegmentReader(files map[string][]byte, wantSegmentID, wantDelegate string) (*SegmentReader, error) {
	fields, err := readFieldsFile(files[ExtFields], wantSegmentID, wantDelegate)
	if err != nil {
		return nil, err
	}

	if err := verifyFooter(files[ExtTerms]); err != nil {
		return nil, err
	}
	termsBody := files[ExtTerms][:len(files[ExtTerms])-4]
	if _, err := readHeaderAt(termsBody, wantSegmentID, wantDelegate); err != nil {
		return nil, err
	}

	if err := verifyFooter(files[ExtTermIndex]); err != nil {
		return nil, err
	}
	termIdxBody := files[ExtTermIndex][:len(files[ExtTermIndex])-4]
	if _, err := readHeaderAt(termIdxBody, wantSegmentID, wantDelegate); err != nil {
		return nil, err
	}

	if err := verifyFooter(files[ExtTermOrder]); err != nil {
		return nil, err
	}
	termOrderBody := files[ExtTermOrder][:len(files[ExtTermOrder])-4]
	if _, err := readHeaderAt(termOrderBody, wantSegmentID, wantDelegate); err != nil {
		return nil, err
	}

	numDocs, err := tokensIndexDocCount(files, wantSegmentID, wantDelegate, fields)
	if err != nil {
		return nil, err
	}
	tokensIdx, err := readTokensIndexFile(files[ExtTokensIdx], wantSegmentID, wantDelegate, numDocs*len(fields))
	if err != nil {
		return nil, err
	}
	if err := verifyFooter(files[ExtTokens]); err != nil {
		return nil, err
	}
	tokensBody := files[ExtTokens][:len(files[ExtTokens])-4]
	if _, err := readHeaderAt(tokensBody, wantSegmentID, wantDelegate); err != nil {
		return nil, err
	}

	byName := make(map[string]Field, len(fields))
	order := make([]string, 0, len(fields))
	for _, f := range fields {
		byName[f.Name] = f
		order = append(order, f.Name)
	}

	return &SegmentReader{
		segmentID:     wantSegmentID,
		delegateName:  wantDelegate,
		numDocs:       numDocs,
		fieldsByName:  byName,
		fieldOrder:    order,
		termsBody:     termsBody,
		termIdx:       termIdxBody,
		termOrderBody: termOrderBody,
		tokens:        newTokensReader(tokensBody, tokensIdx),
		global:        make(map[string][]int32),
	}, nil
}

// tokensIndexDocCount recovers the per-field doc count from .tokensindex's
// total entry count: every field has exactly numDocs entries (§4.1), so
// numDocs = total_entries / num_fields.
func tokensIndexDocCount(files map[string][]byte, wantSegmentID, wantDelegate string, fields []Field) (int, error) {
	data := files[ExtTokensIdx]
	if err := verifyFooter(data); err != nil {
		return 0, err
	}
	r := newBinReader(data[:len(data)-4])
	h, err := readHeader(r)
	if err != nil {
		return 0, err
	}
	if err := checkHeader(h, wantSegmentID, wantDelegate); err != nil {
		return 0, err
	}
	if len(fields) == 0 {
		return 0, nil
	}
	remainingBytes := len(data) - 4 - int(r.Offset())
	const entrySize = 8 + 4 + 1 + 1
	totalEntries := remainingBytes / entrySize
	return totalEntries / len(fields), nil
}

func readHeaderAt(body []byte, wantSegmentID, wantDelegate string) (Header, error) {
	r := newBinReader(body)
	h, err := readHeader(r)
	if err != nil {
		return Header{}, err
	}
	if err := checkHeader(h, wantSegmentID, wantDelegate); err != nil {
		return Header{}, err
	}
	return h, nil
}

// Fields lists the annotated fields this segment carries a forward index
// for, in the order they were written.
func (s *SegmentReader) Fields() []string { return s.fieldOrder }

// Terms returns the term dictionary for field (§4.1 "terms(field) → Terms").
func (s *SegmentReader) Terms(field string) (Terms, error) {
	f, ok := s.fieldsByName[field]
	if !ok {
		return Terms{}, blacklab.NewError(blacklab.KindQuery, "no such field in segment: "+field)
	}
	idxReader := newBinReader(s.termIdx)
	idxReader.Seek(f.TermIndexOff)
	offsets := make([]int64, f.NumTerms)
	for i := range offsets {
		off, err := idxReader.ReadInt64()
		if err != nil {
			return Terms{}, err
		}
		offsets[i] = off
	}
	return newTermsReader(s.termsBody, TermIndex{Offsets: offsets}), nil
}

// DocTokens returns doc's tokens in [start, end) for field, in O(end-start)
// (§4.1 "doc_tokens(field, doc, start, end)", §4.2).
func (s *SegmentReader) DocTokens(field string, doc, start, end int) ([]int32, error) {
	f, ok := s.fieldsByName[field]
	if !ok {
		return nil, blacklab.NewError(blacklab.KindQuery, "no such field in segment: "+field)
	}
	if doc < 0 || doc >= s.numDocs {
		return nil, blacklab.NewError(blacklab.KindConfiguration, "doc id out of range")
	}
	fieldIndex := s.fieldEntryIndex(f)
	globalDocIndex := fieldIndex*s.numDocs + doc

	entry := s.tokens.index[globalDocIndex]
	if end > int(entry.Length) {
		end = int(entry.Length)
	}
	if start < 0 {
		start = 0
	}
	if start > end {
		start = end
	}
	return s.tokens.DocTokens(globalDocIndex, start, end)
}

// Entry returns a doc's raw tokens-index entry for field, without decoding
// any payload. This is the "read the per-doc tokens-index entry" step of
// §4.2's four-step slice-read algorithm, exposed separately so callers
// (forwardindex.SegmentView) can perform the remaining clamp/decode steps
// themselves against a per-thread scratch buffer.
func (s *SegmentReader) Entry(field string, doc int) (TokensIndexEntry, error) {
	f, ok := s.fieldsByName[field]
	if !ok {
		return TokensIndexEntry{}, blacklab.NewError(blacklab.KindQuery, "no such field in segment: "+field)
	}
	if doc < 0 || doc >= s.numDocs {
		return TokensIndexEntry{}, blacklab.NewError(blacklab.KindConfiguration, "doc id out of range")
	}
	globalDocIndex := s.fieldEntryIndex(f)*s.numDocs + doc
	return s.tokens.index[globalDocIndex], nil
}

// EntryPayload returns the full (un-clamped, un-decoded) payload bytes for
// a doc's tokens-index entry, i.e. the .tokens bytes between entry.Offset
// and entry.Offset+len(payload implied by tag/param/length).
func (s *SegmentReader) EntryPayload(entry TokensIndexEntry) []byte {
	width := int(entry.CodecParam)
	if entry.CodecTag == CodecAllTokensTheSame {
		width = int(WidthInt)
	}
	n := int(entry.Length) * width
	if entry.CodecTag == CodecAllTokensTheSame {
		n = int(WidthInt)
	}
	return s.tokens.body[int(entry.Offset) : int(entry.Offset)+n]
}

func (s *SegmentReader) fieldEntryIndex(f Field) int {
	for i, name := range s.fieldOrder {
		if name == f.Name {
			return i
		}
	}
	return 0
}

// SortPos returns the sort position of term id under sensitivity (§4.1
// "sort_pos(field, term_id, sensitivity)").
func (s *SegmentReader) SortPos(field string, termID int32, insensitive bool) (int32, error) {
	f, ok := s.fieldsByName[field]
	if !ok {
		return 0, blacklab.NewError(blacklab.KindQuery, "no such field in segment: "+field)
	}
	order, err := s.readTermOrder(f)
	if err != nil {
		return 0, err
	}
	return order.SortPos(termID, insensitive), nil
}

func (s *SegmentReader) readTermOrder(f Field) (TermOrder, error) {
	r := newBinReader(s.termOrderBody)
	r.Seek(f.TermOrderOff)
	n := int(f.NumTerms)
	var o TermOrder
	var err error
	if o.TermID2Insensitive, err = readInt32Array(r, n); err != nil {
		return TermOrder{}, err
	}
	if o.Insensitive2TermID, err = readInt32Array(r, n); err != nil {
		return TermOrder{}, err
	}
	if o.TermID2Sensitive, err = readInt32Array(r, n); err != nil {
		return TermOrder{}, err
	}
	if o.Sensitive2TermID, err = readInt32Array(r, n); err != nil {
		return TermOrder{}, err
	}
	return o, nil
}

// SetGlobalMapping installs the segment_to_global mapping for field,
// indexed by segment term id (§4.1 "segment_to_global(field, term_id)").
// The terms package computes this mapping at global-terms-build time and
// bundles it back into each segment's reader.
func (s *SegmentReader) SetGlobalMapping(field string, segmentToGlobal []int32) {
	s.global[field] = segmentToGlobal
}

// SegmentToGlobal maps a segment-local term id to its global term id.
func (s *SegmentReader) SegmentToGlobal(field string, termID int32) (int32, error) {
	m, ok := s.global[field]
	if !ok {
		return 0, blacklab.NewError(blacklab.KindConfiguration, "no global mapping installed for field: "+field)
	}
	if termID < 0 || int(termID) >= len(m) {
		return 0, blacklab.NewError(blacklab.KindConfiguration, "term id out of range")
	}
	return m[termID], nil
}
