package codec

// Segment ties a segment's forward-index reader to its delegate inverted
// index, resolving the cyclic reference described in the architecture
// notes: the codec reader needs the delegate's name before the delegate
// itself can be constructed, and the delegate (once built) may want a
// back-pointer to the forward index it sits beside. OpenSegment performs
// this as a two-phase init: first it peeks the delegate name out of
// .fields, then the caller builds the delegate and installs it with
// SetDelegate. No cyclic constructor call is required.
type Segment struct {
	reader   *SegmentReader
	delegate any
}

// PeekDelegateName reads only the header of a .fields file to learn which
// delegate postings format this segment was built against, without
// validating the rest of the forward index. Callers use this to decide
// which delegate implementation to construct before calling OpenSegment.
func PeekDelegateName(fieldsFile []byte) (string, error) {
	if err := verifyFooter(fieldsFile); err != nil {
		return "", err
	}
	r := newBinReader(fieldsFile[:len(fieldsFile)-4])
	h, err := readHeader(r)
	if err != nil {
		return "", err
	}
	return h.DelegateName, nil
}

// OpenSegment is phase one of the two-phase init: it opens and validates
// every forward-index extension file against the expected segment id and
// delegate name. The caller is expected to have already learned
// delegateName via PeekDelegateName (or from the delegate it is about to
// attach) before calling this.
func OpenSegment(files map[string][]byte, segmentID, delegateName string) (*Segment, error) {
	reader, err := OpenSegmentReader(files, segmentID, delegateName)
	if err != nil {
		return nil, err
	}
	return &Segment{reader: reader}, nil
}

// SetDelegate installs the back-pointer to this segment's delegate
// inverted index, completing phase two of the init. The delegate's
// concrete type is outside this package's concern (§6.3 only specifies the
// write-time PostingsEnumerator contract); callers that need the delegate
// back typically wrap it themselves and type-assert Delegate().
func (s *Segment) SetDelegate(delegate any) { s.delegate = delegate }

// Delegate returns the back-pointer installed by SetDelegate, or nil if
// none has been installed yet.
func (s *Segment) Delegate() any { return s.delegate }

// Reader returns this segment's forward-index reader.
func (s *Segment) Reader() *SegmentReader { return s.reader }
