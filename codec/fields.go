package codec

// Field is one annotated field's directory entry in the .fields file
// (§4.1, §6.2): its term count and the byte offsets, within the sibling
// .termorder/.termindex/.tokensindex files, where its data begins.
type Field struct {
	Name           string
	NumTerms       int32
	TermOrderOff   int64
	TermIndexOff   int64
	TokensIndexOff int64
}

// writeFieldsFile encodes the .fields extension file: header, field count,
// then each Field record, then footer.
func writeFieldsFile(h Header, fields []Field) []byte {
	w := newBinWriter()
	writeHeader(w, h)
	w.WriteUint32(uint32(len(fields)))
	for _, f := range fields {
		w.WriteString(f.Name)
		w.WriteInt32(f.NumTerms)
		w.WriteInt64(f.TermOrderOff)
		w.WriteInt64(f.TermIndexOff)
		w.WriteInt64(f.TokensIndexOff)
	}
	return w.Finish()
}

// readFieldsFile decodes a .fields extension file.
func readFieldsFile(data []byte, wantSegmentID, wantDelegate string) ([]Field, error) {
	if err := verifyFooter(data); err != nil {
		return nil, err
	}
	r := newBinReader(data[:len(data)-4])
	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	if err := checkHeader(h, wantSegmentID, wantDelegate); err != nil {
		return nil, err
	}
	n, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	fields := make([]Field, n)
	for i := range fields {
		var f Field
		if f.Name, err = r.ReadString(); err != nil {
			return nil, err
		}
		if f.NumTerms, err = r.ReadInt32(); err != nil {
			return nil, err
		}
		if f.TermOrderOff, err = r.ReadInt64(); err != nil {
			return nil, err
		}
		if f.TermIndexOff, err = r.ReadInt64(); err != nil {
			return nil, err
		}
		if f.TokensIndexOff, err = r.ReadInt64(); err != nil {
			return nil, err
		}
		fields[i] = f
	}
	return fields, nil
}
