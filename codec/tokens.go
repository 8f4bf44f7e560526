package codec

import "github.com/corpusql/blacklab-core"

// Per-doc tokens encodings (§4.1 "Tokens encoding").
const (
	CodecAllTokensTheSame int8 = 0
	CodecValuePerToken    int8 = 1
)

// Widths for CodecValuePerToken's codec_param (§4.1).
const (
	WidthByte       int8 = 1
	WidthShort      int8 = 2
	WidthThreeBytes int8 = 3
	WidthInt        int8 = 4
)

// TokensIndexEntry is one doc's directory entry in .tokensindex (§6.2):
// where its payload starts in .tokens, how many positions it has, and
// which codec/width encodes it.
type TokensIndexEntry struct {
	Offset     int64
	Length     int32
	CodecTag   int8
	CodecParam int8
}

// widthForMaxTermID returns the smallest signed-integer width (in bytes)
// that can hold termID, per §4.1 "The width chosen is the smallest that
// holds the maximum term id in the doc." Term ids are non-negative so only
// the upper bound matters; NO_TERM (-1) always fits in the smallest width.
func widthForMaxTermID(termID int32) int8 {
	switch {
	case termID >= -128 && termID <= 127:
		return WidthByte
	case termID >= -32768 && termID <= 32767:
		return WidthShort
	case termID >= -8388608 && termID <= 8388607:
		return WidthThreeBytes
	default:
		return WidthInt
	}
}

// encodeSigned writes v as a width-byte big-endian two's-complement
// integer.
func encodeSigned(v int32, width int8) []byte {
	b := make([]byte, width)
	u := uint32(v)
	for i := int(width) - 1; i >= 0; i-- {
		b[i] = byte(u)
		u >>= 8
	}
	return b
}

// decodeSigned reads a width-byte big-endian two's-complement integer and
// sign-extends it to int32.
func decodeSigned(b []byte, width int8) int32 {
	var u uint32
	for i := 0; i < int(width); i++ {
		u = u<<8 | uint32(b[i])
	}
	// Sign-extend from `width` bytes to 32 bits.
	shift := uint(32 - 8*int(width))
	return int32(u<<shift) >> shift
}

// EncodeDoc chooses the cheapest per-doc codec for tokens (§4.1 step 4: "a
// single linear scan computing max(term_id) and an 'all the same' flag")
// and returns the (tag, param, payload) to store in .tokensindex/.tokens.
// A zero-length doc writes no payload bytes (§4.1).
func EncodeDoc(tokens []int32) (tag, param int8, payload []byte) {
	if len(tokens) == 0 {
		return CodecValuePerToken, WidthByte, nil
	}

	allSame := true
	var maxTermID int32 = tokens[0]
	for _, t := range tokens[1:] {
		if t != tokens[0] {
			allSame = false
		}
		if t > maxTermID {
			maxTermID = t
		}
	}

	if allSame {
		return CodecAllTokensTheSame, 0, encodeSigned(tokens[0], WidthInt)
	}

	width := widthForMaxTermID(maxTermID)
	buf := make([]byte, 0, len(tokens)*int(width))
	for _, t := range tokens {
		buf = append(buf, encodeSigned(t, width)...)
	}
	return CodecValuePerToken, width, buf
}

// DecodeRange decodes tokens in [start, end) of a doc given its
// TokensIndexEntry and the raw .tokens payload bytes for that doc (already
// sliced to entry.Length positions' worth). It runs in O(end-start),
// independent of doc_length, satisfying §4.2's random-access requirement.
func DecodeRange(entry TokensIndexEntry, payload []byte, start, end int) ([]int32, error) {
	if start < 0 || end > int(entry.Length) || start > end {
		return nil, blacklab.NewError(blacklab.KindConfiguration, "token range out of bounds")
	}
	out := make([]int32, end-start)
	switch entry.CodecTag {
	case CodecAllTokensTheSame:
		v := decodeSigned(payload, WidthInt)
		for i := range out {
			out[i] = v
		}
	case CodecValuePerToken:
		width := entry.CodecParam
		for i := 0; i < end-start; i++ {
			pos := start + i
			b := payload[pos*int(width) : pos*int(width)+int(width)]
			out[i] = decodeSigned(b, width)
		}
	default:
		return nil, blacklab.NewError(blacklab.KindFormat, "unknown tokens codec tag")
	}
	return out, nil
}

// writeTokensIndexFile encodes the .tokensindex extension file: header, then
// n_docs entries of (i64 offset, i32 length, i8 codec_tag, i8 codec_param)
// in doc id order (§6.2), then footer.
func writeTokensIndexFile(h Header, entries []TokensIndexEntry) []byte {
	w := newBinWriter()
	writeHeader(w, h)
	for _, e := range entries {
		w.WriteInt64(e.Offset)
		w.WriteInt32(e.Length)
		w.WriteInt8(e.CodecTag)
		w.WriteInt8(e.CodecParam)
	}
	return w.Finish()
}

func readTokensIndexFile(data []byte, wantSegmentID, wantDelegate string, numDocs int) ([]TokensIndexEntry, error) {
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
	entries := make([]TokensIndexEntry, numDocs)
	for i := range entries {
		var e TokensIndexEntry
		if e.Offset, err = r.ReadInt64(); err != nil {
			return nil, err
		}
		if e.Length, err = r.ReadInt32(); err != nil {
			return nil, err
		}
		if e.CodecTag, err = r.ReadInt8(); err != nil {
			return nil, err
		}
		if e.CodecParam, err = r.ReadInt8(); err != nil {
			return nil, err
		}
		entries[i] = e
	}
	return entries, nil
}

// writeTokensFile encodes the .tokens extension file: header, then each
// doc's payload bytes back-to-back in doc id order, then footer. Offsets
// recorded in TokensIndexEntry.Offset are absolute within this file
// (header included), matching how .terms/.termindex offsets are taken.
func writeTokensFile(h Header, payloads [][]byte, entries []TokensIndexEntry) []byte {
	w := newBinWriter()
	writeHeader(w, h)
	for i, p := range payloads {
		entries[i].Offset = w.Offset()
		w.WriteBytes(p)
	}
	return w.Finish()
}

// Tokens is the .tokens file contents (footer stripped, header kept),
// paired with its .tokensindex directory for per-doc random access.
type Tokens struct {
	body  []byte
	index []TokensIndexEntry
}

func newTokensReader(body []byte, index []TokensIndexEntry) Tokens {
	return Tokens{body: body, index: index}
}

// DocTokens returns tokens in [start, end) of doc, in O(end-start) (§4.2).
func (t Tokens) DocTokens(doc int, start, end int) ([]int32, error) {
	if doc < 0 || doc >= len(t.index) {
		return nil, blacklab.NewError(blacklab.KindConfiguration, "doc id out of range")
	}
	e := t.index[doc]
	var payloadLen int
	if e.CodecTag == CodecAllTokensTheSame {
		payloadLen = int(WidthInt)
	} else {
		payloadLen = int(e.Length) * int(e.CodecParam)
	}
	payload := t.body[int(e.Offset) : int(e.Offset)+payloadLen]
	return DecodeRange(e, payload, start, end)
}
