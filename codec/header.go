package codec

import "github.com/corpusql/blacklab-core"

// Magic identifies a BlackLab forward-index extension file. Version is
// bumped whenever the on-disk layout in this package changes.
const (
	Magic          uint32 = 0x424C4658 // "BLFX"
	CurrentVersion uint32 = 1
)

// Extension names for the six per-segment files described in §4.1. The
// seventh, .termvec.tmp, is transient writer scratch and never opened by a
// reader; it has no Go type here beyond the staging map in writer.go.
const (
	ExtFields     = ".fields"
	ExtTerms      = ".terms"
	ExtTermIndex  = ".termindex"
	ExtTermOrder  = ".termorder"
	ExtTokens     = ".tokens"
	ExtTokensIdx  = ".tokensindex"
)

// Header is common to every extension file (§6.2): magic, codec name,
// version, segment id, suffix, and the name of the delegate postings
// format this segment's custom files extend.
type Header struct {
	CodecName    string
	Version      uint32
	SegmentID    string
	Suffix       string
	DelegateName string
}

func writeHeader(w *binWriter, h Header) {
	w.WriteUint32(Magic)
	w.WriteString(h.CodecName)
	w.WriteUint32(h.Version)
	w.WriteString(h.SegmentID)
	w.WriteString(h.Suffix)
	w.WriteString(h.DelegateName)
}

func readHeader(r *binReader) (Header, error) {
	magic, err := r.ReadUint32()
	if err != nil {
		return Header{}, err
	}
	if magic != Magic {
		return Header{}, blacklab.NewError(blacklab.KindFormat, "bad magic number: not a BlackLab forward-index file")
	}
	var h Header
	if h.CodecName, err = r.ReadString(); err != nil {
		return Header{}, err
	}
	if h.Version, err = r.ReadUint32(); err != nil {
		return Header{}, err
	}
	if h.SegmentID, err = r.ReadString(); err != nil {
		return Header{}, err
	}
	if h.Suffix, err = r.ReadString(); err != nil {
		return Header{}, err
	}
	if h.DelegateName, err = r.ReadString(); err != nil {
		return Header{}, err
	}
	return h, nil
}

// checkHeader verifies a decoded header is compatible with this reader and
// matches the segment/delegate it expected to see (§7 "delegate-name
// mismatch" is a format error, fatal for the containing segment).
func checkHeader(h Header, wantSegmentID, wantDelegate string) error {
	if h.Version != CurrentVersion {
		return blacklab.NewError(blacklab.KindFormat, "unsupported forward-index version")
	}
	if h.SegmentID != wantSegmentID {
		return blacklab.NewError(blacklab.KindFormat, "segment id mismatch")
	}
	if h.DelegateName != wantDelegate {
		return blacklab.NewError(blacklab.KindFormat, "delegate name mismatch")
	}
	return nil
}
