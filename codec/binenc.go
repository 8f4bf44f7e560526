// Package codec implements the segment-level forward-index codec (§4.1,
// §6.2): the six per-segment extension files (.fields, .terms,
// .termindex, .termorder, .tokens, .tokensindex) that sit alongside an
// external inverted-index delegate. The low-level binary encoding here
// mirrors the teacher's serialization.go (length-prefixed strings, explicit
// byte order, a small streaming writer/reader pair) generalized to the
// header+body+checksum-footer shape §6.2 requires, in the style of the
// section-offset bookkeeping used by zoekt's index writer.
package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash"
	"hash/crc32"
	"io"

	"github.com/corpusql/blacklab-core"
)

// byteOrder is fixed by §6.2: "All integers are big-endian fixed-width".
var byteOrder = binary.BigEndian

// binWriter accumulates bytes for one extension file and keeps a running
// CRC32 checksum, so Footer() can be called once at the end without a
// second pass over the data (the teacher buffers everything in a
// bytes.Buffer and this does the same, at segment scale that is cheap and
// keeps the offset bookkeeping in §4.1 step 2/3 simple).
type binWriter struct {
	buf *bytes.Buffer
	crc hash.Hash32
}

func newBinWriter() *binWriter {
	return &binWriter{buf: new(bytes.Buffer), crc: crc32.NewIEEE()}
}

func (w *binWriter) Offset() int64 { return int64(w.buf.Len()) }

func (w *binWriter) WriteUint8(v uint8)   { w.write([]byte{v}) }
func (w *binWriter) WriteInt8(v int8)     { w.WriteUint8(uint8(v)) }
func (w *binWriter) WriteUint16(v uint16) { w.writeFixed(2, uint64(v)) }
func (w *binWriter) WriteUint32(v uint32) { w.writeFixed(4, uint64(v)) }
func (w *binWriter) WriteUint64(v uint64) { w.writeFixed(8, v) }
func (w *binWriter) WriteInt32(v int32)   { w.WriteUint32(uint32(v)) }
func (w *binWriter) WriteInt64(v int64)   { w.WriteUint64(uint64(v)) }

func (w *binWriter) writeFixed(n int, v uint64) {
	b := make([]byte, n)
	switch n {
	case 2:
		byteOrder.PutUint16(b, uint16(v))
	case 4:
		byteOrder.PutUint32(b, uint32(v))
	case 8:
		byteOrder.PutUint64(b, v)
	default:
		panic("unsupported width")
	}
	w.write(b)
}

// WriteString writes a length-prefixed UTF-8 string: uint32 byte length
// followed by the raw bytes (§6.2 "strings are length-prefixed UTF-8").
func (w *binWriter) WriteString(s string) {
	w.WriteUint32(uint32(len(s)))
	w.write([]byte(s))
}

func (w *binWriter) WriteBytes(b []byte) { w.write(b) }

func (w *binWriter) write(b []byte) {
	w.buf.Write(b)
	w.crc.Write(b)
}

// Bytes returns the accumulated file body (header + body; Finish appends
// the footer on top of this).
func (w *binWriter) Bytes() []byte { return w.buf.Bytes() }

// Finish appends the CRC32 footer over everything written so far and
// returns the complete file contents.
func (w *binWriter) Finish() []byte {
	footer := make([]byte, 4)
	byteOrder.PutUint32(footer, w.crc.Sum32())
	return append(w.buf.Bytes(), footer...)
}

// binReader walks a fully-buffered extension file. Segment files are
// read whole into memory once at open time (§4.2 "no caching beyond the OS
// page cache is mandated" — an in-memory buffer satisfies that trivially
// since nothing here re-reads from disk between calls).
type binReader struct {
	data []byte
	pos  int
}

func newBinReader(data []byte) *binReader {
	return &binReader{data: data}
}

func (r *binReader) Offset() int64 { return int64(r.pos) }

func (r *binReader) Seek(off int64) { r.pos = int(off) }

func (r *binReader) remaining() int { return len(r.data) - r.pos }

func (r *binReader) ReadUint8() (uint8, error) {
	if r.remaining() < 1 {
		return 0, io.ErrUnexpectedEOF
	}
	v := r.data[r.pos]
	r.pos++
	return v, nil
}

func (r *binReader) ReadInt8() (int8, error) {
	v, err := r.ReadUint8()
	return int8(v), err
}

func (r *binReader) ReadUint16() (uint16, error) {
	if r.remaining() < 2 {
		return 0, io.ErrUnexpectedEOF
	}
	v := byteOrder.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *binReader) ReadUint32() (uint32, error) {
	if r.remaining() < 4 {
		return 0, io.ErrUnexpectedEOF
	}
	v := byteOrder.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *binReader) ReadUint64() (uint64, error) {
	if r.remaining() < 8 {
		return 0, io.ErrUnexpectedEOF
	}
	v := byteOrder.Uint64(r.data[r.pos:])
	r.pos += 8
	return v, nil
}

func (r *binReader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

func (r *binReader) ReadInt64() (int64, error) {
	v, err := r.ReadUint64()
	return int64(v), err
}

func (r *binReader) ReadString() (string, error) {
	n, err := r.ReadUint32()
	if err != nil {
		return "", err
	}
	if r.remaining() < int(n) {
		return "", io.ErrUnexpectedEOF
	}
	s := string(r.data[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return s, nil
}

func (r *binReader) ReadBytes(n int) ([]byte, error) {
	if r.remaining() < n {
		return nil, io.ErrUnexpectedEOF
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// verifyFooter checks the trailing 4-byte CRC32 footer against the CRC of
// everything preceding it, per §6.2 "ends with a checksum footer".
func verifyFooter(data []byte) error {
	if len(data) < 4 {
		return blacklab.NewError(blacklab.KindFormat, "file too short for checksum footer")
	}
	body, footer := data[:len(data)-4], data[len(data)-4:]
	want := byteOrder.Uint32(footer)
	got := crc32.ChecksumIEEE(body)
	if want != got {
		return blacklab.NewError(blacklab.KindFormat, fmt.Sprintf("checksum mismatch: file corrupt (want %08x, got %08x)", want, got))
	}
	return nil
}
