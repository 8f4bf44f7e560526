// Package forwardindex implements the per-thread forward-index reader
// (§4.2): random-access decoding of a segment's packed token streams,
// cloned per worker goroutine so that no mutable state is shared between
// concurrent readers of the same segment.
package forwardindex

import (
	"github.com/corpusql/blacklab-core"
	"github.com/corpusql/blacklab-core/codec"
)

// SegmentView is a thread-local view over one (segment, field) pair. The
// underlying codec.SegmentReader and its byte buffers are immutable and
// safely shared across goroutines (§4.4 "Shared resources"); the scratch
// buffer below is not, which is why Clone exists instead of sharing one
// SegmentView.
type SegmentView struct {
	seg     *codec.SegmentReader
	field   string
	scratch []int32
}

// NewSegmentView opens a view over field in seg, for use by a single
// goroutine.
func NewSegmentView(seg *codec.SegmentReader, field string) *SegmentView {
	return &SegmentView{seg: seg, field: field}
}

// Clone returns an independent per-thread view sharing the same immutable
// parent but with its own scratch decode buffer (§4.2 "Readers are
// per-thread views cloned from a thread-safe parent; no shared mutable
// state").
func (v *SegmentView) Clone() *SegmentView {
	return &SegmentView{seg: v.seg, field: v.field}
}

// DocLength returns the number of positions recorded for doc.
func (v *SegmentView) DocLength(doc int) (int, error) {
	entry, err := v.seg.Entry(v.field, doc)
	if err != nil {
		return 0, err
	}
	return int(entry.Length), nil
}

// Slice runs the four-step algorithm of §4.2:
//  1. read the per-doc tokens-index entry;
//  2. clamp [start, end) to [0, length);
//  3. if the doc's codec tag is ALL_TOKENS_THE_SAME, fill the output with
//     the single term id without touching .tokens per position;
//  4. otherwise decode the width-appropriate stream into the output.
//
// The returned slice aliases v's scratch buffer and is only valid until
// the next call to Slice on the same SegmentView; callers that need to
// retain it must copy.
func (v *SegmentView) Slice(doc, start, end int) ([]int32, error) {
	entry, err := v.seg.Entry(v.field, doc)
	if err != nil {
		return nil, err
	}

	if start < 0 {
		start = 0
	}
	if end > int(entry.Length) {
		end = int(entry.Length)
	}
	if start > end {
		start = end
	}

	n := end - start
	if cap(v.scratch) < n {
		v.scratch = make([]int32, n)
	}
	out := v.scratch[:n]

	if entry.CodecTag == codec.CodecAllTokensTheSame {
		payload := v.seg.EntryPayload(entry)
		decoded, err := codec.DecodeRange(entry, payload, 0, 1)
		if err != nil {
			return nil, err
		}
		for i := range out {
			out[i] = decoded[0]
		}
		return out, nil
	}

	payload := v.seg.EntryPayload(entry)
	decoded, err := codec.DecodeRange(entry, payload, start, end)
	if err != nil {
		return nil, blacklab.Wrap(blacklab.KindFormat, err)
	}
	copy(out, decoded)
	return out, nil
}
