package codec

import (
	"log/slog"

	"github.com/corpusql/blacklab-core"
)

// WriteSegment runs the write pipeline of §4.1 against one segment's
// delegate postings, producing the six forward-index extension files
// keyed by extension (ExtFields, ExtTerms, ExtTermIndex, ExtTermOrder,
// ExtTokens, ExtTokensIdx). Segment merges (§4.1 "Merge") reuse this same
// function against a PostingsEnumerator built from the merged field view;
// there is no separate merge code path.
func WriteSegment(pe blacklab.PostingsEnumerator, segmentID, delegateName string, sensitive, insensitive Collator) (map[string][]byte, error) {
	header := Header{
		CodecName:    "blacklab-fwd-index",
		Version:      CurrentVersion,
		SegmentID:    segmentID,
		DelegateName: delegateName,
	}

	numDocs := pe.MaxDocInSegment()

	termsW := newBinWriter()
	writeHeader(termsW, header)
	termIndexW := newBinWriter()
	writeHeader(termIndexW, header)
	termOrderW := newBinWriter()
	writeHeader(termOrderW, header)
	tokensW := newBinWriter()
	writeHeader(tokensW, header)
	tokensIdxW := newBinWriter()
	writeHeader(tokensIdxW, header)

	var fields []Field

	for _, fieldName := range pe.FieldsInSegment() {
		terms, docPositions, docMaxPos, err := scanField(pe, fieldName)
		if err != nil {
			return nil, err
		}

		fieldTermIndexOff := termIndexW.Offset()
		for _, term := range terms {
			termOff := termsW.Offset()
			termsW.WriteString(string(term))
			termIndexW.WriteInt64(termOff)
		}

		fieldTermOrderOff := termOrderW.Offset()
		order := BuildTermOrder(terms, sensitive, insensitive)
		writeInt32Array(termOrderW, order.TermID2Insensitive)
		writeInt32Array(termOrderW, order.Insensitive2TermID)
		writeInt32Array(termOrderW, order.TermID2Sensitive)
		writeInt32Array(termOrderW, order.Sensitive2TermID)

		fieldTokensIdxOff := tokensIdxW.Offset()
		for doc := 0; doc < numDocs; doc++ {
			length := 0
			if m, ok := docMaxPos[doc]; ok {
				length = m + 1
			}
			tokens := make([]int32, length)
			for i := range tokens {
				tokens[i] = blacklab.NoTerm
			}
			for pos, termID := range docPositions[doc] {
				tokens[pos] = termID
			}

			tag, param, payload := EncodeDoc(tokens)
			entryOffset := tokensW.Offset()
			tokensW.WriteBytes(payload)
			tokensIdxW.WriteInt64(entryOffset)
			tokensIdxW.WriteInt32(int32(length))
			tokensIdxW.WriteInt8(tag)
			tokensIdxW.WriteInt8(param)
		}

		fields = append(fields, Field{
			Name:           fieldName,
			NumTerms:       int32(len(terms)),
			TermOrderOff:   fieldTermOrderOff,
			TermIndexOff:   fieldTermIndexOff,
			TokensIndexOff: fieldTokensIdxOff,
		})

		slog.Info("wrote forward-index field",
			slog.String("segment", segmentID),
			slog.String("field", fieldName),
			slog.Int("numTerms", len(terms)),
			slog.Int("numDocs", numDocs))
	}

	return map[string][]byte{
		ExtFields:    writeFieldsFile(header, fields),
		ExtTerms:     termsW.Finish(),
		ExtTermIndex: termIndexW.Finish(),
		ExtTermOrder: termOrderW.Finish(),
		ExtTokens:    tokensW.Finish(),
		ExtTokensIdx: tokensIdxW.Finish(),
	}, nil
}

// scanField performs §4.1 steps 1-3 for one field: it walks every term's
// postings, and for every primary-value position (§6.3) records which term
// id occupies which (doc, position). Positions never touched by a
// primary-value posting stay NO_TERM once the caller scatters them into a
// doc_length-sized array; the staging map here plays the role of the
// .termvec.tmp intermediate without needing a literal temp file, since the
// whole pass is done in memory.
func scanField(pe blacklab.PostingsEnumerator, field string) (terms [][]byte, docPositions map[int]map[int]int32, docMaxPos map[int]int, err error) {
	te, err := pe.TermsOf(field)
	if err != nil {
		return nil, nil, nil, err
	}

	docPositions = make(map[int]map[int]int32)
	docMaxPos = make(map[int]int)

	var termID int32
	for te.Next() {
		term := append([]byte(nil), te.Term()...)
		terms = append(terms, term)

		pi, err := te.Postings()
		if err != nil {
			return nil, nil, nil, err
		}
		for pi.NextDoc() {
			doc := pi.Doc()
			positions := pi.Positions()
			for positions.Next() {
				if !blacklab.IsPrimaryValue(positions.Payload()) {
					continue
				}
				pos := positions.Position()
				if docPositions[doc] == nil {
					docPositions[doc] = make(map[int]int32)
				}
				docPositions[doc][pos] = termID
				if cur, ok := docMaxPos[doc]; !ok || pos > cur {
					docMaxPos[doc] = pos
				}
			}
		}
		termID++
	}

	return terms, docPositions, docMaxPos, nil
}
