// Package terms implements the global terms service (§4.3): a stable,
// index-wide term numbering built by unioning every segment's term
// dictionary, together with a single sort order per sensitivity that
// compares terms via a shared segment's local order when one exists,
// falling back to direct collation only for term pairs no segment has in
// common.
package terms

import (
	"log/slog"
	"sort"

	"github.com/corpusql/blacklab-core/codec"
)

// Input names one segment's contribution to a field's global term
// numbering.
type Input struct {
	SegmentID string
	Reader    *codec.SegmentReader
	Field     string
}

type segmentBinding struct {
	segmentID string
	reader    *codec.SegmentReader
	field     string
	localID   map[string]int32 // term bytes -> this segment's local term id
}

// Service is the frozen, index-wide term numbering and sort order for one
// field, built by Build. All of its maps are read-only after construction
// (§4.3 "All maps are frozen after construction") and safe to share across
// goroutines.
type Service struct {
	field string

	terms     [][]byte       // global id -> term bytes, first-seen order
	globalID  map[string]int32 // term bytes -> global id

	sortPosSensitive   []int32 // global id -> sort position
	sortPosInsensitive []int32

	// groupInsensitive maps an insensitive sort position to every global
	// term id sharing it (§4.3 step 5, "group index").
	groupInsensitive map[int32][]int32

	bindings        []segmentBinding
	segmentToGlobal map[string][]int32 // segmentID -> local term id -> global id
}

// Build unions the term dictionaries named by inputs (all for the same
// logical field) and computes both sensitivities' global sort orders.
func Build(inputs []Input, sensitive, insensitive codec.Collator) (*Service, error) {
	s := &Service{
		globalID:         make(map[string]int32),
		segmentToGlobal:  make(map[string][]int32, len(inputs)),
		groupInsensitive: make(map[int32][]int32),
	}
	if len(inputs) > 0 {
		s.field = inputs[0].Field
	}

	for _, in := range inputs {
		t, err := in.Reader.Terms(in.Field)
		if err != nil {
			return nil, err
		}
		localID := make(map[string]int32, t.NumTerms())
		globalOfLocal := make([]int32, t.NumTerms())

		err = t.All(func(id int32, term []byte) bool {
			str := string(term)
			gid, ok := s.globalID[str]
			if !ok {
				gid = int32(len(s.terms))
				s.terms = append(s.terms, append([]byte(nil), term...))
				s.globalID[str] = gid
			}
			localID[str] = id
			globalOfLocal[id] = gid
			return true
		})
		if err != nil {
			return nil, err
		}

		s.bindings = append(s.bindings, segmentBinding{
			segmentID: in.SegmentID,
			reader:    in.Reader,
			field:     in.Field,
			localID:   localID,
		})
		s.segmentToGlobal[in.SegmentID] = globalOfLocal
	}

	s.sortPosSensitive = s.buildOrder(false, sensitive)
	s.sortPosInsensitive = s.buildOrder(true, insensitive)

	order := make([]int32, len(s.terms))
	for i := range order {
		order[i] = int32(i)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return s.sortPosInsensitive[order[i]] < s.sortPosInsensitive[order[j]]
	})
	for _, gid := range order {
		pos := s.sortPosInsensitive[gid]
		s.groupInsensitive[pos] = append(s.groupInsensitive[pos], gid)
	}

	slog.Info("built global terms service",
		slog.String("field", s.field),
		slog.Int("numSegments", len(inputs)),
		slog.Int("numTerms", len(s.terms)))

	return s, nil
}

// compare implements §4.3 step 3's comparator for one sensitivity: if a
// and b both occur in some common segment, the sign of their local sort
// positions in that segment decides order; otherwise fall back to
// directly collating the term strings.
func (s *Service) compare(a, b int32, insensitive bool, collator codec.Collator) int {
	termA, termB := s.terms[a], s.terms[b]
	strA, strB := string(termA), string(termB)
	for _, bind := range s.bindings {
		idA, okA := bind.localID[strA]
		idB, okB := bind.localID[strB]
		if !okA || !okB {
			continue
		}
		// Ids were derived from this same reader/field's term dictionary,
		// so SortPos cannot fail here.
		posA, _ := bind.reader.SortPos(bind.field, idA, insensitive)
		posB, _ := bind.reader.SortPos(bind.field, idB, insensitive)
		switch {
		case posA < posB:
			return -1
		case posA > posB:
			return 1
		default:
			return 0
		}
	}
	return collator.Compare(termA, termB)
}

// buildOrder runs §4.3 steps 3-4 for one sensitivity: a stable sort of
// global term ids by compare, then collapsing collation-equal adjacent
// entries onto the same sort position.
func (s *Service) buildOrder(insensitive bool, collator codec.Collator) []int32 {
	n := len(s.terms)
	order := make([]int32, n)
	for i := range order {
		order[i] = int32(i)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return s.compare(order[i], order[j], insensitive, collator) < 0
	})

	sortPos := make([]int32, n)
	pos := int32(0)
	for i := 0; i < n; i++ {
		if i > 0 && s.compare(order[i-1], order[i], insensitive, collator) != 0 {
			pos = int32(i)
		}
		sortPos[order[i]] = pos
	}
	return sortPos
}

// Field returns the field name this service numbers terms for.
func (s *Service) Field() string { return s.field }

// NumTerms returns the total number of distinct global terms.
func (s *Service) NumTerms() int { return len(s.terms) }

// Term returns the byte string for a global term id.
func (s *Service) Term(id int32) []byte { return s.terms[id] }

// GlobalID looks up the global term id for a term string, if present.
func (s *Service) GlobalID(term []byte) (int32, bool) {
	id, ok := s.globalID[string(term)]
	return id, ok
}

// SortPos returns id's global sort position under the given sensitivity.
func (s *Service) SortPos(id int32, insensitive bool) int32 {
	if insensitive {
		return s.sortPosInsensitive[id]
	}
	return s.sortPosSensitive[id]
}

// GroupOf returns every global term id sharing id's insensitive sort
// position (§4.3 step 5, "indexOf(term, INSENSITIVE)").
func (s *Service) GroupOf(id int32) []int32 {
	return s.groupInsensitive[s.sortPosInsensitive[id]]
}

// SegmentToGlobal returns the local-term-id -> global-id mapping for one
// segment, for installing on its codec.SegmentReader via SetGlobalMapping.
func (s *Service) SegmentToGlobal(segmentID string) ([]int32, bool) {
	m, ok := s.segmentToGlobal[segmentID]
	return m, ok
}

// BindAll installs this service's mapping on every segment reader it was
// built from, resolving each reader's segment_to_global accessor (§4.1).
func (s *Service) BindAll() {
	for _, b := range s.bindings {
		if m, ok := s.segmentToGlobal[b.segmentID]; ok {
			b.reader.SetGlobalMapping(b.field, m)
		}
	}
}
