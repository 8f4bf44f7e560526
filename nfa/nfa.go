// Package nfa implements the forward-index NFA matcher (§4.5): selected
// query subtrees compile to a non-deterministic finite automaton whose
// alphabet is global term ids, evaluated position-by-position against the
// forward index instead of the inverted index. This pays off when a
// clause has low selectivity, e.g. a literal word inside a very frequent
// context, where walking every position of every candidate doc directly
// is cheaper than materializing postings.
package nfa

import (
	"github.com/RoaringBitmap/roaring"

	"github.com/corpusql/blacklab-core/forwardindex"
	"github.com/corpusql/blacklab-core/terms"
)

// Direction selects which way matching walks positions in a doc (§4.5):
// +1 for ordinary left-to-right matching, -1 for "left-of-hit" evaluation
// where a clause must match backward from an anchor position.
type Direction int

const (
	Forward  Direction = 1
	Backward Direction = -1
)

// stateID indexes into Program.states.
type stateID int

const acceptState stateID = -1

// stateKind distinguishes the three NFA state shapes of §4.5.
type stateKind int

const (
	kindToken stateKind = iota
	kindSplit
	kindAccept
)

type state struct {
	kind stateKind

	// kindToken: terms matches when the active term id is in this set.
	terms *roaring.Bitmap
	next  stateID

	// kindSplit: both edges are taken (NFA fork); preferred marks which one
	// wins ties for longest-match semantics when the caller asks for it.
	outA, outB stateID
	preferred  int // 0 or 1, index into {outA, outB}
}

// Program is a compiled, position-independent NFA: pure data, safe to
// share and match against concurrently since matching holds no per-segment
// locks (§4.5, "The NFA is pure data; matching against it holds no
// per-segment locks").
type Program struct {
	states []state
	start  stateID
	dir    Direction
}

// Builder assembles a Program one Token/Split/Accept state at a time. It
// mirrors Thompson-construction NFA builders (a state table plus forward
// patch-up of edges), generalized here so term-id predicate sets replace
// character classes.
type Builder struct {
	states []state
	dir    Direction
}

func NewBuilder(dir Direction) *Builder {
	return &Builder{dir: dir}
}

// Token adds a token state that transitions to next when the active
// position's term id is in ids.
func (b *Builder) Token(ids *roaring.Bitmap) stateID {
	b.states = append(b.states, state{kind: kindToken, terms: ids, next: acceptState})
	return stateID(len(b.states) - 1)
}

// Split adds a non-deterministic fork to outA and outB; preferred marks
// which edge wins for longest-match semantics (0 for outA, 1 for outB).
func (b *Builder) Split(outA, outB stateID, preferred int) stateID {
	b.states = append(b.states, state{kind: kindSplit, outA: outA, outB: outB, preferred: preferred})
	return stateID(len(b.states) - 1)
}

// Accept adds a terminal accept state (§4.5 "Accept state — terminal").
func (b *Builder) Accept() stateID {
	b.states = append(b.states, state{kind: kindAccept})
	return stateID(len(b.states) - 1)
}

// Patch rewrites every dangling (acceptState) outgoing edge of s to point
// at target, the way a Thompson construction patches fragment ends
// together when chaining states.
func (b *Builder) Patch(s stateID, target stateID) {
	st := &b.states[s]
	switch st.kind {
	case kindToken:
		if st.next == acceptState {
			st.next = target
		}
	case kindSplit:
		if st.outA == acceptState {
			st.outA = target
		}
		if st.outB == acceptState {
			st.outB = target
		}
	}
}

// Build finalizes the program with start as its entry state.
func (b *Builder) Build(start stateID) *Program {
	return &Program{states: b.states, start: start, dir: b.dir}
}

// CompilePredicate expands a token predicate (an exact literal under a
// sensitivity, or a regex over term strings) to the set of global term ids
// it matches, once per segment via the global terms service (§4.5,
// "Predicates are expanded once at compile time to a set of global term
// ids via the terms service"; "Expansion to global term ids happens once
// per segment via the global terms service").
func CompilePredicate(svc *terms.Service, pred Predicate) *roaring.Bitmap {
	bitmap := roaring.New()
	n := svc.NumTerms()
	for id := int32(0); id < int32(n); id++ {
		if pred.Matches(svc.Term(id)) {
			bitmap.Add(uint32(id))
		}
	}
	return bitmap
}

// activeSet is the set of NFA states active at the current position,
// lockstep-advanced one position at a time (§4.5, "active sets transition
// in lockstep").
type activeSet struct {
	members map[stateID]bool
	order   []stateID // insertion order, for preferred-edge longest-match
}

func newActiveSet() *activeSet {
	return &activeSet{members: make(map[stateID]bool)}
}

func (a *activeSet) add(p *Program, s stateID, seen map[stateID]bool) {
	if s == acceptState || seen[s] {
		return
	}
	seen[s] = true
	st := p.states[s]
	if st.kind == kindSplit {
		if st.preferred == 1 {
			a.add(p, st.outB, seen)
			a.add(p, st.outA, seen)
		} else {
			a.add(p, st.outA, seen)
			a.add(p, st.outB, seen)
		}
		return
	}
	if !a.members[s] {
		a.members[s] = true
		a.order = append(a.order, s)
	}
}

// ToGlobal remaps a forward index's stored (segment-local) term id to the
// global term id space CompilePredicate compiled bitmaps against. Built
// from codec.SegmentReader.SegmentToGlobal once per segment, the same way
// the global terms service's SegmentToGlobal mapping is installed
// everywhere else a segment-local id needs to cross into global space.
type ToGlobal func(localTermID int32) (int32, error)

// Match walks view's tokens for doc from startPos in p's configured
// direction, returning whether an accept state was reached and the
// position one past the last consumed token (respecting direction).
// toGlobal remaps each position's stored local term id to the global id
// space the program's token predicates were compiled against; pass nil
// only when the forward index's segment-local ids already coincide with
// global ids (true for a single-segment terms.Service, since Build()
// assigns global ids in the same first-seen order as the segment's local
// ids).
func (p *Program) Match(view *forwardindex.SegmentView, doc, startPos int, toGlobal ToGlobal) (matched bool, endPos int, err error) {
	length, err := view.DocLength(doc)
	if err != nil {
		return false, startPos, err
	}

	active := newActiveSet()
	seen := make(map[stateID]bool)
	active.add(p, p.start, seen)
	if isAccepting(p, active) {
		return true, startPos, nil
	}

	pos := startPos
	for {
		if p.dir == Forward && pos >= length || p.dir == Backward && pos < 0 {
			return false, pos, nil
		}
		tok, err := view.Slice(doc, pos, pos+1)
		if err != nil {
			return false, pos, err
		}
		if len(tok) == 0 {
			return false, pos, nil
		}
		localID := tok[0]
		globalID := localID
		if toGlobal != nil {
			globalID, err = toGlobal(localID)
			if err != nil {
				return false, pos, err
			}
		}
		termID := uint32(globalID)

		next := newActiveSet()
		nextSeen := make(map[stateID]bool)
		for _, s := range active.order {
			st := p.states[s]
			if st.kind == kindToken && st.terms.Contains(termID) {
				next.add(p, st.next, nextSeen)
			}
		}
		pos += int(p.dir)
		if isAccepting(p, next) {
			return true, pos, nil
		}
		if len(next.order) == 0 {
			return false, pos, nil
		}
		active = next
	}
}

func isAccepting(p *Program, a *activeSet) bool {
	for _, s := range a.order {
		if p.states[s].kind == kindAccept {
			return true
		}
	}
	return false
}
