package nfa

import "github.com/corpusql/blacklab-core/terms"

// Query is the small subtree shape the rewriter selects for forward-index
// evaluation (§4.4 rule 7, "when a subtree is forward-index-compatible
// (can_make_nfa() true) ... mark it for forward-index evaluation"). It
// covers exactly the clauses cheap to express as term-id transitions:
// single tokens, concatenation, and bounded/unbounded repetition — the
// same shape spans.Sequence/spans.Repetition expose, kept separate here so
// this package has no dependency on the span-query tree.
type Query interface {
	canMakeNFA() bool
	compile(b *Builder, svc *terms.Service) (entry, exit stateID)
}

// TokenQuery matches one position against Pred, expanded to a global
// term-id set via svc at compile time (§4.5, "Predicates are expanded once
// at compile time to a set of global term ids via the terms service").
type TokenQuery struct {
	Pred Predicate
}

func (TokenQuery) canMakeNFA() bool { return true }

func (q TokenQuery) compile(b *Builder, svc *terms.Service) (stateID, stateID) {
	s := b.Token(CompilePredicate(svc, q.Pred))
	return s, s
}

// SequenceQuery matches Left immediately followed by Right.
type SequenceQuery struct {
	Left, Right Query
}

func (q SequenceQuery) canMakeNFA() bool { return q.Left.canMakeNFA() && q.Right.canMakeNFA() }

func (q SequenceQuery) compile(b *Builder, svc *terms.Service) (stateID, stateID) {
	lEntry, lExit := q.Left.compile(b, svc)
	rEntry, rExit := q.Right.compile(b, svc)
	b.Patch(lExit, rEntry)
	return lEntry, rExit
}

// RepetitionQuery matches Child repeated between Min and Max times
// (Max < 0 means unbounded, capped the same way spans.Repetition caps an
// unbounded count).
type RepetitionQuery struct {
	Child    Query
	Min, Max int
}

const repetitionCap = 32

func (q RepetitionQuery) canMakeNFA() bool { return q.Child.canMakeNFA() }

// compile builds Min mandatory copies of Child chained together, followed
// by up to (max-Min) optional copies. The optional tail is built back to
// front: each optional copy either matches Child and falls through to
// whatever follows it, or skips straight there, so the skip edge of
// optional copy i must already know the entry point built for copy i+1 (or
// the trailing join if i is the last one) before copy i itself is built.
func (q RepetitionQuery) compile(b *Builder, svc *terms.Service) (stateID, stateID) {
	max := q.Max
	if max < 0 || max > repetitionCap {
		max = repetitionCap
	}
	if max < q.Min {
		max = q.Min
	}

	// join is a no-op fork with both edges dangling, used purely as a
	// re-patchable merge point: every path through the repetition ends up
	// here, and whatever comes next (another Patch call, or Compile's
	// final accept) rewires both of its edges at once.
	join := b.Split(acceptState, acceptState, 0)

	optionalEntry := join
	for i := q.Min; i < max; i++ {
		e, x := q.Child.compile(b, svc)
		b.Patch(x, optionalEntry)
		optionalEntry = b.Split(e, optionalEntry, 0)
	}

	if q.Min == 0 {
		return optionalEntry, join
	}

	var entry, prevExit stateID = acceptState, acceptState
	for i := 0; i < q.Min; i++ {
		e, x := q.Child.compile(b, svc)
		if entry == acceptState {
			entry = e
		} else {
			b.Patch(prevExit, e)
		}
		prevExit = x
	}
	b.Patch(prevExit, optionalEntry)
	return entry, join
}

// Compile builds a runnable Program from root, expanding every token
// predicate against svc and anchoring the final join at an explicit accept
// state.
func Compile(root Query, svc *terms.Service, dir Direction) *Program {
	b := NewBuilder(dir)
	entry, exit := root.compile(b, svc)
	accept := b.Accept()
	b.Patch(exit, accept)
	return b.Build(entry)
}
