package spans

// Rewrite runs the root node's own Rewrite, which recurses into its
// children. What happens is per node type: And and Or drop a single-child
// wrapper, Repetition expands to an Or of Sequence chains, Sorted and
// Unique drop or swap themselves depending on the child's predicates, and
// Containment, Capture, FilterByDocset, Not and Sequence rewrite their
// children. Nested And/Or nodes are not flattened, no negative clause is
// inverted, and no Sorted/Unique wrapper is added here (RequireSorted does
// that when called). A caller runs this once over the root of a parsed
// query before handing it to SpansForSegment.
func Rewrite(n Node) Node {
	return n.Rewrite()
}

// RequireSorted wraps n in Sorted unless n already satisfies the
// requested ordering, implementing rule 5 ("never wrap if already
// sorted/unique; if only sorting is needed, skip the dedupe pass").
func RequireSorted(n Node, endpoint SortEndpoint, dedupe bool) Node {
	sorted := (endpoint == SortByStart && n.HitsStartPointSorted()) ||
		(endpoint == SortByEnd && n.HitsEndPointSorted())
	switch {
	case sorted && (!dedupe || n.HitsAreUnique()):
		return n
	case sorted:
		return &Unique{Child: n}
	default:
		return (&Sorted{Child: n, Endpoint: endpoint, Dedupe: dedupe}).Rewrite()
	}
}

// noEmptyCapable reports whether a node can be forced to never match the
// empty sequence by substituting a Repetition with Min bumped to at least
// 1 (rule 3: "push noEmpty() into children of Sequence when siblings
// require a non-empty neighbour").
func noEmptyCapable(n Node) bool {
	switch v := n.(type) {
	case *Repetition:
		return true
	case *Or:
		for _, c := range v.Children {
			if !noEmptyCapable(c) {
				return false
			}
		}
		return true
	default:
		return !n.MatchesEmptySequence()
	}
}

// noEmpty rewrites n so it can never match the empty sequence, the `A+`
// half of rule 3 (`A* · B` becomes `(A+ · B) ∪ B`), by narrowing a
// Repetition's Min to max(Min, 1); SequenceNoEmpty adds the `∪ B`
// alternative. Panics are never used: a node that
// cannot be forced non-empty is returned unchanged, and it is the caller's
// responsibility (per the "Failure semantics" rule) to surface a domain
// error rather than silently accept a malformed rewrite.
func noEmpty(n Node) (Node, bool) {
	switch v := n.(type) {
	case *Repetition:
		min := v.Min
		if min < 1 {
			min = 1
		}
		return &Repetition{Child: v.Child, Min: min, Max: v.Max}, true
	case *Or:
		out := &Or{Children: make([]Node, len(v.Children))}
		for i, c := range v.Children {
			rewritten, ok := noEmpty(c)
			if !ok {
				return n, false
			}
			out.Children[i] = rewritten
		}
		return out, true
	default:
		if n.MatchesEmptySequence() {
			return n, false
		}
		return n, true
	}
}

// SequenceNoEmpty builds a·b applying rule 3: if a can match empty, it is
// forced non-empty on the side facing b and b alone is added as an
// alternative, giving (a'·b) ∪ b. Returns an error-shaped bool so
// callers can apply the "Failure semantics" rule instead of silently
// dropping a malformed rewrite.
func SequenceNoEmpty(a, b Node) (Node, bool) {
	if !a.MatchesEmptySequence() {
		return &Sequence{Left: a, Right: b}, true
	}
	forced, ok := noEmpty(a)
	if !ok {
		return nil, false
	}
	return &Or{Children: []Node{&Sequence{Left: forced, Right: b}, b}}, true
}
