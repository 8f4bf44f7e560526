package nfa

import (
	"github.com/grafana/regexp"

	"github.com/corpusql/blacklab-core/codec"
)

// Predicate is a Token state's test over a term string (§4.5 "matches any
// term id whose string satisfies the state's predicate (e.g. equals a
// literal under a sensitivity, or matches a regex over term strings)").
type Predicate interface {
	Matches(term []byte) bool
}

// LiteralPredicate matches one term under a sensitivity, using the same
// Collator the segment codec's sort order is built from so "equals under a
// sensitivity" means the same thing here as it does to the term-order
// comparator.
type LiteralPredicate struct {
	Value    []byte
	Collator codec.Collator
}

func (p LiteralPredicate) Matches(term []byte) bool {
	return p.Collator.Compare(p.Value, term) == 0
}

// RegexPredicate matches any term in which Pattern finds a match. The
// pattern is not implicitly anchored: matching the whole term needs an
// explicit ^ and $.
// grafana/regexp is a drop-in RE2 replacement tuned for exactly this
// workload (compiling many small patterns and running them over short
// strings repeatedly), the library full-text search engines in the
// surrounding ecosystem reach for instead of stdlib regexp.
type RegexPredicate struct {
	Pattern *regexp.Regexp
}

func CompileRegex(pattern string) (RegexPredicate, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return RegexPredicate{}, err
	}
	return RegexPredicate{Pattern: re}, nil
}

func (p RegexPredicate) Matches(term []byte) bool {
	return p.Pattern.Match(term)
}
