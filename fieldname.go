package blacklab

import "strings"

// FieldName is a parsed Lucene-compatible composite field identifier
// (§6.4): "contents%word@i" means base field "contents", annotation "word",
// sensitivity tag "i" (insensitive). A bookkeeping subfield is introduced
// with "#", e.g. "contents%word#fi" for the forward-index id bookkeeping
// field.
type FieldName struct {
	Base        string
	Annotation  string // "" if this name has no annotation part
	Sensitivity string // "" if this name has no sensitivity part
	Bookkeeping string // "" if this name has no bookkeeping part
}

// String reassembles the composite name from its parts, inverse of
// ParseFieldName.
func (f FieldName) String() string {
	var b strings.Builder
	b.WriteString(f.Base)
	if f.Annotation != "" {
		b.WriteByte('%')
		b.WriteString(f.Annotation)
	}
	if f.Sensitivity != "" {
		b.WriteByte('@')
		b.WriteString(f.Sensitivity)
	}
	if f.Bookkeeping != "" {
		b.WriteByte('#')
		b.WriteString(f.Bookkeeping)
	}
	return b.String()
}

// ParseFieldName splits a composite field name into (base, annotation?,
// sensitivity?, bookkeeping?) per §6.4. The three separators are fixed:
// '%' precedes the annotation, '@' precedes the sensitivity tag, '#'
// precedes a bookkeeping subfield. Each separator, if present, occurs at
// most once and in this relative order; ParseFieldName does not validate
// that — it simply splits on the first occurrence of each in turn.
func ParseFieldName(name string) FieldName {
	rest := name
	var bookkeeping string
	if i := strings.IndexByte(rest, '#'); i >= 0 {
		bookkeeping = rest[i+1:]
		rest = rest[:i]
	}

	var sensitivity string
	if i := strings.IndexByte(rest, '@'); i >= 0 {
		sensitivity = rest[i+1:]
		rest = rest[:i]
	}

	var annotation string
	if i := strings.IndexByte(rest, '%'); i >= 0 {
		annotation = rest[i+1:]
		rest = rest[:i]
	}

	return FieldName{
		Base:        rest,
		Annotation:  annotation,
		Sensitivity: sensitivity,
		Bookkeeping: bookkeeping,
	}
}

// IsValidXMLName reports whether s is usable unmodified as an XML element
// name (§6.4 "Names must be valid XML element names"): a NameStartChar
// (letter or '_') followed by NameChars (letters, digits, '_', '-', '.').
// This core does not sanitize — that is the indexer's job. Neither
// ParseFieldName nor FieldName.String calls this check; callers that want
// to reject bad names use it themselves.
func IsValidXMLName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			// always valid, including as first char
		case r >= '0' && r <= '9', r == '-', r == '.':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
