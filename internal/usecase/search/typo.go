package search

import (
	"strings"
	"unicode"
)

// TypoEntry maps one known-bad form to its canonical replacement.
type TypoEntry struct {
	Bad  string
	Good string
}

// TypoTable is an ordered list of corrections applied as whole-token,
// case-insensitive substring replacement. Order matters: earlier entries are
// applied first and later ones see their output.
type TypoTable []TypoEntry

// DefaultTypoTable returns the built-in corrections: the legacy entries plus
// common product-domain color and brand misspellings. Deployments replace it
// at build time via WithTypoTable.
func DefaultTypoTable() TypoTable {
	return TypoTable{
		{"tshirt", "t-shirt"},
		{"tee shirt", "t-shirt"},
		{"jens", "jeans"},
		{"shose", "shoes"},
		{"sneekers", "sneakers"},
		{"trousres", "trousers"},
		{"hoody", "hoodie"},
		{"gren", "green"},
		{"blak", "black"},
		{"whit", "white"},
		{"addidas", "adidas"},
		{"nkie", "nike"},
	}
}

// Apply replaces every whole-token occurrence of each bad form. The input is
// expected to be lowercase already; table keys must be lowercase.
func (t TypoTable) Apply(q string) string {
	for _, e := range t {
		q = replaceToken(q, e.Bad, e.Good)
	}
	return q
}

// replaceToken replaces occurrences of bad in s that are bounded by
// non-alphanumeric runes or the string edges.
func replaceToken(s, bad, good string) string {
	if bad == "" {
		return s
	}
	var b strings.Builder
	for {
		i := strings.Index(s, bad)
		if i < 0 {
			break
		}
		end := i + len(bad)
		if tokenBoundary(s, i, end) {
			b.WriteString(s[:i])
			b.WriteString(good)
		} else {
			b.WriteString(s[:end])
		}
		s = s[end:]
	}
	b.WriteString(s)
	return b.String()
}

// tokenBoundary reports whether s[start:end] sits on token boundaries.
func tokenBoundary(s string, start, end int) bool {
	if start > 0 {
		r := rune(s[start-1])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	if end < len(s) {
		r := rune(s[end])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// SynonymTable maps a canonical token to its synonyms. The table ships with
// the service but expansion is not applied yet: ExpandSynonyms returns its
// input unchanged until the expansion semantics are decided. Tests must not
// depend on expansion.
type SynonymTable map[string][]string

// DefaultSynonymTable returns the built-in synonym data.
func DefaultSynonymTable() SynonymTable {
	return SynonymTable{
		"shirt": {"top", "blouse", "tee"},
		"pants": {"trousers", "jeans"},
		"shoes": {"footwear", "sneakers"},
	}
}

// ExpandSynonyms is a declared no-op passthrough.
func (t SynonymTable) ExpandSynonyms(q string) string {
	return q
}
