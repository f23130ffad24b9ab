// Package ranking orders name matches. Lookups prefer a case-insensitive
// exact match over a case-insensitive substring match, and break ties by
// model order, so the first-ranked match is always reproducible.
package ranking

import (
	"strings"
)

// Tier is the strength of a match. Lower tiers rank first.
type Tier int

const (
	Exact Tier = iota
	Substring
)

func (t Tier) String() string {
	if t == Exact {
		return "exact"
	}
	return "substring"
}

// Match is one candidate: the position of the name in model order, the name
// itself and how it matched.
type Match struct {
	Index int
	Name  string
	Tier  Tier
}

// Rank returns every name matching query case-insensitively: all exact
// matches in model order, then all substring matches in model order.
func Rank(names []string, query string) []Match {
	lower := strings.ToLower(query)
	var exact, partial []Match
	for i, name := range names {
		ln := strings.ToLower(name)
		switch {
		case ln == lower:
			exact = append(exact, Match{Index: i, Name: name, Tier: Exact})
		case strings.Contains(ln, lower):
			partial = append(partial, Match{Index: i, Name: name, Tier: Substring})
		}
	}
	return append(exact, partial...)
}

// Best returns the first-ranked match for query.
func Best(names []string, query string) (Match, bool) {
	m := Rank(names, query)
	if len(m) == 0 {
		return Match{}, false
	}
	return m[0], true
}

// Select returns at most max matches. If max is <= 0 or covers every match,
// matches is returned unchanged.
func Select(matches []Match, max int) []Match {
	if max <= 0 || max >= len(matches) {
		return matches
	}
	return matches[:max]
}

// Containing returns, in model order, the indexes of names that contain
// substr. The comparison is case-sensitive.
func Containing(names []string, substr string) []int {
	var out []int
	for i, name := range names {
		if strings.Contains(name, substr) {
			out = append(out, i)
		}
	}
	return out
}

// Equal returns, in model order, the indexes of names equal to s.
func Equal(names []string, s string) []int {
	var out []int
	for i, name := range names {
		if name == s {
			out = append(out, i)
		}
	}
	return out
}
