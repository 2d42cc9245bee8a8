// Package classify resolves delivery, payment and promotion details from the
// raw order text using static ordered pattern tables.
package classify

import "regexp"

// rule pairs a tag with the patterns that detect it. A tag is detected when
// any of its patterns matches.
type rule[T any] struct {
	tag      T
	patterns []*regexp.Regexp
}

func (r rule[T]) matches(text string) bool {
	for _, p := range r.patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// detect returns every tag whose rule matches, in table order.
func detect[T any](rules []rule[T], text string) []T {
	out := make([]T, 0, len(rules))
	for _, r := range rules {
		if r.matches(text) {
			out = append(out, r.tag)
		}
	}
	return out
}

func ci(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(`(?i)` + p)
	}
	return out
}
