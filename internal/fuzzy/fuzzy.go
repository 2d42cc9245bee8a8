// Package fuzzy scores approximate string similarity on a 0-100 scale.
//
// Every scorer works on processed strings: lower-cased, accents folded and
// anything that is not a letter or digit turned into a single space.
package fuzzy

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/agext/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// indel distance: a substitution costs a deletion plus an insertion.
var indel = levenshtein.NewParams().SubCost(2)

// Process normalizes s for comparison.
func Process(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	b.Grow(len(folded))
	space := true
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimSpace(b.String())
}

// ratio is the normalized indel similarity of two already processed strings.
func ratio(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	if la == 0 || lb == 0 {
		return 0
	}
	if a == b {
		return 100
	}
	total := la + lb
	d := levenshtein.Distance(a, b, indel)
	return 100 * float64(total-d) / float64(total)
}

// partial returns the best ratio of the shorter string against every
// same-length window of the longer one.
func partial(a, b string) float64 {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}
	s := string(short)
	best := 0.0
	for start := 0; start+len(short) <= len(long); start++ {
		r := ratio(s, string(long[start:start+len(short)]))
		if r > best {
			best = r
			if best >= 100 {
				break
			}
		}
	}
	return best
}

func sortedTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func tokenSort(a, b string, withPartial bool) float64 {
	sa, sb := sortedTokens(a), sortedTokens(b)
	if withPartial {
		return partial(sa, sb)
	}
	return ratio(sa, sb)
}

func tokenSet(a, b string, withPartial bool) float64 {
	if a == "" || b == "" {
		return 0
	}
	ta, tb := tokenSetOf(a), tokenSetOf(b)
	var inter, onlyA, onlyB []string
	for t := range ta {
		if _, ok := tb[t]; ok {
			inter = append(inter, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for t := range tb {
		if _, ok := ta[t]; !ok {
			onlyB = append(onlyB, t)
		}
	}
	sort.Strings(inter)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	t0 := strings.Join(inter, " ")
	t1 := strings.TrimSpace(t0 + " " + strings.Join(onlyA, " "))
	t2 := strings.TrimSpace(t0 + " " + strings.Join(onlyB, " "))

	score := ratio
	if withPartial {
		score = partial
	}
	return math.Max(score(t0, t1), math.Max(score(t0, t2), score(t1, t2)))
}

func tokenSetOf(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, t := range strings.Fields(s) {
		out[t] = struct{}{}
	}
	return out
}

func round(f float64) int {
	return int(math.Round(f))
}

// Ratio scores whole-string similarity.
func Ratio(a, b string) int {
	return round(ratio(Process(a), Process(b)))
}

// PartialRatio scores the best alignment of the shorter string inside the longer.
func PartialRatio(a, b string) int {
	return round(partial(Process(a), Process(b)))
}

// TokenSortRatio ignores word order.
func TokenSortRatio(a, b string) int {
	return round(tokenSort(Process(a), Process(b), false))
}

// TokenSetRatio ignores word order and duplicated or extra words.
func TokenSetRatio(a, b string) int {
	return round(tokenSet(Process(a), Process(b), false))
}

// BestRatio is the maximum of the partial, token-set and token-sort scores.
func BestRatio(a, b string) int {
	pa, pb := Process(a), Process(b)
	best := math.Max(partial(pa, pb), math.Max(tokenSet(pa, pb, false), tokenSort(pa, pb, false)))
	return round(best)
}

// WRatio weighs the scorers by how different the string lengths are.
func WRatio(a, b string) int {
	pa, pb := Process(a), Process(b)
	la, lb := len([]rune(pa)), len([]rune(pb))
	if la == 0 || lb == 0 {
		return 0
	}
	const unbaseScale = 0.95
	base := ratio(pa, pb)
	lenRatio := float64(max(la, lb)) / float64(min(la, lb))

	if lenRatio < 1.5 {
		tsor := tokenSort(pa, pb, false) * unbaseScale
		tser := tokenSet(pa, pb, false) * unbaseScale
		return round(math.Max(base, math.Max(tsor, tser)))
	}

	partialScale := 0.9
	if lenRatio > 8 {
		partialScale = 0.6
	}
	p := partial(pa, pb) * partialScale
	ptsor := tokenSort(pa, pb, true) * unbaseScale * partialScale
	ptser := tokenSet(pa, pb, true) * unbaseScale * partialScale
	return round(math.Max(base, math.Max(p, math.Max(ptsor, ptser))))
}

// ExtractOne returns the index and WRatio score of the choice closest to
// query, or -1 when choices is empty.
func ExtractOne(query string, choices []string) (int, int) {
	best, bestScore := -1, -1
	for i, c := range choices {
		if s := WRatio(query, c); s > bestScore {
			best, bestScore = i, s
		}
	}
	if best < 0 {
		return -1, 0
	}
	return best, bestScore
}
