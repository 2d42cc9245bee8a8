package catalog

import (
	"regexp"
	"strings"
)

// codePatterns are tried in order; the first capture wins.
var codePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)code[:\s]*([A-Z0-9-]+)`),
	regexp.MustCompile(`(?i)réf[:\s]*([A-Z0-9-]+)`),
	regexp.MustCompile(`(?i)ref[:\s]*([A-Z0-9-]+)`),
	regexp.MustCompile(`(?i)article[:\s]*([A-Z0-9-]+)`),
	regexp.MustCompile(`(?i)([A-Z]{2,3}-\d{2,4})`),
	regexp.MustCompile(`(?i)([A-Z]{2,3}\d{2,4})`),
}

// ExtractCode finds a product code such as "code: RB12", "réf ABC-123" or a
// bare "ABC123" token in text. The result is upper-cased.
func ExtractCode(text string) (string, bool) {
	for _, p := range codePatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return strings.ToUpper(m[1]), true
		}
	}
	return "", false
}
