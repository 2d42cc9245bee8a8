package contact

import (
	"strings"
	"unicode"

	"github.com/nyaruka/phonenumbers"

	"github.com/joseph-ayodele/live-orders/constants"
)

// salvageMinDigits is the shortest digit run kept when strict parsing fails.
const salvageMinDigits = 9

// PhoneNormalizer turns free-form phone strings into E.164 numbers.
type PhoneNormalizer struct {
	region      string
	countryCode string
}

// NewPhoneNormalizer returns a normalizer for the given default region and
// calling code. Empty values fall back to Madagascar.
func NewPhoneNormalizer(region, countryCode string) *PhoneNormalizer {
	if region == "" {
		region = constants.DefaultRegion
	}
	if countryCode == "" {
		countryCode = constants.DefaultCountryCode
	}
	return &PhoneNormalizer{region: region, countryCode: strings.TrimPrefix(countryCode, "+")}
}

// Normalize returns the E.164 form of raw and false when nothing usable remains.
func (p *PhoneNormalizer) Normalize(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if num, err := phonenumbers.Parse(raw, p.region); err == nil && phonenumbers.IsValidNumber(num) {
		return phonenumbers.Format(num, phonenumbers.E164), true
	}
	return p.salvage(raw)
}

// salvage keeps the last national-length digits and re-prefixes the calling code.
func (p *PhoneNormalizer) salvage(raw string) (string, bool) {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, raw)
	if len(digits) < salvageMinDigits {
		return "", false
	}
	return "+" + p.countryCode + digits[len(digits)-salvageMinDigits:], true
}

// NormalizeAll normalizes every entry, dropping unusable ones and duplicates
// while keeping first-seen order.
func (p *PhoneNormalizer) NormalizeAll(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if n, ok := p.Normalize(r); ok {
			out = appendUnique(out, n)
		}
	}
	return out
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
