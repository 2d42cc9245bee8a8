package contact

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// EmailValidator checks address syntax only; deliverability is never probed.
type EmailValidator struct {
	validate *validator.Validate
}

func NewEmailValidator() *EmailValidator {
	return &EmailValidator{validate: validator.New()}
}

// Normalize trims raw, lower-cases its domain and reports whether it is a
// syntactically valid address.
func (e *EmailValidator) Normalize(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if err := e.validate.Var(raw, "required,email"); err != nil {
		return "", false
	}
	at := strings.LastIndex(raw, "@")
	return raw[:at+1] + strings.ToLower(raw[at+1:]), true
}

// NormalizeAll keeps valid addresses in first-seen order without duplicates.
func (e *EmailValidator) NormalizeAll(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if n, ok := e.Normalize(r); ok {
			out = appendUnique(out, n)
		}
	}
	return out
}
