package order

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/joseph-ayodele/live-orders/internal/contact"
	"github.com/joseph-ayodele/live-orders/internal/entity"
)

// ClientBuilder merges extracted contact details with form fields.
type ClientBuilder struct {
	phones *contact.PhoneNormalizer
	emails *contact.EmailValidator
}

func NewClientBuilder(phones *contact.PhoneNormalizer, emails *contact.EmailValidator) *ClientBuilder {
	if phones == nil {
		phones = contact.NewPhoneNormalizer("", "")
	}
	if emails == nil {
		emails = contact.NewEmailValidator()
	}
	return &ClientBuilder{phones: phones, emails: emails}
}

// Build returns the normalized client. Malformed contact data is left out.
func (b *ClientBuilder) Build(in entity.NLPExtractionResult, fields []entity.FormField) entity.ClientInfo {
	client := entity.ClientInfo{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PhoneNumbers: b.phones.NormalizeAll(in.PhoneNumbers),
		Emails:       b.emails.NormalizeAll(in.Emails),
		Address:      in.Address,
	}
	for _, f := range fields {
		b.mergeField(&client, f)
	}
	return client
}

func (b *ClientBuilder) mergeField(client *entity.ClientInfo, f entity.FormField) {
	value := strings.TrimSpace(f.Value)
	if value == "" {
		return
	}
	label := strings.ToLower(f.Label)

	switch {
	case f.Type == "phone":
		if n, ok := b.phones.Normalize(value); ok {
			client.PhoneNumbers = appendMissing(client.PhoneNumbers, n)
		}
	case f.Type == "email":
		if e, ok := b.emails.Normalize(value); ok {
			client.Emails = appendMissing(client.Emails, e)
		}
	// "prénom" contains "nom", so first names are matched before last names.
	case strings.Contains(label, "prénom") || strings.Contains(label, "prenom") || strings.Contains(label, "first"):
		if client.FirstName == "" {
			client.FirstName = titleCase(value)
		}
	case strings.Contains(label, "nom") || strings.Contains(label, "name"):
		if client.LastName == "" {
			client.LastName = titleCase(value)
		}
	case strings.Contains(label, "adresse") || strings.Contains(label, "address"):
		if client.Address.Street == "" {
			client.Address.Street = value
		}
	}
}

func appendMissing(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

// titleCase uses a fresh Caser each call; Casers are stateful.
func titleCase(s string) string {
	return cases.Title(language.French).String(s)
}
