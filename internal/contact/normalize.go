// Package contact implements validation and normalization of extracted
// contact fields. The rules apply uniformly whether a value came from the
// primary extraction stage or the fallback email search.
package contact

import (
	"regexp"
	"strings"

	"github.com/sells-group/contact-scout/internal/model"
)

// Phone and fax numbers keep their original formatting but must carry
// between minPhoneDigits and maxPhoneDigits digit characters.
const (
	minPhoneDigits = 6
	maxPhoneDigits = 18
)

var emailRe = regexp.MustCompile(`[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+`)

// NormalizePhone validates a phone or fax number by digit count. The
// original formatted string is kept verbatim when accepted; anything with
// fewer than 6 or more than 18 digits becomes the empty string.
func NormalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	digits := 0
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits < minPhoneDigits || digits > maxPhoneDigits {
		return ""
	}
	return raw
}

// ExtractEmail finds the first email-shaped substring in arbitrary free
// text and returns it lowercased. Multiple addresses are not aggregated;
// only the first match is kept. Returns "" when no match exists.
func ExtractEmail(raw string) string {
	m := emailRe.FindString(raw)
	if m == "" {
		return ""
	}
	return strings.ToLower(m)
}

// Normalize applies the field rules to every validated field of a
// ContactInfo in place. DeptContacts is an opaque pass-through and is left
// untouched.
func Normalize(info *model.ContactInfo) {
	if info == nil {
		return
	}
	info.Phone = NormalizePhone(info.Phone)
	info.Fax = NormalizePhone(info.Fax)
	info.Email = ExtractEmail(info.Email)
	info.Address = strings.TrimSpace(info.Address)
	info.City = strings.TrimSpace(info.City)
	info.State = strings.TrimSpace(info.State)
	info.ZipCode = strings.TrimSpace(info.ZipCode)
}
