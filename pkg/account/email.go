package account

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeEmail trims, NFC-normalizes and lower-cases an email address.
// It checks only that the result is non-empty and has a single "@" with text
// on both sides; deliverability is the provider's concern.
func NormalizeEmail(email string) (string, error) {
	e := strings.ToLower(norm.NFC.String(strings.TrimSpace(email)))
	local, domain, ok := strings.Cut(e, "@")
	if !ok || local == "" || domain == "" || strings.Contains(domain, "@") {
		return "", ErrInvalidEmail
	}
	return e, nil
}
