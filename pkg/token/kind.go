package token

import (
	"fmt"
	"strings"
)

// Kind distinguishes access tokens from refresh tokens.
type Kind uint8

const (
	KindUnknown Kind = iota
	Access
	Refresh
)

// String returns "ACCESS" or "REFRESH".
func (k Kind) String() string {
	switch k {
	case Access:
		return "ACCESS"
	case Refresh:
		return "REFRESH"
	default:
		return "UNKNOWN"
	}
}

// claim is the value stored in the "kind" claim.
func (k Kind) claim() string {
	return strings.ToLower(k.String())
}

// ParseKind maps "access" or "refresh" (any case) to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ACCESS":
		return Access, nil
	case "REFRESH":
		return Refresh, nil
	default:
		return KindUnknown, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}
