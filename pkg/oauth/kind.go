package oauth

import (
	"fmt"
	"strings"
)

// Kind identifies an OAuth provider variant.
type Kind uint8

const (
	KindUnknown Kind = iota
	Google
	Kakao
)

// String returns the upper-case provider name used on the wire ("GOOGLE", "KAKAO").
func (k Kind) String() string {
	switch k {
	case Google:
		return "GOOGLE"
	case Kakao:
		return "KAKAO"
	default:
		return "UNKNOWN"
	}
}

// ParseKind maps a provider name to its Kind. Matching is case-insensitive.
func ParseKind(name string) (Kind, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "GOOGLE":
		return Google, nil
	case "KAKAO":
		return Kakao, nil
	default:
		return KindUnknown, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
}
