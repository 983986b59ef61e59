package oauth

import (
	"context"
	"encoding/json"

	"golang.org/x/oauth2"
)

// RawProfile is the undecoded JSON object returned by a provider's user-info endpoint.
type RawProfile = json.RawMessage

// Identity is the provider-agnostic result of normalizing a profile.
// Both fields are always non-empty.
type Identity struct {
	Email       string
	DisplayName string
}

// Provider abstracts provider-specific OAuth operations.
// All protocol differences between providers live behind this interface.
type Provider interface {
	// Kind returns the provider variant.
	Kind() Kind

	// AuthCodeURL generates the authorization URL for the OAuth flow.
	AuthCodeURL(state string) string

	// Exchange trades an authorization code for a provider token.
	// Failures are joined with ErrBadCode.
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)

	// FetchProfile retrieves the raw user profile using the provider token.
	// Failures are joined with ErrBadToken.
	FetchProfile(ctx context.Context, token *oauth2.Token) (RawProfile, error)

	// Normalize maps the provider's raw profile to an Identity.
	// Failures are joined with ErrMalformedProfile.
	Normalize(raw RawProfile) (Identity, error)
}
