package oauth

import "errors"

// Outcome errors. Every failure returned by a Provider is joined with exactly
// one of these, so callers only need errors.Is against this set.
var (
	// ErrBadCode is returned when the provider rejects the authorization code
	// or the token endpoint response cannot be used.
	ErrBadCode = errors.New("oauth: authorization code rejected")

	// ErrBadToken is returned when the profile could not be fetched with the
	// provider token: transport failure, non-2xx status or unparseable body.
	ErrBadToken = errors.New("oauth: provider token rejected")

	// ErrMalformedProfile is returned when a profile lacks required fields.
	ErrMalformedProfile = errors.New("oauth: malformed profile")

	// ErrUnknownProvider is returned for a provider kind that is not registered.
	ErrUnknownProvider = errors.New("oauth: unknown provider")
)

// Configuration errors.
var (
	// ErrMissingClientID is returned when the OAuth client ID is not provided.
	ErrMissingClientID = errors.New("oauth: missing client ID")

	// ErrMissingClientSecret is returned when the OAuth client secret is not provided.
	ErrMissingClientSecret = errors.New("oauth: missing client secret")
)

// Detail errors joined with an outcome error.
var (
	// ErrEmailNotVerified is returned when the provider explicitly reports
	// that the user's email is not verified.
	ErrEmailNotVerified = errors.New("oauth: email not verified")

	// ErrNilResponse is returned when the OAuth provider returns a nil response.
	ErrNilResponse = errors.New("oauth: nil response from provider")

	// ErrFetchFailed is returned when fetching data from the OAuth provider fails.
	ErrFetchFailed = errors.New("oauth: failed to fetch from provider")

	// ErrRequestFailed is returned when the OAuth provider returns a non-2xx status.
	ErrRequestFailed = errors.New("oauth: request returned non-OK status")

	// ErrDecodeFailed is returned when decoding the OAuth provider response fails.
	ErrDecodeFailed = errors.New("oauth: failed to decode response")
)
