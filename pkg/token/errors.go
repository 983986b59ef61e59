package token

import "errors"

// Configuration errors.
var (
	ErrMissingSecret  = errors.New("token: signing secret is required")
	ErrSecretTooShort = errors.New("token: signing secret must be at least 32 bytes")
)

// Minting errors.
var (
	ErrEmptySubject = errors.New("token: empty subject")
	ErrUnknownKind  = errors.New("token: unknown token kind")
)

// Verification errors. Verify returns exactly one of the first three.
var (
	// ErrMalformed means the string is not a token this codec could have produced:
	// bad encoding, missing claims, unknown kind, unsupported envelope version
	// or a correctly signed token carrying a foreign issuer.
	ErrMalformed = errors.New("token: malformed")

	// ErrInvalidSignature means the token decodes but was not signed with our key
	// or algorithm.
	ErrInvalidSignature = errors.New("token: invalid signature")

	// ErrExpired means the signature is valid but the expiry has passed.
	ErrExpired = errors.New("token: expired")

	// ErrWrongKind is returned by VerifyKind when a valid token has the other kind.
	ErrWrongKind = errors.New("token: wrong token kind")
)
