// Package token mints and verifies stateless session tokens.
//
// A token is an HS256 JWT whose payload carries the account ID (sub), the
// token kind (access or refresh), a version number (ver), issue and expiry
// times and a random ID. Verification needs only the shared secret, so no
// session table exists anywhere.
//
//	codec, err := token.New(token.Config{Secret: secret})
//	access, err := codec.Mint(accountID, token.Access)
//	claims, err := codec.VerifyKind(access, token.Access)
//
// Verify reports failures as ErrMalformed, ErrInvalidSignature or ErrExpired.
package token
