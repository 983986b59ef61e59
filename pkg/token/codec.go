package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CurrentVersion is the envelope version written into every new token.
// Verify accepts versions 1 through CurrentVersion.
const CurrentVersion = 1

// expiryLeeway covers the sub-second part of exp lost to NumericDate truncation.
const expiryLeeway = time.Second

var signingMethod = jwt.SigningMethodHS256

// Claims is the verified content of a session token.
type Claims struct {
	ID        string
	Subject   string
	Kind      Kind
	Version   int
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// envelope is the JWT payload. Unknown claims are ignored on decode.
type envelope struct {
	jwt.RegisteredClaims
	Kind    string `json:"kind"`
	Version int    `json:"ver"`
}

// Codec mints and verifies HMAC-signed session tokens.
// It holds no mutable state and is safe for concurrent use.
type Codec struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// New creates a Codec from cfg.
func New(cfg Config, opts ...Option) (*Codec, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	c := &Codec{
		secret:     []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TTL returns the lifetime of tokens of the given kind.
func (c *Codec) TTL(kind Kind) time.Duration {
	switch kind {
	case Access:
		return c.accessTTL
	case Refresh:
		return c.refreshTTL
	default:
		return 0
	}
}

// Mint signs a new token for subject.
func (c *Codec) Mint(subject string, kind Kind) (string, error) {
	if subject == "" {
		return "", ErrEmptySubject
	}
	ttl := c.TTL(kind)
	if ttl == 0 {
		return "", fmt.Errorf("%w: %d", ErrUnknownKind, kind)
	}

	now := c.now()
	claims := envelope{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Kind:    kind.claim(),
		Version: CurrentVersion,
	}

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of raw and returns its claims.
// Errors are ErrMalformed, ErrInvalidSignature or ErrExpired.
//
// The encoded expiry is truncated to whole seconds, so Verify allows one
// second of leeway: a token is still accepted at exactly issuance+TTL and
// is rejected no later than one second after it.
func (c *Codec) Verify(raw string) (Claims, error) {
	var env envelope
	_, err := jwt.ParseWithClaims(raw, &env, c.keyFunc, c.parserOptions()...)
	if err != nil {
		return Claims{}, classify(err)
	}

	if env.Version < 1 || env.Version > CurrentVersion {
		return Claims{}, fmt.Errorf("%w: unsupported version %d", ErrMalformed, env.Version)
	}
	kind, err := ParseKind(env.Kind)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if env.Subject == "" {
		return Claims{}, fmt.Errorf("%w: missing subject", ErrMalformed)
	}

	claims := Claims{
		ID:        env.ID,
		Subject:   env.Subject,
		Kind:      kind,
		Version:   env.Version,
		Issuer:    env.Issuer,
		ExpiresAt: env.ExpiresAt.Time,
	}
	if env.IssuedAt != nil {
		claims.IssuedAt = env.IssuedAt.Time
	}
	return claims, nil
}

// VerifyKind is Verify plus a check that the token is of the expected kind.
func (c *Codec) VerifyKind(raw string, kind Kind) (Claims, error) {
	claims, err := c.Verify(raw)
	if err != nil {
		return Claims{}, err
	}
	if claims.Kind != kind {
		return Claims{}, fmt.Errorf("%w: want %s, got %s", ErrWrongKind, kind, claims.Kind)
	}
	return claims, nil
}

func (c *Codec) keyFunc(t *jwt.Token) (any, error) {
	if t.Method.Alg() != signingMethod.Alg() {
		return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
	}
	return c.secret, nil
}

func (c *Codec) parserOptions() []jwt.ParserOption {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(expiryLeeway),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}
	return opts
}

// classify maps jwt parse errors onto the package's verification errors.
// Signature problems win over claim problems because jwt checks them first.
// A foreign issuer lands in the default branch: the token is not ours.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return errors.Join(ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return errors.Join(ErrInvalidSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return errors.Join(ErrExpired, err)
	default:
		return errors.Join(ErrMalformed, err)
	}
}
