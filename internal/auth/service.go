package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"

	"github.com/barguni/auth/pkg/account"
	"github.com/barguni/auth/pkg/cache"
	"github.com/barguni/auth/pkg/oauth"
	"github.com/barguni/auth/pkg/token"
)

const (
	tracerName = "github.com/barguni/auth/internal/auth"

	// DefaultStateTTL bounds how long a user may take at the provider's consent page.
	DefaultStateTTL = 10 * time.Minute
)

// Identities is the account side of the flow. *account.Resolver implements it.
type Identities interface {
	Resolve(ctx context.Context, email, displayName string) (account.Account, error)
	Lookup(ctx context.Context, email string) (account.Account, error)
	Get(ctx context.Context, id string) (account.Account, error)
}

// TokenPair is a freshly minted session.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Service runs the login flows. It keeps no per-login state; the only shared
// state is the account store behind Identities and the pending OAuth states.
type Service struct {
	providers  *oauth.Registry
	identities Identities
	codec      *token.Codec
	states     cache.Cache[string]
	ownStates  bool
	stateTTL   time.Duration
	tracer     trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

// WithStateStore stores pending OAuth states in c instead of process memory.
func WithStateStore(c cache.Cache[string]) Option {
	return func(s *Service) {
		if c != nil {
			s.states = c
		}
	}
}

// WithStateTTL sets how long an issued OAuth state stays valid.
func WithStateTTL(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.stateTTL = d
		}
	}
}

// WithTracerProvider replaces the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Service) {
		if tp != nil {
			s.tracer = tp.Tracer(tracerName)
		}
	}
}

// NewService wires the flow's collaborators.
func NewService(providers *oauth.Registry, identities Identities, codec *token.Codec, opts ...Option) *Service {
	s := &Service{
		providers:  providers,
		identities: identities,
		codec:      codec,
		stateTTL:   DefaultStateTTL,
		tracer:     otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.states == nil {
		s.states = cache.NewMemory[string](cache.WithDefaultTTL(s.stateTTL), cache.WithMaxEntries(100_000))
		s.ownStates = true
	}
	return s
}

// Close releases the in-memory state store when the Service created it.
func (s *Service) Close() error {
	if s.ownStates {
		return s.states.Close()
	}
	return nil
}

// Login exchanges an authorization code for a session. Each stage runs once,
// in order; the first failure ends the flow with a *Failure naming the stage
// it was trying to reach. Provider calls are never retried here.
func (s *Service) Login(ctx context.Context, kind oauth.Kind, code string) (TokenPair, error) {
	ctx, span := s.tracer.Start(ctx, "auth.login", trace.WithAttributes(attribute.String("auth.provider", kind.String())))
	defer span.End()

	provider, err := s.providers.Get(kind)
	if err != nil {
		return TokenPair{}, s.record(span, fail(StageStart, KindUnknownProvider, err))
	}

	var providerToken *oauth2.Token
	if err := s.stage(ctx, StageCodeExchanged, func(ctx context.Context) (err error) {
		providerToken, err = provider.Exchange(ctx, code)
		return err
	}); err != nil {
		return TokenPair{}, s.record(span, err)
	}

	var raw oauth.RawProfile
	if err := s.stage(ctx, StageProfileFetched, func(ctx context.Context) (err error) {
		raw, err = provider.FetchProfile(ctx, providerToken)
		return err
	}); err != nil {
		return TokenPair{}, s.record(span, err)
	}

	var identity oauth.Identity
	if err := s.stage(ctx, StageProfileNormalized, func(context.Context) (err error) {
		identity, err = provider.Normalize(raw)
		return err
	}); err != nil {
		return TokenPair{}, s.record(span, err)
	}

	var acc account.Account
	if err := s.stage(ctx, StageIdentityResolved, func(ctx context.Context) (err error) {
		acc, err = s.identities.Resolve(ctx, identity.Email, identity.DisplayName)
		return err
	}); err != nil {
		return TokenPair{}, s.record(span, err)
	}

	pair, err := s.issue(ctx, acc.ID)
	if err != nil {
		return TokenPair{}, s.record(span, err)
	}
	span.SetAttributes(attribute.String("auth.account_id", acc.ID))
	return pair, nil
}

// LoginByName is Login with the provider given by name ("GOOGLE" or "KAKAO").
func (s *Service) LoginByName(ctx context.Context, provider, code string) (TokenPair, error) {
	kind, err := oauth.ParseKind(provider)
	if err != nil {
		return TokenPair{}, fail(StageStart, KindUnknownProvider, err)
	}
	return s.Login(ctx, kind, code)
}

// DirectLogin issues a session for an existing account found by email.
// It never creates accounts.
func (s *Service) DirectLogin(ctx context.Context, email string) (TokenPair, error) {
	ctx, span := s.tracer.Start(ctx, "auth.direct_login")
	defer span.End()

	var acc account.Account
	if err := s.stage(ctx, StageIdentityResolved, func(ctx context.Context) (err error) {
		acc, err = s.identities.Lookup(ctx, email)
		if errors.Is(err, account.ErrInvalidEmail) {
			return fmt.Errorf("%w: %v", account.ErrNotFound, err)
		}
		return err
	}); err != nil {
		return TokenPair{}, s.record(span, err)
	}

	pair, err := s.issue(ctx, acc.ID)
	if err != nil {
		return TokenPair{}, s.record(span, err)
	}
	return pair, nil
}

// Refresh trades a valid refresh token for a new pair, provided the account
// still exists. The old refresh token stays valid until it expires.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	ctx, span := s.tracer.Start(ctx, "auth.refresh")
	defer span.End()

	var acc account.Account
	if err := s.stage(ctx, StageIdentityResolved, func(ctx context.Context) error {
		claims, err := s.codec.VerifyKind(refreshToken, token.Refresh)
		if err != nil {
			return err
		}
		acc, err = s.identities.Get(ctx, claims.Subject)
		return err
	}); err != nil {
		return TokenPair{}, s.record(span, err)
	}

	pair, err := s.issue(ctx, acc.ID)
	if err != nil {
		return TokenPair{}, s.record(span, err)
	}
	return pair, nil
}

// Authenticate verifies an access token and returns its account.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (account.Account, error) {
	claims, err := s.codec.VerifyKind(accessToken, token.Access)
	if err != nil {
		return account.Account{}, fail(StageStart, KindInvalidToken, err)
	}
	acc, err := s.identities.Get(ctx, claims.Subject)
	if err != nil {
		return account.Account{}, fail(StageIdentityResolved, classify(err), err)
	}
	return acc, nil
}

// AuthorizationURL returns the provider consent URL together with the
// one-time state embedded in it.
func (s *Service) AuthorizationURL(ctx context.Context, kind oauth.Kind) (string, string, error) {
	provider, err := s.providers.Get(kind)
	if err != nil {
		return "", "", fail(StageStart, KindUnknownProvider, err)
	}

	state, err := newState()
	if err != nil {
		return "", "", fail(StageStart, KindInternal, err)
	}
	if err := s.states.Set(ctx, state, kind.String(), s.stateTTL); err != nil {
		return "", "", fail(StageStart, KindInternal, err)
	}
	return provider.AuthCodeURL(state), state, nil
}

// ConsumeState accepts a state issued by AuthorizationURL for the same
// provider exactly once.
func (s *Service) ConsumeState(ctx context.Context, kind oauth.Kind, state string) error {
	if state == "" {
		return fail(StageStart, KindInvalidState, ErrInvalidState)
	}
	issuedFor, err := s.states.Take(ctx, state)
	switch {
	case errors.Is(err, cache.ErrNotFound):
		return fail(StageStart, KindInvalidState, ErrInvalidState)
	case err != nil:
		return fail(StageStart, KindInternal, err)
	case issuedFor != kind.String():
		return fail(StageStart, KindInvalidState, ErrInvalidState)
	}
	return nil
}

// issue mints the access and refresh tokens for an account that exists.
func (s *Service) issue(ctx context.Context, accountID string) (TokenPair, error) {
	var pair TokenPair
	err := s.stage(ctx, StageTokensIssued, func(context.Context) error {
		// Mint errors are never the client's fault, so they are not wrapped.
		access, err := s.codec.Mint(accountID, token.Access)
		if err != nil {
			return fmt.Errorf("mint access token: %v", err)
		}
		refresh, err := s.codec.Mint(accountID, token.Refresh)
		if err != nil {
			return fmt.Errorf("mint refresh token: %v", err)
		}
		pair = TokenPair{
			AccessToken:  access,
			RefreshToken: refresh,
			TokenType:    "Bearer",
			ExpiresIn:    int64(s.codec.TTL(token.Access) / time.Second),
		}
		return nil
	})
	if err != nil {
		return TokenPair{}, err
	}
	return pair, nil
}

// stage runs fn inside a span for target and converts its error to a Failure.
func (s *Service) stage(ctx context.Context, target Stage, fn func(context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, target.spanName())
	defer span.End()

	if err := fn(ctx); err != nil {
		return s.record(span, fail(target, classify(err), err))
	}
	return nil
}

func (s *Service) record(span trace.Span, err error) error {
	span.RecordError(err)
	f, ok := AsFailure(err)
	if !ok {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetStatus(codes.Error, f.Kind.String())
	span.SetAttributes(
		attribute.String("auth.failed_stage", f.Stage.String()),
		attribute.String("auth.error_kind", f.Kind.String()),
	)
	return err
}

func newState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
