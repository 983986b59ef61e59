package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/barguni/auth/pkg/id"
	"github.com/barguni/auth/pkg/sanitizer"
)

const (
	// DefaultMaxAttempts bounds the create-then-reread loop in Resolve.
	DefaultMaxAttempts = 3

	// MaxDisplayNameLength is counted in runes.
	MaxDisplayNameLength = 64
)

// Resolver maps a login identity to exactly one Account per email.
type Resolver struct {
	store       Store
	newID       func() string
	now         func() time.Time
	maxAttempts int
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithIDGenerator replaces id.NewULID for new accounts.
func WithIDGenerator(fn func() string) ResolverOption {
	return func(r *Resolver) { r.newID = fn }
}

// WithClock replaces time.Now for account timestamps.
func WithClock(fn func() time.Time) ResolverOption {
	return func(r *Resolver) { r.now = fn }
}

// WithMaxAttempts sets how many create attempts Resolve makes before giving up.
func WithMaxAttempts(n int) ResolverOption {
	return func(r *Resolver) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

// NewResolver creates a Resolver backed by store.
func NewResolver(store Store, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		store:       store,
		newID:       id.NewULID,
		now:         time.Now,
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the account for email, creating it with displayName on
// first sight. An existing account is returned unchanged and displayName is
// ignored; login never rewrites the stored display name. A new account gets
// the sanitized name truncated to MaxDisplayNameLength runes.
//
// Uniqueness is enforced by the store. When Create reports ErrConflict,
// another writer won the race and its row is read back instead.
func (r *Resolver) Resolve(ctx context.Context, email, displayName string) (Account, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return Account{}, err
	}

	a, err := r.store.FindByEmail(ctx, email)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Account{}, fmt.Errorf("find account: %w", err)
	}

	displayName = truncateDisplayName(sanitizer.DisplayName(displayName))
	if displayName == "" {
		return Account{}, ErrEmptyDisplayName
	}

	for range r.maxAttempts {
		now := r.now().UTC()
		a, err = r.store.Create(ctx, Account{
			ID:          r.newID(),
			Email:       email,
			DisplayName: displayName,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err == nil {
			return a, nil
		}
		if !errors.Is(err, ErrConflict) {
			return Account{}, fmt.Errorf("create account: %w", err)
		}

		a, err = r.store.FindByEmail(ctx, email)
		if err == nil {
			return a, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return Account{}, fmt.Errorf("reread account: %w", err)
		}
	}

	return Account{}, ErrResolveExhausted
}

// Lookup returns the existing account for email without creating one.
func (r *Resolver) Lookup(ctx context.Context, email string) (Account, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return Account{}, err
	}
	return r.store.FindByEmail(ctx, email)
}

// Get returns the account with the given ID.
func (r *Resolver) Get(ctx context.Context, id string) (Account, error) {
	if id == "" {
		return Account{}, ErrNotFound
	}
	return r.store.FindByID(ctx, id)
}

// Rename changes the display name of an existing account.
func (r *Resolver) Rename(ctx context.Context, id, displayName string) (Account, error) {
	displayName, err := cleanDisplayName(displayName)
	if err != nil {
		return Account{}, err
	}
	return r.store.UpdateDisplayName(ctx, id, displayName, r.now().UTC())
}

func truncateDisplayName(name string) string {
	if utf8.RuneCountInString(name) <= MaxDisplayNameLength {
		return name
	}
	return strings.TrimSpace(string([]rune(name)[:MaxDisplayNameLength]))
}

func cleanDisplayName(name string) (string, error) {
	name = sanitizer.DisplayName(name)
	if name == "" {
		return "", ErrEmptyDisplayName
	}
	if utf8.RuneCountInString(name) > MaxDisplayNameLength {
		return "", ErrDisplayNameTooLong
	}
	return name, nil
}
