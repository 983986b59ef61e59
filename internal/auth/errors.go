package auth

import (
	"errors"
	"fmt"

	"github.com/barguni/auth/pkg/account"
	"github.com/barguni/auth/pkg/oauth"
	"github.com/barguni/auth/pkg/token"
)

// ErrorKind classifies why a flow failed.
type ErrorKind uint8

const (
	KindInternal ErrorKind = iota
	KindBadCode
	KindBadToken
	KindMalformedProfile
	KindAccountNotFound
	KindUnknownProvider
	KindInvalidToken
	KindInvalidState
)

var kindNames = [...]string{
	KindInternal:         "Internal",
	KindBadCode:          "BadCode",
	KindBadToken:         "BadToken",
	KindMalformedProfile: "MalformedProfile",
	KindAccountNotFound:  "AccountNotFound",
	KindUnknownProvider:  "UnknownProvider",
	KindInvalidToken:     "InvalidToken",
	KindInvalidState:     "InvalidState",
}

func (k ErrorKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Internal"
}

func (k ErrorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ErrInvalidState is wrapped by the Failure returned from ConsumeState.
var ErrInvalidState = errors.New("auth: unknown or expired oauth state")

// Failure is the terminal FAILED state of a flow. Stage is the stage the flow
// was trying to reach when it stopped.
type Failure struct {
	Stage Stage
	Kind  ErrorKind
	Err   error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("auth: %s failed: %s", f.Stage, f.Kind)
	}
	return fmt.Sprintf("auth: %s failed: %s: %v", f.Stage, f.Kind, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// AsFailure extracts a *Failure from err.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

func fail(stage Stage, kind ErrorKind, err error) *Failure {
	return &Failure{Stage: stage, Kind: kind, Err: err}
}

// classify maps an error from a collaborator package onto the taxonomy.
// Anything unrecognized is Internal.
func classify(err error) ErrorKind {
	switch {
	case errors.Is(err, oauth.ErrBadCode):
		return KindBadCode
	case errors.Is(err, oauth.ErrBadToken):
		return KindBadToken
	case errors.Is(err, oauth.ErrMalformedProfile),
		errors.Is(err, account.ErrInvalidEmail),
		errors.Is(err, account.ErrEmptyDisplayName),
		errors.Is(err, account.ErrDisplayNameTooLong):
		return KindMalformedProfile
	case errors.Is(err, oauth.ErrUnknownProvider):
		return KindUnknownProvider
	case errors.Is(err, account.ErrNotFound):
		return KindAccountNotFound
	case errors.Is(err, token.ErrMalformed),
		errors.Is(err, token.ErrInvalidSignature),
		errors.Is(err, token.ErrExpired),
		errors.Is(err, token.ErrWrongKind):
		return KindInvalidToken
	case errors.Is(err, ErrInvalidState):
		return KindInvalidState
	default:
		return KindInternal
	}
}
