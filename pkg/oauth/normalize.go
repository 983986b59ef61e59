package oauth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type googleProfile struct {
	Email         string `json:"email"`
	Name          string `json:"name"`
	VerifiedEmail *bool  `json:"verified_email"`
}

type kakaoProfile struct {
	ID      int64 `json:"id"`
	Account *struct {
		Email           string `json:"email"`
		IsEmailVerified *bool  `json:"is_email_verified"`
	} `json:"kakao_account"`
	Properties *struct {
		Nickname string `json:"nickname"`
	} `json:"properties"`
}

// NormalizeGoogle maps a Google user-info document with top-level email and
// name fields to an Identity.
func NormalizeGoogle(raw RawProfile) (Identity, error) {
	var p googleProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return Identity{}, errors.Join(ErrMalformedProfile, fmt.Errorf("decode google profile: %w", err))
	}
	if p.VerifiedEmail != nil && !*p.VerifiedEmail {
		return Identity{}, errors.Join(ErrMalformedProfile, ErrEmailNotVerified)
	}
	return identity(p.Email, p.Name)
}

// NormalizeKakao maps a Kakao user document to an Identity. The email lives
// under kakao_account and the display name under properties.nickname.
func NormalizeKakao(raw RawProfile) (Identity, error) {
	var p kakaoProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return Identity{}, errors.Join(ErrMalformedProfile, fmt.Errorf("decode kakao profile: %w", err))
	}
	if p.Account == nil {
		return Identity{}, errors.Join(ErrMalformedProfile, errors.New("missing kakao_account"))
	}
	if p.Properties == nil {
		return Identity{}, errors.Join(ErrMalformedProfile, errors.New("missing properties"))
	}
	if p.Account.IsEmailVerified != nil && !*p.Account.IsEmailVerified {
		return Identity{}, errors.Join(ErrMalformedProfile, ErrEmailNotVerified)
	}
	return identity(p.Account.Email, p.Properties.Nickname)
}

func identity(email, name string) (Identity, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if email == "" {
		return Identity{}, errors.Join(ErrMalformedProfile, errors.New("missing email"))
	}
	if name == "" {
		return Identity{}, errors.Join(ErrMalformedProfile, errors.New("missing display name"))
	}
	return Identity{Email: email, DisplayName: name}, nil
}
