package oauth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// GoogleDefaultScopes returns the default scopes for Google OAuth.
func GoogleDefaultScopes() []string {
	return []string{
		"https://www.googleapis.com/auth/userinfo.email",
		"https://www.googleapis.com/auth/userinfo.profile",
	}
}

// GoogleProvider implements Provider for Google OAuth.
// The token request is sent as a JSON object; the profile is read with GET.
type GoogleProvider struct {
	config      *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
	now         func() time.Time
}

// NewGoogleProvider creates a new Google OAuth provider.
// Returns an error if ClientID or ClientSecret is empty.
func NewGoogleProvider(cfg GoogleConfig, opts ...Option) (*GoogleProvider, error) {
	if cfg.ClientID == "" {
		return nil, ErrMissingClientID
	}
	if cfg.ClientSecret == "" {
		return nil, ErrMissingClientSecret
	}

	o := newOptions(opts)

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = GoogleDefaultScopes()
	}

	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  orDefault(cfg.AuthURL, "https://accounts.google.com/o/oauth2/auth"),
				TokenURL: orDefault(cfg.TokenURL, "https://oauth2.googleapis.com/token"),
			},
		},
		userInfoURL: orDefault(cfg.UserInfoURL, "https://www.googleapis.com/oauth2/v2/userinfo"),
		httpClient:  o.httpClient,
		now:         time.Now,
	}, nil
}

// Kind returns Google.
func (p *GoogleProvider) Kind() Kind {
	return Google
}

// AuthCodeURL generates the authorization URL.
func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

type googleTokenRequest struct {
	Code         string `json:"code"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RedirectURI  string `json:"redirect_uri"`
	GrantType    string `json:"grant_type"`
}

// Exchange trades an authorization code for tokens.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	if code == "" {
		return nil, errors.Join(ErrBadCode, errors.New("empty authorization code"))
	}

	payload, err := json.Marshal(googleTokenRequest{
		Code:         code,
		ClientID:     p.config.ClientID,
		ClientSecret: p.config.ClientSecret,
		RedirectURI:  p.config.RedirectURL,
		GrantType:    "authorization_code",
	})
	if err != nil {
		return nil, errors.Join(ErrBadCode, fmt.Errorf("encode token request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.Endpoint.TokenURL, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Join(ErrBadCode, fmt.Errorf("build token request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := httpClientOrDefault(p.httpClient).Do(req)
	if err != nil {
		return nil, errors.Join(ErrBadCode, ErrFetchFailed, fmt.Errorf("token request: %w", err))
	}
	if resp == nil {
		return nil, errors.Join(ErrBadCode, ErrNilResponse)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		return nil, errors.Join(ErrBadCode, ErrRequestFailed, fmt.Errorf("token request failed: status=%d body=%s", resp.StatusCode, body))
	}

	var tr tokenResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&tr); err != nil {
		return nil, errors.Join(ErrBadCode, ErrDecodeFailed, fmt.Errorf("decode token: %w", err))
	}
	if tr.AccessToken == "" {
		return nil, errors.Join(ErrBadCode, errors.New("token response missing access_token"))
	}

	return tr.token(p.now()), nil
}

// FetchProfile retrieves the user-info document from Google.
func (p *GoogleProvider) FetchProfile(ctx context.Context, token *oauth2.Token) (RawProfile, error) {
	return fetchProfile(ctx, p.httpClient, token, http.MethodGet, p.userInfoURL)
}

// Normalize maps a Google user-info document to an Identity.
func (p *GoogleProvider) Normalize(raw RawProfile) (Identity, error) {
	return NormalizeGoogle(raw)
}
