package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// KakaoProvider implements Provider for Kakao OAuth.
// The token request is form-encoded; the profile is read with POST.
type KakaoProvider struct {
	config      *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

// NewKakaoProvider creates a new Kakao OAuth provider.
// Returns an error if ClientID is empty. ClientSecret is optional.
func NewKakaoProvider(cfg KakaoConfig, opts ...Option) (*KakaoProvider, error) {
	if cfg.ClientID == "" {
		return nil, ErrMissingClientID
	}

	o := newOptions(opts)

	return &KakaoProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   orDefault(cfg.AuthURL, "https://kauth.kakao.com/oauth/authorize"),
				TokenURL:  orDefault(cfg.TokenURL, "https://kauth.kakao.com/oauth/token"),
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		userInfoURL: orDefault(cfg.UserInfoURL, "https://kapi.kakao.com/v2/user/me"),
		httpClient:  o.httpClient,
	}, nil
}

// Kind returns Kakao.
func (p *KakaoProvider) Kind() Kind {
	return Kakao
}

// AuthCodeURL generates the authorization URL.
func (p *KakaoProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// Exchange trades an authorization code for tokens. The request body is
// application/x-www-form-urlencoded with grant_type, client_id, redirect_uri and code.
func (p *KakaoProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	if code == "" {
		return nil, errors.Join(ErrBadCode, errors.New("empty authorization code"))
	}

	ctx = contextWithHTTPClient(ctx, p.httpClient)
	tok, err := p.config.Exchange(ctx, code)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil {
			return nil, errors.Join(ErrBadCode, ErrRequestFailed, fmt.Errorf("token request failed: status=%d: %w", re.Response.StatusCode, err))
		}
		return nil, errors.Join(ErrBadCode, fmt.Errorf("token exchange: %w", err))
	}
	return tok, nil
}

// FetchProfile retrieves the user document from Kakao.
func (p *KakaoProvider) FetchProfile(ctx context.Context, token *oauth2.Token) (RawProfile, error) {
	return fetchProfile(ctx, p.httpClient, token, http.MethodPost, p.userInfoURL)
}

// Normalize maps a Kakao user document to an Identity.
func (p *KakaoProvider) Normalize(raw RawProfile) (Identity, error) {
	return NormalizeKakao(raw)
}
