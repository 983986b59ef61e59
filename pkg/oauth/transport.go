package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// maxBodySize caps provider responses read into memory.
const maxBodySize = 1 << 20

// tokenResponse is the token endpoint payload shared by both providers.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (r tokenResponse) token(now time.Time) *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  r.AccessToken,
		TokenType:    r.TokenType,
		RefreshToken: r.RefreshToken,
	}
	if r.ExpiresIn > 0 {
		tok.Expiry = now.Add(time.Duration(r.ExpiresIn) * time.Second)
	}
	return tok
}

func isSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

func httpClientOrDefault(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return http.DefaultClient
}

func contextWithHTTPClient(ctx context.Context, c *http.Client) context.Context {
	if c != nil {
		return context.WithValue(ctx, oauth2.HTTPClient, c)
	}
	return ctx
}

// fetchProfile performs an authenticated request against a user-info endpoint
// and returns the body if it is a JSON object. Every failure is joined with ErrBadToken.
// The token is used as-is: it is never refreshed, even when it carries a refresh token.
func fetchProfile(ctx context.Context, httpClient *http.Client, token *oauth2.Token, method, url string) (RawProfile, error) {
	if token == nil || token.AccessToken == "" {
		return nil, errors.Join(ErrBadToken, errors.New("empty provider token"))
	}

	ctx = contextWithHTTPClient(ctx, httpClient)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, errors.Join(ErrBadToken, ErrFetchFailed, fmt.Errorf("build profile request: %w", err))
	}
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Join(ErrBadToken, ErrFetchFailed, fmt.Errorf("fetch profile: %w", err))
	}
	if resp == nil {
		return nil, errors.Join(ErrBadToken, ErrNilResponse)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, errors.Join(ErrBadToken, ErrFetchFailed, fmt.Errorf("read profile: %w", err))
	}

	if !isSuccess(resp.StatusCode) {
		return nil, errors.Join(ErrBadToken, ErrRequestFailed, fmt.Errorf("profile request failed: status=%d body=%s", resp.StatusCode, body))
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(body, &object); err != nil || object == nil {
		if err == nil {
			err = errors.New("profile is not a JSON object")
		}
		return nil, errors.Join(ErrBadToken, ErrDecodeFailed, fmt.Errorf("decode profile: %w", err))
	}

	return RawProfile(body), nil
}
