package oauth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/barguni/auth/pkg/oauth"
)

var _ oauth.Provider = (*oauth.KakaoProvider)(nil)

func newKakao(t *testing.T, handler http.HandlerFunc) *oauth.KakaoProvider {
	t.Helper()
	p, err := oauth.NewKakaoProvider(
		oauth.KakaoConfig{
			ClientID:    "kakao-rest-key",
			RedirectURL: "https://example.com/oauth/kakao/callback",
		},
		oauth.WithHTTPClient(clientFor(handler)),
	)
	require.NoError(t, err)
	return p
}

func TestNewKakaoProvider(t *testing.T) {
	t.Parallel()

	t.Run("secret is optional", func(t *testing.T) {
		t.Parallel()
		p, err := oauth.NewKakaoProvider(oauth.KakaoConfig{ClientID: "id"})
		require.NoError(t, err)
		require.Equal(t, oauth.Kakao, p.Kind())
		require.Contains(t, p.AuthCodeURL("xyz"), "kauth.kakao.com")
	})

	t.Run("missing client ID", func(t *testing.T) {
		t.Parallel()
		_, err := oauth.NewKakaoProvider(oauth.KakaoConfig{})
		require.ErrorIs(t, err, oauth.ErrMissingClientID)
	})
}

func TestKakaoProvider_Exchange(t *testing.T) {
	t.Parallel()

	t.Run("form encoded request", func(t *testing.T) {
		t.Parallel()

		var form map[string]string
		p := newKakao(t, func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			form = map[string]string{
				"grant_type":   r.PostForm.Get("grant_type"),
				"client_id":    r.PostForm.Get("client_id"),
				"redirect_uri": r.PostForm.Get("redirect_uri"),
				"code":         r.PostForm.Get("code"),
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token":  "kakao-access",
				"token_type":    "bearer",
				"refresh_token": "kakao-refresh",
				"expires_in":    21599,
			})
		})

		tok, err := p.Exchange(context.Background(), "kakao-code")
		require.NoError(t, err)
		require.Equal(t, "kakao-access", tok.AccessToken)
		require.Equal(t, map[string]string{
			"grant_type":   "authorization_code",
			"client_id":    "kakao-rest-key",
			"redirect_uri": "https://example.com/oauth/kakao/callback",
			"code":         "kakao-code",
		}, form)
	})

	t.Run("provider returns 400", func(t *testing.T) {
		t.Parallel()
		p := newKakao(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant","error_code":"KOE320"}`))
		})

		tok, err := p.Exchange(context.Background(), "used-code")
		require.ErrorIs(t, err, oauth.ErrBadCode)
		require.ErrorIs(t, err, oauth.ErrRequestFailed)
		require.Nil(t, tok)
	})

	t.Run("transport failure", func(t *testing.T) {
		t.Parallel()
		p, err := oauth.NewKakaoProvider(
			oauth.KakaoConfig{ClientID: "id"},
			oauth.WithHTTPClient(&http.Client{Transport: failingTransport{}}),
		)
		require.NoError(t, err)

		_, err = p.Exchange(context.Background(), "code")
		require.ErrorIs(t, err, oauth.ErrBadCode)
	})
}

func TestKakaoProvider_FetchProfile(t *testing.T) {
	t.Parallel()

	t.Run("posts with bearer token", func(t *testing.T) {
		t.Parallel()

		var method, auth string
		p := newKakao(t, func(w http.ResponseWriter, r *http.Request) {
			method = r.Method
			auth = r.Header.Get("Authorization")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":42,"kakao_account":{"email":"a@b.com"},"properties":{"nickname":"A"}}`))
		})

		raw, err := p.FetchProfile(context.Background(), &oauth2.Token{AccessToken: "kakao-access"})
		require.NoError(t, err)
		require.Equal(t, http.MethodPost, method)
		require.Equal(t, "Bearer kakao-access", auth)

		id, err := p.Normalize(raw)
		require.NoError(t, err)
		require.Equal(t, oauth.Identity{Email: "a@b.com", DisplayName: "A"}, id)
	})

	t.Run("rejected token", func(t *testing.T) {
		t.Parallel()
		p := newKakao(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"msg":"this access token does not exist","code":-401}`))
		})

		_, err := p.FetchProfile(context.Background(), &oauth2.Token{AccessToken: "bogus"})
		require.ErrorIs(t, err, oauth.ErrBadToken)
	})
}
