package httpapi_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/barguni/auth/internal/auth"
	"github.com/barguni/auth/internal/httpapi"
	"github.com/barguni/auth/pkg/account"
	"github.com/barguni/auth/pkg/health"
	"github.com/barguni/auth/pkg/oauth"
	"github.com/barguni/auth/pkg/token"
)

type stubProvider struct {
	kind    oauth.Kind
	profile string
}

func (p stubProvider) Kind() oauth.Kind { return p.kind }

func (p stubProvider) AuthCodeURL(state string) string {
	return "https://provider.test/authorize?state=" + url.QueryEscape(state)
}

func (p stubProvider) Exchange(_ context.Context, code string) (*oauth2.Token, error) {
	if code != "good" {
		return nil, fmt.Errorf("%w: status 400", oauth.ErrBadCode)
	}
	return &oauth2.Token{AccessToken: "provider-token"}, nil
}

func (p stubProvider) FetchProfile(context.Context, *oauth2.Token) (oauth.RawProfile, error) {
	return oauth.RawProfile(p.profile), nil
}

func (p stubProvider) Normalize(raw oauth.RawProfile) (oauth.Identity, error) {
	return oauth.NormalizeKakao(raw)
}

type testAPI struct {
	handler  http.Handler
	resolver *account.Resolver
	store    *account.MemoryStore
}

func newTestAPI(t *testing.T, checks health.Checks) *testAPI {
	t.Helper()

	codec, err := token.New(token.Config{Secret: "0123456789abcdef0123456789abcdef"})
	require.NoError(t, err)

	store := account.NewMemoryStore()
	resolver := account.NewResolver(store)
	kakao := stubProvider{
		kind:    oauth.Kakao,
		profile: `{"kakao_account":{"email":"a@b.com","is_email_verified":true},"properties":{"nickname":"A"}}`,
	}
	svc := auth.NewService(oauth.NewRegistry(kakao), resolver, codec)
	t.Cleanup(func() { _ = svc.Close() })

	h := httpapi.New(svc, resolver, httpapi.WithHealthChecks(checks))
	return &testAPI{handler: h.Routes(), resolver: resolver, store: store}
}

func (a *testAPI) do(t *testing.T, method, target, body, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

type errorBody struct {
	Error     string `json:"error"`
	Stage     string `json:"stage"`
	RequestID string `json:"request_id"`
}

func (a *testAPI) startOAuth(t *testing.T) string {
	t.Helper()
	rec := a.do(t, http.MethodGet, "/oauth/kakao/login", "", "")
	require.Equal(t, http.StatusFound, rec.Code)

	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	state := loc.Query().Get("state")
	require.NotEmpty(t, state)
	return state
}

func TestOAuthFlow(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t, nil)

	state := api.startOAuth(t)
	rec := api.do(t, http.MethodGet, "/oauth/KAKAO/callback?code=good&state="+url.QueryEscape(state), "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	pair := decode[auth.TokenPair](t, rec)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.Equal(t, "Bearer", pair.TokenType)
	require.Equal(t, 1, api.store.Len())

	// Replaying the callback is rejected.
	rec = api.do(t, http.MethodGet, "/oauth/kakao/callback?code=good&state="+url.QueryEscape(state), "", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[errorBody](t, rec)
	require.Equal(t, "InvalidState", body.Error)
	require.Equal(t, "START", body.Stage)
}

func TestOAuthCallback_Failures(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t, nil)

	state := api.startOAuth(t)
	rec := api.do(t, http.MethodGet, "/oauth/kakao/callback?code=bad&state="+url.QueryEscape(state), "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decode[errorBody](t, rec)
	require.Equal(t, "BadCode", body.Error)
	require.Equal(t, "CODE_EXCHANGED", body.Stage)
	require.NotEmpty(t, body.RequestID)
	require.Zero(t, api.store.Len())

	state = api.startOAuth(t)
	rec = api.do(t, http.MethodGet, "/oauth/kakao/callback?error=access_denied&state="+url.QueryEscape(state), "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "BadCode", decode[errorBody](t, rec).Error)

	rec = api.do(t, http.MethodGet, "/oauth/kakao/callback?code=good", "", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "InvalidState", decode[errorBody](t, rec).Error)
}

func TestOAuth_UnknownProvider(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t, nil)

	for _, target := range []string{"/oauth/github/login", "/oauth/google/login", "/oauth/github/callback?code=x&state=y"} {
		rec := api.do(t, http.MethodGet, target, "", "")
		require.Equal(t, http.StatusBadRequest, rec.Code, target)
		body := decode[errorBody](t, rec)
		require.Equal(t, "UnknownProvider", body.Error, target)
		require.Equal(t, "START", body.Stage, target)
	}
}

func TestDirectLogin(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t, nil)

	rec := api.do(t, http.MethodPost, "/auth/login", `{"email":"a@b.com"}`, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	body := decode[errorBody](t, rec)
	require.Equal(t, "AccountNotFound", body.Error)
	require.Equal(t, "IDENTITY_RESOLVED", body.Stage)

	_, err := api.resolver.Resolve(context.Background(), "a@b.com", "A")
	require.NoError(t, err)

	rec = api.do(t, http.MethodPost, "/auth/login", `{"email":"A@b.com"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, decode[auth.TokenPair](t, rec).AccessToken)

	rec = api.do(t, http.MethodPost, "/auth/login", `{"email":`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "BadRequest", decode[errorBody](t, rec).Error)
}

func TestRefreshAndMe(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t, nil)

	_, err := api.resolver.Resolve(context.Background(), "a@b.com", "A")
	require.NoError(t, err)
	pair := decode[auth.TokenPair](t, api.do(t, http.MethodPost, "/auth/login", `{"email":"a@b.com"}`, ""))

	rec := api.do(t, http.MethodPost, "/auth/refresh", `{"refresh_token":"`+pair.RefreshToken+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	next := decode[auth.TokenPair](t, rec)

	rec = api.do(t, http.MethodPost, "/auth/refresh", `{"refresh_token":"`+pair.AccessToken+`"}`, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "InvalidToken", decode[errorBody](t, rec).Error)

	rec = api.do(t, http.MethodGet, "/api/me", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))

	rec = api.do(t, http.MethodGet, "/api/me", "", next.RefreshToken)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/me", "", next.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[map[string]any](t, rec)
	require.Equal(t, "a@b.com", me["email"])
	require.Equal(t, "A", me["display_name"])
	require.Nil(t, me["default_basket_id"])

	rec = api.do(t, http.MethodPut, "/api/me", `{"display_name":"  Basket Keeper "}`, next.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Basket Keeper", decode[map[string]any](t, rec)["display_name"])

	rec = api.do(t, http.MethodPut, "/api/me", `{"display_name":"   "}`, next.AccessToken)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHealth(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t, health.Checks{
		"store": func(context.Context) error { return fmt.Errorf("down") },
	})

	rec := api.do(t, http.MethodGet, "/health/live", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, "/health/ready", "", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRequestID(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	req.Header.Set("X-Request-ID", "upstream-id")
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	require.Equal(t, "upstream-id", rec.Header().Get("X-Request-ID"))

	rec = api.do(t, http.MethodGet, "/health/live", "", "")
	require.Len(t, rec.Header().Get("X-Request-ID"), 26)
}
