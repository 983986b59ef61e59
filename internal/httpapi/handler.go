package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/barguni/auth/internal/auth"
	"github.com/barguni/auth/pkg/account"
	"github.com/barguni/auth/pkg/health"
	"github.com/barguni/auth/pkg/logger"
	"github.com/barguni/auth/pkg/oauth"
)

// Renamer changes an account's display name. *account.Resolver implements it.
type Renamer interface {
	Rename(ctx context.Context, id, displayName string) (account.Account, error)
}

// Handler serves the HTTP API.
type Handler struct {
	auth     *auth.Service
	accounts Renamer
	checks   health.Checks
	log      *slog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

// WithHealthChecks sets the readiness checks.
func WithHealthChecks(checks health.Checks) Option {
	return func(h *Handler) { h.checks = checks }
}

// New creates a Handler.
func New(svc *auth.Service, accounts Renamer, opts ...Option) *Handler {
	h := &Handler{
		auth:     svc,
		accounts: accounts,
		log:      logger.NewNope(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes builds the router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID, h.accessLog, h.recoverer)

	r.Get("/health/live", health.LivenessHandler())
	r.Get("/health/ready", health.ReadinessHandler(h.checks, health.WithLogger(h.log), health.WithTimeout(5*time.Second)))

	r.Route("/oauth/{provider}", func(r chi.Router) {
		r.Get("/login", h.oauthLogin)
		r.Get("/callback", h.oauthCallback)
	})

	r.Post("/auth/login", h.directLogin)
	r.Post("/auth/refresh", h.refresh)

	r.Group(func(r chi.Router) {
		r.Use(h.requireAccount)
		r.Get("/api/me", h.me)
		r.Put("/api/me", h.updateMe)
	})

	return r
}

func (h *Handler) providerKind(r *http.Request) (oauth.Kind, error) {
	kind, err := oauth.ParseKind(chi.URLParam(r, "provider"))
	if err != nil {
		return oauth.KindUnknown, &auth.Failure{Stage: auth.StageStart, Kind: auth.KindUnknownProvider, Err: err}
	}
	return kind, nil
}

func (h *Handler) oauthLogin(w http.ResponseWriter, r *http.Request) {
	kind, err := h.providerKind(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	url, _, err := h.auth.AuthorizationURL(r.Context(), kind)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

func (h *Handler) oauthCallback(w http.ResponseWriter, r *http.Request) {
	kind, err := h.providerKind(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	if err := h.auth.ConsumeState(r.Context(), kind, q.Get("state")); err != nil {
		h.writeError(w, r, err)
		return
	}

	// The provider reports a denied consent as ?error=... without a code.
	code := q.Get("code")
	if code == "" {
		h.writeError(w, r, &auth.Failure{Stage: auth.StageCodeExchanged, Kind: auth.KindBadCode, Err: errMissingCode})
		return
	}

	pair, err := h.auth.Login(r.Context(), kind, code)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.log.InfoContext(r.Context(), "oauth login succeeded", slog.String("provider", kind.String()))
	writeJSON(w, http.StatusOK, pair)
}

type directLoginRequest struct {
	Email string `json:"email"`
}

func (h *Handler) directLogin(w http.ResponseWriter, r *http.Request) {
	var req directLoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	pair, err := h.auth.DirectLogin(r.Context(), req.Email)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	pair, err := h.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

type accountResponse struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	DisplayName     string    `json:"display_name"`
	DefaultBasketID *string   `json:"default_basket_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toAccountResponse(a account.Account) accountResponse {
	return accountResponse{
		ID:              a.ID,
		Email:           a.Email,
		DisplayName:     a.DisplayName,
		DefaultBasketID: a.DefaultBasketID,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	acc, _ := accountFromContext(r.Context())
	writeJSON(w, http.StatusOK, toAccountResponse(acc))
}

type updateMeRequest struct {
	DisplayName string `json:"display_name"`
}

func (h *Handler) updateMe(w http.ResponseWriter, r *http.Request) {
	var req updateMeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	acc, _ := accountFromContext(r.Context())
	updated, err := h.accounts.Rename(r.Context(), acc.ID, req.DisplayName)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(updated))
}
