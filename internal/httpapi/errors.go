package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/barguni/auth/internal/auth"
	"github.com/barguni/auth/pkg/account"
)

var (
	errMissingCode  = errors.New("httpapi: missing authorization code")
	errMissingToken = errors.New("httpapi: missing bearer token")
	errBadBody      = errors.New("httpapi: invalid request body")
)

type errorResponse struct {
	Error     string `json:"error"`
	Stage     string `json:"stage,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// statusFor maps a failure kind to an HTTP status.
func statusFor(kind auth.ErrorKind) int {
	switch kind {
	case auth.KindBadCode, auth.KindBadToken, auth.KindMalformedProfile, auth.KindInvalidToken:
		return http.StatusUnauthorized
	case auth.KindAccountNotFound:
		return http.StatusNotFound
	case auth.KindUnknownProvider, auth.KindInvalidState:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err and logs it. Internal failures log at error level,
// client failures at info.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp := errorResponse{Error: "Internal", RequestID: RequestIDFromContext(r.Context())}
	status := http.StatusInternalServerError

	if f, ok := auth.AsFailure(err); ok {
		resp.Error = f.Kind.String()
		resp.Stage = f.Stage.String()
		status = statusFor(f.Kind)
	} else {
		switch {
		case errors.Is(err, errBadBody):
			resp.Error, status = "BadRequest", http.StatusBadRequest
		case errors.Is(err, account.ErrEmptyDisplayName), errors.Is(err, account.ErrDisplayNameTooLong):
			resp.Error, status = "InvalidDisplayName", http.StatusUnprocessableEntity
		case errors.Is(err, account.ErrNotFound):
			resp.Error, status = auth.KindAccountNotFound.String(), http.StatusNotFound
		}
	}

	level := slog.LevelInfo
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.log.Log(r.Context(), level, "request failed",
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		slog.String("error_kind", resp.Error),
		slog.String("stage", resp.Stage),
		slog.Any("error", err),
	)

	writeJSON(w, status, resp)
}
