package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

type ctxKey struct{}

func requestID(ctx context.Context) (slog.Attr, bool) {
	v, ok := ctx.Value(ctxKey{}).(string)
	if !ok || v == "" {
		return slog.Attr{}, false
	}
	return slog.String("request_id", v), true
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	return m
}

func TestNew_ExtractsContextAttributes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := newLogger(&buf, Config{Level: "info", Format: "json"}, requestID, nil)

	ctx := context.WithValue(context.Background(), ctxKey{}, "req-1")
	log.With(slog.String("component", "auth")).InfoContext(ctx, "login", slog.String("provider", "KAKAO"))

	m := decode(t, &buf)
	require.Equal(t, "login", m["msg"])
	require.Equal(t, "req-1", m["request_id"])
	require.Equal(t, "auth", m["component"])
	require.Equal(t, "KAKAO", m["provider"])
}

func TestNew_SkipsMissingAttributes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := newLogger(&buf, Config{}, requestID)
	log.InfoContext(context.Background(), "no request")

	m := decode(t, &buf)
	require.NotContains(t, m, "request_id")
}

func TestNew_Level(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := newLogger(&buf, Config{Level: "warn"})
	log.Info("dropped")
	require.Zero(t, buf.Len())

	log.Warn("kept")
	require.Equal(t, "kept", decode(t, &buf)["msg"])
}

func TestNew_TextFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	newLogger(&buf, Config{Format: "text"}).Info("hello")
	require.Contains(t, buf.String(), "msg=hello")
}

func TestConfig_LevelFallback(t *testing.T) {
	t.Parallel()
	require.Equal(t, slog.LevelInfo, Config{Level: "loud"}.level())
	require.Equal(t, slog.LevelDebug, Config{Level: "DEBUG"}.level())
}

func TestTeeHandler(t *testing.T) {
	t.Parallel()

	var info, errs bytes.Buffer
	h := teeHandler{
		slog.NewJSONHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&errs, &slog.HandlerOptions{Level: slog.LevelError}),
	}
	log := slog.New(h)

	log.Info("info only")
	require.NotZero(t, info.Len())
	require.Zero(t, errs.Len())

	log.Error("both")
	require.NotZero(t, errs.Len())
}

func TestNewNope(t *testing.T) {
	t.Parallel()
	require.NotPanics(t, func() { NewNope().Error("ignored") })
}
