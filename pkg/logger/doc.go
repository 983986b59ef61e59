// Package logger builds the slog logger used by the HTTP layer and the
// server binary.
//
// Output is JSON (or text) on stdout, optionally teed to Sentry. Context
// extractors attach request-scoped attributes such as the request ID or the
// authenticated account ID to every record logged with a context:
//
//	log := logger.New(cfg.Log, httpapi.RequestIDExtractor, httpapi.AccountIDExtractor)
//	log.InfoContext(r.Context(), "login succeeded", slog.String("provider", "KAKAO"))
package logger
