package log

import (
	"context"
	"log/slog"
	"net/http"
)

type contextKey struct{}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext extracts a logger from the request context
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(contextKey{}).(*Logger); ok {
		return logger
	}
	return &Logger{
		Logger:    slog.Default(),
		base:      slog.Default(),
		component: "unknown",
	}
}

// Middleware puts a request-scoped logger in the context, tagged with the
// request id returned by requestID.
func Middleware(logger *Logger, requestID func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := logger.WithComponent(ComponentHTTP)
			if requestID != nil {
				if id := requestID(r); id != "" {
					l = l.With(FieldRequestID, id)
				}
			}
			next.ServeHTTP(w, r.WithContext(WithLogger(r.Context(), l)))
		})
	}
}

// LogHTTPEnd logs the completion of an HTTP request at a level that follows
// the status code.
func LogHTTPEnd(ctx context.Context, r *http.Request, statusCode int, durationMs int64, clientIP string) {
	level := slog.LevelInfo
	switch {
	case statusCode >= 500:
		level = slog.LevelError
	case statusCode >= 400:
		level = slog.LevelWarn
	}
	attrs := requestAttrs(r.Method, r.URL.Path, r.URL.RawQuery, statusCode, durationMs, clientIP, r.UserAgent())
	FromContext(ctx).LogAttrs(ctx, level, "HTTP request completed", attrs...)
}

// LogExpenseCreated logs a successful expense creation.
func LogExpenseCreated(ctx context.Context, userID, id string, amountCents int64, category string) {
	FromContext(ctx).LogAttrs(ctx, slog.LevelInfo, "Expense created",
		slog.String(FieldOperation, OpCreate),
		slog.String(FieldUserID, userID),
		slog.String(FieldExpenseID, id),
		slog.Int64(FieldAmountCents, amountCents),
		slog.String(FieldCategory, category),
	)
}

// LogError logs err with its category and operation. args are extra
// key-value pairs, as for slog.Logger.Error.
func LogError(ctx context.Context, msg string, err error, errorType, operation string, args ...any) {
	args = append(args, FieldOperation, operation)
	if err != nil {
		args = append(args, FieldError, err.Error(), FieldErrorType, errorType)
	}
	FromContext(ctx).ErrorContext(ctx, msg, args...)
}
