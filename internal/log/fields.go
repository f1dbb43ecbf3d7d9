package log

import "log/slog"

// Attribute keys shared by every log line.
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldPath        = "path"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldErrorType   = "error_type"
	FieldUserID      = "user_id"
	FieldExpenseID   = "expense_id"
	FieldAmountCents = "amount_cents"
	FieldCategory    = "category"
	FieldTemplate    = "template"
)

// Component tags.
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentAuth      = "auth"
	ComponentExpense   = "expense"
	ComponentAnalytics = "analytics"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentSheets    = "sheets"
	ComponentCache     = "cache"
	ComponentSecurity  = "security"
	ComponentBackend   = "backend"
)

const (
	OpCreate   = "create"
	OpSignIn   = "sign_in"
	OpRender   = "render"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)

// Error categories, logged under FieldErrorType.
const (
	ErrorTypeAuth     = "auth_error"
	ErrorTypeInternal = "internal_error"
)

// requestAttrs describes a finished HTTP exchange. Empty optional values
// are left out.
func requestAttrs(method, path, query string, status int, durationMs int64, clientIP, userAgent string) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("method", method),
		slog.String(FieldPath, path),
		slog.Int("status_code", status),
		slog.Int64("duration_ms", durationMs),
		slog.Bool("success", status < 400),
	}
	if query != "" {
		attrs = append(attrs, slog.String("query", query))
	}
	if clientIP != "" {
		attrs = append(attrs, slog.String(FieldClientIP, clientIP))
	}
	if userAgent != "" {
		attrs = append(attrs, slog.String("user_agent", userAgent))
	}
	return attrs
}
