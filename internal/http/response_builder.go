package http

import (
	"encoding/json"
	"html/template"
	"net/http"
	"time"
)

// Client-side events raised through HX-Trigger.
const (
	eventExpenseCreated = "expense:created"
	eventFormReset      = "form:reset"
	eventNotification   = "show-notification"
)

// HTMXResponseBuilder collects status, headers, HX-Trigger events and body
// for one response and writes them in the order net/http requires.
type HTMXResponseBuilder struct {
	status int
	header http.Header
	events map[string]any
	body   []byte
}

// NewHTMXResponse starts a 200 response.
func NewHTMXResponse() *HTMXResponseBuilder {
	return &HTMXResponseBuilder{
		status: http.StatusOK,
		header: http.Header{},
		events: map[string]any{},
	}
}

func (b *HTMXResponseBuilder) Status(code int) *HTMXResponseBuilder {
	b.status = code
	return b
}

// Trigger raises event on the client with data as its detail. Raising the
// same event twice keeps the last data.
func (b *HTMXResponseBuilder) Trigger(event string, data any) *HTMXResponseBuilder {
	b.events[event] = data
	return b
}

// TriggerExpenseCreated tells the recent list to reload.
func (b *HTMXResponseBuilder) TriggerExpenseCreated(id string) *HTMXResponseBuilder {
	return b.Trigger(eventExpenseCreated, map[string]string{"id": id})
}

func (b *HTMXResponseBuilder) TriggerFormReset() *HTMXResponseBuilder {
	return b.Trigger(eventFormReset, struct{}{})
}

// NotificationType selects the toast style.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
)

type notification struct {
	Type     NotificationType `json:"type"`
	Message  string           `json:"message"`
	Duration int64            `json:"duration"`
}

// TriggerNotification shows a toast for the given time.
func (b *HTMXResponseBuilder) TriggerNotification(kind NotificationType, message string, d time.Duration) *HTMXResponseBuilder {
	return b.Trigger(eventNotification, notification{Type: kind, Message: message, Duration: d.Milliseconds()})
}

func (b *HTMXResponseBuilder) TriggerSuccessNotification(message string) *HTMXResponseBuilder {
	return b.TriggerNotification(NotificationSuccess, message, 3*time.Second)
}

// Errors stay on screen a little longer.
func (b *HTMXResponseBuilder) TriggerErrorNotification(message string) *HTMXResponseBuilder {
	return b.TriggerNotification(NotificationError, message, 5*time.Second)
}

// Redirect makes HTMX perform a full-page navigation to url.
func (b *HTMXResponseBuilder) Redirect(url string) *HTMXResponseBuilder {
	return b.Header("HX-Redirect", url)
}

func (b *HTMXResponseBuilder) Header(name, value string) *HTMXResponseBuilder {
	b.header.Set(name, value)
	return b
}

func (b *HTMXResponseBuilder) Body(content []byte) *HTMXResponseBuilder {
	b.body = content
	return b
}

// BodyHTML sets an HTML fragment as the body.
func (b *HTMXResponseBuilder) BodyHTML(html []byte) *HTMXResponseBuilder {
	b.header.Set("Content-Type", "text/html; charset=utf-8")
	return b.Body(html)
}

// Write flushes headers, events, status and body to w.
func (b *HTMXResponseBuilder) Write(w http.ResponseWriter) {
	dst := w.Header()
	for name, values := range b.header {
		dst[name] = values
	}
	if len(b.events) > 0 {
		if encoded, err := json.Marshal(b.events); err == nil {
			dst.Set("HX-Trigger", string(encoded))
		}
	}

	w.WriteHeader(b.status)
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}

// ErrorResponse renders message, escaped, in an error box.
func ErrorResponse(statusCode int, message string) *HTMXResponseBuilder {
	fragment := `<div class="error" role="alert">` + template.HTMLEscapeString(message) + `</div>`
	return NewHTMXResponse().Status(statusCode).BodyHTML([]byte(fragment))
}

func BadRequestError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

func InternalServerError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}

// TooManyRequestsError also raises a toast, since HTMX does not swap 429
// bodies by default.
func TooManyRequestsError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusTooManyRequests, message).TriggerErrorNotification(message)
}
