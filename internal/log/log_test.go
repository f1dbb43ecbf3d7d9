package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"DEBUG", slog.LevelDebug, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNew_JSONFormatTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Component: ComponentWorker, Output: &buf})

	logger.Info("started", FieldOperation, OpStartup)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry[FieldComponent] != ComponentWorker {
		t.Errorf("component = %v, want %s", entry[FieldComponent], ComponentWorker)
	}
	if entry[FieldOperation] != OpStartup {
		t.Errorf("operation = %v, want %s", entry[FieldOperation], OpStartup)
	}
}

func TestWithComponent_ReplacesTag(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Output: &buf}).
		With(FieldUserID, "u1").
		WithComponent(ComponentAuth)

	logger.Info("signed in")

	out := buf.String()
	if n := strings.Count(out, FieldComponent+"="); n != 1 {
		t.Fatalf("component tagged %d times: %q", n, out)
	}
	if !strings.Contains(out, "component=auth") || !strings.Contains(out, "user_id=u1") {
		t.Fatalf("unexpected output %q", out)
	}
	if logger.Component() != ComponentAuth {
		t.Fatalf("Component() = %q", logger.Component())
	}
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelWarn, Output: &buf})

	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info line written at warn level: %q", buf.String())
	}
	logger.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("warn line missing: %q", buf.String())
	}
}

func TestMiddleware_InjectsRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{Level: slog.LevelInfo, Output: &buf})

	h := Middleware(base, func(*http.Request) string { return "req-42" })(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).InfoContext(r.Context(), "inside")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	out := buf.String()
	if !strings.Contains(out, "request_id=req-42") {
		t.Errorf("request id missing: %q", out)
	}
	if !strings.Contains(out, "component=http") {
		t.Errorf("http component missing: %q", out)
	}
}

func TestFromContext_Default(t *testing.T) {
	if l := FromContext(context.Background()); l.Component() != "unknown" {
		t.Errorf("Component() = %q, want unknown", l.Component())
	}
}

func TestLogError_AddsErrorType(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), New(Config{Output: &buf}))

	LogError(ctx, "Sign-in failed", errors.New("state mismatch"), ErrorTypeAuth, OpSignIn, FieldUserID, "u1")

	out := buf.String()
	for _, want := range []string{"error_type=auth_error", "operation=sign_in", `error="state mismatch"`, "user_id=u1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestLogHTTPEnd_LevelFollowsStatus(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), New(Config{Output: &buf}))
	r := httptest.NewRequest(http.MethodPost, "/expenses", nil)

	LogHTTPEnd(ctx, r, http.StatusInternalServerError, 12, "10.0.0.1")

	if !strings.Contains(buf.String(), "level=ERROR") {
		t.Errorf("want ERROR level for 500, got %q", buf.String())
	}
}
