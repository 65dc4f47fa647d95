package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestScopedLoggers(t *testing.T) {
	var buf bytes.Buffer
	base := New(&buf, false)

	WithService(base, "drive").Info("done",
		Operation("list_files"),
		Tool("list_all_files_and_folders"),
		Status(StatusSuccess))

	out := buf.String()
	for _, want := range []string{"operation=list_files", "tool=list_all_files_and_folders", "service=drive", "status=success", "msg=done"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q missing %q", out, want)
		}
	}
}

func TestNewLevel(t *testing.T) {
	tests := []struct {
		name      string
		debug     bool
		wantDebug bool
	}{
		{"info level", false, false},
		{"debug level", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			New(&buf, tt.debug).Debug("hidden unless debug")
			if got := buf.Len() > 0; got != tt.wantDebug {
				t.Errorf("debug written = %v, want %v", got, tt.wantDebug)
			}
		})
	}
}

func TestAttrs(t *testing.T) {
	tests := []struct {
		name  string
		attr  slog.Attr
		key   string
		value string
	}{
		{"operation", Operation("create_event"), KeyOperation, "create_event"},
		{"service", Service("calendar"), KeyService, "calendar"},
		{"target", Target("evt1"), KeyTarget, "evt1"},
		{"tool", Tool("delete_calendar_event"), KeyTool, "delete_calendar_event"},
		{"status", Status(StatusSuccess), KeyStatus, "success"},
		{"error", Err(errors.New("boom")), KeyError, "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.attr.Key != tt.key {
				t.Errorf("key = %q, want %q", tt.attr.Key, tt.key)
			}
			if tt.attr.Value.String() != tt.value {
				t.Errorf("value = %q, want %q", tt.attr.Value.String(), tt.value)
			}
		})
	}
}

func TestErrNil(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).Info("ok", Err(nil))
	if strings.Contains(buf.String(), KeyError) {
		t.Errorf("nil error should be omitted, got %q", buf.String())
	}
}

func TestAnonymizeEmail(t *testing.T) {
	if got := AnonymizeEmail(""); got != "" {
		t.Errorf("AnonymizeEmail(\"\") = %q, want empty", got)
	}

	a := AnonymizeEmail("a@x.com")
	if !strings.HasPrefix(a, "user:") || len(a) != len("user:")+16 {
		t.Errorf("AnonymizeEmail = %q, want user: plus 16 hex chars", a)
	}
	if strings.Contains(a, "a@x.com") {
		t.Errorf("AnonymizeEmail leaked the address: %q", a)
	}
	if b := AnonymizeEmail("A@X.COM"); b != a {
		t.Errorf("case variants hash differently: %q vs %q", a, b)
	}
	if c := AnonymizeEmail("b@x.com"); c == a {
		t.Errorf("distinct addresses share a hash: %q", c)
	}

	if attr := UserHash("a@x.com"); attr.Key != KeyUserHash || attr.Value.String() != a {
		t.Errorf("UserHash = %v", attr)
	}
}

func TestSanitizeToken(t *testing.T) {
	if got := SanitizeToken(""); got != "<empty>" {
		t.Errorf("SanitizeToken(\"\") = %q", got)
	}
	got := SanitizeToken("ya29.secret")
	if got != "[token:11 chars]" {
		t.Errorf("SanitizeToken = %q", got)
	}
}
