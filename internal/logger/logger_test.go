package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func capture(t *testing.T, verboseOn bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verboseOn)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)
	if IsVerbose() {
		t.Error("expected verbose to be false")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}
}

func TestLevels_WhenVerbose(t *testing.T) {
	tests := []struct {
		name string
		log  func(string, ...any)
		want string
	}{
		{"debug", Debug, "[DEBUG] total 48\n"},
		{"info", Info, "[INFO] total 48\n"},
		{"warn", Warn, "[WARN] total 48\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t, true)
			tt.log("total %d", 48)
			if got := buf.String(); got != tt.want {
				t.Errorf("unexpected output: %q", got)
			}
		})
	}
}

func TestLevels_WhenNotVerbose(t *testing.T) {
	buf := capture(t, false)

	Debug("debug")
	Info("info")
	Warn("warn")
	Section("section")
	Timed("timed")()

	if buf.Len() > 0 {
		t.Errorf("expected no output when verbose is disabled, got %q", buf.String())
	}
}

func TestSection(t *testing.T) {
	buf := capture(t, true)

	Section("Search")

	if got := buf.String(); got != "\n=== Search ===\n" {
		t.Errorf("unexpected output: %q", got)
	}
}

func TestTimed(t *testing.T) {
	buf := capture(t, true)

	done := Timed("search")
	done()

	got := buf.String()
	if !strings.HasPrefix(got, "[DEBUG] search took ") {
		t.Errorf("unexpected output: %q", got)
	}
}
