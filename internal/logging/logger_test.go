package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewLoggerWithWriter(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		prefix    string
		format    string
		wantDebug bool
		wantInfo  bool
		wantText  string
	}{
		{name: "default", wantInfo: true, wantText: "evscript"},
		{name: "debug", level: "debug", wantDebug: true, wantInfo: true, wantText: "evscript"},
		{name: "warn", level: "warn"},
		{name: "bogus level", level: "loud", wantInfo: true, wantText: "evscript"},
		{name: "custom prefix", prefix: "probe ", wantInfo: true, wantText: "probe"},
		{name: "json", format: "json", wantInfo: true, wantText: `"msg":"info line"`},
		{name: "logfmt", format: "logfmt", wantInfo: true, wantText: "msg=\"info line\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("EVSCRIPT_LOG_LEVEL", tt.level)
			t.Setenv("EVSCRIPT_LOG_PREFIX", tt.prefix)
			t.Setenv("EVSCRIPT_LOG_FORMAT", tt.format)

			var buf bytes.Buffer
			lg := NewLoggerWithWriter(&buf)
			defer lg.Close()

			lg.Debug("debug line")
			lg.Info("info line")

			out := buf.String()
			if got := strings.Contains(out, "debug line"); got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v\n%s", got, tt.wantDebug, out)
			}
			if got := strings.Contains(out, "info line"); got != tt.wantInfo {
				t.Errorf("info logged = %v, want %v\n%s", got, tt.wantInfo, out)
			}
			if tt.wantText != "" && !strings.Contains(out, tt.wantText) {
				t.Errorf("missing %q in %q", tt.wantText, out)
			}
		})
	}
}

func TestLogFile(t *testing.T) {
	now := time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)
	tests := []struct {
		setting string
		want    string
	}{
		{"", ""},
		{"0", ""},
		{"1", "evscript-20261019-083000-debug.log"},
		{"/tmp/run.log", "/tmp/run.log"},
	}
	for _, tt := range tests {
		if got := logFile(tt.setting, now); got != tt.want {
			t.Errorf("logFile(%q) = %q, want %q", tt.setting, got, tt.want)
		}
	}
}

func TestNewLoggerToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	t.Setenv("EVSCRIPT_LOG_TO_FILE", path)
	t.Setenv("EVSCRIPT_LOG_LEVEL", "")
	t.Setenv("EVSCRIPT_LOG_FORMAT", "")

	lg := NewLogger()
	lg.Info("to file")
	if err := lg.Close(); err != nil {
		t.Fatal(err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "to file") {
		t.Errorf("log file content = %q", b)
	}
}

func TestIsDebug(t *testing.T) {
	t.Setenv("EVSCRIPT_LOG_LEVEL", "debug")
	if !IsDebug() {
		t.Error("IsDebug() = false with debug level")
	}
	t.Setenv("EVSCRIPT_LOG_LEVEL", "info")
	if IsDebug() {
		t.Error("IsDebug() = true with info level")
	}
}
