package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSetupAndRecover(t *testing.T) {
	var buf bytes.Buffer
	SetupWithWriter(&buf, false)
	if !Initialized() {
		t.Fatal("Initialized() = false after setup")
	}

	// Later calls do not replace the handler.
	var other bytes.Buffer
	SetupWithWriter(&other, true)
	slog.Info("first handler")
	if !strings.Contains(buf.String(), "first handler") || other.Len() != 0 {
		t.Fatalf("unexpected routing: %q / %q", buf.String(), other.String())
	}

	cleaned := false
	func() {
		defer RecoverPanic("worker", func() { cleaned = true })
		panic("boom")
	}()

	if !cleaned {
		t.Error("cleanup not called")
	}
	if !strings.Contains(buf.String(), "Panic in worker") {
		t.Errorf("panic not logged: %q", buf.String())
	}
}
