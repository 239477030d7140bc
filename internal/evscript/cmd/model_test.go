package cmd

import (
	"errors"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/log"
)

func loadedModel(t *testing.T) model {
	t.Helper()
	t.Setenv("EVSCRIPT_NO_COLOR", "1")
	input := writeScript(t, t.TempDir())
	lg := log.New(io.Discard)

	m := NewModel(input, runConfig{}, lg)
	if !m.loading {
		t.Fatal("new model should be loading")
	}

	msg := disassembleCmd(input, runConfig{}, lg)()
	updated, _ := m.Update(msg)
	return updated.(model)
}

func TestModelLoaded(t *testing.T) {
	m := loadedModel(t)

	if m.loading || m.err != nil {
		t.Fatalf("loading = %v, err = %v", m.loading, m.err)
	}
	if got := len(m.labelsList.Items()); got != 2 {
		t.Errorf("labels = %d, want 2", got)
	}
	if !strings.Contains(m.View(), "B: labels") {
		t.Errorf("menu should offer labels once loaded")
	}
}

func TestModelCycle(t *testing.T) {
	m := loadedModel(t)

	tests := []struct {
		from viewMode
		step int
		want viewMode
	}{
		{viewListing, 1, viewLabels},
		{viewLabels, 1, viewSummary},
		{viewSummary, 1, viewListing},
		{viewListing, -1, viewSummary},
		{viewLabels, -1, viewListing},
	}
	for _, tt := range tests {
		m.mode = tt.from
		if got := m.cycle(tt.step); got != tt.want {
			t.Errorf("cycle(%d) from %d = %d, want %d", tt.step, tt.from, got, tt.want)
		}
	}

	// Labels are skipped until a result exists.
	m.result = nil
	m.mode = viewListing
	if got := m.cycle(1); got != viewSummary {
		t.Errorf("cycle without result = %d, want summary", got)
	}
}

func TestModelError(t *testing.T) {
	m := NewModel("missing.bin", runConfig{}, log.New(io.Discard))
	updated, _ := m.Update(disassembledMsg{err: errors.New("boom")})
	m = updated.(model)

	if m.result != nil || m.err == nil {
		t.Fatal("error should be kept without a result")
	}
	if !strings.Contains(m.View(), "S: summary") {
		t.Errorf("menu should not offer labels after a failure")
	}
}

func TestModelResize(t *testing.T) {
	m := loadedModel(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = updated.(model)

	if m.width != 100 || m.height != 30 {
		t.Errorf("size = %dx%d", m.width, m.height)
	}
	if got := m.listing.Height(); got != 28 {
		t.Errorf("listing height = %d, want 28", got)
	}
}

func TestGotoLabel(t *testing.T) {
	m := loadedModel(t)
	m.listing.SetHeight(2)

	m.gotoLabel("ENTRYPOINT_0")
	if m.listing.AtTop() {
		t.Errorf("listing did not scroll to the label")
	}
}
