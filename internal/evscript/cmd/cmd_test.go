package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"evscript/internal/bytecode"
	"evscript/internal/disasm"
)

// writeScript assembles a script whose single entrypoint jumps from 0x40 to
// a return at 0x80.
func writeScript(t *testing.T, dir string) string {
	t.Helper()
	var p bytecode.Program
	p.Put(0, 0x40)
	p.Put(0x40, bytecode.Instr(0x40, 0, bytecode.Inline(bytecode.Inline1, 0x10))...)
	p.Put(0x80, bytecode.Instr(0x49, 0)...)
	return writeFile(t, dir, "event.bin", p.Bytes())
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunDisasm(t *testing.T) {
	dir := t.TempDir()
	input := writeScript(t, dir)

	t.Run("to file", func(t *testing.T) {
		output := filepath.Join(dir, "event.txt")
		if err := runDisasm(input, output, true, runConfig{}, nil); err != nil {
			t.Fatalf("runDisasm() error = %v", err)
		}
		got, err := os.ReadFile(output)
		if err != nil {
			t.Fatal(err)
		}
		for _, want := range []string{"000000 entrypoint :ENTRYPOINT_0", "ENTRYPOINT_0:", "000040 jmp inl[:", "000080 return"} {
			if !strings.Contains(string(got), want) {
				t.Errorf("listing missing %q:\n%s", want, got)
			}
		}
	})

	t.Run("to stdout", func(t *testing.T) {
		var out bytes.Buffer
		if err := runDisasm(input, "-", false, runConfig{}, &out); err != nil {
			t.Fatalf("runDisasm() error = %v", err)
		}
		if !strings.Contains(out.String(), "000080 return") {
			t.Errorf("unexpected listing:\n%s", out.String())
		}
	})

	t.Run("missing input", func(t *testing.T) {
		err := runDisasm(filepath.Join(dir, "nonexistent.bin"), "", false, runConfig{}, &bytes.Buffer{})
		if err == nil {
			t.Error("expected error for missing input")
		}
	})
}

func TestRunDisasmStrict(t *testing.T) {
	dir := t.TempDir()

	var p bytecode.Program
	p.Put(0, 0x40)
	p.Put(0x40, bytecode.Instr(0x40, 0, bytecode.Inline(bytecode.Inline1, 0x10))...)
	input := writeFile(t, dir, "short.bin", p.Bytes())
	output := filepath.Join(dir, "short.txt")

	if err := runDisasm(input, output, false, runConfig{}, nil); err != nil {
		t.Fatalf("lenient run failed: %v", err)
	}

	err := runDisasm(input, output, true, runConfig{}, nil)
	if !errors.Is(err, disasm.ErrStrict) {
		t.Fatalf("strict run error = %v, want ErrStrict", err)
	}
	got, _ := os.ReadFile(output)
	if !strings.Contains(string(got), "was inl[0x80]") {
		t.Errorf("listing not written before strict failure:\n%s", got)
	}
}

func TestRunDisasmWithMeta(t *testing.T) {
	dir := t.TempDir()
	metaDir := filepath.Join(dir, "meta")
	if err := os.Mkdir(metaDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, metaDir, "snapshot.yaml", []byte(`
methods:
  - name: play_sound
    params:
      - name: id
        type: sound
enums:
  sound: [BEEP, BOOP]
`))

	var p bytecode.Program
	p.Put(0, 0x40)
	p.Put(0x40, bytecode.Instr(0x38, 0, bytecode.Imm(1))...)
	p.Put(0x48, bytecode.Instr(0x49, 0)...)
	input := writeFile(t, dir, "call.bin", p.Bytes())

	var out bytes.Buffer
	cfg := runConfig{MetaDir: metaDir}
	if err := runDisasm(input, "", true, cfg, &out); err != nil {
		t.Fatalf("runDisasm() error = %v", err)
	}
	if !strings.Contains(out.String(), "call play_sound, BOOP") {
		t.Errorf("call not named:\n%s", out.String())
	}

	cfg.MetaVersion = "9.9.9"
	if err := runDisasm(input, "", false, cfg, &out); err == nil {
		t.Error("expected error for unknown meta version")
	}
}

func TestRunDisasmHints(t *testing.T) {
	dir := t.TempDir()
	input := writeScript(t, dir)
	hints := writeFile(t, dir, "event.yaml", []byte("extra_branches: [0x60]\n"))

	var out bytes.Buffer
	if err := runDisasm(input, "", false, runConfig{Hints: hints}, &out); err != nil {
		t.Fatalf("runDisasm() error = %v", err)
	}
	// The zero word at 0x60 decodes as yield once probed.
	if !strings.Contains(out.String(), "000060 yield") {
		t.Errorf("extra branch not probed:\n%s", out.String())
	}

	bad := writeFile(t, dir, "bad.yaml", []byte("extra_branches: {"))
	if err := runDisasm(input, "", false, runConfig{Hints: bad}, &out); err == nil {
		t.Error("expected error for malformed hints")
	}
}

func TestRunGraph(t *testing.T) {
	dir := t.TempDir()
	input := writeScript(t, dir)

	tests := []struct {
		name     string
		from, to string
		want     []string
		wantErr  bool
	}{
		{name: "dot", want: []string{"digraph", "jump"}},
		{name: "reachable", from: "0x40", want: []string{"000040 ENTRYPOINT_0\n", "000080"}},
		{name: "path", from: "0x40", to: "128", want: []string{"000040 ENTRYPOINT_0\n000080"}},
		{name: "to without from", to: "0x80", wantErr: true},
		{name: "bad address", from: "forty", wantErr: true},
		{name: "unknown vertex", from: "0x44", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := runGraph(input, "", tt.from, tt.to, runConfig{}, &out)
			if (err != nil) != tt.wantErr {
				t.Fatalf("runGraph() error = %v, wantErr %v", err, tt.wantErr)
			}
			for _, want := range tt.want {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out.String())
				}
			}
		})
	}
}

func TestRunVersions(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"1.2.0.yaml", "snapshot.yaml", "1.10.0.json", "notes.txt"} {
		writeFile(t, dir, name, []byte("methods: []\n"))
	}

	var out bytes.Buffer
	if err := runVersions(dir, &out); err != nil {
		t.Fatalf("runVersions() error = %v", err)
	}
	if got, want := out.String(), "snapshot\n1.10.0\n1.2.0\n"; got != want {
		t.Errorf("runVersions() = %q, want %q", got, want)
	}

	if err := runVersions("", &out); err == nil {
		t.Error("expected error without a meta directory")
	}
}

func TestRunNoTUI(t *testing.T) {
	t.Setenv("EVSCRIPT_NO_COLOR", "1")
	dir := t.TempDir()
	input := writeScript(t, dir)

	var out bytes.Buffer
	if err := runNoTUI(input, runConfig{}, &out); err != nil {
		t.Fatalf("runNoTUI() error = %v", err)
	}
	lines := strings.Split(out.String(), "\n")
	if lines[0] != "; "+input {
		t.Errorf("first line = %q", lines[0])
	}
	if !strings.Contains(out.String(), "\n000080 return\n") {
		t.Errorf("plain listing expected:\n%s", out.String())
	}
}

func TestParseAddr(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"0x40", 0x40, false},
		{"64", 64, false},
		{"0X1a0", 0x1a0, false},
		{"", 0, true},
		{"zz", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseAddr(tt.in)
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Errorf("parseAddr(%q) = %d, %v", tt.in, got, err)
			}
		})
	}
}
