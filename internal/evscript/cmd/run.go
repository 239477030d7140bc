package cmd

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"evscript/internal/disasm"
	"evscript/internal/logging"
	"evscript/internal/meta"
	"evscript/internal/script"
)

// runConfig is the flag state shared by every command that disassembles.
type runConfig struct {
	MetaDir     string
	MetaVersion string
	Hints       string
	MaxProbes   int
	Debug       bool
}

func addRunFlags(c *cobra.Command) {
	c.Flags().String("hints", "", "YAML file with extra branches and table lengths")
	c.Flags().Int("max-probes", 0, "Stop following new branches after this many (0 = unbounded)")
}

func configFromFlags(cmd *cobra.Command) runConfig {
	var cfg runConfig
	cfg.MetaDir, _ = cmd.Flags().GetString("meta-dir")
	cfg.MetaVersion, _ = cmd.Flags().GetString("meta-version")
	cfg.Hints, _ = cmd.Flags().GetString("hints")
	cfg.MaxProbes, _ = cmd.Flags().GetInt("max-probes")
	cfg.Debug, _ = cmd.Flags().GetBool("debug")
	if cfg.MetaDir == "" {
		cfg.MetaDir = os.Getenv("EVSCRIPT_META_DIR")
	}
	return cfg
}

// logger returns the core logger, raised to debug by --debug.
func (c runConfig) logger(w io.Writer) *logging.LoggerCloser {
	var lg *logging.LoggerCloser
	if w == nil {
		lg = logging.NewLogger()
	} else {
		lg = logging.NewLoggerWithWriter(w)
	}
	if c.Debug {
		lg.SetLevel(log.DebugLevel)
	}
	return lg
}

// meta loads the callee table. Without a store the table is empty and no
// call instruction decodes.
func (c runConfig) meta() (*meta.Meta, error) {
	if c.MetaDir == "" {
		return nil, nil
	}
	m, err := meta.Store{Dir: c.MetaDir}.Load(c.MetaVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to load meta: %w", err)
	}
	return m, nil
}

func (c runConfig) options(lg *log.Logger) (disasm.Options, error) {
	opts := disasm.Options{MaxProbes: c.MaxProbes, Logger: lg}
	if c.Hints == "" {
		return opts, nil
	}
	h, err := meta.LoadHints(c.Hints)
	if err != nil {
		return opts, fmt.Errorf("failed to load hints: %w", err)
	}
	opts.ExtraBranches = h.ExtraBranches
	opts.TableLengths = h.TableLengths
	return opts, nil
}

// result is one disassembled file.
type result struct {
	Path   string
	Size   int
	Digest string
	Meta   *meta.Meta
	Script *script.Script
}

// disassembleFile reads, hashes and disassembles path.
func disassembleFile(path string, cfg runConfig, lg *log.Logger) (*result, error) {
	m, err := cfg.meta()
	if err != nil {
		return nil, err
	}
	opts, err := cfg.options(lg)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}

	lg.Debug("Disassembling", "file", path, "bytes", len(data), "meta", metaVersion(m))
	s, err := disasm.New(m, opts).Disassemble(data)
	if err != nil {
		return nil, err
	}

	return &result{
		Path:   path,
		Size:   len(data),
		Digest: fmt.Sprintf("%x", sha256.Sum256(data)),
		Meta:   m,
		Script: s,
	}, nil
}

func metaVersion(m *meta.Meta) string {
	if m == nil || m.Version == "" {
		return "none"
	}
	return m.Version
}

// parseAddr accepts decimal or 0x-prefixed addresses.
func parseAddr(s string) (int, error) {
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return int(v), nil
}

// createOutput opens path for writing, or returns fallback for "" and "-".
func createOutput(path string, fallback io.Writer) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return fallback, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output: %w", err)
	}
	return f, f.Close, nil
}
