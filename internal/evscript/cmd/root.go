package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	pathpkg "path/filepath"
	"runtime/pprof"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"evscript/internal/evscript/log"
	"evscript/internal/meta"
)

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")
	rootCmd.PersistentFlags().StringP("meta-dir", "m", "", "Directory of callee tables (default $EVSCRIPT_META_DIR)")
	rootCmd.PersistentFlags().StringP("meta-version", "V", meta.Snapshot, "Callee table version")

	rootCmd.Flags().BoolP("help", "h", false, "Help")
	rootCmd.Flags().BoolP("no-tui", "n", false, "Print the listing without TUI")
	rootCmd.Flags().String("cpuprofile", "", "Write CPU profile to file")
	rootCmd.Flags().String("memprofile", "", "Write memory profile to file")
	addRunFlags(rootCmd)
}

var rootCmd = &cobra.Command{
	Use:   "evscript [file]",
	Short: "Event-script bytecode disassembler",
	Long: `evscript recovers instructions, jump tables and text from event-script
bytecode images. Given a file it opens an interactive viewer with the listing,
its labels and a summary of the run.`,
	Example: `
# Browse a script
evscript event.bin

# Print the listing with debug logging
evscript -d --no-tui event.bin
  `,
	Args: cobra.ExactArgs(1),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		log.Setup(debug)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Setup CPU profiling if requested
		cpuprofile, _ := cmd.Flags().GetString("cpuprofile")
		if cpuprofile != "" {
			f, err := os.Create(cpuprofile)
			if err != nil {
				return fmt.Errorf("could not create CPU profile: %v", err)
			}
			defer f.Close()
			if err := pprof.StartCPUProfile(f); err != nil {
				return fmt.Errorf("could not start CPU profile: %v", err)
			}
			defer pprof.StopCPUProfile()
		}

		memprofile, _ := cmd.Flags().GetString("memprofile")
		if memprofile != "" {
			defer func() {
				f, err := os.Create(memprofile)
				if err != nil {
					fmt.Fprintf(os.Stderr, "could not create memory profile: %v\n", err)
					return
				}
				defer f.Close()
				if err := pprof.WriteHeapProfile(f); err != nil {
					fmt.Fprintf(os.Stderr, "could not write memory profile: %v\n", err)
				}
			}()
		}

		absPath, err := pathpkg.Abs(args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve path: %v", err)
		}
		if _, err := os.Stat(absPath); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("file not found: %s", args[0])
			}
			return fmt.Errorf("cannot access file: %v", err)
		}

		cfg := configFromFlags(cmd)
		noTUI, _ := cmd.Flags().GetBool("no-tui")

		// Also use no-tui mode when output is being piped
		if !term.IsTerminal(os.Stdout.Fd()) {
			noTUI = true
		}
		if noTUI {
			os.Setenv("EVSCRIPT_NO_COLOR", "1")
			return runNoTUI(absPath, cfg, cmd.OutOrStdout())
		}

		// Core logging would draw over the alternate screen.
		var logOut io.Writer = io.Discard
		if os.Getenv("EVSCRIPT_LOG_TO_FILE") == "1" {
			logOut = nil
		}
		lg := cfg.logger(logOut)
		defer lg.Close()

		program := tea.NewProgram(
			NewModel(absPath, cfg, lg.Logger),
			tea.WithAltScreen(),
			tea.WithContext(cmd.Context()),
		)
		if _, err := program.Run(); err != nil {
			slog.Error("TUI run error", "error", err)
			return fmt.Errorf("TUI error: %v", err)
		}
		return nil
	},
}

func Execute() {
	// Bypass fang when printing plain output so its styling stays out of pipes
	noTUI := false
	for _, arg := range os.Args[1:] {
		if arg == "--no-tui" || arg == "-n" {
			noTUI = true
			break
		}
	}
	if !noTUI && !term.IsTerminal(os.Stdout.Fd()) {
		noTUI = true
	}

	if noTUI {
		if err := rootCmd.Execute(); err != nil {
			os.Exit(1)
		}
		return
	}

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
