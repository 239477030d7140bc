package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"evscript/internal/disasm"
	"evscript/internal/render"
	"evscript/internal/ui/colorize"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm",
	Short: "Write the listing of a script",
	Long: `Disassemble a script image and write its listing.
Warnings are logged; with --strict any warning fails the command after the
listing has been written.`,
	Example: `
# Disassemble to a file
evscript disasm -i event.bin -o event.txt

# Use a specific callee table and a hints file
evscript disasm --meta-dir meta --meta-version 1.2.0 --hints event.yaml -i event.bin
  `,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		input, _ := cmd.Flags().GetString("input")
		output, _ := cmd.Flags().GetString("output")
		strict, _ := cmd.Flags().GetBool("strict")
		return runDisasm(input, output, strict, configFromFlags(cmd), cmd.OutOrStdout())
	},
}

func runDisasm(input, output string, strict bool, cfg runConfig, stdout io.Writer) error {
	lg := cfg.logger(nil)
	defer lg.Close()

	res, err := disassembleFile(input, cfg, lg.Logger)
	if err != nil {
		return err
	}

	w, closeOut, err := createOutput(output, stdout)
	if err != nil {
		return err
	}
	lines := render.Listing(res.Script, res.Meta)
	if _, err := io.WriteString(w, render.Text(lines)); err != nil {
		closeOut()
		return fmt.Errorf("failed to write listing: %w", err)
	}
	if err := closeOut(); err != nil {
		return err
	}
	lg.Info("Wrote listing", "lines", len(lines), "warnings", len(res.Script.Warnings))

	if strict {
		return disasm.Strict(res.Script)
	}
	return nil
}

func init() {
	disasmCmd.Flags().StringP("input", "i", "", "Script image to disassemble")
	disasmCmd.Flags().StringP("output", "o", "", "Listing destination (default stdout)")
	disasmCmd.Flags().Bool("strict", false, "Fail when the run produced warnings")
	addRunFlags(disasmCmd)
	_ = disasmCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(disasmCmd)
}

// runNoTUI prints the listing with a short comment header.
func runNoTUI(path string, cfg runConfig, w io.Writer) error {
	lg := cfg.logger(nil)
	defer lg.Close()

	res, err := disassembleFile(path, cfg, lg.Logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "; %s\n; %s\n", res.Path, res.Digest)
	for _, warn := range res.Script.Warnings {
		fmt.Fprintf(w, "; warning %s\n", warn)
	}
	fmt.Fprintln(w)

	text := render.Text(render.Listing(res.Script, res.Meta))
	if colored, err := colorize.Listing(text); err == nil {
		text = colored
	} else {
		fmt.Fprintf(os.Stderr, "colorize: %v\n", err)
	}
	_, err = io.WriteString(w, text)
	return err
}
