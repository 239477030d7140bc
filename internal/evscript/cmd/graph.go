package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"evscript/internal/graph"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the branch-flow graph of a script",
	Long: `Build the graph of every transfer the disassembler followed.
Without --from the graph is written in Graphviz DOT format. With --from the
addresses reachable from it are listed, and with --to as well the shortest
path between the two.`,
	Example: `
# Render with graphviz
evscript graph -i event.bin | dot -Tsvg > event.svg

# How does the first entrypoint reach 0x1a0?
evscript graph -i event.bin --from 0x40 --to 0x1a0
  `,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		input, _ := cmd.Flags().GetString("input")
		output, _ := cmd.Flags().GetString("output")
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		return runGraph(input, output, from, to, configFromFlags(cmd), cmd.OutOrStdout())
	},
}

func runGraph(input, output, from, to string, cfg runConfig, stdout io.Writer) error {
	lg := cfg.logger(nil)
	defer lg.Close()

	res, err := disassembleFile(input, cfg, lg.Logger)
	if err != nil {
		return err
	}
	g, err := graph.Build(res.Script)
	if err != nil {
		return fmt.Errorf("failed to build graph: %w", err)
	}

	w, closeOut, err := createOutput(output, stdout)
	if err != nil {
		return err
	}
	defer closeOut()

	if from == "" {
		if to != "" {
			return fmt.Errorf("--to requires --from")
		}
		return graph.WriteDOT(w, g)
	}

	start, err := parseAddr(from)
	if err != nil {
		return err
	}

	var addrs []int
	if to == "" {
		addrs, err = graph.Reachable(g, start)
	} else {
		var end int
		if end, err = parseAddr(to); err != nil {
			return err
		}
		addrs, err = graph.Path(g, start, end)
	}
	if err != nil {
		return fmt.Errorf("no route from %s: %w", from, err)
	}

	for _, addr := range addrs {
		if names := res.Script.Labels[addr]; len(names) > 0 {
			fmt.Fprintf(w, "%06x %s\n", addr, names[0])
		} else {
			fmt.Fprintf(w, "%06x\n", addr)
		}
	}
	return nil
}

func init() {
	graphCmd.Flags().StringP("input", "i", "", "Script image to disassemble")
	graphCmd.Flags().StringP("output", "o", "", "Destination (default stdout)")
	graphCmd.Flags().String("from", "", "Start address")
	graphCmd.Flags().String("to", "", "End address (requires --from)")
	addRunFlags(graphCmd)
	_ = graphCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(graphCmd)
}
