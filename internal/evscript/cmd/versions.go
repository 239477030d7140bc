package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"evscript/internal/meta"
)

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "List the callee table versions in the meta directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVersions(configFromFlags(cmd).MetaDir, cmd.OutOrStdout())
	},
}

func runVersions(dir string, w io.Writer) error {
	if dir == "" {
		return fmt.Errorf("no meta directory: set --meta-dir or EVSCRIPT_META_DIR")
	}
	versions, err := meta.Store{Dir: dir}.Versions()
	if err != nil {
		return err
	}
	for _, v := range versions {
		fmt.Fprintln(w, v)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(versionsCmd)
}
