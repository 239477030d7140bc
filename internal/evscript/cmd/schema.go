package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"evscript/internal/meta"
)

var schemaCmd = &cobra.Command{
	Use:    "schema",
	Short:  "Generate JSON schema for meta and hints files",
	Long:   "Generate JSON schema for the callee table and per-script hints file formats",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		bts, err := meta.Schema()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(bts))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
