package cmd

import (
	"github.com/spf13/cobra"

	"prefixstorage.dev/pkg/prefixstorage/internal/domain"
)

const diffLongDescription = `Print a unified diff of the rewrite for every file that would change.
Nothing is written to disk.

` + pathPatternsHelp

// diffCmd represents the diff command.
var diffCmd = newDiffCmd()

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff [paths...]",
		Short: "Show the rewrite as a unified diff",
		Long:  diffLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			shared, err := processArgs(args)
			if err != nil {
				return err
			}

			return workflow.Diff(cmd.Context(), domain.DiffArgs{ProcessArgs: shared})
		},
	}
}

func init() {
	rootCmd.AddCommand(diffCmd)
}
