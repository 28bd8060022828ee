package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"prefixstorage.dev/pkg/prefixstorage/internal/domain"
	m "prefixstorage.dev/pkg/prefixstorage/internal/model"
)

const runLongDescription = `Rewrite storage calls in the given paths (default: ./...).

Files are rewritten in place unless --output names a directory, in which case
every eligible file is written there under its path relative to the scanned
root. The command exits non-zero if any file could not be transformed; the
other files are still processed.

` + pathPatternsHelp

var runOutputFlag string

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Rewrite storage keys in place or into an output directory",
		Long:  runLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			shared, err := processArgs(args)
			if err != nil {
				return err
			}

			return workflow.Run(cmd.Context(), domain.RunArgs{
				ProcessArgs: shared,
				Output:      m.Path(viper.GetString(outputConfigKey)),
			})
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&runOutputFlag, outputFlagName, "o", viper.GetString(outputConfigKey), "write results under this directory instead of in place")
	bindFlagToConfig(cmd.Flags().Lookup(outputFlagName), outputConfigKey)
}
