package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"prefixstorage.dev/pkg/prefixstorage/internal/domain"
	m "prefixstorage.dev/pkg/prefixstorage/internal/model"
)

const listLongDescription = `List eligible files and the storage calls that would be rewritten.
Nothing is written to disk.

` + pathPatternsHelp

var listFormatFlag string

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [paths...]",
		Short: "List storage call sites per file",
		Long:  listLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormat(viper.GetString(formatConfigKey))
			if err != nil {
				return err
			}

			shared, err := processArgs(args)
			if err != nil {
				return err
			}

			return workflow.List(cmd.Context(), domain.ListArgs{
				ProcessArgs: shared,
				Format:      format,
			})
		},
	}

	cmd.Flags().StringVarP(&listFormatFlag, formatFlagName, "f", viper.GetString(formatConfigKey), "output format: table or yaml")
	bindFlagToConfig(cmd.Flags().Lookup(formatFlagName), formatConfigKey)

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func parseFormat(value string) (m.ReportFormat, error) {
	switch m.ReportFormat(value) {
	case "", m.FormatTable:
		return m.FormatTable, nil
	case m.FormatYAML:
		return m.FormatYAML, nil
	}

	return "", fmt.Errorf("unsupported format %q (want %s or %s)", value, m.FormatTable, m.FormatYAML)
}
