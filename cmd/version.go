package cmd

import (
	"runtime/debug"

	"github.com/spf13/cobra"
)

const unknownVersion = "(devel)"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the prefixstorage version",
		Long:  "Prints the prefixstorage module version and the Go toolchain it was built with.",
		Run: func(cmd *cobra.Command, _ []string) {
			version, goVersion := buildVersions()
			cmd.Printf("prefixstorage %s (%s)\n", version, goVersion)
		},
	}
}

// buildVersions reads the module and toolchain versions from the binary.
func buildVersions() (string, string) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return unknownVersion, "unknown go"
	}

	version := info.Main.Version
	if version == "" {
		version = unknownVersion
	}

	return version, info.GoVersion
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
