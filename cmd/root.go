// Package cmd provides the root command and CLI setup for prefixstorage.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"prefixstorage.dev/pkg/prefixstorage/internal/adapter"
	"prefixstorage.dev/pkg/prefixstorage/internal/controller"
	"prefixstorage.dev/pkg/prefixstorage/internal/domain"
	m "prefixstorage.dev/pkg/prefixstorage/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var jsFileAdapter adapter.JSFileAdapter
var workflow domain.Workflow
var ui controller.UI

// verboseFlag switches logging to debug level.
var verboseFlag bool

// logFileFlag overrides the log file location.
var logFileFlag string

var (
	prefixFlag   string
	includeFlags []string
	excludeFlags []string
	parallelFlag int
)

func init() {
	// Initialize shared dependencies.
	ui = controller.NewSimpleUI(rootCmd)
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	jsFileAdapter = adapter.NewTreeSitterAdapter()
	workflow = domain.NewWorkflow(fsAdapter, ui, jsFileAdapter)
}

const pathPatternsHelp = `Supports Go-style path patterns:
  - ./...          recursively scan current directory
  - ./src/...      recursively scan src directory
  - ./src ./lib    scan multiple directories (non-recursive)
  - ./src/app.js   a single file`

const rootLongDescription = `prefixstorage rewrites localStorage.getItem, setItem, removeItem and key
calls so that every key is namespaced with a fixed prefix, keeping modules
that share one origin from overwriting each other's entries.

` + pathPatternsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "prefixstorage",
		Short:         "Namespace localStorage keys in JavaScript and TypeScript sources",
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(logFileFlag, viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringVar(&prefixFlag, prefixFlagName, viper.GetString(prefixConfigKey), "prefix prepended to every storage key")
	bindFlagToConfig(flags.Lookup(prefixFlagName), prefixConfigKey)

	flags.StringArrayVarP(&includeFlags, includeFlagName, "i", viper.GetStringSlice(includeConfigKey), "include files matching glob (can be repeated)")
	bindFlagToConfig(flags.Lookup(includeFlagName), includeConfigKey)

	flags.StringArrayVarP(&excludeFlags, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude files matching glob (can be repeated)")
	bindFlagToConfig(flags.Lookup(excludeFlagName), excludeConfigKey)

	flags.IntVarP(&parallelFlag, parallelFlagName, "p", viper.GetInt(parallelConfigKey), "number of files processed in parallel")
	bindFlagToConfig(flags.Lookup(parallelFlagName), parallelConfigKey)

	flags.BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(flags.Lookup(verboseFlagName), logVerboseKey)

	flags.StringVar(&logFileFlag, logFlagName, "", "log file path (default from config)")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}

// processArgs collects the options every processing command shares.
func processArgs(args []string) (domain.ProcessArgs, error) {
	baseDir, err := os.Getwd()
	if err != nil {
		return domain.ProcessArgs{}, fmt.Errorf("working directory: %w", err)
	}

	return domain.ProcessArgs{
		Paths:   parsePaths(args),
		Config:  transformConfig(baseDir),
		Threads: viper.GetInt(parallelConfigKey),
	}, nil
}
