// Package commands provides the CLI commands for the exalt tool.
package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "exalt [tree.json]",
	Short: "Typed-tree to Elixir compiler back end",
	Long: `exalt lowers a fully typed expression tree into idiomatic Elixir
source: tagged tuples, immutable updates, case/cond/with and
comprehensions.

Usage:
  exalt [tree.json]                  Compile a serialized tree (shorthand)
  exalt compile -i tree.json -o out.ex
  exalt passes                       List the rewrite pipeline
  exalt version                      Print version`,
	Args:          cobra.ArbitraryArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if compileInput != "" {
			runCompile(cmd, args)
			return nil
		}
		if len(args) > 0 && strings.HasSuffix(args[0], ".json") {
			runCompile(cmd, args)
			return nil
		}
		if len(args) == 0 {
			return cmd.Help()
		}
		return fmt.Errorf("unknown command %q for \"exalt\"\nRun 'exalt --help' for usage", args[0])
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(passesCmd)
	rootCmd.AddCommand(versionCmd)

	// mirror compile flags so the shorthand form works
	rootCmd.Flags().StringVarP(&compileInput, "input", "i", "", "Path to the serialized typed tree")
	rootCmd.Flags().StringVarP(&compileOutput, "output", "o", "", "Path to the output .ex file")
	rootCmd.Flags().StringVarP(&compileConfig, "config", "c", "", "Path to a pass-enablement YAML config")
}
