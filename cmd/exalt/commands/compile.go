package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/exalt-lang/exalt/exerr"
	"github.com/exalt-lang/exalt/internal/compiler"
)

var (
	compileInput  string
	compileOutput string
	compileConfig string
)

var compileCmd = &cobra.Command{
	Use:   "compile [tree.json...]",
	Short: "Compile serialized typed trees to Elixir source",
	Long: `Compile serialized typed expression trees to Elixir source.

Examples:
  exalt compile tree.json                  # Output to stdout
  exalt compile a.json b.json              # Several units, all errors reported
  exalt compile -i tree.json -o out.ex     # Output to file
  exalt compile tree.json -c exalt.yaml    # With pass-enablement config
  exalt tree.json                          # Shorthand (same as compile)`,
	Args: cobra.ArbitraryArgs,
	Run:  runCompile,
}

func init() {
	compileCmd.Flags().StringVarP(&compileInput, "input", "i", "", "Path to the serialized typed tree")
	compileCmd.Flags().StringVarP(&compileOutput, "output", "o", "", "Path to the output .ex file")
	compileCmd.Flags().StringVarP(&compileConfig, "config", "c", "", "Path to a pass-enablement YAML config")
}

func runCompile(cmd *cobra.Command, args []string) {
	inputs := args
	if compileInput != "" {
		inputs = append([]string{compileInput}, args...)
	}
	if len(inputs) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		fmt.Fprintln(os.Stderr, "Usage: exalt compile [tree.json...] or exalt -i tree.json")
		os.Exit(1)
	}
	if compileOutput != "" && len(inputs) > 1 {
		fmt.Fprintln(os.Stderr, "Error: -o accepts a single input file")
		os.Exit(1)
	}

	cfg := compiler.DefaultConfig()
	if compileConfig != "" {
		var err error
		cfg, err = compiler.LoadConfig(compileConfig)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	sources, err := compileFiles(inputs, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: compilation failed: %v\n", err)
		os.Exit(1)
	}

	if compileOutput == "" {
		for _, source := range sources {
			fmt.Print(source)
		}
		return
	}
	if err := os.WriteFile(compileOutput, []byte(sources[0]), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to write output file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generated Elixir code saved to %s\n", compileOutput)
}

// compileFiles compiles every unit independently so one bad unit does
// not hide errors in the others. Each unit gets its own compiler and
// with it a fresh name minter.
func compileFiles(paths []string, cfg *compiler.Config) ([]string, error) {
	var errs []error
	sources := make([]string, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		source, err := compiler.New(cfg).Compile(content)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		sources = append(sources, source)
	}
	if len(errs) > 0 {
		return nil, exerr.NewMultiError(errs...)
	}
	return sources, nil
}
