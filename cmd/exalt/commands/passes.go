package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/exalt-lang/exalt/internal/compiler"
	"github.com/exalt-lang/exalt/internal/compiler/passes"
)

var passesConfig string

var passesCmd = &cobra.Command{
	Use:   "passes",
	Short: "List the rewrite pipeline in order",
	Long: `List every pipeline pass in execution order, with its enablement
under the given config (all enabled by default).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := compiler.DefaultConfig()
		if passesConfig != "" {
			var err error
			cfg, err = compiler.LoadConfig(passesConfig)
			if err != nil {
				return err
			}
		}
		for i, p := range passes.NewPipeline(cfg.Passes, nil).Passes() {
			state := "enabled"
			if !p.Enabled {
				state = "disabled"
			}
			fmt.Printf("%2d. %-24s %s\n", i+1, p.Name, state)
		}
		return nil
	},
}

func init() {
	passesCmd.Flags().StringVarP(&passesConfig, "config", "c", "", "Path to a pass-enablement YAML config")
}
