package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRulesCmd(rootFlags *RootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Print the active rule catalog as YAML",
		Long: `Print the production rules in effect: the built-in catalog, or the
catalog loaded with --rules. The output is a valid --rules file and is
the starting point for a custom catalog.`,
		Example: `  # Export the built-in rules
  cupv rules > rules.yaml

  # Check a custom catalog loads
  cupv rules --rules rules.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := rootFlags.Validator().Catalog().Definition().Marshal()
			if err != nil {
				return fmt.Errorf("failed to encode rules: %w", err)
			}
			if rootFlags.Output != "" {
				return (&ReportOptions{OutputPath: rootFlags.Output}).write(string(data))
			}
			return WriteOutput(cmd.OutOrStdout(), string(data))
		},
	}
}
