package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show question bank statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		stats, err := newController(st, csvOptions(cmd)).Stats(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(stats); err != nil {
				return fmt.Errorf("encode stats: %w", err)
			}
			return enc.Close()
		}

		fmt.Fprintf(out, "Questions:  %d\n", stats.Total)
		fmt.Fprintf(out, "Flagged:    %d\n", stats.Flagged)
		fmt.Fprintf(out, "Missed:     %d\n", stats.Missed)
		fmt.Fprintf(out, "Cleared:    %.0f%%\n", stats.Cleared()*100)
		return nil
	},
}

func init() {
	statsCmd.Flags().Bool("yaml", false, "Print as YAML")
}
