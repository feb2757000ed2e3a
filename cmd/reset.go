package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the missed-results ledger and/or review flags",
	RunE: func(cmd *cobra.Command, args []string) error {
		results, _ := cmd.Flags().GetBool("results")
		flags, _ := cmd.Flags().GetBool("flags")
		if !results && !flags {
			return errors.New("nothing to reset: pass --results, --flags or both")
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		if results {
			n, err := st.Results().Clear(ctx)
			if err != nil {
				return fmt.Errorf("clear results: %w", err)
			}
			fmt.Fprintf(out, "Removed %d missed results.\n", n)
		}
		if flags {
			n, err := st.Questions().ClearFlags(ctx)
			if err != nil {
				return fmt.Errorf("clear flags: %w", err)
			}
			fmt.Fprintf(out, "Cleared %d flags.\n", n)
		}
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("results", false, "Empty the missed-results ledger")
	resetCmd.Flags().Bool("flags", false, "Clear every review flag")
}
