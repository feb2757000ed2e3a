package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/drillbook/internal/quiz"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import questions from a CSV file",
	Long: `Import questions from a CSV file with the columns of the questions table.
Rows are inserted in a single transaction: one bad row leaves the bank
unchanged. Use "-" to read from standard input.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ctrl := newController(st, csvOptions(cmd))

		in := cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open csv: %w", err)
			}
			defer f.Close()
			in = f
		}

		n, err := ctrl.ImportFrom(cmd.Context(), in)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d questions.\n", n)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every question to a CSV file",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		opts := csvOptions(cmd)
		if out, _ := cmd.Flags().GetString("output"); out != "" {
			opts.ExportFile = out
		}
		ctrl := newController(st, opts)

		if opts.ExportFile == "-" {
			_, err := ctrl.ExportTo(cmd.Context(), cmd.OutOrStdout())
			return err
		}

		s := quiz.NewSession()
		ctrl.Enter(s, quiz.ModeExport)
		if _, err := ctrl.Export(cmd.Context(), s); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), s.Message)
		return nil
	},
}

var flagCmd = &cobra.Command{
	Use:   "flag <id>",
	Short: "Flag a question for review, or clear its flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}
		unflag, _ := cmd.Flags().GetBool("clear")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Questions().SetFlag(cmd.Context(), id, !unflag); err != nil {
			return err
		}
		if unflag {
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared flag on question %d.\n", id)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Flagged question %d.\n", id)
		}
		return nil
	},
}

func init() {
	importCmd.Flags().Bool("normalize", false, "Strip all whitespace from every cell")
	importCmd.Flags().String("encoding", "", "CSV encoding (default from config, cp932)")

	exportCmd.Flags().StringP("output", "o", "", `Output file, "-" for standard output (default from config, output.csv)`)
	exportCmd.Flags().String("encoding", "", "CSV encoding (default from config, cp932)")

	flagCmd.Flags().Bool("clear", false, "Clear the flag instead of setting it")
}
