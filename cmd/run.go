package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/drillbook/internal/app"
	"github.com/abhisek/drillbook/internal/explain"
	"github.com/abhisek/drillbook/internal/llm"
	"github.com/abhisek/drillbook/internal/quiz"
	"github.com/abhisek/drillbook/internal/store"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	opts := quiz.Options{
		CSV:        cfg.CSVOptions(),
		ExportFile: cfg.CSV.ExportFile,
	}

	lc, _ := cfg.LLMConfig().Resolve(os.Getenv)
	provider, err := llm.New(cmd.Context(), lc, st.Events())
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
	case err != nil:
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "AI explanations will be unavailable.")
	default:
		opts.Explainer = explain.New(provider, st.Explanations(), explain.DefaultConfig())
	}

	quietLog()
	return app.Run(app.Options{Controller: newController(st, opts)})
}

func newController(st *store.Store, opts quiz.Options) *quiz.Controller {
	return quiz.NewController(st.Questions(), st.Results(), opts)
}

// csvOptions returns the configured controller options for CLI commands,
// with --encoding and --normalize applied when given.
func csvOptions(cmd *cobra.Command) quiz.Options {
	opts := quiz.Options{
		CSV:        cfg.CSVOptions(),
		ExportFile: cfg.CSV.ExportFile,
	}
	if f := cmd.Flags().Lookup("encoding"); f != nil && f.Changed {
		opts.CSV.Encoding = f.Value.String()
	}
	if f := cmd.Flags().Lookup("normalize"); f != nil && f.Changed {
		opts.CSV.Normalize, _ = cmd.Flags().GetBool("normalize")
	}
	return opts
}
