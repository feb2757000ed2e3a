package cmd

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/drillbook/internal/llm"
	"github.com/abhisek/drillbook/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect logged LLM requests",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		// Filter after loading so the limit applies to matching rows.
		events, err := st.Events().LLMRequests(cmd.Context(), 0)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		out := cmd.OutOrStdout()
		var shown []store.LLMRequest
		for _, e := range events {
			if purpose != "" && e.Purpose != purpose {
				continue
			}
			if limit > 0 && len(shown) == limit {
				break
			}
			shown = append(shown, e)
		}
		if len(shown) == 0 {
			fmt.Fprintln(out, "No LLM requests found.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-19s  %-10s  %-28s  %-6s  %-6s  %-7s  %s\n",
			"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
		fmt.Fprintln(out, strings.Repeat("─", 96))

		for _, e := range shown {
			ok := "✓"
			if !e.Success {
				ok = "✗"
			}
			fmt.Fprintf(out, "%-5d  %-19s  %-10s  %-28s  %-6d  %-6d  %-7d  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Purpose,
				truncate(e.Model, 28),
				e.InputTokens,
				e.OutputTokens,
				e.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View the full request and response of an LLM call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		e, err := st.Events().LLMRequest(cmd.Context(), id)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ID:        %d\n", e.ID)
		fmt.Fprintf(out, "Time:      %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Provider:  %s\n", e.Provider)
		fmt.Fprintf(out, "Model:     %s\n", e.Model)
		fmt.Fprintf(out, "Purpose:   %s\n", e.Purpose)
		fmt.Fprintf(out, "Tokens:    %d in / %d out\n", e.InputTokens, e.OutputTokens)
		fmt.Fprintf(out, "Latency:   %dms\n", e.LatencyMs)
		fmt.Fprintf(out, "Success:   %v\n", e.Success)
		if e.ErrorMessage != "" {
			fmt.Fprintf(out, "Error:     %s\n", e.ErrorMessage)
		}

		fmt.Fprintln(out)
		section(out, "REQUEST", e.RequestBody)
		section(out, "RESPONSE", e.ResponseBody)
		return nil
	},
}

type modelUsage struct {
	model string
	calls int
	usage llm.Usage
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage and estimated cost per model",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		events, err := st.Events().LLMRequests(cmd.Context(), 0)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No LLM usage recorded yet.")
			return nil
		}

		byModel := map[string]*modelUsage{}
		for _, e := range events {
			mu, ok := byModel[e.Model]
			if !ok {
				mu = &modelUsage{model: e.Model}
				byModel[e.Model] = mu
			}
			mu.calls++
			mu.usage.InputTokens += e.InputTokens
			mu.usage.OutputTokens += e.OutputTokens
		}
		rows := make([]*modelUsage, 0, len(byModel))
		for _, mu := range byModel {
			rows = append(rows, mu)
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].model < rows[j].model })

		fmt.Fprintln(out, "Estimated Cost (USD)")
		fmt.Fprintln(out, strings.Repeat("─", 76))
		fmt.Fprintf(out, "%-32s  %6s  %10s  %10s  %10s\n",
			"Model", "Calls", "Input", "Output", "Cost")
		fmt.Fprintln(out, strings.Repeat("─", 76))

		var (
			totalCost     float64
			totalCalls    int
			total         llm.Usage
			unknownModels []string
		)
		for _, mu := range rows {
			totalCalls += mu.calls
			total.InputTokens += mu.usage.InputTokens
			total.OutputTokens += mu.usage.OutputTokens

			cost := "?"
			if price, ok := llm.LookupPrice(mu.model); ok {
				c := price.Cost(mu.usage)
				totalCost += c
				cost = formatCost(c)
			} else {
				unknownModels = append(unknownModels, mu.model)
			}
			fmt.Fprintf(out, "%-32s  %6d  %10d  %10d  %10s\n",
				truncate(mu.model, 32), mu.calls, mu.usage.InputTokens, mu.usage.OutputTokens, cost)
		}

		fmt.Fprintln(out, strings.Repeat("─", 76))
		label := "TOTAL"
		if len(unknownModels) > 0 {
			label = "TOTAL (partial)"
		}
		fmt.Fprintf(out, "%-32s  %6d  %10d  %10d  %10s\n",
			label, totalCalls, total.InputTokens, total.OutputTokens, formatCost(totalCost))

		if len(unknownModels) > 0 {
			fmt.Fprintf(out, "\nPricing unavailable for: %s\n", strings.Join(unknownModels, ", "))
		}
		return nil
	},
}

func section(w io.Writer, title, body string) {
	sep := strings.Repeat("─", 60)
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, sep)
	if body == "" {
		body = "(not captured)"
	}
	fmt.Fprintln(w, body)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. explain)")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
