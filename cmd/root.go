package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abhisek/drillbook/internal/config"
	"github.com/abhisek/drillbook/internal/store"
)

var (
	v       *viper.Viper
	cfg     *config.Config
	logFile *os.File
)

var rootCmd = &cobra.Command{
	Use:   "drillbook",
	Short: "Multiple-choice quiz drill for the terminal",
	Long: `drillbook keeps a bank of multiple-choice questions in SQLite and quizzes
you on them at random. Missed questions stay on a ledger until you answer
them correctly, and any question can be flagged for later review.`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  loadConfig,
	PersistentPostRunE: closeLog,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	v = config.New()

	flags := rootCmd.PersistentFlags()
	flags.String("db", "", "Path to SQLite database file (overrides DRILLBOOK_DB)")
	flags.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/drillbook/config.yaml)")
	flags.String("log", "", "Append log output to this file")
	_ = v.BindPFlag("db", flags.Lookup("db"))
	_ = v.BindPFlag("log", flags.Lookup("log"))

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(flagCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("config")
	c, err := config.Load(v, file)
	if err != nil {
		return err
	}
	cfg = c

	if cfg.Log == "" {
		return nil
	}
	f, err := tea.LogToFile(cfg.Log, "drillbook")
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logFile = f
	return nil
}

func closeLog(cmd *cobra.Command, args []string) error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	log.SetOutput(os.Stderr)
	return err
}

// quietLog discards log output unless a log file is configured, so that
// background logging cannot corrupt the TUI.
func quietLog() {
	if logFile == nil {
		log.SetOutput(io.Discard)
	}
}

// resolveDBPath returns the configured database path (flag, then
// DRILLBOOK_DB, then config file), falling back to the default XDG path.
func resolveDBPath() (string, error) {
	if cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

func openStore() (*store.Store, error) {
	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
