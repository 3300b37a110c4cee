package cmd

import (
	"fmt"
	"os"

	"github.com/iksnae/session-dashboard/internal"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configFile string
	backend    string
	dbPath     string
	version    string = "dev"
	commit     string = "unknown"
	date       string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "session-dashboard",
	Short: "Browse stored chatbot conversations",
	Long: `A read-only dashboard for chatbot sessions kept in a Supabase table
or a local SQLite copy of it.

Sessions from internal test IPs and sessions without a transcript are
always hidden.

Quick Start:
  session-dashboard serve                      # Start the web dashboard on :8080
  session-dashboard list --query pricing       # List matching sessions
  session-dashboard show <session-id>          # Print one conversation
  session-dashboard export --format md         # Export conversations as Markdown

Configuration is read from SUPABASE_URL / SUPABASE_ANON_KEY (or the
NEXT_PUBLIC_ variants), .env.local, .env and an optional --config file.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	defer internal.SyncLogs()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		internal.SyncLogs()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "Session store backend (rest, sqlite)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to a SQLite copy of the sessions table (implies --backend sqlite)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
