package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/session-dashboard/internal"
	"github.com/spf13/cobra"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that the session store is configured and reachable",
	Long: `Check the health of session-dashboard by verifying:
  • Configuration loading
  • Backend settings (URL and key, or SQLite path)
  • Session list access
  • Transcript access for the newest visible session

This command is useful for debugging deployments and CI environments.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHealthcheck(cmd.OutOrStdout())
	},
}

func runHealthcheck(out io.Writer) error {
	_, _ = fmt.Fprintln(out, sectionStyle.Render("🔍 Session Dashboard Health Check"))
	_, _ = fmt.Fprintln(out)

	_, _ = fmt.Fprintln(out, infoStyle.Render("Step 1: Loading configuration..."))
	cfg, err := loadConfig()
	if err != nil {
		_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Failed to load configuration:"), err)
		return err
	}
	_, _ = fmt.Fprintln(out, successStyle.Render("✅ Configuration loaded"))
	_, _ = fmt.Fprintf(out, "   Backend: %s\n", cfg.Store.Backend)
	_, _ = fmt.Fprintf(out, "   Table: %s\n", cfg.Store.Table)
	_, _ = fmt.Fprintln(out)

	_, _ = fmt.Fprintln(out, infoStyle.Render("Step 2: Validating backend settings..."))
	if err := cfg.Validate(); err != nil {
		_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Invalid configuration:"), err)
		return err
	}
	switch cfg.Store.Backend {
	case internal.BackendSQLite:
		_, _ = fmt.Fprintf(out, "   Database: %s\n", cfg.Store.Path)
	default:
		_, _ = fmt.Fprintf(out, "   URL: %s\n", cfg.Store.URL)
	}
	_, _ = fmt.Fprintln(out, successStyle.Render("✅ Backend settings valid"))
	_, _ = fmt.Fprintln(out)

	store, closeStore, err := internal.OpenStore(cfg, nil)
	if err != nil {
		_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Failed to open store:"), err)
		return err
	}
	defer func() { _ = closeStore() }()

	ctx, cancel := commandContext(cfg)
	defer cancel()

	_, _ = fmt.Fprintln(out, infoStyle.Render("Step 3: Listing sessions..."))
	sessions, err := store.ListSessions(ctx)
	if err != nil {
		_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Failed to list sessions:"), err)
		return err
	}
	visible := internal.Exclusions().Visible(sessions)
	internal.SortNewestFirst(visible)
	_, _ = fmt.Fprintf(out, "   Sessions: %d total, %d visible\n", len(sessions), len(visible))
	_, _ = fmt.Fprintln(out, successStyle.Render("✅ Session list accessible"))
	_, _ = fmt.Fprintln(out)

	_, _ = fmt.Fprintln(out, infoStyle.Render("Step 4: Loading newest transcript..."))
	if len(visible) == 0 {
		_, _ = fmt.Fprintln(out, warningStyle.Render("⚠️  No visible sessions to check"))
		return nil
	}
	newest := visible[0]
	payload, err := store.GetSessionPayload(ctx, newest.ID)
	if err != nil {
		_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Failed to load transcript:"), err)
		return err
	}
	_, _ = fmt.Fprintf(out, "   Session %s: %d message(s)\n", newest.ID, internal.CountMessages(payload))
	_, _ = fmt.Fprintln(out, successStyle.Render("✅ Transcript accessible"))
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, successStyle.Render("All checks passed"))
	return nil
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
}
