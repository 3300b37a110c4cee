package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/session-dashboard/internal"
	"github.com/spf13/cobra"
)

var (
	listQuery string
	listFrom  string
	listTo    string
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	topicStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Italic(true)
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List visible sessions",
	Long: `List chat sessions newest first. Excluded IPs and sessions without a
transcript are never shown. --query matches id, title and topic
case-insensitively; --from and --to take YYYY-MM-DD days (inclusive, UTC).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		criteria, err := parseCriteria(listQuery, listFrom, listTo)
		if err != nil {
			return err
		}

		store, closeStore, cfg, err := openStore(nil)
		if err != nil {
			return err
		}
		defer func() { _ = closeStore() }()

		ctx, cancel := commandContext(cfg)
		defer cancel()

		visible, err := loadVisibleSessions(ctx, store)
		if err != nil {
			return err
		}

		displaySessions(cmd.OutOrStdout(), internal.FilterSessions(visible, criteria), len(visible), time.Now())
		return nil
	},
}

func parseCriteria(query, from, to string) (internal.FilterCriteria, error) {
	fromDay, err := internal.ParseDay(from, time.UTC)
	if err != nil {
		return internal.FilterCriteria{}, fmt.Errorf("--from: %w", err)
	}
	toDay, err := internal.ParseDay(to, time.UTC)
	if err != nil {
		return internal.FilterCriteria{}, fmt.Errorf("--to: %w", err)
	}
	return internal.FilterCriteria{Text: strings.TrimSpace(query), DateFrom: fromDay, DateTo: toDay}, nil
}

func displaySessions(out io.Writer, sessions []internal.SessionSummary, total int, now time.Time) {
	if len(sessions) == 0 {
		_, _ = fmt.Fprintln(out, headerStyle.Render("📋 No sessions found"))
		return
	}

	header := fmt.Sprintf("📋 Showing %d of %d session(s)", len(sessions), total)
	_, _ = fmt.Fprintln(out, headerStyle.Render(header))
	_, _ = fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)

	_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Title")+"\t"+titleStyle.Render("Messages")+"\t"+titleStyle.Render("Created")+"\t"+titleStyle.Render("Topic")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 100))

	for _, s := range sessions {
		name := s.Title
		if name == "" {
			name = "Untitled"
		}
		name = truncate(name, 50)

		topic := dateStyle.Render("—")
		if s.Topic != "" {
			topic = topicStyle.Render(truncate(s.Topic, 25))
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
			idStyle.Render(s.ID.String()),
			name,
			countStyle.Render(strconv.Itoa(s.MessageCount)),
			dateStyle.Render(relativeDate(s, now)),
			topic)
	}

	_ = w.Flush()
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, idStyle.Render("💡 Tip: Use the ID (e.g., ")+
		lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Render(sessions[0].ID.String())+
		idStyle.Render(") with `session-dashboard show <id>`"))
}

// relativeDate renders recent sessions compactly and older ones as a day
func relativeDate(s internal.SessionSummary, now time.Time) string {
	t, ok := s.CreatedTime()
	if !ok {
		if s.CreatedAt == "" {
			return "—"
		}
		return s.CreatedAt
	}
	diff := now.Sub(t)
	switch {
	case diff >= 0 && diff < 24*time.Hour:
		return t.Format("Today 15:04")
	case diff >= 0 && diff < 7*24*time.Hour:
		return t.Format("Mon 15:04")
	case diff >= 0 && diff < 365*24*time.Hour:
		return t.Format("Jan 02 15:04")
	default:
		return t.Format("2006-01-02")
	}
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "Match id, title or topic (case-insensitive)")
	listCmd.Flags().StringVar(&listFrom, "from", "", "Earliest creation day (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listTo, "to", "", "Latest creation day, inclusive (YYYY-MM-DD)")
}
