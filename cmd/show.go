package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/session-dashboard/internal"
	"github.com/spf13/cobra"
)

var (
	limit int
)

var (
	// Styles for show command
	sessionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1).
				MarginBottom(1)

	sessionMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				MarginBottom(1)

	userMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 1)

	assistantMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("214")).
				Bold(true).
				Padding(0, 1)

	messageContentStyle = lipgloss.NewStyle().
				Padding(0, 2).
				MarginBottom(1)

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show messages for a specific session",
	Long:  `Display the normalized transcript of one chat session.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := internal.SessionID(args[0])

		store, closeStore, cfg, err := openStore(nil)
		if err != nil {
			return err
		}
		defer func() { _ = closeStore() }()

		ctx, cancel := commandContext(cfg)
		defer cancel()

		var transcript *internal.Transcript
		err = internal.ShowProgress(ctx, "Loading conversation...", func() error {
			var err error
			transcript, err = internal.LoadTranscript(ctx, store, id)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to load session %s: %w", id, err)
		}

		displayTranscript(cmd.OutOrStdout(), transcript, limit)
		return nil
	},
}

func displayTranscript(out io.Writer, transcript *internal.Transcript, limit int) {
	s := transcript.Session
	title := s.Title
	if title == "" {
		title = "Session " + s.ID.String()
	}
	_, _ = fmt.Fprintln(out, sessionHeaderStyle.Render("💬 "+title))

	meta := fmt.Sprintf("ID: %s", s.ID)
	if s.Topic != "" {
		meta += fmt.Sprintf(" | Topic: %s", s.Topic)
	}
	if s.CreatedAt != "" {
		meta += fmt.Sprintf(" | Created: %s", s.CreatedAt)
	}
	meta += fmt.Sprintf(" | Messages: %d", len(transcript.Messages))
	_, _ = fmt.Fprintln(out, sessionMetaStyle.Render(meta))

	if len(transcript.Messages) == 0 {
		_, _ = fmt.Fprintln(out, messageContentStyle.Render(internal.NoticeEmptyConversation))
		return
	}

	messages := transcript.Messages
	if limit > 0 && len(messages) > limit {
		messages = messages[:limit]
	}

	for _, msg := range messages {
		label := assistantMessageStyle.Render("🤖 Luci")
		if msg.IsUser {
			label = userMessageStyle.Render("👤 User")
		}
		if msg.Timestamp != "" {
			label += " " + timestampStyle.Render(msg.Timestamp)
		}
		_, _ = fmt.Fprintln(out, label)
		_, _ = fmt.Fprintln(out, messageContentStyle.Render(msg.Content))
	}

	if len(messages) < len(transcript.Messages) {
		_, _ = fmt.Fprintln(out, timestampStyle.Render(fmt.Sprintf("… %d more message(s), use --limit 0 to show all", len(transcript.Messages)-len(messages))))
	}
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most this many messages (0 for all)")
}
