package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iksnae/session-dashboard/internal"
	"github.com/iksnae/session-dashboard/internal/export"
	"github.com/spf13/cobra"
)

var (
	format      string
	outputDir   string
	sessionID   string
	exportQuery string
	exportFrom  string
	exportTo    string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export sessions to file",
	Long: `Export visible chat sessions to various formats (jsonl, md, yaml, json).

You can export all sessions, narrow them with --query/--from/--to, or export
a specific session by ID. Use 'session-dashboard list' to see available IDs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}
		criteria, err := parseCriteria(exportQuery, exportFrom, exportTo)
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

		sessions, err := loadVisibleSessions(ctx, store)
		if err != nil {
			return err
		}
		sessions = internal.FilterSessions(sessions, criteria)

		if sessionID != "" {
			sessions = selectSession(sessions, internal.SessionID(sessionID))
			if len(sessions) == 0 {
				return fmt.Errorf("session not found: %s (use 'session-dashboard list' to see available sessions)", sessionID)
			}
		}

		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return &internal.ExportError{Format: format, Path: outputDir, Err: err}
		}

		var written int
		err = internal.ShowProgress(ctx, fmt.Sprintf("Exporting %d session(s) to %s", len(sessions), outputDir), func() error {
			written = exportSessions(ctx, store, sessions, exporter, outputDir)
			return nil
		})
		if err != nil {
			return err
		}

		internal.PrintSuccess(fmt.Sprintf("Export complete: %d of %d session(s) exported to %s", written, len(sessions), outputDir))
		return nil
	},
}

func selectSession(sessions []internal.SessionSummary, id internal.SessionID) []internal.SessionSummary {
	for _, s := range sessions {
		if s.ID == id {
			return []internal.SessionSummary{s}
		}
	}
	return nil
}

// exportSessions writes one file per session and returns how many succeeded.
// Failures are logged and skipped.
func exportSessions(ctx context.Context, store internal.SessionStore, sessions []internal.SessionSummary, exporter export.Exporter, dir string) int {
	written := 0
	for _, s := range sessions {
		payload, err := store.GetSessionPayload(ctx, s.ID)
		if err != nil {
			internal.LogError("Failed to load session %s: %v", s.ID, err)
			continue
		}

		path := filepath.Join(dir, export.Filename(s.ID, exporter))
		if err := writeTranscript(internal.NewTranscript(s, payload), exporter, path); err != nil {
			internal.LogError("Failed to export session %s: %v", s.ID, err)
			continue
		}
		written++
	}
	return written
}

func writeTranscript(transcript *internal.Transcript, exporter export.Exporter, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}

	if err := exporter.Export(transcript, file); err != nil {
		_ = file.Close()
		return err
	}

	if err := file.Close(); err != nil {
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "jsonl", "Export format (jsonl, md, yaml, json)")
	exportCmd.Flags().StringVarP(&outputDir, "out", "o", "./exports", "Output directory")
	exportCmd.Flags().StringVar(&sessionID, "session-id", "", "Export a specific session by ID")
	exportCmd.Flags().StringVarP(&exportQuery, "query", "q", "", "Only export sessions matching id, title or topic")
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "Earliest creation day (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "Latest creation day, inclusive (YYYY-MM-DD)")
}
