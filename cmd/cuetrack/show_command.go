package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"cuetrack/internal/cue"
	"cuetrack/internal/sessionstore"
)

type cueView struct {
	ID    string     `json:"id"`
	Start float64    `json:"start_time"`
	End   string     `json:"end_time"`
	Text  string     `json:"text,omitempty"`
	Value *cue.Frame `json:"value,omitempty"`
}

type sessionView struct {
	ID        string    `json:"id"`
	TimeBase  float64   `json:"time_base"`
	Duration  string    `json:"duration"`
	State     string    `json:"ready_state"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Captions  []cueView `json:"captions,omitempty"`
	Metadata  []cueView `json:"metadata,omitempty"`
	// Counts are filled for listings only.
	CaptionCues  *int `json:"caption_cues,omitempty"`
	MetadataCues *int `json:"metadata_cues,omitempty"`
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var sessionID string
	var jsonOut bool
	var legacy bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display the cues of a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(store *sessionstore.Store, _ *slog.Logger) error {
				session, err := loadSession(cmd.Context(), store, sessionID)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, buildSessionView(session))
				}
				renderSession(cmd, session, legacy)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "Session identifier")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&legacy, "legacy", false, "Add columns read through the deprecated frame accessors")
	return cmd
}

func newSessionsCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List stored sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(store *sessionstore.Store, _ *slog.Logger) error {
				summaries, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOut {
					views := make([]sessionView, 0, len(summaries))
					for _, s := range summaries {
						views = append(views, summaryView(s))
					}
					return writeJSON(cmd, views)
				}

				out := cmd.OutOrStdout()
				if len(summaries) == 0 {
					fmt.Fprintln(out, "No sessions")
					return nil
				}
				rows := make([][]string, 0, len(summaries))
				for _, s := range summaries {
					rows = append(rows, []string{
						s.ID,
						strconv.Itoa(s.CaptionCues),
						strconv.Itoa(s.MetadataCues),
						formatSeconds(s.Duration),
						string(s.State),
						humanize.Time(s.UpdatedAt),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Session", "Captions", "Metadata", "Duration", "State", "Updated"},
					rows,
					[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignLeft, alignLeft},
					shouldColorize(out),
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func renderSession(cmd *cobra.Command, session *sessionstore.Session, legacy bool) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	fmt.Fprintf(out, "Session:   %s\n", session.ID)
	fmt.Fprintf(out, "Time base: %s\n", formatSeconds(session.TimeBase()))
	fmt.Fprintf(out, "Duration:  %s\n", formatSeconds(session.Source.Duration()))
	fmt.Fprintf(out, "State:     %s\n", session.Source.ReadyState())
	fmt.Fprintf(out, "Updated:   %s\n", humanize.Time(session.UpdatedAt))

	fmt.Fprintf(out, "\nCaptions (%d)\n", session.Captions.Len())
	if session.Captions.Len() > 0 {
		rows := make([][]string, 0, session.Captions.Len())
		for i, c := range session.Captions.Cues() {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				formatSeconds(c.StartTime),
				formatCueTime(c.EndTime),
				oneLine(c.Text),
			})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"#", "Start", "End", "Text"},
			rows,
			[]columnAlignment{alignRight, alignRight, alignRight, alignLeft},
			colorize,
		))
	}

	fmt.Fprintf(out, "\nMetadata (%d)\n", session.Metadata.Len())
	if session.Metadata.Len() == 0 {
		return
	}
	headers := []string{"#", "Start", "End", "Key", "Value"}
	aligns := []columnAlignment{alignRight, alignRight, alignRight, alignLeft, alignLeft}
	if legacy {
		headers = append(headers, "frame.id", "frame.value")
		aligns = append(aligns, alignLeft, alignLeft)
	}
	rows := make([][]string, 0, session.Metadata.Len())
	for i, c := range session.Metadata.Cues() {
		var key, value string
		if c.Value != nil {
			key, value = c.Value.Key, oneLine(c.Value.DisplayText())
		}
		row := []string{
			strconv.Itoa(i + 1),
			formatSeconds(c.StartTime),
			formatCueTime(c.EndTime),
			key,
			value,
		}
		if legacy {
			frame := c.Frame()
			row = append(row, frame.ID(), oneLine(frame.Value()))
		}
		rows = append(rows, row)
	}
	fmt.Fprintln(out, renderTable(headers, rows, aligns, colorize))
}

func buildSessionView(session *sessionstore.Session) sessionView {
	view := sessionView{
		ID:        session.ID,
		TimeBase:  session.TimeBase(),
		Duration:  formatSeconds(session.Source.Duration()),
		State:     string(session.Source.ReadyState()),
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
	for _, c := range session.Captions.Cues() {
		view.Captions = append(view.Captions, newCueView(c))
	}
	for _, c := range session.Metadata.Cues() {
		view.Metadata = append(view.Metadata, newCueView(c))
	}
	return view
}

func summaryView(s sessionstore.Summary) sessionView {
	captions, metadata := s.CaptionCues, s.MetadataCues
	return sessionView{
		ID:           s.ID,
		TimeBase:     s.TimeBase,
		Duration:     formatSeconds(s.Duration),
		State:        string(s.State),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		CaptionCues:  &captions,
		MetadataCues: &metadata,
	}
}

// newCueView renders end times as text so unbounded cues stay readable.
func newCueView(c *cue.Cue) cueView {
	return cueView{
		ID:    c.ID,
		Start: c.StartTime,
		End:   formatCueTime(c.EndTime),
		Text:  c.Text,
		Value: c.Value,
	}
}

func oneLine(s string) string {
	return strings.ReplaceAll(s, "\n", " / ")
}
