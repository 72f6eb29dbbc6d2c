package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"cuetrack/internal/ingest"
	"cuetrack/internal/logging"
	"cuetrack/internal/sessionstore"
	"cuetrack/internal/timeline"
)

func newAppendCommand(ctx *commandContext) *cobra.Command {
	var sessionID string
	var batchPath string
	var srtPath string
	var timeBase float64

	cmd := &cobra.Command{
		Use:   "append",
		Short: "Append captions and timed metadata to a session",
		Long: "Append one batch of extracted captions and timed metadata to a session,\n" +
			"creating the session when it does not exist yet.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(batchPath) == "" && strings.TrimSpace(srtPath) == "" {
				return errors.New("nothing to append: pass --batch and/or --srt")
			}
			timeBaseSet := cmd.Flags().Changed("time-base")
			if timeBaseSet && !isFinite(timeBase) {
				return fmt.Errorf("invalid --time-base %v: must be finite", timeBase)
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var batch ingest.Batch
			if batchPath != "" {
				if batch, err = ingest.LoadBatch(batchPath, cfg.Ingest.MaxBatchBytes); err != nil {
					return err
				}
			}
			if srtPath != "" {
				captions, err := ingest.ReadSRT(srtPath, cfg.Ingest.MaxBatchBytes)
				if err != nil {
					return err
				}
				batch.Captions = append(batch.Captions, captions...)
			}

			return ctx.withStore(cmd, func(store *sessionstore.Store, logger *slog.Logger) error {
				session, created, err := loadOrCreateSession(cmd, store, sessionID, cfg.Timeline.DefaultTimeBase)
				if err != nil {
					return err
				}
				sctx, logger := sessionScope(cmd.Context(), logger, session.ID)
				switch {
				case timeBaseSet:
					session.SetTimeBase(timeBase)
				case batch.TimeBase != nil:
					session.SetTimeBase(*batch.TimeBase)
				}

				if batch.Empty() {
					logger.Warn("batch carries no cues", logging.Alert("empty_batch"))
				}
				session.Append(batch.Captions, batch.Metadata)
				if err := saveSession(sctx, store, session, logger); err != nil {
					return err
				}

				logger.Info("batch appended",
					logging.Int("captions", len(batch.Captions)),
					logging.Int("metadata", len(batch.Metadata)),
					logging.Bool("created", created),
				)
				out := cmd.OutOrStdout()
				if created {
					fmt.Fprintf(out, "Created session %s\n", session.ID)
				}
				fmt.Fprintf(out, "Appended %d caption(s) and %d metadata entr%s to %s\n",
					len(batch.Captions), len(batch.Metadata), plural(len(batch.Metadata), "y", "ies"), session.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "Session identifier (generated when empty)")
	cmd.Flags().StringVar(&batchPath, "batch", "", "JSON or YAML batch file")
	cmd.Flags().StringVar(&srtPath, "srt", "", "SRT caption file")
	cmd.Flags().Float64Var(&timeBase, "time-base", 0, "Timestamp offset in seconds applied to this and later appends")
	return cmd
}

func newDurationCommand(ctx *commandContext) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "duration VALUE",
		Short: "Set the media duration of a session (seconds, nan, or inf)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			duration, err := parseSeconds(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(cmd, func(store *sessionstore.Store, logger *slog.Logger) error {
				session, err := loadSession(cmd.Context(), store, sessionID)
				if err != nil {
					return err
				}
				sctx, logger := sessionScope(cmd.Context(), logger, session.ID)
				if err := session.Source.SetDuration(duration); err != nil {
					return err
				}
				if err := saveSession(sctx, store, session, logger); err != nil {
					return err
				}
				logger.Info("duration set", logging.Float64("duration", duration))
				fmt.Fprintf(cmd.OutOrStdout(), "Duration of %s set to %s\n", session.ID, formatSeconds(duration))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "Session identifier")
	return cmd
}

func newEndCommand(ctx *commandContext) *cobra.Command {
	var sessionID string
	var durationFlag string

	cmd := &cobra.Command{
		Use:   "end",
		Short: "Signal end of stream for a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				duration    float64
				setDuration bool
			)
			if cmd.Flags().Changed("duration") {
				value, err := parseSeconds(durationFlag)
				if err != nil {
					return err
				}
				duration, setDuration = value, true
			}

			return ctx.withStore(cmd, func(store *sessionstore.Store, logger *slog.Logger) error {
				session, err := loadSession(cmd.Context(), store, sessionID)
				if err != nil {
					return err
				}
				sctx, logger := sessionScope(cmd.Context(), logger, session.ID)
				if setDuration {
					if err := session.Source.SetDuration(duration); err != nil {
						return err
					}
				}
				session.Source.EndOfStream()
				if err := saveSession(sctx, store, session, logger); err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Stream ended for %s (duration %s)\n", session.ID, formatSeconds(session.Source.Duration()))
				if last := session.Metadata.Last(); last != nil {
					fmt.Fprintf(out, "Final metadata cue ends at %s\n", formatCueTime(last.EndTime))
					logger.Info("stream ended",
						logging.String(logging.FieldTrack, "metadata"),
						logging.Float64("terminal_end", last.EndTime),
					)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "Session identifier")
	cmd.Flags().StringVar(&durationFlag, "duration", "", "Media duration to set before ending (seconds, nan, or inf)")
	return cmd
}

func newResetCommand(ctx *commandContext) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete a session and its cues",
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(sessionID)
			if id == "" {
				return errors.New("--session is required")
			}
			return ctx.withStore(cmd, func(store *sessionstore.Store, _ *slog.Logger) error {
				if err := store.Delete(cmd.Context(), id); err != nil {
					if errors.Is(err, sessionstore.ErrNotFound) {
						return fmt.Errorf("session %s not found", id)
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed session %s\n", id)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "Session identifier")
	return cmd
}

func loadOrCreateSession(cmd *cobra.Command, store *sessionstore.Store, id string, timeBase float64) (*sessionstore.Session, bool, error) {
	id = strings.TrimSpace(id)
	if id != "" {
		session, err := store.Load(cmd.Context(), id)
		if err == nil {
			return session, false, nil
		}
		if !errors.Is(err, sessionstore.ErrNotFound) {
			return nil, false, err
		}
	}
	session, err := store.Create(cmd.Context(), id, timeBase)
	if err != nil {
		return nil, false, err
	}
	return session, true, nil
}

// parseSeconds accepts a decimal number of seconds, "nan", or "inf".
func parseSeconds(value string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: expected seconds, nan, or inf", value)
	}
	return v, nil
}

func formatSeconds(v float64) string {
	switch {
	case math.IsNaN(v), math.IsInf(v, -1):
		return "unknown"
	case math.IsInf(v, 1):
		return "live"
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}

func formatCueTime(v float64) string {
	if v == timeline.Unbounded {
		return "unbounded"
	}
	return formatSeconds(v)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
