package sessionstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"cuetrack/internal/config"
	"cuetrack/internal/cue"
	"cuetrack/internal/logging"
	"cuetrack/internal/mediasource"
	"cuetrack/internal/texttrack"
	"cuetrack/internal/timeline"
)

// Store manages session persistence backed by SQLite.
type Store struct {
	db           *sql.DB
	path         string
	logger       *slog.Logger
	deprecations *cue.Deprecations
}

// Option customizes a Store.
type Option func(*Store)

// WithLogger sets the logger handed to loaded sessions.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDeprecations sets the notifier bound to restored metadata cues.
func WithDeprecations(d *cue.Deprecations) Option {
	return func(s *Store) {
		s.deprecations = d
	}
}

// Open initializes or connects to the session database.
func Open(cfg *config.Config, opts ...Option) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.DatabasePath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(store)
	}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Create stores a new empty session. An empty id generates one.
func (s *Store) Create(ctx context.Context, id string, timeBase float64) (*Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		id = NewSessionID()
	}
	session := newSession(id, timeBase, mediasource.New(), s.logger, s.deprecations)
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, time_base, duration, ready_state, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		id,
		timeBase,
		formatDuration(session.Source.Duration()),
		string(session.Source.ReadyState()),
		now.Format(time.RFC3339Nano),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		if exists, _ := s.exists(ctx, id); exists {
			return nil, fmt.Errorf("%w: %s", ErrExists, id)
		}
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return session, nil
}

// Load rebuilds a session and re-arms its stream-ended fix-up.
func (s *Store) Load(ctx context.Context, id string) (*Session, error) {
	var (
		timeBase              float64
		durationRaw, stateRaw string
		createdRaw, updateRaw string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT time_base, duration, ready_state, created_at, updated_at FROM sessions WHERE id = ?`, id,
	).Scan(&timeBase, &durationRaw, &stateRaw, &createdRaw, &updateRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	duration, err := parseDuration(durationRaw)
	if err != nil {
		return nil, err
	}
	source := mediasource.Restore(duration, mediasource.ReadyState(stateRaw))
	session := newSession(id, timeBase, source, s.logger, s.deprecations)
	session.CreatedAt = parseTime(createdRaw)
	session.UpdatedAt = parseTime(updateRaw)

	if err := s.loadCues(ctx, session); err != nil {
		return nil, err
	}
	if session.Metadata.Len() > 0 {
		timeline.ArmTerminalFixup(session.Handler)
	}
	return session, nil
}

func (s *Store) loadCues(ctx context.Context, session *Session) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT track, cue_id, start_time, end_time, text, frame_json
         FROM cues WHERE session_id = ? ORDER BY track, position`, session.ID)
	if err != nil {
		return fmt.Errorf("query cues: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			track, cueID, text string
			start, end         float64
			frameJSON          sql.NullString
		)
		if err := rows.Scan(&track, &cueID, &start, &end, &text, &frameJSON); err != nil {
			return fmt.Errorf("scan cue: %w", err)
		}

		var c *cue.Cue
		if frameJSON.Valid {
			var frame cue.Frame
			if err := json.Unmarshal([]byte(frameJSON.String), &frame); err != nil {
				return fmt.Errorf("decode frame for cue %s: %w", cueID, err)
			}
			c = cue.NewMetadata(start, frame, s.deprecations)
			c.Text = text
		} else {
			c = cue.New(start, end, text)
		}
		c.ID = cueID
		c.EndTime = end

		switch texttrack.Kind(track) {
		case texttrack.KindCaptions:
			session.Captions.AddCue(c)
		case texttrack.KindMetadata:
			session.Metadata.AddCue(c)
		default:
			return fmt.Errorf("cue %s: unknown track %q", cueID, track)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate cues: %w", err)
	}
	return nil
}

// Save writes the session state and replaces its stored cues.
func (s *Store) Save(ctx context.Context, session *Session) error {
	if session == nil {
		return errors.New("save session: nil session")
	}
	now := time.Now().UTC()

	err := retryOnBusy(ctx, func() error {
		return s.save(ctx, session, now)
	})
	if err != nil {
		return err
	}
	session.UpdatedAt = now
	return nil
}

func (s *Store) save(ctx context.Context, session *Session, now time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`UPDATE sessions SET time_base = ?, duration = ?, ready_state = ?, updated_at = ? WHERE id = ?`,
		session.TimeBase(),
		formatDuration(session.Source.Duration()),
		string(session.Source.ReadyState()),
		now.Format(time.RFC3339Nano),
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, session.ID)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cues WHERE session_id = ?`, session.ID); err != nil {
		return fmt.Errorf("clear cues: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO cues (session_id, track, position, cue_id, start_time, end_time, text, frame_json)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare cue insert: %w", err)
	}
	defer stmt.Close()

	for _, track := range []*texttrack.Track{session.Captions, session.Metadata} {
		for position, c := range track.Cues() {
			frameJSON, err := encodeFrame(c)
			if err != nil {
				return err
			}
			if _, err := stmt.ExecContext(ctx,
				session.ID, string(track.Kind), position, c.ID, c.StartTime, c.EndTime, c.Text, frameJSON,
			); err != nil {
				return fmt.Errorf("insert cue: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit session: %w", err)
	}
	return nil
}

// List returns summaries of every stored session, most recently updated first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT s.id, s.time_base, s.duration, s.ready_state, s.created_at, s.updated_at,
               COALESCE(SUM(CASE WHEN c.track = 'captions' THEN 1 ELSE 0 END), 0),
               COALESCE(SUM(CASE WHEN c.track = 'metadata' THEN 1 ELSE 0 END), 0)
        FROM sessions s
        LEFT JOIN cues c ON c.session_id = s.id
        GROUP BY s.id
        ORDER BY s.updated_at DESC, s.id`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var (
			summary                Summary
			durationRaw, stateRaw  string
			createdRaw, updatedRaw string
		)
		if err := rows.Scan(&summary.ID, &summary.TimeBase, &durationRaw, &stateRaw, &createdRaw, &updatedRaw,
			&summary.CaptionCues, &summary.MetadataCues); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if summary.Duration, err = parseDuration(durationRaw); err != nil {
			return nil, err
		}
		summary.State = mediasource.ReadyState(stateRaw)
		summary.CreatedAt = parseTime(createdRaw)
		summary.UpdatedAt = parseTime(updatedRaw)
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return summaries, nil
}

// Delete removes a session and its cues.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (s *Store) exists(ctx context.Context, id string) (bool, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM sessions WHERE id = ?`, id).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func encodeFrame(c *cue.Cue) (any, error) {
	if !c.IsMetadata() {
		return nil, nil
	}
	data, err := json.Marshal(c.Value)
	if err != nil {
		return nil, fmt.Errorf("encode frame for cue %s: %w", c.ID, err)
	}
	return string(data), nil
}

// formatDuration keeps NaN and infinities distinguishable in storage.
func formatDuration(d float64) string {
	return strconv.FormatFloat(d, 'g', -1, 64)
}

func parseDuration(raw string) (float64, error) {
	d, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("parse stored duration %q: %w", raw, err)
	}
	return d, nil
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
