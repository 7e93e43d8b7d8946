package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/reverie/pkg/reverie/internalerr"
	"github.com/cognicore/reverie/pkg/reverie/lexicon"
	"github.com/cognicore/reverie/pkg/reverie/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db  *sql.DB
	ids *store.IDSource
}

// busyTimeoutMS is how long a connection waits on a locked database.
const busyTimeoutMS = 5000

// OpenSQLite opens a SQLite database with WAL mode enabled and creates the
// schema if needed. Writes go through a single connection.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db, ids: store.NewIDSource()}, nil
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_pragma=busy_timeout(%d)", path, sep, busyTimeoutMS)
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS entries (
	id TEXT PRIMARY KEY,
	at_unix INTEGER NOT NULL,
	title TEXT NOT NULL,
	text TEXT NOT NULL,
	tags TEXT NOT NULL DEFAULT '',
	sentiment REAL NOT NULL DEFAULT 0,
	emotion_primary TEXT NOT NULL DEFAULT 'neutral',
	nightmare_index INTEGER NOT NULL DEFAULT 0,
	caffeine_mg INTEGER NOT NULL DEFAULT 0,
	last_meal_min_before_sleep INTEGER NOT NULL DEFAULT 0,
	screen_min_last_hr INTEGER NOT NULL DEFAULT 0,
	workout_min INTEGER NOT NULL DEFAULT 0,
	stress_1_5 INTEGER NOT NULL DEFAULT 3,
	lucid INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS entries_at ON entries(at_unix DESC, id DESC);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

const entryColumns = `id, at_unix, title, text, tags, sentiment, emotion_primary, nightmare_index,
	caffeine_mg, last_meal_min_before_sleep, screen_min_last_hr, workout_min, stress_1_5, lucid`

// AddEntry inserts e under a new ID.
func (s *sqliteStore) AddEntry(ctx context.Context, e store.Entry) (store.Entry, error) {
	e.ID = s.ids.Next()
	e.Normalize()

	_, err := s.db.ExecContext(ctx, `
INSERT INTO entries (`+entryColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`, entryArgs(e)...)
	if err != nil {
		return store.Entry{}, fmt.Errorf("sqlite: add entry: %w", err)
	}
	return e, nil
}

// UpdateEntry replaces every field of an existing entry.
func (s *sqliteStore) UpdateEntry(ctx context.Context, e store.Entry) error {
	e.Normalize()
	args := entryArgs(e)

	res, err := s.db.ExecContext(ctx, `
UPDATE entries SET
	at_unix=?, title=?, text=?, tags=?, sentiment=?, emotion_primary=?, nightmare_index=?,
	caffeine_mg=?, last_meal_min_before_sleep=?, screen_min_last_hr=?, workout_min=?,
	stress_1_5=?, lucid=?
WHERE id=?;
`, append(args[1:], e.ID)...)
	if err != nil {
		return fmt.Errorf("sqlite: update entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("sqlite: entry %q: %w", e.ID, internalerr.ErrNotFound)
	}
	return nil
}

// GetEntry retrieves an entry by ID
func (s *sqliteStore) GetEntry(ctx context.Context, id string) (store.Entry, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entries WHERE id=?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Entry{}, false, nil
	}
	if err != nil {
		return store.Entry{}, false, err
	}
	return e, true, nil
}

// ListEntries returns all entries, newest first
func (s *sqliteStore) ListEntries(ctx context.Context) ([]store.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT `+entryColumns+`
FROM entries
ORDER BY at_unix DESC, id DESC;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Clear deletes every entry
func (s *sqliteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM entries`)
	return err
}

// Replace deletes every entry and inserts entries in one transaction.
func (s *sqliteStore) Replace(ctx context.Context, entries []store.Entry) ([]store.Entry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: begin replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return nil, fmt.Errorf("sqlite: replace: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO entries (`+entryColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: replace: %w", err)
	}
	defer stmt.Close()

	out := make([]store.Entry, 0, len(entries))
	for _, e := range entries {
		e.ID = s.ids.Next()
		e.Normalize()
		if _, err := stmt.ExecContext(ctx, entryArgs(e)...); err != nil {
			return nil, fmt.Errorf("sqlite: replace entry: %w", err)
		}
		out = append(out, e)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: commit replace: %w", err)
	}
	return out, nil
}

func entryArgs(e store.Entry) []any {
	return []any{
		e.ID,
		e.At.UnixNano(),
		e.Title,
		e.Text,
		e.Tags,
		e.Sentiment,
		string(e.Emotion),
		e.RiskIndex,
		e.CaffeineMG,
		e.LastMealMinBeforeSleep,
		e.ScreenMinLastHour,
		e.WorkoutMin,
		e.Stress,
		boolToInt(e.Lucid),
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (store.Entry, error) {
	var (
		e       store.Entry
		atUnix  int64
		emotion string
		lucid   int
	)
	err := sc.Scan(
		&e.ID,
		&atUnix,
		&e.Title,
		&e.Text,
		&e.Tags,
		&e.Sentiment,
		&emotion,
		&e.RiskIndex,
		&e.CaffeineMG,
		&e.LastMealMinBeforeSleep,
		&e.ScreenMinLastHour,
		&e.WorkoutMin,
		&e.Stress,
		&lucid,
	)
	if err != nil {
		return store.Entry{}, err
	}
	e.At = time.Unix(0, atUnix)
	e.Emotion = lexicon.Emotion(emotion)
	e.Lucid = lucid != 0
	return e, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
