// Package journal keeps a SQLite history of what happened to the pet:
// care actions, decay while the owner was away and rewards for commits.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// DefaultFile is the database name inside the pet directory.
const DefaultFile = "journal.db"

// Kind classifies an event.
type Kind string

const (
	KindSession Kind = "session"
	KindAction  Kind = "action"
	KindTrick   Kind = "trick"
	KindDecay   Kind = "decay"
	KindReward  Kind = "reward"
)

// Event is one journal row. Levels are captured after the event applied.
type Event struct {
	ID         string
	Kind       Kind
	Detail     string
	Bond       int
	Clarity    int
	Corruption int
	At         time.Time
}

// Journal is a SQLite-backed event log.
type Journal struct {
	db *sql.DB

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// Open opens or creates the journal at path.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("journal: create dir: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("journal: open: %w", err)
	}
	return setup(db)
}

// OpenMemory opens a throwaway in-memory journal.
func OpenMemory() (*Journal, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("journal: open memory: %w", err)
	}
	// Each connection to :memory: is its own database.
	db.SetMaxOpenConns(1)
	return setup(db)
}

func setup(db *sql.DB) (*Journal, error) {
	j := &Journal{
		db:      db,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
	if err := j.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: migrate: %w", err)
	}
	return j, nil
}

func (j *Journal) migrate() error {
	_, err := j.db.Exec(`
	CREATE TABLE IF NOT EXISTS events (
		id          TEXT PRIMARY KEY,
		kind        TEXT NOT NULL,
		detail      TEXT NOT NULL DEFAULT '',
		bond        INTEGER NOT NULL,
		clarity     INTEGER NOT NULL,
		corruption  INTEGER NOT NULL,
		at          TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind);
	`)
	return err
}

// Close releases the database.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

func (j *Journal) newID(at time.Time) string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(at), j.entropy).String()
}

// Record stores e, filling in ID and At when empty.
func (j *Journal) Record(ctx context.Context, e Event) (Event, error) {
	if j == nil {
		return e, nil
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}
	if e.ID == "" {
		e.ID = j.newID(e.At)
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO events (id, kind, detail, bond, clarity, corruption, at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, string(e.Kind), e.Detail, e.Bond, e.Clarity, e.Corruption, e.At.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return e, fmt.Errorf("journal: record %s: %w", e.Kind, err)
	}
	return e, nil
}

// Recent returns up to n events, newest first.
func (j *Journal) Recent(ctx context.Context, n int) ([]Event, error) {
	if j == nil || n <= 0 {
		return nil, nil
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, kind, detail, bond, clarity, corruption, at FROM events ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("journal: recent: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			e    Event
			kind string
			at   string
		)
		if err := rows.Scan(&e.ID, &kind, &e.Detail, &e.Bond, &e.Clarity, &e.Corruption, &at); err != nil {
			return nil, fmt.Errorf("journal: scan: %w", err)
		}
		e.Kind = Kind(kind)
		e.At, _ = time.Parse(time.RFC3339Nano, at)
		events = append(events, e)
	}
	return events, rows.Err()
}

// Counts tallies events by kind.
func (j *Journal) Counts(ctx context.Context) (map[Kind]int, error) {
	counts := map[Kind]int{}
	if j == nil {
		return counts, nil
	}
	rows, err := j.db.QueryContext(ctx, `SELECT kind, COUNT(*) FROM events GROUP BY kind`)
	if err != nil {
		return nil, fmt.Errorf("journal: counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			kind string
			n    int
		)
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("journal: scan: %w", err)
		}
		counts[Kind(kind)] = n
	}
	return counts, rows.Err()
}
