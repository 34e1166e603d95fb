package journal

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/cognicore/textmark/pkg/textmark/annotator"
)

// Journal appends tag transitions to a SQLite table. It is an audit trail
// for observers outside the process; annotator state is never rebuilt
// from it.
type Journal struct {
	db  *sql.DB
	doc string

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// Entry is one recorded transition.
type Entry struct {
	ID        string
	Doc       string
	Channel   string
	Canonical string
	Raw       string
	Units     int
	Added     bool
	At        time.Time
}

// Open opens (or creates) a journal database with WAL mode enabled. doc
// labels every entry written through this handle.
func Open(ctx context.Context, path, doc string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Journal{
		db:      db,
		doc:     doc,
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}, nil
}

// Close closes the database connection
func (j *Journal) Close() error {
	return j.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS transitions (
	id TEXT PRIMARY KEY,
	doc TEXT NOT NULL,
	channel TEXT NOT NULL,
	canonical TEXT NOT NULL,
	raw TEXT NOT NULL,
	units INTEGER NOT NULL,
	added INTEGER NOT NULL,
	at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS transitions_doc_channel ON transitions(doc, channel);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Record stores one transition and returns its id.
func (j *Journal) Record(ctx context.Context, tr annotator.Transition) (string, error) {
	j.mu.Lock()
	now := j.now().UTC()
	id := ulid.MustNew(ulid.Timestamp(now), j.entropy).String()
	j.mu.Unlock()

	const stmt = `
INSERT INTO transitions (id, doc, channel, canonical, raw, units, added, at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`
	_, err := j.db.ExecContext(ctx, stmt,
		id,
		j.doc,
		tr.Channel,
		tr.Canonical,
		tr.Unit.Raw,
		tr.Units,
		boolToInt(tr.Added),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("record transition: %w", err)
	}
	return id, nil
}

// Notify implements annotator.Observer. Write failures are logged, since
// observers cannot fail the transition that triggered them.
func (j *Journal) Notify(tr annotator.Transition) {
	if _, err := j.Record(context.Background(), tr); err != nil {
		log.Printf("Warning: journal %s/%s %q: %v", j.doc, tr.Channel, tr.Canonical, err)
	}
}

// List returns the entries of this journal's document in recording order.
// An empty channel lists every channel; limit <= 0 means no limit.
func (j *Journal) List(ctx context.Context, channel string, limit int) ([]Entry, error) {
	query := `SELECT id, doc, channel, canonical, raw, units, added, at FROM transitions WHERE doc=?`
	args := []any{j.doc}
	if channel != "" {
		query += ` AND channel=?`
		args = append(args, channel)
	}
	query += ` ORDER BY id`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e     Entry
			added int
			at    string
		)
		if err := rows.Scan(&e.ID, &e.Doc, &e.Channel, &e.Canonical, &e.Raw, &e.Units, &added, &at); err != nil {
			return nil, err
		}
		e.Added = added != 0
		if e.At, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, fmt.Errorf("entry %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Counts returns how many transitions each canonical term went through on
// channel.
func (j *Journal) Counts(ctx context.Context, channel string) (map[string]int, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT canonical, COUNT(*) FROM transitions WHERE doc=? AND channel=? GROUP BY canonical`,
		j.doc, channel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			canonical string
			n         int
		)
		if err := rows.Scan(&canonical, &n); err != nil {
			return nil, err
		}
		counts[canonical] = n
	}
	return counts, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
