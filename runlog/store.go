package runlog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/katalvlaran/pathviz/session"
)

// Run is one stored summary.
type Run struct {
	ID string
	session.RunSummary
}

// Store wraps the SQLite connection.
type Store struct {
	conn *sql.DB
}

// Open opens (or creates) the database at path. ":memory:" is accepted.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("runlog: open %s: %w", path, err)
	}
	// One connection: SQLite has a single writer and ":memory:" is per connection.
	conn.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("runlog: %s: %w", pragma, err)
		}
	}

	st := &Store{conn: conn}
	if err := st.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return st, nil
}

// Close closes the database connection.
func (st *Store) Close() error {
	return st.conn.Close()
}

func (st *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		start_x INTEGER NOT NULL,
		start_y INTEGER NOT NULL,
		end_x INTEGER NOT NULL,
		end_y INTEGER NOT NULL,
		status TEXT NOT NULL,
		explored INTEGER NOT NULL DEFAULT 0,
		path_len INTEGER NOT NULL DEFAULT 0,
		obstacles INTEGER NOT NULL DEFAULT 0,
		movers INTEGER NOT NULL DEFAULT 0,
		animated INTEGER NOT NULL DEFAULT 0,
		dynamic INTEGER NOT NULL DEFAULT 0,
		started_at INTEGER NOT NULL,
		duration_ns INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
	`
	if _, err := st.conn.Exec(schema); err != nil {
		return fmt.Errorf("runlog: migrate: %w", err)
	}
	return nil
}

// Insert stores sum under a fresh random ID and returns the ID.
func (st *Store) Insert(ctx context.Context, sum session.RunSummary) (string, error) {
	id := uuid.NewString()
	_, err := st.conn.ExecContext(ctx, `
		INSERT INTO runs (id, width, height, start_x, start_y, end_x, end_y, status,
			explored, path_len, obstacles, movers, animated, dynamic, started_at, duration_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, sum.Width, sum.Height, sum.Start.X, sum.Start.Y, sum.End.X, sum.End.Y, sum.Status,
		sum.Explored, sum.PathLen, sum.Obstacles, sum.Movers,
		boolInt(sum.Animated), boolInt(sum.Dynamic),
		sum.StartedAt.UnixNano(), int64(sum.Duration),
	)
	if err != nil {
		return "", fmt.Errorf("runlog: insert: %w", err)
	}
	return id, nil
}

// Recent returns up to limit runs, newest first.
func (st *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	rows, err := st.conn.QueryContext(ctx, `
		SELECT id, width, height, start_x, start_y, end_x, end_y, status,
			explored, path_len, obstacles, movers, animated, dynamic, started_at, duration_ns
		FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("runlog: query: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			r                 Run
			animated, dynamic int
			startedNs, durNs  int64
		)
		err := rows.Scan(&r.ID, &r.Width, &r.Height,
			&r.Start.X, &r.Start.Y, &r.End.X, &r.End.Y, &r.Status,
			&r.Explored, &r.PathLen, &r.Obstacles, &r.Movers,
			&animated, &dynamic, &startedNs, &durNs)
		if err != nil {
			return nil, fmt.Errorf("runlog: scan: %w", err)
		}
		r.Animated, r.Dynamic = animated != 0, dynamic != 0
		r.StartedAt = time.Unix(0, startedNs)
		r.Duration = time.Duration(durNs)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Stats aggregates stored runs by status.
type Stats struct {
	Total     int
	ByStatus  map[string]int
	AvgVisits float64 // mean explored cells per run
}

// Stats returns aggregate counters over all stored runs.
func (st *Store) Stats(ctx context.Context) (Stats, error) {
	s := Stats{ByStatus: make(map[string]int)}
	rows, err := st.conn.QueryContext(ctx,
		"SELECT status, COUNT(*), COALESCE(SUM(explored), 0) FROM runs GROUP BY status")
	if err != nil {
		return s, fmt.Errorf("runlog: stats: %w", err)
	}
	defer rows.Close()

	var explored int
	for rows.Next() {
		var (
			status string
			n, e   int
		)
		if err := rows.Scan(&status, &n, &e); err != nil {
			return s, fmt.Errorf("runlog: stats: %w", err)
		}
		s.ByStatus[status] = n
		s.Total += n
		explored += e
	}
	if s.Total > 0 {
		s.AvgVisits = float64(explored) / float64(s.Total)
	}
	return s, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
