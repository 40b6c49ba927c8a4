package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/lib/pq"

	"github.com/okian/bricklayers/internal/domain/draft"
	"github.com/okian/bricklayers/pkg/metrics"
)

// ErrInvalidTable is returned for table names that are not plain identifiers.
var ErrInvalidTable = errors.New("invalid table name")

// PostgresStore keeps draft state in one row per league. Sets are written as
// text arrays and each Set is a single upsert of the complete row.
type PostgresStore struct {
	db     *sql.DB
	table  string
	now    func() time.Time
	closed atomic.Bool
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore opens the database, checks connectivity and creates the
// table if needed.
func NewPostgresStore(ctx context.Context, opts ...Option) (*PostgresStore, error) {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	if s.dsn == "" {
		return nil, ErrMissingDSN
	}
	if !validIdentifier(s.table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTable, s.table)
	}

	db, err := sql.Open("postgres", s.dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.connectTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	store := &PostgresStore{db: db, table: s.table, now: s.now}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return store, nil
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		league_id  TEXT PRIMARY KEY,
		drafted    TEXT[] NOT NULL DEFAULT '{}',
		my_picks   TEXT[] NOT NULL DEFAULT '{}',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`, s.table)
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// Get loads the state for leagueID.
func (s *PostgresStore) Get(ctx context.Context, leagueID string) (draft.State, bool, error) {
	if s.closed.Load() {
		return draft.State{}, false, ErrClosed
	}
	start := time.Now()
	defer func() { metrics.RecordStoreLatency("get", msSince(start)) }()

	var drafted, mine pq.StringArray
	query := fmt.Sprintf(`SELECT drafted, my_picks FROM %s WHERE league_id = $1`, s.table)
	err := s.db.QueryRowContext(ctx, query, leagueID).Scan(&drafted, &mine)
	if errors.Is(err, sql.ErrNoRows) {
		return draft.State{}, false, nil
	}
	if err != nil {
		return draft.State{}, false, err
	}
	return draft.FromSnapshot(draft.Snapshot{Drafted: drafted, MyPicks: mine}), true, nil
}

// Set upserts the complete state for leagueID.
func (s *PostgresStore) Set(ctx context.Context, leagueID string, st draft.State) error {
	if s.closed.Load() {
		return ErrClosed
	}
	start := time.Now()
	defer func() { metrics.RecordStoreLatency("set", msSince(start)) }()

	snap := st.Snapshot()
	query := fmt.Sprintf(`
	INSERT INTO %s (league_id, drafted, my_picks, updated_at)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (league_id) DO UPDATE SET
		drafted = EXCLUDED.drafted,
		my_picks = EXCLUDED.my_picks,
		updated_at = EXCLUDED.updated_at`, s.table)
	_, err := s.db.ExecContext(ctx, query, leagueID, pq.Array(snap.Drafted), pq.Array(snap.MyPicks), s.now().UTC())
	return err
}

// Count returns the number of stored leagues, or 0 when the query fails.
func (s *PostgresStore) Count(ctx context.Context) int {
	if s.closed.Load() {
		return 0
	}
	var n int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, s.table)
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		metrics.RecordErrorByComponent("repository", "count")
		return 0
	}
	return n
}

// Close closes the underlying connection pool.
func (s *PostgresStore) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}

// validIdentifier accepts lower-case ASCII identifiers, which is all the
// table option needs and keeps interpolated SQL safe.
func validIdentifier(name string) bool {
	if name == "" || len(name) > 63 {
		return false
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r == '_':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
