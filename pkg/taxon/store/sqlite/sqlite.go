package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/taxon/pkg/taxon/internalerr"
	"github.com/cognicore/taxon/pkg/taxon/snapshot"
	"github.com/cognicore/taxon/pkg/taxon/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS snapshots (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS snapshots_name ON snapshots(name, id);

CREATE TABLE IF NOT EXISTS snapshot_paths (
	snapshot_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	path TEXT NOT NULL,
	PRIMARY KEY(snapshot_id, position),
	FOREIGN KEY(snapshot_id) REFERENCES snapshots(id) ON DELETE CASCADE
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveSnapshot inserts or replaces a snapshot and its paths
func (s *sqliteStore) SaveSnapshot(ctx context.Context, snap snapshot.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const upsert = `
INSERT INTO snapshots (id, name, created_at)
VALUES (?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	name=excluded.name,
	created_at=excluded.created_at;
`
	if _, err := tx.ExecContext(ctx, upsert, snap.ID, snap.Name, snap.CreatedAt.UTC().Format(time.RFC3339Nano)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_paths WHERE snapshot_id = ?`, snap.ID); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO snapshot_paths (snapshot_id, position, path) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, p := range snap.Paths {
		if _, err := stmt.ExecContext(ctx, snap.ID, i, p); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetSnapshot loads a snapshot by ID
func (s *sqliteStore) GetSnapshot(ctx context.Context, id string) (snapshot.Snapshot, error) {
	snap, err := s.loadHeader(ctx, `SELECT id, name, created_at FROM snapshots WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return snapshot.Snapshot{}, internalerr.ErrNotFound
	}
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	if snap.Paths, err = s.loadPaths(ctx, snap.ID); err != nil {
		return snapshot.Snapshot{}, err
	}
	return snap, nil
}

// LatestSnapshot loads the newest snapshot with the given name
func (s *sqliteStore) LatestSnapshot(ctx context.Context, name string) (snapshot.Snapshot, bool, error) {
	snap, err := s.loadHeader(ctx, `SELECT id, name, created_at FROM snapshots WHERE name = ? ORDER BY id DESC LIMIT 1`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return snapshot.Snapshot{}, false, nil
	}
	if err != nil {
		return snapshot.Snapshot{}, false, err
	}
	if snap.Paths, err = s.loadPaths(ctx, snap.ID); err != nil {
		return snapshot.Snapshot{}, false, err
	}
	return snap, true, nil
}

// ListSnapshots returns snapshot headers for a name, newest first
func (s *sqliteStore) ListSnapshots(ctx context.Context, name string, limit int) ([]snapshot.Snapshot, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, created_at FROM snapshots WHERE name = ? ORDER BY id DESC LIMIT ?`, name, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []snapshot.Snapshot
	for rows.Next() {
		snap, err := scanHeader(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// DeleteSnapshot removes a snapshot and its paths. foreign_keys is a
// per-connection pragma, so paths are deleted explicitly rather than relying
// on the cascade.
func (s *sqliteStore) DeleteSnapshot(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_paths WHERE snapshot_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanHeader(row scanner) (snapshot.Snapshot, error) {
	var (
		snap    snapshot.Snapshot
		created string
	)
	if err := row.Scan(&snap.ID, &snap.Name, &created); err != nil {
		return snapshot.Snapshot{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("sqlite: snapshot %s: bad created_at %q: %w", snap.ID, created, err)
	}
	snap.CreatedAt = t
	return snap, nil
}

func (s *sqliteStore) loadHeader(ctx context.Context, query string, arg string) (snapshot.Snapshot, error) {
	return scanHeader(s.db.QueryRowContext(ctx, query, arg))
}

func (s *sqliteStore) loadPaths(ctx context.Context, id string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path FROM snapshot_paths WHERE snapshot_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}
