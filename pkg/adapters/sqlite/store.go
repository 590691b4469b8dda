package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/stratum/pkg/domain"
	"github.com/aretw0/stratum/pkg/schema"

	_ "modernc.org/sqlite"
)

const ddl = `
CREATE TABLE IF NOT EXISTS clusters (
  project    TEXT NOT NULL,
  collection TEXT NOT NULL,
  cluster    TEXT NOT NULL,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL,
  PRIMARY KEY (project, collection, cluster)
);
CREATE TABLE IF NOT EXISTS records (
  project    TEXT NOT NULL,
  collection TEXT NOT NULL,
  cluster    TEXT NOT NULL,
  position   INTEGER NOT NULL,
  id         TEXT NOT NULL,
  name       TEXT NOT NULL,
  type       TEXT NOT NULL,
  value      TEXT NOT NULL,
  updated_at TEXT NOT NULL,
  PRIMARY KEY (project, collection, cluster, position)
);
CREATE INDEX IF NOT EXISTS idx_records_cluster ON records(project, collection, cluster);
`

// Store implements ports.ClusterStore on a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
// Use ":memory:" for a throwaway database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save replaces the cluster row and all of its records in one transaction.
func (s *Store) Save(ctx context.Context, cluster *domain.Cluster) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	ref := cluster.Ref
	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO clusters (project, collection, cluster, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		ref.Project, ref.Collection, ref.Cluster, formatTime(cluster.CreatedAt), formatTime(cluster.UpdatedAt))
	if err != nil {
		return fmt.Errorf("saving cluster %s: %w", ref, err)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM records WHERE project = ? AND collection = ? AND cluster = ?`,
		ref.Project, ref.Collection, ref.Cluster)
	if err != nil {
		return fmt.Errorf("clearing records of %s: %w", ref, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (project, collection, cluster, position, id, name, type, value, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing record insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range cluster.Records {
		_, err := stmt.ExecContext(ctx, ref.Project, ref.Collection, ref.Cluster, i,
			r.ID, r.Name, r.Type.String(), r.Value, formatTime(r.UpdatedAt))
		if err != nil {
			return fmt.Errorf("saving record %q: %w", r.Name, err)
		}
	}

	return tx.Commit()
}

// Load reads a cluster and its records in insertion order.
func (s *Store) Load(ctx context.Context, ref domain.ClusterRef) (*domain.Cluster, error) {
	var created, updated string
	err := s.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM clusters WHERE project = ? AND collection = ? AND cluster = ?`,
		ref.Project, ref.Collection, ref.Cluster).Scan(&created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrClusterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading cluster %s: %w", ref, err)
	}

	c := &domain.Cluster{Ref: ref, Records: []domain.Record{}}
	if c.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, type, value, updated_at FROM records
		 WHERE project = ? AND collection = ? AND cluster = ? ORDER BY position`,
		ref.Project, ref.Collection, ref.Cluster)
	if err != nil {
		return nil, fmt.Errorf("loading records of %s: %w", ref, err)
	}
	defer rows.Close()

	for rows.Next() {
		var r domain.Record
		var tag, at string
		if err := rows.Scan(&r.ID, &r.Name, &tag, &r.Value, &at); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		r.Type = schema.Tag(tag)
		if r.UpdatedAt, err = parseTime(at); err != nil {
			return nil, err
		}
		c.Records = append(c.Records, r)
	}
	return c, rows.Err()
}

// Delete removes the cluster and its records.
func (s *Store) Delete(ctx context.Context, ref domain.ClusterRef) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"records", "clusters"} {
		_, err := tx.ExecContext(ctx,
			`DELETE FROM `+table+` WHERE project = ? AND collection = ? AND cluster = ?`,
			ref.Project, ref.Collection, ref.Cluster)
		if err != nil {
			return fmt.Errorf("deleting from %s: %w", table, err)
		}
	}
	return tx.Commit()
}

// List returns every stored cluster reference.
func (s *Store) List(ctx context.Context) ([]domain.ClusterRef, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT project, collection, cluster FROM clusters ORDER BY project, collection, cluster`)
	if err != nil {
		return nil, fmt.Errorf("listing clusters: %w", err)
	}
	defer rows.Close()

	var refs []domain.ClusterRef
	for rows.Next() {
		var ref domain.ClusterRef
		if err := rows.Scan(&ref.Project, &ref.Collection, &ref.Cluster); err != nil {
			return nil, fmt.Errorf("scanning cluster: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}
