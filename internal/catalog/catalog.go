// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog keeps resolved publication records in a local SQLite
// database so repeated runs can list and inspect what has been resolved.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/gavinf97/DOME-Copilot-Data-Analysis/pkg/types"
)

// ErrNotFound is returned by Get when no record exists for a DOI.
var ErrNotFound = errors.New("record not in catalog")

// Entry is a catalogued record.
type Entry struct {
	Metadata   types.Metadata
	Provider   string
	ResolvedAt time.Time
}

// Store manages the catalog database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the catalog database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating catalog directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS records (
			doi TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			authors TEXT,
			journal TEXT,
			year TEXT,
			pmid TEXT,
			pmcid TEXT,
			provider TEXT,
			resolved_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_pmid ON records(pmid)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Put inserts or replaces the record for m.DOI.
func (s *Store) Put(ctx context.Context, m types.Metadata, provider string) error {
	if m.DOI == "" {
		return fmt.Errorf("catalog entry requires a DOI")
	}
	authorsJSON, err := json.Marshal(m.Authors)
	if err != nil {
		return fmt.Errorf("encoding authors: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO records (doi, title, authors, journal, year, pmid, pmcid, provider, resolved_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(doi) DO UPDATE SET
			title=excluded.title, authors=excluded.authors, journal=excluded.journal,
			year=excluded.year, pmid=excluded.pmid, pmcid=excluded.pmcid,
			provider=excluded.provider, resolved_at=excluded.resolved_at`,
		m.DOI, m.Title, string(authorsJSON), m.Journal, m.Year, m.PMID, m.PMCID,
		provider, s.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting %s: %w", m.DOI, err)
	}
	return nil
}

const selectColumns = `SELECT doi, title, authors, journal, year, pmid, pmcid, provider, resolved_at FROM records`

// Get returns the entry for a DOI, or ErrNotFound.
func (s *Store) Get(ctx context.Context, doi string) (Entry, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE doi = ?`, doi)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%s: %w", doi, ErrNotFound)
	}
	return e, err
}

// List returns all entries ordered by DOI.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY doi`)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (Entry, error) {
	var (
		e                 Entry
		authorsJSON, when sql.NullString
		journal, year     sql.NullString
		pmid, pmcid, prov sql.NullString
	)
	err := sc.Scan(&e.Metadata.DOI, &e.Metadata.Title, &authorsJSON,
		&journal, &year, &pmid, &pmcid, &prov, &when)
	if err != nil {
		return Entry{}, err
	}
	if authorsJSON.String != "" {
		if err := json.Unmarshal([]byte(authorsJSON.String), &e.Metadata.Authors); err != nil {
			return Entry{}, fmt.Errorf("decoding authors for %s: %w", e.Metadata.DOI, err)
		}
	}
	e.Metadata.Journal = journal.String
	e.Metadata.Year = year.String
	e.Metadata.PMID = pmid.String
	e.Metadata.PMCID = pmcid.String
	e.Provider = prov.String
	if when.String != "" {
		e.ResolvedAt, _ = time.Parse(time.RFC3339, when.String)
	}
	return e, nil
}
