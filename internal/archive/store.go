// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive persists generated progressions in a SQLite database so
// runs can be listed, replayed, and exported.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/kirnberger/pkg/types"
)

const (
	dbFile       = "progressions.db"
	defaultLimit = 20
)

// ErrNotFound reports a run ID with no archived run.
var ErrNotFound = errors.New("run not found")

// Store manages the progression archive database.
type Store struct {
	db  *sql.DB
	dir string
}

// NewStore opens or creates the archive at dir/progressions.db and creates
// the schema if it does not exist.
func NewStore(cfg types.ArchiveConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "archive"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dir: dir}
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

// Dir returns the directory holding the database and exports.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			seed INTEGER NOT NULL,
			steps INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS beats (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			chord TEXT NOT NULL,
			soprano TEXT NOT NULL,
			bass TEXT NOT NULL,
			PRIMARY KEY (run_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_beats_chord ON beats(chord)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save stores run and its beats in one transaction, setting run.ID and,
// when zero, run.CreatedAt.
func (s *Store) Save(ctx context.Context, run *types.Run) error {
	p := run.Progression
	if len(p.Chords) != p.History.Len() || len(p.History.Bass) != p.History.Len() {
		return fmt.Errorf("saving run: %d chords for %d soprano and %d bass beats",
			len(p.Chords), len(p.History.Soprano), len(p.History.Bass))
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (seed, steps, created_at) VALUES (?, ?, ?)`,
		run.Seed, run.Steps, run.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO beats (run_id, position, chord, soprano, bass) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range p.Chords {
		if _, err := stmt.ExecContext(ctx, id, i, string(c),
			p.History.Soprano[i].String(), p.History.Bass[i].String()); err != nil {
			return fmt.Errorf("inserting beat %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}
	run.ID = id
	return nil
}

// Summary is one row of a run listing.
type Summary struct {
	ID        int64     `json:"id" yaml:"id"`
	Seed      int64     `json:"seed" yaml:"seed"`
	Steps     int       `json:"steps" yaml:"steps"`
	Beats     int       `json:"beats" yaml:"beats"`
	Chords    string    `json:"chords" yaml:"chords"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// ListOptions filters a run listing.
type ListOptions struct {
	// Chord keeps only runs in which the chord sounds at least once.
	Chord types.Chord

	// Limit caps the number of runs returned. Zero uses the default (20);
	// a negative value returns every run.
	Limit int
}

// List returns archived runs, newest first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]Summary, error) {
	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT r.id, r.seed, r.steps, r.created_at FROM runs r WHERE 1=1`)

	if opts.Chord != "" {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM beats b WHERE b.run_id = r.id AND b.chord = ?)`)
		args = append(args, string(opts.Chord))
	}
	qb.WriteString(` ORDER BY r.id DESC`)

	limit := opts.Limit
	if limit == 0 {
		limit = defaultLimit
	}
	if limit > 0 {
		qb.WriteString(` LIMIT ?`)
		args = append(args, limit)
	}

	out, err := s.querySummaries(ctx, qb.String(), args...)
	if err != nil {
		return nil, err
	}

	for i := range out {
		chords, err := s.chords(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Beats = len(chords)
		out[i].Chords = strings.Join(chords, " ")
	}
	return out, nil
}

func (s *Store) querySummaries(ctx context.Context, query string, args ...any) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum     Summary
			created string
		)
		if err := rows.Scan(&sum.ID, &sum.Seed, &sum.Steps, &created); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if sum.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("parsing created_at of run %d: %w", sum.ID, err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *Store) chords(ctx context.Context, id int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT chord FROM beats WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("loading chords of run %d: %w", id, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scanning chord: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Get loads the run with the given ID, beats in order.
func (s *Store) Get(ctx context.Context, id int64) (types.Run, error) {
	run := types.Run{ID: id}
	var created string
	err := s.db.QueryRowContext(ctx,
		`SELECT seed, steps, created_at FROM runs WHERE id = ?`, id,
	).Scan(&run.Seed, &run.Steps, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Run{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return types.Run{}, fmt.Errorf("loading run %d: %w", id, err)
	}
	if run.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return types.Run{}, fmt.Errorf("parsing created_at of run %d: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT chord, soprano, bass FROM beats WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return types.Run{}, fmt.Errorf("loading beats of run %d: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var chord, soprano, bass string
		if err := rows.Scan(&chord, &soprano, &bass); err != nil {
			return types.Run{}, fmt.Errorf("scanning beat: %w", err)
		}
		c, err := types.ParseChord(chord)
		if err != nil {
			return types.Run{}, err
		}
		sp, err := types.ParsePitch(soprano)
		if err != nil {
			return types.Run{}, err
		}
		bp, err := types.ParsePitch(bass)
		if err != nil {
			return types.Run{}, err
		}
		run.Progression.Chords = append(run.Progression.Chords, c)
		run.Progression.History = run.Progression.History.Append(sp, bp)
	}
	if err := rows.Err(); err != nil {
		return types.Run{}, err
	}
	return run, nil
}

// Delete removes a run and its beats.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting run %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting run %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return nil
}
