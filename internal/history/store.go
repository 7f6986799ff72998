// Package history persists completed analysis reports locally. It is a
// downstream collaborator of the core: reports go in after analysis and are
// only ever read back out.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/anandvisw/pharmscribe-go/internal/attachment"
	"github.com/anandvisw/pharmscribe-go/internal/models"
)

// Record is one stored report plus its originating input.
type Record struct {
	ID          string                `json:"id"`
	CreatedAt   time.Time             `json:"createdAt"`
	SourceText  string                `json:"sourceText"`
	TriageLevel string                `json:"triageLevel"`
	Modality    attachment.Modality   `json:"modality"`
	Result      models.AnalysisResult `json:"result"`
}

// Store is a sqlite-backed report archive. The database is opened lazily on
// first use.
type Store struct {
	path string

	mu sync.Mutex
	db *sql.DB
}

// NewStore creates a store at the given path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Init opens the database and applies the schema.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode=WAL;`); err != nil {
		_ = db.Close()
		return err
	}

	schema := `
CREATE TABLE IF NOT EXISTS reports (
  id TEXT PRIMARY KEY,
  created_unix INTEGER NOT NULL,
  source_text TEXT NOT NULL DEFAULT '',
  triage_level TEXT NOT NULL DEFAULT '',
  modality TEXT NOT NULL DEFAULT 'text',
  result_json TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reports_created ON reports(created_unix DESC);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *Store) ensureDB(ctx context.Context) (*sql.DB, error) {
	s.mu.Lock()
	db := s.db
	s.mu.Unlock()
	if db != nil {
		return db, nil
	}
	if err := s.Init(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db, nil
}

// Save stores a completed report and returns the persisted record.
func (s *Store) Save(ctx context.Context, sourceText, triageLevel string, modality attachment.Modality, result *models.AnalysisResult) (*Record, error) {
	db, err := s.ensureDB(ctx)
	if err != nil {
		return nil, err
	}

	rec := &Record{
		ID:          uuid.NewString(),
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
		SourceText:  sourceText,
		TriageLevel: triageLevel,
		Modality:    modality,
		Result:      *result,
	}

	resultJSON, err := json.Marshal(rec.Result)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO reports(id, created_unix, source_text, triage_level, modality, result_json)
		 VALUES(?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.CreatedAt.Unix(), rec.SourceText, rec.TriageLevel, string(rec.Modality), string(resultJSON),
	)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns the most recent reports, newest first. limit <= 0 means a
// default page of 50.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	db, err := s.ensureDB(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, created_unix, source_text, triage_level, modality, result_json
		 FROM reports ORDER BY created_unix DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// Get returns one report by ID, or nil if it does not exist.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	db, err := s.ensureDB(ctx)
	if err != nil {
		return nil, err
	}

	row := db.QueryRowContext(ctx,
		`SELECT id, created_unix, source_text, triage_level, modality, result_json
		 FROM reports WHERE id = ?`, id)
	rec, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

// Delete removes one report, reporting whether it existed.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	db, err := s.ensureDB(ctx)
	if err != nil {
		return false, err
	}
	res, err := db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Close releases the database handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func scanRecord(scan func(...any) error) (*Record, error) {
	var rec Record
	var createdUnix int64
	var modality, resultJSON string
	if err := scan(&rec.ID, &createdUnix, &rec.SourceText, &rec.TriageLevel, &modality, &resultJSON); err != nil {
		return nil, err
	}
	rec.CreatedAt = time.Unix(createdUnix, 0).UTC()
	rec.Modality = attachment.Modality(modality)
	if err := json.Unmarshal([]byte(resultJSON), &rec.Result); err != nil {
		return nil, fmt.Errorf("decode stored result %s: %w", rec.ID, err)
	}
	return &rec, nil
}
