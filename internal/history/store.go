// Package history persists one row per scan in an embedded SQLite database,
// so past extractions can be reviewed and exported.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/amara-nwosu/gene-report-reader/constants"
	"github.com/amara-nwosu/gene-report-reader/internal/common"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS scans (
	id          TEXT PRIMARY KEY,
	source_path TEXT NOT NULL,
	method      TEXT NOT NULL,
	language    TEXT NOT NULL DEFAULT '',
	confidence  REAL NOT NULL DEFAULT 0,
	ocr_text    TEXT NOT NULL DEFAULT '',
	fields_json TEXT NOT NULL DEFAULT '[]',
	status      TEXT NOT NULL,
	created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS scans_created_at ON scans(created_at);
`

// Scan is one recorded extraction run.
type Scan struct {
	ID         uuid.UUID
	SourcePath string
	Method     string
	Language   string
	Confidence float32
	OCRText    string
	FieldsJSON string
	Status     constants.ScanStatus
	CreatedAt  time.Time
}

type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the SQLite database at path and ensures
// the schema exists.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, common.WrapError(err, "open scan db")
	}
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		_ = db.Close()
		return nil, common.WrapError(err, "init scan db schema")
	}
	logger.Debug("scan history store opened", "path", path)
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// RecordScan inserts one completed (or failed) scan.
func (s *Store) RecordScan(ctx context.Context, sc Scan) error {
	if sc.ID == uuid.Nil {
		return fmt.Errorf("record scan: %w: missing id", common.ErrInvalidInput)
	}
	if sc.CreatedAt.IsZero() {
		sc.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scans (id, source_path, method, language, confidence, ocr_text, fields_json, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sc.ID.String(), sc.SourcePath, sc.Method, sc.Language, sc.Confidence,
		sc.OCRText, sc.FieldsJSON, string(sc.Status), sc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert scan: %w", err)
	}
	s.logger.Info("history.scan.recorded",
		"scan_id", sc.ID.String(),
		"source", sc.SourcePath,
		"status", string(sc.Status),
	)
	return nil
}

// UpdateScan replaces the result columns and status of an existing scan.
// The source path and creation time are fixed at insert and never change.
func (s *Store) UpdateScan(ctx context.Context, sc Scan) error {
	if sc.ID == uuid.Nil {
		return fmt.Errorf("update scan: %w: missing id", common.ErrInvalidInput)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE scans SET method = ?, language = ?, confidence = ?, ocr_text = ?, fields_json = ?, status = ?
		 WHERE id = ?`,
		sc.Method, sc.Language, sc.Confidence, sc.OCRText, sc.FieldsJSON,
		string(sc.Status), sc.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update scan: %w", err)
	}
	if n, raErr := res.RowsAffected(); raErr == nil && n == 0 {
		return fmt.Errorf("scan %s: %w", sc.ID, common.ErrNotFound)
	}
	s.logger.Info("history.scan.updated",
		"scan_id", sc.ID.String(),
		"status", string(sc.Status),
	)
	return nil
}

// GetScan loads one scan by id.
func (s *Store) GetScan(ctx context.Context, id uuid.UUID) (Scan, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source_path, method, language, confidence, ocr_text, fields_json, status, created_at
		 FROM scans WHERE id = ?`, id.String())
	sc, err := scanRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Scan{}, fmt.Errorf("scan %s: %w", id, common.ErrNotFound)
	}
	return sc, err
}

// ListScans returns scans newest-first. limit <= 0 means no limit.
func (s *Store) ListScans(ctx context.Context, limit int) ([]Scan, error) {
	q := `SELECT id, source_path, method, language, confidence, ocr_text, fields_json, status, created_at
	      FROM scans ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}
	defer rows.Close()

	var out []Scan
	for rows.Next() {
		sc, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(r rowScanner) (Scan, error) {
	var (
		sc     Scan
		id     string
		status string
	)
	err := r.Scan(&id, &sc.SourcePath, &sc.Method, &sc.Language, &sc.Confidence,
		&sc.OCRText, &sc.FieldsJSON, &status, &sc.CreatedAt)
	if err != nil {
		return Scan{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return Scan{}, fmt.Errorf("%w: corrupt scan id %q: %v", common.ErrInternal, id, err)
	}
	sc.ID = parsed
	sc.Status = constants.ScanStatus(status)
	return sc, nil
}
