package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/chat-cli/internal/domain"
	"github.com/doeshing/chat-cli/internal/ports"
)

// storedTimeFormat is fixed width so timestamps sort as text.
const storedTimeFormat = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore persists run history in a SQLite database. The database is
// opened on first use so a disabled history never touches the disk.
type SQLiteStore struct {
	path string

	once    sync.Once
	openErr error
	db      *sql.DB
	mu      sync.Mutex
}

// NewSQLiteStore returns a store backed by the database at path.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) open() (*sql.DB, error) {
	s.once.Do(func() {
		if err := os.MkdirAll(filepath.Dir(s.path), domain.DirectoryPermissions); err != nil {
			s.openErr = fmt.Errorf("ensure history dir: %w", err)
			return
		}
		db, err := sql.Open("sqlite", s.path)
		if err != nil {
			s.openErr = fmt.Errorf("open history db: %w", err)
			return
		}
		if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			timestamp TEXT NOT NULL,
			instruction TEXT,
			candidate_command TEXT,
			command TEXT,
			safe TEXT,
			description TEXT,
			model TEXT,
			override INTEGER,
			executed INTEGER,
			dry_run INTEGER,
			exit_code INTEGER,
			duration_ms INTEGER,
			error TEXT
		);`); err != nil {
			_ = db.Close()
			s.openErr = fmt.Errorf("init history db: %w", err)
			return
		}
		s.db = db
	})
	return s.db, s.openErr
}

// Save inserts a new record.
func (s *SQLiteStore) Save(ctx context.Context, record domain.HistoryRecord) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = db.ExecContext(ctx, `INSERT INTO runs
		(id, timestamp, instruction, candidate_command, command, safe, description, model, override, executed, dry_run, exit_code, duration_ms, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Timestamp.UTC().Format(storedTimeFormat),
		record.Instruction,
		record.CandidateCommand,
		record.Command,
		record.Safe,
		record.Description,
		record.Model,
		boolToInt(record.Override),
		boolToInt(record.Executed),
		boolToInt(record.DryRun),
		record.ExitCode,
		record.DurationMS,
		record.Error,
	)
	return err
}

// Records returns the newest entries first. A limit <= 0 returns everything.
func (s *SQLiteStore) Records(ctx context.Context, limit int) ([]domain.HistoryRecord, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	query := `SELECT id, timestamp, instruction, candidate_command, command, safe, description, model,
		override, executed, dry_run, exit_code, duration_ms, error FROM runs ORDER BY timestamp DESC, rowid DESC`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.HistoryRecord
	for rows.Next() {
		var rec domain.HistoryRecord
		var ts string
		var override, executed, dryRun int
		if err := rows.Scan(&rec.ID, &ts, &rec.Instruction, &rec.CandidateCommand, &rec.Command, &rec.Safe,
			&rec.Description, &rec.Model, &override, &executed, &dryRun, &rec.ExitCode, &rec.DurationMS, &rec.Error); err != nil {
			return nil, err
		}
		if t, err := time.Parse(storedTimeFormat, ts); err == nil {
			rec.Timestamp = t
		}
		rec.Override = override == 1
		rec.Executed = executed == 1
		rec.DryRun = dryRun == 1
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear deletes all history entries.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = db.ExecContext(ctx, "DELETE FROM runs")
	return err
}

// ExportJSON writes every record to dest as JSON lines, newest first, and
// returns the number written. The file is written beside dest and renamed into
// place, so a failed export leaves dest untouched and no partial file behind.
func (s *SQLiteStore) ExportJSON(ctx context.Context, dest string) (int, error) {
	records, err := s.Records(ctx, 0)
	if err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*")
	if err != nil {
		return 0, fmt.Errorf("create export: %w", err)
	}
	if err := writeJSONLines(tmp, records); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return 0, fmt.Errorf("close export: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		_ = os.Remove(tmp.Name())
		return 0, fmt.Errorf("move export into place: %w", err)
	}
	return len(records), nil
}

func writeJSONLines(w io.Writer, records []domain.HistoryRecord) error {
	enc := json.NewEncoder(w)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode record %s: %w", rec.ID, err)
		}
	}
	return nil
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close releases the database handle if one was opened.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)
