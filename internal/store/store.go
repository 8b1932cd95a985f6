package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no record exists for a task id.
var ErrNotFound = errors.New("task not found")

// Store provides access to the meetings SQLite database.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS meetings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	task_id TEXT NOT NULL UNIQUE,
	filename TEXT NOT NULL,
	file_path TEXT NOT NULL,
	status TEXT NOT NULL,
	transcript TEXT,
	summary_overview TEXT,
	summary_data TEXT,
	created_at REAL NOT NULL,
	completed_at REAL,
	recording_type TEXT
);
CREATE INDEX IF NOT EXISTS idx_meetings_task_id ON meetings(task_id);
`

// Open opens (creating if needed) the database at path with WAL enabled.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// A single writer keeps SQLite happy under concurrent readers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Create inserts a new meeting record. CreatedAt is set here.
func (s *Store) Create(ctx context.Context, m *Meeting) error {
	now := time.Now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO meetings (task_id, filename, file_path, status, recording_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, m.TaskID, m.Filename, m.FilePath, m.Status, m.RecordingType, unixFloat(now))
	if err != nil {
		return fmt.Errorf("insert meeting: %w", err)
	}

	m.CreatedAt = now
	m.ID, _ = res.LastInsertId()
	return nil
}

// GetByTaskID returns the record for a task id, or ErrNotFound.
func (s *Store) GetByTaskID(ctx context.Context, taskID string) (*Meeting, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, task_id, filename, file_path, status, transcript,
		       summary_overview, summary_data, created_at, completed_at, recording_type
		FROM meetings
		WHERE task_id = ?
	`, taskID)

	m, err := scanMeeting(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan meeting: %w", err)
	}
	return m, nil
}

// UpdateStatus sets the status of a task record.
func (s *Store) UpdateStatus(ctx context.Context, taskID, status string) error {
	return s.exec(ctx, taskID, `UPDATE meetings SET status = ? WHERE task_id = ?`, status, taskID)
}

// SaveTranscript commits the transcript and advances the record to
// summarizing in one write, so readers never observe a transcript
// without the matching status.
func (s *Store) SaveTranscript(ctx context.Context, taskID, transcript string) error {
	return s.exec(ctx, taskID, `
		UPDATE meetings SET transcript = ?, status = ? WHERE task_id = ?
	`, transcript, StatusSummarizing, taskID)
}

// SaveSummary commits the summary, marks the record completed and stamps
// completed_at in one write.
func (s *Store) SaveSummary(ctx context.Context, taskID, overview, summaryJSON string) error {
	return s.exec(ctx, taskID, `
		UPDATE meetings SET summary_overview = ?, summary_data = ?, status = ?, completed_at = ?
		WHERE task_id = ?
	`, overview, summaryJSON, StatusCompleted, unixFloat(time.Now()), taskID)
}

// List returns all records, newest first.
func (s *Store) List(ctx context.Context) ([]*Meeting, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, task_id, filename, file_path, status, transcript,
		       summary_overview, summary_data, created_at, completed_at, recording_type
		FROM meetings
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query meetings: %w", err)
	}
	defer rows.Close()

	var meetings []*Meeting
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, fmt.Errorf("scan meeting: %w", err)
		}
		meetings = append(meetings, m)
	}
	return meetings, rows.Err()
}

// Delete removes a record by task id.
func (s *Store) Delete(ctx context.Context, taskID string) error {
	return s.exec(ctx, taskID, `DELETE FROM meetings WHERE task_id = ?`, taskID)
}

func (s *Store) exec(ctx context.Context, taskID, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update meeting %s: %w", taskID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeeting(row rowScanner) (*Meeting, error) {
	var m Meeting
	var transcript, overview, data, recType sql.NullString
	var createdAt float64
	var completedAt sql.NullFloat64

	if err := row.Scan(&m.ID, &m.TaskID, &m.Filename, &m.FilePath, &m.Status,
		&transcript, &overview, &data, &createdAt, &completedAt, &recType); err != nil {
		return nil, err
	}

	m.Transcript = transcript.String
	m.SummaryOverview = overview.String
	m.SummaryData = data.String
	m.RecordingType = recType.String
	m.CreatedAt = timeFromUnix(createdAt)
	if completedAt.Valid {
		t := timeFromUnix(completedAt.Float64)
		m.CompletedAt = &t
	}

	return &m, nil
}

func unixFloat(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

func timeFromUnix(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}
