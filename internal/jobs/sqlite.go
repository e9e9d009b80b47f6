package jobs

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jjones1stptllc/titlegrab-desktop/constants"
	"github.com/jjones1stptllc/titlegrab-desktop/internal/llm"
)

// SqliteStore persists jobs across restarts so a completed extraction
// survives an application relaunch. Results are stored as JSON.
type SqliteStore struct {
	db *sql.DB
}

const createJobsTable = `
CREATE TABLE IF NOT EXISTS jobs (
	id          TEXT PRIMARY KEY,
	filename    TEXT NOT NULL,
	status      TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	result_json TEXT,
	error       TEXT
)`

func NewSqliteStore(path string) (*SqliteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if _, err := db.Exec(createJobsTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create jobs table: %w", err)
	}
	return &SqliteStore{db: db}, nil
}

func (s *SqliteStore) Close() error {
	return s.db.Close()
}

func (s *SqliteStore) Put(job Job) error {
	var resultJSON sql.NullString
	if job.Result != nil {
		b, err := json.Marshal(job.Result)
		if err != nil {
			return fmt.Errorf("marshal result for job %s: %w", job.ID, err)
		}
		resultJSON = sql.NullString{String: string(b), Valid: true}
	}
	_, err := s.db.Exec(`
		INSERT INTO jobs (id, filename, status, created_at, result_json, error)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			result_json = excluded.result_json,
			error = excluded.error`,
		job.ID, job.Filename, string(job.Status),
		job.CreatedAt.Format(time.RFC3339Nano), resultJSON, job.Error)
	return err
}

func (s *SqliteStore) Get(id string) (Job, bool, error) {
	row := s.db.QueryRow(`
		SELECT id, filename, status, created_at, result_json, error
		FROM jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Job{}, false, nil
	}
	if err != nil {
		return Job{}, false, err
	}
	return job, true, nil
}

func (s *SqliteStore) List() ([]Job, error) {
	rows, err := s.db.Query(`
		SELECT id, filename, status, created_at, result_json, error
		FROM jobs`)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

func (s *SqliteStore) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM jobs`).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(r rowScanner) (Job, error) {
	var (
		job        Job
		status     string
		createdAt  string
		resultJSON sql.NullString
		errMsg     sql.NullString
	)
	if err := r.Scan(&job.ID, &job.Filename, &status, &createdAt, &resultJSON, &errMsg); err != nil {
		return Job{}, err
	}
	job.Status = constants.JobStatus(status)
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		job.CreatedAt = t
	}
	if resultJSON.Valid && resultJSON.String != "" {
		var doc llm.ExtractedDocument
		if err := json.Unmarshal([]byte(resultJSON.String), &doc); err != nil {
			return Job{}, fmt.Errorf("decode stored result for job %s: %w", job.ID, err)
		}
		job.Result = &doc
	}
	job.Error = errMsg.String
	return job, nil
}
