package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pollagents/pollagents/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS question_sets (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		q1 TEXT NOT NULL,
		q2 TEXT NOT NULL,
		q3 TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		active INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_question_sets_active ON question_sets(active, created_at);

	CREATE TABLE IF NOT EXISTS agent_responses (
		id TEXT PRIMARY KEY,
		question_set_id TEXT NOT NULL,
		agent_email TEXT NOT NULL,
		a1 INTEGER NOT NULL,
		a2 INTEGER NOT NULL,
		a3 INTEGER NOT NULL,
		completed_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_agent_responses_email ON agent_responses(agent_email);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

func scanQuestionSet(row interface{ Scan(...any) error }) (*domain.QuestionSet, error) {
	var (
		id, name   string
		q1, q2, q3 string
		createdAt  int64
		active     int
	)
	err := row.Scan(&id, &name, &q1, &q2, &q3, &createdAt, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan question set row: %w", err)
	}
	return domain.NewQuestionSet(id, name, []string{q1, q2, q3}, time.Unix(createdAt, 0), active != 0)
}

// GetActiveQuestionSet returns the most recently created active question set.
func (s *SQLiteStore) GetActiveQuestionSet(ctx context.Context) (*domain.QuestionSet, error) {
	query := `
		SELECT id, name, q1, q2, q3, created_at, active
		FROM question_sets WHERE active = 1
		ORDER BY created_at DESC LIMIT 1`
	return scanQuestionSet(s.db.QueryRowContext(ctx, query))
}

// GetQuestionSet returns a question set by ID.
func (s *SQLiteStore) GetQuestionSet(ctx context.Context, id string) (*domain.QuestionSet, error) {
	query := `
		SELECT id, name, q1, q2, q3, created_at, active
		FROM question_sets WHERE id = ?`
	return scanQuestionSet(s.db.QueryRowContext(ctx, query, id))
}

// CreateQuestionSet stores a new question set.
func (s *SQLiteStore) CreateQuestionSet(ctx context.Context, qs *domain.QuestionSet) error {
	query := `
		INSERT INTO question_sets (id, name, q1, q2, q3, created_at, active)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	active := 0
	if qs.Active {
		active = 1
	}
	_, err := s.db.ExecContext(ctx, query,
		qs.ID, qs.Name, qs.Questions[0], qs.Questions[1], qs.Questions[2],
		qs.CreatedAt.Unix(), active,
	)
	if err != nil {
		return fmt.Errorf("create question set: %w", err)
	}
	return nil
}

// ListQuestionSets returns all question sets, newest first.
func (s *SQLiteStore) ListQuestionSets(ctx context.Context) ([]*domain.QuestionSet, error) {
	query := `
		SELECT id, name, q1, q2, q3, created_at, active
		FROM question_sets ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query question sets: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close question set rows", "error", closeErr)
		}
	}()

	var sets []*domain.QuestionSet
	for rows.Next() {
		qs, err := scanQuestionSet(rows)
		if err != nil {
			return nil, err
		}
		sets = append(sets, qs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate question sets: %w", err)
	}
	return sets, nil
}

// SaveResponse stores a completed response. Retries with exponential
// backoff when the database is locked by a concurrent writer.
func (s *SQLiteStore) SaveResponse(ctx context.Context, r *domain.AgentResponse) error {
	maxRetries := 3
	baseDelay := 100 * time.Millisecond

	var err error
	for i := 0; i < maxRetries; i++ {
		err = s.saveResponseOnce(ctx, r)
		if err == nil {
			logResponseRecorded(r)
			return nil
		}
		if !isSQLiteConflict(err) {
			return err
		}
		if i < maxRetries-1 {
			delay := baseDelay * time.Duration(1<<i)
			slog.Debug("SaveResponse conflicted, retrying",
				"response_id", r.ID,
				"attempt", i+1,
				"delay", delay)
			time.Sleep(delay)
		}
	}
	return fmt.Errorf("save response %s after %d attempts: %w", r.ID, maxRetries, err)
}

func (s *SQLiteStore) saveResponseOnce(ctx context.Context, r *domain.AgentResponse) error {
	query := `
		INSERT INTO agent_responses (id, question_set_id, agent_email, a1, a2, a3, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.QuestionSetID, r.AgentEmail,
		boolToInt(r.Answers[0]), boolToInt(r.Answers[1]), boolToInt(r.Answers[2]),
		r.CompletedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert response: %w", err)
	}
	return nil
}

// GetResponsesByEmail returns all responses submitted by an agent.
func (s *SQLiteStore) GetResponsesByEmail(ctx context.Context, email string) ([]*domain.AgentResponse, error) {
	query := `
		SELECT id, question_set_id, agent_email, a1, a2, a3, completed_at
		FROM agent_responses WHERE agent_email = ?
		ORDER BY completed_at DESC`

	rows, err := s.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("query responses: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close response rows", "error", closeErr)
		}
	}()

	var responses []*domain.AgentResponse
	for rows.Next() {
		var (
			id, questionSetID, agentEmail string
			a1, a2, a3                    int
			completedAt                   int64
		)
		if err := rows.Scan(&id, &questionSetID, &agentEmail, &a1, &a2, &a3, &completedAt); err != nil {
			return nil, fmt.Errorf("scan response row: %w", err)
		}
		r, err := domain.NewAgentResponse(id, questionSetID, agentEmail,
			[]bool{a1 != 0, a2 != 0, a3 != 0}, time.Unix(completedAt, 0))
		if err != nil {
			return nil, err
		}
		responses = append(responses, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate responses: %w", err)
	}
	return responses, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// isSQLiteConflict reports whether the error is a SQLite concurrency
// error (SQLITE_BUSY or "database is locked") that warrants a retry.
func isSQLiteConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}
