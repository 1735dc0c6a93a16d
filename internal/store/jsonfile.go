package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/pollagents/pollagents/internal/domain"
)

// JSONFileStore implements Repository using flat JSON files under a
// data directory. Writes are serialized internally; callers never need
// to coordinate access.
type JSONFileStore struct {
	mu            sync.Mutex
	questionsPath string
	responsesPath string
}

type questionSetRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Questions []string  `json:"questions"`
	CreatedAt time.Time `json:"created_at"`
	Active    bool      `json:"active"`
}

type responseRecord struct {
	ID            string    `json:"id"`
	QuestionSetID string    `json:"question_set_id"`
	AgentEmail    string    `json:"agent_email"`
	Answers       []bool    `json:"answers"`
	CompletedAt   time.Time `json:"completed_at"`
}

// NewJSONFile creates a flat-file repository rooted at dataPath.
func NewJSONFile(dataPath string) (*JSONFileStore, error) {
	if err := os.MkdirAll(dataPath, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &JSONFileStore{
		questionsPath: filepath.Join(dataPath, "question_sets.json"),
		responsesPath: filepath.Join(dataPath, "responses.json"),
	}, nil
}

func readRecords[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return records, nil
}

func writeRecords[T any](path string, records []T) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	// Write-then-rename so a crash mid-write never corrupts the store.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(tmp), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

func toQuestionSet(rec questionSetRecord) (*domain.QuestionSet, error) {
	return domain.NewQuestionSet(rec.ID, rec.Name, rec.Questions, rec.CreatedAt, rec.Active)
}

// GetActiveQuestionSet returns the most recently created active question set.
func (s *JSONFileStore) GetActiveQuestionSet(ctx context.Context) (*domain.QuestionSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := readRecords[questionSetRecord](s.questionsPath)
	if err != nil {
		return nil, err
	}
	var newest *questionSetRecord
	for i := range records {
		if !records[i].Active {
			continue
		}
		if newest == nil || records[i].CreatedAt.After(newest.CreatedAt) {
			newest = &records[i]
		}
	}
	if newest == nil {
		return nil, nil
	}
	return toQuestionSet(*newest)
}

// GetQuestionSet returns a question set by ID.
func (s *JSONFileStore) GetQuestionSet(ctx context.Context, id string) (*domain.QuestionSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := readRecords[questionSetRecord](s.questionsPath)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.ID == id {
			return toQuestionSet(rec)
		}
	}
	return nil, nil
}

// CreateQuestionSet appends a new question set to the store.
func (s *JSONFileStore) CreateQuestionSet(ctx context.Context, qs *domain.QuestionSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := readRecords[questionSetRecord](s.questionsPath)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if rec.ID == qs.ID {
			return fmt.Errorf("question set %s already exists", qs.ID)
		}
	}
	records = append(records, questionSetRecord{
		ID:        qs.ID,
		Name:      qs.Name,
		Questions: qs.Questions[:],
		CreatedAt: qs.CreatedAt,
		Active:    qs.Active,
	})
	return writeRecords(s.questionsPath, records)
}

// ListQuestionSets returns all question sets, newest first.
func (s *JSONFileStore) ListQuestionSets(ctx context.Context) ([]*domain.QuestionSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := readRecords[questionSetRecord](s.questionsPath)
	if err != nil {
		return nil, err
	}
	sets := make([]*domain.QuestionSet, 0, len(records))
	for _, rec := range records {
		qs, err := toQuestionSet(rec)
		if err != nil {
			return nil, err
		}
		sets = append(sets, qs)
	}
	sort.Slice(sets, func(i, j int) bool {
		return sets[i].CreatedAt.After(sets[j].CreatedAt)
	})
	return sets, nil
}

// SaveResponse appends a completed response to the store.
func (s *JSONFileStore) SaveResponse(ctx context.Context, r *domain.AgentResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := readRecords[responseRecord](s.responsesPath)
	if err != nil {
		return err
	}
	records = append(records, responseRecord{
		ID:            r.ID,
		QuestionSetID: r.QuestionSetID,
		AgentEmail:    r.AgentEmail,
		Answers:       r.Answers[:],
		CompletedAt:   r.CompletedAt,
	})
	if err := writeRecords(s.responsesPath, records); err != nil {
		return err
	}
	logResponseRecorded(r)
	return nil
}

// GetResponsesByEmail returns all responses submitted by an agent.
func (s *JSONFileStore) GetResponsesByEmail(ctx context.Context, email string) ([]*domain.AgentResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := readRecords[responseRecord](s.responsesPath)
	if err != nil {
		return nil, err
	}
	var responses []*domain.AgentResponse
	for _, rec := range records {
		if rec.AgentEmail != email {
			continue
		}
		r, err := domain.NewAgentResponse(rec.ID, rec.QuestionSetID, rec.AgentEmail, rec.Answers, rec.CompletedAt)
		if err != nil {
			return nil, err
		}
		responses = append(responses, r)
	}
	return responses, nil
}

// Ping verifies the data directory is accessible.
func (s *JSONFileStore) Ping(ctx context.Context) error {
	if _, err := os.Stat(filepath.Dir(s.questionsPath)); err != nil {
		return fmt.Errorf("stat data directory: %w", err)
	}
	return nil
}

// Close is a no-op for the flat-file backend.
func (s *JSONFileStore) Close() error {
	return nil
}
