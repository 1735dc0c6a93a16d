package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pollagents/pollagents/internal/domain"
	"github.com/pollagents/pollagents/internal/server"
)

type fakeRepo struct {
	pingErr error
}

func (f *fakeRepo) GetActiveQuestionSet(ctx context.Context) (*domain.QuestionSet, error) {
	return nil, nil
}
func (f *fakeRepo) GetQuestionSet(ctx context.Context, id string) (*domain.QuestionSet, error) {
	return nil, nil
}
func (f *fakeRepo) CreateQuestionSet(ctx context.Context, qs *domain.QuestionSet) error { return nil }
func (f *fakeRepo) ListQuestionSets(ctx context.Context) ([]*domain.QuestionSet, error) {
	return nil, nil
}
func (f *fakeRepo) SaveResponse(ctx context.Context, r *domain.AgentResponse) error { return nil }
func (f *fakeRepo) GetResponsesByEmail(ctx context.Context, email string) ([]*domain.AgentResponse, error) {
	return nil, nil
}
func (f *fakeRepo) Ping(ctx context.Context) error { return f.pingErr }
func (f *fakeRepo) Close() error                   { return nil }

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	data := map[string]string{"foo": "bar"}

	JSON(w, http.StatusOK, data)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var got map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if got["foo"] != "bar" {
		t.Errorf("Expected foo=bar, got %v", got["foo"])
	}
}

func TestGetStats(t *testing.T) {
	registry := server.NewRegistry()
	registry.Add(domain.NewAgentSession("sess-1"))
	registry.Add(domain.NewAgentSession("sess-2"))

	h := NewStatsHandler(&fakeRepo{}, registry)

	w := httptest.NewRecorder()
	h.GetStats(w, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	var got map[string]interface{}
	if err := json.NewDecoder(w.Result().Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if got["active_sessions"] != float64(2) {
		t.Errorf("expected 2 active sessions, got %v", got["active_sessions"])
	}
	if got["storage"] != "ok" {
		t.Errorf("expected storage ok, got %v", got["storage"])
	}
}

func TestGetStatsStorageUnreachable(t *testing.T) {
	h := NewStatsHandler(&fakeRepo{pingErr: errors.New("down")}, server.NewRegistry())

	w := httptest.NewRecorder()
	h.GetStats(w, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	var got map[string]interface{}
	if err := json.NewDecoder(w.Result().Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if got["storage"] != "unreachable" {
		t.Errorf("expected storage unreachable, got %v", got["storage"])
	}
}
