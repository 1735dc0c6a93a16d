package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/pollagents/pollagents/internal/config"
	"github.com/pollagents/pollagents/internal/conversation"
	"github.com/pollagents/pollagents/internal/domain"
	"github.com/pollagents/pollagents/internal/store"
)

const (
	msgNoActiveSurvey = "No active question set available. Please try again later."
	msgStorageFailure = "We were unable to record your responses due to a storage problem. Please reconnect and try again."
)

// WebSocketHandler orchestrates one survey conversation per connection.
type WebSocketHandler struct {
	repo     store.Repository
	mailer   conversation.Mailer
	registry *Registry
	cfg      *config.Config
}

// NewWebSocketHandler creates the conversation endpoint handler.
func NewWebSocketHandler(repo store.Repository, mailer conversation.Mailer, registry *Registry, cfg *config.Config) *WebSocketHandler {
	return &WebSocketHandler{
		repo:     repo,
		mailer:   mailer,
		registry: registry,
		cfg:      cfg,
	}
}

// ServeHTTP upgrades the connection and runs the conversation loop.
// Each connection gets its own session and state machine; the session
// is owned by this goroutine alone and always evicted from the
// registry on exit, whatever path the conversation took.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "ip", r.RemoteAddr)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr)
		}
	}()

	sessionID := uuid.NewString()
	session := domain.NewAgentSession(sessionID)
	h.registry.Add(session)
	defer h.registry.Remove(sessionID)
	defer func() { session.State = domain.StateDisconnected }()

	slog.Info("Agent connected", "session_id", sessionID, "ip", r.RemoteAddr)

	ctx := r.Context()

	questionSet, err := h.repo.GetActiveQuestionSet(ctx)
	if err != nil {
		slog.Error("Failed to load active question set", "error", err, "session_id", sessionID)
		h.writeText(ctx, ws, msgNoActiveSurvey)
		return
	}
	if questionSet == nil {
		slog.Warn("No active question set", "session_id", sessionID)
		h.writeText(ctx, ws, msgNoActiveSurvey)
		return
	}

	session.QuestionSet = questionSet
	machine := conversation.New(session, h.mailer, h.repo, conversation.Options{
		CodeLength: h.cfg.Verification.CodeLength,
		CodeExpiry: h.cfg.Verification.CodeExpiry,
	})

	if !h.writeText(ctx, ws, machine.Welcome()) {
		return
	}

	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				slog.Debug("WebSocket closed by client", "session_id", sessionID)
			} else {
				slog.Warn("WebSocket read error", "error", err, "session_id", sessionID)
			}
			return
		}
		slog.Debug("Received input", "session_id", sessionID, "length", len(data))

		reply, err := machine.Advance(ctx, string(data))
		if err != nil {
			slog.Error("Failed to persist completed response", "error", err, "session_id", sessionID)
			h.writeText(ctx, ws, msgStorageFailure)
			return
		}

		if reply != "" && !h.writeText(ctx, ws, reply) {
			return
		}

		if session.State == domain.StateCompleted {
			h.writeText(ctx, ws, machine.Summary())
			slog.Info("Survey completed", "session_id", sessionID, "email", session.Email)
			return
		}
	}
}

func (h *WebSocketHandler) writeText(ctx context.Context, ws *websocket.Conn, text string) bool {
	if err := ws.Write(ctx, websocket.MessageText, []byte(text)); err != nil {
		slog.Debug("WebSocket write error", "error", err)
		return false
	}
	return true
}
