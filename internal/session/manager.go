package session

import (
	"sync"

	"github.com/bloodlink/bloodbot/core/logger"
	tghelpers "github.com/bloodlink/bloodbot/core/telegram/helpers"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Manager owns user sessions and dispatches updates to the handler
// registered for the user's current state.
type Manager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
	handlers map[State]tele.HandlerFunc
}

// NewManager constructs an empty in-memory session manager.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[int64]*Session),
		handlers: make(map[State]tele.HandlerFunc),
	}
}

// Register associates a state with its input handler.
func (m *Manager) Register(st State, h tele.HandlerFunc) {
	if h == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[st] = h
}

// Get returns the session for a user, creating an idle one if missing.
func (m *Manager) Get(userID int64) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionLocked(userID)
}

// SetState moves the user to the given conversation step.
func (m *Manager) SetState(userID int64, st State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionLocked(userID).State = st
}

// GetState returns the user's current step, or StateIdle if none.
func (m *Manager) GetState(userID int64) State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sess, ok := m.sessions[userID]; ok {
		return sess.State
	}
	return StateIdle
}

// Reset drops all drafts and returns the user to idle.
func (m *Manager) Reset(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

// InProgress reports whether the user is inside an active flow.
func (m *Manager) InProgress(userID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[userID]
	return ok && sess.State != StateIdle
}

// Handle runs the handler registered for the user's current state.
func (m *Manager) Handle(c tele.Context) error {
	userID := c.Sender().ID

	m.mu.RLock()
	current := StateIdle
	if sess, ok := m.sessions[userID]; ok {
		current = sess.State
	}
	handler := m.handlers[current]
	m.mu.RUnlock()

	ctx := tghelpers.BuildContext(c)
	logger.Debug(ctx, "tg", "fsm.dispatch",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.String("state", string(current)),
	)

	if handler == nil {
		return nil
	}
	return handler(c)
}

func (m *Manager) sessionLocked(userID int64) *Session {
	sess, ok := m.sessions[userID]
	if !ok {
		sess = &Session{State: StateIdle}
		m.sessions[userID] = sess
	}
	return sess
}
