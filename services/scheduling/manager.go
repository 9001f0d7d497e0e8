package scheduling

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"knipetak/utils"

	"github.com/go-redis/redis/v8"
)

// sessionTTL is how long an idle session survives in Redis before the
// customer has to start over.
const sessionTTL = 10 * time.Minute

// Manager tracks live sessions in memory and snapshots their selection
// state to Redis, so an interrupted flow can resume on another instance.
type Manager struct {
	svc *Service

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(svc *Service) *Manager {
	return &Manager{
		svc:      svc,
		sessions: make(map[string]*Session),
	}
}

// Open creates a new session and persists its initial snapshot.
func (m *Manager) Open(ctx context.Context) (*Session, error) {
	session := m.svc.NewSession()

	m.mu.Lock()
	m.sessions[session.State().ID] = session
	m.mu.Unlock()

	if err := m.Snapshot(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Resume returns the live session for the id, or rebuilds one from its
// Redis snapshot when this instance has never seen it.
func (m *Manager) Resume(ctx context.Context, sessionID string) (*Session, error) {
	m.mu.Lock()
	if session, ok := m.sessions[sessionID]; ok {
		m.mu.Unlock()
		return session, nil
	}
	m.mu.Unlock()

	data, err := utils.GetSessionCacheClient().Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("scheduling session %s not found or expired", sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load scheduling session: %w", err)
	}

	var state SessionState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("failed to parse scheduling session: %w", err)
	}

	session := m.svc.NewSession()
	session.Restore(state)

	m.mu.Lock()
	m.sessions[sessionID] = session
	m.mu.Unlock()
	return session, nil
}

// Snapshot persists the session's current selection state with a sliding
// TTL.
func (m *Manager) Snapshot(ctx context.Context, session *Session) error {
	state := session.State()
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal scheduling session: %w", err)
	}
	if err := utils.GetSessionCacheClient().Set(ctx, sessionKey(state.ID), data, sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to store scheduling session: %w", err)
	}
	return nil
}

// Close drops the session from memory and Redis.
func (m *Manager) Close(ctx context.Context, sessionID string) {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
	utils.GetSessionCacheClient().Del(ctx, sessionKey(sessionID))
}

func sessionKey(sessionID string) string {
	return "schedsession:" + sessionID
}
