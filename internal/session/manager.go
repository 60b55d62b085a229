// Package session owns the durable session identity: one opaque id per
// install, stable across runs until explicitly rotated.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Store persists the session id across runs.
type Store interface {
	SessionID(ctx context.Context) (string, error)
	SetSessionID(ctx context.Context, id string) error
}

// Notifier tells the backend a session may be discarded.
type Notifier interface {
	EndSession(ctx context.Context, sessionID string) error
}

// Manager hands out the current session id and rotates it on demand.
// Current and Reset may be called from different goroutines (Reset runs
// off the UI loop because it does network work), so the id cell is
// guarded; the last writer wins.
type Manager struct {
	store    Store
	notifier Notifier
	logger   *slog.Logger

	mu      sync.Mutex
	current string
}

// NewManager loads the stored session id, creating and persisting a
// fresh one on first use.
func NewManager(ctx context.Context, store Store, notifier Notifier, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}

	id, err := store.SessionID(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if id == "" {
		id = uuid.New().String()
		if err := store.SetSessionID(ctx, id); err != nil {
			return nil, fmt.Errorf("persist session: %w", err)
		}
		logger.Info("created session", "session_id", id)
	}

	return &Manager{store: store, notifier: notifier, logger: logger, current: id}, nil
}

// Current returns the session id in effect right now.
func (m *Manager) Current() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Reset rotates the session id: the backend is told the old session may
// be discarded (best effort; failures are logged and ignored), then a
// fresh id is generated, persisted and installed. The rotation itself
// never fails because of the notify step.
func (m *Manager) Reset(ctx context.Context) (string, error) {
	old := m.Current()

	if m.notifier != nil {
		if err := m.notifier.EndSession(ctx, old); err != nil {
			m.logger.Warn("end session notify failed", "session_id", old, "error", err)
		}
	}

	id := uuid.New().String()
	if err := m.store.SetSessionID(ctx, id); err != nil {
		return "", fmt.Errorf("persist session: %w", err)
	}

	m.mu.Lock()
	m.current = id
	m.mu.Unlock()

	m.logger.Info("session rotated", "old", old, "new", id)
	return id, nil
}
