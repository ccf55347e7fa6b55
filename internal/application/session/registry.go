package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/khoahotran/spotme/internal/application/lifecycle"
	"github.com/khoahotran/spotme/pkg/logger"
)

const DefaultMaxSessions = 1024

// Registry holds at most a fixed number of sessions, evicting the least
// recently used one when full.
type Registry struct {
	deps     Deps
	logger   logger.Logger
	sessions *lru.Cache[uuid.UUID, *Session]
}

func NewRegistry(size int, deps Deps) (*Registry, error) {
	if size <= 0 {
		size = DefaultMaxSessions
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNopLogger()
	}
	r := &Registry{deps: deps, logger: deps.Logger.With(zap.String("component", "session_registry"))}

	sessions, err := lru.NewWithEvict[uuid.UUID, *Session](size, r.onEvict)
	if err != nil {
		return nil, fmt.Errorf("create session cache: %w", err)
	}
	r.sessions = sessions
	return r, nil
}

func (r *Registry) onEvict(userID uuid.UUID, s *Session) {
	if s.Controller.State() == lifecycle.StateDraft {
		r.logger.Warn("Evicting session with unsaved edits", zap.String("user_id", userID.String()))
	}
	s.Close()
	r.deps.Metrics.SessionsResident(r.sessions.Len())
}

// Open returns the user's resident session, loading the document into a
// new one on first use. Loads run without a registry-wide lock; when two
// first opens for one user race, the session added first wins and the
// other is discarded.
func (r *Registry) Open(ctx context.Context, id lifecycle.Identity) (*Session, error) {
	if s, ok := r.sessions.Get(id.UserID); ok {
		return s, nil
	}
	s := New(id.UserID, r.deps)
	if _, err := s.Controller.Open(ctx, id); err != nil {
		s.Close()
		return nil, err
	}
	if prev, found, _ := r.sessions.PeekOrAdd(id.UserID, s); found {
		s.Close()
		r.sessions.Get(id.UserID)
		return prev, nil
	}
	r.deps.Metrics.SessionsResident(r.sessions.Len())
	r.logger.Info("Editing session opened", zap.String("user_id", id.UserID.String()))
	return s, nil
}

func (r *Registry) Get(userID uuid.UUID) (*Session, bool) {
	return r.sessions.Get(userID)
}

// Close drops the user's session, if any.
func (r *Registry) Close(userID uuid.UUID) {
	r.sessions.Remove(userID)
}

func (r *Registry) Len() int {
	return r.sessions.Len()
}
