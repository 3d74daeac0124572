package workspace

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/charlesng35/geocurator/internal/realtime"
	"github.com/charlesng35/geocurator/pkg/logger"
	"github.com/charlesng35/geocurator/pkg/metrics"
)

// DefaultIdleTimeout applies when RegistryConfig.IdleTimeout is zero.
const DefaultIdleTimeout = 30 * time.Minute

// RegistryConfig tunes session lifetime.
type RegistryConfig struct {
	IdleTimeout time.Duration
	// OnExpire runs after a session is dropped, outside the registry lock.
	OnExpire func(sessionID string)
	Now      func() time.Time
}

// Registry maps session ids to their controllers.
type Registry struct {
	publisher realtime.Publisher
	idle      time.Duration
	onExpire  func(string)
	now       func() time.Time
	log       *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Controller
}

// NewRegistry constructs an empty registry publishing through publisher.
func NewRegistry(publisher realtime.Publisher, cfg RegistryConfig) *Registry {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Registry{
		publisher: publisher,
		idle:      cfg.IdleTimeout,
		onExpire:  cfg.OnExpire,
		now:       cfg.Now,
		log:       logger.WithModule("workspace"),
		sessions:  make(map[string]*Controller),
	}
}

// Acquire returns the controller for sessionID, creating a session under a fresh id
// when sessionID is empty, malformed or unknown. The returned id is the one to hand
// back to the client.
func (r *Registry) Acquire(sessionID string) (*Controller, string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := uuid.Parse(sessionID); err == nil {
		if ctrl, ok := r.sessions[sessionID]; ok {
			ctrl.touch()
			return ctrl, sessionID
		}
	}

	id := uuid.NewString()
	ctrl := newController(id, r.publisher, r.now)
	r.sessions[id] = ctrl
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
	r.log.Debug("session created", zap.String("session", id))
	return ctrl, id
}

// Lookup returns an existing session without creating one.
func (r *Registry) Lookup(sessionID string) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ctrl, ok := r.sessions[sessionID]
	return ctrl, ok
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than the configured timeout and returns
// how many were removed.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.idle)

	r.mu.Lock()
	var expired []string
	for id, ctrl := range r.sessions {
		if ctrl.idleSince().Before(cutoff) {
			delete(r.sessions, id)
			expired = append(expired, id)
		}
	}
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
	r.mu.Unlock()

	if r.onExpire != nil {
		for _, id := range expired {
			r.onExpire(id)
		}
	}
	if len(expired) > 0 {
		r.log.Info("expired idle sessions", zap.Int("count", len(expired)))
	}
	return len(expired)
}
