package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/domview/internal/config"
	"github.com/dgallion1/domview/internal/stats"
	"github.com/dgallion1/domview/internal/viewer"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// DefaultCleanupInterval is how often idle sessions are evicted.
const DefaultCleanupInterval = time.Minute

// Manager creates sessions and runs the idle-session janitor.
type Manager struct {
	store *Store
	stats *stats.Recorder
	log   *slog.Logger
	cfg   config.Config

	// Interval between janitor sweeps. Set before Start.
	Interval time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewManager creates a manager. rec may be shared with other components.
func NewManager(cfg config.Config, rec *stats.Recorder, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		store:    NewStore(cfg.SessionTTL),
		stats:    rec,
		log:      log,
		cfg:      cfg,
		Interval: DefaultCleanupInterval,
	}
}

// Start launches the janitor goroutine.
func (m *Manager) Start(ctx context.Context) {
	janitorCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-janitorCtx.Done():
				return
			case <-ticker.C:
				if n := m.store.Cleanup(); n > 0 {
					m.log.Info("evicted idle sessions", "count", n, "active", m.store.Len())
				}
			}
		}
	}()
}

// Stop halts the janitor and waits for it to exit.
func (m *Manager) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
}

// Create starts a new session with a fresh viewer.
func (m *Manager) Create() (*Session, error) {
	app, err := viewer.NewFromConfig(m.cfg, m.stats, m.log)
	if err != nil {
		return nil, fmt.Errorf("create viewer: %w", err)
	}

	now := time.Now()
	sess := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		App:       app,
	}
	if m.cfg.RateLimit > 0 {
		sess.limiter = rate.NewLimiter(rate.Limit(m.cfg.RateLimit), max(m.cfg.RateBurst, 1))
	}
	m.store.Put(sess)
	m.log.Debug("session created", "session_id", sess.ID)
	return sess, nil
}

// Get returns the session and marks it used, or nil when unknown.
func (m *Manager) Get(id string) *Session {
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}
	sess := m.store.Get(id)
	if sess != nil {
		sess.Touch()
	}
	return sess
}

// Delete ends a session.
func (m *Manager) Delete(id string) bool {
	return m.store.Delete(id)
}

// Active returns the number of live sessions.
func (m *Manager) Active() int {
	return m.store.Len()
}

// Config returns the configuration new sessions are built from.
func (m *Manager) Config() config.Config {
	return m.cfg
}
