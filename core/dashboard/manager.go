package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/robfig/cron/v3"

	"opsassist-dashboard/core/lifecycle"
	"opsassist-dashboard/core/utils"
)

type ManagerOptions struct {
	Lifecycle     lifecycle.Options
	IdleTTL       time.Duration
	SweepSchedule string
}

// Manager keeps dashboard sessions keyed by a random UUID and expires idle ones.
type Manager struct {
	source IncidentSource
	opts   ManagerOptions
	logger *utils.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session

	schedule cron.Schedule
	cron     *cron.Cron
	started  bool
}

func NewManager(source IncidentSource, opts ManagerOptions, logger *utils.Logger) (*Manager, error) {
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = 30 * time.Minute
	}
	if opts.SweepSchedule == "" {
		opts.SweepSchedule = "@every 1m"
	}
	schedule, err := cron.ParseStandard(opts.SweepSchedule)
	if err != nil {
		return nil, fmt.Errorf("parse sweep schedule %q: %w", opts.SweepSchedule, err)
	}
	return &Manager{
		source:   source,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
		sessions: map[string]*Session{},
		schedule: schedule,
	}, nil
}

// GetOrCreate returns the session for id, or a fresh one when id is empty, malformed
// or expired. The boolean reports whether a new session was created.
func (m *Manager) GetOrCreate(id string) (*Session, bool) {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	if parsed, err := uuid.FromString(id); err == nil {
		if sess, ok := m.sessions[parsed.String()]; ok {
			sess.touch(now)
			return sess, false
		}
	}
	newID := uuid.Must(uuid.NewV4())
	sess := newSession(newID.String(), m.source, m.opts.Lifecycle, m.logger, now)
	m.sessions[sess.ID] = sess
	return sess, true
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	return sess, ok
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops sessions idle longer than the TTL. Sessions with a pending transition stay.
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, sess := range m.sessions {
		if now.Sub(sess.idleSince()) < m.opts.IdleTTL {
			continue
		}
		if sess.controller.InFlight() {
			continue
		}
		delete(m.sessions, id)
		removed++
	}
	if removed > 0 && m.logger != nil {
		m.logger.Debugf("dashboard: swept %d idle sessions", removed)
	}
	return removed
}

// StartWithContext runs the idle sweep on the configured schedule until ctx ends
// or StopWithContext is called.
func (m *Manager) StartWithContext(ctx context.Context) {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return
	}
	c := cron.New()
	c.Schedule(m.schedule, cron.FuncJob(func() {
		m.Sweep(m.now())
	}))
	c.Start()
	m.cron = c
	m.started = true
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = m.StopWithContext(stopCtx)
	}()
}

func (m *Manager) StopWithContext(ctx context.Context) error {
	m.mu.Lock()
	c := m.cron
	m.cron = nil
	m.started = false
	m.mu.Unlock()
	if c == nil {
		return nil
	}
	stopped := c.Stop()
	select {
	case <-stopped.Done():
		return nil
	case <-ctx.Done():
		return errors.Join(errors.New("dashboard session sweeper stop timed out"), ctx.Err())
	}
}
