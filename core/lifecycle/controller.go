package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"opsassist-dashboard/core/incidents"
	"opsassist-dashboard/core/utils"
)

var (
	ErrBusy              = errors.New("lifecycle.error.busy")
	ErrInvalidTransition = errors.New("lifecycle.error.invalid_transition")
	ErrTransitionTimeout = errors.New("lifecycle.error.timeout")
)

const defaultTransitionTimeout = 15 * time.Second

type IncidentStore interface {
	GetIncident(ctx context.Context, id int64) (*incidents.Incident, error)
	UpdateStatus(ctx context.Context, id int64, status incidents.Status) (*incidents.Incident, error)
}

type Options struct {
	Timeout                time.Duration
	RefreshAfterTransition bool
}

// Controller mediates operator intent and the persisted status of incidents.
// It is owned by one dashboard session; the busy flag is per incident.
type Controller struct {
	store   IncidentStore
	logger  *utils.Logger
	timeout time.Duration
	refresh bool

	mu       sync.Mutex
	inFlight map[int64]struct{}
	known    map[int64]incidents.Incident
}

func NewController(store IncidentStore, opts Options, logger *utils.Logger) *Controller {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTransitionTimeout
	}
	return &Controller{
		store:    store,
		logger:   logger,
		timeout:  timeout,
		refresh:  opts.RefreshAfterTransition,
		inFlight: map[int64]struct{}{},
		known:    map[int64]incidents.Incident{},
	}
}

// Load fetches the incident from the store and replaces the local copy.
func (c *Controller) Load(ctx context.Context, id int64) (incidents.Incident, error) {
	inc, err := c.store.GetIncident(ctx, id)
	if err != nil {
		return incidents.Incident{}, err
	}
	if inc == nil {
		return incidents.Incident{}, fmt.Errorf("incident %d: empty response", id)
	}
	c.Remember(*inc)
	return inc.Clone(), nil
}

func (c *Controller) Remember(inc incidents.Incident) {
	c.mu.Lock()
	c.known[inc.ID] = inc.Clone()
	c.mu.Unlock()
}

// SyncStatus applies a status seen in a fresher listing to the local copy.
// Unknown incidents and incidents with a pending transition are left alone.
func (c *Controller) SyncStatus(id int64, status incidents.Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inFlight[id]; busy {
		return
	}
	if inc, ok := c.known[id]; ok && inc.Status != status {
		c.known[id] = inc.WithStatus(status)
	}
}

func (c *Controller) Current(id int64) (incidents.Incident, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	inc, ok := c.known[id]
	if !ok {
		return incidents.Incident{}, false
	}
	return inc.Clone(), true
}

func (c *Controller) Busy(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.inFlight[id]
	return ok
}

// InFlight reports whether any transition is pending.
func (c *Controller) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.inFlight) > 0
}

// Perform resolves an action against the incident's current status and runs it.
func (c *Controller) Perform(ctx context.Context, id int64, action incidents.Action) (incidents.Incident, error) {
	current, err := c.ensureKnown(ctx, id)
	if err != nil {
		return incidents.Incident{}, err
	}
	target, ok := incidents.TargetFor(current.Status, action)
	if !ok {
		return incidents.Incident{}, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, action, current.Status)
	}
	return c.RequestTransition(ctx, id, target)
}

// RequestTransition moves the incident to target. Nothing is sent when the incident is
// busy or the move is not in the transition table. On failure the local copy is left as is.
func (c *Controller) RequestTransition(ctx context.Context, id int64, target incidents.Status) (incidents.Incident, error) {
	if !target.Valid() {
		return incidents.Incident{}, fmt.Errorf("%w: %w: %q", ErrInvalidTransition, incidents.ErrUnknownStatus, target)
	}
	if !c.acquireSlot(id) {
		return incidents.Incident{}, ErrBusy
	}
	defer c.releaseSlot(id)

	current, err := c.ensureKnown(ctx, id)
	if err != nil {
		return incidents.Incident{}, err
	}
	if !incidents.CanTransition(current.Status, target) {
		return incidents.Incident{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, target)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if _, err := c.store.UpdateStatus(callCtx, id, target); err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			c.logf("lifecycle: incident %d transition to %s timed out after %s", id, target, c.timeout)
			return incidents.Incident{}, fmt.Errorf("%w: %w", ErrTransitionTimeout, err)
		}
		c.logf("lifecycle: incident %d transition to %s failed: %v", id, target, err)
		return incidents.Incident{}, fmt.Errorf("transition incident %d to %s: %w", id, target, err)
	}

	next := current.WithStatus(target)
	if c.refresh {
		fresh, err := c.store.GetIncident(ctx, id)
		switch {
		case err != nil:
			c.logf("lifecycle: refresh of incident %d after transition failed, keeping local patch: %v", id, err)
		case fresh != nil:
			next = fresh.Clone()
		}
	}
	c.Remember(next)
	return next.Clone(), nil
}

func (c *Controller) ensureKnown(ctx context.Context, id int64) (incidents.Incident, error) {
	if inc, ok := c.Current(id); ok {
		return inc, nil
	}
	return c.Load(ctx, id)
}

func (c *Controller) acquireSlot(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.inFlight[id]; ok {
		return false
	}
	c.inFlight[id] = struct{}{}
	return true
}

func (c *Controller) releaseSlot(id int64) {
	c.mu.Lock()
	delete(c.inFlight, id)
	c.mu.Unlock()
}

func (c *Controller) logf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Errorf(format, args...)
	}
}
