package dashboard

import (
	"context"
	"sync"
	"time"

	"opsassist-dashboard/core/incidents"
	"opsassist-dashboard/core/lifecycle"
	"opsassist-dashboard/core/utils"
)

type IncidentSource interface {
	lifecycle.IncidentStore
	ListIncidents(ctx context.Context) ([]incidents.IncidentSummary, error)
}

// Session holds the state of one operator UI session: the fetched list in store order
// and a lifecycle controller whose busy flags are private to the session.
type Session struct {
	ID string

	source     IncidentSource
	controller *lifecycle.Controller
	logger     *utils.Logger

	mu       sync.RWMutex
	list     []incidents.IncidentSummary
	loaded   bool
	lastSeen time.Time
}

func newSession(id string, source IncidentSource, opts lifecycle.Options, logger *utils.Logger, now time.Time) *Session {
	return &Session{
		ID:         id,
		source:     source,
		controller: lifecycle.NewController(source, opts, logger),
		logger:     logger,
		lastSeen:   now,
	}
}

func (s *Session) Refresh(ctx context.Context) error {
	items, err := s.source.ListIncidents(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.list = append([]incidents.IncidentSummary(nil), items...)
	s.loaded = true
	s.mu.Unlock()
	for _, item := range items {
		s.controller.SyncStatus(item.ID, item.Status)
	}
	return nil
}

func (s *Session) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *Session) List(filter incidents.StatusFilter) ListView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ListView{
		Filter: filter,
		Items:  buildListItems(incidents.Filter(s.list, filter)),
		Counts: incidents.Count(s.list),
	}
}

func (s *Session) Counts() incidents.StatusCounts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return incidents.Count(s.list)
}

// Detail fetches the incident afresh and builds its view.
func (s *Session) Detail(ctx context.Context, id int64) (DetailView, error) {
	inc, err := s.controller.Load(ctx, id)
	if err != nil {
		return DetailView{}, err
	}
	s.checkEventCount(inc)
	return buildDetailView(inc, s.controller.Busy(id)), nil
}

func (s *Session) RequestTransition(ctx context.Context, id int64, target incidents.Status) (DetailView, error) {
	inc, err := s.controller.RequestTransition(ctx, id, target)
	if err != nil {
		return DetailView{}, err
	}
	s.applyStatus(inc)
	return buildDetailView(inc, s.controller.Busy(id)), nil
}

func (s *Session) Perform(ctx context.Context, id int64, action incidents.Action) (DetailView, error) {
	inc, err := s.controller.Perform(ctx, id, action)
	if err != nil {
		return DetailView{}, err
	}
	s.applyStatus(inc)
	return buildDetailView(inc, s.controller.Busy(id)), nil
}

func (s *Session) Busy(id int64) bool {
	return s.controller.Busy(id)
}

func (s *Session) applyStatus(inc incidents.Incident) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.list {
		if s.list[i].ID == inc.ID {
			s.list[i].Status = inc.Status
			return
		}
	}
}

func (s *Session) checkEventCount(inc incidents.Incident) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.list {
		if item.ID != inc.ID {
			continue
		}
		if item.EventCount != len(inc.Events) && s.logger != nil {
			s.logger.Printf("dashboard: incident %d event_count %d differs from %d fetched events", inc.ID, item.EventCount, len(inc.Events))
		}
		return
	}
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}
