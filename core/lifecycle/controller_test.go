package lifecycle

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"opsassist-dashboard/core/incidents"
)

type fakeStore struct {
	mu        sync.Mutex
	incidents map[int64]incidents.Incident
	updateErr error
	getErr    error
	block     chan struct{}
	entered   chan struct{}
	updates   []incidents.Status
	gets      int
}

func newFakeStore(items ...incidents.Incident) *fakeStore {
	fs := &fakeStore{incidents: map[int64]incidents.Incident{}}
	for _, it := range items {
		fs.incidents[it.ID] = it
	}
	return fs
}

func (f *fakeStore) GetIncident(ctx context.Context, id int64) (*incidents.Incident, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.getErr != nil {
		return nil, f.getErr
	}
	inc, ok := f.incidents[id]
	if !ok {
		return nil, errors.New("not found")
	}
	out := inc.Clone()
	return &out, nil
}

func (f *fakeStore) UpdateStatus(ctx context.Context, id int64, status incidents.Status) (*incidents.Incident, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, status)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	inc := f.incidents[id]
	inc.Status = status
	inc.UpdatedAt = incidents.Timestamp{Time: time.Now().UTC()}
	f.incidents[id] = inc
	out := inc.Clone()
	return &out, nil
}

func (f *fakeStore) updateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.updates)
}

func sampleIncident(id int64, status incidents.Status) incidents.Incident {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return incidents.Incident{
		ID:                 id,
		Service:            "payment-service",
		Category:           "database",
		Severity:           incidents.SeverityP1,
		Summary:            "Database connection timeouts",
		RecommendedActions: []string{"Check pool size"},
		Status:             status,
		CreatedAt:          incidents.Timestamp{Time: created},
		UpdatedAt:          incidents.Timestamp{Time: created.Add(time.Minute)},
		Events: []incidents.Event{
			{ID: 1, Service: "payment-service", Level: "ERROR", Message: "timeout"},
		},
	}
}

func TestStartInvestigationThenBusyWhilePending(t *testing.T) {
	store := newFakeStore(sampleIncident(42, incidents.StatusOpen))
	store.block = make(chan struct{})
	store.entered = make(chan struct{}, 1)
	ctrl := NewController(store, Options{Timeout: 5 * time.Second}, nil)

	type result struct {
		inc incidents.Incident
		err error
	}
	done := make(chan result, 1)
	go func() {
		inc, err := ctrl.RequestTransition(context.Background(), 42, incidents.StatusInvestigating)
		done <- result{inc: inc, err: err}
	}()
	<-store.entered

	if !ctrl.Busy(42) {
		t.Fatalf("expected incident 42 to be busy while the request is pending")
	}
	if _, err := ctrl.RequestTransition(context.Background(), 42, incidents.StatusInvestigating); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	close(store.block)

	res := <-done
	if res.err != nil {
		t.Fatalf("transition failed: %v", res.err)
	}
	if res.inc.Status != incidents.StatusInvestigating {
		t.Fatalf("expected investigating, got %s", res.inc.Status)
	}
	if ctrl.Busy(42) {
		t.Fatalf("busy flag not released")
	}
	if n := store.updateCount(); n != 1 {
		t.Fatalf("expected exactly one store update, got %d", n)
	}
}

func TestRejectedCloseKeepsResolved(t *testing.T) {
	store := newFakeStore(sampleIncident(7, incidents.StatusResolved))
	store.updateErr = errors.New("store rejected")
	ctrl := NewController(store, Options{}, nil)
	if _, err := ctrl.Load(context.Background(), 7); err != nil {
		t.Fatalf("load: %v", err)
	}
	before, _ := ctrl.Current(7)

	_, err := ctrl.Perform(context.Background(), 7, incidents.ActionClose)
	if err == nil {
		t.Fatalf("expected failure")
	}
	after, _ := ctrl.Current(7)
	if after.Status != incidents.StatusResolved {
		t.Fatalf("expected resolved after failure, got %s", after.Status)
	}
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("local state changed after failure")
	}
	if ctrl.Busy(7) {
		t.Fatalf("busy flag not released after failure")
	}
}

func TestResolveChangesStatusOnly(t *testing.T) {
	store := newFakeStore(sampleIncident(5, incidents.StatusInvestigating))
	ctrl := NewController(store, Options{}, nil)
	before, err := ctrl.Load(context.Background(), 5)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	after, err := ctrl.RequestTransition(context.Background(), 5, incidents.StatusResolved)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if after.Status != incidents.StatusResolved {
		t.Fatalf("expected resolved, got %s", after.Status)
	}
	after.Status = before.Status
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("fields other than status changed:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestInvalidTransitionSendsNothing(t *testing.T) {
	store := newFakeStore(sampleIncident(3, incidents.StatusOpen), sampleIncident(4, incidents.StatusClosed))
	ctrl := NewController(store, Options{}, nil)

	cases := []struct {
		id     int64
		target incidents.Status
	}{
		{id: 3, target: incidents.StatusResolved},
		{id: 3, target: incidents.StatusClosed},
		{id: 3, target: incidents.StatusOpen},
		{id: 4, target: incidents.StatusOpen},
		{id: 3, target: incidents.Status("archived")},
	}
	for _, tc := range cases {
		if _, err := ctrl.RequestTransition(context.Background(), tc.id, tc.target); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("%d -> %s: expected ErrInvalidTransition, got %v", tc.id, tc.target, err)
		}
	}
	if n := store.updateCount(); n != 0 {
		t.Fatalf("expected no store updates, got %d", n)
	}
	if _, err := ctrl.Perform(context.Background(), 4, incidents.ActionReopen); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("closed incident must not reopen, got %v", err)
	}
}

func TestTransitionTimeoutReleasesBusy(t *testing.T) {
	store := newFakeStore(sampleIncident(8, incidents.StatusOpen))
	store.block = make(chan struct{})
	defer close(store.block)
	ctrl := NewController(store, Options{Timeout: 20 * time.Millisecond}, nil)

	_, err := ctrl.Perform(context.Background(), 8, incidents.ActionStartInvestigation)
	if !errors.Is(err, ErrTransitionTimeout) {
		t.Fatalf("expected ErrTransitionTimeout, got %v", err)
	}
	if ctrl.Busy(8) {
		t.Fatalf("busy flag not released after timeout")
	}
	cur, _ := ctrl.Current(8)
	if cur.Status != incidents.StatusOpen {
		t.Fatalf("status changed after timeout: %s", cur.Status)
	}
}

func TestRefreshAfterTransition(t *testing.T) {
	store := newFakeStore(sampleIncident(9, incidents.StatusOpen))
	ctrl := NewController(store, Options{RefreshAfterTransition: true}, nil)
	inc, err := ctrl.Perform(context.Background(), 9, incidents.ActionStartInvestigation)
	if err != nil {
		t.Fatalf("perform: %v", err)
	}
	if inc.Status != incidents.StatusInvestigating {
		t.Fatalf("unexpected status %s", inc.Status)
	}
	if !inc.UpdatedAt.After(sampleIncident(9, incidents.StatusOpen).UpdatedAt.Time) {
		t.Fatalf("expected refreshed updated_at from store")
	}
	if store.gets != 2 {
		t.Fatalf("expected initial load and refresh, got %d gets", store.gets)
	}
}

func TestRefreshFailureFallsBackToPatch(t *testing.T) {
	store := newFakeStore(sampleIncident(10, incidents.StatusInvestigating))
	ctrl := NewController(store, Options{RefreshAfterTransition: true}, nil)
	if _, err := ctrl.Load(context.Background(), 10); err != nil {
		t.Fatalf("load: %v", err)
	}
	store.getErr = errors.New("store down")
	inc, err := ctrl.RequestTransition(context.Background(), 10, incidents.StatusOpen)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if inc.Status != incidents.StatusOpen {
		t.Fatalf("expected optimistic open, got %s", inc.Status)
	}
}

func TestUnknownIncidentFailsWithoutUpdate(t *testing.T) {
	store := newFakeStore()
	ctrl := NewController(store, Options{}, nil)
	if _, err := ctrl.RequestTransition(context.Background(), 404, incidents.StatusInvestigating); err == nil {
		t.Fatalf("expected error for unknown incident")
	}
	if store.updateCount() != 0 || ctrl.Busy(404) {
		t.Fatalf("unexpected side effects")
	}
}
