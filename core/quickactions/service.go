package quickactions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"opsassist-dashboard/config"
	"opsassist-dashboard/core/incidents"
	"opsassist-dashboard/core/utils"
)

var (
	ErrInvalidRequest = errors.New("quickactions.error.invalid_request")
	ErrPartialFailure = errors.New("quickactions.error.partial_failure")
)

type EventPoster interface {
	PostEvent(ctx context.Context, in incidents.EventInput) (*incidents.EventAck, error)
}

type Defaults struct {
	Service  string `json:"service"`
	Message  string `json:"message"`
	Level    string `json:"level"`
	Count    int    `json:"count"`
	MaxCount int    `json:"max_count"`
}

type SendRequest struct {
	Service string `json:"service"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

type SimulateRequest struct {
	Service string `json:"service"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}

type SimulateResult struct {
	Requested int `json:"requested"`
	Sent      int `json:"sent"`
	Failed    int `json:"failed"`
}

// Service injects synthetic log events into the incident store.
type Service struct {
	poster      EventPoster
	cfg         config.QuickActionsConfig
	docsURL     string
	maxParallel int
	logger      *utils.Logger
}

func NewService(poster EventPoster, cfg config.QuickActionsConfig, docsURL string, logger *utils.Logger) *Service {
	maxParallel := cfg.MaxParallel
	if maxParallel <= 0 {
		maxParallel = 1
	}
	return &Service{
		poster:      poster,
		cfg:         cfg,
		docsURL:     docsURL,
		maxParallel: maxParallel,
		logger:      logger,
	}
}

func (s *Service) Defaults() Defaults {
	return Defaults{
		Service:  s.cfg.DefaultService,
		Message:  s.cfg.DefaultMessage,
		Level:    s.cfg.DefaultLevel,
		Count:    s.cfg.DefaultCount,
		MaxCount: s.cfg.MaxSimulateCount,
	}
}

func (s *Service) DocsURL() string { return s.docsURL }

func (s *Service) SendEvent(ctx context.Context, req SendRequest) (*incidents.EventAck, error) {
	service := strings.TrimSpace(req.Service)
	message := strings.TrimSpace(req.Message)
	if service == "" || message == "" {
		return nil, fmt.Errorf("%w: service and message are required", ErrInvalidRequest)
	}
	level, err := incidents.ParseLevel(req.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	ack, err := s.poster.PostEvent(ctx, incidents.EventInput{Service: service, Level: string(level), Message: message})
	if err != nil {
		return nil, fmt.Errorf("send event: %w", err)
	}
	return ack, nil
}

// Simulate posts count ERROR events numbered "(#1)".."(#count)" with bounded parallelism.
// Every send is attempted; the returned error is non-nil when any of them failed.
func (s *Service) Simulate(ctx context.Context, req SimulateRequest) (SimulateResult, error) {
	service := strings.TrimSpace(req.Service)
	message := strings.TrimSpace(req.Message)
	if service == "" || message == "" {
		return SimulateResult{}, fmt.Errorf("%w: service and message are required", ErrInvalidRequest)
	}
	if req.Count < 1 || req.Count > s.cfg.MaxSimulateCount {
		return SimulateResult{}, fmt.Errorf("%w: count must be between 1 and %d", ErrInvalidRequest, s.cfg.MaxSimulateCount)
	}

	var sent, failed atomic.Int64
	var (
		errMu    sync.Mutex
		firstErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxParallel)
	for i := 1; i <= req.Count; i++ {
		in := incidents.EventInput{
			Service: service,
			Level:   string(incidents.LevelError),
			Message: fmt.Sprintf("%s (#%d)", message, i),
		}
		g.Go(func() error {
			if _, err := s.poster.PostEvent(gctx, in); err != nil {
				failed.Add(1)
				errMu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				errMu.Unlock()
				return nil
			}
			sent.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	res := SimulateResult{Requested: req.Count, Sent: int(sent.Load()), Failed: int(failed.Load())}
	if res.Failed > 0 {
		if s.logger != nil {
			s.logger.Errorf("quickactions: simulate %s sent %d of %d events: %v", service, res.Sent, res.Requested, firstErr)
		}
		return res, fmt.Errorf("%w: %d of %d events failed: %w", ErrPartialFailure, res.Failed, res.Requested, firstErr)
	}
	if s.logger != nil {
		s.logger.Printf("quickactions: simulated %d events for %s", res.Sent, service)
	}
	return res, nil
}
