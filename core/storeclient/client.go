package storeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"opsassist-dashboard/config"
	"opsassist-dashboard/core/incidents"
	"opsassist-dashboard/core/utils"
)

const (
	incidentsPath = "/api/v1/incidents"
	eventsPath    = "/api/v1/events"
	maxBodyBytes  = 8 << 20

	defaultRequestTimeout = 10 * time.Second
)

// Client talks to the incident store. Calls whose context carries no deadline
// are bounded by the request timeout; a caller deadline always takes precedence.
type Client struct {
	client         *http.Client
	baseURL        string
	requestTimeout time.Duration
	logger         *utils.Logger
}

func NewClient(cfg config.StoreConfig, logger *utils.Logger) *Client {
	c := NewClientWithHTTP(cfg.BaseURL, &http.Client{}, logger)
	if cfg.RequestTimeout > 0 {
		c.requestTimeout = cfg.RequestTimeout
	}
	return c
}

func NewClientWithHTTP(baseURL string, httpClient *http.Client, logger *utils.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		client:         httpClient,
		baseURL:        strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		requestTimeout: defaultRequestTimeout,
		logger:         logger,
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) ListIncidents(ctx context.Context) ([]incidents.IncidentSummary, error) {
	var out []incidents.IncidentSummary
	if _, err := c.do(ctx, http.MethodGet, incidentsPath, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []incidents.IncidentSummary{}
	}
	return out, nil
}

func (c *Client) GetIncident(ctx context.Context, id int64) (*incidents.Incident, error) {
	var out incidents.Incident
	found, err := c.do(ctx, http.MethodGet, incidentPath(id), nil, &out)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: empty incident body", ErrMalformed)
	}
	return &out, nil
}

// UpdateStatus persists a new status. A success response without a JSON body
// returns nil, nil.
func (c *Client) UpdateStatus(ctx context.Context, id int64, status incidents.Status) (*incidents.Incident, error) {
	body := map[string]string{"status": string(status)}
	var out incidents.Incident
	found, err := c.do(ctx, http.MethodPatch, incidentPath(id)+"/status", body, &out)
	if err != nil {
		if errors.Is(err, ErrMalformed) {
			if c.logger != nil {
				c.logger.Debugf("store: status update for incident %d acknowledged without representation", id)
			}
			return nil, nil
		}
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &out, nil
}

func (c *Client) PostEvent(ctx context.Context, in incidents.EventInput) (*incidents.EventAck, error) {
	var out incidents.EventAck
	if _, err := c.do(ctx, http.MethodPost, eventsPath, in, &out); err != nil {
		if errors.Is(err, ErrMalformed) {
			return &incidents.EventAck{}, nil
		}
		return nil, err
	}
	return &out, nil
}

func incidentPath(id int64) string {
	return fmt.Sprintf("%s/%d", incidentsPath, id)
}

// do runs one request and decodes a 2xx body into out. The boolean reports whether
// a body was present.
func (c *Client) do(ctx context.Context, method, path string, in any, out any) (bool, error) {
	if _, ok := ctx.Deadline(); !ok && c.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.requestTimeout)
		defer cancel()
	}
	var reader io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return false, err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false, transportError(ctx, method, path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		storeErr := newStoreError(method, path, resp.StatusCode, resp.Body)
		if c.logger != nil {
			c.logger.Errorf("store: %v", storeErr)
		}
		return false, storeErr
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return false, transportError(ctx, method, path, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("%w: %s %s: %w", ErrMalformed, method, path, err)
	}
	return true, nil
}

// transportError reports deadline expiry, whether from ctx or from an
// http.Client timeout, as context.DeadlineExceeded rather than ErrUnreachable.
func transportError(ctx context.Context, method, path string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("store %s %s: %w", method, path, ctxErr)
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("store %s %s: %w: %v", method, path, context.DeadlineExceeded, err)
	}
	return fmt.Errorf("%w: %s %s: %w", ErrUnreachable, method, path, err)
}
