// Package upstream is the client for the greenhouse-monitoring HTTP API.
//
// Range queries (Logs, History) assume the upstream returns items
// newest-first and reverse them to oldest-first for callers. That ordering
// is an undocumented upstream convention, not a guaranteed wire contract.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"greenhouse_dashboard/internal/models"

	"github.com/sony/gobreaker"
)

// Error taxonomy for API calls. Callers match with errors.Is.
var (
	// ErrTransport covers network failures and non-2xx responses.
	ErrTransport = errors.New("upstream transport failure")
	// ErrMalformedResponse covers bodies missing expected fields.
	ErrMalformedResponse = errors.New("malformed upstream response")
)

const defaultTimeout = 5 * time.Second

// Config carries client construction parameters.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client translates domain operations into HTTP calls against one base URL.
// It is stateless and safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	// breaker gates only Status/Latest. Range queries bypass it: the
	// lookup cache advances its boundary per issued fetch, so a breaker
	// short-circuiting those calls would change which windows get lost.
	breaker *gobreaker.CircuitBreaker
}

// NewClient builds a client for the given upstream base URL.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "greenhouse-upstream",
			MaxRequests: 5,
			Interval:    1 * time.Minute,
			Timeout:     30 * time.Second,
		}),
	}
}

// Status returns the parsed /status payload unmodified.
func (c *Client) Status(ctx context.Context) (map[string]any, error) {
	return c.getJSONGated(ctx, c.baseURL+"/status")
}

// Latest returns the parsed /{stat}/latest payload unmodified.
func (c *Client) Latest(ctx context.Context, stat models.StatType) (map[string]any, error) {
	return c.getJSONGated(ctx, fmt.Sprintf("%s/%s/latest", c.baseURL, stat))
}

// Logs fetches log entries at or above level within [start, end],
// oldest-first.
func (c *Client) Logs(ctx context.Context, level models.LogLevel, start, end time.Time) ([]models.LogRecord, error) {
	url := fmt.Sprintf("%s/logs/%s/%s/%s",
		c.baseURL, level, models.FormatTime(start), models.FormatTime(end))

	var payload struct {
		Items *[]logItem `json:"items"`
	}
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}
	if payload.Items == nil {
		return nil, fmt.Errorf("%w: missing items array", ErrMalformedResponse)
	}

	items := *payload.Items
	out := make([]models.LogRecord, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		rec, err := items[i].toRecord()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// History fetches sampled values for stat within [start, end], oldest-first.
func (c *Client) History(ctx context.Context, stat models.StatType, start, end time.Time) ([]models.TimeseriesRecord, error) {
	url := fmt.Sprintf("%s/%s/history/%s/%s",
		c.baseURL, stat, models.FormatTime(start), models.FormatTime(end))

	var payload struct {
		Items *[]historyItem `json:"items"`
	}
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}
	if payload.Items == nil {
		return nil, fmt.Errorf("%w: missing items array", ErrMalformedResponse)
	}

	items := *payload.Items
	out := make([]models.TimeseriesRecord, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		rec, err := items[i].toRecord()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

type logItem struct {
	When    string `json:"when"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

func (it logItem) toRecord() (models.LogRecord, error) {
	when, err := models.ParseTime(it.When)
	if err != nil {
		return models.LogRecord{}, fmt.Errorf("%w: bad item timestamp: %w", ErrMalformedResponse, err)
	}
	return models.LogRecord{
		When:    when,
		Level:   models.LogLevel(it.Level),
		Message: it.Message,
	}, nil
}

type historyItem struct {
	When  string  `json:"when"`
	Value float64 `json:"value"`
}

func (it historyItem) toRecord() (models.TimeseriesRecord, error) {
	when, err := models.ParseTime(it.When)
	if err != nil {
		return models.TimeseriesRecord{}, fmt.Errorf("%w: bad item timestamp: %w", ErrMalformedResponse, err)
	}
	return models.TimeseriesRecord{When: when, Value: it.Value}, nil
}

// getJSON performs a GET and decodes the body into dst.
func (c *Client) getJSON(ctx context.Context, url string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrTransport, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: unexpected status %d from %s", ErrTransport, resp.StatusCode, url)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: decode body: %v", ErrMalformedResponse, err)
	}
	return nil
}

// getJSONGated runs getJSON behind the circuit breaker and decodes into a
// generic map, passing the payload through to the caller untouched.
func (c *Client) getJSONGated(ctx context.Context, url string) (map[string]any, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		var payload map[string]any
		if err := c.getJSON(ctx, url, &payload); err != nil {
			return nil, err
		}
		return payload, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: circuit open: %v", ErrTransport, err)
		}
		return nil, err
	}
	return result.(map[string]any), nil
}
