package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gridsight/forecast-dashboard/internal/metrics"
)

// StatusError is returned for any non-2xx backend response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Body)
}

// Client is the typed HTTP client for the forecasting backend. Every call is
// a single attempt: failures surface immediately to the caller, there are no
// retries and no backoff.
type Client struct {
	baseURL           string
	http              *http.Client
	unauthorizedEmpty bool
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client (used by tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithUnauthorizedEmpty maps 401 responses to a zero-value result instead of
// an error.
func WithUnauthorizedEmpty(on bool) Option {
	return func(c *Client) { c.unauthorizedEmpty = on }
}

func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: normalizeBase(baseURL),
		http:    &http.Client{Timeout: timeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// normalizeBase strips trailing slashes so joined paths carry exactly one
// separator. An empty base stays empty (relative requests behind a proxy).
func normalizeBase(base string) string {
	return strings.TrimRight(strings.TrimSpace(base), "/")
}

// BaseURL returns the normalized base the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) HourlyForecast(ctx context.Context) ([]ForecastPoint, error) {
	var out []ForecastPoint
	if err := c.getJSON(ctx, "/api/v1/forecast/hourly", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CheckAlerts(ctx context.Context) (*AlertsResponse, error) {
	var out AlertsResponse
	if err := c.getJSON(ctx, "/api/v1/alerts/check", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ModelPerformance(ctx context.Context) (*ModelPerformance, error) {
	var out ModelPerformance
	if err := c.getJSON(ctx, "/api/v1/model/performance", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// HistoricalData fetches rows for an inclusive ISO date range (YYYY-MM-DD).
func (c *Client) HistoricalData(ctx context.Context, start, end string) ([]HistoricalPoint, error) {
	params := url.Values{}
	params.Set("start", start)
	params.Set("end", end)
	var out []HistoricalPoint
	if err := c.getJSON(ctx, "/api/v1/data/historical", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PlotImage fetches a static plot by file name and returns the raw bytes plus
// the reported content type.
func (c *Client) PlotImage(ctx context.Context, name string) ([]byte, string, error) {
	path := "/api/v1/static/plots/" + url.PathEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.BackendRequests.WithLabelValues(path, "error").Inc()
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.BackendRequests.WithLabelValues(path, "error").Inc()
		return nil, "", statusError(resp)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	metrics.BackendRequests.WithLabelValues(path, "ok").Inc()
	return b, resp.Header.Get("Content-Type"), nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if params != nil {
		if qs := params.Encode(); qs != "" {
			u += "?" + qs
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.BackendRequests.WithLabelValues(path, "error").Inc()
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && c.unauthorizedEmpty {
		// Leave out at its zero value; the caller sees "no data".
		io.Copy(io.Discard, resp.Body)
		metrics.BackendRequests.WithLabelValues(path, "unauthorized").Inc()
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.BackendRequests.WithLabelValues(path, "error").Inc()
		return statusError(resp)
	}

	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(out); err != nil {
		metrics.BackendRequests.WithLabelValues(path, "error").Inc()
		return fmt.Errorf("decode %s: %w", path, err)
	}
	metrics.BackendRequests.WithLabelValues(path, "ok").Inc()
	return nil
}

func statusError(resp *http.Response) *StatusError {
	var buf bytes.Buffer
	io.Copy(&buf, io.LimitReader(resp.Body, 4096))
	body := strings.TrimSpace(buf.String())
	log.Debug().Int("status", resp.StatusCode).Str("url", resp.Request.URL.String()).Msg("backend request failed")
	return &StatusError{Code: resp.StatusCode, Body: body}
}
