package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/gaia-pulse-service/internal/domain"
	"github.com/couchcryptid/gaia-pulse-service/internal/observability"
)

// maxErrorBody caps how much of a failed response is quoted in the error.
const maxErrorBody = 4 << 10

// Client implements domain.NarrativeSource against the narrative service.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a narrative service client. Each request is bounded by timeout.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		httpClient: &http.Client{},
		metrics:    metrics,
		logger:     logger,
	}
}

// FetchNarrative retrieves the latest narrative record for a region.
func (c *Client) FetchNarrative(ctx context.Context, regionID string) (domain.NarrativeRecord, error) {
	start := time.Now()
	record, err := c.fetch(ctx, regionID)
	c.metrics.NarrativeDuration.Observe(time.Since(start).Seconds())
	c.metrics.NarrativeRequests.WithLabelValues(outcome(err)).Inc()

	if err != nil {
		c.logger.Debug("narrative fetch failed", "region_id", regionID, "error", err)
		return domain.NarrativeRecord{}, err
	}
	return record, nil
}

func (c *Client) fetch(parent context.Context, regionID string) (domain.NarrativeRecord, error) {
	ctx, cancel := context.WithTimeout(parent, c.timeout)
	defer cancel()

	u := c.baseURL + "/narrative?" + url.Values{"region_id": {regionID}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.NarrativeRecord{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.NarrativeRecord{}, c.transportError(parent, ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.NarrativeRecord{}, &domain.NotFoundError{RegionID: regionID}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return domain.NarrativeRecord{}, &domain.APIError{Status: resp.StatusCode, Message: msg}
	}

	var record domain.NarrativeRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.NarrativeRecord{}, c.transportError(parent, ctx, ctxErr)
		}
		return domain.NarrativeRecord{}, &domain.MalformedResponseError{Err: err}
	}
	return record, nil
}

// transportError maps a failed round trip. Hitting our own deadline is a
// timeout; cancellation of the caller's context is passed through as is.
func (c *Client) transportError(parent, ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) && parent.Err() == nil {
		return &domain.TimeoutError{Timeout: c.timeout}
	}
	return fmt.Errorf("narrative request: %w", err)
}

func outcome(err error) string {
	var malformed *domain.MalformedResponseError
	switch {
	case err == nil:
		return "success"
	case domain.IsNotFound(err):
		return "not_found"
	case domain.IsTimeout(err):
		return "timeout"
	case errors.As(err, &malformed):
		return "malformed"
	default:
		return "error"
	}
}
