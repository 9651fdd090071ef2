// Package nws fetches active alerts from the National Weather Service API.
package nws

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/storm-threat-service/internal/domain"
)

const defaultBaseURL = "https://api.weather.gov"

// Client implements aggregator.AlertSource against api.weather.gov.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an NWS alerts client. The API requires a
// descriptive User-Agent identifying the caller.
func NewClient(userAgent string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// ActiveAlerts fetches all active alerts covering the given point.
func (c *Client) ActiveAlerts(ctx context.Context, lat, lon float64) ([]domain.Alert, error) {
	url := fmt.Sprintf("%s/alerts/active?point=%.4f,%.4f", c.baseURL, lat, lon)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/geo+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch alerts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("alerts API status %d: %s", resp.StatusCode, body)
	}

	var feed alertResponse
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode alerts: %w", err)
	}

	alerts := make([]domain.Alert, 0, len(feed.Features))
	for _, f := range feed.Features {
		p := f.Properties

		// Timestamps are best-effort: a missing onset/expiry leaves the
		// zero time rather than discarding the alert.
		onset, _ := time.Parse(time.RFC3339, p.Onset)
		expires, _ := time.Parse(time.RFC3339, p.Expires)

		alerts = append(alerts, domain.Alert{
			Event:       p.Event,
			Severity:    domain.NormalizeSeverity(p.Severity),
			Headline:    p.Headline,
			Description: p.Description,
			Onset:       onset,
			Expires:     expires,
			AreaDesc:    p.AreaDesc,
		})
	}
	return alerts, nil
}

// NWS API response types.

type alertResponse struct {
	Features []struct {
		Properties struct {
			Event       string `json:"event"`
			Severity    string `json:"severity"`
			Headline    string `json:"headline"`
			Description string `json:"description"`
			Onset       string `json:"onset"`
			Expires     string `json:"expires"`
			AreaDesc    string `json:"areaDesc"`
		} `json:"properties"`
	} `json:"features"`
}
