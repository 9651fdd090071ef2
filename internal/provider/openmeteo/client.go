// Package openmeteo fetches the multi-day convective instability
// forecast from the Open-Meteo API.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/storm-threat-service/internal/domain"
)

const defaultBaseURL = "https://api.open-meteo.com"

// Client implements aggregator.InstabilitySource against Open-Meteo.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an Open-Meteo forecast client.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Forecast fetches 16 days of hourly instability metrics and daily CAPE
// summaries for a point. Wind gusts are requested in mph to match the
// engine's thresholds.
func (c *Client) Forecast(ctx context.Context, lat, lon float64) (domain.InstabilityForecast, error) {
	params := url.Values{
		"latitude":        {fmt.Sprintf("%.4f", lat)},
		"longitude":       {fmt.Sprintf("%.4f", lon)},
		"hourly":          {"cape,lifted_index,convective_inhibition,dew_point_2m,wind_gusts_10m"},
		"daily":           {"cape_max,cape_min,cape_mean"},
		"forecast_days":   {"16"},
		"wind_speed_unit": {"mph"},
		"timezone":        {"UTC"},
		"timeformat":      {"unixtime"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/forecast?"+params.Encode(), nil)
	if err != nil {
		return domain.InstabilityForecast{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.InstabilityForecast{}, fmt.Errorf("fetch forecast: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.InstabilityForecast{}, fmt.Errorf("forecast API status %d: %s", resp.StatusCode, body)
	}

	var payload forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.InstabilityForecast{}, fmt.Errorf("decode forecast: %w", err)
	}

	return payload.toDomain(), nil
}

// Open-Meteo API response types.

type forecastResponse struct {
	Hourly struct {
		Time                 []int64   `json:"time"`
		CAPE                 []float64 `json:"cape"`
		LiftedIndex          []float64 `json:"lifted_index"`
		ConvectiveInhibition []float64 `json:"convective_inhibition"`
		DewPoint2m           []float64 `json:"dew_point_2m"`
		WindGusts10m         []float64 `json:"wind_gusts_10m"`
	} `json:"hourly"`
	Daily struct {
		Time     []int64   `json:"time"`
		CapeMax  []float64 `json:"cape_max"`
		CapeMin  []float64 `json:"cape_min"`
		CapeMean []float64 `json:"cape_mean"`
	} `json:"daily"`
}

func (r forecastResponse) toDomain() domain.InstabilityForecast {
	f := domain.InstabilityForecast{
		Hourly: domain.HourlyInstability{
			CAPE:        r.Hourly.CAPE,
			LiftedIndex: r.Hourly.LiftedIndex,
			CIN:         r.Hourly.ConvectiveInhibition,
			DewpointC:   r.Hourly.DewPoint2m,
			WindGustMph: r.Hourly.WindGusts10m,
		},
	}

	// The hourly series starts at the forecast issuance hour; its first
	// stamp anchors the current-hour index.
	if len(r.Hourly.Time) > 0 {
		f.IssuedAt = time.Unix(r.Hourly.Time[0], 0).UTC()
	}

	for i, ts := range r.Daily.Time {
		day := domain.DailyInstability{Date: time.Unix(ts, 0).UTC()}
		if i < len(r.Daily.CapeMax) {
			day.CapeMax = r.Daily.CapeMax[i]
		}
		if i < len(r.Daily.CapeMin) {
			day.CapeMin = r.Daily.CapeMin[i]
		}
		if i < len(r.Daily.CapeMean) {
			day.CapeMean = r.Daily.CapeMean[i]
		}
		f.Daily = append(f.Daily, day)
	}
	return f
}
