package nws

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/storm-threat-service/internal/domain"
)

const alertFixture = `{
  "features": [
    {
      "properties": {
        "event": "Tornado Warning",
        "severity": "Extreme",
        "headline": "Tornado Warning issued April 26 at 3:15PM CDT",
        "description": "A confirmed tornado was located near Moore.",
        "onset": "2026-04-26T20:15:00+00:00",
        "expires": "2026-04-26T20:45:00+00:00",
        "areaDesc": "Cleveland, OK; Oklahoma, OK"
      }
    },
    {
      "properties": {
        "event": "Severe Thunderstorm Watch",
        "severity": "Severe",
        "headline": "Severe Thunderstorm Watch 123",
        "onset": "not-a-timestamp",
        "areaDesc": "Central Oklahoma"
      }
    }
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("test-agent", 5*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.baseURL = srv.URL
	return c
}

func TestActiveAlerts(t *testing.T) {
	var gotPath, gotAgent string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(alertFixture)) //nolint:errcheck
	})

	alerts, err := c.ActiveAlerts(context.Background(), 35.34, -97.49)
	require.NoError(t, err)

	assert.Equal(t, "/alerts/active?point=35.3400,-97.4900", gotPath)
	assert.Equal(t, "test-agent", gotAgent)

	require.Len(t, alerts, 2)
	assert.Equal(t, "Tornado Warning", alerts[0].Event)
	assert.Equal(t, domain.SeverityExtreme, alerts[0].Severity)
	assert.Equal(t, "Cleveland, OK; Oklahoma, OK", alerts[0].AreaDesc)
	assert.Equal(t, time.Date(2026, 4, 26, 20, 15, 0, 0, time.UTC), alerts[0].Onset.UTC())

	// Unparseable onset leaves the zero time, the alert survives.
	assert.Equal(t, "Severe Thunderstorm Watch", alerts[1].Event)
	assert.True(t, alerts[1].Onset.IsZero())
}

func TestActiveAlerts_Empty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"features": []}`)) //nolint:errcheck
	})

	alerts, err := c.ActiveAlerts(context.Background(), 35.34, -97.49)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestActiveAlerts_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream broken", http.StatusBadGateway)
	})

	_, err := c.ActiveAlerts(context.Background(), 35.34, -97.49)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestActiveAlerts_MalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"features": [`)) //nolint:errcheck
	})

	_, err := c.ActiveAlerts(context.Background(), 35.34, -97.49)
	assert.Error(t, err)
}
