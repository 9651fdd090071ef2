package spc

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

const tornCSV = `Time,F_Scale,Location,County,State,Lat,Lon,Comments
1510,EF2,3 NNE Moore,Cleveland,OK,35.36,-97.47,Damage to several homes.
1642,UNK,2 W Norman,Cleveland,OK,35.22,-97.48,Brief touchdown.
1700,EF0,Unknown,Caddo,OK,,,No coordinates reported.
`

const windCSV = `Time,Speed,Location,County,State,Lat,Lon,Comments
1530,65,1 S Tuttle,Grady,OK,35.27,-97.81,Power lines down.
`

const hailCSV = `Time,Size,Location,County,State,Lat,Lon,Comments
`

const outlookGeoJSON = `{
  "features": [
    {
      "properties": {"LABEL": "ENH", "VALID": "202604261300", "EXPIRE": "202604271200"},
      "geometry": {
        "type": "Polygon",
        "coordinates": [[[-98.5, 34.5], [-96.5, 34.5], [-96.5, 36.5], [-98.5, 36.5], [-98.5, 34.5]]]
      }
    },
    {
      "properties": {"LABEL": "MRGL", "VALID": "202604261300", "EXPIRE": "202604271200"},
      "geometry": {
        "type": "MultiPolygon",
        "coordinates": [
          [[[-100.0, 33.0], [-95.0, 33.0], [-95.0, 38.0], [-100.0, 38.0], [-100.0, 33.0]]],
          [[[-90.0, 40.0], [-88.0, 40.0], [-88.0, 42.0], [-90.0, 42.0], [-90.0, 40.0]]]
        ]
      }
    },
    {
      "properties": {"LABEL": "0.05", "VALID": "202604261300", "EXPIRE": "202604271200"},
      "geometry": {"type": "Polygon", "coordinates": [[[-98.0, 35.0], [-97.0, 35.0], [-97.0, 36.0], [-98.0, 35.0]]]}
    }
  ]
}`

const mcdRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>SPC Mesoscale Discussions</title>
    <item>
      <title>SPC MCD 457</title>
      <description>Tornado threat increasing. Probability of Watch Issuance...80 percent</description>
    </item>
    <item>
      <title>SPC MCD 458</title>
      <description>Marginal hail threat continues.</description>
    </item>
  </channel>
</rss>`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("test-agent", 5*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.baseURL = srv.URL
	return c
}

func TestTodayReports(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/climo/reports/today_torn.csv":
			w.Write([]byte(tornCSV)) //nolint:errcheck
		case "/climo/reports/today_wind.csv":
			w.Write([]byte(windCSV)) //nolint:errcheck
		case "/climo/reports/today_hail.csv":
			w.Write([]byte(hailCSV)) //nolint:errcheck
		default:
			http.NotFound(w, r)
		}
	})

	reports, err := c.TodayReports(context.Background())
	require.NoError(t, err)

	// Two tornado rows survive (the third has no coordinates), one wind
	// row, no hail rows.
	require.Len(t, reports, 3)
	assert.Equal(t, domain.ReportTornado, reports[0].Type)
	assert.Equal(t, "EF2", reports[0].Magnitude)
	assert.Equal(t, domain.ReportTornado, reports[1].Type)
	assert.Empty(t, reports[1].Magnitude, "UNK magnitude normalizes to empty")
	assert.Equal(t, domain.ReportWind, reports[2].Type)
	assert.Equal(t, "65", reports[2].Magnitude)
}

func TestTodayReports_FetchFailureFailsSource(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	})

	_, err := c.TodayReports(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tornado reports")
}

func TestRiskZones(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/outlook/day1otlk_cat.lyr.geojson", r.URL.Path)
		w.Write([]byte(outlookGeoJSON)) //nolint:errcheck
	})

	zones, err := c.RiskZones(context.Background())
	require.NoError(t, err)

	// ENH polygon, two MRGL rings from the MultiPolygon; the
	// probabilistic "0.05" layer is not a categorical label and is skipped.
	require.Len(t, zones, 3)

	assert.Equal(t, domain.RiskEnhanced, zones[0].Risk)
	assert.Len(t, zones[0].Polygon, 5)
	assert.Equal(t, time.Date(2026, 4, 26, 13, 0, 0, 0, time.UTC), zones[0].ValidFrom)
	assert.Equal(t, time.Date(2026, 4, 27, 12, 0, 0, 0, time.UTC), zones[0].ValidTo)

	// GeoJSON pairs are [lon, lat].
	assert.Equal(t, domain.Point{Lat: 34.5, Lon: -98.5}, zones[0].Polygon[0])

	assert.Equal(t, domain.RiskMarginal, zones[1].Risk)
	assert.Equal(t, domain.RiskMarginal, zones[2].Risk)
}

func TestActiveDiscussions(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/spcmdrss.xml", r.URL.Path)
		w.Write([]byte(mcdRSS)) //nolint:errcheck
	})

	discussions, err := c.ActiveDiscussions(context.Background())
	require.NoError(t, err)

	require.Len(t, discussions, 2)
	assert.Equal(t, "SPC MCD 457", discussions[0].ID)
	assert.Contains(t, discussions[0].Text, "80 percent")
}

func TestParseOutlookTime(t *testing.T) {
	assert.Equal(t, time.Date(2026, 4, 26, 13, 0, 0, 0, time.UTC), parseOutlookTime("202604261300"))
	assert.True(t, parseOutlookTime("garbage").IsZero())
	assert.True(t, parseOutlookTime("").IsZero())
}
