// Package spc fetches Storm Prediction Center products: today's storm
// report CSVs, the day-1 categorical outlook, and mesoscale discussions.
package spc

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/storm-threat-service/internal/domain"
)

const defaultBaseURL = "https://www.spc.noaa.gov"

// Client implements the aggregator's report, outlook, and discussion
// sources against www.spc.noaa.gov.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an SPC client. Report CSVs are nationwide files, so
// callers should allow the bulk timeout here.
func NewClient(userAgent string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// reportFiles maps each report type to its daily CSV path.
var reportFiles = []struct {
	typ  domain.ReportType
	path string
}{
	{domain.ReportTornado, "/climo/reports/today_torn.csv"},
	{domain.ReportWind, "/climo/reports/today_wind.csv"},
	{domain.ReportHail, "/climo/reports/today_hail.csv"},
}

// TodayReports fetches and merges today's tornado, wind, and hail report
// CSVs. A row that cannot be normalized (missing or non-numeric
// coordinates) is skipped, not an error; a file that cannot be fetched
// at all fails the whole source.
func (c *Client) TodayReports(ctx context.Context) ([]domain.StormReport, error) {
	var reports []domain.StormReport
	for _, rf := range reportFiles {
		rows, err := c.fetchReportCSV(ctx, rf.typ, rf.path)
		if err != nil {
			return nil, fmt.Errorf("%s reports: %w", rf.typ, err)
		}
		reports = append(reports, rows...)
	}
	return reports, nil
}

func (c *Client) fetchReportCSV(ctx context.Context, typ domain.ReportType, path string) ([]domain.StormReport, error) {
	body, err := c.get(ctx, c.baseURL+path, "text/csv")
	if err != nil {
		return nil, err
	}
	defer body.Close()

	reader := csv.NewReader(body)
	reader.FieldsPerRecord = -1 // comment rows vary in width

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var reports []domain.StormReport
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed row: skip, keep the rest of the file.
			c.logger.Debug("skipping malformed report row", "type", typ, "error", err)
			continue
		}

		fields := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(row) {
				fields[name] = row[i]
			}
		}

		report, ok := domain.ParseReportRow(typ, fields)
		if !ok {
			continue
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// RiskZones fetches the day-1 categorical outlook GeoJSON and converts
// each risk polygon into an OutlookZone. MultiPolygon features produce
// one zone per outer ring.
func (c *Client) RiskZones(ctx context.Context) ([]domain.OutlookZone, error) {
	body, err := c.get(ctx, c.baseURL+"/products/outlook/day1otlk_cat.lyr.geojson", "application/json")
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var fc outlookFeatureCollection
	if err := json.NewDecoder(body).Decode(&fc); err != nil {
		return nil, fmt.Errorf("decode outlook: %w", err)
	}

	var zones []domain.OutlookZone
	for _, f := range fc.Features {
		risk := domain.ParseOutlookRisk(f.Properties.Label)
		if risk == domain.RiskNone {
			continue
		}
		validFrom := parseOutlookTime(f.Properties.Valid)
		validTo := parseOutlookTime(f.Properties.Expire)

		for _, ring := range f.Geometry.outerRings() {
			zones = append(zones, domain.OutlookZone{
				Risk:      risk,
				Polygon:   ring,
				ValidFrom: validFrom,
				ValidTo:   validTo,
			})
		}
	}
	return zones, nil
}

// ActiveDiscussions fetches the mesoscale discussion RSS feed. Each
// item's description carries the raw discussion text the extractor
// scrapes for a watch probability.
func (c *Client) ActiveDiscussions(ctx context.Context) ([]domain.Discussion, error) {
	body, err := c.get(ctx, c.baseURL+"/products/spcmdrss.xml", "application/rss+xml")
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var feed mcdFeed
	if err := xml.NewDecoder(body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode mcd feed: %w", err)
	}

	discussions := make([]domain.Discussion, 0, len(feed.Channel.Items))
	for _, item := range feed.Channel.Items {
		discussions = append(discussions, domain.Discussion{
			ID:   item.Title,
			Text: item.Description,
		})
	}
	return discussions, nil
}

func (c *Client) get(ctx context.Context, url, accept string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", accept)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("SPC status %d for %s", resp.StatusCode, url)
	}
	return resp.Body, nil
}

// parseOutlookTime parses SPC's compact yyyymmddHHMM stamps. Zero time
// on failure leaves the zone always-valid, which is the safe reading.
func parseOutlookTime(s string) time.Time {
	t, err := time.Parse("200601021504", s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// SPC feed types.

type outlookFeatureCollection struct {
	Features []struct {
		Properties struct {
			Label  string `json:"LABEL"`
			Valid  string `json:"VALID"`
			Expire string `json:"EXPIRE"`
		} `json:"properties"`
		Geometry outlookGeometry `json:"geometry"`
	} `json:"features"`
}

type outlookGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// outerRings returns the outer ring of every polygon in the geometry,
// converting GeoJSON [lon, lat] pairs to Points. Holes are ignored:
// categorical zones nest by severity, so the highest containing ring
// still wins.
func (g *outlookGeometry) outerRings() [][]domain.Point {
	switch g.Type {
	case "Polygon":
		var coords [][][]float64
		if err := json.Unmarshal(g.Coordinates, &coords); err != nil {
			return nil
		}
		return [][]domain.Point{ringToPoints(coords)}
	case "MultiPolygon":
		var coords [][][][]float64
		if err := json.Unmarshal(g.Coordinates, &coords); err != nil {
			return nil
		}
		rings := make([][]domain.Point, 0, len(coords))
		for _, poly := range coords {
			if ring := ringToPoints(poly); ring != nil {
				rings = append(rings, ring)
			}
		}
		return rings
	default:
		return nil
	}
}

func ringToPoints(poly [][][]float64) []domain.Point {
	if len(poly) == 0 {
		return nil
	}
	outer := poly[0]
	ring := make([]domain.Point, 0, len(outer))
	for _, pair := range outer {
		if len(pair) < 2 {
			continue
		}
		ring = append(ring, domain.Point{Lon: pair[0], Lat: pair[1]})
	}
	return ring
}

type mcdFeed struct {
	Channel struct {
		Items []struct {
			Title       string `xml:"title"`
			Description string `xml:"description"`
		} `xml:"item"`
	} `xml:"channel"`
}
