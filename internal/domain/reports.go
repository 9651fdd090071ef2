package domain

import (
	"sort"
	"strconv"
	"strings"
)

// ReportType classifies a storm report row.
type ReportType string

const (
	ReportTornado ReportType = "tornado"
	ReportWind    ReportType = "wind"
	ReportHail    ReportType = "hail"
)

// StormReport is one normalized storm report from the daily CSV feeds.
type StormReport struct {
	Type          ReportType `json:"type"`
	Time          string     `json:"time"` // HHMM as reported, e.g. "1510"
	Lat           float64    `json:"lat"`
	Lon           float64    `json:"lon"`
	Magnitude     string     `json:"magnitude,omitempty"`
	Location      string     `json:"location,omitempty"`
	County        string     `json:"county,omitempty"`
	State         string     `json:"state,omitempty"`
	Comments      string     `json:"comments,omitempty"`
	DistanceMiles float64    `json:"distance_miles"`
}

// ParseReportRow converts one CSV row into a StormReport. Rows whose
// latitude or longitude is missing or non-numeric are dropped (ok=false),
// never defaulted to 0,0: that coordinate is a real place in the Gulf
// of Guinea, not a sentinel.
func ParseReportRow(typ ReportType, fields map[string]string) (StormReport, bool) {
	lat, okLat := parseCoord(fields["Lat"])
	lon, okLon := parseCoord(fields["Lon"])
	if !okLat || !okLon {
		return StormReport{}, false
	}

	return StormReport{
		Type:      typ,
		Time:      strings.TrimSpace(fields["Time"]),
		Lat:       lat,
		Lon:       lon,
		Magnitude: normalizeReportMagnitude(typ, fields),
		Location:  strings.TrimSpace(fields["Location"]),
		County:    strings.TrimSpace(fields["County"]),
		State:     strings.TrimSpace(fields["State"]),
		Comments:  strings.TrimSpace(fields["Comments"]),
	}, true
}

func parseCoord(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// normalizeReportMagnitude selects the magnitude column for the report
// type. "UNK" is the feed's sentinel for unknown magnitude.
func normalizeReportMagnitude(typ ReportType, fields map[string]string) string {
	var raw string
	switch typ {
	case ReportHail:
		raw = fields["Size"]
	case ReportTornado:
		raw = fields["F_Scale"]
	case ReportWind:
		raw = fields["Speed"]
	}
	raw = strings.TrimSpace(raw)
	if strings.EqualFold(raw, "UNK") {
		return ""
	}
	return raw
}

// NearbyReports filters reports to those within radiusMiles of the query
// point, stamps each survivor's distance, and returns them sorted
// ascending by distance. A report exactly at the query point is always
// included for any radius >= 0.
func NearbyReports(reports []StormReport, lat, lon, radiusMiles float64) []StormReport {
	var out []StormReport
	for _, r := range reports {
		d := HaversineMiles(lat, lon, r.Lat, r.Lon)
		if d > radiusMiles {
			continue
		}
		r.DistanceMiles = d
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceMiles < out[j].DistanceMiles
	})
	return out
}

// ExtractReportFacts counts nearby reports by type.
func ExtractReportFacts(nearby []StormReport) ReportFacts {
	var facts ReportFacts
	for _, r := range nearby {
		switch r.Type {
		case ReportTornado:
			facts.TornadoCount++
		case ReportWind:
			facts.WindCount++
		case ReportHail:
			facts.HailCount++
		}
	}
	return facts
}
