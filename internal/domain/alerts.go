package domain

import (
	"sort"
	"strings"
	"time"
)

// AlertSeverity is the provider-reported severity of an active alert.
type AlertSeverity string

const (
	SeverityExtreme  AlertSeverity = "Extreme"
	SeveritySevere   AlertSeverity = "Severe"
	SeverityModerate AlertSeverity = "Moderate"
	SeverityMinor    AlertSeverity = "Minor"
	SeverityUnknown  AlertSeverity = "Unknown"
)

// severityRank orders alerts for display: Extreme sorts first, Unknown last.
func severityRank(s AlertSeverity) int {
	switch s {
	case SeverityExtreme:
		return 0
	case SeveritySevere:
		return 1
	case SeverityModerate:
		return 2
	case SeverityMinor:
		return 3
	default:
		return 4
	}
}

// Alert is one active alert from the warnings feed.
type Alert struct {
	Event       string        `json:"event"`
	Severity    AlertSeverity `json:"severity"`
	Headline    string        `json:"headline,omitempty"`
	Description string        `json:"description,omitempty"`
	Onset       time.Time     `json:"onset"`
	Expires     time.Time     `json:"expires"`
	AreaDesc    string        `json:"area_desc,omitempty"`
}

// NormalizeSeverity maps a provider severity string onto the fixed scale.
func NormalizeSeverity(s string) AlertSeverity {
	switch s {
	case "Extreme":
		return SeverityExtreme
	case "Severe":
		return SeveritySevere
	case "Moderate":
		return SeverityModerate
	case "Minor":
		return SeverityMinor
	default:
		return SeverityUnknown
	}
}

// SortAlertsBySeverity orders alerts in place, most severe first.
// Ties keep their relative feed order (stable sort).
func SortAlertsBySeverity(alerts []Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		return severityRank(alerts[i].Severity) < severityRank(alerts[j].Severity)
	})
}

// ExtractAlertFacts derives the engine's boolean flags from the active
// alert list. Event matching is a case-insensitive substring test so
// "Tornado Warning issued April 26" still counts as a tornado warning.
func ExtractAlertFacts(alerts []Alert) AlertFacts {
	facts := AlertFacts{AnyAlert: len(alerts) > 0}
	for _, a := range alerts {
		event := strings.ToLower(a.Event)
		if strings.Contains(event, "tornado warning") {
			facts.TornadoWarning = true
		}
		if strings.Contains(event, "tornado watch") {
			facts.TornadoWatch = true
		}
		if strings.Contains(event, "severe thunderstorm warning") {
			facts.SevereThunderstormWarning = true
		}
		if strings.Contains(event, "watch") {
			facts.AnyWatch = true
		}
	}
	return facts
}

// FilterTornadoAlerts returns the subset of alerts whose event names a
// tornado product, preserving order.
func FilterTornadoAlerts(alerts []Alert) []Alert {
	var out []Alert
	for _, a := range alerts {
		if strings.Contains(strings.ToLower(a.Event), "tornado") {
			out = append(out, a)
		}
	}
	return out
}
