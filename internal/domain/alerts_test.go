package domain_test

import (
	"testing"

	"github.com/couchcryptid/storm-threat-service/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestExtractAlertFacts_SubstringMatching(t *testing.T) {
	tests := []struct {
		name   string
		events []string
		want   domain.AlertFacts
	}{
		{
			name:   "tornado warning with suffix text",
			events: []string{"Tornado Warning issued April 26 at 3:15PM CDT"},
			want:   domain.AlertFacts{TornadoWarning: true, AnyAlert: true},
		},
		{
			name:   "case insensitive",
			events: []string{"TORNADO WATCH 123"},
			want:   domain.AlertFacts{TornadoWatch: true, AnyWatch: true, AnyAlert: true},
		},
		{
			name:   "severe thunderstorm warning",
			events: []string{"Severe Thunderstorm Warning"},
			want:   domain.AlertFacts{SevereThunderstormWarning: true, AnyAlert: true},
		},
		{
			name:   "flood watch counts as a watch but not a tornado watch",
			events: []string{"Flood Watch"},
			want:   domain.AlertFacts{AnyWatch: true, AnyAlert: true},
		},
		{
			name:   "advisory sets only the any-alert flag",
			events: []string{"Wind Advisory"},
			want:   domain.AlertFacts{AnyAlert: true},
		},
		{
			name:   "multiple alerts accumulate flags",
			events: []string{"Tornado Watch", "Severe Thunderstorm Warning", "Flood Advisory"},
			want: domain.AlertFacts{
				TornadoWatch:              true,
				SevereThunderstormWarning: true,
				AnyWatch:                  true,
				AnyAlert:                  true,
			},
		},
		{
			name:   "no alerts",
			events: nil,
			want:   domain.AlertFacts{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts := make([]domain.Alert, 0, len(tt.events))
			for _, e := range tt.events {
				alerts = append(alerts, domain.Alert{Event: e})
			}
			got := domain.ExtractAlertFacts(alerts)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("facts mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeSeverity(t *testing.T) {
	assert.Equal(t, domain.SeverityExtreme, domain.NormalizeSeverity("Extreme"))
	assert.Equal(t, domain.SeveritySevere, domain.NormalizeSeverity("Severe"))
	assert.Equal(t, domain.SeverityModerate, domain.NormalizeSeverity("Moderate"))
	assert.Equal(t, domain.SeverityMinor, domain.NormalizeSeverity("Minor"))
	assert.Equal(t, domain.SeverityUnknown, domain.NormalizeSeverity(""))
	assert.Equal(t, domain.SeverityUnknown, domain.NormalizeSeverity("Catastrophic"))
}

func TestSortAlertsBySeverity(t *testing.T) {
	alerts := []domain.Alert{
		{Event: "Wind Advisory", Severity: domain.SeverityMinor},
		{Event: "Tornado Warning", Severity: domain.SeverityExtreme},
		{Event: "Flood Watch", Severity: domain.SeverityModerate},
		{Event: "Severe Thunderstorm Warning", Severity: domain.SeveritySevere},
		{Event: "Special Weather Statement", Severity: domain.SeverityUnknown},
	}

	domain.SortAlertsBySeverity(alerts)

	want := []string{
		"Tornado Warning",
		"Severe Thunderstorm Warning",
		"Flood Watch",
		"Wind Advisory",
		"Special Weather Statement",
	}
	for i, event := range want {
		assert.Equal(t, event, alerts[i].Event)
	}
}

func TestSortAlertsBySeverity_StableOnTies(t *testing.T) {
	alerts := []domain.Alert{
		{Event: "first severe", Severity: domain.SeveritySevere},
		{Event: "extreme", Severity: domain.SeverityExtreme},
		{Event: "second severe", Severity: domain.SeveritySevere},
	}

	domain.SortAlertsBySeverity(alerts)

	assert.Equal(t, "extreme", alerts[0].Event)
	assert.Equal(t, "first severe", alerts[1].Event)
	assert.Equal(t, "second severe", alerts[2].Event)
}

func TestFilterTornadoAlerts(t *testing.T) {
	alerts := []domain.Alert{
		{Event: "Tornado Warning"},
		{Event: "Flood Watch"},
		{Event: "Tornado Watch"},
		{Event: "Severe Thunderstorm Warning"},
	}

	got := domain.FilterTornadoAlerts(alerts)

	assert.Len(t, got, 2)
	assert.Equal(t, "Tornado Warning", got[0].Event)
	assert.Equal(t, "Tornado Watch", got[1].Event)
}
