package domain

import "time"

// Source identifies one upstream data provider.
type Source string

const (
	SourceAlerts      Source = "alerts"
	SourceReports     Source = "reports"
	SourceShelters    Source = "shelters"
	SourceInstability Source = "instability"
	SourceOutlook     Source = "outlook"
	SourceMCD         Source = "mcd"
)

// AllSources lists every source the aggregator fetches, in a stable order.
var AllSources = []Source{
	SourceAlerts,
	SourceReports,
	SourceShelters,
	SourceInstability,
	SourceOutlook,
	SourceMCD,
}

// ThreatLevel is the ordered immediate severity scale.
type ThreatLevel int

const (
	ThreatNone ThreatLevel = iota
	ThreatLow
	ThreatModerate
	ThreatElevated
	ThreatHigh
	ThreatExtreme
)

func (l ThreatLevel) String() string {
	switch l {
	case ThreatLow:
		return "LOW"
	case ThreatModerate:
		return "MODERATE"
	case ThreatElevated:
		return "ELEVATED"
	case ThreatHigh:
		return "HIGH"
	case ThreatExtreme:
		return "EXTREME"
	default:
		return "NONE"
	}
}

// MarshalText renders the level as its label so JSON output carries
// "EXTREME" rather than an opaque integer.
func (l ThreatLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// ForwardLevel is the label scale for the 16-day forward score.
// It is a separate scale from ThreatLevel: a quiet day with no alerts is
// NONE immediately but MINIMAL forward, and the two should not compare.
type ForwardLevel int

const (
	ForwardMinimal ForwardLevel = iota
	ForwardLow
	ForwardModerate
	ForwardHigh
	ForwardExtreme
)

func (l ForwardLevel) String() string {
	switch l {
	case ForwardLow:
		return "LOW"
	case ForwardModerate:
		return "MODERATE"
	case ForwardHigh:
		return "HIGH"
	case ForwardExtreme:
		return "EXTREME"
	default:
		return "MINIMAL"
	}
}

func (l ForwardLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// AlertFacts are the boolean flags derived from the active-alerts feed.
type AlertFacts struct {
	TornadoWarning            bool `json:"tornado_warning"`
	TornadoWatch              bool `json:"tornado_watch"`
	SevereThunderstormWarning bool `json:"severe_thunderstorm_warning"`
	AnyWatch                  bool `json:"any_watch"`
	AnyAlert                  bool `json:"any_alert"`
}

// ReportFacts count today's storm reports within the query radius.
type ReportFacts struct {
	TornadoCount int `json:"tornado_count"`
	WindCount    int `json:"wind_count"`
	HailCount    int `json:"hail_count"`
}

// InstabilityFacts summarize the multi-day convective forecast.
// Pointer fields are nil when the current-hour slice is outside the
// forecast window; the engine treats nil as a zero contribution.
type InstabilityFacts struct {
	CapeMax7Day      float64  `json:"cape_max_7day"`
	CapeMax16Day     float64  `json:"cape_max_16day"`
	LiftedIndexMin   *float64 `json:"lifted_index_min,omitempty"`
	CINCurrent       *float64 `json:"cin_current,omitempty"`
	DewpointMaxC     float64  `json:"dewpoint_max_c"`
	MaxWindGustMph   float64  `json:"max_wind_gust_mph"`
	HighRiskDayCount int      `json:"high_risk_day_count"`
}

// OutlookFacts carry the categorical convective outlook risk at the point.
type OutlookFacts struct {
	Risk OutlookRisk `json:"risk"`
}

// DiscussionFacts carry the highest watch-issuance probability found in
// active mesoscale discussions, nil when none mention one.
type DiscussionFacts struct {
	WatchProbability *int `json:"watch_probability,omitempty"`
}

// Facts is the merged, normalized fact set handed to the threat engine.
// A source that failed upstream leaves its field at the zero value.
type Facts struct {
	Alerts      AlertFacts       `json:"alerts"`
	Reports     ReportFacts      `json:"reports"`
	Instability InstabilityFacts `json:"instability"`
	Outlook     OutlookFacts     `json:"outlook"`
	Discussion  DiscussionFacts  `json:"discussion"`
	FetchedAt   time.Time        `json:"fetched_at"`
}
