package domain

import "fmt"

// ThreatAssessment is the immediate severity verdict for a location.
// It is recomputed on every aggregator call, never cached.
type ThreatAssessment struct {
	Level   ThreatLevel `json:"level"`
	Reasons []string    `json:"reasons"`
}

// AssessThreat derives the immediate threat level from the merged fact
// set. This is a priority cascade, not a weighted sum: rules are
// evaluated top to bottom and the first match wins. Missing facts read
// as false, so a degraded fact set yields a lower level rather than an
// error; the engine always produces a verdict.
func AssessThreat(facts Facts) ThreatAssessment {
	a := facts.Alerts
	r := facts.Reports

	switch {
	case a.TornadoWarning:
		return assessment(ThreatExtreme, "Active tornado warning in effect")
	case a.TornadoWatch && r.TornadoCount > 0:
		return assessment(ThreatHigh,
			fmt.Sprintf("Tornado watch in effect with %d tornado report(s) nearby today", r.TornadoCount))
	case a.TornadoWatch:
		return assessment(ThreatElevated, "Tornado watch in effect")
	case r.TornadoCount > 0:
		return assessment(ThreatElevated,
			fmt.Sprintf("%d tornado report(s) nearby today", r.TornadoCount))
	case a.SevereThunderstormWarning:
		return assessment(ThreatElevated, "Active severe thunderstorm warning in effect")
	case a.AnyWatch:
		return assessment(ThreatModerate, "Weather watch in effect")
	case a.AnyAlert:
		return assessment(ThreatLow, "Active weather advisory or alert")
	default:
		return ThreatAssessment{Level: ThreatNone, Reasons: []string{}}
	}
}

func assessment(level ThreatLevel, reason string) ThreatAssessment {
	return ThreatAssessment{Level: level, Reasons: []string{reason}}
}
