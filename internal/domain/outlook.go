package domain

import "time"

// OutlookRisk is the categorical convective outlook code, ordered from
// no risk to high risk.
type OutlookRisk int

const (
	RiskNone OutlookRisk = iota
	RiskTstm
	RiskMarginal
	RiskSlight
	RiskEnhanced
	RiskModerate
	RiskHigh
)

func (r OutlookRisk) String() string {
	switch r {
	case RiskTstm:
		return "TSTM"
	case RiskMarginal:
		return "MRGL"
	case RiskSlight:
		return "SLGT"
	case RiskEnhanced:
		return "ENH"
	case RiskModerate:
		return "MDT"
	case RiskHigh:
		return "HIGH"
	default:
		return "NONE"
	}
}

func (r OutlookRisk) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// ParseOutlookRisk maps a feed risk label onto the ordered scale.
// Unrecognized labels map to NONE.
func ParseOutlookRisk(label string) OutlookRisk {
	switch label {
	case "TSTM":
		return RiskTstm
	case "MRGL":
		return RiskMarginal
	case "SLGT":
		return RiskSlight
	case "ENH":
		return RiskEnhanced
	case "MDT":
		return RiskModerate
	case "HIGH":
		return RiskHigh
	default:
		return RiskNone
	}
}

// OutlookZone is one categorical risk polygon with its validity window.
type OutlookZone struct {
	Risk      OutlookRisk `json:"risk"`
	Polygon   []Point     `json:"polygon"`
	ValidFrom time.Time   `json:"valid_from"`
	ValidTo   time.Time   `json:"valid_to"`
}

// ExtractOutlookFacts returns the highest risk among zones that are
// currently valid and contain the query point. Zones without a validity
// window are treated as always valid.
func ExtractOutlookFacts(zones []OutlookZone, lat, lon float64) OutlookFacts {
	now := clock.Now()
	p := Point{Lat: lat, Lon: lon}

	best := RiskNone
	for _, z := range zones {
		if !z.ValidFrom.IsZero() && now.Before(z.ValidFrom) {
			continue
		}
		if !z.ValidTo.IsZero() && now.After(z.ValidTo) {
			continue
		}
		if z.Risk > best && pointInPolygon(p, z.Polygon) {
			best = z.Risk
		}
	}
	return OutlookFacts{Risk: best}
}
