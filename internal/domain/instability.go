package domain

import "time"

// highRiskCapeThreshold marks a forecast day as high-risk when its max
// CAPE reaches this value (J/kg). Fixed, not configurable per call.
const highRiskCapeThreshold = 1000.0

// hoursPerWeek is the 7-day slice of the hourly forecast arrays.
const hoursPerWeek = 7 * 24

// HourlyInstability holds the parallel hourly forecast arrays. All
// slices are indexed by hours since IssuedAt; they may be shorter than
// 16 days when the provider truncates the horizon.
type HourlyInstability struct {
	CAPE        []float64 `json:"cape"`
	LiftedIndex []float64 `json:"lifted_index"`
	CIN         []float64 `json:"cin"`
	DewpointC   []float64 `json:"dewpoint_c"`
	WindGustMph []float64 `json:"wind_gust_mph"`
}

// DailyInstability is one day of the daily CAPE summary arrays.
type DailyInstability struct {
	Date     time.Time `json:"date"`
	CapeMax  float64   `json:"cape_max"`
	CapeMin  float64   `json:"cape_min"`
	CapeMean float64   `json:"cape_mean"`
}

// InstabilityForecast is the normalized multi-day convective forecast,
// spanning up to 16 days from IssuedAt.
type InstabilityForecast struct {
	IssuedAt time.Time          `json:"issued_at"`
	Hourly   HourlyInstability  `json:"hourly"`
	Daily    []DailyInstability `json:"daily"`
}

// ExtractInstabilityFacts reduces the forecast to the metrics the threat
// engine consumes. The "current hour" is the wall-clock hour index into
// the hourly arrays counted from forecast issuance; when that index is
// outside an array, the corresponding fact is nil rather than zero.
func ExtractInstabilityFacts(f InstabilityForecast) InstabilityFacts {
	facts := InstabilityFacts{
		CapeMax7Day:  maxDailyCape(f.Daily, 7),
		CapeMax16Day: maxDailyCape(f.Daily, 16),
	}

	hour := currentHourIndex(f.IssuedAt)
	if hour >= 0 && hour < len(f.Hourly.CIN) {
		cin := f.Hourly.CIN[hour]
		facts.CINCurrent = &cin
	}

	if li, ok := minOver(f.Hourly.LiftedIndex, hoursPerWeek); ok {
		facts.LiftedIndexMin = &li
	}
	if dp, ok := maxOver(f.Hourly.DewpointC, hoursPerWeek); ok {
		facts.DewpointMaxC = dp
	}
	if g, ok := maxOver(f.Hourly.WindGustMph, len(f.Hourly.WindGustMph)); ok {
		facts.MaxWindGustMph = g
	}

	for _, d := range f.Daily {
		if d.CapeMax >= highRiskCapeThreshold {
			facts.HighRiskDayCount++
		}
	}

	return facts
}

// currentHourIndex returns whole hours elapsed since issuance, or -1
// when issuance is unknown or in the future.
func currentHourIndex(issuedAt time.Time) int {
	if issuedAt.IsZero() {
		return -1
	}
	elapsed := clock.Now().Sub(issuedAt)
	if elapsed < 0 {
		return -1
	}
	return int(elapsed / time.Hour)
}

func maxDailyCape(daily []DailyInstability, days int) float64 {
	if days > len(daily) {
		days = len(daily)
	}
	max := 0.0
	for _, d := range daily[:days] {
		if d.CapeMax > max {
			max = d.CapeMax
		}
	}
	return max
}

func minOver(vals []float64, n int) (float64, bool) {
	if n > len(vals) {
		n = len(vals)
	}
	if n == 0 {
		return 0, false
	}
	min := vals[0]
	for _, v := range vals[1:n] {
		if v < min {
			min = v
		}
	}
	return min, true
}

func maxOver(vals []float64, n int) (float64, bool) {
	if n > len(vals) {
		n = len(vals)
	}
	if n == 0 {
		return 0, false
	}
	max := vals[0]
	for _, v := range vals[1:n] {
		if v > max {
			max = v
		}
	}
	return max, true
}
