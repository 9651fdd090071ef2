// Package domain models severe-weather hazard facts and the threat
// assessment engine that fuses them.
//
// # Data Sources
//
// Five upstream products feed the engine, each reduced to a small typed
// fact set by a pure extractor:
//
//   - Active alerts: the warnings/watches/advisories feed for a point.
//     Alert flags are derived by case-insensitive substring matching on
//     the event name ("tornado warning", "tornado watch", "severe
//     thunderstorm warning", "watch"), so prefixed or suffixed event
//     titles still match.
//   - Storm reports: the SPC daily tornado/wind/hail CSVs
//     (https://www.spc.noaa.gov/climo/reports/). Rows with missing or
//     non-numeric coordinates are dropped, not defaulted. Counts are
//     taken within a caller radius using great-circle distance in
//     statute miles (Earth radius 3959 mi).
//   - Instability forecast: hourly CAPE / lifted index / CIN / dewpoint
//     / wind gust arrays plus daily CAPE summaries, up to 16 days. The
//     "current hour" is the wall-clock hour index into the hourly
//     arrays counted from forecast issuance; an out-of-range index
//     yields a nil fact, never zero.
//   - Convective outlook: categorical risk polygons ordered
//     TSTM < MRGL < SLGT < ENH < MDT < HIGH; the highest currently
//     valid zone containing the point wins.
//   - Mesoscale discussions: free text optionally carrying a watch
//     issuance probability ("Probability of Watch Issuance...80
//     percent"). Scraping is best-effort and fails soft to nil.
//
// # Threat Engine
//
// Two independent outputs:
//
// The immediate level is a priority cascade (first match wins):
// tornado warning → EXTREME; tornado watch plus nearby tornado reports
// → HIGH; tornado watch or nearby tornado reports → ELEVATED; severe
// thunderstorm warning → ELEVATED; any watch → MODERATE; any alert →
// LOW; otherwise NONE.
//
// The 16-day forward score is an additive point scale over the
// instability facts with mutually exclusive bands per term, mapped to
// MINIMAL / LOW / MODERATE / HIGH / EXTREME at 15/30/50/70 points.
//
// Missing facts degrade silently: predicates read false and numeric
// terms contribute zero. The engine always returns a verdict; callers
// distinguish "no data" from "no threat" via the aggregator's
// partial-failure list.
package domain
