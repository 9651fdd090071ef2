// Package aggregator orchestrates the per-source fetches behind the
// time-bounded cache, merges the extracted facts, and runs the threat
// engine, tolerating partial source failure.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/storm-threat-service/internal/cache"
	"github.com/couchcryptid/storm-threat-service/internal/config"
	"github.com/couchcryptid/storm-threat-service/internal/domain"
	"github.com/couchcryptid/storm-threat-service/internal/observability"
)

// AlertSource fetches active alerts for a point.
type AlertSource interface {
	ActiveAlerts(ctx context.Context, lat, lon float64) ([]domain.Alert, error)
}

// ReportSource fetches today's storm reports (nationwide).
type ReportSource interface {
	TodayReports(ctx context.Context) ([]domain.StormReport, error)
}

// ShelterSource looks up shelters near a point.
type ShelterSource interface {
	Nearby(ctx context.Context, lat, lon, radiusMiles float64) ([]domain.Shelter, error)
}

// InstabilitySource fetches the multi-day instability forecast for a point.
type InstabilitySource interface {
	Forecast(ctx context.Context, lat, lon float64) (domain.InstabilityForecast, error)
}

// OutlookSource fetches the current categorical outlook risk zones.
type OutlookSource interface {
	RiskZones(ctx context.Context) ([]domain.OutlookZone, error)
}

// DiscussionSource fetches active mesoscale discussions.
type DiscussionSource interface {
	ActiveDiscussions(ctx context.Context) ([]domain.Discussion, error)
}

// Sources bundles one provider per source type.
type Sources struct {
	Alerts      AlertSource
	Reports     ReportSource
	Shelters    ShelterSource
	Instability InstabilitySource
	Outlook     OutlookSource
	Discussions DiscussionSource
}

// Query is a validated assessment request.
type Query struct {
	Lat         float64
	Lon         float64
	RadiusMiles float64
}

// Validate rejects malformed caller input. This is the one path where
// the aggregator errors instead of degrading: bad input means no fetch
// is attempted at all.
func (q Query) Validate() error {
	if q.Lat < -90 || q.Lat > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", q.Lat)
	}
	if q.Lon < -180 || q.Lon > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", q.Lon)
	}
	if q.RadiusMiles < 0 {
		return fmt.Errorf("radius %v must not be negative", q.RadiusMiles)
	}
	return nil
}

// Coordinates echoes the query point in the composed result.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// AlertSummary groups the active alerts for presentation.
type AlertSummary struct {
	All     []domain.Alert `json:"all"`
	Tornado []domain.Alert `json:"tornado"`
	Count   int            `json:"count"`
}

// ReportSummary counts today's nearby storm reports by type.
type ReportSummary struct {
	Tornado int `json:"tornado"`
	Wind    int `json:"wind"`
	Hail    int `json:"hail"`
}

// ShelterSummary lists shelters near the query point.
type ShelterSummary struct {
	Nearby []domain.Shelter `json:"nearby"`
	Count  int              `json:"count"`
}

// Result is the composed assessment returned to the presentation layer.
// PartialFailures names every source that could not be fetched this
// call; when it covers all sources the result means "we don't know",
// not "all clear".
type Result struct {
	Location        Coordinates         `json:"location"`
	FetchedAt       time.Time           `json:"fetched_at"`
	ThreatLevel     domain.ThreatLevel  `json:"threat_level"`
	Reasons         []string            `json:"reasons"`
	ForwardScore    domain.ForwardScore `json:"forward_score"`
	Facts           domain.Facts        `json:"facts"`
	Alerts          AlertSummary        `json:"alerts"`
	StormReports    ReportSummary       `json:"storm_reports"`
	Shelters        ShelterSummary      `json:"shelters"`
	PartialFailures []string            `json:"partial_failures"`
}

// Aggregator fans out one fetch per source through the cache and hands
// the merged facts to the threat engine.
type Aggregator struct {
	sources Sources
	cache   *cache.Cache
	ttls    config.SourceTTLs

	fetchTimeout time.Duration
	bulkTimeout  time.Duration

	logger  *slog.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock
	ready   atomic.Bool
}

// New creates an Aggregator. The cache is injected, not global, so
// tests can pair it with a fake clock.
func New(sources Sources, c *cache.Cache, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *Aggregator {
	return &Aggregator{
		sources:      sources,
		cache:        c,
		ttls:         cfg.TTLs,
		fetchTimeout: cfg.FetchTimeout,
		bulkTimeout:  cfg.BulkFetchTimeout,
		logger:       logger,
		metrics:      metrics,
		clock:        clock,
	}
}

// CheckReadiness returns nil once at least one assessment has completed.
func (a *Aggregator) CheckReadiness(_ context.Context) error {
	if !a.ready.Load() {
		return errors.New("no assessment completed yet")
	}
	return nil
}

// fetchState collects the per-source results of one assess call. Each
// field is written by exactly one goroutine; failed guards its map.
type fetchState struct {
	alerts      []domain.Alert
	reports     []domain.StormReport
	shelters    []domain.Shelter
	instability domain.InstabilityForecast
	outlook     []domain.OutlookZone
	discussions []domain.Discussion

	mu     sync.Mutex
	failed map[domain.Source]bool
}

func (s *fetchState) fail(src domain.Source) {
	s.mu.Lock()
	s.failed[src] = true
	s.mu.Unlock()
}

// Assess runs one full assessment: all source fetches are issued
// concurrently before any is awaited, so latency is bounded by the
// slowest single source. A failed source degrades to zero-value facts
// and is recorded; the call never short-circuits and performs no
// retries of its own.
func (a *Aggregator) Assess(ctx context.Context, q Query) (Result, error) {
	if err := q.Validate(); err != nil {
		return Result{}, err
	}

	start := time.Now()
	state := &fetchState{failed: make(map[domain.Source]bool)}

	var wg sync.WaitGroup
	run := func(src domain.Source, fetch func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fetch(); err != nil {
				a.logger.Warn("source fetch failed", "source", src, "error", err)
				state.fail(src)
			}
		}()
	}

	run(domain.SourceAlerts, func() error {
		v, err := fetchCached(ctx, a, domain.SourceAlerts,
			pointKey("alerts", q.Lat, q.Lon), a.ttls.Alerts, a.fetchTimeout,
			func(ctx context.Context) ([]domain.Alert, error) {
				alerts, err := a.sources.Alerts.ActiveAlerts(ctx, q.Lat, q.Lon)
				if err != nil {
					return nil, err
				}
				domain.SortAlertsBySeverity(alerts)
				return alerts, nil
			})
		state.alerts = v
		return err
	})

	run(domain.SourceReports, func() error {
		v, err := fetchCached(ctx, a, domain.SourceReports,
			radiusKey("reports", q.Lat, q.Lon, q.RadiusMiles), a.ttls.Reports, a.bulkTimeout,
			func(ctx context.Context) ([]domain.StormReport, error) {
				all, err := a.sources.Reports.TodayReports(ctx)
				if err != nil {
					return nil, err
				}
				return domain.NearbyReports(all, q.Lat, q.Lon, q.RadiusMiles), nil
			})
		state.reports = v
		return err
	})

	run(domain.SourceShelters, func() error {
		v, err := fetchCached(ctx, a, domain.SourceShelters,
			radiusKey("shelters", q.Lat, q.Lon, q.RadiusMiles), a.ttls.Shelters, a.fetchTimeout,
			func(ctx context.Context) ([]domain.Shelter, error) {
				return a.sources.Shelters.Nearby(ctx, q.Lat, q.Lon, q.RadiusMiles)
			})
		state.shelters = v
		return err
	})

	run(domain.SourceInstability, func() error {
		v, err := fetchCached(ctx, a, domain.SourceInstability,
			pointKey("instability", q.Lat, q.Lon), a.ttls.Instability, a.fetchTimeout,
			func(ctx context.Context) (domain.InstabilityForecast, error) {
				return a.sources.Instability.Forecast(ctx, q.Lat, q.Lon)
			})
		state.instability = v
		return err
	})

	run(domain.SourceOutlook, func() error {
		v, err := fetchCached(ctx, a, domain.SourceOutlook,
			"outlook:day1", a.ttls.Outlook, a.bulkTimeout,
			func(ctx context.Context) ([]domain.OutlookZone, error) {
				return a.sources.Outlook.RiskZones(ctx)
			})
		state.outlook = v
		return err
	})

	run(domain.SourceMCD, func() error {
		v, err := fetchCached(ctx, a, domain.SourceMCD,
			"mcd:active", a.ttls.MCD, a.fetchTimeout,
			func(ctx context.Context) ([]domain.Discussion, error) {
				return a.sources.Discussions.ActiveDiscussions(ctx)
			})
		state.discussions = v
		return err
	})

	wg.Wait()

	result := a.compose(q, state)

	a.metrics.AssessmentsTotal.Inc()
	a.metrics.AssessmentDuration.Observe(time.Since(start).Seconds())
	a.ready.Store(true)

	return result, nil
}

// compose merges the fact set and runs the threat engine. Extraction is
// cheap and time-dependent (current-hour index, outlook validity), so
// facts are derived fresh per call even when every payload was cached.
func (a *Aggregator) compose(q Query, state *fetchState) Result {
	facts := domain.Facts{
		Alerts:      domain.ExtractAlertFacts(state.alerts),
		Reports:     domain.ExtractReportFacts(state.reports),
		Instability: domain.ExtractInstabilityFacts(state.instability),
		Outlook:     domain.ExtractOutlookFacts(state.outlook, q.Lat, q.Lon),
		Discussion:  domain.ExtractDiscussionFacts(state.discussions),
		FetchedAt:   a.clock.Now(),
	}

	assessment := domain.AssessThreat(facts)
	forward := domain.ScoreForward(facts.Instability)

	failures := make([]string, 0, len(state.failed))
	for _, src := range domain.AllSources {
		if state.failed[src] {
			failures = append(failures, string(src))
		}
	}

	alerts := state.alerts
	if alerts == nil {
		alerts = []domain.Alert{}
	}
	shelters := state.shelters
	if shelters == nil {
		shelters = []domain.Shelter{}
	}

	return Result{
		Location:     Coordinates{Latitude: q.Lat, Longitude: q.Lon},
		FetchedAt:    facts.FetchedAt,
		ThreatLevel:  assessment.Level,
		Reasons:      assessment.Reasons,
		ForwardScore: forward,
		Facts:        facts,
		Alerts: AlertSummary{
			All:     alerts,
			Tornado: domain.FilterTornadoAlerts(alerts),
			Count:   len(alerts),
		},
		StormReports: ReportSummary{
			Tornado: facts.Reports.TornadoCount,
			Wind:    facts.Reports.WindCount,
			Hail:    facts.Reports.HailCount,
		},
		Shelters: ShelterSummary{
			Nearby: shelters,
			Count:  len(shelters),
		},
		PartialFailures: failures,
	}
}

// fetchCached guards one source fetch with the TTL cache: a hit returns
// the cached normalized value; a miss calls the provider under its own
// timeout and stores the result for the source's TTL.
func fetchCached[T any](ctx context.Context, a *Aggregator, src domain.Source, key string, ttl, timeout time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	if v, ok := a.cache.Get(key); ok {
		if typed, ok := v.(T); ok {
			a.metrics.CacheLookups.WithLabelValues(string(src), "hit").Inc()
			return typed, nil
		}
	}
	a.metrics.CacheLookups.WithLabelValues(string(src), "miss").Inc()

	fctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	v, err := fetch(fctx)
	if err != nil {
		a.metrics.SourceFetches.WithLabelValues(string(src), "error").Inc()
		var zero T
		return zero, err
	}

	a.metrics.SourceFetches.WithLabelValues(string(src), "success").Inc()
	a.metrics.SourceFetchSeconds.WithLabelValues(string(src)).Observe(time.Since(start).Seconds())
	a.cache.Set(key, v, ttl)
	return v, nil
}

// pointKey fingerprints a point-scoped request. Coordinates are rounded
// to two decimals (~0.7 mi) so repeated nearby queries share an entry.
func pointKey(src string, lat, lon float64) string {
	return fmt.Sprintf("%s:%.2f,%.2f", src, lat, lon)
}

func radiusKey(src string, lat, lon, radius float64) string {
	return fmt.Sprintf("%s:%.2f,%.2f|r=%.1f", src, lat, lon, radius)
}
