package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"volley-rank/internal/domain"
	"volley-rank/internal/ranking"
)

const namespace = "volley_rank"

type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	tournaments  prometheus.Counter
	results      prometheus.Counter
	skippedRanks prometheus.Counter
	teams        prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		tournaments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tournaments_ingested_total",
			Help:      "Tournaments ingested into the engine.",
		}),
		results: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_ingested_total",
			Help:      "Placement records ingested, including skipped ranks.",
		}),
		skippedRanks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_skipped_rank_total",
			Help:      "Placement records kept in history but not counted.",
		}),
		teams: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "teams",
			Help:      "Distinct team identities known to the engine.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.requestDuration,
		m.tournaments,
		m.results,
		m.skippedRanks,
		m.teams,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveIngest(report ranking.IngestReport) {
	m.tournaments.Inc()
	m.results.Add(float64(report.Tournament.Results))
	m.skippedRanks.Add(float64(report.SkippedRanks))
}

func (m *Metrics) SetTeams(n int) {
	m.teams.Set(float64(n))
}

// Recorder is an engine whose ingests are counted.
type Recorder struct {
	*ranking.Engine
	metrics *Metrics
}

func (m *Metrics) Recorder(engine *ranking.Engine) Recorder {
	return Recorder{Engine: engine, metrics: m}
}

func (r Recorder) Ingest(tournamentName, dateLabel string, results []domain.TournamentResult) ranking.IngestReport {
	report := r.Engine.Ingest(tournamentName, dateLabel, results)
	r.metrics.ObserveIngest(report)
	return report
}

// SyncTeams sets the team gauge from the wrapped engine.
func (r Recorder) SyncTeams() {
	r.metrics.SetTeams(r.Engine.TournamentStats().TotalTeams)
}
