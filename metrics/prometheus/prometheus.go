// Package prometheus exports owlgo engine and query metrics to Prometheus.
//
// Collector implements owlgo.MetricsCollector for mutations,
// materialization and integrity checks. MonitorCollector publishes a
// perf.Monitor snapshot on every scrape, so the query hot path never touches
// Prometheus.
package prometheus

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/owlgo"
	"github.com/hupe1980/owlgo/model"
	"github.com/hupe1980/owlgo/perf"
)

// ErrInvalidConfig is returned for a configuration without a namespace.
var ErrInvalidConfig = errors.New("invalid prometheus config")

// Config configures the collectors.
type Config struct {
	// Namespace prefixes every metric name. Required.
	Namespace string

	// Subsystem is the optional second name component.
	Subsystem string

	// Registry receives the collectors. Nil selects prometheus.DefaultRegisterer.
	Registry prometheus.Registerer

	// DurationBuckets are the materialization duration buckets in seconds.
	DurationBuckets []float64
}

// DefaultConfig returns the "owlgo" namespace with default buckets.
func DefaultConfig() Config {
	return Config{
		Namespace:       "owlgo",
		DurationBuckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
	}
}

func (c *Config) resolve() (prometheus.Registerer, error) {
	if c.Namespace == "" {
		return nil, ErrInvalidConfig
	}
	if c.DurationBuckets == nil {
		c.DurationBuckets = DefaultConfig().DurationBuckets
	}
	if c.Registry == nil {
		return prometheus.DefaultRegisterer, nil
	}
	return c.Registry, nil
}

// Collector records engine operations.
type Collector struct {
	mutations    *prometheus.CounterVec
	materializes *prometheus.CounterVec
	duration     prometheus.Histogram
	passes       prometheus.Histogram
	rowsChanged  prometheus.Counter
	derived      *prometheus.CounterVec
	integrity    *prometheus.CounterVec
}

var _ owlgo.MetricsCollector = (*Collector)(nil)

// New creates and registers a Collector.
func New(cfg Config) (*Collector, error) {
	reg, err := cfg.resolve()
	if err != nil {
		return nil, err
	}

	c := &Collector{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "mutations_total",
			Help:      "Axiom mutations by kind and status",
		}, []string{"kind", "status"}),
		materializes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "materializations_total",
			Help:      "Materialization runs by outcome",
		}, []string{"status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "materialization_duration_seconds",
			Help:      "Wall-clock time of materialization runs",
			Buckets:   cfg.DurationBuckets,
		}),
		passes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "materialization_passes",
			Help:      "Closure passes per materialization run",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
		}),
		rowsChanged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "closure_rows_changed_total",
			Help:      "Closure rows that gained bits during materialization",
		}),
		derived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "derived_pairs_total",
			Help:      "Relation pairs derived during materialization",
		}, []string{"relation"}),
		integrity: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "integrity_checks_total",
			Help:      "Integrity checks by outcome",
		}, []string{"status"}),
	}

	for _, col := range []prometheus.Collector{
		c.mutations, c.materializes, c.duration, c.passes, c.rowsChanged, c.derived, c.integrity,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordMutation implements owlgo.MetricsCollector.
func (c *Collector) RecordMutation(kind model.AxiomKind, err error) {
	c.mutations.WithLabelValues(kind.String(), status(err)).Inc()
}

// RecordMaterialize implements owlgo.MetricsCollector.
func (c *Collector) RecordMaterialize(res model.MaterializeResult, err error) {
	s := "converged"
	if err != nil {
		s = "partial"
	}
	c.materializes.WithLabelValues(s).Inc()
	c.duration.Observe(res.Duration.Seconds())
	c.passes.Observe(float64(res.Passes))
	c.rowsChanged.Add(float64(res.RowsChanged))
	c.derived.WithLabelValues("equivalence").Add(float64(res.EquivalencesDerived))
	c.derived.WithLabelValues("disjoint").Add(float64(res.DisjointsDerived))
}

// RecordIntegrity implements owlgo.MetricsCollector.
func (c *Collector) RecordIntegrity(err error) {
	c.integrity.WithLabelValues(status(err)).Inc()
}

// MonitorCollector exposes a perf.Monitor as Prometheus metrics.
type MonitorCollector struct {
	monitor *perf.Monitor

	calls      *prometheus.Desc
	violations *prometheus.Desc
	rate       *prometheus.Desc
	mean       *prometheus.Desc
	quantiles  *prometheus.Desc
	budget     *prometheus.Desc
	cycles     *prometheus.Desc
}

var _ prometheus.Collector = (*MonitorCollector)(nil)

// NewMonitorCollector creates and registers a collector for m. constLabels
// distinguish several monitors in one registry.
func NewMonitorCollector(cfg Config, m *perf.Monitor, constLabels prometheus.Labels) (*MonitorCollector, error) {
	reg, err := cfg.resolve()
	if err != nil {
		return nil, err
	}

	name := func(n string) string {
		return prometheus.BuildFQName(cfg.Namespace, cfg.Subsystem, n)
	}
	c := &MonitorCollector{
		monitor:    m,
		calls:      prometheus.NewDesc(name("query_calls_total"), "Monitored query calls", nil, constLabels),
		violations: prometheus.NewDesc(name("query_budget_violations_total"), "Queries over the cycle budget", nil, constLabels),
		rate:       prometheus.NewDesc(name("query_budget_violation_ratio"), "Share of queries over the cycle budget", nil, constLabels),
		mean:       prometheus.NewDesc(name("query_mean_cycles"), "Mean cycles per query", nil, constLabels),
		quantiles:  prometheus.NewDesc(name("query_quantile_cycles"), "Approximate query cycle quantiles", []string{"quantile"}, constLabels),
		budget:     prometheus.NewDesc(name("query_budget_cycles"), "Per-query cycle budget", nil, constLabels),
		cycles:     prometheus.NewDesc(name("query_cycles"), "Query cycle distribution", nil, constLabels),
	}
	if err := reg.Register(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Describe implements prometheus.Collector.
func (c *MonitorCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.calls
	ch <- c.violations
	ch <- c.rate
	ch <- c.mean
	ch <- c.quantiles
	ch <- c.budget
	ch <- c.cycles
}

// Collect implements prometheus.Collector.
func (c *MonitorCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.monitor.Stats()

	ch <- prometheus.MustNewConstMetric(c.calls, prometheus.CounterValue, float64(s.Calls))
	ch <- prometheus.MustNewConstMetric(c.violations, prometheus.CounterValue, float64(s.Violations))
	ch <- prometheus.MustNewConstMetric(c.rate, prometheus.GaugeValue, s.ViolationRate)
	ch <- prometheus.MustNewConstMetric(c.mean, prometheus.GaugeValue, s.MeanCycles)
	ch <- prometheus.MustNewConstMetric(c.quantiles, prometheus.GaugeValue, float64(s.P50), "0.5")
	ch <- prometheus.MustNewConstMetric(c.quantiles, prometheus.GaugeValue, float64(s.P95), "0.95")
	ch <- prometheus.MustNewConstMetric(c.quantiles, prometheus.GaugeValue, float64(s.P99), "0.99")
	ch <- prometheus.MustNewConstMetric(c.budget, prometheus.GaugeValue, float64(s.Budget))

	// Log2 buckets become cumulative upper bounds 0, 1, 3, 7, ...
	buckets := make(map[float64]uint64, perf.HistogramBuckets-1)
	var cumulative uint64
	for b := 0; b < perf.HistogramBuckets-1; b++ {
		cumulative += s.Histogram[b]
		buckets[float64(uint64(1)<<b-1)] = cumulative
	}
	ch <- prometheus.MustNewConstHistogram(c.cycles, s.Calls, float64(s.TotalCycles), buckets)
}
