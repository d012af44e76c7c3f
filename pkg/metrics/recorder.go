// Package metrics exposes allocation runs and HTTP traffic as Prometheus metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jakechorley/placement-allocator/pkg/core/allocator"
	"github.com/jakechorley/placement-allocator/pkg/core/model"
)

const (
	defaultNamespace = "placement"
	defaultSubsystem = "allocator"
)

// Option configures a Recorder
type Option func(*Recorder)

// WithNamespace sets the namespace for all metrics
func WithNamespace(namespace string) Option {
	return func(r *Recorder) {
		if namespace != "" {
			r.namespace = namespace
		}
	}
}

// WithSubsystem sets the subsystem for all metrics
func WithSubsystem(subsystem string) Option {
	return func(r *Recorder) {
		if subsystem != "" {
			r.subsystem = subsystem
		}
	}
}

// WithRegistry registers metrics on registry instead of a fresh private one
func WithRegistry(registry *prometheus.Registry) Option {
	return func(r *Recorder) {
		if registry != nil {
			r.registry = registry
		}
	}
}

// Recorder turns allocator events into Prometheus metrics.
// It implements allocator.Observer and is safe for concurrent runs.
type Recorder struct {
	namespace string
	subsystem string
	registry  *prometheus.Registry

	runs               prometheus.Counter
	excluded           *prometheus.CounterVec
	ineligible         *prometheus.CounterVec
	positionIssues     *prometheus.CounterVec
	assignments        prometheus.Counter
	assignmentScore    prometheus.Histogram
	positionsClosed    *prometheus.CounterVec
	lastRunAllocated   prometheus.Gauge
	lastRunUnallocated prometheus.Gauge
	lastRunRounds      prometheus.Gauge
	lastRunTimestamp   prometheus.Gauge

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var _ allocator.Observer = (*Recorder)(nil)

// NewRecorder creates a Recorder and registers its metrics
func NewRecorder(opts ...Option) *Recorder {
	r := &Recorder{
		namespace: defaultNamespace,
		subsystem: defaultSubsystem,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.registry == nil {
		r.registry = prometheus.NewRegistry()
	}

	r.initializeMetrics()
	return r
}

// Registry returns the registry holding the recorder's metrics, for serving /metrics
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) initializeMetrics() {
	auto := promauto.With(r.registry)

	r.runs = auto.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "runs_total",
		Help:      "Total number of completed allocation runs",
	})

	r.excluded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "candidates_excluded_total",
		Help:      "Candidates dropped before scoring, by issue kind and screening check",
	}, []string{"kind", "check"})

	r.ineligible = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "pairs_ineligible_total",
		Help:      "Candidate-position pairs that failed an eligibility gate",
	}, []string{"gate"})

	r.positionIssues = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "position_issues_total",
		Help:      "Non-fatal findings about positions, by issue kind",
	}, []string{"kind"})

	r.assignments = auto.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "assignments_total",
		Help:      "Total number of candidates assigned to positions",
	})

	r.assignmentScore = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "assignment_score",
		Help:      "Final match score of assigned candidates",
		Buckets:   prometheus.LinearBuckets(10, 10, 10),
	})

	r.positionsClosed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "positions_closed_total",
		Help:      "Positions that stopped accepting candidates, by final status",
	}, []string{"status"})

	r.lastRunAllocated = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "last_run_allocated",
		Help:      "Candidates allocated by the most recent run",
	})

	r.lastRunUnallocated = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "last_run_unallocated",
		Help:      "Eligible candidates left unallocated by the most recent run",
	})

	r.lastRunRounds = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "last_run_rounds",
		Help:      "Round-robin rounds that assigned at least one candidate in the most recent run",
	})

	r.lastRunTimestamp = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time the most recent run completed",
	})

	r.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	r.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
}

func (r *Recorder) CandidateExcluded(e allocator.Exclusion) {
	check := string(e.Check)
	if check == "" {
		check = "none"
	}
	r.excluded.WithLabelValues(string(e.Issue.Kind), check).Inc()
}

func (r *Recorder) PairIneligible(p allocator.IneligiblePair) {
	r.ineligible.WithLabelValues(p.Gate).Inc()
}

func (r *Recorder) PositionIssue(i allocator.PositionIssue) {
	r.positionIssues.WithLabelValues(string(i.Issue.Kind)).Inc()
}

func (r *Recorder) PositionRanked(model.Position, []allocator.RankedCandidate) {}

func (r *Recorder) CandidateAssigned(result model.MatchResult, round int) {
	r.assignments.Inc()
	r.assignmentScore.Observe(result.Score)
}

func (r *Recorder) RoundCompleted(round, assignments int) {}

func (r *Recorder) PositionClosed(position model.Position, status allocator.PositionStatus, filled, capacity int) {
	r.positionsClosed.WithLabelValues(string(status)).Inc()
}

func (r *Recorder) RunCompleted(outcome *allocator.AllocationOutcome) {
	r.runs.Inc()
	r.lastRunAllocated.Set(float64(outcome.AllocatedCount()))
	r.lastRunUnallocated.Set(float64(len(outcome.UnallocatedCandidates)))
	r.lastRunRounds.Set(float64(outcome.Rounds))
	r.lastRunTimestamp.Set(float64(time.Now().Unix()))
}

// ObserveHTTPRequest records one handled request.
// route should be the matched route pattern, not the raw path, to keep label cardinality bounded.
func (r *Recorder) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
