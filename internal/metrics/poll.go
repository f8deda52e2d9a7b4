package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/edvin/mailwatch/internal/consensus"
	"github.com/edvin/mailwatch/internal/poller"
	"github.com/edvin/mailwatch/internal/resolver"
)

// PollObserver records poll events as Prometheus metrics.
type PollObserver struct {
	queries          *prometheus.CounterVec
	queryDuration    *prometheus.HistogramVec
	consensus        *prometheus.CounterVec
	reconciled       *prometheus.CounterVec
	reconcileErrors  *prometheus.CounterVec
	cycleDuration    prometheus.Histogram
	cycleFailedUnits prometheus.Gauge
	lastCycle        prometheus.Gauge
}

var _ poller.Observer = (*PollObserver)(nil)

func NewPollObserver(reg prometheus.Registerer) *PollObserver {
	f := promauto.With(reg)
	return &PollObserver{
		queries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mailwatch",
			Name:      "dns_queries_total",
			Help:      "DNS queries sent to upstream resolvers",
		}, []string{"resolver", "type", "result"}),
		queryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mailwatch",
			Name:      "dns_query_duration_seconds",
			Help:      "DNS query latency per resolver",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"resolver"}),
		consensus: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mailwatch",
			Name:      "consensus_total",
			Help:      "Consensus computations by outcome",
		}, []string{"kind", "result"}),
		reconciled: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mailwatch",
			Name:      "record_writes_total",
			Help:      "Record writes issued by reconciliation",
		}, []string{"kind", "op"}),
		reconcileErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mailwatch",
			Name:      "reconcile_failures_total",
			Help:      "Failed (domain, target) reconciliations",
		}, []string{"kind"}),
		cycleDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "mailwatch",
			Name:      "poll_cycle_duration_seconds",
			Help:      "Duration of complete poll cycles",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		cycleFailedUnits: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "mailwatch",
			Name:      "poll_cycle_failed_units",
			Help:      "Failed units in the last poll cycle",
		}),
		lastCycle: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "mailwatch",
			Name:      "poll_cycle_last_finished_timestamp_seconds",
			Help:      "Unix time the last poll cycle finished",
		}),
	}
}

func (o *PollObserver) Queried(q resolver.QueryOutcome) {
	result := "ok"
	switch {
	case q.Err == nil:
	case errors.Is(q.Err, resolver.ErrDNSNotFound):
		result = "nxdomain"
	case errors.Is(q.Err, resolver.ErrDNSServFail):
		result = "servfail"
	case errors.Is(q.Err, resolver.ErrDNSRefused):
		result = "refused"
	default:
		result = "error"
	}
	o.queries.WithLabelValues(q.Resolver, q.Wire.String(), result).Inc()
	o.queryDuration.WithLabelValues(q.Resolver).Observe(q.Elapsed.Seconds())
}

func (o *PollObserver) Consensus(c poller.ConsensusOutcome) {
	var (
		insufficient *consensus.InsufficientResponsesError
		none         *consensus.NoConsensusError
	)
	result := "ok"
	switch {
	case c.Err == nil:
	case errors.As(c.Err, &insufficient):
		result = "insufficient_responses"
	case errors.As(c.Err, &none):
		result = "no_consensus"
	default:
		result = "error"
	}
	o.consensus.WithLabelValues(c.Kind.String(), result).Inc()
}

func (o *PollObserver) Reconciled(r poller.ReconcileOutcome) {
	kind := r.Target.Kind.String()
	if r.Err != nil {
		o.reconcileErrors.WithLabelValues(kind).Inc()
		return
	}
	o.reconciled.WithLabelValues(kind, poller.OpCreate.String()).Add(float64(r.Summary.Created))
	o.reconciled.WithLabelValues(kind, poller.OpRefresh.String()).Add(float64(r.Summary.Refreshed))
	o.reconciled.WithLabelValues(kind, poller.OpDeactivate.String()).Add(float64(r.Summary.Deactivated))
}

func (o *PollObserver) CycleFinished(r poller.CycleReport) {
	o.cycleDuration.Observe(r.Finished.Sub(r.Started).Seconds())
	o.cycleFailedUnits.Set(float64(r.Failed))
	o.lastCycle.Set(float64(r.Finished.Unix()))
}
