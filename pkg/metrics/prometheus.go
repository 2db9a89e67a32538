package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	membersProcessed prometheus.Counter
	membersFailed    *prometheus.CounterVec
	alertsTotal      *prometheus.CounterVec
	providerRequests *prometheus.CounterVec
	latency          *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		membersProcessed: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "senateinsight_members_processed_total",
				Help: "Total number of members fully analyzed",
			},
		),
		membersFailed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "senateinsight_members_failed_total",
				Help: "Total number of members skipped due to retrieval failures",
			},
			[]string{"source"},
		),
		alertsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "senateinsight_alerts_total",
				Help: "Total number of alerts generated",
			},
			[]string{"tier"},
		),
		providerRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "senateinsight_provider_requests_total",
				Help: "Total number of upstream provider requests",
			},
			[]string{"provider"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "senateinsight_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordMemberProcessed counts a fully analyzed member.
func (r *Recorder) RecordMemberProcessed() {
	r.membersProcessed.Inc()
}

// RecordMemberFailed counts a member skipped due to a retrieval failure.
func (r *Recorder) RecordMemberFailed(source string) {
	r.membersFailed.WithLabelValues(source).Inc()
}

// RecordAlert counts a generated alert by severity tier.
func (r *Recorder) RecordAlert(tier string) {
	r.alertsTotal.WithLabelValues(tier).Inc()
}

// RecordProviderRequest counts an upstream provider request.
func (r *Recorder) RecordProviderRequest(provider string) {
	r.providerRequests.WithLabelValues(provider).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
