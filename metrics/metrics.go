package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder receives reconciliation and recording measurements.
type Recorder interface {
	RecordOperation(ctx context.Context, operation string, duration time.Duration, err error)
	RecordEvent(eventType, outcome string)
	RecordDuplicatesRemoved(count int)
	RecordStatsDrift(count int)
	RecordSave(partialErrors int)
}

// Event outcomes.
const (
	OutcomeRecorded  = "recorded"
	OutcomeDuplicate = "duplicate"
	OutcomeFailed    = "failed"
)

type PrometheusRecorder struct {
	operations        *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	events            *prometheus.CounterVec
	duplicatesRemoved prometheus.Counter
	statsDrift        prometheus.Counter
	saves             *prometheus.CounterVec
}

func NewPrometheusRecorder(reg prometheus.Registerer) (*PrometheusRecorder, error) {
	r := &PrometheusRecorder{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "league",
			Name:      "operations_total",
			Help:      "Service operations by name and result.",
		}, []string{"operation", "result"}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "league",
			Name:      "operation_duration_seconds",
			Help:      "Service operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "league",
			Name:      "match_events_total",
			Help:      "Match event write attempts by type and outcome.",
		}, []string{"event_type", "outcome"}),
		duplicatesRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "league",
			Name:      "duplicate_events_removed_total",
			Help:      "Events deleted by the duplicate cleanup pass.",
		}),
		statsDrift: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "league",
			Name:      "player_stats_drift_total",
			Help:      "Player counters corrected by the synchronizer.",
		}),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "league",
			Name:      "match_saves_total",
			Help:      "Match saves by result.",
		}, []string{"result"}),
	}

	for _, c := range []prometheus.Collector{
		r.operations, r.operationDuration, r.events, r.duplicatesRemoved, r.statsDrift, r.saves,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *PrometheusRecorder) RecordOperation(_ context.Context, operation string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	r.operations.WithLabelValues(operation, result).Inc()
	r.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (r *PrometheusRecorder) RecordEvent(eventType, outcome string) {
	r.events.WithLabelValues(eventType, outcome).Inc()
}

func (r *PrometheusRecorder) RecordDuplicatesRemoved(count int) {
	if count > 0 {
		r.duplicatesRemoved.Add(float64(count))
	}
}

func (r *PrometheusRecorder) RecordStatsDrift(count int) {
	if count > 0 {
		r.statsDrift.Add(float64(count))
	}
}

func (r *PrometheusRecorder) RecordSave(partialErrors int) {
	result := "success"
	if partialErrors > 0 {
		result = "partial"
	}
	r.saves.WithLabelValues(result).Inc()
}

type Noop struct{}

func (Noop) RecordOperation(context.Context, string, time.Duration, error) {}
func (Noop) RecordEvent(string, string)                                    {}
func (Noop) RecordDuplicatesRemoved(int)                                   {}
func (Noop) RecordStatsDrift(int)                                          {}
func (Noop) RecordSave(int)                                                {}
