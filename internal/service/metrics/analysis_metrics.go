package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	AnalysisLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "smcalert",
			Subsystem: "analysis",
			Name:      "latency_seconds",
			Help:      "Latency of analysis endpoints",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	AnalysisErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smcalert",
			Subsystem: "analysis",
			Name:      "errors_total",
			Help:      "Errors by analysis endpoint",
		},
		[]string{"endpoint"},
	)

	AlertsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smcalert",
			Subsystem: "analysis",
			Name:      "alerts_total",
			Help:      "Alerts generated by kind",
		},
		[]string{"kind"},
	)

	ConsensusVerdicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smcalert",
			Subsystem: "analysis",
			Name:      "consensus_verdicts_total",
			Help:      "Consensus verdicts by outcome",
		},
		[]string{"verdict"},
	)

	NotificationsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smcalert",
			Subsystem: "notify",
			Name:      "sent_total",
			Help:      "Notifications sent by channel",
		},
		[]string{"channel"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(AnalysisLatency, AnalysisErrors, AlertsGenerated, ConsensusVerdicts, NotificationsSent)
	})
}
