// internal/blockchain/solbc/transaction/metrics.go
package transaction

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rovshanmuradov/solana-launchpad/internal/domain"
)

type Metrics struct {
	outcomes          *prometheus.CounterVec
	confirmPolls      prometheus.Counter
	durationHistogram prometheus.Histogram
}

// NewMetrics создаёт метрики отправки. Если reg == nil, метрики не регистрируются
// (тесты и запуск без /metrics).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "launchpad",
		Name:      "tx_outcomes_total",
		Help:      "Submission outcomes by terminal state and failure kind",
	}, []string{"state", "kind"})
	confirmPolls := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "launchpad",
		Name:      "tx_confirmation_polls_total",
		Help:      "Total number of signature status polls",
	})
	durationHistogram := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "launchpad",
		Name:      "tx_submit_duration_seconds",
		Help:      "Time from submission to terminal outcome in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.25, 2, 9),
	})

	if reg != nil {
		reg.MustRegister(outcomes, confirmPolls, durationHistogram)
	}

	return &Metrics{
		outcomes:          outcomes,
		confirmPolls:      confirmPolls,
		durationHistogram: durationHistogram,
	}
}

func (tm *Metrics) TrackOutcome(start time.Time, outcome domain.Outcome) {
	tm.outcomes.WithLabelValues(outcome.State.String(), outcome.Kind.String()).Inc()
	tm.durationHistogram.Observe(time.Since(start).Seconds())
}

func (tm *Metrics) TrackPoll() {
	tm.confirmPolls.Inc()
}
