package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Значения label "ledger" для метрик корректировок.
const (
	LedgerStock  = "stock"
	LedgerCredit = "credit"
)

// Значения label "direction" для метрик корректировок.
const (
	DirectionIncrease = "increase"
	DirectionDecrease = "decrease"
)

// ReconMetrics содержит метрики reconciliation-движка.
type ReconMetrics struct {
	// Счётчики корректировок ledger'ов
	adjustments *prometheus.CounterVec
	skipped     *prometheus.CounterVec
	failures    *prometheus.CounterVec

	// Гистограмма времени выполнения операций движка
	reconcileDuration *prometheus.HistogramVec

	// Счётчик опубликованных событий
	publishedEvents prometheus.Counter
}

// NewReconMetrics создаёт новый экземпляр метрик движка.
func NewReconMetrics() *ReconMetrics {
	return newReconMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newReconMetricsWithRegisterer(registerer prometheus.Registerer) *ReconMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &ReconMetrics{
		adjustments: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "sales_ledger_adjustments_total",
			Help: "Total number of applied ledger adjustments",
		}, []string{"ledger", "direction"}),
		skipped: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "sales_ledger_skipped_total",
			Help: "Total number of adjustments skipped due to a missing referenced entity",
		}, []string{"ledger"}),
		failures: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "sales_ledger_failures_total",
			Help: "Total number of ledger writes that failed mid-loop",
		}, []string{"ledger"}),
		reconcileDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "sales_reconcile_duration_seconds",
			Help:    "Duration of reconciliation operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"operation"}),
		publishedEvents: registerCounter(registerer, prometheus.CounterOpts{
			Name: "sales_events_published_total",
			Help: "Total number of domain events published",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordAdjustment увеличивает счётчик применённых корректировок.
func (m *ReconMetrics) RecordAdjustment(ledger, direction string) {
	m.adjustments.WithLabelValues(ledger, direction).Inc()
}

// RecordSkipped увеличивает счётчик пропущенных корректировок
// (ссылка на отсутствующий товар или покупателя).
func (m *ReconMetrics) RecordSkipped(ledger string) {
	m.skipped.WithLabelValues(ledger).Inc()
}

// RecordFailure увеличивает счётчик неудачных записей в ledger.
func (m *ReconMetrics) RecordFailure(ledger string) {
	m.failures.WithLabelValues(ledger).Inc()
}

// RecordDuration записывает время выполнения операции движка.
func (m *ReconMetrics) RecordDuration(operation string, duration time.Duration) {
	m.reconcileDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordEventPublished увеличивает счётчик опубликованных событий.
func (m *ReconMetrics) RecordEventPublished() {
	m.publishedEvents.Inc()
}
