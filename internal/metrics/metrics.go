package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics groups the scheduling counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	bookings    *prometheus.CounterVec
	transitions *prometheus.CounterVec
	deliveries  *prometheus.CounterVec
	jobRuns     *prometheus.CounterVec
	intents     *prometheus.CounterVec
	jobLatency  *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agenda",
			Subsystem: "booking",
			Name:      "attempts_total",
			Help:      "Booking attempts by outcome",
		}, []string{"outcome"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agenda",
			Subsystem: "appointment",
			Name:      "transitions_total",
			Help:      "Applied status transitions",
		}, []string{"trigger", "to"}),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agenda",
			Subsystem: "notify",
			Name:      "deliveries_total",
			Help:      "Outbound notification outcomes",
		}, []string{"type", "outcome"}),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agenda",
			Subsystem: "jobs",
			Name:      "runs_total",
			Help:      "Batch job invocations",
		}, []string{"job", "outcome"}),
		intents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agenda",
			Subsystem: "inbound",
			Name:      "intents_total",
			Help:      "Classified inbound messages",
		}, []string{"intent"}),
		jobLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "agenda",
			Subsystem: "jobs",
			Name:      "duration_seconds",
			Help:      "Batch job duration",
			Buckets:   prometheus.DefBuckets,
		}, []string{"job"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookings, m.transitions, m.deliveries, m.jobRuns, m.intents, m.jobLatency)
	return m
}

func (m *Metrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookings.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveTransition(trigger, to string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(trigger, to).Inc()
}

// AddTransitions records n transitions applied in bulk.
func (m *Metrics) AddTransitions(trigger, to string, n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.transitions.WithLabelValues(trigger, to).Add(float64(n))
}

func (m *Metrics) ObserveDelivery(notificationType, outcome string) {
	if m == nil {
		return
	}
	m.deliveries.WithLabelValues(notificationType, outcome).Inc()
}

func (m *Metrics) ObserveJob(job, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.jobRuns.WithLabelValues(job, outcome).Inc()
	m.jobLatency.WithLabelValues(job).Observe(seconds)
}

func (m *Metrics) ObserveIntent(intent string) {
	if m == nil {
		return
	}
	m.intents.WithLabelValues(intent).Inc()
}
