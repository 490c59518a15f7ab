package hasher

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	sourceSetHash    = "set_hash"
	sourceHashChange = "hashchange"
	sourcePoll       = "poll"
	sourceFrame      = "frame"
)

type metrics struct {
	changes      *prometheus.CounterVec
	ticks        *prometheus.CounterVec
	decodeErrors prometheus.Counter
}

func newMetrics(reg prometheus.Registerer, namespace string) (*metrics, error) {
	m := &metrics{
		changes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "changes_total",
			Help:      "Hash changes registered, by trigger source",
		}, []string{"source"}),
		ticks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Detection checks run, by strategy",
		}, []string{"strategy"}),
		decodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_errors_total",
			Help:      "Malformed percent-encoded hash values seen",
		}),
	}

	var err error
	if m.changes, err = register(reg, m.changes); err != nil {
		return nil, err
	}
	if m.ticks, err = register(reg, m.ticks); err != nil {
		return nil, err
	}
	if m.decodeErrors, err = register(reg, m.decodeErrors); err != nil {
		return nil, err
	}
	return m, nil
}

// register reuses an identical collector that is already registered, so
// several engines can share one registry.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("register metrics: %w", err)
	}
	return c, nil
}

func (m *metrics) change(source string) {
	if m == nil {
		return
	}
	m.changes.WithLabelValues(source).Inc()
}

func (m *metrics) tick(s Strategy) {
	if m == nil {
		return
	}
	m.ticks.WithLabelValues(s.String()).Inc()
}

func (m *metrics) decodeError() {
	if m == nil {
		return
	}
	m.decodeErrors.Inc()
}
