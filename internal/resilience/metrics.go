package resilience

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	breakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "backend_breaker_state",
			Help: "Current breaker state: 0=closed,1=open,2=half-open",
		},
		[]string{"target"},
	)
	breakerTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_breaker_transition_total",
			Help: "Count of breaker state transitions",
		},
		[]string{"target", "from", "to"},
	)
	breakerOpenedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_breaker_open_total",
			Help: "Number of times a breaker transitioned into open state",
		},
		[]string{"target"},
	)
	backendAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_request_attempts_total",
			Help: "Outbound backend request attempts by target and outcome",
		},
		[]string{"target", "outcome"},
	)
)

// RegisterMetrics registers the breaker and client collectors. Collectors
// already registered with reg are left in place.
func RegisterMetrics(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{breakerState, breakerTransitions, breakerOpenedTotal, backendAttempts} {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}

// ResetMetrics clears every series. Tests call it between cases.
func ResetMetrics() {
	breakerState.Reset()
	breakerTransitions.Reset()
	breakerOpenedTotal.Reset()
	backendAttempts.Reset()
}
