package obs

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// CartMutationsTotal counts effective cart mutations by operation.
	CartMutationsTotal *prometheus.CounterVec
	// CouponEventsTotal counts coupon outcomes (applied, invalid, ineligible, revoked, reset).
	CouponEventsTotal *prometheus.CounterVec
	// OrderSubmissionsTotal counts order submission attempts by result.
	OrderSubmissionsTotal *prometheus.CounterVec
	// OrderSubmitLatency records order request latency in milliseconds.
	OrderSubmitLatency prometheus.Histogram
	// NotificationsTotal counts notifications shown by kind.
	NotificationsTotal *prometheus.CounterVec
	// MenuLoadsTotal counts menu loads by source and result.
	MenuLoadsTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers storefront collectors.
// Only the first call has an effect.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		CartMutationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_mutations_total",
			Help:      "Count of effective cart mutations.",
		}, []string{"op"})
		CouponEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coupon_events_total",
			Help:      "Count of coupon validator outcomes.",
		}, []string{"result"})
		OrderSubmissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_submissions_total",
			Help:      "Count of order submission attempts by result.",
		}, []string{"result"})
		OrderSubmitLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_submit_duration_ms",
			Help:      "Latency of order creation requests in milliseconds.",
			Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		})
		NotificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Count of notifications surfaced to the user.",
		}, []string{"kind"})
		MenuLoadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "menu_loads_total",
			Help:      "Count of menu loads by source and result.",
		}, []string{"source", "result"})

		mustRegisterCollector(reg, CartMutationsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CartMutationsTotal = v
			}
		})
		mustRegisterCollector(reg, CouponEventsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CouponEventsTotal = v
			}
		})
		mustRegisterCollector(reg, OrderSubmissionsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				OrderSubmissionsTotal = v
			}
		})
		mustRegisterCollector(reg, OrderSubmitLatency, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				OrderSubmitLatency = v
			}
		})
		mustRegisterCollector(reg, NotificationsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				NotificationsTotal = v
			}
		})
		mustRegisterCollector(reg, MenuLoadsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				MenuLoadsTotal = v
			}
		})
	})
}

// CountCartMutation increments the cart mutation counter when registered.
func CountCartMutation(op string) {
	if CartMutationsTotal != nil {
		CartMutationsTotal.WithLabelValues(op).Inc()
	}
}

// CountCouponEvent increments the coupon outcome counter when registered.
func CountCouponEvent(result string) {
	if CouponEventsTotal != nil {
		CouponEventsTotal.WithLabelValues(result).Inc()
	}
}

// ObserveOrderSubmission records the outcome and latency of an order request.
func ObserveOrderSubmission(result string, took time.Duration) {
	if OrderSubmissionsTotal != nil {
		OrderSubmissionsTotal.WithLabelValues(result).Inc()
	}
	if OrderSubmitLatency != nil && took > 0 {
		OrderSubmitLatency.Observe(DurationMillis(took))
	}
}

// CountNotification increments the notification counter when registered.
func CountNotification(kind string) {
	if NotificationsTotal != nil {
		NotificationsTotal.WithLabelValues(kind).Inc()
	}
}

// CountMenuLoad increments the menu load counter when registered.
func CountMenuLoad(source, result string) {
	if MenuLoadsTotal != nil {
		MenuLoadsTotal.WithLabelValues(source, result).Inc()
	}
}
