package obs_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/canteen-order/internal/obs"
)

func TestDomainMetricsCounters(t *testing.T) {
	obs.MustRegisterDomainMetrics("canteen_test", prometheus.NewRegistry())

	before := testutil.ToFloat64(obs.OrderSubmissionsTotal.WithLabelValues("success"))
	obs.ObserveOrderSubmission("success", 15*time.Millisecond)
	require.Equal(t, before+1, testutil.ToFloat64(obs.OrderSubmissionsTotal.WithLabelValues("success")))

	beforeCart := testutil.ToFloat64(obs.CartMutationsTotal.WithLabelValues("add"))
	obs.CountCartMutation("add")
	obs.CountCartMutation("add")
	require.Equal(t, beforeCart+2, testutil.ToFloat64(obs.CartMutationsTotal.WithLabelValues("add")))
}
