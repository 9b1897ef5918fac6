package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/canteen-order/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"BACKEND_URL":         "",
		"COUPON_CODE":         "",
		"COUPON_MIN_SUBTOTAL": "",
		"NOTIFICATION_TTL":    "",
		"PORT":                "",
	})
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8000", cfg.BackendURL)
	require.Equal(t, "RTU20", cfg.CouponCode)
	require.Equal(t, 300.0, cfg.CouponMinSubtotal)
	require.Equal(t, 20.0, cfg.CouponPercent)
	require.Equal(t, 10.0, cfg.DeliveryFee)
	require.Equal(t, 2500*time.Millisecond, cfg.NotificationTTL)
	require.Equal(t, ":8081", cfg.HTTPAddr())
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"BACKEND_URL":          "https://canteen.example.com/",
		"COUPON_CODE":          " hostel10 ",
		"COUPON_PERCENT":       "10",
		"CORS_ALLOWED_ORIGINS": "http://localhost:5173, ,http://127.0.0.1:5173",
		"BACKEND_MAX_ATTEMPTS": "5",
	})
	require.NoError(t, err)
	require.Equal(t, "https://canteen.example.com", cfg.BackendURL)
	require.Equal(t, "HOSTEL10", cfg.CouponCode)
	require.Equal(t, 10.0, cfg.CouponPercent)
	require.Equal(t, []string{"http://localhost:5173", "http://127.0.0.1:5173"}, cfg.CORSAllowedOrigins)
	require.Equal(t, 5, cfg.BackendMaxAttempts)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"relative backend": {"BACKEND_URL": "/api"},
		"percent too high": {"BACKEND_URL": "http://localhost:8000", "COUPON_PERCENT": "150"},
		"negative fee":     {"BACKEND_URL": "http://localhost:8000", "DELIVERY_FEE": "-1"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.LoadForTests(env)
			require.Error(t, err)
		})
	}
}
