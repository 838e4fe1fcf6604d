package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/decor-manager/internal/config"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.RecordOTP("sent")
	m.RecordOTP("sent")
	m.RecordAlert("overdue")
	m.SetUnread(4)
	m.RecordRequest("/auth/otp/send", "POST", 200, 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.otpEvents.WithLabelValues("sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.alertsEmitted.WithLabelValues("overdue")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.unreadAlerts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/auth/otp/send", "POST", "200")))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordOTP("sent")
		m.RecordLogin("email", "ok")
		m.SetUnread(1)
		m.ObserveScan(time.Second)
	})
	assert.Nil(t, m.Registry())
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "debug"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(-1))

	logger, err = NewLogger(config.LoggerConfig{Level: "loud"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(-1))
}
