package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordAndReRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.StoreUpdate("hero", "applied")
	m.StoreUpdate("hero", "applied")
	m.Transition("publish", errors.New("boom"))
	m.Upload("avatar", 20*time.Millisecond, nil)
	m.SessionsResident(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.storeUpdates.WithLabelValues("hero", "applied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("publish", "error")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.activeSessions))

	again, err := New(reg)
	require.NoError(t, err)
	again.StoreUpdate("hero", "applied")
	assert.Equal(t, 3.0, testutil.ToFloat64(m.storeUpdates.WithLabelValues("hero", "applied")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.StoreUpdate("hero", "applied")
		m.Transition("save", nil)
		m.Upload("video", time.Second, nil)
		m.PublicLookup("hit")
		m.SessionsResident(1)
	})
}
