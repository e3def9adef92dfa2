package metrics

import (
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/samuelfneumann/gotrain/callback"
	"github.com/samuelfneumann/gotrain/callback/callbacktest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	r, err := NewRecorder(reg)
	require.NoError(t, err)

	m := callbacktest.NewModel(0)
	logs := callback.Logs{{"epoch": 0, "loss": 1, "val_loss": 2}}
	require.NoError(t, r.OnEpochEnd(m, 0, logs))
	logs.Append(map[string]float64{"epoch": 1, "loss": 0.5,
		"val_loss": 0.75})
	require.NoError(t, r.OnEpochEnd(m, 1, logs))

	assert.Equal(t, 1.0, testutil.ToFloat64(r.epoch))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.epochs))
	assert.Equal(t, 0.5, testutil.ToFloat64(r.metric.WithLabelValues("loss")))
	assert.Equal(t, 0.75,
		testutil.ToFloat64(r.metric.WithLabelValues("val_loss")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.metric))
}

func TestRecorderDuplicateRegistration(t *testing.T) {
	reg := prom.NewRegistry()
	_, err := NewRecorder(reg)
	require.NoError(t, err)

	_, err = NewRecorder(reg)
	assert.Error(t, err)
}
