package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/samuelfneumann/gotrain/callback"
	"github.com/samuelfneumann/gotrain/callback/callbacktest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBar(t *testing.T) {
	var buf bytes.Buffer
	clock := time.Unix(0, 0)
	b := New(2, 10, WithWriter(&buf), WithClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}))
	m := callbacktest.NewModel(0)

	require.NoError(t, b.OnTrainBegin(m))

	logs := callback.Logs{{"epoch": 0, "loss": 0.5}}
	require.NoError(t, b.OnEpochEnd(m, 0, logs))
	assert.Contains(t, buf.String(), "|█████     |")
	assert.Contains(t, buf.String(), "50.00%")
	assert.Contains(t, buf.String(), "epoch 1/2")
	assert.Contains(t, buf.String(), "loss=0.5000")
	assert.NotContains(t, buf.String(), "epoch=")

	buf.Reset()
	logs.Append(map[string]float64{"epoch": 1, "loss": 0.25,
		"val_loss": 0.3})
	require.NoError(t, b.OnEpochEnd(m, 1, logs))
	assert.Contains(t, buf.String(), "|██████████|")
	assert.Contains(t, buf.String(), "100.00%")
	assert.Contains(t, buf.String(), "loss=0.2500 val_loss=0.3000")

	buf.Reset()
	require.NoError(t, b.OnTrainEnd(m, logs))
	assert.Equal(t, "\n", buf.String())
}

func TestBarDoesNotOverflow(t *testing.T) {
	var buf bytes.Buffer
	b := New(1, 4, WithWriter(&buf))
	m := callbacktest.NewModel(0)

	for epoch := 0; epoch < 3; epoch++ {
		logs := callback.Logs{{"loss": 1}}
		require.NoError(t, b.OnEpochEnd(m, epoch, logs))
	}
	last := buf.String()[strings.LastIndex(buf.String(), "|████|"):]
	assert.Contains(t, last, "epoch 1/1")
}
