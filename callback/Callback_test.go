package callback_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/samuelfneumann/gotrain/callback"
	"github.com/samuelfneumann/gotrain/callback/callbacktest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder records the hooks it receives into a shared trace
type recorder struct {
	name  string
	trace *[]string
	err   error
}

func (r *recorder) OnTrainBegin(callback.Model) error {
	*r.trace = append(*r.trace, r.name+":begin")
	return r.err
}

func (r *recorder) OnEpochEnd(_ callback.Model, epoch int,
	_ callback.Logs) error {
	*r.trace = append(*r.trace, r.name+":epochend")
	return r.err
}

// endOnly implements only the TrainEnder hook
type endOnly struct{ calls int }

func (e *endOnly) OnTrainEnd(callback.Model, callback.Logs) error {
	e.calls++
	return nil
}

func TestListDispatchesInOrder(t *testing.T) {
	var trace []string
	end := &endOnly{}
	l := callback.List{
		&recorder{name: "a", trace: &trace},
		end,
		&recorder{name: "b", trace: &trace},
	}
	m := callbacktest.NewModel(1)

	require.NoError(t, l.OnTrainBegin(m))
	require.NoError(t, l.OnEpochBegin(m, 0))
	require.NoError(t, l.OnEpochEnd(m, 0, callback.Logs{{"loss": 1}}))
	require.NoError(t, l.OnTrainEnd(m, nil))

	assert.Equal(t, []string{"a:begin", "b:begin", "a:epochend",
		"b:epochend"}, trace)
	assert.Equal(t, 1, end.calls)
}

func TestListStopsAtFirstError(t *testing.T) {
	var trace []string
	boom := errors.New("boom")
	l := callback.List{
		&recorder{name: "a", trace: &trace, err: boom},
		&recorder{name: "b", trace: &trace},
	}

	err := l.OnTrainBegin(callbacktest.NewModel(1))
	require.Error(t, err)
	assert.Equal(t, boom, errors.Cause(err))
	assert.Equal(t, []string{"a:begin"}, trace)
}

func TestLogs(t *testing.T) {
	var logs callback.Logs
	assert.Nil(t, logs.Last())

	logs.Append(map[string]float64{"val_loss": 1.0})
	logs.Append(map[string]float64{"val_loss": 0.5})
	assert.Equal(t, 2, logs.Len())
	assert.Equal(t, 1.0, logs.At(0)["val_loss"])

	v, err := logs.Value("val_loss")
	require.NoError(t, err)
	assert.Equal(t, 0.5, v)

	_, err = logs.Value("acc")
	assert.True(t, errors.Is(err, callback.ErrMissingMetric))
}

func TestCopy(t *testing.T) {
	m := map[string]float64{"loss": 1}
	c := callback.Copy(m)
	m["loss"] = 2
	assert.Equal(t, 1.0, c["loss"])
	assert.Nil(t, callback.Copy(nil))
}
