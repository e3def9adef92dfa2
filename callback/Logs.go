package callback

import (
	"github.com/pkg/errors"
)

// ErrMissingMetric is returned when a metric is looked up in a log
// entry that does not contain it
var ErrMissingMetric = errors.New("missing metric")

// Epoch is the metric key under which a training loop records the
// epoch index of a log entry
const Epoch = "epoch"

// Logs is the ordered sequence of per-epoch metrics recorded during
// training. Entry i holds the metrics of the i-th epoch run.
type Logs []map[string]float64

// Append appends the metrics of an epoch to the Logs
func (l *Logs) Append(metrics map[string]float64) {
	*l = append(*l, metrics)
}

// Len returns the number of epochs logged
func (l Logs) Len() int {
	return len(l)
}

// At returns the metrics logged for the i-th entry
func (l Logs) At(i int) map[string]float64 {
	return l[i]
}

// Last returns the most recently logged metrics, or nil if nothing
// has been logged yet
func (l Logs) Last() map[string]float64 {
	if len(l) == 0 {
		return nil
	}
	return l[len(l)-1]
}

// Value returns the value of the metric name in the most recently
// logged metrics
func (l Logs) Value(name string) (float64, error) {
	return Lookup(l.Last(), name)
}

// Lookup returns the value of the metric name in metrics
func Lookup(metrics map[string]float64, name string) (float64, error) {
	v, ok := metrics[name]
	if !ok {
		return 0, errors.Wrapf(ErrMissingMetric, "lookup: %q", name)
	}
	return v, nil
}

// Copy returns a copy of a single log entry
func Copy(metrics map[string]float64) map[string]float64 {
	if metrics == nil {
		return nil
	}
	c := make(map[string]float64, len(metrics))
	for k, v := range metrics {
		c[k] = v
	}
	return c
}
