// Package metrics implements a callback which exports the metrics
// logged during training as Prometheus metrics.
package metrics

import (
	"github.com/pkg/errors"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/samuelfneumann/gotrain/callback"
)

const namespace = "gotrain"

// Recorder exports training progress to Prometheus. After each epoch
// it sets gotrain_epoch to the epoch index, increments
// gotrain_epochs_total, and sets gotrain_metric{name=...} for each
// metric in the latest log entry.
type Recorder struct {
	epoch  prom.Gauge
	epochs prom.Counter
	metric *prom.GaugeVec
}

// NewRecorder returns a new Recorder whose metrics are registered with
// reg
func NewRecorder(reg prom.Registerer) (*Recorder, error) {
	r := &Recorder{
		epoch: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "epoch",
			Help:      "Index of the last finished epoch",
		}),
		epochs: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "epochs_total",
			Help:      "Total number of finished epochs",
		}),
		metric: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "metric",
			Help:      "Value of each metric logged in the last epoch",
		}, []string{"name"}),
	}

	for _, c := range []prom.Collector{r.epoch, r.epochs, r.metric} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(err, "newrecorder")
		}
	}
	return r, nil
}

// OnEpochEnd implements the callback.EpochEnder interface
func (r *Recorder) OnEpochEnd(_ callback.Model, epoch int,
	logs callback.Logs) error {
	r.epoch.Set(float64(epoch))
	r.epochs.Inc()
	for name, value := range logs.Last() {
		if name == callback.Epoch {
			continue
		}
		r.metric.WithLabelValues(name).Set(value)
	}
	return nil
}
