// Package checkpoint implements a callback that saves model weights
// during training, either periodically or only for the best epoch
// according to a monitored metric.
package checkpoint

import (
	"log/slog"

	"github.com/pkg/errors"
	"github.com/samuelfneumann/gotrain/callback"
	"github.com/samuelfneumann/gotrain/persist"
)

// ErrInvalidPeriod is returned when the period between saves is not
// positive
var ErrInvalidPeriod = errors.New("invalid period")

// SaveFunc saves obj to the file filename
type SaveFunc func(obj interface{}, filename string) error

// Option configures a ModelCheckpoint
type Option func(*ModelCheckpoint)

// WithLogger sets the logger used for warnings and verbose output
func WithLogger(logger *slog.Logger) Option {
	return func(c *ModelCheckpoint) {
		c.logger = logger
	}
}

// WithSaveFunc sets the function used to save the best weights when
// training ends. By default, persist.Save is used.
func WithSaveFunc(save SaveFunc) Option {
	return func(c *ModelCheckpoint) {
		c.save = save
	}
}

// ModelCheckpoint saves the weights of a model during training. It
// implements callback.EpochEnder and callback.TrainEnder.
//
// If SaveBestOnly is not set, the model saves its own weights every
// Period epochs, to a file named by formatting the filename template
// with the metrics of that epoch.
//
// If SaveBestOnly is set, then after each epoch the monitored metric
// is compared to the best value seen so far. On improvement, a copy
// of the model weights is cached in memory. When training ends, the
// cached weights are saved to a file named by formatting the filename
// template with the metrics of the best epoch. Nothing is written to
// disk before training ends.
type ModelCheckpoint struct {
	filename     *Template
	monitor      string
	verbose      bool
	saveBestOnly bool
	mode         Mode
	period       int

	logger *slog.Logger
	save   SaveFunc

	// Only used if saveBestOnly is set
	currentBest        map[string]float64
	currentBestWeights persist.Weights
}

// New returns a new ModelCheckpoint described by config
func New(config Config, opts ...Option) (*ModelCheckpoint, error) {
	filename, err := ParseTemplate(config.Filename)
	if err != nil {
		return nil, errors.Wrap(err, "new")
	}

	if !config.SaveBestOnly && config.Period < 1 {
		return nil, errors.Wrapf(ErrInvalidPeriod,
			"new: period must be positive, have(%d)", config.Period)
	}

	c := &ModelCheckpoint{
		filename:     filename,
		monitor:      config.Monitor,
		verbose:      config.Verbose,
		saveBestOnly: config.SaveBestOnly,
		period:       config.Period,
		logger:       slog.Default(),
		save:         persist.Save,
	}

	if c.saveBestOnly {
		mode, err := ParseMode(config.Mode)
		if err != nil {
			return nil, errors.Wrap(err, "new")
		}
		c.mode = mode
		c.currentBest = map[string]float64{c.monitor: mode.Worst()}
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// OnEpochEnd implements the callback.EpochEnder interface. The last
// entry of logs must hold the metrics of epoch.
func (c *ModelCheckpoint) OnEpochEnd(m callback.Model, epoch int,
	logs callback.Logs) error {
	latest := logs.Last()

	if !c.saveBestOnly {
		if epoch%c.period != 0 {
			return nil
		}

		filename, err := c.filename.Format(latest)
		if err != nil {
			return errors.Wrap(err, "onepochend: could not create filename")
		}
		if c.verbose {
			c.logger.Info("saving model weights", "epoch", epoch,
				"filename", filename)
		}
		if err := m.SaveWeights(filename); err != nil {
			return errors.Wrapf(err, "onepochend: could not save weights "+
				"to %v", filename)
		}
		return nil
	}

	current, err := callback.Lookup(latest, c.monitor)
	if err != nil {
		return errors.Wrap(err, "onepochend")
	}

	best := c.currentBest[c.monitor]
	if !c.mode.Improved(current, best) {
		if c.verbose {
			c.logger.Info("monitored metric did not improve", "epoch", epoch,
				"monitor", c.monitor, "value", current, "best", best)
		}
		return nil
	}

	if c.verbose {
		c.logger.Info("monitored metric improved", "epoch", epoch,
			"monitor", c.monitor, "value", current, "previous", best)
	}
	c.currentBest = callback.Copy(latest)
	c.currentBestWeights = m.Weights().Copy()

	return nil
}

// OnTrainEnd implements the callback.TrainEnder interface. If
// SaveBestOnly is set, the weights of the best epoch are saved. If no
// epoch improved on the initial value of the monitored metric, a
// warning is logged and nothing is saved.
func (c *ModelCheckpoint) OnTrainEnd(_ callback.Model,
	_ callback.Logs) error {
	if !c.saveBestOnly {
		return nil
	}

	if c.currentBestWeights == nil {
		c.logger.Warn("no current best weights to save",
			"monitor", c.monitor, "mode", c.mode)
		return nil
	}

	filename, err := c.filename.Format(c.currentBest)
	if err != nil {
		return errors.Wrap(err, "ontrainend: could not create filename")
	}
	if c.verbose {
		c.logger.Info("saving best model weights", "monitor", c.monitor,
			"best", c.currentBest[c.monitor], "filename", filename)
	}
	if err := c.save(c.currentBestWeights, filename); err != nil {
		return errors.Wrapf(err, "ontrainend: could not save weights to %v",
			filename)
	}
	return nil
}

// Best returns a copy of the metrics of the best epoch seen so far and
// whether any epoch has improved on the initial value. Best always
// returns false if SaveBestOnly is not set.
func (c *ModelCheckpoint) Best() (map[string]float64, bool) {
	if !c.saveBestOnly || c.currentBestWeights == nil {
		return nil, false
	}
	return callback.Copy(c.currentBest), true
}

// BestWeights returns a copy of the weights cached for the best epoch,
// or nil if there are none
func (c *ModelCheckpoint) BestWeights() persist.Weights {
	return c.currentBestWeights.Copy()
}
