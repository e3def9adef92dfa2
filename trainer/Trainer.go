// Package trainer implements a supervised training loop for
// network.NeuralNets which calls callbacks at the beginning and end of
// training and of each epoch.
package trainer

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/pkg/errors"
	"github.com/samuelfneumann/gotrain/callback"
	"github.com/samuelfneumann/gotrain/network"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Metric names logged after each epoch
const (
	Loss    = "loss"
	ValLoss = "val_loss"
)

// Config configures a Trainer
type Config struct {
	Epochs  int    `json:"epochs" yaml:"epochs"`
	Shuffle bool   `json:"shuffle" yaml:"shuffle"`
	Seed    uint64 `json:"seed" yaml:"seed"`
}

// Option configures a Trainer
type Option func(*Trainer)

// WithLogger sets the logger that per-epoch metrics are logged to
func WithLogger(logger *slog.Logger) Option {
	return func(t *Trainer) {
		t.logger = logger
	}
}

// Trainer trains a NeuralNet to minimize the mean squared error
// between its predictions and the targets of a Dataset. Each training
// step uses BatchSize() samples of the NeuralNet; trailing samples
// that do not fill a batch are skipped in each epoch.
type Trainer struct {
	net    network.NeuralNet
	solver G.Solver
	config Config
	logger *slog.Logger

	targets *G.Node
	loss    *G.Node
	lossVal G.Value
	vm      G.VM

	// Network evaluated on entire datasets at once, cloned from net
	evalNet network.NeuralNet
	evalVM  G.VM
}

// New returns a new Trainer which trains net using solver
func New(net network.NeuralNet, solver G.Solver, config Config,
	opts ...Option) (*Trainer, error) {
	if config.Epochs < 0 {
		return nil, fmt.Errorf("new: epochs must be non-negative, have(%d)",
			config.Epochs)
	}

	g := net.Graph()
	targets := G.NewMatrix(g, tensor.Float64,
		G.WithShape(net.BatchSize(), net.Outputs()), G.WithName("targets"),
		G.WithInit(G.Zeroes()))

	// Mean squared error
	errs, err := G.Sub(net.Prediction(), targets)
	if err != nil {
		return nil, errors.Wrap(err, "new: could not compute errors")
	}
	squared, err := G.Square(errs)
	if err != nil {
		return nil, errors.Wrap(err, "new: could not square errors")
	}
	loss, err := G.Mean(squared)
	if err != nil {
		return nil, errors.Wrap(err, "new: could not compute loss")
	}

	t := &Trainer{
		net:     net,
		solver:  solver,
		config:  config,
		logger:  slog.Default(),
		targets: targets,
		loss:    loss,
	}
	G.Read(loss, &t.lossVal)

	if _, err := G.Grad(loss, net.Learnables()...); err != nil {
		return nil, errors.Wrap(err, "new: could not compute gradient")
	}
	t.vm = G.NewTapeMachine(g, G.BindDualValues(net.Learnables()...))

	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Fit trains the network on train for the configured number of epochs.
// After each epoch the mean training loss, and the loss on validation
// if it is not empty, are logged and the callbacks are called. The
// logs of all epochs are returned.
func (t *Trainer) Fit(train, validation Dataset,
	callbacks callback.List) (callback.Logs, error) {
	if err := t.check(train); err != nil {
		return nil, errors.Wrap(err, "fit: invalid training data")
	}
	if train.Len() < t.net.BatchSize() {
		return nil, fmt.Errorf("fit: fewer training samples (%d) than "+
			"batch size (%d)", train.Len(), t.net.BatchSize())
	}
	if validation.Len() > 0 {
		if err := t.check(validation); err != nil {
			return nil, errors.Wrap(err, "fit: invalid validation data")
		}
	}

	if err := callbacks.OnTrainBegin(t.net); err != nil {
		return nil, errors.Wrap(err, "fit")
	}

	rng := rand.New(rand.NewSource(t.config.Seed))
	var logs callback.Logs
	for epoch := 0; epoch < t.config.Epochs; epoch++ {
		if err := callbacks.OnEpochBegin(t.net, epoch); err != nil {
			return logs, errors.Wrap(err, "fit")
		}

		loss, err := t.epoch(train, rng)
		if err != nil {
			return logs, errors.Wrapf(err, "fit: epoch %d", epoch)
		}
		metrics := map[string]float64{
			callback.Epoch: float64(epoch),
			Loss:           loss,
		}

		if validation.Len() > 0 {
			valLoss, err := t.Evaluate(validation)
			if err != nil {
				return logs, errors.Wrapf(err, "fit: epoch %d", epoch)
			}
			metrics[ValLoss] = valLoss
		}
		logs.Append(metrics)

		t.logger.Debug("epoch finished", attrs(metrics)...)

		if err := callbacks.OnEpochEnd(t.net, epoch, logs); err != nil {
			return logs, errors.Wrap(err, "fit")
		}
	}

	if err := callbacks.OnTrainEnd(t.net, logs); err != nil {
		return logs, errors.Wrap(err, "fit")
	}
	return logs, nil
}

// epoch runs a single pass over the training data and returns the mean
// loss over all batches
func (t *Trainer) epoch(train Dataset, rng *rand.Rand) (float64, error) {
	order := indices(train.Len())
	if t.config.Shuffle {
		order = rng.Perm(train.Len())
	}

	batch := t.net.BatchSize()
	numBatches := train.Len() / batch
	losses := make([]float64, 0, numBatches)

	for b := 0; b < numBatches; b++ {
		rows := order[b*batch : (b+1)*batch]

		if err := t.net.SetInput(flatten(train.X, rows)); err != nil {
			return 0, errors.Wrap(err, "epoch: could not set input")
		}
		targets := tensor.New(
			tensor.WithShape(batch, t.net.Outputs()),
			tensor.WithBacking(flatten(train.Y, rows)),
		)
		if err := G.Let(t.targets, targets); err != nil {
			return 0, errors.Wrap(err, "epoch: could not set targets")
		}

		if err := t.vm.RunAll(); err != nil {
			return 0, errors.Wrap(err, "epoch: could not run graph")
		}
		if err := t.solver.Step(t.net.Model()); err != nil {
			return 0, errors.Wrap(err, "epoch: could not step solver")
		}
		t.vm.Reset()

		losses = append(losses, t.lossVal.Data().(float64))
	}

	return stat.Mean(losses, nil), nil
}

// Evaluate returns the mean squared error of the network on d
func (t *Trainer) Evaluate(d Dataset) (float64, error) {
	pred, err := t.predict(d.X)
	if err != nil {
		return 0, errors.Wrap(err, "evaluate")
	}

	diff := flatten(d.Y, indices(d.Len()))
	floats.Sub(diff, pred)
	return floats.Dot(diff, diff) / float64(len(diff)), nil
}

// Predict returns the predictions of the network on each row of x
func (t *Trainer) Predict(x *mat.Dense) (*mat.Dense, error) {
	pred, err := t.predict(x)
	if err != nil {
		return nil, errors.Wrap(err, "predict")
	}
	rows, _ := x.Dims()
	return mat.NewDense(rows, t.net.Outputs(), pred), nil
}

// predict returns the predictions of the network on x in row-major
// order
func (t *Trainer) predict(x *mat.Dense) ([]float64, error) {
	rows, cols := x.Dims()
	if cols != t.net.Features() {
		return nil, fmt.Errorf("predict: invalid number of features"+
			"\n\twant(%d)\n\thave(%d)", t.net.Features(), cols)
	}

	if t.evalNet == nil || t.evalNet.BatchSize() != rows {
		if t.evalVM != nil {
			t.evalVM.Close()
		}
		evalNet, err := t.net.CloneWithBatch(rows)
		if err != nil {
			return nil, err
		}
		t.evalNet = evalNet
		t.evalVM = G.NewTapeMachine(evalNet.Graph())
	} else if err := t.evalNet.SetWeights(t.net.Weights()); err != nil {
		return nil, err
	}

	if err := t.evalNet.SetInput(flatten(x, indices(rows))); err != nil {
		return nil, err
	}
	if err := t.evalVM.RunAll(); err != nil {
		return nil, err
	}
	defer t.evalVM.Reset()

	out := t.evalNet.Output().(*tensor.Dense).Float64s()
	return append([]float64(nil), out...), nil
}

// check returns an error if d does not match the network shape
func (t *Trainer) check(d Dataset) error {
	if d.Features() != t.net.Features() {
		return fmt.Errorf("check: invalid number of features\n\twant(%d)"+
			"\n\thave(%d)", t.net.Features(), d.Features())
	}
	if d.Targets() != t.net.Outputs() {
		return fmt.Errorf("check: invalid number of targets\n\twant(%d)"+
			"\n\thave(%d)", t.net.Outputs(), d.Targets())
	}
	return nil
}

// Close releases the resources held by the Trainer
func (t *Trainer) Close() error {
	if t.evalVM != nil {
		if err := t.evalVM.Close(); err != nil {
			return err
		}
	}
	return t.vm.Close()
}

// attrs returns the metrics as sorted slog key-value pairs
func attrs(metrics map[string]float64) []any {
	keys := make([]string, 0, len(metrics))
	for k := range metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]any, 0, 2*len(keys))
	for _, k := range keys {
		out = append(out, k, metrics[k])
	}
	return out
}
