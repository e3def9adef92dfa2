// Package callback implements hooks that a training loop calls at
// fixed points during training.
//
// A Callback may implement any subset of the hook interfaces
// TrainBeginner, EpochBeginner, EpochEnder, and TrainEnder. The
// training loop only calls the hooks that a Callback implements. The
// Model being trained is passed to each hook explicitly rather than
// being bound to the Callback.
package callback

import "github.com/samuelfneumann/gotrain/persist"

// Model is a trainable model that Callbacks can observe and save
type Model interface {
	// Weights returns the current parameters of the model. The
	// returned tensors may alias the live model parameters.
	Weights() persist.Weights

	// SaveWeights saves the current parameters of the model to the
	// file filename
	SaveWeights(filename string) error
}

// Callback is any value that implements one or more of the hook
// interfaces in this package
type Callback interface{}

// TrainBeginner is a Callback that is called before the first epoch
type TrainBeginner interface {
	OnTrainBegin(m Model) error
}

// EpochBeginner is a Callback that is called before each epoch
type EpochBeginner interface {
	OnEpochBegin(m Model, epoch int) error
}

// EpochEnder is a Callback that is called after each epoch. The logs
// parameter holds the metrics of all epochs run so far, the last entry
// corresponding to epoch.
type EpochEnder interface {
	OnEpochEnd(m Model, epoch int, logs Logs) error
}

// TrainEnder is a Callback that is called once training has finished
type TrainEnder interface {
	OnTrainEnd(m Model, logs Logs) error
}
