// Package network implements neural networks built on Gorgonia
// computational graphs. Every NeuralNet is a callback.Model, so its
// weights can be checkpointed during training.
package network

import (
	"github.com/samuelfneumann/gotrain/callback"
	"github.com/samuelfneumann/gotrain/persist"
	G "gorgonia.org/gorgonia"
)

// NeuralNet is a neural network on a Gorgonia computational graph
type NeuralNet interface {
	callback.Model

	Graph() *G.ExprGraph
	CloneWithBatch(int) (NeuralNet, error)
	BatchSize() int
	Features() int
	Outputs() int

	// SetInput sets the value of the input node before running the
	// forward pass
	SetInput([]float64) error

	// SetWeights copies the values in w into the network parameters
	SetWeights(w persist.Weights) error

	// LoadWeights sets the network parameters to those saved with
	// SaveWeights
	LoadWeights(filename string) error

	Learnables() G.Nodes
	Model() []G.ValueGrad
	Output() G.Value
	Prediction() *G.Node
}
