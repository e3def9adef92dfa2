// Package callbacktest provides a recording callback.Model for testing
// Callbacks without building a network.
package callbacktest

import (
	"github.com/samuelfneumann/gotrain/persist"
	"gorgonia.org/tensor"
)

// Model is a callback.Model with a single parameter "w" whose value
// is set with Set. Each call to SaveWeights is recorded and, if Dir
// is set, the weights are written to disk.
type Model struct {
	weights persist.Weights
	Saved   []string // Filenames passed to SaveWeights
	SaveErr error    // Returned from SaveWeights if non-nil
	Write   bool     // Write weights to disk on SaveWeights
}

// NewModel returns a new Model with parameter "w" of the given values
func NewModel(values ...float64) *Model {
	m := &Model{}
	m.Set(values...)
	return m
}

// Set overwrites the live parameter values in place
func (m *Model) Set(values ...float64) {
	if m.weights == nil {
		m.weights = persist.Weights{
			"w": tensor.NewDense(tensor.Float64, tensor.Shape{len(values)},
				tensor.WithBacking(append([]float64(nil), values...))),
		}
		return
	}
	copy(m.weights["w"].Float64s(), values)
}

// Weights implements callback.Model. The returned tensors alias the
// live parameters.
func (m *Model) Weights() persist.Weights {
	return m.weights
}

// SaveWeights implements callback.Model
func (m *Model) SaveWeights(filename string) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saved = append(m.Saved, filename)
	if m.Write {
		return m.weights.Save(filename)
	}
	return nil
}
