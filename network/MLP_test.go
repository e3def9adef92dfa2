package network

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/samuelfneumann/gotrain/callback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

var _ callback.Model = &mlp{}

func newTestMLP(t *testing.T, batch int, init G.InitWFn) NeuralNet {
	net, err := NewMLP(2, batch, 1, G.NewGraph(), []int{3}, []bool{true},
		init, []*Activation{Identity()})
	require.NoError(t, err)
	return net
}

func TestNewMLPInvalid(t *testing.T) {
	_, err := NewMLP(2, 1, 1, G.NewGraph(), []int{3, 3}, []bool{true},
		G.Zeroes(), []*Activation{ReLU()})
	assert.Error(t, err)

	_, err = NewMLP(2, 1, 1, G.NewGraph(), []int{3}, []bool{true, true},
		G.Zeroes(), []*Activation{ReLU()})
	assert.Error(t, err)

	_, err = NewMLP(0, 1, 1, G.NewGraph(), nil, nil, G.Zeroes(), nil)
	assert.Error(t, err)
}

func TestWeights(t *testing.T) {
	net := newTestMLP(t, 1, G.Ones())
	w := net.Weights()

	assert.Equal(t, []string{"W0", "W1", "b0", "b1"}, w.Names())
	assert.Equal(t, tensor.Shape{2, 3}, w["W0"].Shape())
	assert.Equal(t, tensor.Shape{1, 3}, w["b0"].Shape())
	assert.Equal(t, tensor.Shape{3, 1}, w["W1"].Shape())
	assert.Equal(t, tensor.Shape{1, 1}, w["b1"].Shape())
}

func TestForward(t *testing.T) {
	net := newTestMLP(t, 1, G.Ones())
	require.NoError(t, net.SetInput([]float64{1, 1}))

	vm := G.NewTapeMachine(net.Graph())
	defer vm.Close()
	require.NoError(t, vm.RunAll())

	assert.Equal(t, []float64{6}, net.Output().(*tensor.Dense).Float64s())
}

func TestSetInputInvalid(t *testing.T) {
	net := newTestMLP(t, 2, G.Ones())
	assert.Error(t, net.SetInput([]float64{1, 1}))
}

func TestSaveLoadWeights(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "weights.bin")
	src := newTestMLP(t, 1, G.GlorotU(1))
	require.NoError(t, src.SaveWeights(filename))

	dest := newTestMLP(t, 1, G.Zeroes())
	require.NoError(t, dest.LoadWeights(filename))

	for name, w := range src.Weights() {
		assert.Equal(t, w.Float64s(), dest.Weights()[name].Float64s(), name)
	}
}

func TestSetWeightsInvalid(t *testing.T) {
	net := newTestMLP(t, 1, G.Zeroes())
	w := net.Weights().Copy()
	delete(w, "W1")
	assert.Error(t, net.SetWeights(w))

	other, err := NewMLP(2, 1, 1, G.NewGraph(), []int{4}, []bool{true},
		G.Zeroes(), []*Activation{Identity()})
	require.NoError(t, err)
	assert.Error(t, net.SetWeights(other.Weights()))
}

func TestCloneWithBatch(t *testing.T) {
	net := newTestMLP(t, 1, G.GlorotN(1))
	clone, err := net.CloneWithBatch(5)
	require.NoError(t, err)

	assert.Equal(t, 5, clone.BatchSize())
	assert.Equal(t, net.Features(), clone.Features())
	assert.Equal(t, net.Outputs(), clone.Outputs())
	for name, w := range net.Weights() {
		assert.Equal(t, w.Float64s(), clone.Weights()[name].Float64s(), name)
	}

	// The clone does not share parameters with the original
	clone.Weights()["W0"].Float64s()[0] = 42
	assert.NotEqual(t, 42.0, net.Weights()["W0"].Float64s()[0])
}

func TestActivationEncoding(t *testing.T) {
	var acts []*Activation
	require.NoError(t, json.Unmarshal([]byte(`["relu", "tanh"]`), &acts))
	assert.Equal(t, "relu", acts[0].String())
	assert.Equal(t, "tanh", acts[1].String())

	require.NoError(t, yaml.Unmarshal([]byte("[sigmoid, identity]"), &acts))
	assert.Equal(t, "sigmoid", acts[0].String())
	assert.True(t, acts[1].IsIdentity())

	out, err := json.Marshal(acts)
	require.NoError(t, err)
	assert.JSONEq(t, `["sigmoid", "identity"]`, string(out))

	_, err = ParseActivation("softmax")
	assert.Error(t, err)
}
