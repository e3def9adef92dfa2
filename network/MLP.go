package network

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/samuelfneumann/gotrain/persist"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// mlp implements a multi-layered perceptron
type mlp struct {
	g          *G.ExprGraph
	layers     []*fcLayer
	input      *G.Node
	numOutputs int
	numInputs  int
	batchSize  int

	// Architecture, needed for cloning
	hiddenSizes []int
	biases      []bool
	activations []*Activation

	learnables G.Nodes
	model      []G.ValueGrad

	prediction *G.Node
	predVal    G.Value
}

// NewMLP creates and returns a new multi-layered perceptron with
// outputs output nodes. The graph parameter g is populated with the
// MLP.
//
// The MLP has len(hiddenSizes) + 1 layers. For index i, hiddenSizes[i]
// is the number of nodes in hidden layer i, biases[i] is true if hidden
// layer i has a bias unit, and activations[i] is the activation
// function of hidden layer i. A final linear layer with a bias unit and
// no activation maps the last hidden layer to the outputs. The
// parameter init determines the weight initialization scheme.
func NewMLP(features, batch, outputs int, g *G.ExprGraph,
	hiddenSizes []int, biases []bool, init G.InitWFn,
	activations []*Activation) (NeuralNet, error) {
	if len(hiddenSizes) != len(activations) {
		msg := "newmlp: invalid number of activations\n\twant(%d)" +
			"\n\thave(%d)"
		return nil, fmt.Errorf(msg, len(hiddenSizes), len(activations))
	}
	if len(hiddenSizes) != len(biases) {
		msg := "newmlp: invalid number of biases\n\twant(%d)\n\thave(%d)"
		return nil, fmt.Errorf(msg, len(hiddenSizes), len(biases))
	}
	if features < 1 || batch < 1 || outputs < 1 {
		return nil, fmt.Errorf("newmlp: features (%d), batch (%d), and "+
			"outputs (%d) must be positive", features, batch, outputs)
	}

	input := G.NewMatrix(g, tensor.Float64, G.WithShape(batch, features),
		G.WithName("input"), G.WithInit(G.Zeroes()))

	// Add the final linear output layer
	sizes := append(append([]int{}, hiddenSizes...), outputs)
	bias := append(append([]bool{}, biases...), true)
	acts := append(append([]*Activation{}, activations...), Identity())

	layers := make([]*fcLayer, len(sizes))
	in := features
	for i := range sizes {
		layers[i] = newFCLayer(g, i, in, sizes[i], bias[i], acts[i], init)
		in = sizes[i]
	}

	net := &mlp{
		g:           g,
		layers:      layers,
		input:       input,
		numOutputs:  outputs,
		numInputs:   features,
		batchSize:   batch,
		hiddenSizes: hiddenSizes,
		biases:      biases,
		activations: activations,
	}
	if _, err := net.fwd(input); err != nil {
		return nil, errors.Wrap(err, "newmlp: could not compute forward pass")
	}

	return net, nil
}

// Graph returns the computational graph of the mlp
func (m *mlp) Graph() *G.ExprGraph {
	return m.g
}

// CloneWithBatch returns a copy of the mlp on a new computational
// graph which accepts batchSize samples at a time. The clone has the
// same weights as m.
func (m *mlp) CloneWithBatch(batchSize int) (NeuralNet, error) {
	clone, err := NewMLP(m.numInputs, batchSize, m.numOutputs, G.NewGraph(),
		m.hiddenSizes, m.biases, G.Zeroes(), m.activations)
	if err != nil {
		return nil, errors.Wrap(err, "clonewithbatch")
	}

	if err := clone.SetWeights(m.Weights()); err != nil {
		return nil, errors.Wrap(err, "clonewithbatch")
	}
	return clone, nil
}

// BatchSize returns the batch size of inputs to the mlp
func (m *mlp) BatchSize() int {
	return m.batchSize
}

// Features returns the number of features in a single input sample
func (m *mlp) Features() int {
	return m.numInputs
}

// Outputs returns the number of outputs from the network
func (m *mlp) Outputs() int {
	return m.numOutputs
}

// SetInput sets the value of the input node before running the forward
// pass. The input is given in row-major order.
func (m *mlp) SetInput(input []float64) error {
	if len(input) != m.numInputs*m.batchSize {
		return fmt.Errorf("setinput: invalid number of inputs\n\twant(%v)"+
			"\n\thave(%v)", m.numInputs*m.batchSize, len(input))
	}
	inputTensor := tensor.New(
		tensor.WithBacking(input),
		tensor.WithShape(m.input.Shape()...),
	)
	return G.Let(m.input, inputTensor)
}

// Weights returns the parameters of the mlp by name. The returned
// tensors are the live parameters of the network.
func (m *mlp) Weights() persist.Weights {
	weights := make(persist.Weights, len(m.Learnables()))
	for _, node := range m.Learnables() {
		weights[node.Name()] = node.Value().(*tensor.Dense)
	}
	return weights
}

// SetWeights copies w into the parameters of the mlp. The tensors of w
// are not retained.
func (m *mlp) SetWeights(w persist.Weights) error {
	for _, node := range m.Learnables() {
		src, ok := w[node.Name()]
		if !ok {
			return fmt.Errorf("setweights: missing parameter %v", node.Name())
		}
		if !src.Shape().Eq(node.Shape()) {
			return fmt.Errorf("setweights: invalid shape for parameter %v"+
				"\n\twant(%v)\n\thave(%v)", node.Name(), node.Shape(),
				src.Shape())
		}

		dest := node.Value().(*tensor.Dense)
		copy(dest.Float64s(), src.Float64s())
	}
	return nil
}

// SaveWeights saves the parameters of the mlp to the file filename
func (m *mlp) SaveWeights(filename string) error {
	return persist.Save(m.Weights(), filename)
}

// LoadWeights sets the parameters of the mlp to those saved in the
// file filename
func (m *mlp) LoadWeights(filename string) error {
	w, err := persist.LoadWeights(filename)
	if err != nil {
		return errors.Wrap(err, "loadweights")
	}
	return m.SetWeights(w)
}

// Learnables returns the learnable nodes in the mlp
func (m *mlp) Learnables() G.Nodes {
	if m.learnables == nil {
		learnables := make(G.Nodes, 0, 2*len(m.layers))
		for _, layer := range m.layers {
			learnables = append(learnables, layer.learnables()...)
		}
		m.learnables = learnables
	}
	return m.learnables
}

// Model returns the learnables nodes with their gradients
func (m *mlp) Model() []G.ValueGrad {
	if m.model == nil {
		model := make([]G.ValueGrad, 0, len(m.Learnables()))
		for _, node := range m.Learnables() {
			model = append(model, node)
		}
		m.model = model
	}
	return m.model
}

// fwd performs the forward pass of the mlp on the input node
func (m *mlp) fwd(input *G.Node) (*G.Node, error) {
	pred := input
	var err error
	for i, l := range m.layers {
		if pred, err = l.fwd(pred); err != nil {
			msg := "fwd: could not compute forward pass of layer %v: %v"
			return nil, fmt.Errorf(msg, i, err)
		}
	}

	m.prediction = pred
	G.Read(m.prediction, &m.predVal)

	return pred, nil
}

// Output returns the output of the mlp after the graph has been run
func (m *mlp) Output() G.Value {
	return m.predVal
}

// Prediction returns the node of the computational graph that stores
// the output of the mlp
func (m *mlp) Prediction() *G.Node {
	return m.prediction
}
