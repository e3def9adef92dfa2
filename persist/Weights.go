package persist

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// ErrUnsupportedDtype is returned when a Weights holds a tensor that
// is not of type float64
var ErrUnsupportedDtype = errors.New("unsupported tensor dtype")

// Weights maps parameter names to parameter values
type Weights map[string]*tensor.Dense

// record is the gob representation of a single named tensor
type record struct {
	Name  string
	Shape []int
	Data  []float64
}

// Names returns the sorted parameter names of the Weights
func (w Weights) Names() []string {
	names := make([]string, 0, len(w))
	for name := range w {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Copy returns a deep copy of the Weights. The tensors of the returned
// Weights share no memory with the tensors of w, so later updates to
// w are not reflected in the copy.
func (w Weights) Copy() Weights {
	if w == nil {
		return nil
	}

	c := make(Weights, len(w))
	for name, t := range w {
		if t == nil {
			c[name] = nil
			continue
		}
		c[name] = t.Clone().(*tensor.Dense)
	}
	return c
}

// Save saves the Weights to the file filename
func (w Weights) Save(filename string) error {
	return Save(w, filename)
}

// LoadWeights loads the Weights saved to the file filename
func LoadWeights(filename string) (Weights, error) {
	var w Weights
	if err := Load(filename, &w); err != nil {
		return nil, err
	}
	return w, nil
}

// GobEncode implements the gob.GobEncoder interface
func (w Weights) GobEncode() ([]byte, error) {
	records := make([]record, 0, len(w))
	for _, name := range w.Names() {
		t := w[name]
		if t == nil {
			return nil, fmt.Errorf("gobencode: nil tensor for parameter %v",
				name)
		}
		if t.Dtype() != tensor.Float64 {
			return nil, errors.Wrapf(ErrUnsupportedDtype,
				"gobencode: parameter %v has dtype %v", name, t.Dtype())
		}

		records = append(records, record{
			Name:  name,
			Shape: append([]int(nil), t.Shape()...),
			Data:  append([]float64(nil), t.Float64s()...),
		})
	}

	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(records); err != nil {
		return nil, errors.Wrap(err, "gobencode: could not encode weights")
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface
func (w *Weights) GobDecode(in []byte) error {
	var records []record
	dec := gob.NewDecoder(bytes.NewReader(in))
	if err := dec.Decode(&records); err != nil {
		return errors.Wrap(err, "gobdecode: could not decode weights")
	}

	weights := make(Weights, len(records))
	for _, r := range records {
		shape := tensor.Shape(r.Shape)
		if size(r.Shape) != len(r.Data) {
			return fmt.Errorf("gobdecode: parameter %v has shape %v but "+
				"%v values", r.Name, shape, len(r.Data))
		}
		weights[r.Name] = tensor.NewDense(tensor.Float64, shape,
			tensor.WithBacking(r.Data))
	}

	*w = weights
	return nil
}

// size returns the number of elements in a tensor of the given shape
func size(shape []int) int {
	n := 1
	for _, dim := range shape {
		n *= dim
	}
	return n
}
