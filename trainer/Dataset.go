package trainer

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// Dataset is a set of samples for supervised learning. Row i of X holds
// the features of sample i, and row i of Y holds its targets.
type Dataset struct {
	X, Y *mat.Dense
}

// NewDataset returns a new Dataset with features x and targets y
func NewDataset(x, y *mat.Dense) (Dataset, error) {
	xRows, _ := x.Dims()
	yRows, _ := y.Dims()
	if xRows != yRows {
		return Dataset{}, fmt.Errorf("newdataset: features and targets must "+
			"have the same number of rows\n\tfeatures(%d)\n\ttargets(%d)",
			xRows, yRows)
	}
	return Dataset{X: x, Y: y}, nil
}

// Len returns the number of samples in the Dataset
func (d Dataset) Len() int {
	if d.X == nil {
		return 0
	}
	rows, _ := d.X.Dims()
	return rows
}

// Features returns the number of features of each sample
func (d Dataset) Features() int {
	if d.X == nil {
		return 0
	}
	_, cols := d.X.Dims()
	return cols
}

// Targets returns the number of targets of each sample
func (d Dataset) Targets() int {
	if d.Y == nil {
		return 0
	}
	_, cols := d.Y.Dims()
	return cols
}

// Split randomly partitions the Dataset, returning a Dataset with
// (1 - fraction) of the samples and one with the remaining fraction.
func (d Dataset) Split(fraction float64, seed uint64) (Dataset, Dataset,
	error) {
	if fraction < 0 || fraction > 1 {
		return Dataset{}, Dataset{}, fmt.Errorf("split: fraction must be "+
			"in [0, 1], have(%v)", fraction)
	}

	order := rand.New(rand.NewSource(seed)).Perm(d.Len())
	n := d.Len() - int(fraction*float64(d.Len()))

	return d.subset(order[:n]), d.subset(order[n:]), nil
}

// subset returns the Dataset consisting of rows of d
func (d Dataset) subset(rows []int) Dataset {
	if len(rows) == 0 {
		return Dataset{}
	}

	x := mat.NewDense(len(rows), d.Features(), nil)
	y := mat.NewDense(len(rows), d.Targets(), nil)
	for i, row := range rows {
		x.SetRow(i, d.X.RawRowView(row))
		y.SetRow(i, d.Y.RawRowView(row))
	}
	return Dataset{X: x, Y: y}
}

// flatten returns the given rows of m in row-major order
func flatten(m *mat.Dense, rows []int) []float64 {
	_, cols := m.Dims()
	out := make([]float64, 0, len(rows)*cols)
	for _, row := range rows {
		out = append(out, m.RawRowView(row)...)
	}
	return out
}

// indices returns the slice [0, 1, ..., n-1]
func indices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
