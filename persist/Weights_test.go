package persist

import (
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

func newWeights() Weights {
	return Weights{
		"fc0_w": tensor.NewDense(tensor.Float64, tensor.Shape{2, 3},
			tensor.WithBacking([]float64{1, 2, 3, 4, 5, 6})),
		"fc0_b": tensor.NewDense(tensor.Float64, tensor.Shape{1, 3},
			tensor.WithBacking([]float64{-1, 0, 1})),
	}
}

func TestWeightsSaveLoad(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "weights.bin")
	w := newWeights()

	require.NoError(t, w.Save(filename))

	loaded, err := LoadWeights(filename)
	require.NoError(t, err)
	require.Equal(t, w.Names(), loaded.Names())

	for _, name := range w.Names() {
		assert.Equal(t, w[name].Shape(), loaded[name].Shape(), name)
		assert.Equal(t, w[name].Float64s(), loaded[name].Float64s(), name)
	}
}

func TestWeightsCopyIsDetached(t *testing.T) {
	w := newWeights()
	c := w.Copy()

	w["fc0_w"].Float64s()[0] = 100
	assert.Equal(t, 1.0, c["fc0_w"].Float64s()[0])
	assert.Equal(t, w.Names(), c.Names())
}

func TestCopyNil(t *testing.T) {
	var w Weights
	assert.Nil(t, w.Copy())
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"fc0_b", "fc0_w"}, newWeights().Names())
}

func TestSaveUnsupportedDtype(t *testing.T) {
	w := Weights{
		"w": tensor.NewDense(tensor.Float32, tensor.Shape{2},
			tensor.WithBacking([]float32{1, 2})),
	}
	err := w.Save(filepath.Join(t.TempDir(), "weights.bin"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedDtype))
}

func TestSaveBadPath(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "missing", "weights.bin")
	require.Error(t, newWeights().Save(filename))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadWeights(filepath.Join(t.TempDir(), "nope.bin"))
	require.Error(t, err)
}

func TestSaveLoadGeneric(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "data.bin")
	data := []float64{0.5, 0.25, 0.125}
	require.NoError(t, Save(data, filename))

	var loaded []float64
	require.NoError(t, Load(filename, &loaded))
	assert.Equal(t, data, loaded)
}
