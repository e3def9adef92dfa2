package initwfn

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestUnmarshalJSON(t *testing.T) {
	var i InitWFn
	err := json.Unmarshal([]byte(`{"Type": "HeN", "Config": {"Gain": 2}}`),
		&i)
	require.NoError(t, err)

	assert.Equal(t, HeN, i.Type)
	assert.Equal(t, HeNConfig{Gain: 2}, i.Config)
	assert.NotNil(t, i.InitWFn())
}

func TestUnmarshalYAML(t *testing.T) {
	var i InitWFn
	in := "type: Gaussian\nconfig:\n  mean: 0.5\n  stddev: 0.1\n"
	require.NoError(t, yaml.Unmarshal([]byte(in), &i))

	assert.Equal(t, Gaussian, i.Type)
	assert.Equal(t, GaussianConfig{Mean: 0.5, StdDev: 0.1}, i.Config)
	assert.NotNil(t, i.InitWFn())
}

func TestUnmarshalWithoutConfig(t *testing.T) {
	var i InitWFn
	require.NoError(t, yaml.Unmarshal([]byte("type: Zeroes\n"), &i))
	assert.Equal(t, ZeroesConfig{}, i.Config)
}

func TestUnmarshalUnknownType(t *testing.T) {
	var i InitWFn
	assert.Error(t, json.Unmarshal([]byte(`{"Type": "Orthogonal"}`), &i))
	assert.Error(t, yaml.Unmarshal([]byte("type: Orthogonal\n"), &i))
}
