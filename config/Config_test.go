package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/samuelfneumann/gotrain/initwfn"
	"github.com/samuelfneumann/gotrain/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, contents string) string {
	filename := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(filename, []byte(contents), 0o600))
	return filename
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoadYAML(t *testing.T) {
	filename := write(t, "run.yaml", `
network:
  features: 3
  hidden_sizes: [8, 8]
  biases: [true, false]
  activations: [relu, tanh]
  init:
    type: HeN
    config:
      gain: 2
solver:
  type: Vanilla
  config:
    step_size: 0.05
    batch: 1
trainer:
  epochs: 5
checkpoint:
  filename: "best-{epoch}.bin"
  monitor: val_loss
  save_best_only: true
  mode: min
`)
	c, err := Load(filename)
	require.NoError(t, err)

	assert.Equal(t, 3, c.Network.Features)
	assert.Equal(t, 16, c.Network.BatchSize, "default not kept")
	assert.Equal(t, []int{8, 8}, c.Network.HiddenSizes)
	assert.Equal(t, "tanh", c.Network.Activations[1].String())
	assert.Equal(t, initwfn.HeN, c.Network.InitWFn.Type)
	assert.Equal(t, solver.Vanilla, c.Solver.Type)
	assert.Equal(t, 5, c.Trainer.Epochs)
	assert.True(t, c.Checkpoint.SaveBestOnly)
	assert.Equal(t, "best-{epoch}.bin", c.Checkpoint.Filename)
	assert.Equal(t, 1, c.Checkpoint.Period, "default not kept")
}

func TestLoadJSON(t *testing.T) {
	filename := write(t, "run.json", `{
		"trainer": {"epochs": 3},
		"solver": {"Type": "RMSProp", "Config": {"StepSize": 0.001,
			"Epsilon": 1e-8, "Rho": 0.9, "Batch": 1}},
		"checkpoint": {"filename": "w-{epoch}.bin", "period": 2}
	}`)
	c, err := Load(filename)
	require.NoError(t, err)

	assert.Equal(t, 3, c.Trainer.Epochs)
	assert.Equal(t, solver.RMSProp, c.Solver.Type)
	assert.Equal(t, 2, c.Checkpoint.Period)
	assert.Equal(t, "val_loss", c.Checkpoint.Monitor)
}

func TestLoadUnknownField(t *testing.T) {
	_, err := Load(write(t, "run.yaml", "trainer:\n  epoch: 3\n"))
	assert.Error(t, err)
}

func TestLoadInvalid(t *testing.T) {
	_, err := Load(write(t, "run.yaml",
		"network:\n  hidden_sizes: [4, 4]\n"))
	assert.Error(t, err)

	_, err = Load(write(t, "run.yaml", "data:\n  validation: 1.5\n"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
