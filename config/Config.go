// Package config implements the configuration of a training run,
// loaded from YAML or JSON files.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/samuelfneumann/gotrain/callback/checkpoint"
	"github.com/samuelfneumann/gotrain/initwfn"
	"github.com/samuelfneumann/gotrain/network"
	"github.com/samuelfneumann/gotrain/solver"
	"github.com/samuelfneumann/gotrain/trainer"
	"gopkg.in/yaml.v3"
)

// Network describes a network.NeuralNet
type Network struct {
	Features    int                   `json:"features" yaml:"features"`
	Outputs     int                   `json:"outputs" yaml:"outputs"`
	BatchSize   int                   `json:"batch_size" yaml:"batch_size"`
	HiddenSizes []int                 `json:"hidden_sizes" yaml:"hidden_sizes"`
	Biases      []bool                `json:"biases" yaml:"biases"`
	Activations []*network.Activation `json:"activations" yaml:"activations"`
	InitWFn     *initwfn.InitWFn      `json:"init" yaml:"init"`
}

// Data describes the synthetic regression problem trained on when no
// data file is given
type Data struct {
	Samples int     `json:"samples" yaml:"samples"`
	Noise   float64 `json:"noise" yaml:"noise"`
	Seed    uint64  `json:"seed" yaml:"seed"`

	// Validation is the fraction of samples held out for validation
	Validation float64 `json:"validation" yaml:"validation"`
}

// Config describes a training run
type Config struct {
	Network    Network           `json:"network" yaml:"network"`
	Solver     *solver.Solver    `json:"solver" yaml:"solver"`
	Trainer    trainer.Config    `json:"trainer" yaml:"trainer"`
	Data       Data              `json:"data" yaml:"data"`
	Checkpoint checkpoint.Config `json:"checkpoint" yaml:"checkpoint"`
}

// Default returns the default configuration: a single hidden
// layer network trained with Adam, keeping the weights of the epoch
// with the lowest validation loss.
func Default() Config {
	s, err := solver.NewDefaultAdam(0.01, 1)
	if err != nil {
		panic(fmt.Sprintf("default: could not create solver: %v", err))
	}

	ckpt := checkpoint.DefaultConfig("weights-{epoch:03d}-{val_loss:.4f}.bin")
	ckpt.SaveBestOnly = true

	return Config{
		Network: Network{
			Features:    4,
			Outputs:     1,
			BatchSize:   16,
			HiddenSizes: []int{32},
			Biases:      []bool{true},
			Activations: []*network.Activation{network.ReLU()},
			InitWFn:     initwfn.NewGlorotU(1.0),
		},
		Solver: s,
		Trainer: trainer.Config{
			Epochs:  50,
			Shuffle: true,
			Seed:    1,
		},
		Data: Data{
			Samples:    1024,
			Noise:      0.1,
			Seed:       1,
			Validation: 0.2,
		},
		Checkpoint: ckpt,
	}
}

// Load reads the configuration in filename on top of the defaults.
// Files with a .json extension are decoded as JSON, all others as
// YAML.
func Load(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, errors.Wrap(err, "load")
	}

	config := Default()
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&config)
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&config)
	}
	if err != nil {
		return Config{}, errors.Wrapf(err, "load: could not decode %v",
			filename)
	}

	if err := config.Validate(); err != nil {
		return Config{}, errors.Wrap(err, "load")
	}
	return config, nil
}

// Validate returns an error if the configuration cannot describe a
// training run. The checkpoint configuration is validated when the
// checkpoint is created.
func (c Config) Validate() error {
	n := c.Network
	if n.Features < 1 || n.Outputs < 1 || n.BatchSize < 1 {
		return fmt.Errorf("validate: network features (%d), outputs (%d), "+
			"and batch size (%d) must be positive", n.Features, n.Outputs,
			n.BatchSize)
	}
	if len(n.HiddenSizes) != len(n.Biases) ||
		len(n.HiddenSizes) != len(n.Activations) {
		return fmt.Errorf("validate: network needs one bias and activation "+
			"per hidden layer\n\thidden(%d)\n\tbiases(%d)\n\tactivations(%d)",
			len(n.HiddenSizes), len(n.Biases), len(n.Activations))
	}
	if n.InitWFn == nil {
		return fmt.Errorf("validate: no weight initializer")
	}
	if c.Solver == nil {
		return fmt.Errorf("validate: no solver")
	}
	if c.Data.Validation < 0 || c.Data.Validation >= 1 {
		return fmt.Errorf("validate: validation fraction must be in [0, 1), "+
			"have(%v)", c.Data.Validation)
	}
	return nil
}
