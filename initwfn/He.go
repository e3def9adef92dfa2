package initwfn

import G "gorgonia.org/gorgonia"

// HeUConfig configures the He uniform initialization algorithm
type HeUConfig struct {
	Gain float64 `yaml:"gain"`
}

// NewHeU returns a new He uniform weight initializer
func NewHeU(gain float64) *InitWFn {
	return newInitWFn(HeUConfig{Gain: gain})
}

// Type implements the Config interface
func (h HeUConfig) Type() Type {
	return HeU
}

// Create implements the Config interface
func (h HeUConfig) Create() G.InitWFn {
	return G.HeU(h.Gain)
}

// HeNConfig configures the He normal initialization algorithm
type HeNConfig struct {
	Gain float64 `yaml:"gain"`
}

// NewHeN returns a new He normal weight initializer
func NewHeN(gain float64) *InitWFn {
	return newInitWFn(HeNConfig{Gain: gain})
}

// Type implements the Config interface
func (h HeNConfig) Type() Type {
	return HeN
}

// Create implements the Config interface
func (h HeNConfig) Create() G.InitWFn {
	return G.HeN(h.Gain)
}
