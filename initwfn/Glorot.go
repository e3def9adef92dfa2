package initwfn

import G "gorgonia.org/gorgonia"

// GlorotUConfig configures the Glorot uniform initialization algorithm
type GlorotUConfig struct {
	Gain float64 `yaml:"gain"`
}

// NewGlorotU returns a new Glorot uniform weight initializer
func NewGlorotU(gain float64) *InitWFn {
	return newInitWFn(GlorotUConfig{Gain: gain})
}

// Type implements the Config interface
func (g GlorotUConfig) Type() Type {
	return GlorotU
}

// Create implements the Config interface
func (g GlorotUConfig) Create() G.InitWFn {
	return G.GlorotU(g.Gain)
}

// GlorotNConfig configures the Glorot normal initialization algorithm
type GlorotNConfig struct {
	Gain float64 `yaml:"gain"`
}

// NewGlorotN returns a new Glorot normal weight initializer
func NewGlorotN(gain float64) *InitWFn {
	return newInitWFn(GlorotNConfig{Gain: gain})
}

// Type implements the Config interface
func (g GlorotNConfig) Type() Type {
	return GlorotN
}

// Create implements the Config interface
func (g GlorotNConfig) Create() G.InitWFn {
	return G.GlorotN(g.Gain)
}
