package initwfn

import G "gorgonia.org/gorgonia"

// UniformConfig configures weights drawn uniformly from [Low, High)
type UniformConfig struct {
	Low  float64 `yaml:"low"`
	High float64 `yaml:"high"`
}

// NewUniform returns a new uniform weight initializer
func NewUniform(low, high float64) *InitWFn {
	return newInitWFn(UniformConfig{Low: low, High: high})
}

// Type implements the Config interface
func (u UniformConfig) Type() Type {
	return Uniform
}

// Create implements the Config interface
func (u UniformConfig) Create() G.InitWFn {
	return G.Uniform(u.Low, u.High)
}

// GaussianConfig configures normally distributed weights
type GaussianConfig struct {
	Mean   float64 `yaml:"mean"`
	StdDev float64 `yaml:"stddev"`
}

// NewGaussian returns a new Gaussian weight initializer
func NewGaussian(mean, stddev float64) *InitWFn {
	return newInitWFn(GaussianConfig{Mean: mean, StdDev: stddev})
}

// Type implements the Config interface
func (g GaussianConfig) Type() Type {
	return Gaussian
}

// Create implements the Config interface
func (g GaussianConfig) Create() G.InitWFn {
	return G.Gaussian(g.Mean, g.StdDev)
}

// ZeroesConfig configures weights that are all zero
type ZeroesConfig struct{}

// NewZeroes returns a new zero weight initializer
func NewZeroes() *InitWFn {
	return newInitWFn(ZeroesConfig{})
}

// Type implements the Config interface
func (z ZeroesConfig) Type() Type {
	return Zeroes
}

// Create implements the Config interface
func (z ZeroesConfig) Create() G.InitWFn {
	return G.Zeroes()
}

// OnesConfig configures weights that are all one
type OnesConfig struct{}

// NewOnes returns a new weight initializer setting all weights to 1
func NewOnes() *InitWFn {
	return newInitWFn(OnesConfig{})
}

// Type implements the Config interface
func (o OnesConfig) Type() Type {
	return Ones
}

// Create implements the Config interface
func (o OnesConfig) Create() G.InitWFn {
	return G.Ones()
}
