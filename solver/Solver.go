// Package solver wraps Gorgonia Solvers so that they can be described
// in JSON or YAML configuration files.
package solver

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	G "gorgonia.org/gorgonia"
)

// Type describes the different types of solvers that are available
type Type string

// Available solver types
const (
	Adam    Type = "Adam"
	Vanilla Type = "Vanilla"
	RMSProp Type = "RMSProp"
)

// configTypes maps each Type to the concrete type of its Config
var configTypes = map[Type]reflect.Type{
	Adam:    reflect.TypeOf(AdamConfig{}),
	Vanilla: reflect.TypeOf(VanillaConfig{}),
	RMSProp: reflect.TypeOf(RMSPropConfig{}),
}

// Config describes a Gorgonia Solver and can create it
type Config interface {
	Create() G.Solver

	// ValidType returns whether a specific Solver type can be created
	// with the Config
	ValidType(Type) bool
}

// Solver wraps a Gorgonia Solver together with the Config that created
// it
type Solver struct {
	G.Solver `json:"-" yaml:"-"`
	Type
	Config
}

// newSolver returns a new solver with the given type and configuration
func newSolver(t Type, c Config) (*Solver, error) {
	if !c.ValidType(t) {
		return nil, fmt.Errorf("newsolver: invalid solver type %v for "+
			"configuration %T", t, c)
	}
	solver := Solver{Type: t, Config: c}
	solver.Solver = solver.Config.Create()

	return &solver, nil
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (s *Solver) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type   Type
		Config json.RawMessage
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "unmarshaljson")
	}

	ptr, err := newConfig(raw.Type)
	if err != nil {
		return errors.Wrap(err, "unmarshaljson")
	}
	if len(raw.Config) > 0 {
		if err := json.Unmarshal(raw.Config, ptr); err != nil {
			return errors.Wrapf(err, "unmarshaljson: could not decode %v "+
				"config", raw.Type)
		}
	}

	return s.set(raw.Type, ptr)
}

// UnmarshalYAML implements the yaml.Unmarshaler interface
func (s *Solver) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Type   Type      `yaml:"type"`
		Config yaml.Node `yaml:"config"`
	}
	if err := value.Decode(&raw); err != nil {
		return errors.Wrap(err, "unmarshalyaml")
	}

	ptr, err := newConfig(raw.Type)
	if err != nil {
		return errors.Wrap(err, "unmarshalyaml")
	}
	if !raw.Config.IsZero() {
		if err := raw.Config.Decode(ptr); err != nil {
			return errors.Wrapf(err, "unmarshalyaml: could not decode %v "+
				"config", raw.Type)
		}
	}

	return s.set(raw.Type, ptr)
}

// set sets the Solver to the one described by the Config pointed to
// by ptr
func (s *Solver) set(t Type, ptr interface{}) error {
	config := reflect.ValueOf(ptr).Elem().Interface().(Config)
	solver, err := newSolver(t, config)
	if err != nil {
		return err
	}
	*s = *solver
	return nil
}

// newConfig returns a pointer to the zero value of the Config of type t
func newConfig(t Type) (interface{}, error) {
	ty, ok := configTypes[t]
	if !ok {
		return nil, fmt.Errorf("newconfig: no such solver type %q", t)
	}
	return reflect.New(ty).Interface(), nil
}
