// Package initwfn wraps Gorgonia InitWFn's so that they can be
// described in JSON or YAML configuration files.
//
// A serialized InitWFn is an object with a Type field naming the
// initialization algorithm and a Config field holding its parameters,
// for example in YAML:
//
//	type: GlorotU
//	config:
//	  gain: 1.0
package initwfn

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	G "gorgonia.org/gorgonia"
)

// Type names an initialization algorithm
type Type string

// Available InitWFn types
const (
	GlorotU  Type = "GlorotU"
	GlorotN  Type = "GlorotN"
	HeU      Type = "HeU"
	HeN      Type = "HeN"
	Uniform  Type = "Uniform"
	Gaussian Type = "Gaussian"
	Zeroes   Type = "Zeroes"
	Ones     Type = "Ones"
)

// configTypes maps each Type to the concrete type of its Config
var configTypes = map[Type]reflect.Type{
	GlorotU:  reflect.TypeOf(GlorotUConfig{}),
	GlorotN:  reflect.TypeOf(GlorotNConfig{}),
	HeU:      reflect.TypeOf(HeUConfig{}),
	HeN:      reflect.TypeOf(HeNConfig{}),
	Uniform:  reflect.TypeOf(UniformConfig{}),
	Gaussian: reflect.TypeOf(GaussianConfig{}),
	Zeroes:   reflect.TypeOf(ZeroesConfig{}),
	Ones:     reflect.TypeOf(OnesConfig{}),
}

// Config describes a Gorgonia InitWFn and can create it
type Config interface {
	// Create returns the Gorgonia InitWFn that the Config describes
	Create() G.InitWFn

	// Type returns the type of initialization algorithm described
	Type() Type
}

// InitWFn wraps a Gorgonia InitWFn together with the Config that
// created it
type InitWFn struct {
	initWFn G.InitWFn
	Type
	Config
}

// newInitWFn returns a new InitWFn described by c
func newInitWFn(c Config) *InitWFn {
	return &InitWFn{initWFn: c.Create(), Type: c.Type(), Config: c}
}

// InitWFn returns the wrapped Gorgonia InitWFn
func (i *InitWFn) InitWFn() G.InitWFn {
	return i.initWFn
}

// String implements the fmt.Stringer interface
func (i *InitWFn) String() string {
	return fmt.Sprintf("{%v InitWFn: %v}", i.Type, i.Config)
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (i *InitWFn) UnmarshalJSON(data []byte) error {
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

	*i = *newInitWFn(reflect.ValueOf(ptr).Elem().Interface().(Config))
	return nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface
func (i *InitWFn) UnmarshalYAML(value *yaml.Node) error {
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

	*i = *newInitWFn(reflect.ValueOf(ptr).Elem().Interface().(Config))
	return nil
}

// newConfig returns a pointer to the zero value of the Config of type t
func newConfig(t Type) (interface{}, error) {
	ty, ok := configTypes[t]
	if !ok {
		return nil, fmt.Errorf("newconfig: no such InitWFn type %q", t)
	}
	return reflect.New(ty).Interface(), nil
}
