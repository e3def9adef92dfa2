// Package persist implements saving and loading of gob encoded objects,
// such as weight snapshots, to and from disk
package persist

import (
	"encoding/gob"
	"os"

	"github.com/pkg/errors"
)

// Save gob encodes obj and writes it to the file filename, truncating
// the file if it already exists.
func Save(obj interface{}, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "save: could not open save file")
	}

	enc := gob.NewEncoder(file)
	if err := enc.Encode(obj); err != nil {
		file.Close()
		return errors.Wrapf(err, "save: could not encode %T", obj)
	}

	if err := file.Close(); err != nil {
		return errors.Wrap(err, "save: could not close save file")
	}
	return nil
}

// Load decodes the gob encoded contents of the file filename into obj,
// which must be a pointer.
func Load(filename string, obj interface{}) error {
	file, err := os.Open(filename)
	if err != nil {
		return errors.Wrap(err, "load: could not open data file")
	}
	defer file.Close()

	dec := gob.NewDecoder(file)
	if err := dec.Decode(obj); err != nil {
		return errors.Wrapf(err, "load: could not decode %T", obj)
	}
	return nil
}
