package topology

import (
	"bytes"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// Parse decodes a service config document. Unknown keys are rejected so typos in a service
// definition surface early.
func Parse(data []byte) (*Topology, error) {
	var t Topology
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("decode service config: %w", err)
	}
	return &t, nil
}

// LoadFile reads and parses the service config at path. The result is not validated.
func LoadFile(fs afero.Fs, path string) (*Topology, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrap(err, "read service config")
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return t, nil
}
