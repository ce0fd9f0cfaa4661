package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config file looked up in the working
// directory when no path is given.
const DefaultConfigFile = "cephup.yaml"

// LoadFile reads a topology request from a YAML file. Fields left unset
// in the file keep the documented defaults.
func LoadFile(path string) (TopologyRequest, error) {
	req := DefaultRequest()

	data, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := req.Validate(); err != nil {
		return req, fmt.Errorf("invalid config in %s: %w", path, err)
	}

	return req, nil
}
