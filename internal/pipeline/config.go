// Package pipeline wires the dataflow/opt/ssa/licm packages into a
// named, YAML-configured sequence and fans it out across a program's
// functions concurrently, since functions are independent and nothing
// about a pass forbids running them in parallel.
package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk pipeline description: an ordered list of pass
// names plus the handful of options those passes accept.
type Config struct {
	Passes            []string `yaml:"passes"`
	FoldConstants     bool     `yaml:"fold_constants"`
	ReachabilityRoots []string `yaml:"reachability_roots,omitempty"`
}

// LoadConfig reads and validates a pipeline YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pipeline config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing pipeline config %s: %w", path, err)
	}
	if len(cfg.Passes) == 0 {
		return nil, fmt.Errorf("pipeline config %s: no passes listed", path)
	}
	for _, name := range cfg.Passes {
		if _, ok := passFactories[name]; !ok {
			return nil, fmt.Errorf("pipeline config %s: unknown pass %q", path, name)
		}
	}
	return &cfg, nil
}
