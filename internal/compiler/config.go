package compiler

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/exalt-lang/exalt/internal/compiler/passes"
)

// Config controls the compilation of a unit. Passes maps pass names to
// enablement; names absent from the map stay enabled.
type Config struct {
	Passes passes.Config `yaml:"passes"`
}

// DefaultConfig returns a Config with every pass enabled.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig reads a YAML config file. Unknown pass names are rejected
// so a typo cannot silently leave a pass enabled.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	known := map[string]bool{}
	for _, p := range passes.NewPipeline(nil, nil).Passes() {
		known[p.Name] = true
	}
	for name := range cfg.Passes {
		if !known[name] {
			return nil, fmt.Errorf("config %s: unknown pass %q", path, name)
		}
	}
	return cfg, nil
}
