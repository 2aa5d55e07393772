package tiler

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Layout of the optional YAML configuration file. Values given here override the flag defaults,
// explicitly set command line flags are applied afterwards by the caller.
type FileConfig struct {
	Seed        string             `yaml:"seed"`
	BorderWidth *float64           `yaml:"borderWidth"`
	Layers      []*LayerOptions    `yaml:"layers"`
	Appearance  *AppearanceOptions `yaml:"appearance"`
}

func LoadConfigFile(path string) (*FileConfig, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(content)
}

func ParseConfig(content []byte) (*FileConfig, error) {
	cfg := &FileConfig{}
	if err := yaml.Unmarshal(content, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}

	// unset fields of each layer fall back to the default layer
	for i, layer := range cfg.Layers {
		if layer == nil {
			return nil, fmt.Errorf("%w: layer %d is empty", ErrInvalidOptions, i)
		}
		defaults := NewDefaultLayerOptions()
		if layer.Structure == "" {
			layer.Structure = defaults.Structure
		}
		if layer.Criteria == "" {
			layer.Criteria = defaults.Criteria
		}
		if layer.ColorMode == "" {
			layer.ColorMode = defaults.ColorMode
		}
		if layer.From == 0 && layer.To == 0 {
			layer.To = defaults.To
		}
	}

	if cfg.Appearance != nil {
		defaults := NewDefaultAppearanceOptions()
		if cfg.Appearance.BorderMode == "" {
			cfg.Appearance.BorderMode = defaults.BorderMode
		}
		if cfg.Appearance.ColorScheme == "" {
			cfg.Appearance.ColorScheme = defaults.ColorScheme
		}
		if cfg.Appearance.Color0 == "" {
			cfg.Appearance.Color0 = defaults.Color0
		}
		if cfg.Appearance.Color1 == "" {
			cfg.Appearance.Color1 = defaults.Color1
		}
	}
	return cfg, nil
}

// Applies the file configuration on top of the options
func (c *FileConfig) ApplyTo(opts *TilerOptions) {
	if c.Seed != "" {
		opts.Seed = c.Seed
	}
	if c.BorderWidth != nil {
		opts.BorderWidth = *c.BorderWidth
	}
	if len(c.Layers) > 0 {
		opts.Layers = make([]*LayerOptions, len(c.Layers))
		for i, layer := range c.Layers {
			opts.Layers[i] = layer.Copy()
		}
	}
	if c.Appearance != nil {
		a := *c.Appearance
		opts.Appearance = &a
	}
}
