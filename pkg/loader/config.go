package loader

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/chipselect/pkg/model"
)

// FileConfig is the YAML configuration of the demo host
type FileConfig struct {
	Widget      model.Config `yaml:"widget"`
	Fields      model.Fields `yaml:"fields"`
	Placeholder string       `yaml:"placeholder"`
	Label       string       `yaml:"label"`             // form field label
	Required    bool         `yaml:"required"`          // submit needs a non-empty value
	Sources     []string     `yaml:"sources,omitempty"` // "path" or "path#table"
	Watch       bool         `yaml:"watch"`             // reload when a source changes
	LogFile     string       `yaml:"log_file,omitempty"`
	HistoryDB   string       `yaml:"history_db,omitempty"`
}

// DefaultFileConfig returns the configuration used when no file is given
func DefaultFileConfig() FileConfig {
	return FileConfig{
		Widget:      model.DefaultConfig(),
		Fields:      model.DefaultFields(),
		Placeholder: "Select",
		Label:       "Selection",
	}
}

// LoadConfig reads a YAML config file on top of the defaults. An empty path
// returns the defaults.
func LoadConfig(path string) (FileConfig, error) {
	cfg := DefaultFileConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.Fields = cfg.Fields.WithDefaults()

	// Relative sources are resolved against the config file
	base := filepath.Dir(path)
	for i, s := range cfg.Sources {
		src := ParseSource(s)
		if !filepath.IsAbs(src.Path) {
			src.Path = filepath.Join(base, src.Path)
		}
		cfg.Sources[i] = src.String()
	}

	if err := cfg.Widget.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg as YAML, creating the directory if needed
func SaveConfig(path string, cfg FileConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// SourceList parses the configured source strings
func (c FileConfig) SourceList() []Source {
	out := make([]Source, 0, len(c.Sources))
	for _, s := range c.Sources {
		out = append(out, ParseSource(s))
	}
	return out
}
