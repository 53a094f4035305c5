package main

import (
	"path/filepath"
	"strings"

	"github.com/kbukum/fmtool/config"
	"github.com/kbukum/fmtool/observability"
	"github.com/kbukum/fmtool/validation"
)

const serviceName = "fmtool"

// AppConfig is the fmtool configuration file layout.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Lineage   LineageConfig                 `yaml:"lineage" mapstructure:"lineage"`
	Registry  RegistryConfig                `yaml:"registry" mapstructure:"registry"`
	Execution ExecutionConfig               `yaml:"execution" mapstructure:"execution"`
	Output    OutputConfig                  `yaml:"output" mapstructure:"output"`
	Telemetry observability.TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`
}

// LineageConfig points at the default lineage extract.
type LineageConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// RegistryConfig selects the handler registry file.
type RegistryConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
	// Defaults registers the built-in pointer notes before the file.
	Defaults bool `yaml:"defaults" mapstructure:"defaults"`
}

// ExecutionConfig holds values handlers read through ConfigReader.
type ExecutionConfig struct {
	Config map[string]string `yaml:"config" mapstructure:"config"`
}

// OutputConfig sets where generated files go when --out is omitted.
type OutputConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

var configDefaults = map[string]any{
	"name":              serviceName,
	"environment":       "development",
	"registry.defaults": true,
	"output.dir":        ".",
	"telemetry.enabled": false,
}

// ApplyDefaults fills unset sections.
func (c *AppConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	if c.Output.Dir == "" {
		c.Output.Dir = "."
	}
	c.Telemetry.ApplyDefaults()
}

// Validate checks the base config and every section.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Telemetry.Validate(); err != nil {
		return err
	}
	v := validation.New()
	for key := range c.Execution.Config {
		v.Pattern("execution.config", key, `^[A-Za-z_][A-Za-z0-9_.]*$`)
	}
	return v.Err()
}

// outPath returns flag when set, otherwise output.dir/def.
func (c *AppConfig) outPath(flag, def string) string {
	if p := strings.TrimSpace(flag); p != "" {
		return p
	}
	return filepath.Join(c.Output.Dir, def)
}

func loadConfig(path string) (*AppConfig, error) {
	cfg := &AppConfig{}
	opts := []config.LoaderOption{
		config.WithEnvPrefix(serviceName),
		config.WithDefaults(configDefaults),
	}
	if path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	return cfg, nil
}
