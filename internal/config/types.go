// Package config provides project configuration types and loading.
// This package is decoupled from CLI concerns so other tools can load
// project configuration directly.
package config

// ProjectConfig holds top-level project configuration from sqlmesh.yaml.
type ProjectConfig struct {
	// ModelsDir is the directory containing model definitions,
	// relative to the project root.
	ModelsDir string `koanf:"models_dir"`

	// ModelDefaults are applied to every model that omits the field.
	ModelDefaults ModelDefaults `koanf:"model_defaults"`
}

// ModelDefaults holds per-model defaults.
type ModelDefaults struct {
	Dialect string `koanf:"dialect"`
	Cron    string `koanf:"cron"`
	Start   string `koanf:"start"`
	Owner   string `koanf:"owner"`
}

// ApplyDefaults fills unset fields with their defaults.
func (c *ProjectConfig) ApplyDefaults() {
	if c.ModelsDir == "" {
		c.ModelsDir = "models"
	}
}
