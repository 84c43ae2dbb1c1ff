// Package config loads the engine configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/aduana/pkg/aduana/fuzzymatch"
	"github.com/cognicore/aduana/pkg/aduana/internalerr"
)

// Config aggregates the paths and defaults an engine runs with.
type Config struct {
	// ProjectsDir holds one subdirectory per project.
	ProjectsDir string `yaml:"projects_dir"`
	// TariffPath and CountriesPath point at the shared reference tables.
	TariffPath    string `yaml:"tariff_path"`
	CountriesPath string `yaml:"countries_path"`
	// DBPath is the SQLite snapshot database.
	DBPath string `yaml:"db_path"`
	// DefaultSensitivity is the fuzzy-match threshold used when a run does
	// not supply one.
	DefaultSensitivity int `yaml:"default_sensitivity"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ProjectsDir:        "proyectos",
		TariffPath:         "datos/arancel_clasificacion.yaml",
		CountriesPath:      "datos/paises_continentes.yaml",
		DBPath:             "datos/aduana.db",
		DefaultSensitivity: fuzzymatch.DefaultThreshold,
	}
}

// Load reads a YAML configuration file. Omitted fields keep their defaults;
// an out-of-range sensitivity is rejected rather than silently clamped, since
// it is an operator-supplied setting.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	if cfg.DefaultSensitivity < fuzzymatch.MinThreshold || cfg.DefaultSensitivity > fuzzymatch.MaxThreshold {
		return Default(), fmt.Errorf("%w: default_sensitivity %d outside [%d, %d]",
			internalerr.ErrInvalidConfig, cfg.DefaultSensitivity,
			fuzzymatch.MinThreshold, fuzzymatch.MaxThreshold)
	}
	if cfg.ProjectsDir == "" {
		return Default(), fmt.Errorf("%w: projects_dir is empty", internalerr.ErrInvalidConfig)
	}
	return cfg, nil
}
