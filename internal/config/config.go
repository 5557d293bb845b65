package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete cravat configuration
type Config struct {
	Project ProjectConfig `mapstructure:"project"`
	Python  PythonConfig  `mapstructure:"python"`
	Envs    EnvsConfig    `mapstructure:"envs"`
	Harness HarnessConfig `mapstructure:"harness"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
	Output  OutputConfig  `mapstructure:"output"`
}

// ProjectConfig controls how the bowtie checkout is located
type ProjectConfig struct {
	// Root is the path to the bowtie checkout. If empty, cravat walks up
	// from the working directory looking for pyproject.toml.
	// Supports ~ for home directory expansion.
	Root string `mapstructure:"root"`
}

// PythonConfig controls which interpreters sessions run against
type PythonConfig struct {
	// Supported is the ordered list of interpreter versions sessions run
	// against. The last entry is treated as the latest and is used by
	// sessions that run on a single interpreter.
	// Examples: "3.11", "pypy3.10"
	Supported []string `mapstructure:"supported"`
}

// Latest returns the newest supported interpreter version.
// Returns an empty string if no interpreters are configured.
func (p *PythonConfig) Latest() string {
	if len(p.Supported) == 0 {
		return ""
	}
	return p.Supported[len(p.Supported)-1]
}

// EnvsConfig controls where session environments are created
type EnvsConfig struct {
	// Dir is the directory where virtual environments are created.
	// If empty, defaults to ".cravat/envs" relative to the project root.
	// Can be an absolute path to store environments outside the project
	// (e.g., on a faster drive or to avoid cluttering the checkout).
	// Supports ~ for home directory expansion.
	Dir string `mapstructure:"dir"`

	// Reuse skips recreating a virtual environment that already exists.
	// When false (default), each run gets a fresh environment.
	Reuse bool `mapstructure:"reuse"`
}

// ResolveDir returns the resolved environments directory path.
// If Dir is empty, it returns the default path relative to baseDir.
// If Dir starts with ~, it expands to the user's home directory.
// If Dir is a relative path, it's resolved relative to baseDir.
func (e *EnvsConfig) ResolveDir(baseDir string) string {
	if e.Dir == "" {
		return filepath.Join(baseDir, ".cravat", "envs")
	}

	path := e.Dir

	// Expand ~ to home directory
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	// If relative path, resolve relative to baseDir
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}

	return path
}

// HarnessConfig controls how test harness container images are built
type HarnessConfig struct {
	// Registry is the image registry harness images are tagged under
	// (default: "ghcr.io/bowtie-json-schema")
	Registry string `mapstructure:"registry"`
	// Builder is the container build program (default: "podman")
	Builder string `mapstructure:"builder"`
}

// UIConfig controls how the frontend is built
type UIConfig struct {
	// PackageManager is the program used to install and run the frontend
	// build (default: "pnpm")
	PackageManager string `mapstructure:"package_manager"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether debug logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
}

// OutputConfig controls terminal output behavior
type OutputConfig struct {
	// Color controls styled output: "auto", "always", or "never" (default: "auto").
	// With "auto", color is used when stdout is a terminal.
	Color string `mapstructure:"color"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Project: ProjectConfig{
			Root: "", // Empty means discover via pyproject.toml
		},
		Python: PythonConfig{
			Supported: []string{"pypy3.10", "3.11"},
		},
		Envs: EnvsConfig{
			Dir:   "", // Empty means use default: .cravat/envs
			Reuse: false,
		},
		Harness: HarnessConfig{
			Registry: "ghcr.io/bowtie-json-schema",
			Builder:  "podman",
		},
		UI: UIConfig{
			PackageManager: "pnpm",
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
		},
		Output: OutputConfig{
			Color: "auto",
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Project defaults
	viper.SetDefault("project.root", defaults.Project.Root)

	// Python defaults
	viper.SetDefault("python.supported", defaults.Python.Supported)

	// Envs defaults
	viper.SetDefault("envs.dir", defaults.Envs.Dir)
	viper.SetDefault("envs.reuse", defaults.Envs.Reuse)

	// Harness defaults
	viper.SetDefault("harness.registry", defaults.Harness.Registry)
	viper.SetDefault("harness.builder", defaults.Harness.Builder)

	// UI defaults
	viper.SetDefault("ui.package_manager", defaults.UI.PackageManager)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)

	// Output defaults
	viper.SetDefault("output.color", defaults.Output.Color)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate the configuration
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cravat")
	}
	// Fall back to ~/.config/cravat
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cravat"
	}
	return filepath.Join(home, ".config", "cravat")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "cravat.yaml")
}

// ValidColorModes returns the list of valid output.color values
func ValidColorModes() []string {
	return []string{"auto", "always", "never"}
}

// IsValidColorMode checks if the given color mode is valid
func IsValidColorMode(mode string) bool {
	for _, valid := range ValidColorModes() {
		if mode == valid {
			return true
		}
	}
	return false
}
