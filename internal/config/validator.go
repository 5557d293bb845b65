package config

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "python.supported")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// interpreterRegex validates interpreter version strings.
// Versions are a bare "major.minor" for CPython, optionally prefixed with
// an implementation name such as "pypy".
var interpreterRegex = regexp.MustCompile(`^(?:[a-z]+)?\d+\.\d+$`)

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// Validate Project config
	errors = append(errors, c.validateProject()...)

	// Validate Python config
	errors = append(errors, c.validatePython()...)

	// Validate Envs config
	errors = append(errors, c.validateEnvs()...)

	// Validate Harness config
	errors = append(errors, c.validateHarness()...)

	// Validate UI config
	errors = append(errors, c.validateUI()...)

	// Validate Logging config
	errors = append(errors, c.validateLogging()...)

	// Validate Output config
	errors = append(errors, c.validateOutput()...)

	return errors
}

// validateProject validates the ProjectConfig
func (c *Config) validateProject() []ValidationError {
	var errors []ValidationError

	// Root validation - if set, check for invalid characters
	if c.Project.Root != "" {
		errors = append(errors, validatePath(c.Project.Root, "project.root")...)
	}

	return errors
}

// validatePython validates the PythonConfig
func (c *Config) validatePython() []ValidationError {
	var errors []ValidationError

	if len(c.Python.Supported) == 0 {
		errors = append(errors, ValidationError{
			Field:   "python.supported",
			Value:   c.Python.Supported,
			Message: "at least one interpreter version is required",
		})
		return errors
	}

	seen := make(map[string]bool)
	for _, version := range c.Python.Supported {
		if !interpreterRegex.MatchString(version) {
			errors = append(errors, ValidationError{
				Field:   "python.supported",
				Value:   version,
				Message: "must be a version like '3.11' or 'pypy3.10'",
			})
		}
		if seen[version] {
			errors = append(errors, ValidationError{
				Field:   "python.supported",
				Value:   version,
				Message: "duplicate interpreter version",
			})
		}
		seen[version] = true
	}

	return errors
}

// validateEnvs validates the EnvsConfig
func (c *Config) validateEnvs() []ValidationError {
	var errors []ValidationError

	if c.Envs.Dir != "" {
		errors = append(errors, validatePath(c.Envs.Dir, "envs.dir")...)
	}

	return errors
}

// validateHarness validates the HarnessConfig
func (c *Config) validateHarness() []ValidationError {
	var errors []ValidationError

	if c.Harness.Registry == "" {
		errors = append(errors, ValidationError{
			Field:   "harness.registry",
			Value:   c.Harness.Registry,
			Message: "cannot be empty",
		})
	}

	if c.Harness.Builder == "" {
		errors = append(errors, ValidationError{
			Field:   "harness.builder",
			Value:   c.Harness.Builder,
			Message: "cannot be empty",
		})
	} else if strings.ContainsAny(c.Harness.Builder, " \t") {
		errors = append(errors, ValidationError{
			Field:   "harness.builder",
			Value:   c.Harness.Builder,
			Message: "must be a program name without arguments",
		})
	}

	return errors
}

// validateUI validates the UIConfig
func (c *Config) validateUI() []ValidationError {
	var errors []ValidationError

	if c.UI.PackageManager == "" {
		errors = append(errors, ValidationError{
			Field:   "ui.package_manager",
			Value:   c.UI.PackageManager,
			Message: "cannot be empty",
		})
	} else if strings.ContainsAny(c.UI.PackageManager, " \t") {
		errors = append(errors, ValidationError{
			Field:   "ui.package_manager",
			Value:   c.UI.PackageManager,
			Message: "must be a program name without arguments",
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	// Validate log level
	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}

// validateOutput validates the OutputConfig
func (c *Config) validateOutput() []ValidationError {
	var errors []ValidationError

	if c.Output.Color != "" && !IsValidColorMode(c.Output.Color) {
		errors = append(errors, ValidationError{
			Field:   "output.color",
			Value:   c.Output.Color,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidColorModes(), ", ")),
		})
	}

	return errors
}

// validatePath checks a configured path for invalid characters and length
func validatePath(path, field string) []ValidationError {
	var errors []ValidationError

	// Check for null bytes which are invalid in paths
	if strings.ContainsRune(path, '\x00') {
		errors = append(errors, ValidationError{
			Field:   field,
			Value:   path,
			Message: "path contains invalid null character",
		})
	}

	// Reasonable path length limit (most filesystems have limits around 4096)
	const maxPathLength = 4096
	if len(path) > maxPathLength {
		errors = append(errors, ValidationError{
			Field:   field,
			Value:   path,
			Message: fmt.Sprintf("path exceeds maximum length of %d characters", maxPathLength),
		})
	}

	return errors
}
