package config

import (
	"fmt"
	"strings"
)

// Error aggregates configuration problems so the operator sees every
// issue at once instead of one per invocation.
type Error struct {
	Path   string
	Errors []string
}

func (e *Error) Error() string {
	if len(e.Errors) == 0 {
		return ""
	}
	parts := []string{fmt.Sprintf("invalid configuration (%s):", e.Path)}
	for _, msg := range e.Errors {
		parts = append(parts, fmt.Sprintf("  - %s", msg))
	}
	return strings.Join(parts, "\n")
}

// LoadAndValidate loads a configuration file and returns an *Error
// aggregating all validation failures.
func LoadAndValidate(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &Error{Path: path, Errors: errs}
	}
	return cfg, nil
}
