// Package config loads detector descriptions from disk and sets up the
// loggers used by the command-line tool.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/barrelgeo/pkg/detector"
	"github.com/chazu/barrelgeo/pkg/engine"
	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Format identifies the syntax of a detector description.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json" // JSON with comments and trailing commas
	FormatLisp Format = "lisp"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json", ".jsonc":
		return FormatJSON, nil
	case ".lisp", ".geo":
		return FormatLisp, nil
	}
	return "", fmt.Errorf("config: unsupported file extension %q", filepath.Ext(path))
}

// Load reads the description at path and resolves it into a build
// configuration. An empty path yields the built-in MuMegas barrel.
func Load(path string) (*detector.Config, error) {
	f, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := f.Resolve()
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", displayPath(path), err)
	}
	return cfg, nil
}

// ReadFile reads and parses the description at path without resolving
// layer references.
func ReadFile(path string) (*detector.File, error) {
	if path == "" {
		return detector.DefaultFile(), nil
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	f, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes data in the given format.
func Parse(data []byte, format Format) (*detector.File, error) {
	var f detector.File
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parsing yaml: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parsing toml: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(jsonc.ToJSON(data), &f); err != nil {
			return nil, fmt.Errorf("parsing json: %w", err)
		}
	case FormatLisp:
		return parseLisp(string(data))
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	return &f, nil
}

// EvalErrors is returned when a Lisp description fails to evaluate.
type EvalErrors []engine.EvalError

func (e EvalErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ee := range e {
		msgs[i] = ee.Error()
	}
	return strings.Join(msgs, "; ")
}

func parseLisp(source string) (*detector.File, error) {
	f, evalErrs, err := engine.NewEngine().Evaluate(source)
	if err != nil {
		return nil, fmt.Errorf("evaluating lisp: %w", err)
	}
	if len(evalErrs) > 0 {
		return nil, fmt.Errorf("evaluating lisp: %w", EvalErrors(evalErrs))
	}
	return f, nil
}

func displayPath(path string) string {
	if path == "" {
		return "<default>"
	}
	return path
}
