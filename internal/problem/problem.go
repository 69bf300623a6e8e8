// Package problem provides problem file handling and persistence.
package problem

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"multilat/internal/multilat"
	"multilat/pkg/geometry"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned for files that are neither YAML nor JSON.
var ErrUnknownFormat = errors.New("problem: unknown file format")

var validate = validator.New()

// Format is the on-disk encoding of a problem file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf returns the format implied by the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// File represents a multilateration problem: the measured circles and the
// solver configuration.
type File struct {
	Version     int       `json:"version" yaml:"version"`
	Name        string    `json:"name" yaml:"name"`
	Created     time.Time `json:"created,omitempty" yaml:"created,omitempty"`
	Modified    time.Time `json:"modified,omitempty" yaml:"modified,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`

	Circles []geometry.Circle `json:"circles" yaml:"circles" validate:"required,min=1"`
	Config  multilat.Config   `json:"config,omitempty" yaml:"config,omitempty"`

	// Output directory for plots (relative to problem file)
	PlotDir string `json:"plot_dir,omitempty" yaml:"plot_dir,omitempty"`
}

// New creates a new problem file for circles.
func New(name string, circles []geometry.Circle) *File {
	now := time.Now()
	return &File{
		Version:  1,
		Name:     name,
		Created:  now,
		Modified: now,
		Circles:  circles,
	}
}

// Load loads a problem from a .yaml, .yml or .json file and validates it.
func Load(path string) (*File, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	p, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Decode parses and validates a problem.
func Decode(data []byte, format Format) (*File, error) {
	var p File
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, err
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks the circles and the configuration. Contract violations
// wrap multilat.ErrInvalidInput.
func (p *File) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", multilat.ErrInvalidInput, err)
	}
	for i, c := range p.Circles {
		if c.Radius < 0 {
			return fmt.Errorf("%w: circle %d has negative radius %g", multilat.ErrInvalidInput, i, c.Radius)
		}
	}
	return p.Config.Validate()
}

// Save saves the problem to a file in the format implied by its extension.
func (p *File) Save(path string) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	p.Modified = time.Now()

	var data []byte
	if format == FormatJSON {
		data, err = json.MarshalIndent(p, "", "  ")
	} else {
		data, err = yaml.Marshal(p)
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// GetPlotDir returns the absolute plot directory, defaulting to the
// directory holding the problem file.
func (p *File) GetPlotDir(problemPath string) string {
	if p.PlotDir == "" {
		return filepath.Dir(problemPath)
	}
	if filepath.IsAbs(p.PlotDir) {
		return p.PlotDir
	}
	return filepath.Join(filepath.Dir(problemPath), p.PlotDir)
}
