package loader

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Source describes one ingestion input and where its rows belong.
type Source struct {
	// File is a path or doublestar pattern. Relative paths resolve against
	// the manifest directory.
	File        string `yaml:"file"`
	Indicator   string `yaml:"indicator"`
	Description string `yaml:"description"`
	Processed   bool   `yaml:"processed"`
	ValueColumn string `yaml:"value_column"`
	// Unit defaults to ValueColumn.
	Unit string `yaml:"unit"`
}

type Manifest struct {
	Sources []Source `yaml:"sources"`
}

// LoadManifest reads a source manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	dir := filepath.Dir(path)
	for i := range m.Sources {
		s := &m.Sources[i]
		if s.File == "" {
			return nil, fmt.Errorf("manifest source %d has no file", i)
		}
		if s.ValueColumn == "" {
			return nil, fmt.Errorf("manifest source %q has no value_column", s.File)
		}
		if !filepath.IsAbs(s.File) {
			s.File = filepath.Join(dir, s.File)
		}
	}
	return &m, nil
}

// Skip reports sources that cannot be matched to anything: unprocessed data
// with no description.
func (s Source) Skip() bool {
	return !s.Processed && s.Description == ""
}

// Label names the source in logs and reports.
func (s Source) Label() string {
	if s.Description != "" {
		return s.Description
	}
	return s.Indicator
}

func (s Source) unit() string {
	if s.Unit != "" {
		return s.Unit
	}
	return s.ValueColumn
}

// Files expands the source pattern. A pattern matching nothing is a batch
// error so the source is reported rather than silently ignored.
func (s Source) Files() ([]string, error) {
	matches, err := doublestar.FilepathGlob(s.File)
	if err != nil {
		return nil, &BatchError{Path: s.File, Err: err}
	}
	if len(matches) == 0 {
		return nil, &BatchError{Path: s.File, Err: os.ErrNotExist}
	}
	return matches, nil
}
