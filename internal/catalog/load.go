package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Levels []LevelDefinition `yaml:"levels"`
}

// LoadFile reads and validates a YAML catalog.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

// LoadOrDefault loads the catalog at path, or returns the built-in catalog when
// the file does not exist. loaded reports whether the file was used.
func LoadOrDefault(path string) (cat *Catalog, loaded bool, err error) {
	if path == "" {
		return Default(), false, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Default(), false, nil
		}
		return nil, false, fmt.Errorf("failed to stat catalog: %w", err)
	}
	cat, err = LoadFile(path)
	if err != nil {
		return nil, false, err
	}
	return cat, true, nil
}

// Parse decodes a YAML catalog document. Unknown keys are rejected.
func Parse(data []byte) (*Catalog, error) {
	var doc catalogFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyCatalog
		}
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return New(doc.Levels)
}

// Marshal encodes a catalog in the format accepted by Parse.
func Marshal(c *Catalog) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(catalogFile{Levels: c.levels}); err != nil {
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}
	return buf.Bytes(), nil
}
