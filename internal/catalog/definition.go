package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultDefinition []byte

// Default returns the catalog definition compiled into the binary.
func Default() (Catalog, error) {
	return Parse(defaultDefinition)
}

// ReadFile parses a YAML catalog definition from path.
func ReadFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog definition: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog definition.
func Parse(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog definition: %w", err)
	}
	if c.Version == "" {
		return Catalog{}, fmt.Errorf("catalog definition: version is required")
	}
	if err := c.Validate(); err != nil {
		return Catalog{}, fmt.Errorf("catalog definition: %w", err)
	}
	for i := range c.Categories {
		if c.Categories[i].Items == nil {
			c.Categories[i].Items = []Item{}
		}
	}
	return c, nil
}
