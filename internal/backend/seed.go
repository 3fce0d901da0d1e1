package backend

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/abelbrown/qkart/internal/catalog"
)

//go:embed seed.yaml
var defaultSeed []byte

type seedFile struct {
	Products []seedProduct `yaml:"products"`
}

type seedProduct struct {
	ID       string  `yaml:"id"`
	Name     string  `yaml:"name"`
	Category string  `yaml:"category"`
	Cost     float64 `yaml:"cost"`
	Rating   float64 `yaml:"rating"`
	Image    string  `yaml:"image"`
}

// DefaultSeed returns the built-in demo catalog.
func DefaultSeed() ([]catalog.Item, error) {
	return ParseSeed(defaultSeed)
}

// ParseSeed decodes a YAML product list. Every product must be a valid
// catalog item and IDs must be unique.
func ParseSeed(data []byte) ([]catalog.Item, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	items := make([]catalog.Item, 0, len(f.Products))
	for _, p := range f.Products {
		items = append(items, catalog.Item{
			ID:       p.ID,
			Name:     p.Name,
			Category: p.Category,
			Cost:     p.Cost,
			Rating:   p.Rating,
			ImageURL: p.Image,
		})
	}
	if err := catalog.Validate(items); err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	return items, nil
}
