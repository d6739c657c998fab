package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedIngredient is one ingredient entry in the seed file.
type SeedIngredient struct {
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description"`
	DietFriendly []string `yaml:"diet_friendly"`
}

// Seed holds the catalogue loaded at startup.
type Seed struct {
	Ingredients []SeedIngredient `yaml:"ingredients"`
}

// LoadSeed reads and parses the seed YAML file at the given path.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	return &seed, nil
}
