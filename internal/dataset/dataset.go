package dataset

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"volley-rank/internal/domain"
)

//go:embed seed/tournaments.yaml
var seedFS embed.FS

const seedPath = "seed/tournaments.yaml"

type document struct {
	Tournaments []domain.Batch `yaml:"tournaments"`
}

// Load parses the tournament table compiled into the binary.
func Load() ([]domain.Batch, error) {
	data, err := seedFS.ReadFile(seedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded seed: %w", err)
	}
	return Parse(data)
}

// LoadFile parses a seed file on disk with the same layout as the embedded one.
func LoadFile(path string) ([]domain.Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) ([]domain.Batch, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal seed: %w", err)
	}

	for i, b := range doc.Tournaments {
		if b.Name == "" {
			return nil, fmt.Errorf("tournament %d has no name", i+1)
		}
		for j, r := range b.Results {
			if r.TeamName == "" {
				return nil, fmt.Errorf("tournament %q result %d has no team", b.Name, j+1)
			}
		}
	}
	return doc.Tournaments, nil
}
