// Package config loads placement scenarios from YAML files.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario describes one placement search: the problem instance plus the
// search budget. Zero values are filled from DefaultScenario before
// validation, so a file only needs the fields it wants to override. The
// same struct doubles as the JSON body of search requests.
type Scenario struct {
	GridSize     int   `yaml:"grid_size" json:"gridSize"`
	Clients      int   `yaml:"clients" json:"clients"`
	AccessPoints int   `yaml:"access_points" json:"accessPoints"`
	Restarts     int   `yaml:"restarts" json:"restarts"`
	MaxSteps     int   `yaml:"max_steps" json:"maxSteps"`
	Seed         int64 `yaml:"seed" json:"seed"`
	Workers      int   `yaml:"workers" json:"workers"`
}

// DefaultScenario returns the stock demonstration setup: a 10x10 grid with
// five clients, two access points, and ten restarts.
func DefaultScenario() Scenario {
	return Scenario{
		GridSize:     10,
		Clients:      5,
		AccessPoints: 2,
		Restarts:     10,
		MaxSteps:     500,
		Seed:         42,
		Workers:      1,
	}
}

// LoadScenario reads and parses a scenario file.
func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes YAML into a Scenario, fills unset fields from the
// defaults, and validates the result.
func ParseScenario(data []byte) (Scenario, error) {
	s := DefaultScenario()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Scenario{}, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Scenario{}, err
	}
	return s, nil
}

// Validate checks every field against its lower bound and the grid
// capacity.
func (s Scenario) Validate() error {
	if s.GridSize < 1 {
		return fmt.Errorf("grid_size must be at least 1, got %d", s.GridSize)
	}
	if s.Clients < 0 {
		return fmt.Errorf("clients must not be negative, got %d", s.Clients)
	}
	if s.AccessPoints < 1 {
		return fmt.Errorf("access_points must be at least 1, got %d", s.AccessPoints)
	}
	if s.AccessPoints > s.GridSize*s.GridSize {
		return fmt.Errorf("cannot place %d distinct access points on a %dx%d grid",
			s.AccessPoints, s.GridSize, s.GridSize)
	}
	if s.Restarts < 1 {
		return fmt.Errorf("restarts must be at least 1, got %d", s.Restarts)
	}
	if s.MaxSteps < 0 {
		return fmt.Errorf("max_steps must not be negative, got %d", s.MaxSteps)
	}
	if s.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", s.Workers)
	}
	return nil
}
