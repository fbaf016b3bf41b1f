package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/freeeve/ghost-cell/pkg/cell"
)

// Tuning overrides the engine constants. Fields left out of the file keep
// their defaults.
type Tuning struct {
	MaxTurns   int     `yaml:"max_turns"`
	LookAhead  int     `yaml:"look_ahead"`
	RearRatio  float64 `yaml:"rear_ratio"`
	FrontRatio float64 `yaml:"front_ratio"`
}

// DefaultTuning returns the standard match constants.
func DefaultTuning() Tuning {
	r := cell.DefaultRules()
	return Tuning{
		MaxTurns:   r.MaxTurns,
		LookAhead:  r.LookAhead,
		RearRatio:  r.RearRatio,
		FrontRatio: r.FrontRatio,
	}
}

// LoadTuning reads a tuning file. An empty path yields the defaults.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	if path == "" {
		return t, nil
	}
	if err := loadYAML(path, &t); err != nil {
		return Tuning{}, fmt.Errorf("tuning %s: %w", path, err)
	}
	if err := t.validate(); err != nil {
		return Tuning{}, fmt.Errorf("tuning %s: %w", path, err)
	}
	return t, nil
}

// Rules converts the tuning into engine rules.
func (t Tuning) Rules() cell.Rules {
	return cell.Rules{
		MaxTurns:   t.MaxTurns,
		LookAhead:  t.LookAhead,
		RearRatio:  t.RearRatio,
		FrontRatio: t.FrontRatio,
	}
}

func (t Tuning) validate() error {
	switch {
	case t.MaxTurns <= 0:
		return fmt.Errorf("max_turns must be positive, got %d", t.MaxTurns)
	case t.LookAhead <= 0:
		return fmt.Errorf("look_ahead must be positive, got %d", t.LookAhead)
	case t.RearRatio < 0 || t.FrontRatio < 0:
		return fmt.Errorf("ratios must not be negative")
	}
	return nil
}

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, out)
}
