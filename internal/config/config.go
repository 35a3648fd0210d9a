// Package config loads simulation runs from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"simrel/internal/simrel"
)

// Config is one simulation run read from YAML
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Seed       uint64           `yaml:"seed"`
	Output     OutputConfig     `yaml:"output"`
}

// SimulationConfig mirrors simrel.Parameters
type SimulationConfig struct {
	N      int       `yaml:"n"`
	P      int       `yaml:"p"`
	M      int       `yaml:"m"`
	Q      []int     `yaml:"q"`
	RelPos [][]int   `yaml:"relpos"`
	Gamma  float64   `yaml:"gamma"`
	R2     []float64 `yaml:"r2"`
	NTest  int       `yaml:"ntest"`
	MuX    []float64 `yaml:"mux,omitempty"`
	MuY    []float64 `yaml:"muy,omitempty"`
	YPos   [][]int   `yaml:"ypos"`
}

// OutputConfig selects what the CLI prints
type OutputConfig struct {
	Format string `yaml:"format"` // "table" or "csv"
	Table  string `yaml:"table"`  // coefficients, eigenvalues, cross, covariance
	Basis  string `yaml:"basis"`  // latent or observed
	Source string `yaml:"source"` // population or sample
}

// Default returns the reference design with table output.
func Default() Config {
	p := simrel.DefaultParameters()
	return Config{
		Simulation: SimulationConfig{
			N:      p.N,
			P:      p.P,
			M:      p.M,
			Q:      p.Q,
			RelPos: p.RelPos,
			Gamma:  p.Gamma,
			R2:     p.R2,
			NTest:  p.NTest,
			YPos:   p.YPos,
		},
		Output: OutputConfig{
			Format: "table",
			Table:  "coefficients",
			Basis:  "latent",
			Source: "population",
		},
	}
}

// Load reads path over the defaults. Fields missing from the file keep
// their default value.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Parameters converts the simulation section to engine parameters.
func (c SimulationConfig) Parameters() simrel.Parameters {
	return simrel.Parameters{
		N:      c.N,
		P:      c.P,
		M:      c.M,
		Q:      c.Q,
		RelPos: c.RelPos,
		Gamma:  c.Gamma,
		R2:     c.R2,
		NTest:  c.NTest,
		MuX:    c.MuX,
		MuY:    c.MuY,
		YPos:   c.YPos,
	}.Clone()
}
