package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/notargets/DualMap/tensor"
)

// Config holds the settings of one mapping run
type Config struct {
	// Source case directory
	Source string `yaml:"source"`
	// Target case directory, the case fields are written to
	Target string `yaml:"target"`
	// SourceTime defaults to the latest time of the source case
	SourceTime string `yaml:"sourceTime,omitempty"`
	// TargetTime defaults to SourceTime
	TargetTime string `yaml:"targetTime,omitempty"`

	CellMap      string `yaml:"cellMap"`
	FaceMap      string `yaml:"faceMap"`
	CellRenumber string `yaml:"cellRenumber"`
	FaceRenumber string `yaml:"faceRenumber"`

	// Ranks restricts mapping to the named ranks, e.g. [scalar, vector]
	Ranks []string `yaml:"ranks,omitempty"`
	// PatchTypes registers additional boundary condition type tags
	PatchTypes []string `yaml:"patchTypes,omitempty"`

	Verbose bool `yaml:"verbose"`
	Check   bool `yaml:"check"`
	DryRun  bool `yaml:"dryRun"`
}

// Default returns a Config with every default applied
func Default() *Config {
	c := &Config{}
	applyDefaults(c)
	return c
}

// LoadFile loads and parses a YAML config file
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses YAML data into a Config
func Parse(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	applyDefaults(&c)
	return &c, nil
}

func applyDefaults(c *Config) {
	if c.Target == "" {
		c.Target = "."
	}
	if c.CellMap == "" {
		c.CellMap = "cellDualMap"
	}
	if c.FaceMap == "" {
		c.FaceMap = "faceDualMap"
	}
	if c.CellRenumber == "" {
		c.CellRenumber = "cellMap"
	}
	if c.FaceRenumber == "" {
		c.FaceRenumber = "faceMap"
	}
}

// Validate checks the fields that have no usable default
func (c *Config) Validate() error {
	if c.Source == "" {
		return fmt.Errorf("no source case given")
	}
	if _, err := c.ParsedRanks(); err != nil {
		return err
	}
	return nil
}

// ParsedRanks converts Ranks, returning nil when every rank is to be mapped.
// The result always follows the fixed mapping order of tensor.Ranks.
func (c *Config) ParsedRanks() ([]tensor.Rank, error) {
	if len(c.Ranks) == 0 {
		return nil, nil
	}
	want := make(map[tensor.Rank]bool, len(c.Ranks))
	for _, name := range c.Ranks {
		r, err := tensor.ParseRank(name)
		if err != nil {
			return nil, err
		}
		want[r] = true
	}
	var ranks []tensor.Rank
	for _, r := range tensor.Ranks {
		if want[r] {
			ranks = append(ranks, r)
		}
	}
	return ranks, nil
}

// SplitRanks splits a comma separated rank list, dropping blank elements
func SplitRanks(s string) []string {
	var names []string
	for _, n := range strings.Split(s, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}
