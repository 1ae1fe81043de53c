package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrConfig marks failures caused by how the tool was invoked or configured
// (missing input directory, missing summary file, bad arguments, bad YAML).
var ErrConfig = errors.New("configuration error")

// Manual is the criterion label for hand-written test suites. It only has a
// full (100%) sample.
const Manual = "MANUAL"

// Formats accepted by the reporter.
var Formats = []string{"latex", "markdown", "table", "json"}

type Config struct {
	Criteria            []string `yaml:"criteria"`
	SamplingLevels      []int    `yaml:"sampling_levels"`
	WindowSize          int      `yaml:"window_size"`
	Runs                int      `yaml:"runs"`
	AllowPartialWindows bool     `yaml:"allow_partial_windows"`
	Programs            Programs `yaml:"programs"`
	Cleaning            Cleaning `yaml:"cleaning"`
	Output              Output   `yaml:"output"`
}

type Programs struct {
	PrefixLen int            `yaml:"prefix_len"`
	Lines     map[string]int `yaml:"lines"`
}

// Cleaning holds the constants applied by the loader before aggregation.
type Cleaning struct {
	EmptyPatch      string  `yaml:"empty_patch"`
	DefaultSize     float64 `yaml:"default_size"`
	SpecialTarget   string  `yaml:"special_target"`
	SpecialCriteria string  `yaml:"special_criterion"`
	SpecialSize     float64 `yaml:"special_size"`
}

type Output struct {
	Summary string `yaml:"summary"`
	Runs    string `yaml:"runs"`
	Format  string `yaml:"format"`
}

// Default returns the configuration used for the locoGP experiments.
func Default() *Config {
	return &Config{
		Criteria: []string{
			"BRANCH",
			"LINE",
			"WEAKMUTATION",
			"CBRANCH",
			"BRANCH;LINE;WEAKMUTATION;CBRANCH",
			Manual,
		},
		SamplingLevels: []int{100, 75, 50, 25},
		WindowSize:     20,
		Runs:           21,
		Programs: Programs{
			PrefixLen: len("locogp."),
			Lines: map[string]int{
				"SortMerge":        52,
				"Triangle":         40,
				"SortQuick":        32,
				"SortBubbleDouble": 24,
				"SortRadix":        24,
				"SortSelection":    19,
				"SortBubbleLoops":  17,
				"SortSelection2":   17,
				"SortBubble":       15,
				"SortInsertion":    14,
			},
		},
		Cleaning: Cleaning{
			EmptyPatch:      "|",
			DefaultSize:     7,
			SpecialTarget:   "locogp.Triangle",
			SpecialCriteria: Manual,
			SpecialSize:     4,
		},
		Output: Output{
			Summary: "summary.csv",
			Runs:    "runs.csv",
			Format:  "latex",
		},
	}
}

// Load reads a YAML config on top of Default. Keys absent from the file keep
// their default values; the lines table is merged rather than replaced.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading config %s: %w", ErrConfig, path, err)
	}
	cfg := Default()
	defaults := cfg.Programs.Lines
	cfg.Programs.Lines = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: parsing config %s: %w", ErrConfig, path, err)
	}
	for name, loc := range defaults {
		if _, ok := cfg.Programs.Lines[name]; !ok {
			if cfg.Programs.Lines == nil {
				cfg.Programs.Lines = map[string]int{}
			}
			cfg.Programs.Lines[name] = loc
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if len(c.Criteria) == 0 {
		return fmt.Errorf("%w: no criteria defined", ErrConfig)
	}
	seen := map[string]bool{}
	for i, cr := range c.Criteria {
		if cr == "" {
			return fmt.Errorf("%w: criterion %d is empty", ErrConfig, i)
		}
		if seen[cr] {
			return fmt.Errorf("%w: criterion %q listed twice", ErrConfig, cr)
		}
		seen[cr] = true
	}
	if len(c.SamplingLevels) == 0 {
		return fmt.Errorf("%w: no sampling levels defined", ErrConfig)
	}
	// Windows are labelled positionally and MANUAL only gets the first one.
	if c.SamplingLevels[0] != 100 {
		return fmt.Errorf("%w: first sampling level must be 100, got %d", ErrConfig, c.SamplingLevels[0])
	}
	for i, lvl := range c.SamplingLevels {
		if lvl <= 0 || lvl > 100 {
			return fmt.Errorf("%w: sampling level %d out of range (1-100)", ErrConfig, lvl)
		}
		if i > 0 && lvl >= c.SamplingLevels[i-1] {
			return fmt.Errorf("%w: sampling levels must be strictly descending, got %v", ErrConfig, c.SamplingLevels)
		}
	}
	if c.WindowSize < 1 {
		return fmt.Errorf("%w: window_size must be at least 1", ErrConfig)
	}
	if c.Runs < 1 {
		return fmt.Errorf("%w: runs must be at least 1", ErrConfig)
	}
	if c.Programs.PrefixLen < 0 {
		return fmt.Errorf("%w: programs.prefix_len must not be negative", ErrConfig)
	}
	if c.Output.Summary == "" {
		c.Output.Summary = "summary.csv"
	}
	if c.Output.Runs == "" {
		c.Output.Runs = "runs.csv"
	}
	if c.Output.Format == "" {
		c.Output.Format = "latex"
	}
	return ValidateFormat(c.Output.Format)
}

// ValidateFormat reports whether format is one of Formats.
func ValidateFormat(format string) error {
	for _, f := range Formats {
		if f == format {
			return nil
		}
	}
	return fmt.Errorf("%w: unknown format %q (want one of %v)", ErrConfig, format, Formats)
}

// LevelsFor returns the sampling levels that exist for a criterion.
func (c *Config) LevelsFor(criterion string) []int {
	if criterion == Manual {
		return c.SamplingLevels[:1]
	}
	return c.SamplingLevels
}
