package recognizer

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/linxinzhe/AIND-Recognizer/model"
	"github.com/linxinzhe/AIND-Recognizer/selector"
)

// Config holds the selection and recognition parameters. Zero values are
// replaced with the defaults by ReadConfig; DefaultConfig returns the
// defaults directly.
type Config struct {
	Strategy  string `yaml:"strategy"`
	MinStates int    `yaml:"min_states"`
	MaxStates int    `yaml:"max_states"`
	NConstant int    `yaml:"n_constant"`
	Seed      int64  `yaml:"seed"`
	Verbose   bool   `yaml:"verbose"`

	CorpusFile  string `yaml:"corpus_file,omitempty"`
	TestFile    string `yaml:"test_file,omitempty"`
	ModelFile   string `yaml:"model_file,omitempty"`
	ResultsFile string `yaml:"results_file,omitempty"`
}

// DefaultConfig returns the default selection parameters.
func DefaultConfig() Config {
	return Config{
		Strategy:  "constant",
		MinStates: selector.DefaultMinStates,
		MaxStates: selector.DefaultMaxStates,
		NConstant: selector.DefaultConstant,
		Seed:      model.DefaultSeed,
	}
}

// ReadConfig reads a YAML config, filling omitted fields with defaults.
func ReadConfig(r io.Reader) (Config, error) {

	c := DefaultConfig()
	b, e := io.ReadAll(r)
	if e != nil {
		return c, e
	}
	if e := yaml.Unmarshal(b, &c); e != nil {
		return c, fmt.Errorf("failed to parse config: %w", e)
	}
	if c.MinStates < 1 || c.MaxStates < c.MinStates {
		return c, fmt.Errorf("bad search range [%d, %d]", c.MinStates, c.MaxStates)
	}
	if c.NConstant < 1 {
		return c, fmt.Errorf("bad constant state count [%d]", c.NConstant)
	}
	return c, nil
}

// ReadConfigFile reads a YAML config from a file.
func ReadConfigFile(fn string) (Config, error) {

	f, e := os.Open(fn)
	if e != nil {
		return DefaultConfig(), e
	}
	defer f.Close()
	return ReadConfig(f)
}

// SelectorOptions translates the config into selector options.
func (c Config) SelectorOptions() []selector.Option {
	return []selector.Option{
		selector.MinStates(c.MinStates),
		selector.MaxStates(c.MaxStates),
		selector.Constant(c.NConstant),
		selector.Seed(c.Seed),
		selector.Verbose(c.Verbose),
	}
}
