package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// ConfigEnvVar names a YAML config file used when --config is not given
	ConfigEnvVar = "TESTER_CONFIG"

	DefaultInterpreter   = "python3"
	DefaultProgramSuffix = ".py"
	DefaultInputSuffix   = ".in"
	DefaultOutputSuffix  = ".out"
	DefaultEncoding      = EncodingLatin1

	EncodingLatin1 = "latin1"
	EncodingUTF8   = "utf-8"
)

// Config holds the settings of a single run. It is built once at startup and
// passed to the executor and the renderer.
type Config struct {
	// Program and AnswersDir come from the command line, never from the file.
	Program    string `yaml:"-"`
	AnswersDir string `yaml:"-"`

	// Interpreter runs the program; empty means the program is executed directly.
	Interpreter   string `yaml:"interpreter"`
	ProgramSuffix string `yaml:"programSuffix"`
	InputSuffix   string `yaml:"inputSuffix"`
	OutputSuffix  string `yaml:"outputSuffix"`
	// Timeout of zero waits for the program forever.
	Timeout  time.Duration `yaml:"timeout"`
	Encoding string        `yaml:"encoding"`
	NoColor  bool          `yaml:"noColor"`
	Verbose  bool          `yaml:"verbose"`
}

// New creates a Config with default settings.
var New = func() *Config {
	cfg := &Config{Interpreter: DefaultInterpreter}
	applyDefaults(cfg)
	return cfg
}

// Load reads a YAML config file on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := New()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file failed: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file failed: %w", err)
	}
	applyDefaults(cfg)
	return cfg, nil
}

// LoadDefault loads the file named by path, falling back to TESTER_CONFIG and
// then to the built-in defaults.
func LoadDefault(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(ConfigEnvVar)
	}
	if path == "" {
		return New(), nil
	}
	return Load(path)
}

func applyDefaults(cfg *Config) {
	if cfg.ProgramSuffix == "" {
		cfg.ProgramSuffix = DefaultProgramSuffix
	}
	if cfg.InputSuffix == "" {
		cfg.InputSuffix = DefaultInputSuffix
	}
	if cfg.OutputSuffix == "" {
		cfg.OutputSuffix = DefaultOutputSuffix
	}
	if cfg.Encoding == "" {
		cfg.Encoding = DefaultEncoding
	}
	// Interpreter is not defaulted here: `interpreter: ""` in a file means
	// the program is executed directly.
}

// Validate checks settings that would otherwise fail in the middle of a run.
func (c *Config) Validate() error {
	if c.InputSuffix == "" || c.OutputSuffix == "" {
		return fmt.Errorf("input and output suffixes must not be empty")
	}
	if c.InputSuffix == c.OutputSuffix {
		return fmt.Errorf("input and output suffixes must differ, both are %q", c.InputSuffix)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	switch strings.ToLower(c.Encoding) {
	case EncodingLatin1, "iso-8859-1", EncodingUTF8, "utf8":
	default:
		return fmt.Errorf("unsupported encoding %q (want %s or %s)", c.Encoding, EncodingLatin1, EncodingUTF8)
	}
	return nil
}

// ProgramPath appends the program suffix to name when it is missing.
func (c *Config) ProgramPath(name string) string {
	if c.ProgramSuffix == "" || strings.HasSuffix(name, c.ProgramSuffix) {
		return name
	}
	return name + c.ProgramSuffix
}
