// Package config loads golox settings from a YAML file and the environment.
//
// Precedence, lowest first: built-in defaults, the config file, GOLOX_*
// environment variables, then command-line flags (applied by the caller).
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file name looked up in the home directory.
const DefaultFile = ".golox.yaml"

// Config is the full golox configuration.
type Config struct {
	REPL    REPLConfig    `yaml:"repl"`
	Runtime RuntimeConfig `yaml:"runtime"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

// REPLConfig controls the interactive prompt.
type REPLConfig struct {
	Prompt       string `yaml:"prompt"`
	Continuation string `yaml:"continuation"`
	HistoryFile  string `yaml:"history_file"`
}

// RuntimeConfig controls interpreter limits.
type RuntimeConfig struct {
	MaxCallDepth int `yaml:"max_call_depth"`
}

// ServerConfig controls the playground servers.
type ServerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	GRPCPort int    `yaml:"grpc_port"`
	// MaxSteps bounds loop iterations and calls per evaluation so a runaway
	// program cannot pin a server goroutine.
	MaxSteps int `yaml:"max_steps"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Verbose bool `yaml:"verbose"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		REPL: REPLConfig{
			Prompt:       "> ",
			Continuation: "... ",
			HistoryFile:  "~/.golox_history",
		},
		Runtime: RuntimeConfig{MaxCallDepth: 1024},
		Server: ServerConfig{
			Host:     "0.0.0.0",
			Port:     8787,
			GRPCPort: 8788,
			MaxSteps: 1_000_000,
		},
	}
}

// DefaultPath returns ~/.golox.yaml, or "" if the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, DefaultFile)
}

// Load reads the config file at path and applies environment overrides.
// An empty path means DefaultPath, which may be absent; an explicit path
// must exist.
func Load(path string) (Config, error) {
	return load(path, os.Getenv)
}

func load(path string, getenv func(string) string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	if err := cfg.applyEnv(getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("GOLOX_HOST"); v != "" {
		c.Server.Host = v
	}
	ints := []struct {
		key    string
		target *int
	}{
		{"GOLOX_PORT", &c.Server.Port},
		{"GOLOX_GRPC_PORT", &c.Server.GRPCPort},
		{"GOLOX_MAX_STEPS", &c.Server.MaxSteps},
		{"GOLOX_MAX_CALL_DEPTH", &c.Runtime.MaxCallDepth},
	}
	for _, e := range ints {
		v := getenv(e.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s=%q is not an integer", e.key, v)
		}
		*e.target = n
	}
	return nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var issues []string
	if c.Runtime.MaxCallDepth <= 0 {
		issues = append(issues, "runtime.max_call_depth must be positive")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		issues = append(issues, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.GRPCPort <= 0 || c.Server.GRPCPort > 65535 {
		issues = append(issues, fmt.Sprintf("server.grpc_port %d out of range", c.Server.GRPCPort))
	}
	if c.Server.MaxSteps < 0 {
		issues = append(issues, "server.max_steps must not be negative")
	}
	if len(issues) > 0 {
		return fmt.Errorf("config: %s", strings.Join(issues, "; "))
	}
	return nil
}

// HistoryPath returns the REPL history file with a leading ~ expanded.
func (c Config) HistoryPath() string {
	return ExpandHome(c.REPL.HistoryFile)
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
