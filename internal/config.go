package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultLogDir is relative to the current working directory
	DefaultLogDir = ".aiwr/logs"
	// DefaultAgent is used when neither flag, env nor config names one
	DefaultAgent = "claude"
	// DefaultKillGrace is how long an interrupted adapter gets before SIGKILL
	DefaultKillGrace = 5 * time.Second
	// DefaultTreeMaxLines bounds each node's transcript in a tree resume prompt
	DefaultTreeMaxLines = 50

	EnvLogDir       = "AIWR_LOG_DIR"
	EnvDefaultAgent = "AIWR_DEFAULT_AGENT"
)

// Config holds user configuration loaded from config.yaml
type Config struct {
	LogDir       string        `yaml:"log_dir,omitempty"`
	DefaultAgent string        `yaml:"default_agent,omitempty"`
	KillGrace    time.Duration `yaml:"-"` // decoded from a duration string
	TreeMaxLines int           `yaml:"tree_max_lines,omitempty"`
	Index        bool          `yaml:"index,omitempty"`
	IndexPath    string        `yaml:"index_path,omitempty"`

	// Path is the file the config was read from, empty for defaults
	Path string `yaml:"-"`
}

// ConfigPaths returns the candidate config files in lookup order
func ConfigPaths() []string {
	paths := []string{filepath.Join(".aiwr", "config.yaml")}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		if home, err := os.UserHomeDir(); err == nil {
			configHome = filepath.Join(home, ".config")
		}
	}
	if configHome != "" {
		paths = append(paths, filepath.Join(configHome, "aiwr", "config.yaml"))
	}
	return paths
}

// LoadConfig reads the first config file that exists, or returns defaults.
// A custom path, when given, must exist.
func LoadConfig(customPath string) (*Config, error) {
	candidates := ConfigPaths()
	if customPath != "" {
		candidates = []string{customPath}
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) && customPath == "" {
			continue
		}
		if err != nil {
			return nil, &StorageError{Path: path, Op: "read", Err: err}
		}

		cfg, err := ParseConfig(data)
		if err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
		cfg.Path = path
		LogDebug("Loaded config from %s", path)
		return cfg, nil
	}

	return ParseConfig(nil)
}

// ParseConfig decodes YAML config and fills in defaults
func ParseConfig(data []byte) (*Config, error) {
	var raw struct {
		Config    `yaml:",inline"`
		KillGrace string `yaml:"kill_grace,omitempty"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg := raw.Config
	if raw.KillGrace != "" {
		d, err := time.ParseDuration(raw.KillGrace)
		if err != nil {
			return nil, fmt.Errorf("invalid kill_grace %q: %w", raw.KillGrace, err)
		}
		cfg.KillGrace = d
	}

	if cfg.KillGrace <= 0 {
		cfg.KillGrace = DefaultKillGrace
	}
	if cfg.TreeMaxLines <= 0 {
		cfg.TreeMaxLines = DefaultTreeMaxLines
	}
	return &cfg, nil
}

// ResolveLogDir returns the session log root: env, then config, then the default
func (c *Config) ResolveLogDir() string {
	if dir := os.Getenv(EnvLogDir); dir != "" {
		return dir
	}
	if c != nil && c.LogDir != "" {
		return expandHome(c.LogDir)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return DefaultLogDir
	}
	return filepath.Join(cwd, DefaultLogDir)
}

// ResolveDefaultAgent returns the agent used when --agent is not given
func (c *Config) ResolveDefaultAgent() string {
	if name := os.Getenv(EnvDefaultAgent); name != "" {
		return name
	}
	if c != nil && c.DefaultAgent != "" {
		return c.DefaultAgent
	}
	return DefaultAgent
}

// ResolveIndexPath returns the sqlite index location, next to the log root by default
func (c *Config) ResolveIndexPath() string {
	if c != nil && c.IndexPath != "" {
		return expandHome(c.IndexPath)
	}
	return filepath.Join(filepath.Dir(c.ResolveLogDir()), "index.db")
}

func expandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
