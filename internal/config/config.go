package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDataDir   = "~/lightviz/data"
	DefaultListen    = "127.0.0.1:9000"
	DefaultRPCPath   = "/ws"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultTheme     = "ocean"
)

type Config struct {
	DataDir       string `yaml:"data_dir" toml:"data_dir"`
	Listen        string `yaml:"listen" toml:"listen"`
	RPCPath       string `yaml:"rpc_path" toml:"rpc_path"`
	LogLevel      string `yaml:"log_level" toml:"log_level"`
	LogFormat     string `yaml:"log_format" toml:"log_format"`
	Colormap      string `yaml:"colormap" toml:"colormap"`
	Theme         string `yaml:"theme" toml:"theme"`
	TupleBooleans bool   `yaml:"tuple_booleans" toml:"tuple_booleans"`
}

func DefaultConfig() *Config {
	return &Config{
		DataDir:   DefaultDataDir,
		Listen:    DefaultListen,
		RPCPath:   DefaultRPCPath,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
		Theme:     DefaultTheme,
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads a YAML or TOML (by extension) config file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if isTOML(path) {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = toml.Marshal(cfg)
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ResolvedDataDir expands a leading ~ in DataDir.
func (c *Config) ResolvedDataDir() (string, error) {
	return homedir.Expand(c.DataDir)
}

func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("config: data_dir is required")
	}
	if c.Listen == "" {
		return fmt.Errorf("config: listen is required")
	}
	if !strings.HasPrefix(c.RPCPath, "/") {
		return fmt.Errorf("config: rpc_path must start with /, got %q", c.RPCPath)
	}
	switch c.RPCPath {
	case "/rpc", "/healthz":
		return fmt.Errorf("config: rpc_path %q is reserved", c.RPCPath)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown log_format %q", c.LogFormat)
	}
	return nil
}
