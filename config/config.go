// Package config handles the mindmap configuration file and its environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "mindmap"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "MINDMAP_"
)

const (
	ParserSpacy  = "spacy"
	ParserRemote = "remote"
)

// Config represents the configuration stored in ~/.config/mindmap/config.yml.
type Config struct {
	// Mode is the default extraction mode.
	Mode string `yaml:"mode,omitempty"`

	Parser     ParserConfig `yaml:"parser"`
	Repository string       `yaml:"repository,omitempty"`
	Server     ServerConfig `yaml:"server"`
	Log        LogConfig    `yaml:"log"`
}

type ParserConfig struct {
	Kind string `yaml:"kind,omitempty"`

	// Cache stores parsed docs in the repository.
	Cache bool `yaml:"cache,omitempty"`

	Spacy  SpacyConfig  `yaml:"spacy"`
	Remote RemoteConfig `yaml:"remote"`
}

type SpacyConfig struct {
	Command []string `yaml:"command,omitempty"`
	Model   string   `yaml:"model,omitempty"`
}

type RemoteConfig struct {
	URL       string        `yaml:"url,omitempty"`
	Timeout   time.Duration `yaml:"timeout,omitempty"`
	RateLimit float64       `yaml:"rate_limit,omitempty"`
	Burst     int           `yaml:"burst,omitempty"`
}

type ServerConfig struct {
	Addr        string   `yaml:"addr,omitempty"`
	CORSOrigins []string `yaml:"cors_origins,omitempty"`
}

type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Mode: "token-role",
		Parser: ParserConfig{
			Kind:  ParserSpacy,
			Spacy: SpacyConfig{Model: "en_core_web_sm"},
			Remote: RemoteConfig{
				Timeout:   30 * time.Second,
				RateLimit: 10,
				Burst:     5,
			},
		},
		Server: ServerConfig{
			Addr:        ":8050",
			CORSOrigins: []string{"*"},
		},
		Log: LogConfig{Level: "info", Format: "json"},
	}
}

// Path returns the path to the config file. MINDMAP_CONFIG wins, then
// XDG_CONFIG_HOME, defaulting to ~/.config/mindmap/config.yml.
func Path() string {
	if p := os.Getenv(EnvPrefix + "CONFIG"); p != "" {
		return ExpandTilde(p)
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// Load reads a .env file of the working directory if present, the config
// file at path, and applies the environment overrides. A missing file is not
// an error: the defaults are used. Callers apply their own overrides and
// call Validate.
func Load(path string) (*Config, error) {
	// missing .env is fine
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}

	if cfg.Repository != "" {
		cfg.Repository = ExpandTilde(cfg.Repository)
	}

	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	str := func(name string, dst *string) {
		if v := getenv(EnvPrefix + name); v != "" {
			*dst = v
		}
	}

	str("MODE", &c.Mode)
	str("PARSER", &c.Parser.Kind)
	str("SPACY_MODEL", &c.Parser.Spacy.Model)
	str("REMOTE_URL", &c.Parser.Remote.URL)
	str("REPOSITORY", &c.Repository)
	str("ADDR", &c.Server.Addr)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)

	if v := getenv(EnvPrefix + "SPACY_COMMAND"); v != "" {
		c.Parser.Spacy.Command = strings.Fields(v)
	}

	if v := getenv(EnvPrefix + "CACHE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sCACHE: %w", EnvPrefix, err)
		}
		c.Parser.Cache = b
	}

	if v := getenv(EnvPrefix + "REMOTE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sREMOTE_TIMEOUT: %w", EnvPrefix, err)
		}
		c.Parser.Remote.Timeout = d
	}

	if v := getenv(EnvPrefix + "CORS_ORIGINS"); v != "" {
		c.Server.CORSOrigins = strings.Split(v, ",")
	}

	return nil
}

// Validate checks the values that have a closed set of choices. The mode is
// checked by the builder.
func (c *Config) Validate() error {
	switch c.Parser.Kind {
	case ParserSpacy:
	case ParserRemote:
		if c.Parser.Remote.URL == "" {
			return errors.New("config: parser.remote.url is required for the remote parser")
		}
	default:
		return fmt.Errorf("config: invalid parser kind %q: must be spacy or remote", c.Parser.Kind)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: invalid log level %q", c.Log.Level)
	}

	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: invalid log format %q: must be json or console", c.Log.Format)
	}

	if c.Parser.Cache && c.Repository == "" {
		return errors.New("config: parser.cache needs a repository")
	}

	return nil
}

// ExpandTilde expands a leading ~ to the user's home directory.
func ExpandTilde(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
