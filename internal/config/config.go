// Package config loads the fsnt YAML configuration file.
package config

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the configuration file looked up when none is given.
const DefaultFile = "fsnt.yaml"

// Config is the complete tool configuration.
type Config struct {
	Store   StoreConfig   `mapstructure:"store"`
	Compose ComposeConfig `mapstructure:"compose"`
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
}

// StoreConfig selects and configures the transducer store.
type StoreConfig struct {
	// Kind is one of memory, file or redis.
	Kind   string      `mapstructure:"kind"`
	Dir    string      `mapstructure:"dir"`
	Format string      `mapstructure:"format"`
	Redis  RedisConfig `mapstructure:"redis"`
}

// RedisConfig configures the Redis store.
type RedisConfig struct {
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// ComposeConfig holds composition defaults.
type ComposeConfig struct {
	FlagsAsEpsilon bool          `mapstructure:"flags_as_epsilon"`
	MaxStates      int           `mapstructure:"max_states"`
	MaxBacklog     int           `mapstructure:"max_backlog"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// ServerConfig configures the HTTP and MCP servers.
type ServerConfig struct {
	Port      int  `mapstructure:"port"`
	Metrics   bool `mapstructure:"metrics"`
	// MaxStates bounds transducers uploaded over HTTP. Zero disables the check.
	MaxStates int  `mapstructure:"max_states"`
}

// LogConfig configures the application logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Store: StoreConfig{
			Kind:   "file",
			Dir:    ".fsnt/transducers",
			Format: "json",
			Redis: RedisConfig{
				Address: "localhost:6379",
			},
		},
		Server: ServerConfig{
			Port:      8080,
			Metrics:   true,
			MaxStates: 1 << 20,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path over the defaults. An empty path loads DefaultFile when it exists
// and the plain defaults otherwise.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, errors.Wrap(err, "failed to read config")
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return cfg, errors.Wrapf(err, "failed to parse config %s", path)
	}
	if err := Decode(raw, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, cfg.Validate()
}

// Decode merges raw into cfg. Scalars are converted loosely, so "100" fills an int,
// and durations accept strings such as "30s".
func Decode(raw map[string]any, cfg *Config) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

// Validate checks enumerated fields.
func (c Config) Validate() error {
	switch c.Store.Kind {
	case "memory", "file", "redis":
	default:
		return errors.Newf("unknown store kind %q", c.Store.Kind)
	}
	switch c.Store.Format {
	case "json", "yaml", "yml":
	default:
		return errors.Newf("unknown store format %q", c.Store.Format)
	}
	if c.Compose.MaxStates < 0 || c.Compose.MaxBacklog < 0 || c.Server.MaxStates < 0 {
		return errors.New("state and backlog limits must not be negative")
	}
	return nil
}
