package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/newthinker/mocha/internal/core"
	"github.com/newthinker/mocha/internal/strategy"
	"github.com/spf13/viper"
)

type Config struct {
	Backtest   BacktestConfig            `mapstructure:"backtest"`
	Strategies map[string]StrategyConfig `mapstructure:"strategies"`
	Archive    ArchiveConfig             `mapstructure:"archive"`
	Metrics    MetricsConfig             `mapstructure:"metrics"`
	Log        LogConfig                 `mapstructure:"log"`
}

type BacktestConfig struct {
	InitialInvestment float64 `mapstructure:"initial_investment"`
	Workers           int     `mapstructure:"workers"`
}

// StrategyConfig overrides the default parameters of one strategy kind.
// Params accepts window_fast, window_slow, window_signal, trigger and
// inverted.
type StrategyConfig struct {
	Params map[string]any `mapstructure:"params"`
}

// ArchiveConfig selects where run outputs are archived. An empty Type
// disables archiving.
type ArchiveConfig struct {
	Type string   `mapstructure:"type"` // "localfs" or "s3"
	Path string   `mapstructure:"path"` // For localfs
	S3   S3Config `mapstructure:"s3"`   // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Textfile is written after every command, in the node exporter
	// textfile collector format.
	Textfile string `mapstructure:"textfile"`
}

type LogConfig struct {
	Development bool `mapstructure:"development"`
}

// Load reads configuration from file. Keys missing from the file keep
// their Defaults value.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	d := Defaults()
	v.SetDefault("backtest.initial_investment", d.Backtest.InitialInvestment)
	v.SetDefault("backtest.workers", d.Backtest.Workers)
	v.SetDefault("metrics.textfile", d.Metrics.Textfile)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, core.WrapError(core.ErrConfigMissing, fmt.Errorf("reading config: %w", err))
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unmarshaling config: %w", err))
	}

	return &cfg, nil
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Backtest: BacktestConfig{
			InitialInvestment: 1000,
			Workers:           4,
		},
		Metrics: MetricsConfig{
			Textfile: "mocha.prom",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Backtest.InitialInvestment <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("initial_investment must be positive, got %v", c.Backtest.InitialInvestment))
	}
	if c.Backtest.Workers < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("workers cannot be negative, got %d", c.Backtest.Workers))
	}

	if _, err := c.StrategyDefaults(); err != nil {
		return err
	}

	switch c.Archive.Type {
	case "":
	case "localfs":
		if c.Archive.Path == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("archive path required when type is localfs"))
		}
	case "s3":
		if c.Archive.S3.Bucket == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("s3 bucket required when type is s3"))
		}
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown archive type %q", c.Archive.Type))
	}

	if c.Metrics.Enabled && c.Metrics.Textfile == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("metrics textfile required when metrics are enabled"))
	}

	return nil
}

// StrategyDefaults resolves the strategies section into validated
// parameters per kind. Keys are strategy kinds, matched case-insensitively.
func (c *Config) StrategyDefaults() (map[strategy.Kind]strategy.Params, error) {
	out := make(map[strategy.Kind]strategy.Params, len(c.Strategies))
	for name, sc := range c.Strategies {
		kind, err := strategy.ParseKind(name)
		if err != nil {
			return nil, core.WrapError(core.ErrConfigInvalid, err)
		}
		p, err := strategy.DefaultParams(kind).Apply(sc.Params)
		if err != nil {
			return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("strategies.%s: %w", name, err))
		}
		if err := p.Validate(kind); err != nil {
			return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("strategies.%s: %w", name, err))
		}
		out[kind] = p
	}
	return out, nil
}

// ApplyStrategies installs the configured defaults on e.
func (c *Config) ApplyStrategies(e *strategy.Engine) error {
	defaults, err := c.StrategyDefaults()
	if err != nil {
		return err
	}
	for kind, p := range defaults {
		e.SetDefaults(kind, p)
	}
	return nil
}
