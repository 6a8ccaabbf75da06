package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/newthinker/mocha/internal/core"
	"github.com/newthinker/mocha/internal/strategy"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return cfgPath
}

func TestLoad_FromFile(t *testing.T) {
	cfgPath := writeConfig(t, `
backtest:
  initial_investment: 5000

strategies:
  ma:
    params:
      window_fast: 20
      window_slow: 100
  vw_macd:
    params:
      trigger: level
      inverted: true

archive:
  type: localfs
  path: "/tmp/mocha/archive"

log:
  development: true
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Backtest.InitialInvestment != 5000 {
		t.Errorf("expected investment 5000, got %v", cfg.Backtest.InitialInvestment)
	}
	if cfg.Backtest.Workers != 4 {
		t.Errorf("expected default workers 4, got %d", cfg.Backtest.Workers)
	}
	if cfg.Archive.Type != "localfs" {
		t.Errorf("expected localfs, got %s", cfg.Archive.Type)
	}
	if !cfg.Log.Development {
		t.Error("expected development logging")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	defaults, err := cfg.StrategyDefaults()
	if err != nil {
		t.Fatalf("StrategyDefaults() error = %v", err)
	}
	if got := defaults[strategy.KindMA]; got.Fast != 20 || got.Slow != 100 || got.Trigger != strategy.TriggerLevel {
		t.Errorf("unexpected MA defaults: %+v", got)
	}
	want := strategy.Params{Fast: 12, Slow: 26, Signal: 9, Trigger: strategy.TriggerLevel, Inverted: true}
	if got := defaults[strategy.KindVWMACD]; got != want {
		t.Errorf("VW_MACD defaults = %+v, want %+v", got, want)
	}
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("MOCHA_TEST_BUCKET", "results-bucket")
	cfgPath := writeConfig(t, `
archive:
  type: s3
  s3:
    bucket: "${MOCHA_TEST_BUCKET}"
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Archive.S3.Bucket != "results-bucket" {
		t.Errorf("expected expanded bucket, got %q", cfg.Archive.S3.Bucket)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, core.ErrConfigMissing) {
		t.Errorf("expected ErrConfigMissing, got %v", err)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Backtest.InitialInvestment != 1000 {
		t.Errorf("expected default investment 1000, got %v", cfg.Backtest.InitialInvestment)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestConfig_ApplyStrategies(t *testing.T) {
	cfg := Defaults()
	cfg.Strategies = map[string]StrategyConfig{
		"RSI": {Params: map[string]any{"window_fast": 3, "window_slow": 10}},
	}

	e := strategy.NewEngine()
	if err := cfg.ApplyStrategies(e); err != nil {
		t.Fatalf("ApplyStrategies() error = %v", err)
	}
	if got := e.Defaults(strategy.KindRSI); got.Fast != 3 || got.Slow != 10 {
		t.Errorf("unexpected RSI defaults: %+v", got)
	}
	if got := e.Defaults(strategy.KindMA); got != strategy.DefaultParams(strategy.KindMA) {
		t.Errorf("MA defaults should be untouched, got %+v", got)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config { return *Defaults() }

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{"valid config", func(c *Config) {}, nil},
		{"zero investment", func(c *Config) { c.Backtest.InitialInvestment = 0 }, core.ErrConfigInvalid},
		{"negative workers", func(c *Config) { c.Backtest.Workers = -1 }, core.ErrConfigInvalid},
		{"unknown strategy", func(c *Config) {
			c.Strategies = map[string]StrategyConfig{"bollinger": {}}
		}, core.ErrConfigInvalid},
		{"invalid windows", func(c *Config) {
			c.Strategies = map[string]StrategyConfig{"ma": {Params: map[string]any{"window_fast": 300}}}
		}, core.ErrConfigInvalid},
		{"localfs without path", func(c *Config) { c.Archive.Type = "localfs" }, core.ErrConfigMissing},
		{"s3 without bucket", func(c *Config) { c.Archive.Type = "s3" }, core.ErrConfigMissing},
		{"unknown archive", func(c *Config) { c.Archive.Type = "ftp" }, core.ErrConfigInvalid},
		{"metrics without textfile", func(c *Config) {
			c.Metrics = MetricsConfig{Enabled: true}
		}, core.ErrConfigMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
