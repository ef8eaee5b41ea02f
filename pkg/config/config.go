package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"platebench/pkg/common"
	"platebench/pkg/monitor"
)

type Config struct {
	Engine    EngineConfig    `yaml:"engine"`
	Benchmark BenchmarkConfig `yaml:"benchmark"`
	Dataset   DatasetConfig   `yaml:"dataset"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

type EngineConfig struct {
	KeyField string `yaml:"key_field" validate:"required"` // record field holding the plate
}

type BenchmarkConfig struct {
	Iterations int  `yaml:"iterations" validate:"min=1,max=100000"`
	Warmup     int  `yaml:"warmup" validate:"min=0"`
	Parallel   bool `yaml:"parallel"` // run comparison pipelines concurrently
}

type DatasetConfig struct {
	Size   int    `yaml:"size" validate:"min=0"`
	Seed   int64  `yaml:"seed"`
	DBPath string `yaml:"db_path"` // empty: generate in memory
}

type LoggingConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `yaml:"json"`
}

type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace" validate:"required_if=Enabled true"`
}

func defaults() *Config {
	return &Config{
		Engine:    EngineConfig{KeyField: common.DefaultKeyField},
		Benchmark: BenchmarkConfig{Iterations: 5, Warmup: 1},
		Dataset:   DatasetConfig{Size: 10000, Seed: 42},
		Logging:   LoggingConfig{Level: "info"},
		Metrics:   MetricsConfig{Namespace: monitor.DefaultNamespace},
	}
}

// Load 读取配置: 默认值 -> YAML 覆盖 -> 补默认 -> 校验
func Load(configPath string) (*Config, error) {
	cfg := defaults()

	if configPath == "" {
		for _, p := range []string{"configs/platebench.yaml", "platebench.yaml"} {
			data, err := os.ReadFile(p)
			if err == nil {
				if err := yaml.Unmarshal(data, cfg); err != nil {
					return cfg, fmt.Errorf("parse %s: %w", p, err)
				}
				break
			}
		}
		applyDefaults(cfg)
		return cfg, Validate(cfg) // no file found: defaults
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", configPath, err)
	}

	applyDefaults(cfg)
	return cfg, Validate(cfg)
}

// Validate checks the struct tags. Values applyDefaults cannot repair
// (negative warmup, unknown log level) surface here.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Engine.KeyField == "" {
		cfg.Engine.KeyField = common.DefaultKeyField
	}
	if cfg.Benchmark.Iterations <= 0 {
		cfg.Benchmark.Iterations = 5
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = monitor.DefaultNamespace
	}
}
