// Package config describes the configuration file of sensorsync.
package config

import (
	"fmt"
	"os"

	"github.com/xaionaro-go/sensorsync/pkg/dataset"
	"github.com/xaionaro-go/sensorsync/pkg/export"
	"github.com/xaionaro-go/sensorsync/pkg/timesync"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Linearize    bool          `yaml:"linearize"`
	StepMS       uint64        `yaml:"step_ms"`
	Format       export.Format `yaml:"format"`
	LoadPayloads bool          `yaml:"load_payloads"`
	Cache        CacheConfig   `yaml:"cache"`
}

type CacheConfig struct {
	RGBFrames    int `yaml:"rgb_frames"`
	DepthFrames  int `yaml:"depth_frames"`
	Observations int `yaml:"observations"`
}

func Default() Config {
	return Config{
		Format: export.FormatText,
	}
}

// Read reads the YAML file at path on top of Default().
func Read(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("unable to read the config file `%s`: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("unable to parse the config file `%s`: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config file `%s`: %w", path, err)
	}
	return cfg, nil
}

func (cfg Config) Validate() error {
	f := cfg.Format
	if err := f.Set(string(cfg.Format)); err != nil {
		return err
	}
	if cfg.Cache.RGBFrames < 0 || cfg.Cache.DepthFrames < 0 || cfg.Cache.Observations < 0 {
		return fmt.Errorf("cache sizes must not be negative: %#+v", cfg.Cache)
	}
	return nil
}

func (cfg Config) DatasetOptions() dataset.Options {
	return dataset.Options{
		Linearize:            cfg.Linearize,
		Step:                 timesync.Step(cfg.StepMS),
		RGBFrameCacheSize:    cfg.Cache.RGBFrames,
		DepthFrameCacheSize:  cfg.Cache.DepthFrames,
		ObservationCacheSize: cfg.Cache.Observations,
	}
}
