package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/timzifer/linkedqueue/internal/driver"
)

type Config struct {
	Log struct {
		Level       string // debug, info, warn, error
		Development bool
	}

	Queue struct {
		StringBufferSize int // buffer handed to rh/rt
		FailPercent      int // allocation refusal rate, 0-100
		Seed             uint64
	}
}

func defaultConfig() *Config {
	config := &Config{}
	config.Log.Level = "info"
	config.Queue.StringBufferSize = driver.DefaultStringBufferSize
	config.Queue.Seed = 1
	return config
}

func LoadConfigStr(str string) (*Config, error) {
	config := defaultConfig()
	if _, err := toml.Decode(str, config); err != nil {
		return nil, err
	}
	return config, config.validate()
}

func LoadConfig(path string) (*Config, error) {
	config := defaultConfig()
	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, err
	}
	return config, config.validate()
}

func (c *Config) validate() error {
	if c.Queue.StringBufferSize <= 0 {
		return fmt.Errorf("string buffer size must be positive, got %d", c.Queue.StringBufferSize)
	}
	if c.Queue.FailPercent < 0 || c.Queue.FailPercent > 100 {
		return fmt.Errorf("fail percent must be within [0, 100], got %d", c.Queue.FailPercent)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

func (c *Config) newLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	if c.Log.Development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build(zap.AddStacktrace(zapcore.PanicLevel))
}
