package config

import (
	"errors"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/docker/go-units"
	"github.com/rs/zerolog"
	"github.com/trim21/errgo"
)

type Application struct {
	Address     string `toml:"address"`
	Token       string `toml:"token"`
	LogLevel    string `toml:"log_level"`
	MaxBodySize string `toml:"max_body_size"`
	MaxHeaps    int    `toml:"max_heaps"`
	Parallel    int    `toml:"parallel"`
	Debug       bool   `toml:"debug"`
}

type Config struct {
	App Application `toml:"application"`
}

func Default() Config {
	return Config{
		App: Application{
			Address:     "127.0.0.1:8004",
			LogLevel:    "info",
			MaxBodySize: "1MiB",
			MaxHeaps:    1000,
			Parallel:    4,
		},
	}
}

// LoadFromFile reads a toml config file over the defaults.
// A missing file is not an error.
func LoadFromFile(path string) (Config, error) {
	var cfg = Default()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}

		return cfg, errgo.Wrap(err, "failed to parse config file")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}

	if _, err := c.BodyLimit(); err != nil {
		return err
	}

	if c.App.Address == "" {
		return errors.New("application.address must not be empty")
	}

	return nil
}

func (c Config) Level() (zerolog.Level, error) {
	l, err := zerolog.ParseLevel(c.App.LogLevel)
	if err != nil {
		return l, errgo.Wrap(err, "invalid application.log_level")
	}

	return l, nil
}

// BodyLimit parses application.max_body_size, "1MiB" or "512k" style.
func (c Config) BodyLimit() (int64, error) {
	n, err := units.RAMInBytes(c.App.MaxBodySize)
	if err != nil {
		return 0, errgo.Wrap(err, "invalid application.max_body_size")
	}

	return n, nil
}
