package cache

import (
	"errors"
	"flag"
)

const DefaultSize = 64

type Config struct {
	// Size is the number of decoded archives kept in memory.
	Size int `yaml:"size"`
}

func (cfg *Config) RegisterFlagsAndApplyDefaults(prefix string, f *flag.FlagSet) {
	f.IntVar(&cfg.Size, prefixConfig(prefix, "cache.size"), DefaultSize, "Number of decoded archives to keep in memory.")
}

func (cfg *Config) Validate() error {
	if cfg.Size <= 0 {
		return errors.New("cache size must be positive")
	}
	return nil
}

func prefixConfig(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
