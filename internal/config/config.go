package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Store   StoreConfig
	Storage StorageConfig
	UI      UIConfig
	Log     LogConfig
}

// StoreConfig picks the store variant the app starts with.
type StoreConfig struct {
	Variant string
	Persist bool
}

// StorageConfig selects the key-value slot backend. An empty Path lets the
// backend choose a file in the working directory.
type StorageConfig struct {
	Backend string
	Path    string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Theme string
}

// LogConfig controls the log file. File "-" discards logs.
type LogConfig struct {
	Level string
	File  string
}

// Load reads configuration from file and env. Env var overrides use prefix
// TADA_ (TADA_STORE_VARIANT, TADA_STORAGE_BACKEND, ...). path overrides the
// config file location; TADA_CONFIG does the same when path is empty.
func Load(path string) (Config, error) {
	v := viper.New()

	home, _ := os.UserHomeDir()

	// default values
	v.SetDefault("store.variant", "observable")
	v.SetDefault("store.persist", true)
	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.path", "")
	v.SetDefault("ui.theme", "classic")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(home, ".local", "state", "tada", "tada.log"))

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv("TADA_CONFIG")
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "tada"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("TADA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(explicit && errors.Is(err, fs.ErrNotExist)) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
