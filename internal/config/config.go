package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

const (
	// AppName is used for the config file name and search paths.
	AppName = "d64tools"

	// EnvPrefix is the prefix for environment variable overrides.
	EnvPrefix = "D64TOOLS"
)

// AppConfig holds the CLI's configuration. The engine itself takes no
// configuration; these settings only shape the command-line surface.
type AppConfig struct {
	Debug     bool   `mapstructure:"debug"`
	LogFormat string `mapstructure:"log_format"`
	LogFile   string `mapstructure:"log_file"`

	// DefaultTracks is used by `create` when no --tracks flag is given.
	DefaultTracks int `mapstructure:"default_tracks"`
}

var (
	// Instance is the global configuration.
	Instance AppConfig

	// ConfigLoaded reports whether a config file was found; running
	// without one is fine, defaults apply.
	ConfigLoaded bool
	ConfigFile   string

	v        *viper.Viper
	initOnce sync.Once
)

// Initialize sets up the configuration system. cfgFile may be empty,
// in which case the standard search paths are tried. Initialize runs
// at most once per process; use LoadFile to replace the configuration
// afterwards.
func Initialize(cfgFile string) error {
	var err error

	initOnce.Do(func() {
		err = load(cfgFile)
	})

	return err
}

// LoadFile replaces the configuration with the contents of an explicit
// config file. This is how a --config flag takes effect after
// Initialize has already run at startup.
func LoadFile(cfgFile string) error {
	return load(cfgFile)
}

func load(cfgFile string) error {
	v = viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(AppName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/" + AppName)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if readErr := v.ReadInConfig(); readErr != nil {
		if _, ok := readErr.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", readErr)
		}
		ConfigLoaded = false
		ConfigFile = ""
	} else {
		ConfigLoaded = true
		ConfigFile = v.ConfigFileUsed()
	}

	if unmarshalErr := v.Unmarshal(&Instance); unmarshalErr != nil {
		return fmt.Errorf("error parsing config: %w", unmarshalErr)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)
	v.SetDefault("log_format", "human")
	v.SetDefault("log_file", "")
	v.SetDefault("default_tracks", 35)
}
