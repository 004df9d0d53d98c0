package config

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Conf holds the simulator's resolved configuration after Load.
var Conf *SimulatorConfig

// SimulatorConfig is the root config document for the mahjongsim CLI.
type SimulatorConfig struct {
	AppName    string  `mapstructure:"appName"`
	Log        LogConf `mapstructure:"log"`
	MetricPort int     `mapstructure:"metricPort"`
	Seed       int64   `mapstructure:"seed"`
	Rounds     int     `mapstructure:"rounds"`
}

type LogConf struct {
	Level string `mapstructure:"level"`
}

// Load reads configFile with viper into Conf and watches it for changes.
// A missing or unreadable file is returned as an error; the caller decides
// how to fall back.
func Load(configFile string) error {
	if Conf == nil {
		Conf = new(SimulatorConfig)
	}

	v := viper.New()
	v.SetConfigFile(configFile)
	v.WatchConfig()
	v.OnConfigChange(func(in fsnotify.Event) {
		_ = v.Unmarshal(Conf)
	})

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := v.Unmarshal(Conf); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
