package logger

import (
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/alphabill-org/feecharging/internal/errors"
)

const (
	defaultTimeLocation      = "Local"
	defaultConsoleTimeFormat = "15:04:05.0000"
	defaultCallerSkipFrames  = 3
)

type GlobalConfig struct {
	// Writer is where log output goes, os.Stdout if not set.
	Writer io.Writer `yaml:"-"`
	// DefaultLevel is used by loggers which have no entry in PackageLevels.
	DefaultLevel LogLevel `yaml:"defaultLevel"`
	// PackageLevels maps logger (package) name to level.
	PackageLevels map[string]LogLevel `yaml:"packageLevels"`
	// ConsoleFormat switches from JSON to human readable output.
	ConsoleFormat   bool   `yaml:"consoleFormat"`
	ShowCaller      bool   `yaml:"showCaller"`
	ShowGoroutineID bool   `yaml:"showGoroutineID"`
	TimeLocation    string `yaml:"timeLocation"`
}

func developerConfiguration() GlobalConfig {
	return GlobalConfig{
		Writer:          os.Stdout,
		DefaultLevel:    DEBUG,
		PackageLevels:   map[string]LogLevel{},
		ConsoleFormat:   true,
		ShowCaller:      true,
		ShowGoroutineID: false,
		TimeLocation:    defaultTimeLocation,
	}
}

// LoadGlobalConfig reads a YAML logger configuration, missing values are taken from
// DefaultConfiguration.
func LoadGlobalConfig(fileURL string) (GlobalConfig, error) {
	conf := developerConfiguration()
	b, err := os.ReadFile(fileURL)
	if err != nil {
		return conf, errors.Wrapf(err, "reading logger configuration %s", fileURL)
	}
	if err := yaml.Unmarshal(b, &conf); err != nil {
		return conf, errors.Wrapf(err, "decoding logger configuration %s", fileURL)
	}
	if conf.PackageLevels == nil {
		conf.PackageLevels = map[string]LogLevel{}
	}
	return conf, nil
}

// DefaultConfiguration is the configuration loggers use until it is updated.
func DefaultConfiguration() GlobalConfig {
	return developerConfiguration()
}
