// Package config loads application settings with viper.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"ceph-tracer/internal/calibration"
	"ceph-tracer/pkg/geometry"
)

// FileName is the config file looked up in the config directory.
const FileName = "ceph-tracer"

// EnvPrefix prefixes environment overrides, e.g. CEPH_LOGLEVEL.
const EnvPrefix = "CEPH"

// Load sets default values and reads ceph-tracer.{yaml,json,toml} from
// configDir if present. A missing file is not an error.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logFile", "")

	viper.SetDefault("catalog.path", "")
	viper.SetDefault("catalog.locale", "")

	viper.SetDefault("interaction.hitRadius", 10.0)
	viper.SetDefault("display.maxWidth", 800)

	viper.SetDefault("calibration.start.x", 100.0)
	viper.SetDefault("calibration.start.y", 100.0)
	viper.SetDefault("calibration.end.x", 200.0)
	viper.SetDefault("calibration.end.y", 100.0)

	viper.SetDefault("gallery.driver", "sqlite")
	viper.SetDefault("gallery.sqlite.path", "ceph-gallery.db")
	viper.SetDefault("gallery.postgres.dsn", "host=localhost port=5432 user=postgres password=postgres dbname=ceph sslmode=disable")

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName(FileName)
	if configDir != "" {
		viper.AddConfigPath(configDir)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// Used returns the path of the config file that was read, or "".
func Used() string {
	return viper.ConfigFileUsed()
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetFloat returns a float config value.
func GetFloat(key string) float64 {
	return viper.GetFloat64(key)
}

// Set overrides a config value, e.g. from a command line flag.
func Set(key string, value interface{}) {
	viper.Set(key, value)
}

// CalibrationLine returns the configured default calibration line.
func CalibrationLine() calibration.Line {
	return calibration.Line{
		Start: geometry.NewPoint2D(viper.GetFloat64("calibration.start.x"), viper.GetFloat64("calibration.start.y")),
		End:   geometry.NewPoint2D(viper.GetFloat64("calibration.end.x"), viper.GetFloat64("calibration.end.y")),
	}
}
