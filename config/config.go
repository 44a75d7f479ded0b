// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
	validDrivers   = []string{"sqlite", "postgres"}
)

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "app_log_level")

	v.BindEnv("host.port", "host_port")
	v.BindEnv("host.cors", "host_cors")

	v.BindEnv("database.driver", "database_driver")
	v.BindEnv("database.dsn", "database_dsn")

	v.BindEnv("storage.root", "storage_root")
	v.BindEnv("storage.scratch", "storage_scratch")

	v.BindEnv("upload.max_size", "upload_max_size")

	v.BindEnv("metadata.drone_model", "metadata_drone_model")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.cors", []string{"http://localhost:5173"})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "missions.db")

	v.SetDefault("storage.root", "missions")
	v.SetDefault("storage.scratch", "scratch")

	// In MiB, shifted to bytes at the end of Setup
	v.SetDefault("upload.max_size", 500)

	v.SetDefault("upload.extensions", map[string][]string{
		"images":  {"jpg", "jpeg", "png", "tif", "tiff"},
		"logs":    {"tlog", "log", "txt"},
		"geopos":  {"csv", "txt", "gpx", "kml"},
		"ppk":     {"obs", "nav", "sp3", "rinex"},
		"rapport": {"pdf", "docx", "xlsx", "zip"},
	})

	v.SetDefault("metadata.drone_model", "Trinity F90+")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file, %w", err)
		}
		// Defaults cover everything, running without a config.toml is fine
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if !slices.Contains(validDrivers, v.GetString("database.driver")) {
		return errors.New("invalid database driver provided")
	}

	if v.GetString("database.dsn") == "" {
		return errors.New("database dsn can't be empty")
	}

	if v.GetString("storage.root") == "" {
		return errors.New("storage root can't be empty")
	}

	if v.GetString("storage.scratch") == "" {
		return errors.New("storage scratch dir can't be empty")
	}

	if v.GetInt("upload.max_size") <= 0 {
		return errors.New("upload.max_size must be bigger than 0")
	}

	if len(v.GetStringMapStringSlice("upload.extensions")) == 0 {
		return errors.New("upload.extensions can't be empty")
	}

	v.Set("upload.max_size", v.GetInt64("upload.max_size")<<20)
	return nil
}
