package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

var v *viper.Viper

// Initialize sets up the viper configuration singleton
// Should be called once at application startup
func Initialize() error {
	v = viper.New()

	// Set config file name and type
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Add config search paths (in order of precedence)
	// 1. Walk up from CWD to find a project .tracker/ directory
	//    This allows commands to work from subdirectories
	cwd, err := os.Getwd()
	if err == nil {
		for dir := cwd; dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
			trackerDir := filepath.Join(dir, ".tracker")
			if info, err := os.Stat(trackerDir); err == nil && info.IsDir() {
				v.AddConfigPath(trackerDir)
				break
			}
		}
	}

	// 2. User config directory (~/.config/pt/)
	if configDir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(configDir, "pt"))
	}

	// 3. Home directory (~/.tracker/)
	if homeDir, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(homeDir, ".tracker"))
	}

	// Automatic environment variable binding
	// Environment variables take precedence over config file
	// E.g., PT_DB, PT_JSON, PT_ACTOR
	v.SetEnvPrefix("PT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Set defaults for all flags
	v.SetDefault("db", "")
	v.SetDefault("json", false)
	v.SetDefault("actor", "")
	v.SetDefault("log", "")

	// Read config file if it exists (don't error if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found - this is ok, we'll use defaults
	}

	return nil
}

// GetString retrieves a string configuration value
func GetString(key string) string {
	if v == nil {
		return ""
	}
	return v.GetString(key)
}

// GetBool retrieves a boolean configuration value
func GetBool(key string) bool {
	if v == nil {
		return false
	}
	return v.GetBool(key)
}

// Set sets a configuration value
func Set(key string, value interface{}) {
	if v != nil {
		v.Set(key, value)
	}
}

// DatabasePath resolves the database file path: the db key if set,
// otherwise .tracker/tracker.db under the nearest .tracker directory,
// falling back to ~/.tracker/tracker.db.
func DatabasePath() string {
	if p := GetString("db"); p != "" {
		return p
	}
	cwd, err := os.Getwd()
	if err == nil {
		for dir := cwd; dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
			trackerDir := filepath.Join(dir, ".tracker")
			if info, err := os.Stat(trackerDir); err == nil && info.IsDir() {
				return filepath.Join(trackerDir, "tracker.db")
			}
		}
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".tracker", "tracker.db")
	}
	return filepath.Join(homeDir, ".tracker", "tracker.db")
}
