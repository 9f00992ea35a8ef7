/*
Package config manages TOML config for PlaceServe services.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/placeserve/placeserve/internal/utils"
)

// Config holds the entire config structure
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Gazetteer GazetteerConfig `toml:"gazetteer"`
	CLI       CliConfig       `toml:"cli"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxResults int `toml:"max_results"`
	MaxLimit   int `toml:"max_limit"`
	MinPrefix  int `toml:"min_prefix"`
	MaxPrefix  int `toml:"max_prefix"`
}

// GazetteerConfig holds place catalog options.
type GazetteerConfig struct {
	Path string `toml:"path"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit  int  `toml:"default_limit"`
	DefaultMinLen int  `toml:"default_min_len"`
	DefaultMaxLen int  `toml:"default_max_len"`
	NoFilter      bool `toml:"no_filter"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
// 4. builtin defaults
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		execDir, execErr := utils.GetExecutableDir()
		if execErr != nil {
			return "", execErr
		}
		return execDir, nil
	}
	primaryPath := filepath.Join(homeDir, ".config", "placeserve")
	if utils.WritableDir(primaryPath) {
		return primaryPath, nil
	}
	// Not conventional, fallback from ~/.config if not writable
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "placeserve")
	if utils.WritableDir(macOSPath) {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/placeserve/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	var config *Config
	var err error

	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err = LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err = InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			MaxResults: 4,
			MaxLimit:   64,
			MinPrefix:  1,
			MaxPrefix:  60,
		},
		Gazetteer: GazetteerConfig{
			Path: "data/places.tsv",
		},
		CLI: CliConfig{
			DefaultLimit:  4,
			DefaultMinLen: 1,
			DefaultMaxLen: 60,
			NoFilter:      false,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse attempts to parse a TOML file
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	loose, err := utils.DecodeLoose(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.Section(loose, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.Section(loose, "gazetteer"); ok {
		extractGazetteerConfig(section, &config.Gazetteer)
	}
	if section, ok := utils.Section(loose, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	return config, nil
}

// extractServerConfig extracts server configuration from a map
func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.Extract[int64](data, "max_results"); ok {
		server.MaxResults = int(val)
	}
	if val, ok := utils.Extract[int64](data, "max_limit"); ok {
		server.MaxLimit = int(val)
	}
	if val, ok := utils.Extract[int64](data, "min_prefix"); ok {
		server.MinPrefix = int(val)
	}
	if val, ok := utils.Extract[int64](data, "max_prefix"); ok {
		server.MaxPrefix = int(val)
	}
}

// extractGazetteerConfig extracts gazetteer configuration from a map
func extractGazetteerConfig(data map[string]any, gz *GazetteerConfig) {
	if val, ok := utils.Extract[string](data, "path"); ok {
		gz.Path = val
	}
}

// extractCliConfig extracts CLI config from a map
func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.Extract[int64](data, "default_limit"); ok {
		cli.DefaultLimit = int(val)
	}
	if val, ok := utils.Extract[int64](data, "default_min_len"); ok {
		cli.DefaultMinLen = int(val)
	}
	if val, ok := utils.Extract[int64](data, "default_max_len"); ok {
		cli.DefaultMaxLen = int(val)
	}
	if val, ok := utils.Extract[bool](data, "no_filter"); ok {
		cli.NoFilter = val
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	configDir := filepath.Dir(defaultPath)
	if err := utils.EnsureDir(configDir); err != nil {
		return err
	}
	config := DefaultConfig()
	return utils.SaveTOMLFile(config, defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
