package utils

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// LoadTOMLFile decodes a TOML file into config. A parse failure is returned
// to the caller, which may retry with DecodeLoose for partial recovery.
func LoadTOMLFile(configPath string, config interface{}) error {
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		log.Warnf("TOML parsing error in %s: %v", configPath, err)
		return err
	}
	return nil
}

// DecodeLoose parses a TOML file into an untyped map, so that callers can
// salvage whatever sections decoded cleanly from a partially broken file.
func DecodeLoose(configPath string) (map[string]any, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	loose := make(map[string]any)
	if _, err := toml.Decode(string(data), &loose); err != nil {
		return nil, err
	}
	return loose, nil
}

// Section pulls a named table out of loosely decoded TOML data.
func Section(data map[string]any, name string) (map[string]any, bool) {
	section, ok := data[name].(map[string]any)
	return section, ok
}

// Extract pulls a typed value out of loosely decoded TOML data. TOML integers
// decode as int64, so numeric callers extract int64 and convert.
func Extract[T any](data map[string]any, key string) (T, bool) {
	val, ok := data[key].(T)
	return val, ok
}
