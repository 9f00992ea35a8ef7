package utils

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// FileExists reports whether a path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates the directory and any missing parents.
func EnsureDir(dirPath string) error {
	return os.MkdirAll(dirPath, 0755)
}

// SaveTOMLFile encodes data as TOML into filePath, replacing any existing file.
func SaveTOMLFile(data interface{}, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		log.Errorf("Failed to create %s: %v", filePath, err)
		return err
	}
	defer file.Close()
	return toml.NewEncoder(file).Encode(data)
}

// GetAbsolutePath resolves path to absolute form for display. An empty path
// comes back as "unknown" rather than the working directory.
func GetAbsolutePath(path string) string {
	if path == "" {
		return "unknown"
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// WritableDir reports whether dirPath can hold the config file: it exists or
// can be created, and accepts a write. The probe file is removed afterwards.
func WritableDir(dirPath string) bool {
	if _, err := os.Stat(dirPath); err != nil {
		if mkErr := os.MkdirAll(dirPath, 0755); mkErr != nil {
			log.Warnf("Cannot create directory %s: %v", dirPath, mkErr)
			return false
		}
	}

	probe := filepath.Join(dirPath, ".write_probe")
	file, err := os.Create(probe)
	if err != nil {
		log.Warnf("Cannot write to directory %s: %v", dirPath, err)
		return false
	}
	file.Close()
	os.Remove(probe)
	return true
}

// GetExecutableDir returns the directory holding the running binary. Last
// resort for config placement when no user config directory is writable.
func GetExecutableDir() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(execPath), nil
}
