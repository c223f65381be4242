package credentials

import (
	"os"
	"path/filepath"
)

// AppDirName is the per-user application directory under the OS config root.
const AppDirName = "r2-explorer"

// Config holds configuration for the credential store.
type Config struct {
	// Dir overrides the directory holding the accounts file.
	// Empty means <UserConfigDir>/r2-explorer.
	Dir string `mapstructure:"dir" default:""`
	// FileName is the accounts file name inside Dir.
	FileName string `mapstructure:"file_name" default:"config.json"`
	// KeyringService is the service name secrets are stored under.
	KeyringService string `mapstructure:"keyring_service" default:"r2-explorer"`
}

// DefaultConfig returns the configuration used when none is loaded.
func DefaultConfig() Config {
	return Config{FileName: "config.json", KeyringService: AppDirName}
}

// Path resolves the absolute location of the accounts file.
func (c Config) Path() (string, error) {
	dir := c.Dir
	if dir == "" {
		root, err := os.UserConfigDir()
		if err != nil {
			return "", wrapError(ErrKindConfigDir, "failed to resolve user config directory", err)
		}
		dir = filepath.Join(root, AppDirName)
	}

	name := c.FileName
	if name == "" {
		name = "config.json"
	}
	return filepath.Join(dir, name), nil
}
