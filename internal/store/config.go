package store

import (
	"os"
	"path/filepath"
	"strings"
)

// ConfigDir holds config.yaml. PRACTICEPLAN_CONFIG_DIR overrides it (tests use this to
// stay out of ~/.practiceplan).
func ConfigDir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("PRACTICEPLAN_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, dirName), nil
}
