package store

import (
	"errors"
	"os"
	"path/filepath"
)

const (
	dirName        = ".practiceplan"
	sqliteFileName = "plan.sqlite"
	logFileName    = "practiceplan.log"
)

var ErrNoPlan = errors.New("no plan in this workspace (run `practiceplan init`)")

// Store is a workspace directory holding one plan and its history.
type Store struct {
	Dir string
}

func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, dirName)
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// DefaultDir walks up from the working directory looking for a workspace and falls
// back to ./.practiceplan.
func DefaultDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if found, ok := DiscoverDir(cwd); ok {
		return found, nil
	}
	return filepath.Join(cwd, dirName), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) sqlitePath() string {
	return filepath.Join(s.Dir, sqliteFileName)
}

// LogPath is where interactive sessions write their log.
func (s Store) LogPath() string {
	return filepath.Join(s.Dir, logFileName)
}
