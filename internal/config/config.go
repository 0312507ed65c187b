// Package config loads practiceplan tunables from config.yaml and PRACTICEPLAN_*
// environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"practiceplan-cli/internal/dnd"
	"practiceplan-cli/internal/history"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envPrefix      = "PRACTICEPLAN"

	KeyMinStartInterval    = "drag.min_start_interval"
	KeyMinDragOverInterval = "drag.min_dragover_interval"
	KeySampleEvery         = "history.sample_every"
	KeyMaxEntries          = "history.max_entries"
	KeySweepDelays         = "indicators.sweep_delays"
	KeyLogLevel            = "log.level"
	KeyDataDir             = "data_dir"
)

const defaultConfigTemplate = `# practiceplan configuration

drag:
  min_start_interval: %s
  min_dragover_interval: %s

history:
  # Record every Nth successful drop.
  sample_every: %d
  max_entries: %d

indicators:
  sweep_delays: [%s]

log:
  level: %s

# Workspace directory (optional; --dir wins)
# data_dir:
`

const defaultLogLevel = "info"

// defaultConfigYAML renders the same defaults newViper seeds.
func defaultConfigYAML() string {
	o := dnd.DefaultOptions()
	return fmt.Sprintf(defaultConfigTemplate,
		o.MinStartInterval, o.MinDragOverInterval,
		o.HistorySampleEvery, history.DefaultMaxEntries,
		strings.Join(durationStrings(o.SweepDelays), ", "),
		defaultLogLevel)
}

func durationStrings(ds []time.Duration) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.String())
	}
	return out
}

type Config struct {
	MinStartInterval    time.Duration
	MinDragOverInterval time.Duration
	HistorySampleEvery  int
	HistoryMaxEntries   int
	SweepDelays         []time.Duration
	LogLevel            string
	DataDir             string
}

func newViper() *viper.Viper {
	v := viper.New()
	o := dnd.DefaultOptions()
	v.SetDefault(KeyMinStartInterval, o.MinStartInterval.String())
	v.SetDefault(KeyMinDragOverInterval, o.MinDragOverInterval.String())
	v.SetDefault(KeySampleEvery, o.HistorySampleEvery)
	v.SetDefault(KeyMaxEntries, history.DefaultMaxEntries)
	v.SetDefault(KeySweepDelays, durationStrings(o.SweepDelays))
	v.SetDefault(KeyLogLevel, defaultLogLevel)
	v.SetDefault(KeyDataDir, "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads config.yaml from configDir. A missing file or directory is not an error.
func Load(configDir string) (*Config, error) {
	v := newViper()
	if strings.TrimSpace(configDir) != "" {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(configDir)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	delays, err := parseDelays(v.GetStringSlice(KeySweepDelays))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", KeySweepDelays, err)
	}
	c := &Config{
		MinStartInterval:    v.GetDuration(KeyMinStartInterval),
		MinDragOverInterval: v.GetDuration(KeyMinDragOverInterval),
		HistorySampleEvery:  v.GetInt(KeySampleEvery),
		HistoryMaxEntries:   v.GetInt(KeyMaxEntries),
		SweepDelays:         delays,
		LogLevel:            strings.TrimSpace(v.GetString(KeyLogLevel)),
		DataDir:             strings.TrimSpace(v.GetString(KeyDataDir)),
	}
	if c.MinStartInterval < 0 || c.MinDragOverInterval < 0 {
		return nil, fmt.Errorf("drag intervals must not be negative")
	}
	if c.HistorySampleEvery < 0 {
		return nil, fmt.Errorf("%s must not be negative", KeySampleEvery)
	}
	return c, nil
}

// parseDelays accepts a YAML list or a single comma separated value (env vars).
func parseDelays(raw []string) ([]time.Duration, error) {
	var out []time.Duration
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			d, err := time.ParseDuration(part)
			if err != nil {
				return nil, err
			}
			if d < 0 {
				return nil, fmt.Errorf("negative delay %s", part)
			}
			out = append(out, d)
		}
	}
	return out, nil
}

func (c *Config) EngineOptions() dnd.Options {
	return dnd.Options{
		MinStartInterval:    c.MinStartInterval,
		MinDragOverInterval: c.MinDragOverInterval,
		HistorySampleEvery:  c.HistorySampleEvery,
		SweepDelays:         append([]time.Duration(nil), c.SweepDelays...),
	}
}

// WriteDefault creates configDir/config.yaml unless it already exists.
func WriteDefault(configDir string) (string, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("ensure config dir: %w", err)
	}
	path := filepath.Join(configDir, configFileExt)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("stat config file: %w", err)
	}
	return path, os.WriteFile(path, []byte(defaultConfigYAML()), 0o644)
}
