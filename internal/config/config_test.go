package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"practiceplan-cli/internal/dnd"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	c, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 100*time.Millisecond, c.MinStartInterval)
	assert.Equal(t, 40*time.Millisecond, c.MinDragOverInterval)
	assert.Equal(t, 5, c.HistorySampleEvery)
	assert.Equal(t, 50, c.HistoryMaxEntries)
	assert.Equal(t, []time.Duration{50 * time.Millisecond, 200 * time.Millisecond}, c.SweepDelays)
	assert.Equal(t, "info", c.LogLevel)
	assert.Empty(t, c.DataDir)
}

func TestLoad_DefaultsMatchEngine(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, dnd.DefaultOptions(), c.EngineOptions())
}

func TestLoad_FileOverrides(t *testing.T) {
	dir := t.TempDir()
	yaml := `drag:
  min_start_interval: 250ms
history:
  sample_every: 1
indicators:
  sweep_delays: [10ms]
log:
  level: debug
data_dir: /tmp/plans
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	c, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, c.MinStartInterval)
	assert.Equal(t, 40*time.Millisecond, c.MinDragOverInterval)
	assert.Equal(t, 1, c.HistorySampleEvery)
	assert.Equal(t, []time.Duration{10 * time.Millisecond}, c.SweepDelays)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, "/tmp/plans", c.DataDir)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PRACTICEPLAN_HISTORY_SAMPLE_EVERY", "2")
	t.Setenv("PRACTICEPLAN_LOG_LEVEL", "warn")

	c, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 2, c.HistorySampleEvery)
	assert.Equal(t, "warn", c.LogLevel)
}

func TestLoad_BadDelay(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("indicators:\n  sweep_delays: [soon]\n"), 0o644))

	_, err := Load(dir)
	assert.ErrorContains(t, err, KeySweepDelays)
}

func TestParseDelays(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []time.Duration
	}{
		{name: "list", in: []string{"50ms", "200ms"}, want: []time.Duration{50 * time.Millisecond, 200 * time.Millisecond}},
		{name: "comma separated", in: []string{"5ms, 1s"}, want: []time.Duration{5 * time.Millisecond, time.Second}},
		{name: "empty", in: nil, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDelays(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteDefault_Idempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cfg")

	path, err := WriteDefault(dir)
	require.NoError(t, err)
	require.FileExists(t, path)

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: error\n"), 0o644))
	_, err = WriteDefault(dir)
	require.NoError(t, err)

	c, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "error", c.LogLevel)
}

func TestWriteDefault_FileMatchesBuiltInDefaults(t *testing.T) {
	dir := t.TempDir()
	_, err := WriteDefault(dir)
	require.NoError(t, err)

	fromFile, err := Load(dir)
	require.NoError(t, err)
	builtIn, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, builtIn, fromFile)
	assert.Equal(t, dnd.DefaultOptions(), fromFile.EngineOptions())
}
