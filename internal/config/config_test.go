package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 115200, cfg.BaudRate)
	assert.Equal(t, "Span Gateway 2.0.0 span-gateway", cfg.Marker)
	assert.Equal(t, 770, cfg.TotalSeconds)
	assert.Equal(t, 10, cfg.TickSeconds)
	assert.Equal(t, 100*time.Millisecond, cfg.PollInterval())
	assert.Equal(t, 770*time.Second, cfg.ProgressTotal())
	assert.Equal(t, 10*time.Second, cfg.ProgressTick())
	assert.Equal(t, ".flashmon", cfg.DataDir)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"baud-rate": 9600, "marker": "FLASH OK", "log-level": "debug"}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9600, cfg.BaudRate)
	assert.Equal(t, "FLASH OK", cfg.Marker)
	assert.Equal(t, "debug", cfg.LogLevel)
	// Untouched fields keep their defaults.
	assert.Equal(t, 770, cfg.TotalSeconds)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"zero baud":         `{"baud-rate": 0}`,
		"negative poll":     `{"poll-ms": -1}`,
		"zero total":        `{"progress-total-seconds": 0}`,
		"tick beyond total": `{"progress-total-seconds": 10, "progress-tick-seconds": 20}`,
		"empty marker":      `{"marker": ""}`,
		"zero refresh":      `{"refresh-hz": 0}`,
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestRefreshIntervalThrottled(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	// 30 Hz default: fast enough for a human, cheap for the terminal.
	assert.Equal(t, time.Second/30, cfg.RefreshInterval())
}
