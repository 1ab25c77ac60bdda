package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(path, []byte(`
keyword: click
maxImageSize: 800
ttsVolume: 0.5
journalEnabled: true
exitKeywords: [exit, quit]
modelTimeout: 1500
`), 0o644)
	require.NoError(t, err)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "click", config.GetString("keyword"))
	assert.Equal(t, 800, config.GetIntOrDefault("maxImageSize", 1024))
	assert.InDelta(t, 0.5, config.GetFloatOrDefault("ttsVolume", 0.9), 1e-9)
	assert.True(t, config.GetBoolOrDefault("journalEnabled", false))
	assert.Equal(t, []string{"exit", "quit"}, config.GetStringSliceOrDefault("exitKeywords", nil))
	assert.Equal(t, 1500*time.Millisecond, config.GetDurationOrDefault("modelTimeout", time.Second))
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigDefaults(t *testing.T) {
	config := NewConfig(map[string]any{
		"name":    42,
		"count":   "not a number",
		"volume":  1,
		"enabled": "yes",
		"words":   []any{1, 2},
	})

	assert.Equal(t, "", config.GetString("name"))
	assert.Equal(t, "fallback", config.GetStringOrDefault("missing", "fallback"))
	assert.Equal(t, 7, config.GetIntOrDefault("count", 7))
	assert.InDelta(t, 1.0, config.GetFloatOrDefault("volume", 0.9), 1e-9)
	assert.False(t, config.GetBoolOrDefault("enabled", false))
	assert.Equal(t, []string{"stop"}, config.GetStringSliceOrDefault("words", []string{"stop"}))
	assert.Equal(t, 2*time.Second, config.GetDurationOrDefault("missing", 2*time.Second))
}

func TestConfigExpandsEnvironment(t *testing.T) {
	t.Setenv("VISTA_TEST_KEY", "secret")
	config := NewConfig(map[string]any{"apiKey": "${VISTA_TEST_KEY}"})

	assert.Equal(t, "secret", config.GetString("apiKey"))
}
