package logger

import (
	"class_tracker/internal/config"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want zapcore.Level
	}{
		{name: "debug mode", cfg: config.Config{Server: config.ServerConfig{Mode: "debug"}}, want: zap.DebugLevel},
		{name: "release mode", cfg: config.Config{Server: config.ServerConfig{Mode: "release"}}, want: zap.InfoLevel},
		{name: "explicit level wins", cfg: config.Config{Server: config.ServerConfig{Mode: "debug"}, Log: config.LogConfig{Level: "warn"}}, want: zap.WarnLevel},
		{name: "unknown level ignored", cfg: config.Config{Server: config.ServerConfig{Mode: "release"}, Log: config.LogConfig{Level: "loud"}}, want: zap.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Level(&tt.cfg))
		})
	}
}

func TestNew_WritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log := New(&config.Config{
		Server: config.ServerConfig{Mode: "release"},
		Log:    config.LogConfig{File: path, MaxSizeMB: 1},
	})

	log.Debug("hidden")
	log.Info("Dictation scored", zap.String("source", "fallback"))
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "Dictation scored", entry["msg"])
	assert.Equal(t, "fallback", entry["source"])
	assert.Equal(t, "class-tracker", entry["service"])
	assert.Equal(t, "info", entry["level"])
}
