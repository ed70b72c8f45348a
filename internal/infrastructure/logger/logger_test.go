package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{
			name: "json to stdout",
			cfg:  Config{Level: "info", Format: "json", Output: "stdout", TimeFormat: "2006-01-02T15:04:05Z07:00"},
		},
		{
			name: "console to stderr",
			cfg:  Config{Level: "debug", Format: "console", Output: "stderr", TimeFormat: "15:04:05"},
		},
		{
			name: "unknown level falls back to info",
			cfg:  Config{Level: "chatty", Format: "json", Output: "stdout", TimeFormat: "15:04:05"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(&tt.cfg)
			require.NoError(t, err)
			require.NotNil(t, log)
		})
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	log, err := New(&Config{Level: "info", Format: "json", Output: path, TimeFormat: "15:04:05"})
	require.NoError(t, err)

	log.Info("written to file")
	require.NoError(t, Sync(log))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestNew_UnwritableFileFallsBackToStdout(t *testing.T) {
	log, err := New(&Config{Level: "info", Format: "json", Output: "/nonexistent-dir/app.log", TimeFormat: "15:04:05"})
	require.NoError(t, err)
	require.NotNil(t, log)
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"", zapcore.InfoLevel},
		{"TRACE", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, levelFor(tt.level))
		})
	}
}
