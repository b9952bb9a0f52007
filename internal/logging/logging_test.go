package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"foodrec/internal/config"
)

func TestNew(t *testing.T) {
	tests := map[string]struct {
		cfg       config.LogConfig
		verbose   bool
		wantLevel zapcore.Level
		wantErr   bool
	}{
		"info-level":           {cfg: config.LogConfig{Level: "info"}, wantLevel: zapcore.InfoLevel},
		"verbose-forces-debug": {cfg: config.LogConfig{Level: "warn"}, verbose: true, wantLevel: zapcore.DebugLevel},
		"development-config":   {cfg: config.LogConfig{Level: "error", Development: true}, wantLevel: zapcore.ErrorLevel},
		"invalid-level":        {cfg: config.LogConfig{Level: "loud"}, wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			l, err := New(tt.cfg, tt.verbose)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLevel, l.Level())
		})
	}
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foodrec.log")
	l, err := New(config.LogConfig{Level: "info", File: path}, false)
	require.NoError(t, err)

	l.Info("indexed documents")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "indexed documents")
}

func TestNewForTerminal(t *testing.T) {
	t.Run("no-file-discards", func(t *testing.T) {
		l, err := NewForTerminal(config.LogConfig{Level: "debug"}, true)
		require.NoError(t, err)
		assert.False(t, l.Core().Enabled(zapcore.ErrorLevel))
	})
	t.Run("file-logs", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tui.log")
		l, err := NewForTerminal(config.LogConfig{Level: "info", File: path}, false)
		require.NoError(t, err)
		l.Warn("filter extraction failed")
		_ = l.Sync()

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "filter extraction failed")
	})
}
