package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/shop-analytics/internal/config"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level   string
		verbose bool
		want    log.Level
	}{
		{"info", false, log.InfoLevel},
		{"debug", false, log.DebugLevel},
		{"warn", false, log.WarnLevel},
		{"error", false, log.ErrorLevel},
		{"error", true, log.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := newWithWriter(&buf, config.LogSettings{Level: tt.level}, tt.verbose)
			require.NoError(t, err)
			defer logger.Close()

			assert.Equal(t, tt.want, logger.GetLevel())
		})
	}
}

func TestNew_UnknownLevel(t *testing.T) {
	_, err := newWithWriter(&bytes.Buffer{}, config.LogSettings{Level: "loud"}, false)
	assert.Error(t, err)
}

func TestNew_WritesToFileAndConsole(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "analytics.log")

	logger, err := newWithWriter(&console, config.LogSettings{Level: "info", File: path}, false)
	require.NoError(t, err)

	logger.Warn("row skipped", "row", 3)
	require.NoError(t, logger.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Contains(t, string(content), "row skipped")
	assert.Contains(t, console.String(), "row skipped")
}

func TestClose_NoFile(t *testing.T) {
	logger, err := newWithWriter(&bytes.Buffer{}, config.LogSettings{}, false)
	require.NoError(t, err)
	assert.NoError(t, logger.Close())
	assert.NoError(t, logger.Close())
}
