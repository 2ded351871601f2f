package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitLogger_WritesJSONFile(t *testing.T) {
	chdir(t, t.TempDir())

	logger, err := InitLogger("test", Options{})
	require.NoError(t, err)

	logger.Debug("matched plan", zap.String("plan_id", "p-1"))
	_ = logger.Sync()

	files, err := filepath.Glob(filepath.Join(logsDir, "test_*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "matched plan", entry["msg"])
	assert.Equal(t, "p-1", entry["plan_id"])
	assert.Contains(t, entry, "timestamp")
}

func TestInitLogger_NoFile(t *testing.T) {
	chdir(t, t.TempDir())

	logger, err := InitLogger("test", Options{NoFile: true, Verbose: true})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	_, err = os.Stat(logsDir)
	assert.True(t, os.IsNotExist(err))
}
