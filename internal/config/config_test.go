package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "config_test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	tempConfigsSubDir := filepath.Join(tempDir, "configs")
	require.NoError(t, os.Mkdir(tempConfigsSubDir, 0755))

	envContent := fmt.Sprintf(
		"APP_NAME=%s\nSERVER_PORT=%d\nLOG_LEVEL=%s\nSETTLEMENT_LATE_FEE_PER_DAY=%s\n",
		"carfleet-test", 9090, "debug", "75.00",
	)
	envFilePath := filepath.Join(tempConfigsSubDir, "test_load.env")
	require.NoError(t, os.WriteFile(envFilePath, []byte(envContent), 0644))

	originalWD, err := os.Getwd()
	require.NoError(t, err)
	defer func() {
		_ = os.Chdir(originalWD)
	}()
	require.NoError(t, os.Chdir(tempDir))

	cfg, err := LoadConfig("test_load")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "carfleet-test", cfg.Application.Name)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "75.00", cfg.Settlement.LateFeePerDay.String())

	// Defaults fill in everything the file doesn't set
	assert.Equal(t, "development", cfg.Application.Env)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "100.00", cfg.Settlement.BadConditionFee.String())
	assert.Equal(t, "settlement_events", cfg.Kafka.SettlementTopic)
	assert.Equal(t, "settlement_events_dlq", cfg.Kafka.DLQTopic)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
	assert.Equal(t, 10, cfg.WorkerPool.Size)
}

func TestLoadConfig_DefaultsOnly(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "config_test_defaults")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	originalWD, err := os.Getwd()
	require.NoError(t, err)
	defer func() {
		_ = os.Chdir(originalWD)
	}()
	require.NoError(t, os.Chdir(tempDir))

	cfg, err := LoadConfig("does_not_exist")
	require.NoError(t, err)

	assert.Equal(t, "50.00", cfg.Settlement.LateFeePerDay.String())
	assert.Equal(t, "100.00", cfg.Settlement.BadConditionFee.String())
	assert.NoError(t, cfg.validate())
}
