package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "face_attendance", cfg.Database.DBName)
	assert.Equal(t, "student_images", cfg.Storage.ImageDir)
	assert.Equal(t, "trained_model.yml", cfg.Storage.ModelPath)
	assert.Equal(t, "label_names.txt", cfg.Storage.LabelNamesPath)
	assert.Equal(t, "attendance.xlsx", cfg.Storage.LedgerPath)
	assert.Equal(t, 0, cfg.Recognition.CameraDevice)
	assert.Equal(t, 80.0, cfg.Recognition.ConfidenceThreshold)
	assert.False(t, cfg.Recognition.DisplayEnabled)
	assert.Equal(t, 120, cfg.External.TimeoutSeconds)
	assert.Empty(t, cfg.External.Command)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("CAMERA_DEVICE", "2")
	t.Setenv("CONFIDENCE_THRESHOLD", "65.5")
	t.Setenv("DISPLAY_ENABLED", "true")
	t.Setenv("EXTERNAL_TIMEOUT_SECONDS", "30")
	t.Setenv("EXTERNAL_COMMAND", "python3")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 2, cfg.Recognition.CameraDevice)
	assert.Equal(t, 65.5, cfg.Recognition.ConfidenceThreshold)
	assert.True(t, cfg.Recognition.DisplayEnabled)
	assert.Equal(t, 30, cfg.External.TimeoutSeconds)
	assert.Equal(t, "python3", cfg.External.Command)
}
