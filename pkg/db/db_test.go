package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sensoria.xyz/data-hub/pkg/models"
	_ "sensoria.xyz/data-hub/pkg/testing"
)

func TestGetInstanceIsSingleton(t *testing.T) {
	first := GetInstance(UseMemorySqliteDialector())
	second := GetInstance(UseMemorySqliteDialector())
	assert.Same(t, first, second)
}

func TestSeedDefaults(t *testing.T) {
	d := GetInstance(UseMemorySqliteDialector())
	require.NoError(t, d.SeedDefaults())

	var devices []models.Device
	require.NoError(t, d.Conn.Where("id LIKE ?", "sensor_100%").Order("id asc").Find(&devices).Error)
	require.Len(t, devices, 4)
	assert.Equal(t, "sensor_1001", devices[0].ID)
	assert.Equal(t, models.DeviceStatusOnline, devices[0].Status)
	assert.Equal(t, models.DeviceTypeSecurity, devices[3].Type)

	var settings models.AlertSettings
	require.NoError(t, d.Conn.First(&settings).Error)
	assert.Equal(t, 30.0, settings.TemperatureThreshold)
	assert.Equal(t, 70.0, settings.HumidityThreshold)
	assert.False(t, settings.EmailAlerts)

	// Seeding twice must not duplicate rows
	require.NoError(t, d.SeedDefaults())
	var settingsCount int64
	require.NoError(t, d.Conn.Model(&models.AlertSettings{}).Count(&settingsCount).Error)
	assert.Equal(t, int64(1), settingsCount)
}
