package db

import (
	"log"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	constant "sensoria.xyz/data-hub/pkg/common"
	"sensoria.xyz/data-hub/pkg/models"
)

type DB struct {
	Conn *gorm.DB
}

var (
	instance *DB
	once     sync.Once
)

func GetInstance(dialector gorm.Dialector) *DB {
	var logger = constant.GetLogger()
	once.Do(func() {
		conn, err := gorm.Open(dialector, &gorm.Config{})
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}

		logger.Info("Connected to database with dialector:", zap.String("dialector", dialector.Name()))

		instance = &DB{Conn: conn}

		err = instance.Conn.AutoMigrate(&models.Device{}, &models.SensorSample{}, &models.AlertSettings{})
		if err != nil {
			log.Fatal("Failed to migrate database:", err)
		}

		logger.Info("Database migration completed")

		if err := instance.Conn.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			log.Fatal("Failed to enable sqlite foreign key support", err)
		}

		if err := instance.Conn.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
			log.Fatal("Failed to set sqlite journal mode", err)
		}
	})
	return instance
}

func UseSqliteDialector() gorm.Dialector {
	var dbPath string
	var found bool
	if dbPath, found = os.LookupEnv(constant.EnvKeyDbPath); !found {
		dbPath = "sensoria.db"
	}
	return sqlite.Open(dbPath)
}

func UseMemorySqliteDialector() gorm.Dialector {
	return sqlite.Open("file::memory:?cache=shared")
}

// SeedDefaults populates an empty local database with the canonical
// starter devices and the singleton alert settings row, so a fresh
// checkout renders a populated dashboard without a hosted backend.
func (d *DB) SeedDefaults() error {
	var deviceCount int64
	if err := d.Conn.Model(&models.Device{}).Count(&deviceCount).Error; err != nil {
		return err
	}
	if deviceCount == 0 {
		now := time.Now()
		hourAgo := now.Add(-1 * time.Hour)
		threeHoursAgo := now.Add(-3 * time.Hour)
		halfDayAgo := now.Add(-12 * time.Hour)
		seed := []models.Device{
			{ID: "sensor_1001", Name: "Living Room Sensor", Location: "Living Room", Type: models.DeviceTypeEnvironmental, Status: models.DeviceStatusOnline, LastSeen: &now},
			{ID: "sensor_1002", Name: "Kitchen Sensor", Location: "Kitchen", Type: models.DeviceTypeEnvironmental, Status: models.DeviceStatusOnline, LastSeen: &hourAgo},
			{ID: "sensor_1003", Name: "Bedroom Sensor", Location: "Bedroom", Type: models.DeviceTypeEnvironmental, Status: models.DeviceStatusWarning, LastSeen: &threeHoursAgo},
			{ID: "sensor_1004", Name: "Garage Sensor", Location: "Garage", Type: models.DeviceTypeSecurity, Status: models.DeviceStatusOffline, LastSeen: &halfDayAgo},
		}
		if err := d.Conn.Create(&seed).Error; err != nil {
			return err
		}
	}

	var settingsCount int64
	if err := d.Conn.Model(&models.AlertSettings{}).Count(&settingsCount).Error; err != nil {
		return err
	}
	if settingsCount == 0 {
		now := time.Now()
		settings := models.AlertSettings{
			ID:                   "00000000-0000-0000-0000-000000000001",
			EmailAlerts:          false,
			TemperatureThreshold: 30.0,
			HumidityThreshold:    70.0,
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		if err := d.Conn.Create(&settings).Error; err != nil {
			return err
		}
	}

	return nil
}
