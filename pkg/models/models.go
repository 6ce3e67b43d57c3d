package models

import "time"

type DeviceStatus string

const (
	DeviceStatusOnline  DeviceStatus = "online"
	DeviceStatusOffline DeviceStatus = "offline"
	DeviceStatusWarning DeviceStatus = "warning"
)

type DeviceType string

const (
	DeviceTypeEnvironmental DeviceType = "Environmental"
	DeviceTypeSecurity      DeviceType = "Security"
	DeviceTypePower         DeviceType = "Power"
	DeviceTypeOther         DeviceType = "Other"
)

const (
	TableDevices       = "devices"
	TableSensorData    = "sensor_data"
	TableAlertSettings = "alert_settings"

	DefaultSchema = "public"
)

// Device mirrors the backend devices table. LastSeen is nullable.
type Device struct {
	ID       string       `gorm:"primaryKey;column:id" json:"id"`
	Name     string       `gorm:"not null" json:"name"`
	Location string       `json:"location"`
	Type     DeviceType   `gorm:"type:varchar(20);not null;check:type IN ('Environmental','Security','Power','Other')" json:"type"`
	Status   DeviceStatus `gorm:"type:varchar(10);check:status IN ('online','offline','warning')" json:"status"`
	LastSeen *time.Time   `gorm:"column:last_seen" json:"last_seen"`
}

func (Device) TableName() string { return TableDevices }

// SensorSample mirrors the backend sensor_data table. The measurement
// columns are nullable at the backend; coercion to zero values happens in
// the view adapters, not here.
type SensorSample struct {
	ID          string    `gorm:"primaryKey;column:id" json:"id"`
	DeviceID    string    `gorm:"index;column:device_id" json:"device_id"`
	Timestamp   time.Time `gorm:"index" json:"timestamp"`
	Temperature *float64  `json:"temperature"`
	Humidity    *float64  `json:"humidity"`
	Pressure    *float64  `json:"pressure"`
	Light       *int      `json:"light"`
	Motion      *bool     `json:"motion"`
}

func (SensorSample) TableName() string { return TableSensorData }

// AlertSettings is a singleton row at the backend.
type AlertSettings struct {
	ID                   string    `gorm:"primaryKey;column:id" json:"id"`
	EmailAlerts          bool      `gorm:"column:email_alerts" json:"email_alerts"`
	TemperatureThreshold float64   `json:"temperature_threshold"`
	HumidityThreshold    float64   `json:"humidity_threshold"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func (AlertSettings) TableName() string { return TableAlertSettings }

type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
	ChangeAll    ChangeType = "*"
)

// ChangeEvent is one row-level event from the backend change feed.
type ChangeEvent struct {
	Schema string         `json:"schema"`
	Table  string         `json:"table"`
	Event  ChangeType     `json:"event"`
	Row    map[string]any `json:"row,omitempty"`
}

// PresenceMeta is the state a viewer publishes when joining a presence
// channel.
type PresenceMeta struct {
	OnlineAt time.Time `json:"online_at"`
}

// PresenceState maps viewer ids to their published state.
type PresenceState map[string]PresenceMeta
