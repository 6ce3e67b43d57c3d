// Package view projects raw backend rows into UI-shaped records. All
// coercion of nullable and dynamically typed columns happens here, so the
// rest of the system only ever sees validated values. No I/O, no state.
package view

import (
	"fmt"
	"strconv"
	"time"

	"sensoria.xyz/data-hub/pkg/backend"
	"sensoria.xyz/data-hub/pkg/common"
	"sensoria.xyz/data-hub/pkg/models"
)

type SensorPoint struct {
	ID          string    `json:"id"`
	DeviceID    string    `json:"device_id"`
	Timestamp   time.Time `json:"timestamp"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	Pressure    float64   `json:"pressure"`
	Light       int       `json:"light"`
	Motion      bool      `json:"motion"`
}

func SensorPointFromRow(row backend.Row) SensorPoint {
	return SensorPoint{
		ID:          asString(row["id"]),
		DeviceID:    asString(row["device_id"]),
		Timestamp:   asTime(row["timestamp"]),
		Temperature: asFloat(row["temperature"]),
		Humidity:    asFloat(row["humidity"]),
		Pressure:    asFloat(row["pressure"]),
		Light:       asInt(row["light"]),
		Motion:      asBool(row["motion"]),
	}
}

type DeviceView struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Location string              `json:"location"`
	Type     models.DeviceType   `json:"type"`
	Status   models.DeviceStatus `json:"status"`
	LastSeen time.Time           `json:"last_seen"`
}

func DeviceFromRow(row backend.Row) DeviceView {
	return DeviceView{
		ID:       asString(row["id"]),
		Name:     asString(row["name"]),
		Location: asString(row["location"]),
		Type:     models.DeviceType(asString(row["type"])),
		Status:   models.DeviceStatus(asString(row["status"])),
		LastSeen: asTime(row["last_seen"]),
	}
}

type AlertSettingsView struct {
	ID                   string    `json:"id"`
	EmailAlerts          bool      `json:"email_alerts"`
	TemperatureThreshold float64   `json:"temperature_threshold"`
	HumidityThreshold    float64   `json:"humidity_threshold"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func AlertSettingsFromRow(row backend.Row) AlertSettingsView {
	return AlertSettingsView{
		ID:                   asString(row["id"]),
		EmailAlerts:          asBool(row["email_alerts"]),
		TemperatureThreshold: asFloat(row["temperature_threshold"]),
		HumidityThreshold:    asFloat(row["humidity_threshold"]),
		CreatedAt:            asTime(row["created_at"]),
		UpdatedAt:            asTime(row["updated_at"]),
	}
}

type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendNone Trend = "none"
)

// MetricChange is the latest value minus the previous window sample.
type MetricChange struct {
	Value float64 `json:"value"`
	Trend Trend   `json:"trend"`
}

func changeBetween(latest, previous float64) MetricChange {
	delta := latest - previous
	trend := TrendNone
	switch {
	case delta > 0:
		trend = TrendUp
	case delta < 0:
		trend = TrendDown
	}
	return MetricChange{Value: delta, Trend: trend}
}

// Summary is the dashboard header: the latest reading with per-metric
// change against the second-to-last sample of the window, plus device
// availability.
type Summary struct {
	Latest            SensorPoint  `json:"latest"`
	TemperatureChange MetricChange `json:"temperature_change"`
	HumidityChange    MetricChange `json:"humidity_change"`
	PressureChange    MetricChange `json:"pressure_change"`
	LightChange       MetricChange `json:"light_change"`
	ActiveDevices     int          `json:"active_devices"`
	TotalDevices      int          `json:"total_devices"`
}

func BuildSummary(window []SensorPoint, latest SensorPoint, devices []DeviceView) Summary {
	s := Summary{Latest: latest, TotalDevices: len(devices)}

	s.TemperatureChange = MetricChange{Trend: TrendNone}
	s.HumidityChange = MetricChange{Trend: TrendNone}
	s.PressureChange = MetricChange{Trend: TrendNone}
	s.LightChange = MetricChange{Trend: TrendNone}
	if len(window) > 1 {
		previous := window[len(window)-2]
		s.TemperatureChange = changeBetween(latest.Temperature, previous.Temperature)
		s.HumidityChange = changeBetween(latest.Humidity, previous.Humidity)
		s.PressureChange = changeBetween(latest.Pressure, previous.Pressure)
		s.LightChange = changeBetween(float64(latest.Light), float64(previous.Light))
	}

	s.ActiveDevices = common.Reducer(devices, func(acc int, d DeviceView) int {
		if d.Status != models.DeviceStatusOffline {
			return acc + 1
		}
		return acc
	}, 0)
	return s
}

// FormatLastSeen renders a device's last-seen instant relative to now.
func FormatLastSeen(t time.Time, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	elapsed := now.Sub(t)
	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		return fmt.Sprintf("%dm ago", int(elapsed.Minutes()))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(elapsed.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(elapsed.Hours()/24))
	}
}

func asString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	default:
		return fmt.Sprint(val)
	}
}

func asFloat(v any) float64 {
	switch val := v.(type) {
	case nil:
		return 0
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case string:
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func asInt(v any) int {
	switch val := v.(type) {
	case nil:
		return 0
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return int(val)
	case string:
		i, err := strconv.Atoi(val)
		if err != nil {
			return 0
		}
		return i
	default:
		return 0
	}
}

func asBool(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case int64:
		return val != 0
	case float64:
		return val != 0
	case string:
		return val == "true" || val == "1"
	default:
		return false
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
}

func asTime(v any) time.Time {
	switch val := v.(type) {
	case nil:
		return time.Time{}
	case time.Time:
		return val
	case *time.Time:
		if val == nil {
			return time.Time{}
		}
		return *val
	case string:
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, val); err == nil {
				return t
			}
		}
		return time.Time{}
	default:
		return time.Time{}
	}
}
