package http

import (
	"net/http"
	"strconv"
	"time"

	"sensoria.xyz/data-hub/pkg/backend"
	"sensoria.xyz/data-hub/pkg/hub"
	"sensoria.xyz/data-hub/pkg/view"

	"github.com/gin-gonic/gin"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
)

const defaultWindowHours = 24

// streamTick paces SSE summary emission when no change arrives.
const streamTick = 5 * time.Second

func statusFor(err error) int {
	switch {
	case backend.IsValidation(err):
		return http.StatusBadRequest
	case backend.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (rs *RestfulServer) GetDevices(c *gin.Context) {
	if !rs.CheckClientLimiter(c.ClientIP()) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	devices, err := rs.Hub.Devices.List(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, devices)
}

type DeviceRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Type     string `json:"type"`
}

var deviceRequestSchema = z.Struct(z.Shape{
	"Name":     z.String().Min(1).Required(),
	"Type":     z.String().Min(1).Required(),
	"Location": z.String().Optional(),
})

func (rs *RestfulServer) PostDevice(c *gin.Context) {
	if !rs.CheckClientLimiter(c.ClientIP()) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	var req DeviceRequest
	if err := deviceRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	device, err := rs.Hub.Devices.Add(c.Request.Context(), hub.AddDeviceInput{
		Name:     req.Name,
		Location: req.Location,
		Type:     req.Type,
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, device)
}

func (rs *RestfulServer) DeleteDevice(c *gin.Context) {
	if !rs.CheckClientLimiter(c.ClientIP()) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	deviceID := c.Param("device_id")
	if err := rs.Hub.Devices.Delete(c.Request.Context(), deviceID); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusOK)
}

func (rs *RestfulServer) GetSensorData(c *gin.Context) {
	if !rs.CheckClientLimiter(c.ClientIP()) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	hours := defaultWindowHours
	if raw := c.Query("hours"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "hours must be an integer"})
			return
		}
		hours = parsed
	}

	points, err := rs.Hub.Sensors.Window(c.Request.Context(), hours)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, points)
}

func (rs *RestfulServer) GetLatestSensorData(c *gin.Context) {
	if !rs.CheckClientLimiter(c.ClientIP()) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	point, err := rs.Hub.Sensors.Latest(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, point)
}

func (rs *RestfulServer) GetAlertSettings(c *gin.Context) {
	if !rs.CheckClientLimiter(c.ClientIP()) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	settings, err := rs.Hub.Alerts.Get(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, settings)
}

type AlertSettingsRequest struct {
	ID                   string   `json:"id"`
	EmailAlerts          *bool    `json:"email_alerts"`
	TemperatureThreshold *float64 `json:"temperature_threshold"`
	HumidityThreshold    *float64 `json:"humidity_threshold"`
}

var alertSettingsRequestSchema = z.Struct(z.Shape{
	"ID": z.String().Min(1).Required(),
})

func (rs *RestfulServer) PostAlertSettings(c *gin.Context) {
	if !rs.CheckClientLimiter(c.ClientIP()) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	var req AlertSettingsRequest
	if err := alertSettingsRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	settings, err := rs.Hub.Alerts.Update(c.Request.Context(), hub.UpdateAlertSettingsInput{
		ID:                   req.ID,
		EmailAlerts:          req.EmailAlerts,
		TemperatureThreshold: req.TemperatureThreshold,
		HumidityThreshold:    req.HumidityThreshold,
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, settings)
}

func (rs *RestfulServer) GetStatus(c *gin.Context) {
	if !rs.CheckClientLimiter(c.ClientIP()) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	connected := false
	count := 0
	if rs.Presence != nil {
		connected = rs.Presence.IsConnected()
		count = rs.Presence.ConnectionCount()
	}

	c.JSON(http.StatusOK, gin.H{
		"connected":        connected,
		"connection_count": count,
	})
}

// GetStream pushes the dashboard summary over SSE: one event on connect,
// then one whenever the underlying window, latest sample or device list
// changes, with a keepalive tick in between.
func (rs *RestfulServer) GetStream(c *gin.Context) {
	if !rs.CheckClientLimiter(c.ClientIP()) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	hours := defaultWindowHours
	if raw := c.Query("hours"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "hours must be an integer"})
			return
		}
		hours = parsed
	}

	ctx := c.Request.Context()

	windowSub, err := rs.Hub.Sensors.SubscribeWindow(ctx, hours)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	defer windowSub.Close()

	latestSub, err := rs.Hub.Sensors.SubscribeLatest(ctx)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	defer latestSub.Close()

	devicesSub, err := rs.Hub.Devices.Subscribe(ctx)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	defer devicesSub.Close()

	var window []view.SensorPoint
	var latest view.SensorPoint
	var devices []view.DeviceView

	ticker := time.NewTicker(streamTick)
	defer ticker.Stop()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")

	for {
		select {
		case <-ctx.Done():
			return
		case snap := <-windowSub.Updates():
			if points, ok := snap.Data.([]view.SensorPoint); ok {
				window = points
			}
		case snap := <-latestSub.Updates():
			if point, ok := snap.Data.(view.SensorPoint); ok {
				latest = point
			}
		case snap := <-devicesSub.Updates():
			if list, ok := snap.Data.([]view.DeviceView); ok {
				devices = list
			}
		case <-ticker.C:
		}

		c.SSEvent("summary", view.BuildSummary(window, latest, devices))
		c.Writer.Flush()
	}
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
