// Package http is the JSON origin for the dashboard frontend. It exposes
// the hub readers and writers over gin, with per-client rate limiting and
// an SSE stream of live summary snapshots.
package http

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"sensoria.xyz/data-hub/pkg/hub"
	"sensoria.xyz/data-hub/pkg/limiter"
	"sensoria.xyz/data-hub/pkg/livesync"
)

type RestfulServer struct {
	Server           *gin.Engine
	Hub              *hub.Hub
	Presence         *livesync.PresenceTracker
	RateLimiterStore *limiter.RateLimiterStore
}

func (rs *RestfulServer) GetLimiter(clientKey string) *rate.Limiter {
	if rs.RateLimiterStore == nil {
		return nil
	} else {
		return rs.RateLimiterStore.GetLimiter(clientKey)
	}
}

func (rs *RestfulServer) CheckClientLimiter(clientKey string) bool {
	limiter := rs.GetLimiter(clientKey)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

func (rs *RestfulServer) Setup() {
	rs.Server.GET("/healthz", rs.HealthCheck)

	api := rs.Server.Group("/api")
	{
		api.GET("/devices", rs.GetDevices)
		api.POST("/devices", rs.PostDevice)
		api.DELETE("/devices/:device_id", rs.DeleteDevice)
		api.GET("/sensor-data", rs.GetSensorData)
		api.GET("/sensor-data/latest", rs.GetLatestSensorData)
		api.GET("/alert-settings", rs.GetAlertSettings)
		api.POST("/alert-settings", rs.PostAlertSettings)
		api.GET("/status", rs.GetStatus)
		api.GET("/stream", rs.GetStream)
	}
}
