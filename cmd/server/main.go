package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"sensoria.xyz/data-hub/pkg/backend"
	"sensoria.xyz/data-hub/pkg/common"
	"sensoria.xyz/data-hub/pkg/db"
	"sensoria.xyz/data-hub/pkg/hub"
	hubHttp "sensoria.xyz/data-hub/pkg/http"
	"sensoria.xyz/data-hub/pkg/limiter"
	"sensoria.xyz/data-hub/pkg/livesync"
	"sensoria.xyz/data-hub/pkg/models"
	"sensoria.xyz/data-hub/pkg/querycache"
)

func main() {
	var err error

	err = godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file, copy .env.example to .env first if in development")
	}

	logger := common.GetLogger()

	var store backend.Store
	var realtime backend.Realtime

	mode := strings.TrimSpace(os.Getenv(common.EnvKeyBackendMode))
	switch mode {
	case "rest":
		baseURL := strings.TrimSpace(os.Getenv(common.EnvKeyBackendURL))
		if baseURL == "" {
			log.Fatal("SENSORIA_BACKEND_URL must be set when SENSORIA_BACKEND_MODE=rest")
		}
		store = backend.NewRestStore(baseURL, os.Getenv(common.EnvKeyBackendAPIKey))

		redisDB := 0
		if raw := os.Getenv(common.EnvKeyRedisDB); raw != "" {
			if redisDB, err = strconv.Atoi(raw); err != nil {
				log.Fatal("Invalid SENSORIA_REDIS_DB, should be an int value")
			}
		}
		client := redis.NewClient(&redis.Options{
			Addr:     os.Getenv(common.EnvKeyRedisAddr),
			Password: os.Getenv(common.EnvKeyRedisPassword),
			DB:       redisDB,
		})
		realtime = backend.NewRedisRealtime(client)
	case "local":
		dbInstance := db.GetInstance(db.UseSqliteDialector())
		if err = dbInstance.SeedDefaults(); err != nil {
			log.Fatalf("failed to seed local database: %v", err)
		}
		broker := backend.NewBroker()
		store = backend.NewLocalStore(dbInstance, broker)
		realtime = broker
	default:
		log.Fatal("Unknown SENSORIA_BACKEND_MODE: " + mode)
	}

	var defaultRate float64
	var defaultBurst int64

	if defaultRate, err = strconv.ParseFloat(os.Getenv(common.EnvKeyDefaultRate), 64); err != nil {
		log.Fatal("Invalid SENSORIA_DEFAULT_RATE, or not set in .env, should be a float64 value")
	}

	if defaultBurst, err = strconv.ParseInt(os.Getenv(common.EnvKeyDefaultBurst), 10, 64); err != nil {
		log.Fatal("Invalid SENSORIA_DEFAULT_BURST, or not set in .env, should be an int value")
	}

	cache := querycache.New(querycache.DefaultRetention)
	binder := livesync.NewBinder(realtime, cache)

	hubCore := hub.Hub{
		Store:  store,
		Cache:  cache,
		Binder: binder,
	}
	hubCore.WithServices(hub.ServiceOpts{
		Devices: hubCore.GetIDevices(),
		Sensors: hubCore.GetISensors(),
		Alerts:  hubCore.GetIAlerts(),
	})

	presence := livesync.NewPresenceTracker(realtime)
	if err = presence.Start(context.Background()); err != nil {
		logger.Warn("Presence channel unavailable", zap.Error(err))
	}

	if mode == "local" && os.Getenv(common.EnvKeyLocalSimulate) == "true" {
		logger.Info("Starting local sample simulator")
		go simulateSamples(store, logger)
	}

	httpHostPort := strings.TrimSpace(os.Getenv(common.EnvKeyHttpHostPort))
	if httpHostPort == "" {
		// fallback to default http port
		httpHostPort = ":1080"
	}

	rs := &hubHttp.RestfulServer{
		Server:           gin.Default(),
		Hub:              &hubCore,
		Presence:         presence,
		RateLimiterStore: limiter.NewRateLimiterStore(rate.Limit(defaultRate), int(defaultBurst)),
	}
	rs.Setup()

	logger.Info("http server created with:",
		zap.String("default_limiter",
			fmt.Sprintf("{\"default_rate\": %v, \"default_burst\": %v}", defaultRate, defaultBurst)))

	logger.Info("Starting HTTP server on: " + httpHostPort)
	if err := rs.Server.Run(httpHostPort); err != nil {
		log.Fatalf("http server failed to serve: %v", err)
	}
}

// simulateSamples inserts one synthetic reading every 5s through the
// store, driving the full change-feed path end to end.
func simulateSamples(store backend.Store, logger *zap.Logger) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)

		devices, err := store.Select(ctx, models.TableDevices, backend.Query{})
		if err != nil || len(devices) == 0 {
			cancel()
			continue
		}
		device := devices[rand.Intn(len(devices))]

		_, err = store.Insert(ctx, models.TableSensorData, backend.Row{
			"device_id":   device["id"],
			"timestamp":   time.Now().UTC(),
			"temperature": 20 + rand.Float64()*8,
			"humidity":    35 + rand.Float64()*20,
			"pressure":    1000 + rand.Float64()*25,
			"light":       rand.Intn(600),
			"motion":      rand.Intn(10) == 0,
		})
		cancel()

		if err != nil {
			logger.Warn("Simulated sample insert failed", zap.Error(err))
		}
	}
}
