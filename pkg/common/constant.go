package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeyBackendMode   string = "SENSORIA_BACKEND_MODE"
	EnvKeyBackendURL    string = "SENSORIA_BACKEND_URL"
	EnvKeyBackendAPIKey string = "SENSORIA_BACKEND_API_KEY"

	EnvKeyRedisAddr     string = "SENSORIA_REDIS_ADDR"
	EnvKeyRedisPassword string = "SENSORIA_REDIS_PASSWORD"
	EnvKeyRedisDB       string = "SENSORIA_REDIS_DB"

	EnvKeyDbPath        string = "SENSORIA_DB_PATH"
	EnvKeyLocalSimulate string = "SENSORIA_LOCAL_SIMULATE"

	EnvKeyHttpHostPort string = "SENSORIA_HTTP_HOST_PORT"

	EnvKeyDefaultRate  string = "SENSORIA_DEFAULT_RATE"
	EnvKeyDefaultBurst string = "SENSORIA_DEFAULT_BURST"

	LoggerNameHubCore       string = "hub_core"
	LoggerNameQueryCache    string = "query_cache"
	LoggerNameLiveSync      string = "live_sync"
	LoggerNameBackendRest   string = "backend_rest"
	LoggerNameBackendRedis  string = "backend_redis"
	LoggerNameBackendLocal  string = "backend_local"
	LoggerNameRestfulServer string = "restful_server"

	LoggerFieldHubCategory    string = "category"
	LoggerCategoryHubDevices  string = "devices"
	LoggerCategoryHubSensors  string = "sensors"
	LoggerCategoryHubAlerts   string = "alerts"
	LoggerCategoryHubPresence string = "presence"
)
