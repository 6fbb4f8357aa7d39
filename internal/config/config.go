package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/match-tracker/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string

	// DBURL selects the backing store. An empty value runs the service
	// against seeded in-memory repositories (demo mode).
	DBURL string

	CORSAllowedOrigins []string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration

	BroadcastWorkers int

	ArbiterEnabled              bool
	ArbiterBaseURL              string
	ArbiterIntrospectPath       string
	ArbiterManagePath           string
	ArbiterTimeout              time.Duration
	ArbiterAnswerTTL            time.Duration
	ArbiterCircuitEnabled       bool
	ArbiterCircuitFailureCount  int
	ArbiterCircuitOpenTimeout   time.Duration
	ArbiterCircuitHalfOpenMax   int

	PprofEnabled bool
	PprofAddr    string

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	LogLevel logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	broadcastWorkers, err := getEnvAsInt("BROADCAST_WORKERS", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse BROADCAST_WORKERS: %w", err)
	}
	if broadcastWorkers < 1 {
		return Config{}, fmt.Errorf("BROADCAST_WORKERS must be >= 1")
	}

	arbiterEnabled, err := strconv.ParseBool(getEnv("ARBITER_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ARBITER_ENABLED: %w", err)
	}
	arbiterBaseURL := strings.TrimSpace(getEnv("ARBITER_BASE_URL", "http://localhost:8081"))
	if arbiterEnabled && arbiterBaseURL == "" {
		return Config{}, fmt.Errorf("ARBITER_BASE_URL is required when ARBITER_ENABLED=true")
	}
	arbiterTimeout, err := time.ParseDuration(getEnv("ARBITER_TIMEOUT", "3s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ARBITER_TIMEOUT: %w", err)
	}
	if arbiterTimeout <= 0 {
		return Config{}, fmt.Errorf("ARBITER_TIMEOUT must be > 0")
	}
	arbiterAnswerTTL, err := time.ParseDuration(getEnv("ARBITER_ANSWER_TTL", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ARBITER_ANSWER_TTL: %w", err)
	}
	if arbiterAnswerTTL <= 0 {
		return Config{}, fmt.Errorf("ARBITER_ANSWER_TTL must be > 0")
	}
	arbiterCircuitEnabled, err := strconv.ParseBool(getEnv("ARBITER_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ARBITER_CIRCUIT_ENABLED: %w", err)
	}
	arbiterCircuitFailureCount, err := getEnvAsInt("ARBITER_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse ARBITER_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if arbiterCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("ARBITER_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	arbiterCircuitOpenTimeout, err := time.ParseDuration(getEnv("ARBITER_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ARBITER_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if arbiterCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("ARBITER_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	arbiterCircuitHalfOpenMax, err := getEnvAsInt("ARBITER_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse ARBITER_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if arbiterCircuitHalfOpenMax < 1 {
		return Config{}, fmt.Errorf("ARBITER_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("APP_SERVICE_NAME", "match-tracker-api"),
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                   getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:                      strings.TrimSpace(getEnv("DB_URL", "")),
		CORSAllowedOrigins:         splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:                readTimeout,
		WriteTimeout:               writeTimeout,
		BroadcastWorkers:           broadcastWorkers,
		ArbiterEnabled:             arbiterEnabled,
		ArbiterBaseURL:             arbiterBaseURL,
		ArbiterIntrospectPath:      getEnv("ARBITER_INTROSPECT_PATH", "/v1/auth/introspect"),
		ArbiterManagePath:          getEnv("ARBITER_MANAGE_PATH", "/v1/auth/can-manage-club"),
		ArbiterTimeout:             arbiterTimeout,
		ArbiterAnswerTTL:           arbiterAnswerTTL,
		ArbiterCircuitEnabled:      arbiterCircuitEnabled,
		ArbiterCircuitFailureCount: arbiterCircuitFailureCount,
		ArbiterCircuitOpenTimeout:  arbiterCircuitOpenTimeout,
		ArbiterCircuitHalfOpenMax:  arbiterCircuitHalfOpenMax,
		PprofEnabled:               pprofEnabled,
		PprofAddr:                  pprofAddr,
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
		LogLevel:                   parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if appEnv == EnvProd && !cfg.ArbiterEnabled {
		return Config{}, fmt.Errorf("ARBITER_ENABLED must be true when APP_ENV=prod")
	}

	return cfg, nil
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}
