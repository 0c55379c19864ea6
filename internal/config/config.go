package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Oracle   OracleConfig
	Broker   BrokerConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
	LogJSON     bool
	LogDebug    bool
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	TTL      time.Duration
}

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

type OracleConfig struct {
	Provider      string
	BaseURL       string
	APIKey        string
	QuestionModel string
	AnalysisModel string
	TodoModel     string
	Timeout       time.Duration
	GeminiAPIKey  string
	GeminiModel   string
}

type BrokerConfig struct {
	URL      string
	Exchange string
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

// LoadDotEnv reads .env files into the process environment. Missing files
// are ignored; variables already set win.
func LoadDotEnv(files ...string) {
	_ = godotenv.Load(files...)
}

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	var invalid []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key, def string) string {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
		return def
	}
	boolean := func(key string) bool {
		v := opt(key, "false")
		b, err := strconv.ParseBool(v)
		if err != nil {
			invalid = append(invalid, key)
		}
		return b
	}
	duration := func(key string, def time.Duration) time.Duration {
		v := opt(key, "")
		if v == "" {
			return def
		}
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			return time.Duration(secs) * time.Second
		}
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			invalid = append(invalid, key)
			return def
		}
		return d
	}
	integer := func(key string, def int) int {
		v := opt(key, "")
		if v == "" {
			return def
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			invalid = append(invalid, key)
			return def
		}
		return n
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
		LogJSON:     boolean("LOG_JSON"),
		LogDebug:    boolean("LOG_DEBUG"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST", ""),
		DBPort:     opt("DB_PORT", "5432"),
		DBName:     opt("DB_NAME", ""),
		DBUser:     opt("DB_USER", ""),
		DBPassword: opt("DB_PASSWORD", ""),
		DBSSLMode:  opt("DB_SSL_MODE", "disable"),

		ConnectTimeout:        duration("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32(integer("DB_POOL_MAX_CONNS", 0)),
		PoolMinConns:          int32(integer("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   duration("DB_POOL_MAX_CONN_LIFETIME", 0),
		PoolMaxConnIdleTime:   duration("DB_POOL_MAX_CONN_IDLE_TIME", 0),
		PoolHealthCheckPeriod: duration("DB_POOL_HEALTH_CHECK_PERIOD", 0),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST", ""),
		Port:     opt("REDIS_PORT", "6379"),
		Password: opt("REDIS_PASSWORD", ""),
		TTL:      duration("REDIS_TTL", 10*time.Minute),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:     req("JWT_ACCESS_SECRET"),
		RefreshSecret:    req("JWT_REFRESH_SECRET"),
		AccessExpiresIn:  duration("JWT_ACCESS_EXPIRES_IN", 15*time.Minute),
		RefreshExpiresIn: duration("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour),
	}

	cfg.Oracle = OracleConfig{
		Provider:      strings.ToLower(opt("ORACLE_PROVIDER", "openai")),
		BaseURL:       opt("ORACLE_BASE_URL", "https://api.together.xyz/v1"),
		APIKey:        opt("ORACLE_API_KEY", ""),
		QuestionModel: opt("ORACLE_QUESTION_MODEL", "meta-llama/Meta-Llama-3.1-70B-Instruct-Turbo"),
		AnalysisModel: opt("ORACLE_ANALYSIS_MODEL", "deepseek-ai/DeepSeek-V3"),
		TodoModel:     opt("ORACLE_TODO_MODEL", "meta-llama/Meta-Llama-3.1-8B-Instruct-Turbo"),
		Timeout:       duration("ORACLE_TIMEOUT", 60*time.Second),
		GeminiAPIKey:  opt("GEMINI_API_KEY", ""),
		GeminiModel:   opt("GEMINI_MODEL", "gemini-2.5-flash"),
	}
	switch cfg.Oracle.Provider {
	case "openai":
		if cfg.Oracle.APIKey == "" {
			missing = append(missing, "ORACLE_API_KEY")
		}
	case "gemini":
		if cfg.Oracle.GeminiAPIKey == "" {
			missing = append(missing, "GEMINI_API_KEY")
		}
	default:
		invalid = append(invalid, "ORACLE_PROVIDER")
	}

	cfg.Broker = BrokerConfig{
		URL:      opt("RABBITMQ_URL", ""),
		Exchange: opt("RABBITMQ_EXCHANGE", "skill-assess.events"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// RedisAddr is empty when Redis is not configured.
func (c RedisConfig) Addr() string {
	if c.Host == "" {
		return ""
	}
	return c.Host + ":" + c.Port
}
