package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig
	DB         DBConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Scheduling SchedulingConfig
	Storage    StorageConfig
	HTTP       HTTPConfig
}

type AppConfig struct {
	Port     string
	Env      string
	LogLevel string
	// StoreDriver selects the appointment store: "postgres" or "memory".
	StoreDriver string
}

type DBConfig struct {
	Host          string
	Port          string
	User          string
	Password      string
	Name          string
	TimeZone      string
	RunMigrations bool
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

type SchedulingConfig struct {
	WindowDays   int
	DayStart     time.Duration
	DayEnd       time.Duration
	SlotInterval time.Duration
	TimeZone     string
	Location     *time.Location
}

type StorageConfig struct {
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	ProofFolder   string
	PublicBaseURL string
}

type HTTPConfig struct {
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE_DRIVER", "postgres")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_RUN_MIGRATIONS", true)
	v.SetDefault("REDIS_ENABLED", true)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("JWT_ACCESS_EXPIRY", "15m")
	v.SetDefault("SCHEDULE_WINDOW_DAYS", 30)
	v.SetDefault("SCHEDULE_DAY_START", "10h")
	v.SetDefault("SCHEDULE_DAY_END", "21h")
	v.SetDefault("SCHEDULE_SLOT_INTERVAL", "30m")
	v.SetDefault("SCHEDULE_TIMEZONE", "UTC")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_PROOF_FOLDER", "proofImages")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 10)
}

// LoadConfig reads .env when present and lets environment variables
// override it.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	accessExpiry, err := time.ParseDuration(v.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	scheduling, err := loadScheduling(v)
	if err != nil {
		return nil, err
	}

	config := &Config{
		App: AppConfig{
			Port:        v.GetString("APP_PORT"),
			Env:         v.GetString("APP_ENV"),
			LogLevel:    v.GetString("LOG_LEVEL"),
			StoreDriver: strings.ToLower(v.GetString("STORE_DRIVER")),
		},
		DB: DBConfig{
			Host:          v.GetString("DB_HOST"),
			Port:          v.GetString("DB_PORT"),
			User:          v.GetString("DB_USER"),
			Password:      v.GetString("DB_PASSWORD"),
			Name:          v.GetString("DB_NAME"),
			TimeZone:      v.GetString("DB_TIMEZONE"),
			RunMigrations: v.GetBool("DB_RUN_MIGRATIONS"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:       v.GetString("JWT_SECRET"),
			AccessExpiry: accessExpiry,
		},
		Scheduling: scheduling,
		Storage: StorageConfig{
			Bucket:        v.GetString("S3_BUCKET"),
			Region:        v.GetString("S3_REGION"),
			Endpoint:      v.GetString("S3_ENDPOINT"),
			AccessKey:     v.GetString("S3_ACCESS_KEY"),
			SecretKey:     v.GetString("S3_SECRET_KEY"),
			ProofFolder:   v.GetString("S3_PROOF_FOLDER"),
			PublicBaseURL: v.GetString("S3_PUBLIC_BASE_URL"),
		},
		HTTP: HTTPConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			RateLimitRPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			RateLimitBurst: v.GetInt("RATE_LIMIT_BURST"),
		},
	}

	return config, nil
}

func loadScheduling(v *viper.Viper) (SchedulingConfig, error) {
	cfg := SchedulingConfig{
		WindowDays: v.GetInt("SCHEDULE_WINDOW_DAYS"),
		TimeZone:   v.GetString("SCHEDULE_TIMEZONE"),
	}

	var err error
	if cfg.DayStart, err = time.ParseDuration(v.GetString("SCHEDULE_DAY_START")); err != nil {
		return cfg, fmt.Errorf("invalid SCHEDULE_DAY_START: %w", err)
	}
	if cfg.DayEnd, err = time.ParseDuration(v.GetString("SCHEDULE_DAY_END")); err != nil {
		return cfg, fmt.Errorf("invalid SCHEDULE_DAY_END: %w", err)
	}
	if cfg.SlotInterval, err = time.ParseDuration(v.GetString("SCHEDULE_SLOT_INTERVAL")); err != nil {
		return cfg, fmt.Errorf("invalid SCHEDULE_SLOT_INTERVAL: %w", err)
	}
	if cfg.Location, err = time.LoadLocation(cfg.TimeZone); err != nil {
		return cfg, fmt.Errorf("invalid SCHEDULE_TIMEZONE: %w", err)
	}
	if cfg.DayEnd <= cfg.DayStart {
		return cfg, errors.New("SCHEDULE_DAY_END must be after SCHEDULE_DAY_START")
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func isMissingFile(err error) bool {
	return strings.Contains(err.Error(), "no such file or directory")
}
