package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort     string `mapstructure:"APP_PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	Env         string `mapstructure:"ENV"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`

	// Reminder queue configuration.
	RedisReminderQueueDB int           `mapstructure:"REDIS_REMINDER_QUEUE_DB"`
	ReminderLeadTime     time.Duration `mapstructure:"REMINDER_LEAD_TIME"`

	// Scheduling engine configuration.
	TimeZone              string        `mapstructure:"TIME_ZONE"`
	SlotStepMinutes       int           `mapstructure:"SLOT_STEP_MINUTES"`
	TravelBufferMinutes   int           `mapstructure:"TRAVEL_BUFFER_MINUTES"`
	FallbackMinDuration   int           `mapstructure:"FALLBACK_MIN_DURATION"`
	PrefetchConcurrency   int           `mapstructure:"PREFETCH_CONCURRENCY"`
	PrefetchSafetyTimeout time.Duration `mapstructure:"PREFETCH_SAFETY_TIMEOUT"`
	CommitSettleDelay     time.Duration `mapstructure:"COMMIT_SETTLE_DELAY"`
	CancelRefreshDelay    time.Duration `mapstructure:"CANCEL_REFRESH_DELAY"`

	MaxRequestsPerMin int `mapstructure:"MAX_REQUESTS_PER_MIN"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_REMINDER_QUEUE_DB", 1)
	viper.SetDefault("REMINDER_LEAD_TIME", 24*time.Hour)
	viper.SetDefault("TIME_ZONE", "Europe/Oslo")
	viper.SetDefault("SLOT_STEP_MINUTES", 15)
	viper.SetDefault("TRAVEL_BUFFER_MINUTES", 15)
	viper.SetDefault("FALLBACK_MIN_DURATION", 30)
	viper.SetDefault("PREFETCH_CONCURRENCY", 5)
	viper.SetDefault("PREFETCH_SAFETY_TIMEOUT", 5*time.Second)
	viper.SetDefault("COMMIT_SETTLE_DELAY", 2*time.Second)
	viper.SetDefault("CANCEL_REFRESH_DELAY", time.Second)
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// Location resolves the configured provider time zone.
func Location() *time.Location {
	loc, err := time.LoadLocation(AppConfig.TimeZone)
	if err != nil {
		log.Fatalf("invalid TIME_ZONE %q: %v", AppConfig.TimeZone, err)
	}
	return loc
}
