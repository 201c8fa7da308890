package config

import (
	"fmt"
	"os"
	"strings"

	httpapi "github.com/jekabolt/grbpwr-waitlist/internal/api/http"
	"github.com/jekabolt/grbpwr-waitlist/internal/auth/jwt"
	"github.com/jekabolt/grbpwr-waitlist/internal/store"
	"github.com/jekabolt/grbpwr-waitlist/internal/waitlist"
	"github.com/jekabolt/grbpwr-waitlist/log"
	"github.com/spf13/viper"
)

// Config represents the global configuration for the service.
type Config struct {
	DB       store.Config    `mapstructure:"mysql"`
	Logger   log.Config      `mapstructure:"logger"`
	HTTP     httpapi.Config  `mapstructure:"http"`
	Auth     jwt.Config      `mapstructure:"auth"`
	Waitlist waitlist.Config `mapstructure:"waitlist"`
}

// LoadConfig loads the configuration from a file and/or environment variables.
// Environment variables take precedence over config file values.
// Nested config keys use double underscore, e.g., MYSQL__DSN for mysql.dsn
func LoadConfig(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")

	v.AutomaticEnv()
	// e.g., mysql.dsn -> MYSQL__DSN, auth.jwt_secret -> AUTH__JWT_SECRET
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__", "-", "__"))

	setDefaults(v)
	bindEnvVars(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			// If config file doesn't exist, continue with env vars only
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %v", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/config/grbpwr-waitlist")
		v.AddConfigPath("/etc/grbpwr-waitlist")
		_ = v.ReadInConfig()
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config into struct: %v", err)
	}

	if config.DB.DSN == "" {
		config.DB.DSN = dsnFromEnv()
	}

	return &config, nil
}

// dsnFromEnv builds a DSN from MYSQL_HOST style variables.
func dsnFromEnv() string {
	host := os.Getenv("MYSQL_HOST")
	user := os.Getenv("MYSQL_USER")
	password := os.Getenv("MYSQL_PASSWORD")
	database := os.Getenv("MYSQL_DATABASE")
	if host == "" || user == "" || database == "" {
		return ""
	}
	port := os.Getenv("MYSQL_PORT")
	if port == "" {
		port = "3306"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true",
		user, password, host, port, database)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.port", "8081")
	v.SetDefault("http.address", "0.0.0.0")
	v.SetDefault("http.request_timeout", "60s")
	v.SetDefault("http.rate_limit.requests_per_minute", 600)
	v.SetDefault("http.rate_limit.bulk_per_minute", 30)
	v.SetDefault("auth.jwt_ttl", "24h")
	v.SetDefault("mysql.max_open_connections", 10)
	v.SetDefault("mysql.max_idle_connections", 5)

	d := waitlist.DefaultConfig()
	v.SetDefault("waitlist.max_price_drop_percentage", d.MaxPriceDropPercentage)
	v.SetDefault("waitlist.max_price_increase_percentage", d.MaxPriceIncreasePercentage)
	v.SetDefault("waitlist.discount_tolerance_percentage", d.DiscountTolerancePercentage)
	v.SetDefault("waitlist.sensitive_fields", d.SensitiveFields)
	v.SetDefault("waitlist.max_issues_before_review", d.MaxIssuesBeforeReview)
	v.SetDefault("waitlist.max_description_length", d.MaxDescriptionLength)
	v.SetDefault("waitlist.max_bulk_items", d.MaxBulkItems)
	v.SetDefault("waitlist.default_list_limit", d.DefaultListLimit)
	v.SetDefault("waitlist.stats_sample_limit", d.StatsSampleLimit)
	v.SetDefault("waitlist.default_actor", d.DefaultActor)
}

// bindEnvVars binds environment variables to config keys
// This allows using both nested keys (MYSQL__DSN) and flat keys (MYSQL_DSN)
func bindEnvVars(v *viper.Viper) {
	// MySQL
	v.BindEnv("mysql.dsn", "MYSQL_DSN")
	v.BindEnv("mysql.automigrate", "MYSQL_AUTOMIGRATE")
	v.BindEnv("mysql.max_open_connections", "MYSQL_MAX_OPEN_CONNECTIONS")
	v.BindEnv("mysql.max_idle_connections", "MYSQL_MAX_IDLE_CONNECTIONS")
	v.BindEnv("mysql.tls_ca_path", "MYSQL_TLS_CA_PATH")

	// Logger
	v.BindEnv("logger.level", "LOG_LEVEL")
	v.BindEnv("logger.add_source", "LOG_ADD_SOURCE")

	// HTTP
	v.BindEnv("http.port", "HTTP_PORT")
	v.BindEnv("http.address", "HTTP_ADDRESS")
	v.BindEnv("http.allowed_origins", "HTTP_ALLOWED_ORIGINS")
	v.BindEnv("http.request_timeout", "HTTP_REQUEST_TIMEOUT")
	v.BindEnv("http.rate_limit.requests_per_minute", "HTTP_RATE_LIMIT_REQUESTS_PER_MINUTE")
	v.BindEnv("http.rate_limit.bulk_per_minute", "HTTP_RATE_LIMIT_BULK_PER_MINUTE")

	// Auth
	v.BindEnv("auth.jwt_secret", "AUTH_JWT_SECRET")
	v.BindEnv("auth.jwt_ttl", "AUTH_JWT_TTL")

	// Waitlist thresholds
	v.BindEnv("waitlist.max_price_drop_percentage", "WAITLIST_MAX_PRICE_DROP_PERCENTAGE")
	v.BindEnv("waitlist.max_price_increase_percentage", "WAITLIST_MAX_PRICE_INCREASE_PERCENTAGE")
	v.BindEnv("waitlist.discount_tolerance_percentage", "WAITLIST_DISCOUNT_TOLERANCE_PERCENTAGE")
	v.BindEnv("waitlist.max_bulk_items", "WAITLIST_MAX_BULK_ITEMS")
	v.BindEnv("waitlist.default_actor", "WAITLIST_DEFAULT_ACTOR")
}
