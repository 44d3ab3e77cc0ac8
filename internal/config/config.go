package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string
	AppPort    string
	AppEnv     string

	JWTSecret string
	TokenTTL  time.Duration

	// QuotaTimezone decides where a calendar month starts for quota accounting.
	QuotaTimezone        string
	CardTypes            []string
	RestockPendingCancel bool
	CartCacheSize        int

	CORSOrigin        string
	InternalSecretKey string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("QUOTA_TIMEZONE", "Asia/Kolkata")
	v.SetDefault("CARD_TYPES", "WHITE,YELLOW,GREEN,SAFFRON,RED")
	v.SetDefault("RESTOCK_PENDING_CANCEL", true)
	v.SetDefault("CART_CACHE_SIZE", 4096)
	v.SetDefault("CORS_ORIGIN", "http://localhost:3000")
}

// Load reads .env, an optional config.yaml and the process environment,
// in increasing order of precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	cfg := &Config{
		DBHost:               v.GetString("DB_HOST"),
		DBUser:               v.GetString("DB_USER"),
		DBPassword:           v.GetString("DB_PASSWORD"),
		DBName:               v.GetString("DB_NAME"),
		DBPort:               v.GetString("DB_PORT"),
		DBSSLMode:            v.GetString("DB_SSLMODE"),
		AppPort:              v.GetString("APP_PORT"),
		AppEnv:               v.GetString("APP_ENV"),
		JWTSecret:            v.GetString("JWT_SECRET"),
		TokenTTL:             v.GetDuration("TOKEN_TTL"),
		QuotaTimezone:        v.GetString("QUOTA_TIMEZONE"),
		CardTypes:            splitList(v.GetString("CARD_TYPES")),
		RestockPendingCancel: v.GetBool("RESTOCK_PENDING_CANCEL"),
		CartCacheSize:        v.GetInt("CART_CACHE_SIZE"),
		CORSOrigin:           v.GetString("CORS_ORIGIN"),
		InternalSecretKey:    v.GetString("INTERNAL_SECRET_KEY"),
	}

	return cfg, nil
}

// LoadConfig is Load for process start-up: a missing database host or
// token secret is fatal.
func LoadConfig() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to read configuration: %v", err)
	}

	if cfg.DBHost == "" || cfg.JWTSecret == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToUpper(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
