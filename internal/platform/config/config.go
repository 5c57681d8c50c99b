package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// EncryptionSecret keys the AES cipher sealing bank account fields.
	EncryptionSecret string

	// External exchange-rate source.
	RateSourceBaseURL string `mapstructure:"RATE_SOURCE_BASE_URL"`
	RateSourceAPIKey  string `mapstructure:"RATE_SOURCE_API_KEY"`
	RateSyncTimezone  string `mapstructure:"RATE_SYNC_TIMEZONE"`
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "24h")
	viper.SetDefault("JWT_ISSUER", "nbbang-backend")
	viper.SetDefault("ENCRYPTION_SECRET", "default_insecure_encryption_secret_change_this")
	viper.SetDefault("RATE_SOURCE_BASE_URL", "https://api.exchangerate-api.com/v4/latest/KRW")
	viper.SetDefault("RATE_SOURCE_API_KEY", "")
	viper.SetDefault("RATE_SYNC_TIMEZONE", "Asia/Seoul")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour * 24
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	cfg.EncryptionSecret = viper.GetString("ENCRYPTION_SECRET")
	cfg.RateSourceBaseURL = viper.GetString("RATE_SOURCE_BASE_URL")
	cfg.RateSourceAPIKey = viper.GetString("RATE_SOURCE_API_KEY")
	cfg.RateSyncTimezone = viper.GetString("RATE_SYNC_TIMEZONE")

	if !cfg.IsProduction {
		log.Println("Running in development mode.")
	}

	return cfg, nil
}
