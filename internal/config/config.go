package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port                string   `mapstructure:"PORT"`
	Env                 string   `mapstructure:"ENV"`
	DocstoreDriver      string   `mapstructure:"DOCSTORE_DRIVER"`
	DatabaseURL         string   `mapstructure:"DATABASE_URL"`
	DBMaxConns          int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns          int32    `mapstructure:"DB_MIN_CONNS"`
	FirebaseProjectID   string   `mapstructure:"FIREBASE_PROJECT_ID"`
	FirebaseAPIKey      string   `mapstructure:"FIREBASE_API_KEY"`
	FirebaseCredentials string   `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	CORSOrigins         []string `mapstructure:"CORS_ORIGINS"`
	NotifyEnabled       bool     `mapstructure:"NOTIFY_ENABLED"`
	NotifyTopic         string   `mapstructure:"NOTIFY_TOPIC"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DOCSTORE_DRIVER", "memory")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("NOTIFY_TOPIC", "appointments")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DOCSTORE_DRIVER")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("FIREBASE_PROJECT_ID")
	v.BindEnv("FIREBASE_API_KEY")
	v.BindEnv("FIREBASE_CREDENTIALS_FILE")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("NOTIFY_ENABLED")
	v.BindEnv("NOTIFY_TOPIC")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.IsDev() {
		log.Println("WARNING: ============================================================")
		log.Println("WARNING: Server is running in DEVELOPMENT mode (ENV=development).")
		log.Println("WARNING: DevAuthMiddleware is active — requests are trusted as-is.")
		log.Println("WARNING: Do NOT use this configuration in production.")
		log.Println("WARNING: Set ENV=production and configure Firebase for production.")
		log.Println("WARNING: ============================================================")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. The docstore
// driver decides which settings are mandatory, and production refuses to
// start without a real identity provider behind it.
func (c *Config) Validate() error {
	switch c.DocstoreDriver {
	case "memory":
		// No external settings needed.
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when DOCSTORE_DRIVER is \"postgres\"")
		}
	case "firestore":
		if c.FirebaseProjectID == "" {
			return fmt.Errorf("FIREBASE_PROJECT_ID is required when DOCSTORE_DRIVER is \"firestore\"")
		}
	default:
		return fmt.Errorf("DOCSTORE_DRIVER must be \"memory\", \"postgres\", or \"firestore\", got %q", c.DocstoreDriver)
	}

	if c.IsProduction() {
		if c.FirebaseProjectID == "" {
			return fmt.Errorf("FIREBASE_PROJECT_ID is required in production")
		}
		if c.FirebaseAPIKey == "" {
			return fmt.Errorf("FIREBASE_API_KEY is required in production. " +
				"Refusing to start without authentication configuration")
		}
	}

	if c.NotifyEnabled && c.FirebaseCredentials == "" {
		return fmt.Errorf("FIREBASE_CREDENTIALS_FILE is required when NOTIFY_ENABLED is true")
	}

	return nil
}
