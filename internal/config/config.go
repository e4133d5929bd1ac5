package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	Timezone *time.Location
	Database DatabaseConfig
	JWT      JWTConfig
	Storage  StorageConfig
	SeedDev  bool
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string // postgres or mysql
	URL      string // overrides the discrete fields when set
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

// StorageConfig selects and configures the attachment backend
type StorageConfig struct {
	Driver         string // local or s3
	UploadDir      string
	PublicBaseURL  string
	MaxUploadBytes int64
	RetentionDays  int

	S3Bucket    string
	S3Region    string
	S3Prefix    string
	S3PublicURL string
}

const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	db, err := loadDatabaseConfig(appMode)
	if err != nil {
		return nil, err
	}

	storage, err := loadStorageConfig()
	if err != nil {
		return nil, err
	}

	seed, _ := strconv.ParseBool(getEnv("SEED_DEV_DATA", "false"))

	config := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "5007"),
		Timezone: LoadTimezone(getEnv("TIMEZONE", "Asia/Kolkata")),
		Database: db,
		JWT:      loadJWTConfig(appMode),
		Storage:  storage,
		SeedDev:  seed && appMode == "dev",
	}

	if config.IsProd() && config.JWT.Secret == defaultJWTSecret {
		return nil, fmt.Errorf("PROD_JWT_SECRET must be set in prod mode")
	}

	// Set global config
	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s, DB: %s, STORAGE: %s]",
		appMode, db.Driver, storage.Driver)
	return config, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) (DatabaseConfig, error) {
	prefix := modePrefix(mode)

	driver := strings.ToLower(getEnv("DB_DRIVER", "postgres"))
	if driver != "postgres" && driver != "mysql" {
		return DatabaseConfig{}, fmt.Errorf("invalid DB_DRIVER: '%s' (must be 'postgres' or 'mysql')", driver)
	}

	defaultPort := "5432"
	if driver == "mysql" {
		defaultPort = "3306"
	}

	return DatabaseConfig{
		Driver:   driver,
		URL:      getEnv("DATABASE_URL", ""),
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", defaultPort),
		User:     getEnv(prefix+"DB_USER", "postgres"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "punching"),
		SSLMode:  getEnv(prefix+"DB_SSLMODE", "disable"),
	}, nil
}

const defaultJWTSecret = "default_secret"

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	hours, err := strconv.Atoi(getEnv("JWT_EXPIRES_HOURS", "24"))
	if err != nil || hours <= 0 {
		hours = 24
	}

	return JWTConfig{
		Secret:      getEnv(modePrefix(mode)+"JWT_SECRET", defaultJWTSecret),
		ExpiryHours: hours,
	}
}

// loadStorageConfig loads the attachment backend settings
func loadStorageConfig() (StorageConfig, error) {
	driver := strings.ToLower(getEnv("STORAGE_DRIVER", StorageLocal))
	if driver != StorageLocal && driver != StorageS3 {
		return StorageConfig{}, fmt.Errorf("invalid STORAGE_DRIVER: '%s' (must be 'local' or 's3')", driver)
	}

	maxMB, err := strconv.Atoi(getEnv("MAX_UPLOAD_MB", "5"))
	if err != nil || maxMB <= 0 {
		maxMB = 5
	}
	retention, err := strconv.Atoi(getEnv("RETENTION_DAYS", "10"))
	if err != nil || retention <= 0 {
		retention = 10
	}

	cfg := StorageConfig{
		Driver:         driver,
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		PublicBaseURL:  strings.TrimRight(getEnv("PUBLIC_BASE_URL", ""), "/"),
		MaxUploadBytes: int64(maxMB) << 20,
		RetentionDays:  retention,
		S3Bucket:       getEnv("S3_BUCKET", ""),
		S3Region:       getEnv("S3_REGION", ""),
		S3Prefix:       getEnv("S3_PREFIX", "punch-app/"),
		S3PublicURL:    strings.TrimRight(getEnv("S3_PUBLIC_URL", ""), "/"),
	}

	if driver == StorageS3 && cfg.S3Bucket == "" {
		return StorageConfig{}, fmt.Errorf("S3_BUCKET is required when STORAGE_DRIVER=s3")
	}

	return cfg, nil
}

// LoadTimezone resolves the punch timezone, falling back to a fixed IST
// offset when the zone database is unavailable.
func LoadTimezone(name string) *time.Location {
	if loc, err := time.LoadLocation(name); err == nil {
		return loc
	}
	log.Printf("⚠️ Timezone %q not found, using fixed +05:30", name)
	return time.FixedZone("IST", 5*60*60+30*60)
}

func modePrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return c.Storage.PublicBaseURL
	}
	return origins
}
