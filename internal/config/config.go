package config

import (
	"log"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	App       AppConfig
	Cache     CacheConfig
	Storage   StorageConfig
	Drive     DriveConfig
	Scheduler SchedulerConfig
	Analytics AnalyticsConfig
	Engine    EngineConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DataDir receives archived run inputs restored for a replay.
type AppConfig struct {
	Env      string
	LogLevel string
	DataDir  string
}

type CacheConfig struct {
	Enabled            bool
	RedisURL           string
	RedisHost          string
	RedisPort          string
	RedisPassword      string
	RedisDB            int
	SnapshotTTLSeconds int
}

// StorageConfig points at an S3-compatible bucket used to archive run inputs.
type StorageConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

type DriveConfig struct {
	CredentialsJSON string
	FolderID        string
	FolderPath      string
	DownloadDir     string
}

type SchedulerConfig struct {
	Enabled bool
	Cron    string
}

type AnalyticsConfig struct {
	TopN            int
	DemandRanking   string
	ZeroStockPolicy string
}

// EngineConfig holds the thresholds used when deriving transfers and prices at ingest.
type EngineConfig struct {
	RatioThreshold float64
	DaysThreshold  int
	BaseDiscount   float64
	MaxDiscount    float64
}

var (
	once     sync.Once
	instance *Config
)

// Load reads configuration from .env and the environment once per process.
func Load() *Config {
	once.Do(func() {
		_ = godotenv.Load()

		v := viper.GetViper()
		SetDefaults(v)
		v.AutomaticEnv()

		instance = LoadFrom(v)

		ensureDir(instance.App.DataDir)
	})

	return instance
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_MODE", "debug")
	v.SetDefault("SERVER_READ_TIMEOUT", 15)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	v.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "smartstockx")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("APP_DATA_DIR", "./data/replay")
	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_SNAPSHOT_TTL_SECONDS", 300)
	v.SetDefault("STORAGE_ENABLED", false)
	v.SetDefault("STORAGE_ENDPOINT", "")
	v.SetDefault("STORAGE_ACCESS_KEY", "")
	v.SetDefault("STORAGE_SECRET_KEY", "")
	v.SetDefault("STORAGE_BUCKET", "smartstockx")
	v.SetDefault("STORAGE_REGION", "us-east-1")
	v.SetDefault("STORAGE_USE_SSL", true)
	v.SetDefault("GOOGLE_DRIVE_CREDENTIALS_JSON", "")
	v.SetDefault("GOOGLE_DRIVE_FOLDER_ID", "")
	v.SetDefault("GOOGLE_DRIVE_FOLDER_PATH", "")
	v.SetDefault("GOOGLE_DRIVE_DOWNLOAD_DIR", "./data/drive")
	v.SetDefault("SCHEDULER_ENABLED", false)
	v.SetDefault("SCHEDULER_CRON", "0 2 * * *")
	v.SetDefault("ANALYTICS_TOP_N", 10)
	v.SetDefault("ANALYTICS_DEMAND_RANKING", "input_order")
	v.SetDefault("ANALYTICS_ZERO_STOCK_POLICY", "zero")
	v.SetDefault("ENGINE_RATIO_THRESHOLD", 0.10)
	v.SetDefault("ENGINE_DAYS_THRESHOLD", 2)
	v.SetDefault("ENGINE_BASE_DISCOUNT", 0.10)
	v.SetDefault("ENGINE_MAX_DISCOUNT", 0.40)
}

// LoadFrom builds a Config from an already-populated viper instance.
func LoadFrom(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Mode:           v.GetString("SERVER_MODE"),
			ReadTimeout:    v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   v.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: v.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			URL:      v.GetString("DATABASE_URL"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		App: AppConfig{
			Env:      strings.ToLower(v.GetString("APP_ENV")),
			LogLevel: v.GetString("LOG_LEVEL"),
			DataDir:  v.GetString("APP_DATA_DIR"),
		},
		Cache: CacheConfig{
			Enabled:            v.GetBool("CACHE_ENABLED"),
			RedisURL:           v.GetString("REDIS_URL"),
			RedisHost:          v.GetString("REDIS_HOST"),
			RedisPort:          v.GetString("REDIS_PORT"),
			RedisPassword:      v.GetString("REDIS_PASSWORD"),
			RedisDB:            v.GetInt("REDIS_DB"),
			SnapshotTTLSeconds: v.GetInt("CACHE_SNAPSHOT_TTL_SECONDS"),
		},
		Storage: StorageConfig{
			Enabled:   v.GetBool("STORAGE_ENABLED"),
			Endpoint:  v.GetString("STORAGE_ENDPOINT"),
			AccessKey: v.GetString("STORAGE_ACCESS_KEY"),
			SecretKey: v.GetString("STORAGE_SECRET_KEY"),
			Bucket:    v.GetString("STORAGE_BUCKET"),
			Region:    v.GetString("STORAGE_REGION"),
			UseSSL:    v.GetBool("STORAGE_USE_SSL"),
		},
		Drive: DriveConfig{
			CredentialsJSON: v.GetString("GOOGLE_DRIVE_CREDENTIALS_JSON"),
			FolderID:        v.GetString("GOOGLE_DRIVE_FOLDER_ID"),
			FolderPath:      v.GetString("GOOGLE_DRIVE_FOLDER_PATH"),
			DownloadDir:     v.GetString("GOOGLE_DRIVE_DOWNLOAD_DIR"),
		},
		Scheduler: SchedulerConfig{
			Enabled: v.GetBool("SCHEDULER_ENABLED"),
			Cron:    v.GetString("SCHEDULER_CRON"),
		},
		Analytics: AnalyticsConfig{
			TopN:            v.GetInt("ANALYTICS_TOP_N"),
			DemandRanking:   strings.ToLower(v.GetString("ANALYTICS_DEMAND_RANKING")),
			ZeroStockPolicy: strings.ToLower(v.GetString("ANALYTICS_ZERO_STOCK_POLICY")),
		},
		Engine: EngineConfig{
			RatioThreshold: v.GetFloat64("ENGINE_RATIO_THRESHOLD"),
			DaysThreshold:  v.GetInt("ENGINE_DAYS_THRESHOLD"),
			BaseDiscount:   v.GetFloat64("ENGINE_BASE_DISCOUNT"),
			MaxDiscount:    v.GetFloat64("ENGINE_MAX_DISCOUNT"),
		},
	}
}

func ensureDir(dir string) {
	if dir == "" {
		return
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
