package config

import (
	"os"
	"strconv"
	"time"
)

// StorageConfig holds file persistence settings. Backend selects between the
// local-disk upload directory and an S3-compatible object store.
type StorageConfig struct {
	Backend   string // "local" or "s3"
	DataDir   string
	UploadDir string
	StoreFile string
}

// MinIOConfig holds object storage settings for the optional S3 backend.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// ShareConfig holds sharing behavior knobs. Defaults mirror the compiled-in
// values; only PORT is expected to vary between deployments.
type ShareConfig struct {
	TTL            time.Duration
	SweepInterval  time.Duration
	MaxUploadBytes int64
	IDLength       int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost string
	Port    string
	Storage StorageConfig
	MinIO   MinIOConfig
	Share   ShareConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	dataDir := getEnv("DATA_DIR", "data")
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"),
		Storage: StorageConfig{
			Backend:   getEnv("STORAGE_BACKEND", "local"),
			DataDir:   dataDir,
			UploadDir: getEnv("UPLOAD_DIR", dataDir+"/uploads"),
			StoreFile: getEnv("STORE_FILE", dataDir+"/records.json"),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Share: ShareConfig{
			TTL:            time.Duration(getEnvInt("FILE_TTL_SEC", 600)) * time.Second,
			SweepInterval:  time.Duration(getEnvInt("SWEEP_INTERVAL_SEC", 60)) * time.Second,
			MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", 200<<20),
			IDLength:       getEnvInt("SHARE_ID_LENGTH", 16),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.ParseInt(v, 10, 64)
		if err == nil {
			return i
		}
	}
	return def
}
