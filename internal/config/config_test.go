package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	origDir := os.Getenv("DATA_DIR")
	defer os.Setenv("DATA_DIR", origDir)

	os.Setenv("DATA_DIR", "/tmp/filedrop")
	os.Setenv("FILE_TTL_SEC", "30")
	os.Setenv("MAX_UPLOAD_BYTES", "1048576")
	os.Setenv("MINIO_USE_SSL", "true")
	defer func() {
		os.Unsetenv("FILE_TTL_SEC")
		os.Unsetenv("MAX_UPLOAD_BYTES")
		os.Unsetenv("MINIO_USE_SSL")
	}()

	cfg := Load()

	assert.Equal(t, "/tmp/filedrop", cfg.Storage.DataDir)
	assert.Equal(t, "/tmp/filedrop/uploads", cfg.Storage.UploadDir)
	assert.Equal(t, "/tmp/filedrop/records.json", cfg.Storage.StoreFile)
	assert.Equal(t, 30*time.Second, cfg.Share.TTL)
	assert.Equal(t, int64(1<<20), cfg.Share.MaxUploadBytes)
	assert.True(t, cfg.MinIO.UseSSL)
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "local", cfg.Storage.Backend)
	assert.Equal(t, 10*time.Minute, cfg.Share.TTL)
	assert.Equal(t, time.Minute, cfg.Share.SweepInterval)
	assert.Equal(t, int64(200<<20), cfg.Share.MaxUploadBytes)
	assert.Equal(t, 16, cfg.Share.IDLength)
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.False(t, getEnvBool(key, false))
}

func TestGetEnvInt64(t *testing.T) {
	key := "TEST_INT64_VAR"

	os.Setenv(key, "209715200")
	assert.Equal(t, int64(209715200), getEnvInt64(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, int64(10), getEnvInt64(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, int64(10), getEnvInt64(key, 10))
}
