package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			PublicBaseURL:   "http://localhost:8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "test",
			Password: "test",
			Database: "test_db",
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: 6379,
		},
		Kafka: KafkaConfig{
			Brokers: []string{"localhost:9092"},
		},
		Verification: VerificationConfig{
			LockTTL: 30 * time.Second,
		},
		Worker: WorkerConfig{
			BatchSize:    20,
			PollInterval: 5 * time.Second,
		},
	}
}

func TestConfig_Validate_Success(t *testing.T) {
	err := validConfig().Validate()
	assert.NoError(t, err)
}

func TestConfig_Validate_InvalidServerPort(t *testing.T) {
	tests := []struct {
		name string
		port int
	}{
		{"port too low", 0},
		{"port negative", -1},
		{"port too high", 99999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Server.Port = tt.port

			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "server.port")
		})
	}
}

func TestConfig_Validate_MissingKafkaBrokers(t *testing.T) {
	cfg := validConfig()
	cfg.Kafka.Brokers = nil

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "kafka.brokers")
}

func TestConfig_Validate_InvalidLockTTL(t *testing.T) {
	cfg := validConfig()
	cfg.Verification.LockTTL = 0

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "lock_ttl")
}

func TestConfig_Validate_NegativeMaxAttempts(t *testing.T) {
	cfg := validConfig()
	cfg.Worker.MaxAttempts = -1

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "max_attempts")
}

func TestConfig_Validate_CollectsMultipleErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Server.ReadTimeout = 0
	cfg.Worker.BatchSize = 0

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "read_timeout")
	assert.Contains(t, err.Error(), "batch_size")
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "db", Port: 5432, User: "u", Password: "p", Database: "billing", SSLMode: "disable",
	}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=billing sslmode=disable", cfg.DatabaseDSN())
}

func TestRedisAddr(t *testing.T) {
	cfg := RedisConfig{Host: "cache", Port: 6379}
	assert.Equal(t, "cache:6379", cfg.RedisAddr())
}
