package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name:    "load default configuration",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "0.0.0.0", cfg.ServerHost)
				assert.Equal(t, 8080, cfg.ServerPort)
				assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
				assert.Equal(t, "postgres", cfg.DBDriver)
				assert.Equal(t, 25, cfg.DBMaxOpenConnections)
				assert.Equal(t, 5, cfg.DBMaxIdleConnections)
				assert.Equal(t, 5*time.Minute, cfg.DBConnMaxLifetime)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Equal(t, "kafka", cfg.BrokerDriver)
				assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
				assert.Equal(t, "notifications", cfg.KafkaTopic)
				assert.Equal(t, 4, cfg.PublisherWorkers)
				assert.Equal(t, 5, cfg.PublisherMaxAttempts)
				assert.Equal(t, 100*time.Millisecond, cfg.PublisherInitialBackoff)
				assert.Equal(t, 5*time.Second, cfg.PublisherMaxBackoff)
				assert.Equal(t, "log", cfg.NotificationChannel)
			},
		},
		{
			name: "load custom server configuration",
			envVars: map[string]string{
				"SERVER_HOST": "localhost",
				"SERVER_PORT": "9090",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "localhost", cfg.ServerHost)
				assert.Equal(t, 9090, cfg.ServerPort)
			},
		},
		{
			name: "load custom database configuration",
			envVars: map[string]string{
				"DB_DRIVER":               "mysql",
				"DB_CONNECTION_STRING":    "user:password@tcp(localhost:3306)/testdb",
				"DB_MAX_OPEN_CONNECTIONS": "50",
				"DB_MAX_IDLE_CONNECTIONS": "10",
				"DB_CONN_MAX_LIFETIME":    "10",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "mysql", cfg.DBDriver)
				assert.Equal(t, "user:password@tcp(localhost:3306)/testdb", cfg.DBConnectionString)
				assert.Equal(t, 50, cfg.DBMaxOpenConnections)
				assert.Equal(t, 10, cfg.DBMaxIdleConnections)
				assert.Equal(t, 10*time.Minute, cfg.DBConnMaxLifetime)
			},
		},
		{
			name: "load custom broker configuration",
			envVars: map[string]string{
				"BROKER_DRIVER":                "rabbitmq",
				"KAFKA_BROKERS":                "kafka-1:9092, kafka-2:9092,,",
				"RABBITMQ_QUEUE":               "emails",
				"PUBLISHER_MAX_ATTEMPTS":       "3",
				"PUBLISHER_INITIAL_BACKOFF_MS": "250",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "rabbitmq", cfg.BrokerDriver)
				assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
				assert.Equal(t, "emails", cfg.RabbitMQQueue)
				assert.Equal(t, 3, cfg.PublisherMaxAttempts)
				assert.Equal(t, 250*time.Millisecond, cfg.PublisherInitialBackoff)
			},
		},
		{
			name: "load custom notification configuration",
			envVars: map[string]string{
				"NOTIFICATION_CHANNEL": "smtp",
				"SMTP_HOST":            "mail.example.com",
				"SMTP_PORT":            "587",
				"SMTP_FROM":            "trades@example.com",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "smtp", cfg.NotificationChannel)
				assert.Equal(t, "mail.example.com", cfg.SMTPHost)
				assert.Equal(t, 587, cfg.SMTPPort)
				assert.Equal(t, "trades@example.com", cfg.SMTPFrom)
			},
		},
		{
			name: "load custom log level",
			envVars: map[string]string{
				"LOG_LEVEL": "debug",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.LogLevel)
				assert.Equal(t, "debug", cfg.GetGinMode())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear environment
			os.Clearenv()

			for key, value := range tt.envVars {
				err := os.Setenv(key, value)
				require.NoError(t, err)
			}

			cfg := Load()

			tt.validate(t, cfg)
		})
	}
}

func TestGetGinMode(t *testing.T) {
	for level, mode := range map[string]string{
		"debug": "debug",
		"info":  "release",
		"warn":  "release",
		"error": "release",
		"":      "release",
	} {
		cfg := &Config{LogLevel: level}
		assert.Equal(t, mode, cfg.GetGinMode())
	}
}
