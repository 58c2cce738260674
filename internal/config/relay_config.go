package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// RelayConfig holds configuration for the outbox relay service.
// This is a minimal config that only includes what the relay needs.
type RelayConfig struct {
	DatabaseURL         string
	RabbitMQURL         string
	EnrollmentQueueName string
	BroadcastQueueName  string
	HealthPort          int
}

func LoadRelayConfig() (*RelayConfig, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: ignoring unreadable .env file: %v", err)
	}

	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		return nil, fmt.Errorf("DB_CONNECTION_STRING environment variable is required")
	}

	rabbitURL := os.Getenv("RABBITMQ_URL")
	if rabbitURL == "" {
		return nil, fmt.Errorf("RABBITMQ_URL environment variable is required")
	}

	return &RelayConfig{
		DatabaseURL:         dbURL,
		RabbitMQURL:         rabbitURL,
		EnrollmentQueueName: getEnv("ENROLLMENT_QUEUE_NAME", "enrollments"),
		BroadcastQueueName:  getEnv("BROADCAST_QUEUE_NAME", "broadcasts"),
		HealthPort:          getEnvAsInt("RELAY_HEALTH_PORT", 8090),
	}, nil
}
