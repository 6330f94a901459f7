package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string

	RedisURL     string
	KafkaBrokers []string
	KafkaTopic   string

	Simulator Simulator
}

// Simulator holds the delays the submission simulator waits between portal
// transitions. Overridable so tests and demos run fast.
type Simulator struct {
	ReviewDelay time.Duration
	SignDelay   time.Duration
	RejectDelay time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("TRADEGATE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default - must be overridden in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}
	topic := os.Getenv("KAFKA_STATUS_TOPIC")
	if topic == "" {
		topic = "compliance.document.status"
	}

	return Server{
		Addr:          addr,
		JWTSigningKey: jwtSigningKey,
		RedisURL:      os.Getenv("REDIS_URL"),
		KafkaBrokers:  brokers,
		KafkaTopic:    topic,
		Simulator: Simulator{
			ReviewDelay: durationEnv("SIM_REVIEW_DELAY", 2000*time.Millisecond),
			SignDelay:   durationEnv("SIM_SIGN_DELAY", 3200*time.Millisecond),
			RejectDelay: durationEnv("SIM_REJECT_DELAY", 2800*time.Millisecond),
		},
	}
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
