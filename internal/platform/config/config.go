package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	PostgresDSN  string
	KafkaBrokers []string
	MetricsAddr  string
	LogLevel     string
	LogFormat    string

	KafkaPartitions        int32
	KafkaReplicationFactor int16

	Redis RedisConfig

	ElectionLockTTL    time.Duration
	WorkerPollInterval time.Duration
	OutboxBatchSize    int

	EnableElectionOpener     bool
	EnableMembershipConsumer bool
}

// RedisConfig holds the optional lock backend settings. An empty URL keeps
// election locks in process.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Load reads an optional .env file and then the process environment. Values
// already present in the environment win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "hoa-elections"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	lockTTL, err := envDuration("ELECTION_LOCK_TTL", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	pollInterval, err := envDuration("WORKER_POLL_INTERVAL", 2*time.Second)
	if err != nil {
		return Config{}, err
	}
	batchSize, err := envInt("OUTBOX_BATCH_SIZE", 100)
	if err != nil {
		return Config{}, err
	}
	poolSize, err := envInt("REDIS_POOL_SIZE", 10)
	if err != nil {
		return Config{}, err
	}
	partitions, err := envInt("KAFKA_TOPIC_PARTITIONS", 3)
	if err != nil {
		return Config{}, err
	}
	replication, err := envInt("KAFKA_REPLICATION_FACTOR", 1)
	if err != nil {
		return Config{}, err
	}

	metricsAddr := strings.TrimSpace(os.Getenv("METRICS_ADDR"))
	if metricsAddr == "" {
		metricsAddr = ":9102"
	}

	return Config{
		ServiceName:  service,
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		KafkaBrokers: brokers,
		MetricsAddr:  metricsAddr,
		LogLevel:     strings.TrimSpace(os.Getenv("LOG_LEVEL")),
		LogFormat:    strings.TrimSpace(os.Getenv("LOG_FORMAT")),

		KafkaPartitions:        int32(partitions),
		KafkaReplicationFactor: int16(replication),

		Redis: RedisConfig{
			URL:          strings.TrimSpace(os.Getenv("REDIS_URL")),
			PoolSize:     poolSize,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},

		ElectionLockTTL:    lockTTL,
		WorkerPollInterval: pollInterval,
		OutboxBatchSize:    batchSize,

		EnableElectionOpener:     envBool("ENABLE_ELECTION_OPENER", true),
		EnableMembershipConsumer: envBool("ENABLE_MEMBERSHIP_CONSUMER", true),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envDuration(name string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", name, raw)
	}
	return value, nil
}

func envInt(name string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, raw)
	}
	return value, nil
}
