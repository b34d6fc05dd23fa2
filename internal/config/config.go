package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Common contains Elasticsearch parameters shared by every service.
type Common struct {
	ElasticsearchAddr  string
	ElasticsearchIndex string
}

// Worker holds configuration for the Kafka -> Elasticsearch headline worker.
type Worker struct {
	Common
	KafkaBrokers     []string
	KafkaTopic       string
	KafkaConsumer    string
	KeywordLimit     int
	KeywordMinLength int
	SeenCapacity     int
	SeenTTL          time.Duration
	BatchSize        int
}

// Poller configures the RSS -> Kafka headline poller.
type Poller struct {
	KafkaBrokers []string
	KafkaTopic   string
	Feeds        []string
	Interval     time.Duration
	FetchTimeout time.Duration
}

// API describes HTTP-layer configuration.
type API struct {
	Common
	BindAddr     string
	DefaultPage  int
	MaxPage      int
	BriefTimeout time.Duration
}

// Retention configures the cleanup loop.
type Retention struct {
	Common
	Interval  time.Duration
	MaxAge    time.Duration
	BatchSize int
}

// LoadCommon reads the Elasticsearch settings shared by every service.
func LoadCommon() Common {
	return Common{
		ElasticsearchAddr:  getEnv("ELASTICSEARCH_ADDR", "http://elasticsearch:9200"),
		ElasticsearchIndex: getEnv("ELASTICSEARCH_INDEX", "headlines"),
	}
}

// LoadWorker builds a Worker config from environment variables.
func LoadWorker() (*Worker, error) {
	c := &Worker{
		Common:           LoadCommon(),
		KafkaBrokers:     splitAndTrim(getEnv("KAFKA_BROKERS", "kafka:9092")),
		KafkaTopic:       getEnv("KAFKA_TOPIC", "headlines_raw"),
		KafkaConsumer:    getEnv("KAFKA_CONSUMER_GROUP", "headline-worker"),
		KeywordLimit:     getInt("WORKER_KEYWORD_LIMIT", 8),
		KeywordMinLength: getInt("WORKER_KEYWORD_MIN_LEN", 4),
		SeenCapacity:     getInt("WORKER_SEEN_CAPACITY", 20000),
		SeenTTL:          getDuration("WORKER_SEEN_TTL", "24h"),
		BatchSize:        getInt("WORKER_BATCH_SIZE", 10),
	}

	if len(c.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS must contain at least one broker")
	}
	if c.BatchSize <= 0 {
		return nil, fmt.Errorf("WORKER_BATCH_SIZE must be positive")
	}
	if c.SeenCapacity <= 0 {
		return nil, fmt.Errorf("WORKER_SEEN_CAPACITY must be positive")
	}
	if c.KeywordLimit <= 0 {
		return nil, fmt.Errorf("WORKER_KEYWORD_LIMIT must be positive")
	}
	if c.KeywordMinLength < 0 {
		return nil, fmt.Errorf("WORKER_KEYWORD_MIN_LEN cannot be negative")
	}

	return c, nil
}

// LoadPoller builds a Poller config from environment variables.
func LoadPoller() (*Poller, error) {
	c := &Poller{
		KafkaBrokers: splitAndTrim(getEnv("KAFKA_BROKERS", "kafka:9092")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "headlines_raw"),
		Feeds: splitAndTrim(getEnv("POLLER_FEEDS",
			"https://news.google.com/rss/search?q=TSA+checkpoint+wait&hl=en-US&gl=US&ceid=US:en,"+
				"https://news.google.com/rss/search?q=airport+delays+OR+ground+stop&hl=en-US&gl=US&ceid=US:en")),
		Interval:     getDuration("POLLER_INTERVAL", "10m"),
		FetchTimeout: getDuration("POLLER_FETCH_TIMEOUT", "20s"),
	}

	if len(c.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS must contain at least one broker")
	}
	if len(c.Feeds) == 0 {
		return nil, fmt.Errorf("POLLER_FEEDS must contain at least one feed")
	}
	if c.Interval <= 0 {
		return nil, fmt.Errorf("POLLER_INTERVAL must be positive")
	}
	if c.FetchTimeout <= 0 {
		return nil, fmt.Errorf("POLLER_FETCH_TIMEOUT must be positive")
	}

	return c, nil
}

// LoadAPI builds an API config from environment variables.
func LoadAPI() (*API, error) {
	c := &API{
		Common:       LoadCommon(),
		BindAddr:     getEnv("API_BIND_ADDR", "0.0.0.0:8080"),
		DefaultPage:  getInt("API_PAGE_SIZE", 20),
		MaxPage:      getInt("API_MAX_PAGE_SIZE", 100),
		BriefTimeout: getDuration("API_BRIEF_TIMEOUT", "25s"),
	}

	if c.DefaultPage <= 0 {
		return nil, fmt.Errorf("API_PAGE_SIZE must be positive")
	}
	if c.MaxPage <= 0 {
		return nil, fmt.Errorf("API_MAX_PAGE_SIZE must be positive")
	}
	if c.DefaultPage > c.MaxPage {
		return nil, fmt.Errorf("API_PAGE_SIZE cannot exceed API_MAX_PAGE_SIZE")
	}
	if c.BriefTimeout <= 0 {
		return nil, fmt.Errorf("API_BRIEF_TIMEOUT must be positive")
	}

	return c, nil
}

// LoadRetention builds a Retention config from environment variables.
func LoadRetention() (*Retention, error) {
	c := &Retention{
		Common:    LoadCommon(),
		Interval:  getDuration("RETENTION_CRON", "6h"),
		MaxAge:    getDuration("RETENTION_MAX_AGE", "72h"),
		BatchSize: getInt("RETENTION_BATCH_SIZE", 500),
	}

	if c.MaxAge <= 0 {
		return nil, fmt.Errorf("RETENTION_MAX_AGE must be positive")
	}
	if c.Interval <= 0 {
		return nil, fmt.Errorf("RETENTION_CRON must be positive")
	}
	if c.BatchSize <= 0 {
		return nil, fmt.Errorf("RETENTION_BATCH_SIZE must be positive")
	}

	return c, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key, fallback string) time.Duration {
	if d, err := time.ParseDuration(getEnv(key, fallback)); err == nil {
		return d
	}
	d, err := time.ParseDuration(fallback)
	if err != nil {
		panic(fmt.Sprintf("invalid fallback duration %q: %v", fallback, err))
	}
	return d
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
