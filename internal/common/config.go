package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Logging     LoggingConfig   `toml:"logging"`
	Chunking    ChunkingConfig  `toml:"chunking"`
	Query       QueryConfig     `toml:"query"`
	Pinecone    PineconeConfig  `toml:"pinecone"`
	Embedding   EmbeddingConfig `toml:"embedding"`
	Claude      ClaudeConfig    `toml:"claude"`
	Kafka       KafkaConfig     `toml:"kafka"`
	Eureka      EurekaConfig    `toml:"eureka"`
	Tickets     TicketsConfig   `toml:"tickets"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// ChunkingConfig controls how ingested text is split before embedding.
type ChunkingConfig struct {
	ChunkSize int `toml:"chunk_size"` // Max characters per chunk
	Overlap   int `toml:"overlap"`    // Shared characters between adjacent chunks
}

// QueryConfig controls retrieval and answer synthesis behavior.
type QueryConfig struct {
	DefaultTopK         int     `toml:"default_top_k"`        // Documents retrieved per query
	ConfidenceThreshold float64 `toml:"confidence_threshold"` // Advanced mode threshold as a fraction (0-1)
	FallbackAnswer      string  `toml:"fallback_answer"`      // Returned when nothing clears the threshold
	Timeout             string  `toml:"timeout"`              // Bound on one full query cycle
}

// PineconeConfig contains the external vector store connection settings.
type PineconeConfig struct {
	IndexHost string `toml:"index_host"` // Index endpoint, e.g. "https://myindex-abc123.svc.pinecone.io"
	APIKey    string `toml:"api_key"`
	Timeout   string `toml:"timeout"` // HTTP request timeout
}

// EmbeddingConfig contains the embedding provider settings.
type EmbeddingConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"` // Override for OpenAI-compatible providers
	Model   string `toml:"model"`    // Embedding model name
}

// ClaudeConfig contains Anthropic Claude API configuration for answer synthesis.
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`     // Anthropic API key
	Model       string  `toml:"model"`       // Model for synthesis (default: "claude-haiku-3-5-20241022")
	MaxTokens   int     `toml:"max_tokens"`  // Maximum tokens in response (default: 1024)
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "2m")
	RateLimit   string  `toml:"rate_limit"`  // Minimum interval between API calls (default: "1s")
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0.2)
}

// KafkaConfig contains the ticket event stream settings.
type KafkaConfig struct {
	Brokers          []string `toml:"brokers"`
	Topic            string   `toml:"topic"`
	GroupID          string   `toml:"group_id"`
	ClientID         string   `toml:"client_id"`
	ResolveThreshold float64  `toml:"resolve_threshold"` // Fraction (0-1); above it tickets auto-resolve
}

// EurekaConfig contains service registry settings.
type EurekaConfig struct {
	Enabled          bool   `toml:"enabled"`
	ServerURL        string `toml:"server_url"` // e.g. "http://localhost:8761/eureka"
	ServiceName      string `toml:"service_name"`
	ServiceHost      string `toml:"service_host"`
	HeartbeatSecs    int    `toml:"heartbeat_secs"`     // Lease renewal interval
	LeaseDurationSec int    `toml:"lease_duration_sec"` // Lease expiry if renewals stop
	RefreshSecs      int    `toml:"refresh_secs"`       // Registry fetch interval
}

// TicketsConfig names the downstream ticket service.
type TicketsConfig struct {
	ServiceName string `toml:"service_name"` // Registry name of the ticket service
	Timeout     string `toml:"timeout"`      // HTTP request timeout for status updates
}

// NewDefaultConfig creates a configuration with default values.
// Only user-facing settings should be exposed in respondo.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 3000,
			Host: "localhost",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
		Chunking: ChunkingConfig{
			ChunkSize: 1000,
			Overlap:   200,
		},
		Query: QueryConfig{
			DefaultTopK:         3,
			ConfidenceThreshold: 0.7,
			FallbackAnswer:      "I could not find relevant information with sufficient confidence to answer this question.",
			Timeout:             "2m",
		},
		Pinecone: PineconeConfig{
			Timeout: "30s",
		},
		Embedding: EmbeddingConfig{
			Model: "text-embedding-3-small",
		},
		Claude: ClaudeConfig{
			Model:       "claude-haiku-3-5-20241022",
			MaxTokens:   1024,
			Timeout:     "2m",
			RateLimit:   "1s",
			Temperature: 0.2,
		},
		Kafka: KafkaConfig{
			Brokers:          []string{"localhost:9092"},
			Topic:            "ticket-events",
			GroupID:          "ticket-processor-group",
			ClientID:         "ticket-rag-processor",
			ResolveThreshold: 0.5,
		},
		Eureka: EurekaConfig{
			Enabled:          true,
			ServerURL:        "http://localhost:8761/eureka",
			ServiceName:      "rag-service",
			ServiceHost:      "localhost",
			HeartbeatSecs:    30,
			LeaseDurationSec: 90,
			RefreshSecs:      30,
		},
		Tickets: TicketsConfig{
			ServiceName: "ticket-service",
			Timeout:     "30s",
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority:
// default -> file1 -> file2 -> ... -> env. Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("RESPONDO_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if port := os.Getenv("RESPONDO_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("RESPONDO_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	if level := os.Getenv("RESPONDO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if key := os.Getenv("PINECONE_API_KEY"); key != "" {
		config.Pinecone.APIKey = key
	}
	if host := os.Getenv("PINECONE_INDEX_HOST"); host != "" {
		config.Pinecone.IndexHost = host
	}

	if key := os.Getenv("RESPONDO_EMBEDDING_API_KEY"); key != "" {
		config.Embedding.APIKey = key
	} else if key := os.Getenv("OPENAI_API_KEY"); key != "" && config.Embedding.APIKey == "" {
		config.Embedding.APIKey = key
	}

	if key := os.Getenv("RESPONDO_CLAUDE_API_KEY"); key != "" {
		config.Claude.APIKey = key
	} else if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" && config.Claude.APIKey == "" {
		config.Claude.APIKey = key
	}

	if brokers := os.Getenv("RESPONDO_KAFKA_BROKERS"); brokers != "" {
		var list []string
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				list = append(list, b)
			}
		}
		if len(list) > 0 {
			config.Kafka.Brokers = list
		}
	}
	if topic := os.Getenv("RESPONDO_KAFKA_TOPIC"); topic != "" {
		config.Kafka.Topic = topic
	}

	if url := os.Getenv("RESPONDO_EUREKA_URL"); url != "" {
		config.Eureka.ServerURL = url
	}
	if name := os.Getenv("RESPONDO_SERVICE_NAME"); name != "" {
		config.Eureka.ServiceName = name
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}
