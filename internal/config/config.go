package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// AppInfo holds basic information about the application.
type AppInfo struct {
	Name    string `yaml:"name"`    // application name
	Version string `yaml:"version"` // application version
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Address string `yaml:"address"` // listen address, e.g. ":8080"
}

// StorageConfig holds local file storage settings.
type StorageConfig struct {
	UploadDir string `yaml:"uploadDir"` // directory for uploaded raw files
}

// SplitterConfig holds the chunking parameters for document ingestion.
type SplitterConfig struct {
	ChunkSize    int `yaml:"chunkSize"`    // chunk size in characters
	ChunkOverlap int `yaml:"chunkOverlap"` // overlap between consecutive chunks
}

// RetrievalConfig holds the retrieval parameters for the query path.
type RetrievalConfig struct {
	TopK int `yaml:"topK"` // number of chunks retrieved per query
}

// MilvusConfig holds the Milvus connection and collection settings.
type MilvusConfig struct {
	Address    string `yaml:"address"`    // Milvus service address
	Collection string `yaml:"collection"` // collection holding all document chunks
	Dim        int    `yaml:"dim"`        // embedding vector dimension
}

// OpenAIConfig holds settings for the OpenAI provider.
// The API key is resolved from the environment, never from the file.
type OpenAIConfig struct {
	Model  string `yaml:"model"`
	APIKey string `yaml:"-"`
}

// OllamaConfig holds settings for a local Ollama instance.
type OllamaConfig struct {
	BaseURL string `yaml:"baseURL"` // empty means http://localhost:11434
	Model   string `yaml:"model"`
}

// GeminiConfig holds settings for the Google Gemini provider.
// The API key is resolved from the environment, never from the file.
type GeminiConfig struct {
	Model  string `yaml:"model"`
	APIKey string `yaml:"-"`
}

// LLMConfig selects and configures the answer-generation provider.
type LLMConfig struct {
	Provider    string       `yaml:"provider"` // "openai", "ollama" or "gemini"
	Temperature float32      `yaml:"temperature"`
	OpenAI      OpenAIConfig `yaml:"openai"`
	Ollama      OllamaConfig `yaml:"ollama"`
	Gemini      GeminiConfig `yaml:"gemini"`
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	Provider string       `yaml:"provider"` // "openai", "ollama" or "gemini"
	OpenAI   OpenAIConfig `yaml:"openai"`
	Ollama   OllamaConfig `yaml:"ollama"`
	Gemini   GeminiConfig `yaml:"gemini"`
}

// LoggerConfig holds the logger settings.
type LoggerConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn" or "error"
}

// RateLimiterConfig configures the optional admission-control middleware.
type RateLimiterConfig struct {
	Enabled  bool    `yaml:"enabled"`
	Rate     float64 `yaml:"rate"` // tokens per second
	Capacity int     `yaml:"capacity"`
}

// CircuitBreakerConfig configures the optional circuit breaker middleware.
type CircuitBreakerConfig struct {
	Enabled          bool   `yaml:"enabled"`
	FailureThreshold uint32 `yaml:"failureThreshold"`
	SuccessThreshold uint32 `yaml:"successThreshold"`
	Timeout          string `yaml:"timeout"` // e.g. "30s"
}

// MiddlewareConfig groups the optional HTTP middleware settings.
type MiddlewareConfig struct {
	RateLimiter    RateLimiterConfig    `yaml:"rateLimiter"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuitBreaker"`
}

// AppConfig is the root of the YAML configuration file.
type AppConfig struct {
	App        AppInfo          `yaml:"app"`
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Splitter   SplitterConfig   `yaml:"splitter"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Milvus     MilvusConfig     `yaml:"milvus"`
	LLM        LLMConfig        `yaml:"llm"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Logger     LoggerConfig     `yaml:"logger"`
	Middleware MiddlewareConfig `yaml:"middleware"`
}

// Environment variables that hold provider credentials.
const (
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
)

// Load reads and parses the YAML configuration file at path.
// A missing file is not an error; the defaults are returned instead.
func Load(path string) (*AppConfig, error) {
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("cannot read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(yamlFile, cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config file '%s': %w", path, err)
	}
	return cfg, nil
}

// Default returns the configuration used when no file overrides it.
func Default() *AppConfig {
	return &AppConfig{
		App: AppInfo{
			Name:    "Document Intelligence API",
			Version: "1.0.0",
		},
		Server: ServerConfig{
			Address: ":8080",
		},
		Storage: StorageConfig{
			UploadDir: "uploads",
		},
		Splitter: SplitterConfig{
			ChunkSize:    1000,
			ChunkOverlap: 200,
		},
		Retrieval: RetrievalConfig{
			TopK: 3,
		},
		Milvus: MilvusConfig{
			Address:    "localhost:19530",
			Collection: "documents",
			Dim:        1536,
		},
		LLM: LLMConfig{
			Provider:    "openai",
			Temperature: 0.3,
			OpenAI:      OpenAIConfig{Model: "gpt-3.5-turbo"},
			Ollama:      OllamaConfig{Model: "llama2"},
			Gemini:      GeminiConfig{Model: "gemini-1.5-flash"},
		},
		Embedding: EmbeddingConfig{
			Provider: "openai",
			OpenAI:   OpenAIConfig{Model: "text-embedding-3-small"},
			Ollama:   OllamaConfig{Model: "nomic-embed-text"},
			Gemini:   GeminiConfig{Model: "text-embedding-004"},
		},
		Logger: LoggerConfig{
			Level: "info",
		},
	}
}

// ResolveCredentials fills in provider API keys from the environment and
// fails if a configured provider has no credential. Ollama needs none.
func (c *AppConfig) ResolveCredentials() error {
	if err := resolveKey(c.LLM.Provider, &c.LLM.OpenAI.APIKey, &c.LLM.Gemini.APIKey); err != nil {
		return fmt.Errorf("llm provider: %w", err)
	}
	if err := resolveKey(c.Embedding.Provider, &c.Embedding.OpenAI.APIKey, &c.Embedding.Gemini.APIKey); err != nil {
		return fmt.Errorf("embedding provider: %w", err)
	}
	return nil
}

func resolveKey(provider string, openaiKey, geminiKey *string) error {
	switch provider {
	case "openai":
		key := os.Getenv(EnvOpenAIAPIKey)
		if key == "" {
			return fmt.Errorf("%s environment variable is not set", EnvOpenAIAPIKey)
		}
		*openaiKey = key
	case "gemini":
		key := os.Getenv(EnvGeminiAPIKey)
		if key == "" {
			return fmt.Errorf("%s environment variable is not set", EnvGeminiAPIKey)
		}
		*geminiKey = key
	case "ollama":
		// Local provider, no credential required.
	default:
		return fmt.Errorf("unsupported provider: %s", provider)
	}
	return nil
}
