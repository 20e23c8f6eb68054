package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`

	// Entrez identifies this client to the NCBI E-utilities API.
	EntrezEmail  string `envconfig:"ENTREZ_EMAIL"`
	EntrezAPIKey string `envconfig:"ENTREZ_API_KEY"`
	// PubMedBaseURL overrides the E-utilities endpoint, mainly for tests.
	PubMedBaseURL string `envconfig:"PUBMED_BASE_URL"`

	// TopK is the number of chunks retrieved per question.
	TopK int `envconfig:"TOP_K" default:"5"`
	// MaxFetch caps max_results on any single ingestion request.
	MaxFetch int `envconfig:"MAX_FETCH" default:"50"`

	ChunkSize      int `envconfig:"CHUNK_SIZE" default:"600"`
	ChunkOverlap   int `envconfig:"CHUNK_OVERLAP" default:"100"`
	EmbedBatchSize int `envconfig:"EMBED_BATCH_SIZE" default:"16"`

	// RefreshInterval enables the background re-ingestion worker when
	// positive. Zero disables it.
	RefreshInterval time.Duration `envconfig:"REFRESH_INTERVAL" default:"0"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("PUBGRAPH", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}
