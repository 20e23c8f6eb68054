package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"
	"github.com/strata-bio/pubgraph/internal/api/handlers"
	"github.com/strata-bio/pubgraph/internal/config"
	"github.com/strata-bio/pubgraph/internal/database"
	"github.com/strata-bio/pubgraph/internal/jobs"
	"github.com/strata-bio/pubgraph/internal/openai"
	"github.com/strata-bio/pubgraph/internal/pubmed"
	"github.com/strata-bio/pubgraph/internal/repository"
	"github.com/strata-bio/pubgraph/internal/server"
	"github.com/strata-bio/pubgraph/internal/service"
	"github.com/strata-bio/pubgraph/internal/telemetry"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the pubgraph API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize Sentry with tracing if SENTRY_DSN is set
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		// Default to 10% sampling in production, 100% in development
		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              dsn,
			Environment:      environment,
			TracesSampleRate: sampleRate,
			Debug:            cfg.Debug,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	pool, err := database.NewPool(ctx, database.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()
	log.Println("connected to database")

	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	deps := buildServices(cfg, pool)

	ingestHandler := handlers.NewIngestHandler(deps.ingestion, deps.runs)
	askHandler := handlers.NewAskHandler(deps.answer)
	graphHandler := handlers.NewGraphHandler(deps.graph)

	router := server.NewRouter(server.RouterConfig{
		IngestHandler: ingestHandler,
		AskHandler:    askHandler,
		GraphHandler:  graphHandler,
	})

	var refreshWorker *jobs.Worker
	if cfg.RefreshInterval > 0 {
		// A term counts as stale when its last run is older than a day.
		const staleAfter = 24 * time.Hour
		processor := jobs.NewRefreshWorker(deps.runs, deps.ingestion, staleAfter, cfg.MaxFetch)
		refreshWorker = jobs.NewWorker(processor, cfg.RefreshInterval)
		go refreshWorker.Start(ctx)
		log.Println("refresh worker started")
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	if refreshWorker != nil {
		refreshWorker.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

type serviceDeps struct {
	ingestion *service.IngestionService
	answer    *service.AnswerService
	graph     *service.GraphService
	runs      *repository.IngestRunRepository
}

func buildServices(cfg *config.Config, pool *pgxpool.Pool) *serviceDeps {
	articleRepo := repository.NewArticleRepository(pool)
	chunkRepo := repository.NewChunkIndexRepository(pool)
	runRepo := repository.NewIngestRunRepository(pool)

	var embedder service.Embedder
	var completer service.Completer
	if cfg.HasOpenAI() {
		client := openai.NewClient(cfg.OpenAIAPIKey)
		embedder = client
		completer = client
	} else {
		log.Println("OPENAI_API_KEY not set: ingest and ask will be unavailable")
		ai := &noOpAI{}
		embedder = ai
		completer = ai
	}

	fetcher := pubmed.NewClient(pubmed.Config{
		BaseURL: cfg.PubMedBaseURL,
		Email:   cfg.EntrezEmail,
		APIKey:  cfg.EntrezAPIKey,
	})

	lastCtx := service.NewLastContext()

	ingestionSvc := service.NewIngestionService(fetcher, articleRepo, chunkRepo, embedder, runRepo, service.IngestionConfig{
		MaxFetch: cfg.MaxFetch,
		Chunk: service.ChunkConfig{
			Size:    cfg.ChunkSize,
			Overlap: cfg.ChunkOverlap,
		},
		BatchSize: cfg.EmbedBatchSize,
	})
	answerSvc := service.NewAnswerService(embedder, chunkRepo, articleRepo, completer, lastCtx, service.AnswerConfig{
		TopK: cfg.TopK,
	})
	graphSvc := service.NewGraphService(articleRepo, lastCtx)

	return &serviceDeps{
		ingestion: ingestionSvc,
		answer:    answerSvc,
		graph:     graphSvc,
		runs:      runRepo,
	}
}

// noOpAI stands in for the OpenAI client when no API key is configured.
type noOpAI struct{}

func (n *noOpAI) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	return nil, fmt.Errorf("openai not configured: OPENAI_API_KEY required")
}

func (n *noOpAI) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, fmt.Errorf("openai not configured: OPENAI_API_KEY required")
}

func (n *noOpAI) Complete(ctx context.Context, prompt string) (string, error) {
	return "", fmt.Errorf("openai not configured: OPENAI_API_KEY required")
}

func runMigrations(databaseURL string) error {
	// golang-migrate needs a database/sql handle
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if err == migrate.ErrNilVersion {
		log.Println("migrations: database is up to date (no migrations applied)")
	} else if dirty {
		return fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	} else if err == migrate.ErrNoChange {
		log.Printf("migrations: database is up to date (version %d)", version)
	} else {
		log.Printf("migrations: applied successfully (version %d)", version)
	}

	return nil
}
