package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ecomlabs/research-agent/internal/application"
	appanalysis "github.com/ecomlabs/research-agent/internal/application/analysis"
	"github.com/ecomlabs/research-agent/internal/config"
	analysisdomain "github.com/ecomlabs/research-agent/internal/domain/analysis"
	"github.com/ecomlabs/research-agent/internal/domain/research"
	openairunner "github.com/ecomlabs/research-agent/internal/infra/ai/openai"
	"github.com/ecomlabs/research-agent/internal/infra/catalog"
	"github.com/ecomlabs/research-agent/internal/infra/db/postgres"
	"github.com/ecomlabs/research-agent/internal/infra/db/sqlite"
	"github.com/ecomlabs/research-agent/internal/infra/httpserver"
	"github.com/ecomlabs/research-agent/internal/infra/pipeline"
	"github.com/ecomlabs/research-agent/internal/infra/report"
	"github.com/ecomlabs/research-agent/internal/infra/storage"
	"github.com/ecomlabs/research-agent/internal/infra/tools"
	"github.com/ecomlabs/research-agent/internal/middleware"
	"github.com/ecomlabs/research-agent/pkg/logger"
)

const version = "1.0.0"

func main() {
	_ = godotenv.Load()

	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogLevel, cfg.Environment); err != nil {
		fmt.Fprintf(os.Stderr, "logger init error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	ctx := context.Background()

	db, repo, err := openDatabase(ctx, cfg)
	if err != nil {
		log.Fatalw("database connect", "error", err)
	}
	defer db.Close()

	cat, err := catalog.Load()
	if err != nil {
		log.Fatalw("catalog load", "error", err)
	}

	store, err := openArtifactStore(ctx, cfg)
	if err != nil {
		log.Fatalw("artifact store init", "error", err)
	}

	gen := report.NewGenerator(store)
	toolset := tools.New(cat, gen)

	var runner research.Runner
	agentLabel := "scripted-pipeline"
	if cfg.OpenAI.APIKey != "" {
		runner = openairunner.NewRunnerWithBaseURL(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Model, toolset)
		agentLabel = cfg.OpenAI.Model
	} else {
		log.Warnw("no OPENAI_API_KEY configured, using deterministic pipeline runner")
		runner = pipeline.NewRunner(toolset)
	}

	svc := appanalysis.NewService(repo, runner, application.SystemClock{})

	checkers := map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
		"agent": middleware.HealthCheckFunc(func(context.Context) error {
			return nil
		}),
	}

	handler := httpserver.NewRouter(svc, httpserver.Metadata{
		Service:  "ecommerce-research-agent",
		Version:  version,
		Database: cfg.DatabaseLabel(),
		Agent:    agentLabel,
	}, checkers)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server listening", "addr", addr, "database", cfg.DatabaseLabel(), "agent", agentLabel)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server error", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Infow("shutting down server")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Errorw("shutdown error", "error", err)
	}
}

func openDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, analysisdomain.Repository, error) {
	if cfg.IsPostgres() {
		db, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return db, postgres.NewAnalysisRepository(db), nil
	}
	db, err := sqlite.Connect(ctx, cfg.SQLitePath())
	if err != nil {
		return nil, nil, err
	}
	return db, sqlite.NewAnalysisRepository(db), nil
}

func openArtifactStore(ctx context.Context, cfg *config.Config) (research.ArtifactStore, error) {
	if cfg.Storage.Backend == "minio" {
		return storage.NewMinioStore(ctx,
			cfg.Storage.Minio.Endpoint,
			cfg.Storage.Minio.Region,
			cfg.Storage.Minio.Bucket,
			cfg.Storage.Minio.AccessKey,
			cfg.Storage.Minio.SecretKey,
			cfg.Storage.Minio.UseSSL,
		)
	}
	return storage.NewLocalStore(cfg.Reports.Dir)
}
