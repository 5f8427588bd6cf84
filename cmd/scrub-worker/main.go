package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/peh-research/civicsift/config"
	"github.com/peh-research/civicsift/internal/clients/kafka_client"
	"github.com/peh-research/civicsift/internal/clients/kafka_client/consumers"
	"github.com/peh-research/civicsift/internal/db"
	"github.com/peh-research/civicsift/internal/deidentify"
	"github.com/peh-research/civicsift/internal/logging"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	modelDir := os.Getenv("CIVICSIFT_MODEL_DIR")
	if modelDir == "" {
		modelDir = "models"
	}
	ner, err := deidentify.NewNERScrubber(modelDir)
	if err != nil {
		slog.Warn("[Main] NER model unavailable, scrubbing with regex passes only",
			slog.String("error", err.Error()))
		ner = nil
	}
	defer ner.Close()

	dataRoot := os.Getenv("DATA_DIR")
	if dataRoot == "" {
		dataRoot = "data"
	}

	archive := os.Getenv("ARCHIVE_SCRUBBED") == "true"
	retention, err := time.ParseDuration(os.Getenv("ARCHIVE_RETENTION"))
	if err != nil {
		retention = 365 * 24 * time.Hour
	}
	if archive {
		db.InitDynamoDB()
	}

	worker := consumers.NewScrubWorker(deidentify.NewScrubber(ner), dataRoot, archive, retention)
	if err := kafka_client.RunConsumer(ctx, worker.Start); err != nil {
		slog.Error("[Main] Failed to run consumer",
			slog.String("error", err.Error()))
	}
}
