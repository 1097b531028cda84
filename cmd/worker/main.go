package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/invoxa/invoice-manager/config"
	"github.com/invoxa/invoice-manager/internal/models"
	"github.com/invoxa/invoice-manager/internal/service/invoice"
	"github.com/invoxa/invoice-manager/pkg/logger"
	"github.com/invoxa/invoice-manager/pkg/queue"
	"github.com/invoxa/invoice-manager/pkg/worker"
)

func main() {
	log, err := logger.NewLogger(
		logger.WithLevel("info"),
		logger.WithEncoding("json"),
		logger.WithOutputPaths([]string{"stdout", "logs/worker.log"}),
	)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	dbCfg := config.GetDatabaseConfig()
	db, err := gorm.Open(postgres.Open(dbCfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Error("Failed to connect to database", logger.Error(err))
		os.Exit(1)
	}

	if err := db.AutoMigrate(&models.Category{}, &models.Department{}, &models.Invoice{}); err != nil {
		log.Error("Failed to migrate database", logger.Error(err))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	invoiceService, err := invoice.GetService(ctx, db, log)
	if err != nil {
		log.Error("Failed to create invoice service", logger.Error(err))
		os.Exit(1)
	}

	q, err := queue.GetQueue()
	if err != nil {
		log.Error("Failed to create queue", logger.Error(err))
		os.Exit(1)
	}

	serverCfg := config.GetServerConfig()
	workerCfg := &worker.Config{
		RedisAddr:   serverCfg.RedisAddr,
		RedisDB:     serverCfg.RedisDB,
		Concurrency: serverCfg.Concurrency,
		Queues: map[string]int{
			"default": 1,
		},
	}

	scanWorker, err := worker.NewScanWorker(workerCfg, invoiceService, q, log)
	if err != nil {
		log.Error("Failed to create scan worker", logger.Error(err))
		os.Exit(1)
	}

	if err := scanWorker.Start(ctx); err != nil {
		log.Error("Failed to start worker", logger.Error(err))
		os.Exit(1)
	}

	if days := serverCfg.FileRetentionDays; days > 0 {
		retention := time.Duration(days) * 24 * time.Hour
		log.Info("File retention cleanup enabled", logger.Int("days", days))
		go runFileCleanup(ctx, invoiceService, retention, log)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down worker...")
	scanWorker.Stop()
	log.Info("Worker stopped")
}

// runFileCleanup ages out stored invoice files on a fixed interval
// until the context is cancelled.
func runFileCleanup(ctx context.Context, svc invoice.Service, retention time.Duration, log logger.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := svc.CleanupFiles(ctx, retention); err != nil {
				log.Error("File cleanup failed", logger.Error(err))
			}
		}
	}
}
