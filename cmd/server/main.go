package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/invoxa/invoice-manager/api/handlers"
	"github.com/invoxa/invoice-manager/api/routes"
	"github.com/invoxa/invoice-manager/config"
	"github.com/invoxa/invoice-manager/internal/models"
	"github.com/invoxa/invoice-manager/internal/service/category"
	"github.com/invoxa/invoice-manager/internal/service/department"
	"github.com/invoxa/invoice-manager/internal/service/invoice"
	"github.com/invoxa/invoice-manager/pkg/logger"
)

func main() {
	log, err := logger.NewLogger(
		logger.WithLevel("info"),
		logger.WithEncoding("json"),
		logger.WithOutputPaths([]string{"stdout", "logs/app.log"}),
	)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := openDatabase()
	if err != nil {
		log.Fatal("Failed to connect to database", logger.Error(err))
	}

	ctx := context.Background()
	invoiceService, err := invoice.GetService(ctx, db, log)
	if err != nil {
		log.Fatal("Failed to create invoice service", logger.Error(err))
	}

	h := handlers.NewHandlers(
		invoiceService,
		category.NewService(db, log),
		department.NewService(db, log),
		log,
	)

	r := gin.New()
	r.Use(gin.Recovery())
	routes.SetupRoutes(r, h)

	serverCfg := config.GetServerConfig()
	srv := &http.Server{
		Addr:    ":" + serverCfg.Port,
		Handler: r,
	}

	go func() {
		log.Info("Server starting", logger.String("port", serverCfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server error", logger.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", logger.Error(err))
	}
}

func openDatabase() (*gorm.DB, error) {
	dbCfg := config.GetDatabaseConfig()
	db, err := gorm.Open(postgres.Open(dbCfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.Category{},
		&models.Department{},
		&models.Invoice{},
	); err != nil {
		return nil, err
	}

	return db, nil
}
