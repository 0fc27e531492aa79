package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"threadboard/internal/config"
	"threadboard/internal/db"
	"threadboard/internal/logger"
	"threadboard/internal/metrics"
	"threadboard/internal/router"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "optional YAML config file")
	flag.Parse()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l := logger.New(cfg.Log.Level)
	l.Info("Starting threadboard...")
	if cfg.UsesDefaultSecret() {
		l.Warn("JWT_SECRET is not set; tokens are signed with the development default")
	}

	gin.SetMode(cfg.Server.Mode)

	gdb, err := db.Open(cfg.Database.Driver, cfg.Database.DSN, l)
	if err != nil {
		l.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close(gdb)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router.New(cfg, gdb, l, metrics.New()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		l.Infof("HTTP server listening on :%s", cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Errorf("HTTP server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	l.Info("Received shutdown signal...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		l.Errorf("HTTP server shutdown: %v", err)
	}

	l.Info("threadboard stopped")
}
