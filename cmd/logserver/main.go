package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lorafactory/logserver/internal/config"
	"github.com/lorafactory/logserver/internal/server"
	"github.com/lorafactory/logserver/internal/storage"
)

func main() {
	// Command-line flags
	port := flag.Int("port", config.DefaultPort, "HTTP port to listen on (loopback only)")
	logDir := flag.String("logs", config.DefaultLogDir, "Directory for log files")
	configPath := flag.String("config", "", "Optional YAML config file")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("Invalid config: %v", err)
		}
	}

	// Explicit flags win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Port = *port
		case "logs":
			cfg.LogDir = *logDir
		}
	})

	// Log directory is created eagerly; the day's file path is fixed here
	// for the process lifetime.
	writer, err := storage.NewLineWriter(cfg.LogDir, cfg.FilePrefix, time.Now())
	if err != nil {
		log.Fatalf("Failed to prepare log directory: %v", err)
	}
	logPath, err := writer.Path()
	if err != nil {
		log.Fatalf("Failed to resolve log file path: %v", err)
	}

	srv, err := server.NewIngestServer(writer)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}
	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Port)

	// Start HTTP Server in a goroutine
	go func() {
		log.Printf("Logging server started on http://%s", addr)
		log.Printf("Writing logs to: %s", logPath)
		if err := srv.Start(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful Shutdown Hook
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until signal
	sig := <-quit
	log.Printf("Received signal: %v. Shutting down...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Log server exited gracefully.")
}
