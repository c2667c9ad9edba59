package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yoga-intelligence-be/internal/bootstrap"
	"yoga-intelligence-be/internal/config"
	"yoga-intelligence-be/internal/server"
	"yoga-intelligence-be/internal/tracer"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Tracer
	shutdownTracer := tracer.InitTracer(cfg.Tracing)

	// 3. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(cfg)
	if err != nil {
		log.Fatalf("Failed to bootstrap: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Start Background Services
	go container.WebSocketHub.Run(ctx)
	if err := container.ConsumerService.Consume(ctx); err != nil {
		container.Logger.Error("Main", "Failed to start consumer", map[string]interface{}{"error": err})
	}

	// 5. Run Server
	srv := server.New(cfg, container)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run() }()

	select {
	case err := <-errCh:
		container.Logger.Error("Main", "Server stopped", map[string]interface{}{"error": err})
	case <-ctx.Done():
		container.Logger.Info("Main", "Shutting down", nil)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		container.Logger.Warn("Main", "Server shutdown incomplete", map[string]interface{}{"error": err})
	}
	stop()
	if err := shutdownTracer(shutdownCtx); err != nil {
		container.Logger.Warn("Main", "Tracer shutdown failed", map[string]interface{}{"error": err})
	}
	container.Close()
}
