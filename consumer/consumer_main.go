package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Jason-Gitau/jkuat-course-hub/config"
	"github.com/Jason-Gitau/jkuat-course-hub/consumer/worker"
	"github.com/Jason-Gitau/jkuat-course-hub/infra"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.NewConfig()
	infraInstance := infra.InitInfra(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cleanup := worker.NewCleanupConsumer(infraInstance)
	go func() {
		if err := cleanup.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("Cleanup consumer stopped: %v", err)
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigChan:
		log.Printf("Received signal %v, shutting down", sig)
	case <-ctx.Done():
	}

	cancel()
	infraInstance.RabbitMQ.Close()
}
