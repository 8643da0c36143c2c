package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Jason-Gitau/jkuat-course-hub/config"
	"github.com/Jason-Gitau/jkuat-course-hub/http/controller"
	"github.com/Jason-Gitau/jkuat-course-hub/http/route"
	"github.com/Jason-Gitau/jkuat-course-hub/infra"
	"github.com/Jason-Gitau/jkuat-course-hub/repository"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.NewConfig()
	infraInstance := infra.InitInfra(cfg)
	repo := repository.InitRepository(infraInstance)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := infraInstance.Primary.EnsureBucket(ctx); err != nil {
		cancel()
		log.Fatalf("Failed to prepare primary bucket: %v", err)
	}
	cancel()

	ctrl := controller.NewController(cfg, infraInstance, repo)
	router := route.SetupRouter(ctrl, cfg)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting HTTP server on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
