package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"greenheart/internal/api/handlers"
	"greenheart/internal/api/middleware"
	"greenheart/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	// The run store is optional; without DATABASE_URL the runs endpoints
	// report 503 and everything else works.
	var runStore *store.Store
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		st, err := store.Open(context.Background(), dsn)
		if err != nil {
			log.Fatalf("Failed to open run store: %v", err)
		}
		if err := st.Migrate(context.Background()); err != nil {
			log.Fatalf("Failed to migrate run store: %v", err)
		}
		runStore = st
		defer st.Close()
		log.Printf("Run store connected")
	} else {
		log.Printf("DATABASE_URL not set, run persistence disabled")
	}

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	simulateHandler := handlers.NewSimulateHandler(os.Getenv("CONFIG_DIR"), runStore)
	sweepHandler := handlers.NewSweepHandler(simulateHandler)
	runsHandler := handlers.NewRunsHandler(runStore)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/simulate", simulateHandler.RunSimulation)
		api.POST("/sweep", sweepHandler.RunSweep)

		api.GET("/runs", runsHandler.ListRuns)
		api.GET("/runs/:id", runsHandler.GetRun)
	}

	addr := fmt.Sprintf(":%s", port)
	log.Printf("Starting API server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
