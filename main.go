package main

import (
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gatherpoint/checkin-go/cache"
	"github.com/gatherpoint/checkin-go/config"
	"github.com/gatherpoint/checkin-go/engine"
	"github.com/gatherpoint/checkin-go/routes"
	"github.com/gatherpoint/checkin-go/storage"
)

func main() {
	// Set up logging to stdout
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Unable to load configuration: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	// Initialize database
	db := config.InitDB(cfg.DSN())
	store := storage.New(db)

	// Redis is optional: without it the engine skips the emission cache and
	// the outbound event queue.
	var emissionCache engine.EmissionCache
	var eventQueue engine.EventQueue
	if cfg.RedisAddr != "" {
		redisStore, err := cache.New(cfg.RedisAddr)
		if err != nil {
			log.Fatalf("Unable to connect to redis: %v", err)
		}
		defer redisStore.Close()
		emissionCache = redisStore
		eventQueue = redisStore
	} else {
		log.Println("REDIS_ADDR not set; emission cache and event queue disabled")
	}

	// Wire the validation engine
	registry := engine.NewCodeRegistry(store, store, emissionCache)
	resolver := engine.NewEventResolver(store, store)
	gate := engine.NewEligibilityGate(store)
	ledger := engine.NewLedger(store)
	orchestrator := engine.NewOrchestrator(registry, resolver, gate, ledger, store, store, eventQueue)

	// Create a new Gin router
	r := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// Initialize routes
	routes.SetupRoutes(r, db, orchestrator, registry)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	log.Printf("Starting server on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}
