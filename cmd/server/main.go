// Service entry point. Wires configuration, storage, services, and the
// HTTP router, then runs until a shutdown signal arrives. Any critical
// dependency that fails at startup crashes the process immediately.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/NtshVrm/VYSONM2A2/internal/config"
	"github.com/NtshVrm/VYSONM2A2/internal/database"
	"github.com/NtshVrm/VYSONM2A2/internal/handler"
	"github.com/NtshVrm/VYSONM2A2/internal/middleware"
	"github.com/NtshVrm/VYSONM2A2/internal/repository"
	"github.com/NtshVrm/VYSONM2A2/internal/service"
	"github.com/NtshVrm/VYSONM2A2/internal/shortcode"
)

// Version is set at build time with
// go build -ldflags "-X main.Version=1.0.0".
var Version = "dev"

func main() {
	// .env is for local development; absence is fine in production.
	_ = godotenv.Load()

	cfg := config.Load()
	log.Printf("Starting link shortener v%s on port %s", Version, cfg.Server.Port)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Println("Connecting to PostgreSQL...")
	postgres := database.NewPostgresDB(cfg.Database)
	pool, err := postgres.Connect(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer postgres.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("PostgreSQL ready")

	log.Println("Connecting to Redis...")
	redis, err := database.NewRedisDB(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()
	log.Println("Redis ready")

	linkRepo := repository.NewLinkRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	gen := shortcode.New(cfg.Shortener.CodeLength)
	linkService := service.NewLinkService(linkRepo, redis, redis.CacheTTL, gen, cfg.Shortener)
	accessService := service.NewAccessService(userRepo)

	linkHandler := handler.NewLinkHandler(linkService)
	healthHandler := handler.NewHealthHandler(postgres, redis, Version)

	rateLimiter := middleware.NewRateLimiter(redis, cfg.RateLimit.RequestsPerMinute)
	apiKeyAuth := middleware.NewAPIKeyAuth(accessService)

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "link shortener up and running", "version": Version})
	})
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)
	router.GET("/live", healthHandler.Live)

	// Anonymous redirects resolve any live link; a presented key scopes
	// the lookup to that caller's links.
	router.GET("/redirect", apiKeyAuth.OptionalKey(), rateLimiter.Middleware(), linkHandler.Redirect)

	api := router.Group("")
	api.Use(apiKeyAuth.OptionalKey())
	api.Use(rateLimiter.Middleware())
	{
		api.POST("/shorten", linkHandler.Shorten)
		api.POST("/shorten/bulk", apiKeyAuth.RequireKey(), linkHandler.ShortenBulk)
		api.DELETE("/delete", linkHandler.Delete)
		api.PUT("/code/:shortCode", linkHandler.UpdateExpiry)
		api.GET("/lookup", linkHandler.Lookup)
		api.GET("/all", linkHandler.ListAll)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	bgCtx, bgCancel := context.WithCancel(context.Background())
	defer bgCancel()
	go runPurgeJob(bgCtx, linkService, cfg.Shortener.PurgeInterval)

	go func() {
		log.Printf("Server listening on http://localhost:%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	bgCancel()
	log.Println("Server stopped")
}

// runPurgeJob periodically removes soft-deleted links past retention.
// Runs until the context is cancelled.
func runPurgeJob(ctx context.Context, links *service.LinkService, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Purge job stopped")
			return
		case <-ticker.C:
			purgeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			count, err := links.PurgeDeleted(purgeCtx)
			cancel()

			if err != nil {
				log.Printf("Purge error: %v", err)
			} else if count > 0 {
				log.Printf("Purged %d deleted links", count)
			}
		}
	}
}
