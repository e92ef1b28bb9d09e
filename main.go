package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/zt-labs/aegis/api/audit"
	"github.com/zt-labs/aegis/api/config"
	"github.com/zt-labs/aegis/api/controller"
	"github.com/zt-labs/aegis/api/dao"
	"github.com/zt-labs/aegis/api/db"
	"github.com/zt-labs/aegis/api/engine"
	logger "github.com/zt-labs/aegis/api/logging"
	"github.com/zt-labs/aegis/api/router"
	"github.com/zt-labs/aegis/api/service"
	"github.com/zt-labs/aegis/api/store"
	"github.com/zt-labs/aegis/api/util"
)

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}

	// Initialize logger
	logger.InitLogger(config.GetString("log.dir"))
	defer logger.Sync()

	// Initialize Redis
	if err := db.InitRedis(); err != nil {
		logger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer db.CloseRedis()

	// Initialize EventBus
	eventBus := util.NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eventBus.Start(ctx)

	// Initialize services and utilities
	validationUtil := util.NewValidationUtil()
	cacheService := util.NewCacheService()
	notificationService := util.NewNotificationService()

	// SIEM forwarding: every emitted security event is drained to
	// Elasticsearch.
	auditRepository, err := audit.NewElasticsearchRepository(config.GetString("elasticsearch.url"))
	if err != nil {
		logger.Fatal("Failed to initialize audit repository", zap.Error(err))
	}
	auditService := audit.NewService(auditRepository)
	audit.RegisterForwarder(eventBus, engine.EventTopic, auditService)

	// Initialize the directory store and the evaluation engine
	directory := store.NewDirectoryStore()
	ztEngine := engine.NewZeroTrustEngine(directory, eventBus)

	// Bulk-load the directory from the external CMDB graph when configured.
	if config.GetBool("neo4j.enabled") {
		if err := db.InitNeo4j(); err != nil {
			logger.Fatal("Failed to initialize Neo4j", zap.Error(err))
		}
		defer db.CloseNeo4j()

		loader := dao.NewDirectoryLoader()
		if err := loader.LoadAll(ctx, directory); err != nil {
			logger.Fatal("Failed to load directory from graph", zap.Error(err))
		}
	}

	// Initialize services
	services := service.InitializeServices(
		ztEngine,
		directory,
		validationUtil,
		cacheService,
		notificationService,
		eventBus,
	)

	// Initialize controllers
	controllers := controller.InitializeControllers(services, auditService)

	// Set up Gin
	gin.SetMode(gin.ReleaseMode)
	engineRouter := router.SetupRouter(
		controllers,
		config.GetInt("server.rateLimitRequests"),
		time.Minute,
		viper.GetStringSlice("auth.adminGroups"),
	)

	// Set up the server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.GetString("server.port")),
		Handler: engineRouter,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", config.GetString("server.port")))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
