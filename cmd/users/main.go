// Package main User Service API
//
// User lifecycle service: CRUD over user records with lifecycle
// events published to the message bus for downstream consumers.
//
//	@title			User Service API
//	@version		1.0
//	@description	User management service with lifecycle event publishing
//
//	@contact.name	API Support
//	@contact.email	support@example.com
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//	@schemes	http https
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "usersvc/docs/swagger"
	"usersvc/internal/users/adapters"
	"usersvc/internal/users/application"
	"usersvc/internal/users/infrastructure"
	"usersvc/internal/users/ports"
	"usersvc/pkg/config"
	"usersvc/pkg/db"
	"usersvc/pkg/events"
	"usersvc/pkg/kafka"
	"usersvc/pkg/logger"
	"usersvc/pkg/middleware"
	"usersvc/pkg/rabbitmq"
	pkgtls "usersvc/pkg/tls"
	"usersvc/pkg/validation"
)

func main() {
	// Load configuration
	cfg := config.LoadForService("users-service")

	// Initialize logger
	log := logger.New("users-service", cfg.LogLevel)
	defer log.Sync()

	log.Info("starting users service")

	// Connect to database
	dbConn, err := db.NewConnection(db.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
		Timeout:  cfg.DBTimeout,
	})
	if err != nil {
		log.Fatal("failed to connect to database: " + err.Error())
	}
	log.Info("connected to database")

	// Initialize repository and run migrations
	repo := adapters.NewPostgresUserRepository(dbConn)
	if err := repo.Migrate(); err != nil {
		log.Fatal("failed to migrate database: " + err.Error())
	}

	// Set up the event publisher on the configured bus. A broker that is
	// down at startup only disables events; it never stops the service.
	var publisher ports.EventPublisher
	var breakerPub *adapters.BreakerPublisher

	transport, cleanup, err := newTransport(cfg, log)
	if err != nil {
		log.Warn("failed to set up event transport, events will be disabled: " + err.Error())
	} else {
		defer cleanup()
		breakerPub = adapters.NewBreakerPublisher(transport, adapters.BreakerConfig{
			FailureThreshold: cfg.BreakerFailureThreshold,
			Cooldown:         cfg.BreakerCooldown,
			SendTimeout:      cfg.PublishTimeout,
		}, log)
		publisher = breakerPub
	}

	// Initialize use case
	useCase := application.NewUserUseCase(repo, publisher, log)

	// Setup Gin router
	httpHandler := infrastructure.NewHTTPHandler(useCase)
	gin.SetMode(gin.ReleaseMode)
	validation.Init()
	router := gin.New()
	router.Use(middleware.TraceID())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.ErrorHandler(log))
	router.Use(middleware.CORS())

	api := router.Group("/api/v1")
	httpHandler.RegisterRoutes(api)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	httpServer := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
	}

	if cfg.TLSEnabled {
		tlsConfig, err := pkgtls.ServerConfig(cfg.TLSCertFile, cfg.TLSKeyFile)
		if err != nil {
			log.Fatal("failed to load TLS config: " + err.Error())
		}
		httpServer.TLSConfig = tlsConfig
	}

	go func() {
		var err error
		if cfg.TLSEnabled {
			log.Info("HTTPS server listening on :" + cfg.HTTPPort)
			err = httpServer.ListenAndServeTLS("", "")
		} else {
			log.Info("HTTP server listening on :" + cfg.HTTPPort)
			err = httpServer.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error: " + err.Error())
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP shutdown error: " + err.Error())
	}

	// Drain in-flight event sends before closing the transport
	if breakerPub != nil {
		breakerPub.Flush()
	}

	log.Info("server stopped")
}

// newTransport builds the event transport selected by EVENT_BUS
func newTransport(cfg *config.Config, log *logger.Logger) (adapters.EventTransport, func(), error) {
	switch cfg.EventBus {
	case config.BusRabbitMQ:
		conn, err := rabbitmq.NewConnection(cfg.RabbitMQURL, log)
		if err != nil {
			return nil, nil, err
		}
		pub, err := rabbitmq.NewPublisher(conn, events.ExchangeUsers, log)
		if err != nil {
			conn.Close()
			return nil, nil, err
		}
		return adapters.NewAMQPTransport(pub), func() { conn.Close() }, nil
	default:
		writer := kafka.NewWriter(kafka.Config{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
		})
		transport := adapters.NewKafkaTransport(writer)
		return transport, func() { transport.Close() }, nil
	}
}
