package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/contacthub/contacthub/internal/config"
	"github.com/contacthub/contacthub/internal/es"
	"github.com/contacthub/contacthub/internal/events"
	"github.com/contacthub/contacthub/internal/handlers"
	"github.com/contacthub/contacthub/internal/hash"
	"github.com/contacthub/contacthub/internal/logging"
	midauth "github.com/contacthub/contacthub/internal/middleware/auth"
	"github.com/contacthub/contacthub/internal/response"
	"github.com/contacthub/contacthub/internal/service"
	"github.com/contacthub/contacthub/internal/service/search"
	"github.com/contacthub/contacthub/internal/storage"
	"github.com/contacthub/contacthub/internal/token"
	httpserver "github.com/contacthub/contacthub/internal/transport/http"
	"github.com/contacthub/contacthub/internal/validation"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)
	slog.SetDefault(logger)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	hasher := hash.NewHasher(configuration.BCRYPT_COST)
	if err := config.SeedAdmin(db, hasher, configuration); err != nil {
		log.Fatalf("admin seed failed: %v", err)
	}

	tokens := &token.Service{
		AccessSecret:  []byte(configuration.JWT_SECRET),
		RefreshSecret: []byte(configuration.REFRESH_SECRET),
		AccessTTL:     configuration.ACCESS_TTL,
		RefreshTTL:    configuration.REFRESH_TTL,
	}

	var producer *events.Producer
	if configuration.KAFKA_ADDRESS != "" {
		producer = events.NewProducer([]string{configuration.KAFKA_ADDRESS})
	} else {
		logger.Warn("KAFKA_ADDRESS not set, domain events disabled")
	}

	var indexer *search.Indexer
	if configuration.ES_URL != "" {
		esClient, err := es.NewClient(configuration)
		if err != nil {
			log.Fatalf("elasticsearch init failed: %v", err)
		}
		indexer = search.NewIndexer(esClient)
	} else {
		logger.Warn("ES_URL not set, contact search disabled")
	}

	var photoStore *storage.PhotoStore
	if configuration.MINIO_ENDPOINT != "" {
		photoStore, err = storage.NewPhotoStore(configuration)
		if err != nil {
			log.Fatalf("minio init failed: %v", err)
		}
	} else {
		logger.Warn("MINIO_ENDPOINT not set, photo upload disabled")
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Validator = validation.New()
	e.HTTPErrorHandler = response.ErrorHandler

	authService := &service.AuthService{DB: db, Hasher: hasher, Tokens: tokens}
	contactService := &service.ContactService{DB: db}
	userService := &service.UserService{DB: db}

	deps := httpserver.Deps{
		Guard:          &midauth.Guard{Tokens: tokens},
		AuthHandler:    &handlers.AuthHandler{Auth: authService, Producer: producer},
		ContactHandler: &handlers.ContactHandler{Contacts: contactService, Producer: producer, Indexer: indexer},
		UserHandler:    &handlers.UserHandler{Users: userService},
		UploadHandler:  &handlers.UploadHandler{Store: photoStore, MaxSize: configuration.MAX_UPLOAD_SIZE},
		SearchHandler:  &handlers.SearchHandler{Indexer: indexer},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	logger.Info("shutdown complete")
}
