package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"moments/config"
	database "moments/db"
	"moments/handler"
	"moments/logger"
	"moments/media"
	"moments/middleware"
	"moments/natsclient"
	"moments/pkg/jwt"
	"moments/publisher"
	"moments/repository"
	"moments/router"
	"moments/subscriber"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.LogLevel)

	// Connect to the database
	dbConn, err := database.NewConnection(database.Config{
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		DBName:       cfg.Database.DBName,
		SSLMode:      cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		MaxLifetime:  cfg.Database.MaxLifetime,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbConn.Close()

	if err := database.Migrate(dbConn, "schema.sql"); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Info("Successfully connected to database")

	// Initialize NATS client
	natsConn, err := natsclient.NewClient(natsclient.Config{
		URL:           cfg.NATS.URL,
		MaxReconnects: cfg.NATS.MaxReconnects,
		ReconnectWait: cfg.NATS.ReconnectWait,
		ClientID:      cfg.NATS.ClientID,
	})
	if err != nil {
		log.Fatalf("Failed to initialize NATS client: %v", err)
	}
	defer natsConn.Close()
	log.Info("NATS client initialized")

	// Initialize redis client for the feed cache
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	defer redisClient.Close()

	mediaStore, err := media.NewStore(cfg.Server.MediaDir)
	if err != nil {
		log.Fatalf("Failed to initialize media store: %v", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(dbConn)
	profileRepo := repository.NewProfileRepository(dbConn)
	postRepo := repository.NewPostRepository(dbConn)
	commentRepo := repository.NewCommentRepository(dbConn)
	likeRepo := repository.NewLikeRepository(dbConn)
	followerRepo := repository.NewFollowerRepository(dbConn)
	feedRepo := repository.NewFeedRepository(dbConn, redisClient, cfg.Redis.FeedTTL)

	// Event wiring
	eventPublisher := publisher.NewEventPublisher(natsConn)
	eventSubscriber := subscriber.NewEventSubscriber(natsConn, feedRepo)
	if err := eventSubscriber.Start(); err != nil {
		log.Fatalf("Failed to start event subscriber: %v", err)
	}

	// Handlers
	jwtManager := jwt.NewManager(cfg.Auth.JWTSecret)
	authMiddleware := middleware.NewAuth(jwtManager)

	srv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: router.SetupRoutes(
			authMiddleware,
			handler.NewAuthHandler(userRepo, jwtManager, cfg.Auth.TokenExpiry, eventPublisher),
			handler.NewProfileHandler(profileRepo, followerRepo, mediaStore),
			handler.NewPostHandler(postRepo, likeRepo, mediaStore, eventPublisher),
			handler.NewCommentHandler(commentRepo, postRepo),
			handler.NewLikeHandler(likeRepo),
			handler.NewFollowerHandler(followerRepo, eventPublisher),
			handler.NewFeedHandler(feedRepo, postRepo, likeRepo),
			mediaStore.Dir(),
		),
	}

	go func() {
		log.Infof("Server listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Server shutdown failed: %v", err)
	}
	log.Info("Server stopped")
}
