package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/1234-ad/auto-feedback-generator/internal/config"
	"github.com/1234-ad/auto-feedback-generator/internal/database"
	"github.com/1234-ad/auto-feedback-generator/internal/events"
	"github.com/1234-ad/auto-feedback-generator/internal/handler"
	"github.com/1234-ad/auto-feedback-generator/internal/history"
	"github.com/1234-ad/auto-feedback-generator/internal/middleware"
	"github.com/1234-ad/auto-feedback-generator/internal/router"
	"github.com/1234-ad/auto-feedback-generator/internal/service"
	"github.com/1234-ad/auto-feedback-generator/internal/validation"
	"github.com/1234-ad/auto-feedback-generator/pkg/ai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	validate, err := validation.New()
	if err != nil {
		log.Fatalf("failed to build validator: %v", err)
	}

	generator, model, err := buildGenerator(cfg, logger)
	if err != nil {
		log.Fatalf("failed to build %s generator: %v", cfg.AIProvider, err)
	}

	invoker := ai.NewInvoker(generator, ai.RetryPolicy{
		MaxRetries:   cfg.MaxRetries,
		InitialDelay: cfg.InitialBackoff,
		Factor:       cfg.BackoffFactor,
	}, logger)

	feedbackService := service.NewFeedbackService(invoker, validate, logger, service.GenerationConfig{
		Model:       model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: float32(cfg.Temperature),
	})

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Info().Msg("redis not configured, feedback history disabled")
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL, nats.Name(cfg.AppName))
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()
	} else {
		logger.Info().Msg("nats not configured, event fanout disabled")
	}

	historyStore := history.NewStore(redisClient, cfg.HistoryLimit, logger)
	publisher := events.NewPublisher(natsConn, logger)

	feedbackHandler := handler.NewFeedbackHandler(feedbackService, historyStore, publisher, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		FeedbackHandler: feedbackHandler,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func buildGenerator(cfg config.Config, logger zerolog.Logger) (ai.Generator, string, error) {
	switch cfg.AIProvider {
	case "anthropic":
		generator, err := ai.NewAnthropicGenerator(ai.AnthropicConfig{
			APIKey: cfg.AnthropicAPIKey,
			Model:  cfg.AnthropicModel,
		})
		return generator, cfg.AnthropicModel, err
	default:
		generator, err := ai.NewOpenAIGenerator(ai.OpenAIConfig{
			APIKey:         cfg.OpenAIAPIKey,
			RequestTimeout: cfg.RequestTimeout,
			Logger:         logger,
		})
		return generator, cfg.OpenAIModel, err
	}
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
