package main

import (
	"ProjectKYC/internal/config"
	"ProjectKYC/pkg/kycapi"
	"ProjectKYC/pkg/log"
	"ProjectKYC/pkg/metrics"
	"ProjectKYC/pkg/redis"
	websocketPkg "ProjectKYC/pkg/websocket"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.NewLogger().Fatalf("Error loading .env file: %v", err)
	}
	logger := log.NewLogger()

	fiberApp := config.NewFiber(logger)
	validator := config.NewValidator()
	redisServer := redis.New()
	websocket := websocketPkg.NewAIWebSocketClient(logger)
	kycClient := kycapi.New(logger)

	options := []config.ServerOption{
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithValidator(validator),
		config.WithUtils(),
		config.WithDatabase(),
		config.WithRedisServer(redisServer),
		config.WithWebSocket(websocket),
		config.WithKYCClient(kycClient),
		config.WithMetrics(metrics.New(nil)),
		config.WithMiddleware(),
		config.WithS3Client(),
	}
	if os.Getenv("GEMINI_API_KEY") != "" {
		options = append(options, config.WithGeminiClient())
	} else {
		logger.Warn("GEMINI_API_KEY not set, skipping Gemini document extraction")
	}
	if os.Getenv("OPENAI_API_KEY") != "" {
		options = append(options, config.WithOpenAIClient())
	}

	server, err := config.NewServer(options...)
	if err != nil {
		logger.Fatal(err)
	}

	server.RegisterHandler()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Info("Server started successfully")

	<-sigChan
	logger.Info("Shutting down server...")

	if err := server.Shutdown(10 * time.Second); err != nil {
		logger.WithField("error", err.Error()).Error("Server shutdown failed")
	}
}
