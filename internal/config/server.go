package config

import (
	"ProjectKYC/database/postgres"
	verificationHandler "ProjectKYC/internal/api/verification/handler"
	verificationRepository "ProjectKYC/internal/api/verification/repository"
	verificationService "ProjectKYC/internal/api/verification/service"
	"ProjectKYC/internal/middleware"
	"ProjectKYC/pkg/camera"
	"ProjectKYC/pkg/gemini"
	"ProjectKYC/pkg/kycapi"
	"ProjectKYC/pkg/metrics"
	"ProjectKYC/pkg/openai"
	"ProjectKYC/pkg/redis"
	"ProjectKYC/pkg/s3"
	"ProjectKYC/pkg/utils"
	websocketPkg "ProjectKYC/pkg/websocket"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine        *fiber.App
	db            *sqlx.DB
	log           *logrus.Logger
	middleware    middleware.Middleware
	validator     *validator.Validate
	utils         utils.IUtils
	handlers      []handler
	redisServer   redis.IRedis
	faceWebsocket websocketPkg.IWebsocket
	geminiClient  gemini.IGemini
	openaiClient  openai.IVision
	kycClient     kycapi.IClient
	s3Client      s3.ItfS3
	metrics       *metrics.Metrics
	verification  verificationService.IVerificationService
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.utils == nil {
		server.utils = utils.New()
	}
	if server.middleware == nil {
		server.middleware = middleware.New(server.log, server.utils)
	}
	if server.validator == nil {
		server.validator = NewValidator()
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithWebSocket(webSocket websocketPkg.IWebsocket) ServerOption {
	return func(s *Server) error {
		s.faceWebsocket = webSocket
		return nil
	}
}

func WithKYCClient(client kycapi.IClient) ServerOption {
	return func(s *Server) error {
		s.kycClient = client
		return nil
	}
}

func WithMetrics(m *metrics.Metrics) ServerOption {
	return func(s *Server) error {
		s.metrics = m
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		if s.utils == nil {
			s.utils = utils.New()
		}
		s.middleware = middleware.New(s.log, s.utils)
		return nil
	}
}

func WithS3Client() ServerOption {
	return func(s *Server) error {
		client, err := s3.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
			}
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		return nil
	}
}

func WithGeminiClient() ServerOption {
	return func(s *Server) error {
		client, err := gemini.NewGeminiClient()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to create Gemini client: %v", err)
			}
			return fmt.Errorf("failed to create Gemini client: %w", err)
		}
		s.geminiClient = client
		return nil
	}
}

func WithOpenAIClient() ServerOption {
	return func(s *Server) error {
		client, err := openai.NewVisionClient()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to create OpenAI client: %v", err)
			}
			return fmt.Errorf("failed to create OpenAI client: %w", err)
		}
		s.openaiClient = client
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())

	cfg := verificationService.ConfigFromEnv()

	deps := verificationService.Dependencies{
		Metrics: s.metrics,
		Utils:   s.utils,
	}
	if s.faceWebsocket != nil {
		deps.Detector = s.faceWebsocket
	}
	if s.kycClient != nil {
		deps.Liveness = s.kycClient
		deps.Matcher = s.kycClient
	}

	deps.Extractor = s.documentExtractor()

	if s.db != nil {
		repo := verificationRepository.New(s.db, s.log)
		deps.Applications = verificationService.NewApplicationSink(repo, s.utils, s.log)
	}
	if s.redisServer != nil {
		deps.Snapshots = s.redisServer
	}
	if s.s3Client != nil {
		deps.Archive = s.s3Client
	}
	if cfg.CameraSource == verificationService.CameraSourceLocal {
		deps.Device = camera.NewLocal(camera.ConfigFromEnv(), s.log)
	}

	s.verification = verificationService.New(s.log, cfg, deps)
	verificationHandlers := verificationHandler.New(s.log, s.validator, s.middleware, s.verification, s.utils)

	s.setupHealthCheck()
	s.engine.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	s.handlers = append(s.handlers, verificationHandlers)
}

// documentExtractor chains the configured extractors: Gemini, then OpenAI,
// then the KYC API.
func (s *Server) documentExtractor() verificationService.DocumentExtractor {
	var extractor verificationService.DocumentExtractor
	if s.kycClient != nil {
		extractor = s.kycClient
	}

	vision := []gemini.ImageAnalyzer{}
	if s.geminiClient != nil {
		vision = append(vision, s.geminiClient)
	}
	if s.openaiClient != nil {
		vision = append(vision, s.openaiClient)
	}
	for i := len(vision) - 1; i >= 0; i-- {
		primary := gemini.NewExtractor(vision[i], s.log)
		if extractor == nil {
			extractor = primary
			continue
		}
		extractor = verificationService.FallbackExtractor{Primary: primary, Fallback: extractor, Log: s.log}
	}
	return extractor
}

func (s *Server) Run() error {
	router := s.engine.Group("/api/v1", s.middleware.NewRateLimiter)
	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

// Shutdown closes every verification connection, then the server and the
// backing clients.
func (s *Server) Shutdown(timeout time.Duration) error {
	if s.verification != nil {
		s.verification.Shutdown()
	}
	err := s.engine.ShutdownWithTimeout(timeout)

	if s.faceWebsocket != nil {
		s.faceWebsocket.CloseConnections()
	}
	if s.geminiClient != nil {
		s.geminiClient.Close()
	}
	if s.openaiClient != nil {
		s.openaiClient.Close()
	}
	if s.redisServer != nil {
		if cerr := s.redisServer.Close(); cerr != nil {
			s.log.WithField("error", cerr.Error()).Warn("Failed to close redis client")
		}
	}
	if s.db != nil {
		if cerr := s.db.Close(); cerr != nil {
			s.log.WithField("error", cerr.Error()).Warn("Failed to close database")
		}
	}
	return err
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})

	s.engine.Get("/health", func(ctx *fiber.Ctx) error {
		c, cancel := context.WithTimeout(ctx.UserContext(), 3*time.Second)
		defer cancel()

		checks := fiber.Map{}
		healthy := true
		check := func(name string, err error) {
			if err != nil {
				healthy = false
				checks[name] = err.Error()
				return
			}
			checks[name] = "ok"
		}

		if s.db != nil {
			check("database", s.db.PingContext(c))
		}
		if s.redisServer != nil {
			check("redis", s.redisServer.Ping(c))
		}
		if s.kycClient != nil {
			check("kyc_api", s.kycClient.HealthCheck(c))
		}
		if s.faceWebsocket != nil && !s.faceWebsocket.IsConnected() {
			if err := s.faceWebsocket.Reconnect(); err != nil {
				check("face_detection", err)
			} else {
				check("face_detection", nil)
			}
		} else if s.faceWebsocket != nil {
			check("face_detection", nil)
		}

		status := fiber.StatusOK
		if !healthy {
			status = fiber.StatusServiceUnavailable
		}
		return ctx.Status(status).JSON(fiber.Map{"healthy": healthy, "checks": checks})
	})
}
