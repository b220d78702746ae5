package verificationHandler

import (
	verificationService "ProjectKYC/internal/api/verification/service"
	"ProjectKYC/internal/middleware"
	"ProjectKYC/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type VerificationHandler struct {
	log                 *logrus.Logger
	validator           *validator.Validate
	middleware          middleware.Middleware
	verificationService verificationService.IVerificationService
	utils               utils.IUtils
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	vs verificationService.IVerificationService,
	utils utils.IUtils,
) *VerificationHandler {
	return &VerificationHandler{
		log:                 log,
		validator:           validator,
		middleware:          middleware,
		verificationService: vs,
		utils:               utils,
	}
}

func (h *VerificationHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	verification := srv.Group("/verification")
	verification.Use(h.middleware.NewTokenMiddleware)

	verification.Use("/ws", wsMiddleware)
	verification.Get("/ws", websocket.New(h.handleSocket))

	verification.Post("/start", h.StartSession)
	verification.Post("/cancel", h.CancelSession)
	verification.Post("/retry-match", h.RetryMatch)
	verification.Post("/document", h.middleware.NewUploadRateLimiter, h.SubmitDocument)
	verification.Put("/fields", h.UpdateFields)
	verification.Get("/session", h.GetSession)
	verification.Get("/transitions", h.GetTransitions)
}
