package handlerUtil

import (
	"ProjectKYC/internal/api/verification"
	"ProjectKYC/pkg/log"
	"ProjectKYC/pkg/response"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

var errorCodes = []struct {
	err  error
	code string
}{
	{verification.ErrAlreadyStarted, "ALREADY_STARTED"},
	{verification.ErrNotStarted, "NOT_STARTED"},
	{verification.ErrMatchNotAllowed, "MATCH_NOT_ALLOWED"},
	{verification.ErrDocumentNotReady, "DOCUMENT_NOT_READY"},
	{verification.ErrSessionNotFound, "SESSION_NOT_FOUND"},
	{verification.ErrOrchestratorClosed, "ORCHESTRATOR_CLOSED"},
	{verification.ErrInvalidFormat, "INVALID_FORMAT"},
	{verification.ErrTooLarge, "TOO_LARGE"},
	{verification.ErrExtractionFailed, "EXTRACTION_FAILED"},
	{verification.ErrPermissionDenied, "PERMISSION_DENIED"},
	{verification.ErrDeviceUnavailable, "DEVICE_UNAVAILABLE"},
	{verification.ErrCaptureBusy, "CAPTURE_BUSY"},
	{verification.ErrCaptureReleased, "CAPTURE_RELEASED"},
	{verification.ErrAuthExpired, "AUTH_EXPIRED"},
	{verification.ErrNoMatch, "NO_MATCH"},
	{verification.ErrServiceUnavailable, "SERVICE_UNAVAILABLE"},
	{verification.ErrApplicationNotFound, "APPLICATION_NOT_FOUND"},
}

// CodeOf returns the stable client-facing code for a domain error, or ""
// when err is not one.
func CodeOf(err error) string {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return ""
}

type ErrorHandler struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, path string, operation string) error {
	var respErr *response.Error
	if errors.As(err, &respErr) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"code":       respErr.Code,
			"path":       path,
			"operation":  operation,
		}).Warn("Operation failed with error response")
		return c.Status(respErr.Code).JSON(ErrorResponse{
			Error: respErr.Error(),
			Code:  CodeOf(err),
		})
	}

	if errors.Is(err, fiber.ErrRequestEntityTooLarge) {
		return h.Handle(c, requestID, verification.ErrTooLarge, path, operation)
	}

	traceID := log.ErrorWithTraceID(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
		"operation":  operation,
	}, "Unexpected error")

	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error:   "An unexpected error occurred",
		Code:    "INTERNAL",
		TraceID: traceID,
	})
}

func (h *ErrorHandler) HandleValidationError(c *fiber.Ctx, requestID string, err error, path string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
	}).Warn("Validation failed")

	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error: "Validation failed: " + err.Error(),
		Code:  "VALIDATION_ERROR",
	})
}

func (h *ErrorHandler) HandleRequestTimeout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusRequestTimeout).JSON(utils.StatusMessage(fiber.StatusRequestTimeout))
}

func (h *ErrorHandler) HandleUnauthorized(c *fiber.Ctx, requestID string, message string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"path":       c.Path(),
		"message":    message,
	}).Warn("Unauthorized access")

	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Error: message,
		Code:  "UNAUTHORIZED",
	})
}

func (h *ErrorHandler) HandleSuccess(c *fiber.Ctx, statusCode int, data interface{}) error {
	if data == nil {
		return c.SendStatus(statusCode)
	}
	return c.Status(statusCode).JSON(data)
}
