package verificationHandler

import (
	"ProjectKYC/internal/api/verification"
	verificationService "ProjectKYC/internal/api/verification/service"
	"ProjectKYC/internal/entity"
	contextPkg "ProjectKYC/pkg/context"
	"ProjectKYC/pkg/handlerUtil"
	jwtPkg "ProjectKYC/pkg/jwt"
	"ProjectKYC/pkg/log"
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

func (h *VerificationHandler) orchestrator(ctx *fiber.Ctx) (*verificationService.Orchestrator, entity.UserLoginData, error) {
	user, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return nil, user, err
	}
	o, err := h.verificationService.Orchestrator(user.ID)
	return o, user, err
}

func (h *VerificationHandler) StartSession(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	o, user, err := h.orchestrator(ctx)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_orchestrator")
	}

	if err := o.Start(); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "start_session")
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"user_id":    user.ID,
	}).Info("Verification session started")

	return errHandler.HandleSuccess(ctx, fiber.StatusAccepted, nil)
}

func (h *VerificationHandler) CancelSession(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	o, _, err := h.orchestrator(ctx)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_orchestrator")
	}

	if err := o.Cancel(); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "cancel_session")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusNoContent, nil)
}

func (h *VerificationHandler) RetryMatch(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	o, _, err := h.orchestrator(ctx)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_orchestrator")
	}

	if err := o.RetryMatch(); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "retry_match")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusAccepted, nil)
}

func (h *VerificationHandler) SubmitDocument(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	o, user, err := h.orchestrator(ctx)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_orchestrator")
	}

	purpose := entity.DocumentPurpose(strings.ToUpper(ctx.FormValue("purpose", string(entity.PurposeKYC))))
	if purpose != entity.PurposeKYC && purpose != entity.PurposeLead {
		return errHandler.HandleValidationError(ctx, requestID, fiber.NewError(fiber.StatusBadRequest, "purpose must be KYC or LEAD"), ctx.Path())
	}

	replace := false
	if v := ctx.FormValue("replace"); v != "" {
		replace, err = strconv.ParseBool(v)
		if err != nil {
			return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
		}
	}

	file, err := ctx.FormFile("document")
	if err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"user_id":    user.ID,
		"file_size":  file.Size,
		"purpose":    purpose,
	}).Debug("Processing document upload")

	image, err := h.utils.ReadDocumentUpload(file, h.verificationService.Config().DocumentMaxBytes)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_document")
	}

	err = o.SubmitDocument(verificationService.DocumentRequest{
		Image:   image,
		Purpose: purpose,
		Replace: replace,
	})
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "submit_document")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusAccepted, verification.DocumentAcceptedResponse{
		Status:  "processing",
		Purpose: purpose,
	})
}

func (h *VerificationHandler) UpdateFields(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	o, _, err := h.orchestrator(ctx)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_orchestrator")
	}

	var req verification.FieldsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}
	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	fields, err := o.UpdateFields(req.ToEntity(), true)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "update_fields")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, fields)
}

func (h *VerificationHandler) GetSession(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	user, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 5*time.Second)
	defer cancel()

	snap, live, err := h.verificationService.SessionSnapshot(c, user.ID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "session_snapshot")
	}

	resp := verification.SessionResponse{Session: snap, Live: live}
	if snap.DocumentKey != "" {
		url, err := h.verificationService.DocumentURL(snap.DocumentKey)
		if err != nil {
			h.log.WithFields(log.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Failed to presign document url")
		}
		resp.DocumentURL = url
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
}

func (h *VerificationHandler) GetTransitions(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	o, _, err := h.orchestrator(ctx)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_orchestrator")
	}

	transitions, err := o.Transitions()
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_transitions")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, verification.TransitionsResponse{Transitions: transitions})
}
