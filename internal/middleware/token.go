package middleware

import (
	"ProjectKYC/internal/entity"
	jwtPkg "ProjectKYC/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

const AccessTokenSecret = jwtPkg.AccessTokenSecret

func currentUser(ctx *fiber.Ctx) (entity.UserLoginData, error) {
	return jwtPkg.GetUserLoginData(ctx)
}

// NewTokenMiddleware authenticates the request and stores the user and the
// bearer credential in Locals. Websocket upgrades may pass the token as the
// access_token query parameter.
func (m *middleware) NewTokenMiddleware(ctx *fiber.Ctx) error {
	token, err := jwtPkg.TokenFromRequest(ctx, websocket.IsWebSocketUpgrade(ctx))
	if err != nil {
		m.log.WithFields(logrus.Fields{
			"request_id": m.GetRequestID(ctx),
			"path":       ctx.Path(),
			"error":      err.Error(),
		}).Warn("Authorization header check")
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized, access token invalid or expired",
			"code":  "UNAUTHORIZED",
		})
	}

	user, cred, err := jwtPkg.Authenticate(token, AccessTokenSecret)
	if err != nil {
		m.log.WithFields(logrus.Fields{
			"request_id": m.GetRequestID(ctx),
			"path":       ctx.Path(),
			"error":      err.Error(),
		}).Warn("Token verification failed")
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized, access token invalid or expired",
			"code":  "UNAUTHORIZED",
		})
	}

	jwtPkg.SetLoginData(ctx, user, cred)

	m.log.WithFields(logrus.Fields{
		"request_id": m.GetRequestID(ctx),
		"user_id":    user.ID,
	}).Debug("Authentication successful")
	return ctx.Next()
}
