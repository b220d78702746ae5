package jwtPkg

import (
	"ProjectKYC/internal/entity"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

const (
	AccessTokenSecret = "JWT_ACCESS_TOKEN_SECRET"
	// QueryTokenKey carries the token on websocket upgrades, where browsers
	// cannot set an Authorization header.
	QueryTokenKey = "access_token"

	LocalsUser       = "user"
	LocalsCredential = "credential"
)

var (
	ErrMissingToken  = errors.New("empty Authorization header")
	ErrInvalidFormat = errors.New("invalid Authorization format")
	ErrMissingClaims = errors.New("token claims are missing required fields")
	ErrSecretNotSet  = errors.New("JWT secret not configured")
)

func Sign(data map[string]interface{}, expiresIn time.Duration) (string, int64, error) {
	expiredAt := time.Now().Add(expiresIn).Unix()

	secret := os.Getenv(AccessTokenSecret)
	if secret == "" {
		return "", 0, fmt.Errorf("%s not set", AccessTokenSecret)
	}

	claims := jwt.MapClaims{}
	claims["exp"] = expiredAt
	claims["authorization"] = true

	for k, v := range data {
		claims[k] = v
	}

	to := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessToken, err := to.SignedString([]byte(secret))
	if err != nil {
		logrus.WithError(err).Error("Failed to sign token")
		return "", 0, err
	}

	return accessToken, expiredAt, nil
}

// TokenFromRequest returns the raw bearer token from the Authorization
// header, or from the access_token query parameter when allowQuery is set.
func TokenFromRequest(c *fiber.Ctx, allowQuery bool) (string, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		if allowQuery {
			if token := strings.TrimSpace(c.Query(QueryTokenKey)); token != "" {
				return token, nil
			}
		}
		return "", ErrMissingToken
	}

	if !strings.HasPrefix(header, "Bearer ") {
		return "", ErrInvalidFormat
	}

	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return "", ErrInvalidFormat
	}
	return token, nil
}

func Verify(accessToken string, secretEnvKey string) (*jwt.Token, error) {
	secret := os.Getenv(secretEnvKey)
	if secret == "" {
		return nil, ErrSecretNotSet
	}

	return jwt.Parse(accessToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
}

// Authenticate verifies the token and returns the user and the credential
// forwarded downstream on the user's behalf.
func Authenticate(accessToken string, secretEnvKey string) (entity.UserLoginData, entity.Credential, error) {
	token, err := Verify(accessToken, secretEnvKey)
	if err != nil {
		return entity.UserLoginData{}, entity.Credential{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return entity.UserLoginData{}, entity.Credential{}, ErrMissingClaims
	}

	id, _ := claims["id"].(string)
	if id == "" {
		return entity.UserLoginData{}, entity.Credential{}, ErrMissingClaims
	}
	email, _ := claims["email"].(string)
	username, _ := claims["username"].(string)

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return entity.UserLoginData{}, entity.Credential{}, ErrMissingClaims
	}

	user := entity.UserLoginData{ID: id, Email: email, Username: username}
	cred := entity.Credential{Token: accessToken, ExpiresAt: exp.Time}
	return user, cred, nil
}

func SetLoginData(c *fiber.Ctx, user entity.UserLoginData, cred entity.Credential) {
	c.Locals(LocalsUser, user)
	c.Locals(LocalsCredential, cred)
}

func GetUserLoginData(c *fiber.Ctx) (entity.UserLoginData, error) {
	user, ok := c.Locals(LocalsUser).(entity.UserLoginData)
	if !ok {
		return entity.UserLoginData{}, fiber.ErrUnauthorized
	}

	return user, nil
}

func GetCredential(c *fiber.Ctx) (entity.Credential, error) {
	cred, ok := c.Locals(LocalsCredential).(entity.Credential)
	if !ok {
		return entity.Credential{}, fiber.ErrUnauthorized
	}
	return cred, nil
}
