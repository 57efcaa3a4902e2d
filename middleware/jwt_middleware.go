package middleware

import (
	"ncp-tracker-backend/config"
	"ncp-tracker-backend/fiberlog"
	authutils "ncp-tracker-backend/lib/utils/auth-utils"
	"ncp-tracker-backend/models"
	apimodels "ncp-tracker-backend/models/api"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// AuthorizationRequired accepts the bearer header, or the token query parameter for websocket upgrades.
func AuthorizationRequired() fiber.Handler {
	return jwtware.New(jwtware.Config{
		Claims: jwt.MapClaims{},
		SigningKey: jwtware.SigningKey{
			JWTAlg: jwtware.HS256,
			Key:    []byte(config.Conf.Auth.JWTSecret),
		},
		TokenLookup: "header:Authorization,query:token",
		AuthScheme:  "Bearer",
		SuccessHandler: func(ctx *fiber.Ctx) error {
			fiberlog.SetUsername(ctx, GetUsername(ctx))
			return ctx.Next()
		},
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError(models.ErrUnauthorized.Error()))
		},
	})
}

func GetUserID(ctx *fiber.Ctx) string {
	return claimString(ctx, "sub")
}

func GetUsername(ctx *fiber.Ctx) string {
	return claimString(ctx, "name")
}

func GetUserRole(ctx *fiber.Ctx) models.UserRole {
	return models.UserRole(claimString(ctx, "role"))
}

// GetIdentity returns nil for a request without valid claims.
func GetIdentity(ctx *fiber.Ctx) *models.Identity {
	identity := &models.Identity{
		ID:       GetUserID(ctx),
		Username: GetUsername(ctx),
		Role:     GetUserRole(ctx),
	}
	if identity.ID == "" || !identity.IsAuthenticated() {
		return nil
	}
	return identity
}

func claimString(ctx *fiber.Ctx, key string) string {
	claims := authutils.GetClaims(ctx)
	if value, exist := claims[key]; exist {
		if str, ok := value.(string); ok {
			return str
		}
	}
	return ""
}
