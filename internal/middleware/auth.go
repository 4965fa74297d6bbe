package middleware

import (
	"context"
	"net/http"
	"strings"

	"fieldtrack/internal/common"
	"fieldtrack/internal/models"
	"fieldtrack/internal/services"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// Authenticator verifies bearer tokens and resolves the local user row into
// an Actor on the request context. Tokens are either HS256 with the shared
// secret or, when a JWKS URL is configured, RS256 signed by the identity
// provider.
type Authenticator struct {
	userService services.UserService
	jwtSecret   string
	jwks        *keyfunc.JWKS
}

func NewAuthenticator(userService services.UserService, jwtSecret, jwksURL string) (*Authenticator, error) {
	a := &Authenticator{
		userService: userService,
		jwtSecret:   jwtSecret,
	}
	if jwksURL != "" {
		jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{})
		if err != nil {
			return nil, err
		}
		a.jwks = jwks
	}
	return a, nil
}

func (a *Authenticator) keyFunc(token *jwt.Token) (interface{}, error) {
	if a.jwks != nil {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); ok {
			return a.jwks.Keyfunc(token)
		}
	}
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, jwt.ErrSignatureInvalid
	}
	return []byte(a.jwtSecret), nil
}

func (a *Authenticator) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token format")
			}

			token, err := jwt.Parse(tokenString, a.keyFunc)
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid claims")
			}

			sub, ok := claims["sub"].(string)
			if !ok || sub == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing subject in token")
			}

			email, _ := claims["email"].(string)
			var name *string
			if n, ok := claims["name"].(string); ok && n != "" {
				name = &n
			}

			user, err := a.userService.EnsureUser(c.Request().Context(), sub, email, name)
			if err != nil {
				log.Warn().Err(err).Str("sub", sub).Msg("failed to resolve user")
				return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
			}

			actor := models.Actor{
				UserID:     user.ID,
				ExternalID: user.ExternalID,
				Role:       user.Role,
			}
			ctx := common.WithActor(c.Request().Context(), actor)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// Shutdown stops the background JWKS refresh, if one is running.
func (a *Authenticator) Shutdown(ctx context.Context) {
	if a.jwks != nil {
		a.jwks.EndBackground()
	}
}
