package middleware

import (
	"errors"
	"strings"

	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/crm/backend/internal/infrastructure/logger"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey  = "jwt_claims"
	ActorIDKey    = "actor_id"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

var errMissingAuthHeader = errors.New("missing authorization header")

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	// JWTService is required for token validation
	JWTService *auth.JWTService
	// Required rejects requests that carry no token
	Required bool
	// SystemActor is the acting identity of anonymous requests when tokens are optional.
	// uuid.Nil leaves anonymous requests without an actor.
	SystemActor uuid.UUID
	// Logger for middleware logging
	Logger *zap.Logger
}

// JWTAuth resolves the acting identity of each request from its bearer token.
// A presented token must be valid even when tokens are optional.
func JWTAuth(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			if cfg.Required {
				handleAuthError(c, cfg, errMissingAuthHeader, "Missing authorization header")
				return
			}
			if cfg.SystemActor != uuid.Nil {
				setActor(c, cfg.SystemActor)
			}
			c.Next()
			return
		}

		if !strings.HasPrefix(authHeader, BearerPrefix) {
			handleAuthError(c, cfg, auth.ErrInvalidToken, "Invalid authorization header format")
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerPrefix))
		if tokenString == "" {
			handleAuthError(c, cfg, auth.ErrInvalidToken, "Missing token")
			return
		}

		claims, err := cfg.JWTService.ValidateToken(tokenString)
		if err != nil {
			handleAuthError(c, cfg, err, "Token validation failed")
			return
		}
		actor, err := claims.ActorUUID()
		if err != nil {
			handleAuthError(c, cfg, auth.ErrInvalidClaims, "Token actor is not a uuid")
			return
		}

		c.Set(JWTClaimsKey, claims)
		setActor(c, actor)

		cfg.Logger.Debug("JWT authentication successful",
			zap.String("actor_id", actor.String()),
			zap.String("username", claims.Username),
		)

		c.Next()
	}
}

// setActor records the actor on the gin context and on the request's logger
func setActor(c *gin.Context, actor uuid.UUID) {
	c.Set(ActorIDKey, actor)
	ctx := c.Request.Context()
	ctx, l := logger.WithActorID(ctx, logger.FromContext(ctx), actor.String())
	c.Request = c.Request.WithContext(logger.WithContext(ctx, l))
}

// handleAuthError handles authentication errors
func handleAuthError(c *gin.Context, cfg JWTMiddlewareConfig, err error, message string) {
	cfg.Logger.Warn("JWT authentication failed",
		zap.Error(err),
		zap.String("message", message),
		zap.String("path", c.Request.URL.Path),
	)

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		abort(c, dto.ErrCodeTokenExpired, "Token has expired")
	case errors.Is(err, auth.ErrTokenNotYetValid):
		abort(c, dto.ErrCodeTokenInvalid, "Token is not yet valid")
	case errors.Is(err, auth.ErrInvalidClaims), errors.Is(err, auth.ErrMissingActorID):
		abort(c, dto.ErrCodeTokenInvalid, "Token claims are invalid")
	case errors.Is(err, errMissingAuthHeader):
		abort(c, dto.ErrCodeUnauthorized, "Authentication required")
	default:
		abort(c, dto.ErrCodeTokenInvalid, "Invalid token")
	}
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetActorID returns the acting identity of the request, if one was resolved
func GetActorID(c *gin.Context) (uuid.UUID, bool) {
	if v, exists := c.Get(ActorIDKey); exists {
		if id, ok := v.(uuid.UUID); ok && id != uuid.Nil {
			return id, true
		}
	}
	return uuid.Nil, false
}
