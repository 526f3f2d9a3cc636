package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"agrotrust/internal/domain/entity"
	"agrotrust/pkg/errors"
	"agrotrust/pkg/response"
)

const (
	// Development-only identity headers.
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"

	contextUID  = "uid"
	contextRole = "role"
)

// TokenVerifier resolves a bearer token to the calling actor.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, idToken string) (entity.Actor, error)
}

type AuthMiddleware struct {
	verifier   TokenVerifier
	devHeaders bool
}

// NewAuthMiddleware accepts a nil verifier when Firebase is not configured.
// devHeaders enables the X-User-ID / X-User-Role headers.
func NewAuthMiddleware(verifier TokenVerifier, devHeaders bool) *AuthMiddleware {
	return &AuthMiddleware{
		verifier:   verifier,
		devHeaders: devHeaders,
	}
}

func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor, err := m.identify(c)
		if err != nil {
			return response.Error(c, err)
		}

		c.Set(contextUID, actor.ID)
		c.Set(contextRole, actor.Role)
		return next(c)
	}
}

// Identify sets the caller when credentials are present and valid, and lets
// anonymous requests through.
func (m *AuthMiddleware) Identify(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if actor, err := m.identify(c); err == nil {
			c.Set(contextUID, actor.ID)
			c.Set(contextRole, actor.Role)
		}
		return next(c)
	}
}

func (m *AuthMiddleware) identify(c echo.Context) (entity.Actor, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" && m.verifier != nil {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return entity.Actor{}, errors.Unauthorized("Invalid authorization format", nil)
		}

		actor, err := m.verifier.VerifyToken(c.Request().Context(), parts[1])
		if err != nil {
			return entity.Actor{}, errors.Unauthorized("Invalid or expired token", err)
		}
		return actor, nil
	}

	if m.devHeaders {
		if uid := strings.TrimSpace(c.Request().Header.Get(HeaderUserID)); uid != "" {
			role := entity.Role(strings.ToLower(strings.TrimSpace(c.Request().Header.Get(HeaderUserRole))))
			if role == "" {
				role = entity.RoleConsumer
			}
			if !role.Valid() || role == entity.RoleSystem {
				return entity.Actor{}, errors.Unauthorized("Unknown role "+string(role), nil)
			}
			return entity.Actor{ID: uid, Role: role}, nil
		}
	}

	return entity.Actor{}, errors.Unauthorized("Authorization header is required", nil)
}

// ActorFrom returns the caller set by Authenticate.
func ActorFrom(c echo.Context) entity.Actor {
	uid, _ := c.Get(contextUID).(string)
	role, _ := c.Get(contextRole).(entity.Role)
	return entity.Actor{ID: uid, Role: role}
}

// RequireRole rejects callers whose role is not listed.
func RequireRole(roles ...entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor := ActorFrom(c)
			if actor.ID == "" {
				return response.Error(c, errors.Unauthorized("Authentication required", nil))
			}
			for _, r := range roles {
				if actor.Role == r {
					return next(c)
				}
			}
			return response.Error(c, errors.Forbidden(string(actor.Role)+" accounts cannot access this resource", nil))
		}
	}
}

// AdminOnly is RequireRole(admin).
func AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return RequireRole(entity.RoleAdmin)(next)
}
