package middleware

import (
	"strings"

	"ratehub/internal/domain/entity"
	domainerrors "ratehub/internal/domain/errors"
	"ratehub/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// actorContextKey is the echo.Context key holding the authenticated actor.
const actorContextKey = "actor"

// Actor returns the authenticated user set by Authenticate, or nil when the
// request carried no credentials (public routes, AuthenticateOptional).
func Actor(c echo.Context) *entity.User {
	actor, _ := c.Get(actorContextKey).(*entity.User)

	return actor
}

// AuthMiddleware provides middleware for JWT authentication and authorization.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate validates the bearer token and sets the acting user on the
// context. Requests without a valid token are rejected.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor, err := m.resolveActor(c)
		if err != nil {
			return err
		}
		if actor == nil {
			return domainerrors.ErrTokenInvalid.WithDetails("authorization header is missing")
		}

		c.Set(actorContextKey, actor)

		return next(c)
	}
}

// AuthenticateOptional resolves the acting user when credentials are present
// and lets anonymous requests through. A present but invalid token is still
// rejected rather than silently downgraded to anonymous.
func (m *AuthMiddleware) AuthenticateOptional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor, err := m.resolveActor(c)
		if err != nil {
			return err
		}
		if actor != nil {
			c.Set(actorContextKey, actor)
		}

		return next(c)
	}
}

// RequireRole checks that the authenticated actor holds one of the given
// roles. Administrators always pass. It must run after Authenticate.
func (m *AuthMiddleware) RequireRole(roles ...entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor := Actor(c)
			if actor == nil {
				return domainerrors.ErrTokenInvalid.WithDetails("authentication required")
			}
			if actor.IsAdmin() {
				return next(c)
			}

			for _, role := range roles {
				if actor.Role == role {
					return next(c)
				}
			}

			return domainerrors.ErrInsufficientRole
		}
	}
}

// resolveActor parses the Authorization header and validates the token.
// It returns (nil, nil) when the header is absent.
func (m *AuthMiddleware) resolveActor(c echo.Context) (*entity.User, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, nil
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return nil, domainerrors.ErrTokenInvalid.WithDetails("authorization header must use the Bearer scheme")
	}

	claims, err := m.tokenSvc.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	role, ok := entity.ParseRole(claims.Role)
	if !ok {
		return nil, domainerrors.ErrTokenInvalid.WithDetails("unknown role in token")
	}

	// The actor carries only identity and role; handlers needing the full
	// profile load it through the user use case.
	return &entity.User{ID: claims.UserID, Role: role}, nil
}
