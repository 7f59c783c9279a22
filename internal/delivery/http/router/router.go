// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"ratehub/internal/delivery/http/middleware"
	"ratehub/internal/delivery/http/router/handler"
	"ratehub/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler    *handler.UserHandler
	StoreHandler   *handler.StoreHandler
	RatingHandler  *handler.RatingHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler    *handler.UserHandler
	storeHandler   *handler.StoreHandler
	ratingHandler  *handler.RatingHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:    params.UserHandler,
		storeHandler:   params.StoreHandler,
		ratingHandler:  params.RatingHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.userHandler.Register)
		authGroup.POST("/login", r.userHandler.Login)
		authGroup.GET("/me", r.userHandler.Me, r.authMiddleware.Authenticate)
	}

	// User management. Listing is admin-only; the remaining operations are
	// self-or-admin, which the use case decides per target.
	userGroup := e.Group("/users")
	userGroup.Use(r.authMiddleware.Authenticate)
	{
		userGroup.GET("", r.userHandler.List, r.authMiddleware.RequireRole(entity.RoleAdmin))
		userGroup.GET("/:id", r.userHandler.Get)
		userGroup.PUT("/:id", r.userHandler.Update)
		userGroup.DELETE("/:id", r.userHandler.Delete, r.authMiddleware.RequireRole(entity.RoleAdmin))
	}

	// Store registry. Reads are public; the list resolves the actor when
	// credentials are present so owners see only their own stores.
	storeGroup := e.Group("/stores")
	{
		storeGroup.GET("", r.storeHandler.List, r.authMiddleware.AuthenticateOptional)
		storeGroup.GET("/:id", r.storeHandler.Get)
		storeGroup.POST("", r.storeHandler.Create,
			r.authMiddleware.Authenticate,
			r.authMiddleware.RequireRole(entity.RoleOwner))
		storeGroup.PUT("/:id", r.storeHandler.Update, r.authMiddleware.Authenticate)
		storeGroup.DELETE("/:id", r.storeHandler.Delete, r.authMiddleware.Authenticate)
	}

	// Rating ledger. Reads are public; mutations require authentication and
	// the use case enforces authorship.
	ratingGroup := e.Group("/ratings")
	{
		ratingGroup.GET("", r.ratingHandler.List)
		ratingGroup.GET("/:id", r.ratingHandler.Get)
		ratingGroup.GET("/store/:storeId", r.ratingHandler.ListByStore)
		ratingGroup.POST("", r.ratingHandler.Create, r.authMiddleware.Authenticate)
		ratingGroup.PUT("/:id", r.ratingHandler.Update, r.authMiddleware.Authenticate)
		ratingGroup.DELETE("/:id", r.ratingHandler.Delete, r.authMiddleware.Authenticate)
	}
}
