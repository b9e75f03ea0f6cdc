// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"net/http"

	"reviewdesk/config"
	"reviewdesk/internal/delivery/api/middleware"
	"reviewdesk/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	GoogleHandler  *handler.GoogleHandler
	ReviewHandler  *handler.ReviewHandler
	AuthMiddleware *middleware.AuthMiddleware
	MetricsHandler http.Handler `name:"metrics"`
	Config         *config.Config
}

// router holds all the handlers that need to be registered.
type router struct {
	googleHandler  *handler.GoogleHandler
	reviewHandler  *handler.ReviewHandler
	authMiddleware *middleware.AuthMiddleware
	metricsHandler http.Handler
	config         *config.Config
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		googleHandler:  params.GoogleHandler,
		reviewHandler:  params.ReviewHandler,
		authMiddleware: params.AuthMiddleware,
		metricsHandler: params.MetricsHandler,
		config:         params.Config,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	if r.config.Metrics != nil && r.config.Metrics.Enabled && r.metricsHandler != nil {
		e.GET(r.config.Metrics.Path, echo.WrapHandler(r.metricsHandler))
	}

	// API v1 routes
	apiV1 := e.Group("/api/v1")

	googleGroup := apiV1.Group("/google")
	{
		// Google redirects the browser here without API credentials.
		googleGroup.GET("/callback", r.googleHandler.Callback)
	}

	authed := googleGroup.Group("", r.authMiddleware.Authenticate)
	{
		authed.GET("/connect", r.googleHandler.Connect)
		authed.POST("/disconnect", r.googleHandler.Disconnect)
		authed.GET("/status", r.googleHandler.Status)
		authed.GET("/accounts", r.googleHandler.ListAccounts)
		authed.GET("/locations", r.googleHandler.ListLocations)
		authed.POST("/location", r.googleHandler.SelectLocation)

		authed.POST("/reviews/sync", r.reviewHandler.SyncReviews)
		authed.GET("/reviews", r.reviewHandler.ListReviews)
		authed.POST("/reviews/:id/reply", r.reviewHandler.PublishReply)
		authed.DELETE("/reviews/:id/reply", r.reviewHandler.DeleteReply)
	}
}
