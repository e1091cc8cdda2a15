package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/campusnest/sublet-market/docs"
	"github.com/campusnest/sublet-market/internal/api/handler"
	"github.com/campusnest/sublet-market/internal/api/middleware"
	"github.com/campusnest/sublet-market/internal/core/domain"
	"github.com/campusnest/sublet-market/internal/core/ports"
)

const defaultBodyLimit = "2M"

// Services groups the application services the HTTP layer exposes.
type Services struct {
	Auth       ports.AuthService
	Users      ports.UserService
	Listings   ports.ListingService
	Messages   ports.MessageService
	Moderation ports.ModerationService
}

// RouterConfig carries everything NewRouter needs besides the services.
type RouterConfig struct {
	JWTSecret      string
	AllowedOrigins []string
	BodyLimit      string
	Streams        handler.StreamServer
	Checks         []handler.DependencyCheck
	// Registerer receives the HTTP request metrics. Defaults to the global
	// Prometheus registry.
	Registerer prometheus.Registerer
	Logger     zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
//
// @title                       Sublet Market API
// @version                     1.0
// @description                 Student housing sublet marketplace.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func NewRouter(cfg RouterConfig, svc Services) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Logger)

	bodyLimit := cfg.BodyLimit
	if bodyLimit == "" {
		bodyLimit = defaultBodyLimit
	}
	registerer := cfg.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(cfg.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "sublet",
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			p := c.Path()
			return p == "/metrics" || strings.HasPrefix(p, "/health") || strings.HasPrefix(p, "/swagger")
		},
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(svc.Auth)
	accountHandler := handler.NewAccountHandler(svc.Users)
	listingHandler := handler.NewListingHandler(svc.Listings)
	messageHandler := handler.NewMessageHandler(svc.Messages, cfg.Streams, cfg.AllowedOrigins)
	reportHandler := handler.NewReportHandler(svc.Moderation)
	adminHandler := handler.NewAdminHandler(svc.Users, svc.Moderation)

	requireAuth := middleware.Auth(cfg.JWTSecret)
	optionalAuth := middleware.OptionalAuth(cfg.JWTSecret)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/verify", authHandler.VerifyEmail)
	auth.POST("/password/forgot", authHandler.ForgotPassword)
	auth.POST("/password/reset", authHandler.ResetPassword)

	v1 := e.Group("/v1")

	// --- Public reads (anonymous allowed) ---
	v1.GET("/listings", listingHandler.Search, optionalAuth)
	v1.GET("/listings/:id", listingHandler.Get, optionalAuth)

	// The stream route accepts the token as a query parameter, so it sits
	// outside the header-only group.
	v1.GET("/messages/stream", messageHandler.Stream, middleware.StreamAuth(cfg.JWTSecret))

	// --- Authenticated routes ---
	user := v1.Group("", requireAuth)

	user.GET("/me", accountHandler.Me)
	user.PATCH("/me", accountHandler.UpdateProfile)
	user.PUT("/me/password", accountHandler.ChangePassword)
	user.DELETE("/me", accountHandler.DeleteAccount)

	user.POST("/listings", listingHandler.Create)
	user.PATCH("/listings/:id", listingHandler.Update)
	user.DELETE("/listings/:id", listingHandler.Delete)
	user.POST("/listings/:id/save", listingHandler.Save)
	user.DELETE("/listings/:id/save", listingHandler.Unsave)
	user.GET("/saved", listingHandler.ListSaved)
	user.POST("/listings/:id/reports", reportHandler.Create)

	user.GET("/conversations", messageHandler.Conversations)
	user.GET("/conversations/:userId", messageHandler.Thread)
	user.POST("/conversations/:userId/read", messageHandler.MarkRead)
	user.POST("/messages", messageHandler.Send)
	user.GET("/messages/unread", messageHandler.UnreadCount)

	// --- Admin routes ---
	admin := v1.Group("/admin", requireAuth, middleware.RBAC(domain.RoleAdmin))
	admin.GET("/reports", reportHandler.List)
	admin.POST("/reports/:id", reportHandler.Resolve)
	admin.GET("/users", adminHandler.ListUsers)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)
	admin.DELETE("/listings/:id", adminHandler.DeleteListing)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(cfg.Checks...)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
