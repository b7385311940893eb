// Package router contains routing for the HTTP delivery.
package router

import (
	"rewards/config"
	"rewards/internal/delivery/api/middleware"
	"rewards/internal/delivery/api/router/handler"
	"rewards/internal/domain/entity"
	"rewards/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler        *handler.AuthHandler
	SettingsHandler    *handler.SettingsHandler
	UserHandler        *handler.UserHandler
	SponsorHandler     *handler.SponsorHandler
	CatalogHandler     *handler.CatalogHandler
	ApplicationHandler *handler.ApplicationHandler
	PointsHandler      *handler.PointsHandler
	MessageHandler     *handler.MessageHandler
	AuditHandler       *handler.AuditHandler
	EventHandler       *handler.EventHandler
	TestHandler        *handler.TestHandler
	AuthMiddleware     *middleware.AuthMiddleware
	Metrics            *metrics.Metrics
	Config             *config.Config
}

// router holds all the handlers that need to be registered.
type router struct {
	auth           *handler.AuthHandler
	settings       *handler.SettingsHandler
	users          *handler.UserHandler
	sponsors       *handler.SponsorHandler
	catalog        *handler.CatalogHandler
	applications   *handler.ApplicationHandler
	points         *handler.PointsHandler
	messages       *handler.MessageHandler
	audit          *handler.AuditHandler
	events         *handler.EventHandler
	test           *handler.TestHandler
	authMiddleware *middleware.AuthMiddleware
	metrics        *metrics.Metrics
	config         *config.Config
}

// NewRouter is the constructor for the Router.
func NewRouter(params RouterParams) *router {
	return &router{
		auth:           params.AuthHandler,
		settings:       params.SettingsHandler,
		users:          params.UserHandler,
		sponsors:       params.SponsorHandler,
		catalog:        params.CatalogHandler,
		applications:   params.ApplicationHandler,
		points:         params.PointsHandler,
		messages:       params.MessageHandler,
		audit:          params.AuditHandler,
		events:         params.EventHandler,
		test:           params.TestHandler,
		authMiddleware: params.AuthMiddleware,
		metrics:        params.Metrics,
		config:         params.Config,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	if r.config.Metrics != nil && r.config.Metrics.Enabled {
		e.GET("/metrics", echo.WrapHandler(r.metrics.Handler()))
	}

	authGroup := e.Group("/auth")
	{
		authGroup.POST("/signin", r.auth.SignIn)
		authGroup.POST("/google", r.auth.SignInWithGoogle)
		authGroup.POST("/signup", r.auth.SignUp)
		authGroup.POST("/logout", r.auth.SignOut)
		authGroup.GET("/session", r.auth.Session)
	}

	staff := r.authMiddleware.RequireRole(entity.RoleSponsor, entity.RoleAdmin)
	admin := r.authMiddleware.RequireRole(entity.RoleAdmin)

	apiV1 := e.Group("/api/v1")
	apiV1.Use(r.authMiddleware.Authenticate)

	apiV1.GET("/events", r.events.Stream)

	settingsGroup := apiV1.Group("/settings")
	{
		settingsGroup.GET("", r.settings.Get)
		settingsGroup.PATCH("", r.settings.Update, admin)
		settingsGroup.POST("/reset", r.settings.Reset, admin)
		settingsGroup.POST("/reset-data", r.settings.ResetData, admin)
	}

	usersGroup := apiV1.Group("/users")
	{
		usersGroup.GET("", r.users.ListUsers, staff)
		usersGroup.POST("", r.users.CreateUser, admin)
		usersGroup.GET("/me", r.users.Me)
		usersGroup.GET("/:id", r.users.GetUser)
		usersGroup.PATCH("/:id", r.users.UpdateProfile)
		usersGroup.PUT("/:id/preferences", r.users.UpdatePreferences)
		usersGroup.POST("/:id/drop", r.users.DropDriver, staff)
		usersGroup.PUT("/:id/active", r.users.SetActive, admin)
		usersGroup.GET("/:id/transactions", r.points.ListTransactions)
	}

	sponsorsGroup := apiV1.Group("/sponsors")
	{
		sponsorsGroup.GET("", r.sponsors.ListSponsors)
		sponsorsGroup.POST("", r.sponsors.CreateSponsor, admin)
		sponsorsGroup.GET("/:id", r.sponsors.GetSponsor)
		sponsorsGroup.PATCH("/:id", r.sponsors.UpdateSponsor, staff)
		sponsorsGroup.GET("/:id/qr", r.sponsors.ApplicationQR)
		sponsorsGroup.GET("/:id/transactions", r.points.ListSponsorTransactions, staff)
	}

	catalogGroup := apiV1.Group("/catalog")
	{
		catalogGroup.GET("", r.catalog.ListProducts)
		catalogGroup.POST("", r.catalog.CreateProduct, staff)
		catalogGroup.GET("/:id", r.catalog.GetProduct)
		catalogGroup.PATCH("/:id", r.catalog.UpdateProduct, staff)
		catalogGroup.DELETE("/:id", r.catalog.DeleteProduct, staff)
	}

	applicationsGroup := apiV1.Group("/applications")
	{
		applicationsGroup.POST("", r.applications.Submit)
		applicationsGroup.GET("", r.applications.ListForSponsor, staff)
		applicationsGroup.GET("/mine", r.applications.Mine)
		applicationsGroup.GET("/:id", r.applications.GetApplication)
		applicationsGroup.POST("/:id/approve", r.applications.Approve, staff)
		applicationsGroup.POST("/:id/reject", r.applications.Reject, staff)
	}

	pointsGroup := apiV1.Group("/points")
	{
		pointsGroup.POST("/adjust", r.points.Adjust, staff)
		pointsGroup.POST("/purchase", r.points.Purchase)
		pointsGroup.POST("/transactions/:id/refund", r.points.RequestRefund)
		pointsGroup.POST("/transactions/:id/refund/approve", r.points.ApproveRefund, staff)
		pointsGroup.POST("/transactions/:id/refund/deny", r.points.DenyRefund, staff)
	}

	messagesGroup := apiV1.Group("/messages")
	{
		messagesGroup.POST("", r.messages.Send)
		messagesGroup.GET("", r.messages.Conversation)
	}

	notificationsGroup := apiV1.Group("/notifications")
	{
		notificationsGroup.GET("", r.messages.Notifications)
		notificationsGroup.GET("/unread-count", r.messages.UnreadCount)
		notificationsGroup.POST("", r.messages.CreateNotification, staff)
		notificationsGroup.POST("/read-all", r.messages.MarkAllRead)
		notificationsGroup.POST("/:id/read", r.messages.MarkRead)
	}

	apiV1.GET("/logs", r.audit.ListLogs, admin)
	apiV1.GET("/reports/points", r.audit.PointsReport, staff)
}

func (r *router) RegisterTestRoutes(e *echo.Echo) {
	if r.config.TestRoutes == nil || !r.config.TestRoutes.Enabled {
		return
	}

	testGroup := e.Group("/test")
	testGroup.GET("/public", r.test.TestPublicEndpoint)

	testGroup.GET("/auth", r.test.TestAuthMiddleware, r.authMiddleware.Authenticate)
	testGroup.POST("/signals/:signal", r.test.TestPublishSignal, r.authMiddleware.Authenticate)
}
