package api

import (
	"github.com/gin-gonic/gin"

	"github.com/nestbio/linko/config"
	"github.com/nestbio/linko/internal/api/handler"
	"github.com/nestbio/linko/internal/api/middleware"
)

type Router struct {
	authHandler      *handler.AuthHandler
	userHandler      *handler.UserHandler
	linkHandler      *handler.LinkHandler
	billingHandler   *handler.BillingHandler
	publicHandler    *handler.PublicHandler
	analyticsHandler *handler.AnalyticsHandler
	websocketHandler *handler.WebSocketHandler
	cfg              *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	linkHandler *handler.LinkHandler,
	billingHandler *handler.BillingHandler,
	publicHandler *handler.PublicHandler,
	analyticsHandler *handler.AnalyticsHandler,
	websocketHandler *handler.WebSocketHandler,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:      authHandler,
		userHandler:      userHandler,
		linkHandler:      linkHandler,
		billingHandler:   billingHandler,
		publicHandler:    publicHandler,
		analyticsHandler: analyticsHandler,
		websocketHandler: websocketHandler,
		cfg:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	// provider webhooks live outside the versioned API and its envelope
	engine.POST("/webhooks/stripe", r.billingHandler.Webhook)

	// public pages; optional auth so signed-in owners are recognized
	public := engine.Group("/p")
	public.Use(middleware.OptionalAuth(r.cfg.JWT.Secret))
	{
		public.GET("/:username", r.publicHandler.GetProfile)
		public.POST("/links/:id/click", r.publicHandler.Click)
		public.POST("/links/:id/share", r.publicHandler.Share)
	}

	api := engine.Group("/api/v1")
	{
		// WebSocket
		api.GET("/ws", r.websocketHandler.Handle)

		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.POST("/verify-email", r.authHandler.VerifyEmail)
			auth.POST("/forgot-password", r.authHandler.ForgotPassword)
			auth.POST("/reset-password", r.authHandler.ResetPassword)
			auth.GET("/github", r.authHandler.GithubLogin)
			auth.GET("/github/callback", r.authHandler.GithubCallback)
		}

		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			user := authenticated.Group("/user")
			{
				user.GET("/profile", r.userHandler.GetProfile)
				user.PUT("/profile", r.userHandler.UpdateProfile)
				user.POST("/avatar", r.userHandler.UploadAvatar)
				user.GET("/templates", r.userHandler.ListTemplates)
				user.PUT("/template", r.userHandler.SetTemplate)
			}

			links := authenticated.Group("/links")
			{
				links.GET("", r.linkHandler.List)
				links.POST("", r.linkHandler.Create)
				links.PUT("/reorder", r.linkHandler.Reorder)
				links.PUT("/:id", r.linkHandler.Update)
				links.DELETE("/:id", r.linkHandler.Delete)
			}

			billing := authenticated.Group("/billing")
			{
				billing.POST("/checkout", r.billingHandler.CreateCheckout)
				billing.GET("/subscription", r.billingHandler.GetSubscription)
				billing.POST("/cancel", r.billingHandler.CancelSubscription)
			}

			analytics := authenticated.Group("/analytics")
			{
				analytics.GET("/summary", r.analyticsHandler.Summary)
			}
		}
	}

	return engine
}
