package routes

import (
	"net/http"
	"time"

	"timebank/handlers"
	"timebank/middleware"
	"timebank/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers identity provider endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", hb.RegisterHandler)
		api.POST("/login", hb.LoginHandler)
		api.POST("/phone/send-code", hb.SendPhoneCodeHandler)
		api.POST("/phone/login", hb.PhoneLoginHandler)
		api.POST("/oauth", hb.OAuthLoginHandler)
		api.POST("/demo", hb.DemoLoginHandler)
		api.POST("/reset/send-code", hb.SendResetCodeHandler)
		api.POST("/reset/password", hb.ResetPasswordHandler)
	}
}

// RegisterUserRoutes registers user endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	{
		// Protected routes (Require Authentication)
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("/me", hb.MeHandler)
		api.POST("/logout", hb.LogoutHandler)
	}
}

// RegisterCatalogRoutes registers service listing endpoints.
func RegisterCatalogRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/services")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("", hb.ListServicesHandler)
		api.GET("/:id", hb.GetServiceHandler)
	}
}

// RegisterBookingRoutes sets up the endpoints for the booking workflow.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("/quote", hb.QuoteHandler)
		api.GET("", hb.ListMineHandler)
		api.POST("", hb.SubmitHandler)
		api.PUT("/:id/respond", hb.RespondHandler)
	}
}

// RegisterChatRoutes registers chat transport endpoints.
func RegisterChatRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/chat")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("/:peerID/:serviceID/messages", hb.ChatHistoryHandler)
		api.POST("/:peerID/:serviceID/messages", hb.ChatSendHandler)
		api.GET("/:peerID/:serviceID/stream", hb.ChatStreamHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "health": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r, hb)
	RegisterUserRoutes(r, hb)
	RegisterCatalogRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterChatRoutes(r, hb)
	RegisterHealthRoute(r)
}
