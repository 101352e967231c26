package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle aggregates all route handlers for registration.
type HandlerBundle struct {
	// Auth endpoints.
	RegisterHandler      gin.HandlerFunc
	LoginHandler         gin.HandlerFunc
	SendPhoneCodeHandler gin.HandlerFunc
	PhoneLoginHandler    gin.HandlerFunc
	OAuthLoginHandler    gin.HandlerFunc
	DemoLoginHandler     gin.HandlerFunc
	SendResetCodeHandler gin.HandlerFunc
	ResetPasswordHandler gin.HandlerFunc

	// User endpoints.
	MeHandler     gin.HandlerFunc
	LogoutHandler gin.HandlerFunc

	// Catalog endpoints.
	ListServicesHandler gin.HandlerFunc
	GetServiceHandler   gin.HandlerFunc

	// Booking endpoints.
	QuoteHandler    gin.HandlerFunc
	SubmitHandler   gin.HandlerFunc
	RespondHandler  gin.HandlerFunc
	ListMineHandler gin.HandlerFunc

	// Chat endpoints.
	ChatHistoryHandler gin.HandlerFunc
	ChatSendHandler    gin.HandlerFunc
	ChatStreamHandler  gin.HandlerFunc
}
