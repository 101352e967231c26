// File: timebank/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"timebank/config"
	"timebank/database"
	bookingRepoPkg "timebank/database/repository/booking"
	chatRepoPkg "timebank/database/repository/chat"
	serviceRepoPkg "timebank/database/repository/service"
	userRepoPkg "timebank/database/repository/user"
	"timebank/handlers"
	"timebank/middleware"
	"timebank/routes"
	"timebank/services/booking"
	"timebank/services/catalog"
	"timebank/services/chat"
	"timebank/services/identity"
	"timebank/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	serviceRepo := serviceRepoPkg.NewMongoServiceRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	chatRepo := chatRepoPkg.NewMongoMessageRepo()

	// services.
	identityService := &identity.DefaultIdentityService{
		Repo:       userRepo,
		TokenCache: utils.GetAuthCacheClient(),
	}
	bookingService := &booking.DefaultBookingService{
		Users:    userRepo,
		Services: serviceRepo,
		Bookings: bookingRepo,
		Guard:    utils.GetGuardCacheClient(),
	}
	catalogService := &catalog.DefaultCatalogService{
		Repo: serviceRepo,
	}
	chatTransport := &chat.Transport{
		Client: utils.GetChatCacheClient(),
		Repo:   chatRepo,
	}

	// handlers.
	authHandler := handlers.NewAuthHandler(identityService)
	userHandler := handlers.NewUserHandler(userRepo, identityService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	bookingHandler := handlers.NewBookingHandler(bookingService, userRepo, logger)
	chatHandler := handlers.NewChatHandler(chatTransport)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		// Auth endpoints.
		RegisterHandler:      authHandler.RegisterHandler,
		LoginHandler:         authHandler.LoginHandler,
		SendPhoneCodeHandler: authHandler.SendPhoneCodeHandler,
		PhoneLoginHandler:    authHandler.PhoneLoginHandler,
		OAuthLoginHandler:    authHandler.OAuthLoginHandler,
		DemoLoginHandler:     authHandler.DemoLoginHandler,
		SendResetCodeHandler: authHandler.SendResetCodeHandler,
		ResetPasswordHandler: authHandler.ResetPasswordHandler,

		// User endpoints.
		MeHandler:     userHandler.MeHandler,
		LogoutHandler: userHandler.LogoutHandler,

		// Catalog endpoints.
		ListServicesHandler: catalogHandler.ListServicesHandler,
		GetServiceHandler:   catalogHandler.GetServiceHandler,

		// Booking endpoints.
		QuoteHandler:    bookingHandler.QuoteHandler,
		SubmitHandler:   bookingHandler.SubmitHandler,
		RespondHandler:  bookingHandler.RespondHandler,
		ListMineHandler: bookingHandler.ListMineHandler,

		// Chat endpoints.
		ChatHistoryHandler: chatHandler.HistoryHandler,
		ChatSendHandler:    chatHandler.SendHandler,
		ChatStreamHandler:  chatHandler.StreamHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor([]utils.RedisCheck{
		{Name: "auth", Client: utils.GetAuthCacheClient()},
		{Name: "otp", Client: utils.GetOTPCacheClient()},
		{Name: "chat", Client: utils.GetChatCacheClient()},
		{Name: "guard", Client: utils.GetGuardCacheClient()},
	}, database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
