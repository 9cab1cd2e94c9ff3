package api

import (
	"fmt"
	
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	
	db "github.com/hostelia/hostelia-BE/internal/db/sqlc"
	"github.com/hostelia/hostelia-BE/internal/notification"
	"github.com/hostelia/hostelia-BE/internal/token"
	"github.com/hostelia/hostelia-BE/internal/util"
	"github.com/hostelia/hostelia-BE/internal/worker"
)

type Server struct {
	router              *gin.Engine
	dbStore             db.Store
	tokenMaker          token.Maker
	config              *util.Config
	notificationService *notification.NotificationService
	taskDistributor     worker.TaskDistributor
}

// NewServer creates a new HTTP server and set up routing.
func NewServer(store db.Store, taskDistributor worker.TaskDistributor, notificationService *notification.NotificationService, config *util.Config) (*Server, error) {
	// Create a new JWT token maker
	tokenMaker, err := token.NewJWTMaker(config.TokenSecretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create token maker: %w", err)
	}
	log.Info().Msg("Token maker created successfully ✅")
	
	server := &Server{
		dbStore:             store,
		tokenMaker:          tokenMaker,
		config:              config,
		notificationService: notificationService,
		taskDistributor:     taskDistributor,
	}
	
	server.setupRouter()
	return server, nil
}

// setupRouter configures the HTTP server routes.
func (server *Server) setupRouter() *gin.Engine {
	gin.ForceConsoleColor()
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     server.config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	
	router.GET("/health", server.healthCheck)
	
	v1 := router.Group("/v1")
	
	v1.POST("/tokens/verify", server.verifyAccessToken)
	
	// API for the authenticated user's own notifications
	notificationGroup := v1.Group("/notifications", authMiddleware(server.tokenMaker))
	{
		notificationGroup.GET("", server.listNotifications)
		notificationGroup.GET("/unread-count", server.getUnreadCount)
		notificationGroup.PATCH("/read-all", server.markAllNotificationsRead)
		notificationGroup.PATCH("/:id/read", server.markNotificationRead)
		
		notificationGroup.GET("/stream", server.streamNotifications) // SSE endpoint
	}
	
	// API for wardens/admins to publish notifications to students
	staffGroup := v1.Group("/staff", authMiddleware(server.tokenMaker), requiredStaffRole())
	{
		staffGroup.POST("/notifications", server.createNotification)
	}
	
	server.router = router
	return router
}

// Start runs the HTTP server on a specific address.
func (server *Server) Start(address string) error {
	return server.router.Run(address)
}
