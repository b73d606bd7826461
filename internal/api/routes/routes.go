package routes

import (
	"time"

	"github.com/PROJEKT-DZIEKAN/support-chat-service/internal/api/handlers"
	"github.com/PROJEKT-DZIEKAN/support-chat-service/internal/api/middleware"
	"github.com/PROJEKT-DZIEKAN/support-chat-service/internal/auth"
	"github.com/PROJEKT-DZIEKAN/support-chat-service/internal/services"
	"github.com/PROJEKT-DZIEKAN/support-chat-service/internal/websocket"

	"github.com/gin-gonic/gin"
)

type Router struct {
	engine      *gin.Engine
	wsHandler   *handlers.WSHandler
	chatHandler *handlers.ChatHandler
	qrHandler   *handlers.QRHandler
	authMW      *middleware.AuthMiddleware
	rateLimitMW *middleware.RateLimitMiddleware
}

func NewRouter(
	gateway *websocket.Gateway,
	chatService *services.ChatService,
	redisService *services.RedisService,
	verifier *auth.Verifier,
	qrBaseURL string,
	allowedOrigins []string,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(allowedOrigins))
	engine.Use(middleware.LogApi())

	return &Router{
		engine:      engine,
		wsHandler:   handlers.NewWSHandler(gateway),
		chatHandler: handlers.NewChatHandler(chatService),
		qrHandler:   handlers.NewQRHandler(qrBaseURL),
		authMW:      middleware.NewAuthMiddleware(verifier),
		rateLimitMW: middleware.NewRateLimitMiddleware(redisService),
	}
}

func (r *Router) SetupRoutes() {
	r.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.engine.Group("/api/v1")

	// WebSocket endpoints authenticate inside the session handshake, not in
	// middleware, so a rejected token closes with a proper ws close code.
	api.GET("/ws", r.wsHandler.HandleUserWS)
	api.GET("/ws/admin", r.wsHandler.HandleAdminWS)

	// Admin REST read paths.
	admin := api.Group("/")
	admin.Use(r.authMW.RequireAuth(), r.authMW.RequireAdmin())
	{
		rooms := admin.Group("/rooms")
		rooms.Use(r.rateLimitMW.RateLimit(200, time.Minute))
		{
			rooms.GET("", r.chatHandler.GetActiveRooms)
			rooms.GET("/:id/messages", r.chatHandler.GetRoomMessages)
			rooms.POST("/:id/read", r.chatHandler.MarkRoomRead)
		}
	}

	// Public routes.
	public := api.Group("/")
	public.Use(r.rateLimitMW.RateLimitIP(50, time.Minute))
	{
		public.POST("/qr", r.qrHandler.GenerateLoginCode)
	}
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
