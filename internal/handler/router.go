package handler

import (
	"net/http"

	"volunteer-connect/internal/middleware"
	"volunteer-connect/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Deps struct {
	Auth   *service.AuthService
	Tokens *service.TokenIssuer
	Chats  *service.ChatService
	Triage *service.TriageService
	Import *ImportHandler
}

// NewRouter builds the engine with the JSON API mounted under /api.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLog())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"X-New-Token", middleware.HeaderRequestID},
	}))

	authH := NewAuthHandler(d.Auth)
	sessionH := NewSessionHandler(d.Chats)
	chatH := NewChatHandler(sessionH)
	requestsH := NewRequestsHandler(d.Triage)
	importH := d.Import
	if importH == nil {
		importH = NewImportHandler(d.Triage)
	}

	api := r.Group("/api")
	api.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	api.POST("/auth/login", authH.Login)
	api.POST("/auth/register/volunteer", authH.RegisterVolunteer)
	api.POST("/auth/register/organization", authH.RegisterOrganization)

	api.POST("/chat/sessions", sessionH.Create)
	api.GET("/chat/sessions/:id/messages", sessionH.Messages)
	api.DELETE("/chat/sessions/:id", sessionH.Delete)
	api.POST("/chat/sessions/:id/messages", chatH.Submit)
	api.GET("/chat/sessions/:id/events", chatH.Events)
	api.GET("/chat/sessions/:id/ws", chatH.WebSocket)

	requests := api.Group("/requests", middleware.JWTAuth(d.Tokens))
	requests.GET("", requestsH.List)
	requests.POST("/:id/approve", requestsH.Approve)
	requests.POST("/:id/reject", requestsH.Reject)
	requests.POST("/import/preview", importH.Preview)
	requests.POST("/import/confirm", importH.Confirm)

	return r
}
