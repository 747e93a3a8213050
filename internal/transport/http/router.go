package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/trade-tally/internal/transport/http/handler"
	"github.com/ErlanBelekov/trade-tally/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

type Handlers struct {
	Auth   *handler.AuthHandler
	Trade  *handler.TradeHandler
	Invite *handler.InviteHandler
}

func NewRouter(logger *slog.Logger, h Handlers, tokens middleware.TokenVerifier) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
	})

	// Public routes
	r.POST("/users", h.Auth.Register)
	r.POST("/auth/login", h.Auth.Login)

	authMW := middleware.Auth(tokens)

	r.POST("/auth/refresh", authMW, h.Auth.Refresh)
	r.GET("/users", authMW, h.Auth.ListUsers)
	r.POST("/invite", authMW, h.Invite.Send)

	trades := r.Group("/trades", authMW)
	trades.GET("", h.Trade.List)
	trades.POST("", h.Trade.Create)
	trades.GET("/user/:id", h.Trade.ListByUser)
	trades.GET("/:id", h.Trade.GetByID)
	trades.PUT("/:id", h.Trade.Update)
	trades.DELETE("/:id", h.Trade.Delete)

	return r
}
