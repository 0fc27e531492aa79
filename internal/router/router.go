package router

import (
	"slices"
	"time"

	"threadboard/internal/config"
	"threadboard/internal/handlers"
	"threadboard/internal/metrics"
	"threadboard/internal/middleware"
	"threadboard/internal/services"
	"threadboard/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// New builds the engine with every service, handler and middleware wired in.
func New(cfg *config.Config, gdb *gorm.DB, log *logrus.Logger, m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(corsMiddleware(cfg.Server.CORSOrigins))
	if cfg.Metrics.Enabled {
		r.Use(m.Middleware())
	}

	tokens := services.NewTokenService(cfg.Auth.Secret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	users := services.NewIdentityService(gdb, log, cfg.Auth.BcryptCost)
	comments := services.NewCommentService(gdb, log, utils.RenderMarkdown)

	RegisterRoutes(r, Handlers{
		Auth:     handlers.NewAuthHandler(users, tokens, m, log),
		Comments: handlers.NewCommentHandler(comments, m, log),
		Health:   handlers.NewHealthHandler(gdb, log),
		Tokens:   tokens,
	})

	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(m.Handler()))
	}
	return r
}

type Handlers struct {
	Auth     *handlers.AuthHandler
	Comments *handlers.CommentHandler
	Health   *handlers.HealthHandler
	Tokens   *services.TokenService
}

func RegisterRoutes(r *gin.Engine, h Handlers) {
	r.GET("/healthz", h.Health.Check)

	// Public routes
	users := r.Group("/users")
	{
		users.POST("/signup", h.Auth.Signup)
		users.POST("/login", h.Auth.Login)
		users.POST("/refresh", h.Auth.Refresh)
	}

	comments := r.Group("/comments")
	comments.GET("/list", h.Comments.List)

	// Protected routes
	authorized := comments.Group("")
	authorized.Use(middleware.AuthRequired(h.Tokens, services.AccessToken))
	{
		authorized.POST("/create", h.Comments.Create)
		authorized.DELETE("/delete/:id", h.Comments.Delete)
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
