// Package server wires the HTTP surface: auth, goal refinement, persisted
// goals, health, and metrics.
package server

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"goal-coach/internal/coach"
	"goal-coach/internal/common/auth"
	"goal-coach/internal/common/config"
	apperrors "goal-coach/internal/common/errors"
	"goal-coach/internal/common/logger"
	"goal-coach/internal/common/observability"
	"goal-coach/internal/common/ratelimit"
	"goal-coach/internal/models"
)

// GoalGenerator runs one refinement attempt. Satisfied by *coach.Coach.
type GoalGenerator interface {
	Generate(ctx context.Context, userInput, sessionID string) coach.Result
}

// Deps carries everything the router needs. Limiter and Obs are optional.
type Deps struct {
	Coach   GoalGenerator
	Users   models.UserRepository
	Goals   models.GoalRepository
	Tokens  *auth.TokenManager
	Limiter *ratelimit.Limiter
	Obs     *observability.Observability
	Logger  logger.Logger
	CORS    config.ServerConfig
}

// NewRouter builds the gin engine with all routes and middleware attached.
func NewRouter(deps Deps) *gin.Engine {
	log := deps.Logger.With(map[string]interface{}{"component": "server"})
	errHandler := apperrors.NewErrorHandler(log)

	router := gin.New()
	router.Use(gin.Recovery())

	origins := deps.CORS.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	h := &handlers{
		coach:      deps.Coach,
		users:      deps.Users,
		goals:      deps.Goals,
		tokens:     deps.Tokens,
		obs:        deps.Obs,
		errHandler: errHandler,
		logger:     log,
	}

	router.GET("/healthz", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/signup", h.Signup)
		authGroup.POST("/login", h.Login)
	}

	protected := router.Group("/")
	protected.Use(AuthRequired(deps.Tokens, errHandler))
	if deps.Limiter != nil {
		protected.Use(RateLimited(deps.Limiter, errHandler))
	}
	{
		protected.POST("/generate", h.Generate)
		protected.POST("/goals", h.CreateGoal)
		protected.GET("/goals", h.ListGoals)
		protected.GET("/goals/:id", h.GetGoal)
	}

	return router
}

type handlers struct {
	coach      GoalGenerator
	users      models.UserRepository
	goals      models.GoalRepository
	tokens     *auth.TokenManager
	obs        *observability.Observability
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func (h *handlers) Health(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}
