package router

import (
	"time"

	"devflow/internal/config"
	"devflow/internal/handlers"
	"devflow/internal/middleware"
	"devflow/internal/services"
	"devflow/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are what the HTTP surface needs beyond configuration.
type Deps struct {
	Services *services.Services
	Issuer   *session.Issuer
	States   session.StateStore
}

// Setup builds the engine with middleware and every route.
func Setup(cfg *config.Config, d Deps) *gin.Engine {
	gin.SetMode(cfg.Server.Mode())

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog())
	r.Use(middleware.Recovery())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.Server.AllowedOrigins) == 1 && cfg.Server.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.Server.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	store := cookie.NewStore([]byte(cfg.Session.Secret))
	store.Options(sessions.Options{Path: "/", MaxAge: int(cfg.Session.JWTExpiry.Seconds()), HttpOnly: true})
	r.Use(sessions.Sessions(cfg.Session.CookieName, store))

	RegisterRoutes(r, cfg, d)
	return r
}

func RegisterRoutes(r *gin.Engine, cfg *config.Config, d Deps) {
	healthHandler := handlers.NewHealthHandler()
	questionHandler := handlers.NewQuestionHandler(d.Services, cfg.Backend.Timeout)
	voteHandler := handlers.NewVoteHandler(d.Services)
	collectionHandler := handlers.NewCollectionHandler(d.Services)
	tagHandler := handlers.NewTagHandler(d.Services)
	userHandler := handlers.NewUserHandler(d.Services)
	authHandler := handlers.NewAuthHandler(d.Services)
	oauthHandler := handlers.NewOAuthHandler(d.Services, cfg.OAuth, d.States)
	aiHandler := handlers.NewAIHandler(d.Services)

	r.GET("/health", healthHandler.Check)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(middleware.LoadSession(d.Issuer))
	{
		api.GET("/questions", questionHandler.List)
		api.POST("/questions", questionHandler.Create)
		api.GET("/questions/:id", questionHandler.Detail)
		api.PUT("/questions/:id", questionHandler.Update)
		api.POST("/questions/:id/views", questionHandler.IncrementViews)
		api.GET("/questions/:id/answers", questionHandler.Answers)
		api.POST("/questions/:id/answers", questionHandler.Answer)

		api.POST("/votes", voteHandler.Vote)
		api.GET("/votes/status", voteHandler.Status)

		api.GET("/collections", collectionHandler.List)
		api.GET("/collections/:questionId", collectionHandler.Status)
		api.POST("/collections/:questionId/toggle", collectionHandler.Toggle)

		api.GET("/tags", tagHandler.List)
		api.GET("/tags/:id/questions", tagHandler.Questions)

		api.GET("/users", userHandler.List)
		api.GET("/users/:id", userHandler.Profile)

		api.POST("/ai/answers", aiHandler.Answer)
	}

	auth := api.Group("/auth")
	auth.Use(middleware.RateLimit(cfg.RateLimit))
	{
		auth.POST("/sign-up", authHandler.SignUp)
		auth.POST("/sign-in", authHandler.SignIn)
		auth.POST("/sign-out", authHandler.SignOut)
		auth.GET("/session", authHandler.Session)
		auth.GET("/oauth/:provider/login", oauthHandler.Login)
		auth.GET("/oauth/:provider/callback", oauthHandler.Callback)
	}
}
