package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ironcrest/proctor-backend/internal/config"
	"github.com/ironcrest/proctor-backend/internal/handler"
	"github.com/ironcrest/proctor-backend/internal/middleware"
	"github.com/ironcrest/proctor-backend/internal/response"
	"github.com/ironcrest/proctor-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth            *handler.AuthHandler
	CandidatePortal *handler.CandidatePortalHandler
	AdminCandidate  *handler.AdminCandidateHandler
	AdminAssessment *handler.AdminAssessmentHandler
	Monitor         *handler.MonitorHandler
	Proctor         *handler.ProctorWSHandler
	Health          gin.HandlerFunc
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.Brotli())

	if handlers.Health != nil {
		router.GET("/health", handlers.Health)
	}

	api := router.Group("/api/v1")

	// ─── 0. Public Auth (rate limited) ─────────────────────────────────
	limiter := middleware.NewRateLimiter(cfg.AuthRateLimit)
	public := api.Group("/auth")
	public.Use(limiter.Middleware())
	{
		public.POST("/candidate/login", handlers.Auth.CandidateLogin)
		public.POST("/admin/login", handlers.Auth.AdminLogin)
	}

	// ─── 1. Candidate ──────────────────────────────────────────────────
	candidateAuth := []gin.HandlerFunc{
		middleware.RequireCandidateJWT(authService),
		middleware.CheckSingleDeviceSession(authService),
	}

	api.POST("/auth/candidate/logout", append(candidateAuth, handlers.Auth.CandidateLogout)...)

	candidates := api.Group("/candidates/:id")
	candidates.Use(candidateAuth...)
	candidates.Use(middleware.NoStore())
	{
		candidates.GET("", handlers.CandidatePortal.GetProfile)
		candidates.PUT("/profile", handlers.CandidatePortal.UpdateProfile)
		candidates.GET("/assessment", handlers.CandidatePortal.GetAssessment)
		candidates.POST("/submit", handlers.CandidatePortal.Submit)
		candidates.POST("/terminate", handlers.CandidatePortal.Terminate)
	}

	// ─── 2. Admin ──────────────────────────────────────────────────────
	admin := api.Group("/admin")
	admin.Use(middleware.RequireAdminJWT(authService))
	{
		admin.GET("/candidates", handlers.AdminCandidate.ListCandidates)
		admin.POST("/candidates", handlers.AdminCandidate.CreateCandidate)
		admin.POST("/candidates/:id/reset-session", handlers.AdminCandidate.ResetSession)
		admin.GET("/candidates/:id/violations", handlers.AdminCandidate.ListViolations)

		admin.GET("/assessments", handlers.AdminAssessment.ListAssessments)
		admin.GET("/assessments/:id", handlers.AdminAssessment.GetAssessment)
		admin.POST("/assessments", handlers.AdminAssessment.CreateAssessment)

		admin.GET("/monitor", handlers.Monitor.MonitorSSE)
	}

	// ─── 3. WebSocket ──────────────────────────────────────────────────
	wsGroup := router.Group("/ws/v1")
	wsGroup.Use(
		middleware.RequireCandidateWSAuth(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		wsGroup.GET("/candidates/:id/proctor", handlers.Proctor.ProctorStream)
	}

	return router
}
