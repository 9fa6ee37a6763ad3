package router

import (
	"net/http"
	"time"

	"github.com/brightpath/quizhall-backend/internal/config"
	"github.com/brightpath/quizhall-backend/internal/handler"
	"github.com/brightpath/quizhall-backend/internal/middleware"
	"github.com/brightpath/quizhall-backend/internal/response"
	"github.com/brightpath/quizhall-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth          *handler.AuthHandler
	Quiz          *handler.QuizHandler
	StudentPortal *handler.StudentPortalHandler
	Leaderboard   *handler.LeaderboardHandler
	Notification  *handler.NotificationHandler
	Subscription  *handler.SubscriptionHandler
	WS            *handler.WSHandler
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
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/student/login", handlers.Auth.StudentLogin)
		auth.POST("/teacher/login", handlers.Auth.TeacherLogin)

		// Authenticated profile routes
		auth.POST("/student/logout", middleware.RequireStudentJWT(authService), handlers.Auth.StudentLogout)
		auth.GET("/student/me", middleware.RequireStudentJWT(authService), handlers.Auth.Me)
		auth.GET("/teacher/me", middleware.RequireTeacherJWT(authService), handlers.Auth.Me)
	}

	// ─── 2. Student Group (JWT + Single Device) ────────────────────────
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(
		middleware.RequireStudentJWT(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		studentAPI.GET("/quizzes", handlers.StudentPortal.Catalog)
		studentAPI.POST("/quizzes/:id/start", handlers.StudentPortal.Start)

		studentAPI.GET("/session", handlers.StudentPortal.State)
		studentAPI.POST("/session/exit", handlers.StudentPortal.Exit)
		studentAPI.POST("/session/retake", handlers.StudentPortal.Retake)
		studentAPI.GET("/session/result", handlers.StudentPortal.Result)
		studentAPI.POST("/session/review", handlers.StudentPortal.Review)
		studentAPI.POST("/session/back", handlers.StudentPortal.BackToResult)

		studentAPI.GET("/history", handlers.StudentPortal.History)
		studentAPI.GET("/leaderboard", handlers.Leaderboard.Top)
		studentAPI.GET("/notifications", handlers.Notification.List)
		studentAPI.GET("/notifications/stream", handlers.Notification.Stream)
		studentAPI.GET("/subscription", handlers.Subscription.Status)
		studentAPI.POST("/subscription", handlers.Subscription.Activate)
	}

	// ─── 3. WebSocket Group (Student WS Auth) ──────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireStudentWSAuth(authService))
	{
		ws.GET("/student/session/stream", handlers.WS.SessionStream)
	}

	// ─── 4. Teacher Group (JWT) ────────────────────────────────────────
	teacherAPI := router.Group("/api/v1/teacher")
	teacherAPI.Use(middleware.RequireTeacherJWT(authService))
	{
		teacherAPI.GET("/quizzes", handlers.Quiz.List)
		teacherAPI.POST("/quizzes", handlers.Quiz.Create)
		teacherAPI.GET("/quizzes/:id", handlers.Quiz.Get)
		teacherAPI.PUT("/quizzes/:id", handlers.Quiz.Update)
		teacherAPI.DELETE("/quizzes/:id", handlers.Quiz.Delete)
		teacherAPI.PUT("/quizzes/:id/questions", handlers.Quiz.ReplaceQuestions)

		teacherAPI.POST("/notifications", handlers.Notification.Create)
	}

	return router
}
