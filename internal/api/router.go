package api

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"coursegen/internal/api/handler"
	"coursegen/internal/api/middleware"
	"coursegen/internal/config"
	"coursegen/internal/service"
)

// Services bundles everything the handlers call into
type Services struct {
	Course    *service.CourseService
	Video     *service.VideoService
	Notes     *service.NotesService
	MockTest  *service.MockTestService
	Slide     *service.SlideService
	User      *service.UserService
	Dashboard *service.DashboardService
	Ping      service.PingFunc
}

// Router sets up all API routes
func Router(cfg *config.Config, auth *middleware.Authenticator, svc Services) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply middlewares
	router.Use(gin.Recovery())
	if cfg.OTelEnabled {
		router.Use(otelgin.Middleware(cfg.OTelServiceName))
	}
	router.Use(middleware.RequestIDMiddleware())
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{SkipPaths: []string{"/api/health"}}))
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	// Create handlers
	healthHandler := handler.NewHealthHandler(cfg, svc.Ping)
	courseHandler := handler.NewCourseHandler(svc.Course)
	videoHandler := handler.NewVideoHandler(svc.Video)
	notesHandler := handler.NewNotesHandler(svc.Notes)
	mockTestHandler := handler.NewMockTestHandler(svc.MockTest)
	slideHandler := handler.NewSlideHandler(svc.Slide)
	userHandler := handler.NewUserHandler(svc.User, auth.Configured())
	dashboardHandler := handler.NewDashboardHandler(svc.Dashboard)

	// Public routes
	router.GET("/api/health", healthHandler.Check)
	router.POST("/api/user", auth.OptionalAuth(), userHandler.Ensure)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Signed-in routes
	api := router.Group("/api", auth.RequireAuth())
	{
		api.POST("/generate-course-layout", courseHandler.GenerateLayout)

		api.GET("/course", courseHandler.Get)
		api.POST("/course", courseHandler.Get)
		api.PATCH("/course", courseHandler.Update)
		api.DELETE("/course", courseHandler.Delete)

		api.POST("/youtube-videos", videoHandler.Match)
		api.POST("/generate-chapter-notes", notesHandler.Generate)
		api.POST("/mock-test", mockTestHandler.Generate)
		api.GET("/chapter-slides", slideHandler.List)
		api.POST("/chapter-slides", slideHandler.Generate)
		api.GET("/dashboard", dashboardHandler.Summary)
	}

	return router
}
