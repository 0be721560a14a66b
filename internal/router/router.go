package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"hrdesk/internal/handler"
	"hrdesk/internal/metrics"
	"hrdesk/internal/middleware"
	"hrdesk/internal/policy"
	"hrdesk/internal/service"
)

// Deps holds everything the routes are built from. Metrics and RateLimiter may be nil.
type Deps struct {
	AuthService    service.AuthService
	Policy         policy.Policy
	Metrics        *metrics.Metrics
	RateLimiter    *middleware.RateLimiter
	AllowedOrigins []string

	Auth      *handler.AuthHandler
	Employees *handler.EmployeeHandler
	Uploads   *handler.UploadHandler
	Documents *handler.DocumentHandler
	Stats     *handler.StatsHandler
	Export    *handler.ExportHandler
	Health    *handler.HealthHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(d Deps) *gin.Engine {
	r := gin.New()
	p := d.Policy
	if p == nil {
		p = policy.Permissive()
	}

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(d.AllowedOrigins))
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	// Health checks
	r.GET("/healthz", d.Health.Liveness)
	r.GET("/readyz", d.Health.Readiness)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", d.Auth.Login)
	auth.POST("/refresh", d.Auth.RefreshToken)
	auth.POST("/logout", d.Auth.Logout)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(d.AuthService))

	protected.GET("/documents/slots", d.Uploads.Slots)
	protected.GET("/documents/:id", d.Documents.GetByID)

	me := protected.Group("/me")
	me.GET("/profile", d.Employees.GetProfile)
	me.PUT("/profile", d.Employees.UpdateProfile)
	me.GET("/settings", d.Employees.GetSettings)
	me.PUT("/settings", d.Employees.UpdateSettings)
	me.GET("/documents", d.Documents.ListMine)

	owner := middleware.EmployeeParam("id")
	slots := protected.Group("/employees/:id/documents/:slot")
	slots.POST("", middleware.RateLimit(d.RateLimiter), middleware.Authorize(p, policy.DocumentUpload, owner), d.Uploads.Select)
	slots.GET("/state", middleware.Authorize(p, policy.DocumentRead, owner), d.Uploads.State)
	slots.GET("/events", middleware.Authorize(p, policy.DocumentRead, owner), d.Uploads.Events)
	slots.DELETE("", middleware.Authorize(p, policy.DocumentRemove, owner), d.Uploads.Remove)

	// Staff routes
	admin := protected.Group("/admin")

	employees := admin.Group("/employees")
	employees.GET("", middleware.Authorize(p, policy.EmployeeRead, middleware.Collection("employee")), d.Employees.List)
	employees.POST("", middleware.Authorize(p, policy.EmployeeWrite, middleware.Collection("employee")), d.Employees.Create)
	employees.GET("/export", middleware.Authorize(p, policy.ExportRead, middleware.Collection("employee")), d.Export.Roster)
	employees.GET("/:id", middleware.Authorize(p, policy.EmployeeRead, owner), d.Employees.GetByID)
	employees.PUT("/:id", middleware.Authorize(p, policy.EmployeeWrite, owner), d.Employees.Update)
	employees.DELETE("/:id", middleware.Authorize(p, policy.EmployeeWrite, owner), d.Employees.Delete)
	employees.GET("/:id/audit", middleware.Authorize(p, policy.DocumentVerify, owner), d.Documents.ListEmployeeAudit)

	admin.GET("/dashboard", middleware.Authorize(p, policy.DashboardRead, middleware.Collection("dashboard")), d.Stats.Dashboard)

	verify := middleware.Authorize(p, policy.DocumentVerify, middleware.Collection("document"))
	documents := admin.Group("/documents")
	documents.GET("", verify, d.Documents.ListByStatus)
	documents.POST("/:id/verify", verify, d.Documents.Verify)
	documents.POST("/:id/reject", verify, d.Documents.Reject)
	documents.GET("/:id/audit", verify, d.Documents.ListAudit)

	return r
}
