package handler

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ratishjain12/devx-rms/internal/core/assignment"
	"github.com/ratishjain12/devx-rms/internal/core/employee"
	"github.com/ratishjain12/devx-rms/internal/core/project"
	"github.com/ratishjain12/devx-rms/internal/core/report"
)

// Dependencies はルーターが利用するユースケース群です。
type Dependencies struct {
	Assignments    assignment.UseCase
	Employees      employee.UseCase
	Projects       project.UseCase
	Reports        report.UseCase
	Health         Pinger
	AllowedOrigins []string
}

// NewRouter は API のルーティングを構築します。
func NewRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	if len(deps.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     deps.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	health := NewHealthHandler(deps.Health)
	r.GET("/healthz", health.Check)

	assignments := NewAssignmentHandler(deps.Assignments)
	employees := NewEmployeeHandler(deps.Employees)
	projects := NewProjectHandler(deps.Projects)
	reports := NewReportHandler(deps.Reports)

	api := r.Group("/api")
	{
		a := api.Group("/assignments")
		{
			a.POST("", assignments.Create)
			a.POST("/bulk", assignments.CreateBulk)
			a.GET("", assignments.List)
			a.GET("/:id", assignments.Get)
			a.PUT("/:id", assignments.Update)
			a.DELETE("/:id", assignments.Delete)
			a.POST("/:id/delete-week", assignments.DeleteWeek)
			a.GET("/:id/weeks", assignments.PreviewWeeks)
		}

		e := api.Group("/employees")
		{
			// /available は /:id より先に登録する
			e.GET("/available", reports.AvailableEmployees)
			e.POST("", employees.Create)
			e.GET("", employees.List)
			e.GET("/:id", employees.Get)
			e.PUT("/:id", employees.Update)
			e.DELETE("/:id", employees.Delete)
		}

		p := api.Group("/projects")
		{
			p.POST("", projects.Create)
			p.GET("", projects.List)
			p.GET("/:id", projects.Get)
			p.PUT("/:id", projects.Update)
			p.DELETE("/:id", projects.Delete)
		}

		rep := api.Group("/reports")
		{
			rep.GET("/overlapping-assignments", reports.OverlappingAssignments)
			rep.GET("/overworked-employees", reports.OverworkedEmployees)
		}
	}

	return r
}
