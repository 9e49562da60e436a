package app

import (
	"context"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/noah-isme/batch-timetable/internal/handler"
	"github.com/noah-isme/batch-timetable/internal/middleware"
	"github.com/noah-isme/batch-timetable/internal/models"
	"github.com/noah-isme/batch-timetable/pkg/config"
	"github.com/noah-isme/batch-timetable/pkg/logger"
	corsmiddleware "github.com/noah-isme/batch-timetable/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/batch-timetable/pkg/middleware/requestid"
)

// Router builds the HTTP engine with every route mounted.
func (a *App) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(a.Logger))
	r.Use(corsmiddleware.New(a.Config.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(a.Metrics))

	deps := map[string]handler.Pinger{"postgres": a.DB}
	if a.Redis != nil {
		deps["redis"] = handler.PingFunc(func(ctx context.Context) error { return a.CacheRepo.Ping(ctx) })
	}
	metricsHandler := handler.NewMetricsHandler(a.Metrics, deps)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if a.Config.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	schedulerHandler := handler.NewSchedulerHandler(a.Scheduling, a.Exports)
	timetableHandler := handler.NewTimetableHandler(a.Timetables)
	admin := []gin.HandlerFunc{
		middleware.JWT(a.Auth),
		middleware.RequireRoles(models.RoleAdmin, models.RoleSuperAdmin),
	}

	api := r.Group(a.Config.APIPrefix)
	api.GET("/stats", metricsHandler.Stats)
	api.GET("/batches/:id/timetable", timetableHandler.Batch)
	api.GET("/teachers/:id/timetable", timetableHandler.Teacher)

	protected := api.Group("", admin...)
	protected.POST("/schedule/runs", schedulerHandler.StartRun)
	protected.GET("/schedule/runs/:id", schedulerHandler.GetRun)
	protected.GET("/schedule/runs/:id/report", schedulerHandler.RunReport)
	protected.PUT("/batches/:id/timetable/slots", timetableHandler.OverrideSlot)
	protected.DELETE("/batches/:id/timetable/slots", timetableHandler.ClearSlot)

	return r
}
