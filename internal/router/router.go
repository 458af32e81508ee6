package router

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/liftlog/internal/handler"
	"github.com/liftlog/internal/metrics"
	"github.com/liftlog/internal/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Options 控制路由的可选部分
type Options struct {
	SessionSecret string
	Metrics       *metrics.Manager
	// Gatherer 非空时挂载 /metrics
	Gatherer prometheus.Gatherer
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(gdb *gorm.DB, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestMetrics(opts.Metrics),
		middleware.LogRequest(),
		// 最内层恢复 panic，外层的计数与日志仍能看到 500
		middleware.PanicRecovery(opts.Metrics),
	)

	// 配置会话中间件
	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("liftlog_session", store))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	if opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	api := handler.NewAPI(gdb, opts.Metrics)

	r.POST("/api/login", api.Login)
	r.POST("/api/logout", api.Logout)

	// 需要认证的接口
	auth := r.Group("/api")
	auth.Use(handler.AuthRequired())
	{
		auth.GET("/templates", api.ListTemplates)
		auth.POST("/templates", api.CreateTemplate)
		auth.GET("/templates/:id", api.GetTemplate)
		auth.DELETE("/templates/:id", api.DeleteTemplate)

		auth.GET("/plans", api.ListPlans)
		auth.POST("/plans", api.CreatePlan)
		auth.DELETE("/plans/:id", api.DeletePlan)

		auth.GET("/days", api.ListDays)
		auth.POST("/days", api.CreateDay)
		auth.GET("/days/:id", api.GetDay)
		auth.PUT("/days/:id", api.RenameDay)
		auth.DELETE("/days/:id", api.DeleteDay)

		auth.POST("/exercises", api.CreateExercise)
		auth.PATCH("/exercises/:id", api.UpdateExercise)
		auth.DELETE("/exercises/:id", api.DeleteExercise)
		auth.POST("/exercises/:id/increment", api.IncrementExercise)
		auth.POST("/exercises/:id/decrement", api.DecrementExercise)
		auth.GET("/exercises/:id/history", api.ExerciseHistory)
		auth.GET("/exercises/:id/last-workout", api.LastWorkout)

		auth.POST("/workout-logs", api.CreateWorkoutLog)

		auth.GET("/training-status", api.TrainingStatus)
		auth.GET("/analytics", api.AnalyticsOverview)
		auth.GET("/analytics/templates/:id", api.AnalyticsTemplateDetail)
	}

	return r
}
