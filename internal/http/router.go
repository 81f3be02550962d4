package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/goalflow-backend/internal/http/handlers"
	httpMW "github.com/yungbote/goalflow-backend/internal/http/middleware"
	"github.com/yungbote/goalflow-backend/internal/observability"
	"github.com/yungbote/goalflow-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	CORSOrigins    []string
	Metrics        *observability.Metrics
	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler     *httpH.HealthHandler
	GoalHandler       *httpH.GoalHandler
	PlanHandler       *httpH.PlanHandler
	JournalHandler    *httpH.JournalHandler
	WeeklyGoalHandler *httpH.WeeklyGoalHandler
	RecordHandler     *httpH.RecordHandler
	ReviewHandler     *httpH.ReviewHandler
	ProfileHandler    *httpH.ProfileHandler
	RealtimeHandler   *httpH.RealtimeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.TraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics))
	}

	api := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.RequireAuth())
	}

	// Goals
	if h := cfg.GoalHandler; h != nil {
		api.GET("/goals", h.List)
		api.GET("/goals/tree", h.Tree)
		api.POST("/goals", h.Create)
		api.POST("/goals/renormalize", h.Renormalize)
		api.GET("/goals/:id", h.Get)
		api.PATCH("/goals/:id", h.Update)
		api.DELETE("/goals/:id", h.Delete)
		api.POST("/goals/:id/move", h.Move)
		api.POST("/goals/:id/move-root", h.MoveToRoot)
	}

	// Plans
	if h := cfg.PlanHandler; h != nil {
		api.GET("/goals/:id/plans", h.ListByGoal)
		api.POST("/goals/:id/plans", h.Create)
		api.GET("/plans/active", h.ListActive)
		api.PATCH("/plans/:id", h.Update)
		api.DELETE("/plans/:id", h.Delete)
		api.GET("/plans/:id/history", h.History)
		api.GET("/plans/:id/weekly-goals", h.WeeklyGoals)
	}

	// Goal journal
	if h := cfg.JournalHandler; h != nil {
		api.GET("/goals/:id/logs", h.ListLogs)
		api.POST("/goals/:id/logs", h.CreateLog)
		api.GET("/goals/:id/weekly-targets", h.ListTargets)
		api.POST("/goals/:id/weekly-targets", h.CreateTarget)
		api.PATCH("/goal-weekly-targets/:id", h.UpdateTarget)
		api.GET("/goals/:id/reviews", h.ListReviews)
		api.POST("/goals/:id/reviews", h.CreateReview)
	}

	// Weekly goals
	if h := cfg.WeeklyGoalHandler; h != nil {
		api.GET("/weekly-goals/current", h.Current)
		api.POST("/weekly-goals", h.Create)
		api.POST("/weekly-goals/custom", h.CreateCustom)
		api.PATCH("/weekly-goals/:id", h.Update)
		api.DELETE("/weekly-goals/:id", h.Delete)
	}

	// Records
	if h := cfg.RecordHandler; h != nil {
		api.GET("/records", h.List)
		api.POST("/records", h.Create)
		api.PATCH("/records/:id", h.Update)
		api.DELETE("/records/:id", h.Delete)
	}

	// Weekly review
	if h := cfg.ReviewHandler; h != nil {
		api.GET("/weekly-progress", h.WeeklyProgress)
		api.GET("/weekly-targets", h.ListTargets)
		api.GET("/weekly-reviews/:week", h.Get)
		api.GET("/weekly-reviews/:week/previous", h.Previous)
		api.POST("/weekly-reviews", h.Save)
	}

	// Profile, settings, dashboard
	if h := cfg.ProfileHandler; h != nil {
		api.GET("/profile", h.Get)
		api.PUT("/profile", h.Update)
		api.GET("/settings", h.GetSettings)
		api.PUT("/settings", h.UpdateSettings)
		api.GET("/dashboard", h.Dashboard)
	}

	// Realtime (SSE)
	if cfg.RealtimeHandler != nil {
		api.GET("/sse/stream", cfg.RealtimeHandler.SSEStream)
	}

	return r
}
