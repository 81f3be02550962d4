package app

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/goalflow-backend/internal/http"
	httpH "github.com/yungbote/goalflow-backend/internal/http/handlers"
	httpMW "github.com/yungbote/goalflow-backend/internal/http/middleware"
	"github.com/yungbote/goalflow-backend/internal/observability"
	"github.com/yungbote/goalflow-backend/internal/platform/logger"
	"github.com/yungbote/goalflow-backend/internal/realtime"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health     *httpH.HealthHandler
	Goal       *httpH.GoalHandler
	Plan       *httpH.PlanHandler
	Journal    *httpH.JournalHandler
	WeeklyGoal *httpH.WeeklyGoalHandler
	Record     *httpH.RecordHandler
	Review     *httpH.ReviewHandler
	Profile    *httpH.ProfileHandler
	Realtime   *httpH.RealtimeHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, s Services, hub *realtime.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(db),
		Goal:       httpH.NewGoalHandler(s.Goal),
		Plan:       httpH.NewPlanHandler(s.Plan, s.WeeklyGoal),
		Journal:    httpH.NewJournalHandler(s.GoalLog, s.GoalWeeklyTarget, s.GoalReview),
		WeeklyGoal: httpH.NewWeeklyGoalHandler(s.WeeklyGoal),
		Record:     httpH.NewRecordHandler(s.Record),
		Review:     httpH.NewReviewHandler(s.Review),
		Profile:    httpH.NewProfileHandler(s.Profile, s.Dashboard),
		Realtime:   httpH.NewRealtimeHandler(log, hub),
	}
}

func wireMiddleware(log *logger.Logger, s Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{Auth: httpMW.NewAuthMiddleware(log, s.Auth)}
}

func wireRouter(log *logger.Logger, cfg Config, metrics *observability.Metrics, h Handlers, mw Middleware) *gin.Engine {
	serviceName := ""
	if cfg.OtelEnabled {
		serviceName = cfg.OtelServiceName
	}
	return http.NewRouter(http.RouterConfig{
		Log:               log,
		ServiceName:       serviceName,
		CORSOrigins:       cfg.CORSOrigins,
		Metrics:           metrics,
		AuthMiddleware:    mw.Auth,
		HealthHandler:     h.Health,
		GoalHandler:       h.Goal,
		PlanHandler:       h.Plan,
		JournalHandler:    h.Journal,
		WeeklyGoalHandler: h.WeeklyGoal,
		RecordHandler:     h.Record,
		ReviewHandler:     h.Review,
		ProfileHandler:    h.Profile,
		RealtimeHandler:   h.Realtime,
	})
}
