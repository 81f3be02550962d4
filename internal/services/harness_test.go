package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/goalflow-backend/internal/data/repos"
	"github.com/yungbote/goalflow-backend/internal/data/repos/testutil"
	"github.com/yungbote/goalflow-backend/internal/platform/ctxutil"
	"github.com/yungbote/goalflow-backend/internal/platform/dbctx"
	"github.com/yungbote/goalflow-backend/internal/realtime"
	"github.com/yungbote/goalflow-backend/internal/week"
)

type sentEvent struct {
	userID uuid.UUID
	event  realtime.SSEEvent
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []sentEvent
}

func (n *recordingNotifier) Notify(ctx context.Context, userID uuid.UUID, event realtime.SSEEvent, data any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, sentEvent{userID: userID, event: event})
}

func (n *recordingNotifier) count(event realtime.SSEEvent) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, e := range n.events {
		if e.event == event {
			c++
		}
	}
	return c
}

// harness wires every service against one fresh database. The calendar is
// pinned to Wednesday 2024-01-10 12:00 in Asia/Tokyo.
type harness struct {
	db       *gorm.DB
	owner    uuid.UUID
	dbc      dbctx.Context
	notifier *recordingNotifier
	cal      Calendar

	goals     GoalService
	plans     PlanService
	logs      GoalLogService
	gtargets  GoalWeeklyTargetService
	greviews  GoalReviewService
	weekly    WeeklyGoalService
	records   RecordService
	reviews   ReviewService
	profiles  ProfileService
	dashboard DashboardService
}

var pinnedNow = time.Date(2024, time.January, 10, 12, 0, 0, 0, week.Location("Asia/Tokyo"))

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	owner := uuid.New()
	ctx := ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: owner})
	cal := Calendar{Loc: week.Location("Asia/Tokyo"), Now: func() time.Time { return pinnedNow }}
	notifier := &recordingNotifier{}

	goalRepo := repos.NewGoalRepo(db, log)
	planRepo := repos.NewPlanRepo(db, log)
	historyRepo := repos.NewPlanHistoryRepo(db, log)
	logRepo := repos.NewGoalLogRepo(db, log)
	goalTargetRepo := repos.NewGoalWeeklyTargetRepo(db, log)
	goalReviewRepo := repos.NewGoalReviewRepo(db, log)
	weeklyRepo := repos.NewWeeklyGoalRepo(db, log)
	recordRepo := repos.NewRecordRepo(db, log)
	reviewRepo := repos.NewWeeklyReviewRepo(db, log)
	targetRepo := repos.NewWeeklyTargetRepo(db, log)
	profileRepo := repos.NewProfileRepo(db, log)

	h := &harness{
		db:       db,
		owner:    owner,
		dbc:      dbctx.Context{Ctx: ctx},
		notifier: notifier,
		cal:      cal,
	}
	h.goals = NewGoalService(db, log, GoalServiceDeps{
		Goals:         goalRepo,
		Plans:         planRepo,
		PlanHistory:   historyRepo,
		WeeklyGoals:   weeklyRepo,
		Records:       recordRepo,
		GoalLogs:      logRepo,
		GoalTargets:   goalTargetRepo,
		GoalReviews:   goalReviewRepo,
		WeeklyTargets: targetRepo,
		Notifier:      notifier,
	})
	h.plans = NewPlanService(db, log, goalRepo, planRepo, historyRepo, weeklyRepo, recordRepo, notifier)
	h.logs = NewGoalLogService(db, log, goalRepo, logRepo)
	h.gtargets = NewGoalWeeklyTargetService(db, log, goalRepo, goalTargetRepo)
	h.greviews = NewGoalReviewService(db, log, cal, goalRepo, goalReviewRepo)
	h.weekly = NewWeeklyGoalService(db, log, cal, goalRepo, planRepo, weeklyRepo, recordRepo, profileRepo, notifier)
	rs := NewRecordService(db, log, 0, planRepo, historyRepo, weeklyRepo, recordRepo, notifier)
	rs.(*recordService).now = func() time.Time { return pinnedNow }
	h.records = rs
	h.reviews = NewReviewService(db, log, cal, goalRepo, recordRepo, reviewRepo, targetRepo, profileRepo)
	h.profiles = NewProfileService(db, log, profileRepo)
	h.dashboard = NewDashboardService(log, h.weekly, h.plans, h.records, h.reviews)
	return h
}

func (h *harness) anonymous() dbctx.Context {
	return dbctx.Context{Ctx: context.Background()}
}
