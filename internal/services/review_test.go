package services

import (
	"errors"
	"testing"
	"time"

	"github.com/yungbote/goalflow-backend/internal/data/repos/testutil"
	"github.com/yungbote/goalflow-backend/internal/platform/apierr"
	"github.com/yungbote/goalflow-backend/internal/platform/pointers"
	"github.com/yungbote/goalflow-backend/internal/week"
)

func TestReviewServiceSaveAndReload(t *testing.T) {
	h := newHarness(t)
	g, _ := h.goals.Create(h.dbc, CreateGoalInput{Title: "fitness"})

	saved, err := h.reviews.SaveReview(h.dbc, SaveReviewInput{
		Summary:    pointers.String("good week"),
		SelfRating: pointers.Int(4),
		NextWeekTargets: []NextWeekTargetInput{
			{MetricName: "study", TargetValue: 5, Unit: "hours"},
			{MetricName: "running", TargetValue: 20, Unit: "km", GoalID: &g.ID},
		},
	})
	if err != nil {
		t.Fatalf("SaveReview: %v", err)
	}
	if week.Format(saved.Review.WeekStartDate) != "2024-01-08" {
		t.Fatalf("review week: got=%s", week.Format(saved.Review.WeekStartDate))
	}
	if len(saved.NextWeekTargets) != 2 || week.Format(saved.NextWeekTargets[0].WeekStartDate) != "2024-01-15" {
		t.Fatalf("next week targets: %+v", saved.NextWeekTargets)
	}

	again, err := h.reviews.SaveReview(h.dbc, SaveReviewInput{
		Summary:         pointers.String("edited"),
		NextWeekTargets: []NextWeekTargetInput{{MetricName: "study", TargetValue: 6, Unit: "hours"}},
	})
	if err != nil {
		t.Fatalf("SaveReview again: %v", err)
	}
	if again.Review.ID != saved.Review.ID {
		t.Fatalf("resave should keep the same review row")
	}
	targets, _ := h.reviews.ListTargets(h.dbc, "2024-01-15")
	if len(targets) != 1 || targets[0].TargetValue != 6 {
		t.Fatalf("targets should be replaced, got=%+v", targets)
	}

	got, err := h.reviews.GetReview(h.dbc, "")
	if err != nil {
		t.Fatalf("GetReview: %v", err)
	}
	if got.Summary == nil || *got.Summary != "edited" {
		t.Fatalf("unexpected review %+v", got)
	}
	prev, err := h.reviews.PreviousReview(h.dbc, "2024-01-15")
	if err != nil || prev.ID != saved.Review.ID {
		t.Fatalf("PreviousReview of next week: got=%v err=%v", prev, err)
	}
	if _, err := h.reviews.PreviousReview(h.dbc, ""); !errors.Is(err, apierr.ErrNotFound) {
		t.Fatalf("no review last week: want ErrNotFound got=%v", err)
	}
}

func TestReviewServiceRejectsBadInput(t *testing.T) {
	h := newHarness(t)
	if _, err := h.reviews.SaveReview(h.dbc, SaveReviewInput{SelfRating: pointers.Int(9)}); !errors.Is(err, apierr.ErrInvalidArgument) {
		t.Fatalf("rating: want ErrInvalidArgument got=%v", err)
	}
	if _, err := h.reviews.SaveReview(h.dbc, SaveReviewInput{
		NextWeekTargets: []NextWeekTargetInput{{MetricName: "x", TargetValue: 0, Unit: "km"}},
	}); !errors.Is(err, apierr.ErrInvalidArgument) {
		t.Fatalf("zero target: want ErrInvalidArgument got=%v", err)
	}
	if _, err := h.reviews.GetReview(h.dbc, "last week"); !errors.Is(err, apierr.ErrInvalidArgument) {
		t.Fatalf("bad week: want ErrInvalidArgument got=%v", err)
	}
}

func TestReviewServiceWeeklyProgress(t *testing.T) {
	h := newHarness(t)
	ctx := h.dbc.Ctx
	if _, err := h.reviews.SaveReview(h.dbc, SaveReviewInput{
		WeekStartDate:   "2024-01-01",
		NextWeekTargets: []NextWeekTargetInput{{MetricName: "study", TargetValue: 2, Unit: "hours"}},
	}); err != nil {
		t.Fatalf("SaveReview: %v", err)
	}
	tokyo := week.Location("Asia/Tokyo")
	testutil.SeedRecord(t, ctx, h.db, h.owner, time.Date(2024, 1, 8, 0, 30, 0, 0, tokyo), 60, "minutes", nil, nil)
	testutil.SeedRecord(t, ctx, h.db, h.owner, time.Date(2024, 1, 14, 23, 0, 0, 0, tokyo), 30, "minutes", nil, nil)
	testutil.SeedRecord(t, ctx, h.db, h.owner, time.Date(2024, 1, 7, 23, 0, 0, 0, tokyo), 600, "minutes", nil, nil)
	testutil.SeedRecord(t, ctx, h.db, h.owner, time.Date(2024, 1, 9, 9, 0, 0, 0, tokyo), 5, "km", nil, nil)

	rows, err := h.reviews.WeeklyProgress(h.dbc, "")
	if err != nil {
		t.Fatalf("WeeklyProgress: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows: want=1 got=%d", len(rows))
	}
	if !near(rows[0].ActualValue, 1.5) || !near(rows[0].AchievementRate, 75) {
		t.Fatalf("unexpected progress %+v", rows[0])
	}

	empty, err := h.reviews.WeeklyProgress(h.dbc, "2023-12-25")
	if err != nil || len(empty) != 0 {
		t.Fatalf("week without targets: got=%v err=%v", empty, err)
	}
}

