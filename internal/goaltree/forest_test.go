package goaltree

import (
	"context"
	"errors"
	"reflect"
	"testing"

	types "github.com/yungbote/goalflow-backend/internal/domain"
	"github.com/yungbote/goalflow-backend/internal/platform/apierr"
)

func TestForestApplyRollsBackWhenPersistFails(t *testing.T) {
	top := goal("top", nil, 0)
	kid := goal("kid", top, 0)
	other := goal("other", nil, 1)
	f := NewForest([]*types.Goal{top, kid, other})
	before := f.Goals()

	mv, err := f.PlanMove(kid.ID, other.ID, ZoneInside)
	if err != nil {
		t.Fatalf("PlanMove: %v", err)
	}

	storeDown := errors.New("store unavailable")
	var seenDuringPersist []*types.Goal
	err = f.Apply(context.Background(), mv, func(ctx context.Context, m Move) error {
		seenDuringPersist = f.Goals()
		return storeDown
	})
	if !errors.Is(err, storeDown) {
		t.Fatalf("Apply: want persist error, got=%v", err)
	}

	moved := false
	for _, g := range seenDuringPersist {
		if g.ID == kid.ID && g.ParentID != nil && *g.ParentID == other.ID {
			moved = true
		}
	}
	if !moved {
		t.Fatalf("move should be visible while persisting")
	}
	if after := f.Goals(); !reflect.DeepEqual(before, after) {
		t.Fatalf("state after failed persist differs from before")
	}
}

func TestForestApplyKeepsSuccessfulMove(t *testing.T) {
	top := goal("top", nil, 0)
	kid := goal("kid", top, 0)
	f := NewForest([]*types.Goal{top, kid})

	mv, err := f.PlanMoveToRoot(kid.ID)
	if err != nil {
		t.Fatalf("PlanMoveToRoot: %v", err)
	}
	calls := 0
	if err := f.Apply(context.Background(), mv, func(ctx context.Context, m Move) error {
		calls++
		return nil
	}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if calls != 1 {
		t.Fatalf("persist calls: want=1 got=%d", calls)
	}
	got, _ := f.Get(kid.ID)
	if got.ParentID != nil || got.DisplayOrder != 1 {
		t.Fatalf("unexpected kid after move: %+v", got)
	}
	if top.ParentID != nil || kid.ParentID == nil {
		t.Fatalf("caller's goals must not be mutated")
	}
}

func TestForestApplyRejectsCycleWithoutMutation(t *testing.T) {
	top := goal("top", nil, 0)
	kid := goal("kid", top, 0)
	f := NewForest([]*types.Goal{top, kid})
	before := f.Goals()

	pid := kid.ID
	err := f.Apply(context.Background(), Move{GoalID: top.ID, ParentID: &pid}, func(ctx context.Context, m Move) error {
		t.Fatalf("persist must not run for an illegal move")
		return nil
	})
	if !errors.Is(err, apierr.ErrIllegalMove) {
		t.Fatalf("want ErrIllegalMove, got=%v", err)
	}
	if !reflect.DeepEqual(before, f.Goals()) {
		t.Fatalf("illegal move changed the forest")
	}
}

func TestRenormalize(t *testing.T) {
	a := goal("a", nil, -3)
	b := goal("b", nil, 0.5)
	c := goal("c", nil, 0.5+MinOrderGap/4)
	d := goal("d", nil, 3)
	sibs := []*types.Goal{d, c, b, a}

	if !NeedsRenormalize(sibs) {
		t.Fatalf("NeedsRenormalize: want true for near-equal orders")
	}
	changes := Renormalize(sibs)
	want := map[string]float64{"a": 0, "b": 1, "c": 2}
	if len(changes) != len(want) {
		t.Fatalf("changes: want=%d got=%d (%+v)", len(want), len(changes), changes)
	}
	byID := map[string]float64{}
	for _, ch := range changes {
		for _, g := range sibs {
			if g.ID == ch.GoalID {
				byID[g.Title] = ch.DisplayOrder
			}
		}
	}
	for title, order := range want {
		if byID[title] != order {
			t.Fatalf("%s: want=%v got=%v", title, order, byID[title])
		}
	}

	spaced := []*types.Goal{goal("x", nil, 0), goal("y", nil, 1)}
	if NeedsRenormalize(spaced) {
		t.Fatalf("NeedsRenormalize: want false for integral orders")
	}
}
