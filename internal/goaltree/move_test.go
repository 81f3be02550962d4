package goaltree

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/goalflow-backend/internal/domain"
	"github.com/yungbote/goalflow-backend/internal/platform/apierr"
)

func TestClassifyDropZone(t *testing.T) {
	cases := []struct {
		offset, height float64
		want           DropZone
	}{
		{0, 40, ZoneBefore},
		{9.99, 40, ZoneBefore},
		{10, 40, ZoneInside},
		{20, 40, ZoneInside},
		{30, 40, ZoneInside},
		{30.01, 40, ZoneAfter},
		{40, 40, ZoneAfter},
		{5, 0, ZoneInside},
	}
	for _, tc := range cases {
		if got := ClassifyDropZone(tc.offset, tc.height); got != tc.want {
			t.Fatalf("ClassifyDropZone(%v, %v): want=%s got=%s", tc.offset, tc.height, tc.want, got)
		}
	}
}

func TestPlanMoveInsideAppendsAsLastChild(t *testing.T) {
	parent := goal("parent", nil, 0)
	kid1 := goal("kid1", parent, 3)
	kid2 := goal("kid2", parent, 7.5)
	dragged := goal("dragged", nil, 1)
	all := []*types.Goal{parent, kid1, kid2, dragged}

	mv, err := PlanMove(all, dragged.ID, parent.ID, ZoneInside)
	if err != nil {
		t.Fatalf("PlanMove: %v", err)
	}
	if mv.ParentID == nil || *mv.ParentID != parent.ID {
		t.Fatalf("parent: want=%s got=%v", parent.ID, mv.ParentID)
	}
	if mv.DisplayOrder != 8.5 {
		t.Fatalf("order: want=8.5 got=%v", mv.DisplayOrder)
	}

	mv, err = PlanMove(all, dragged.ID, kid1.ID, ZoneInside)
	if err != nil {
		t.Fatalf("PlanMove into leaf: %v", err)
	}
	if mv.DisplayOrder != 0 {
		t.Fatalf("leaf target: want order 0 got=%v", mv.DisplayOrder)
	}
}

func TestPlanMoveBeforeAndAfterUseHalfSteps(t *testing.T) {
	parent := goal("parent", nil, 0)
	a := goal("a", parent, 1)
	b := goal("b", parent, 2)
	c := goal("c", parent, 3)
	dragged := goal("dragged", nil, 5)
	all := []*types.Goal{parent, a, b, c, dragged}

	before, err := PlanMove(all, dragged.ID, b.ID, ZoneBefore)
	if err != nil {
		t.Fatalf("before: %v", err)
	}
	if before.DisplayOrder != 1.5 || before.ParentID == nil || *before.ParentID != parent.ID {
		t.Fatalf("before: unexpected %+v", before)
	}
	after, err := PlanMove(all, dragged.ID, b.ID, ZoneAfter)
	if err != nil {
		t.Fatalf("after: %v", err)
	}
	if after.DisplayOrder != 2.5 {
		t.Fatalf("after: want=2.5 got=%v", after.DisplayOrder)
	}

	rootTarget, err := PlanMove(all, a.ID, dragged.ID, ZoneAfter)
	if err != nil {
		t.Fatalf("after root: %v", err)
	}
	if rootTarget.ParentID != nil || rootTarget.DisplayOrder != 5.5 {
		t.Fatalf("after root: unexpected %+v", rootTarget)
	}
}

func TestPlanMoveBesideNeverPassesNeighbour(t *testing.T) {
	a := goal("a", nil, 1)
	b := goal("b", nil, 1.25)
	dragged := goal("dragged", nil, 9)
	all := []*types.Goal{a, b, dragged}

	mv, err := PlanMove(all, dragged.ID, b.ID, ZoneBefore)
	if err != nil {
		t.Fatalf("PlanMove: %v", err)
	}
	if !(mv.DisplayOrder > a.DisplayOrder && mv.DisplayOrder < b.DisplayOrder) {
		t.Fatalf("want order between a and b, got=%v", mv.DisplayOrder)
	}
}

func TestInsertingBesideKeepsOtherSiblingsInOrder(t *testing.T) {
	a := goal("a", nil, 0)
	b := goal("b", nil, 1)
	c := goal("c", nil, 2)
	dragged := goal("dragged", nil, 3)
	all := []*types.Goal{a, b, c, dragged}
	f := NewForest(all)

	mv, err := f.PlanMove(dragged.ID, b.ID, ZoneBefore)
	if err != nil {
		t.Fatalf("PlanMove: %v", err)
	}
	if err := f.Apply(context.Background(), mv, nil); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := titles(f.Tree()); !sameStrings(got, []string{"a", "dragged", "b", "c"}) {
		t.Fatalf("order after insert: got=%v", got)
	}
}

func TestPlanMoveRejectsSelfAndDescendants(t *testing.T) {
	top := goal("top", nil, 0)
	mid := goal("mid", top, 0)
	leaf := goal("leaf", mid, 0)
	all := []*types.Goal{top, mid, leaf}

	for _, zone := range []DropZone{ZoneBefore, ZoneAfter, ZoneInside} {
		if _, err := PlanMove(all, top.ID, top.ID, zone); !errors.Is(err, apierr.ErrIllegalMove) {
			t.Fatalf("self %s: want ErrIllegalMove got=%v", zone, err)
		}
		if _, err := PlanMove(all, top.ID, leaf.ID, zone); !errors.Is(err, apierr.ErrIllegalMove) {
			t.Fatalf("descendant %s: want ErrIllegalMove got=%v", zone, err)
		}
		if _, err := PlanMove(all, top.ID, mid.ID, zone); !errors.Is(err, apierr.ErrIllegalMove) {
			t.Fatalf("child %s: want ErrIllegalMove got=%v", zone, err)
		}
	}
	if _, err := PlanMove(all, leaf.ID, top.ID, ZoneInside); err != nil {
		t.Fatalf("moving a leaf up should be legal: %v", err)
	}
}

func TestPlanMoveFailsClosedOnBrokenAncestry(t *testing.T) {
	missing := uuid.New()
	dragged := goal("dragged", nil, 0)
	target := &types.Goal{ID: uuid.New(), Title: "target", ParentID: &missing}

	_, err := PlanMove([]*types.Goal{dragged, target}, dragged.ID, target.ID, ZoneInside)
	if !errors.Is(err, apierr.ErrIllegalMove) {
		t.Fatalf("want ErrIllegalMove for missing link, got=%v", err)
	}

	a := &types.Goal{ID: uuid.New(), Title: "a"}
	b := &types.Goal{ID: uuid.New(), Title: "b"}
	a.ParentID = &b.ID
	b.ParentID = &a.ID
	_, err = PlanMove([]*types.Goal{dragged, a, b}, dragged.ID, a.ID, ZoneInside)
	if !errors.Is(err, apierr.ErrIllegalMove) {
		t.Fatalf("want ErrIllegalMove for loop, got=%v", err)
	}
}

func TestPlanMoveUnknownGoals(t *testing.T) {
	a := goal("a", nil, 0)
	if _, err := PlanMove([]*types.Goal{a}, uuid.New(), a.ID, ZoneInside); !errors.Is(err, apierr.ErrNotFound) {
		t.Fatalf("unknown dragged: want ErrNotFound got=%v", err)
	}
	if _, err := PlanMove([]*types.Goal{a}, a.ID, uuid.New(), ZoneInside); !errors.Is(err, apierr.ErrNotFound) {
		t.Fatalf("unknown target: want ErrNotFound got=%v", err)
	}
}

func TestPlanMoveToRootAppendsAfterLastRoot(t *testing.T) {
	r1 := goal("r1", nil, 4)
	r2 := goal("r2", nil, 9)
	kid := goal("kid", r1, 20)

	mv, err := PlanMoveToRoot([]*types.Goal{r1, r2, kid}, kid.ID)
	if err != nil {
		t.Fatalf("PlanMoveToRoot: %v", err)
	}
	if mv.ParentID != nil || mv.DisplayOrder != 10 {
		t.Fatalf("unexpected %+v", mv)
	}

	lone := goal("lone", nil, 0)
	lone.ParentID = &r1.ID
	mv, err = PlanMoveToRoot([]*types.Goal{lone}, lone.ID)
	if err != nil {
		t.Fatalf("PlanMoveToRoot: %v", err)
	}
	if mv.DisplayOrder != 0 {
		t.Fatalf("no roots: want order 0 got=%v", mv.DisplayOrder)
	}
}
