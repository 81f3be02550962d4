package goaltree

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	types "github.com/yungbote/goalflow-backend/internal/domain"
	"github.com/yungbote/goalflow-backend/internal/platform/apierr"
)

type DropZone string

const (
	ZoneBefore DropZone = "before"
	ZoneAfter  DropZone = "after"
	ZoneInside DropZone = "inside"
)

func ParseDropZone(s string) (DropZone, bool) {
	switch DropZone(s) {
	case ZoneBefore, ZoneAfter, ZoneInside:
		return DropZone(s), true
	}
	return "", false
}

// ClassifyDropZone maps a pointer offset inside a row to a zone: the top
// quarter is before, the bottom quarter after, the middle half inside.
func ClassifyDropZone(offsetY, rowHeight float64) DropZone {
	if rowHeight <= 0 || math.IsNaN(offsetY) {
		return ZoneInside
	}
	switch {
	case offsetY < rowHeight*0.25:
		return ZoneBefore
	case offsetY > rowHeight*0.75:
		return ZoneAfter
	default:
		return ZoneInside
	}
}

// Move is the new placement for one goal.
type Move struct {
	GoalID       uuid.UUID  `json:"goal_id"`
	ParentID     *uuid.UUID `json:"parent_id"`
	DisplayOrder float64    `json:"display_order"`
}

var (
	errSelfDrop       = fmt.Errorf("%w: a goal cannot be dropped onto itself", apierr.ErrIllegalMove)
	errDescendantDrop = fmt.Errorf("%w: a goal cannot be moved under its own descendant", apierr.ErrIllegalMove)
	errBrokenAncestry = fmt.Errorf("%w: ancestry of the drop target could not be verified", apierr.ErrIllegalMove)
)

// PlanMove computes where dragged lands when dropped in zone of target.
// It never mutates goals.
func PlanMove(goals []*types.Goal, draggedID, targetID uuid.UUID, zone DropZone) (Move, error) {
	byID := index(goals)
	dragged, ok := byID[draggedID]
	if !ok {
		return Move{}, apierr.NotFound("dragged goal")
	}
	target, ok := byID[targetID]
	if !ok {
		return Move{}, apierr.NotFound("target goal")
	}
	if draggedID == targetID {
		return Move{}, errSelfDrop
	}
	if err := checkNotUnder(byID, draggedID, targetID); err != nil {
		return Move{}, err
	}

	mv := Move{GoalID: dragged.ID}
	switch zone {
	case ZoneInside:
		parent := target.ID
		mv.ParentID = &parent
		mv.DisplayOrder = nextOrder(childrenOf(goals, &parent, uuid.Nil))
	case ZoneBefore, ZoneAfter:
		mv.ParentID = cloneID(target.ParentID)
		mv.DisplayOrder = besideOrder(childrenOf(goals, target.ParentID, draggedID), target, zone)
	default:
		return Move{}, apierr.Invalid(fmt.Sprintf("unknown drop zone %q", zone))
	}
	return mv, nil
}

// PlanMoveToRoot places dragged after the last root goal.
func PlanMoveToRoot(goals []*types.Goal, draggedID uuid.UUID) (Move, error) {
	byID := index(goals)
	if _, ok := byID[draggedID]; !ok {
		return Move{}, apierr.NotFound("dragged goal")
	}
	return Move{
		GoalID:       draggedID,
		ParentID:     nil,
		DisplayOrder: nextOrder(childrenOf(goals, nil, uuid.Nil)),
	}, nil
}

// IsDescendant reports whether nodeID sits somewhere below ancestorID. It
// walks parent links upward from nodeID and returns an error when a link
// points at a goal that is not in goals or the chain loops.
func IsDescendant(goals []*types.Goal, ancestorID, nodeID uuid.UUID) (bool, error) {
	return isDescendant(index(goals), ancestorID, nodeID)
}

func isDescendant(byID map[uuid.UUID]*types.Goal, ancestorID, nodeID uuid.UUID) (bool, error) {
	cur, ok := byID[nodeID]
	if !ok {
		return false, errBrokenAncestry
	}
	seen := map[uuid.UUID]bool{nodeID: true}
	for cur.ParentID != nil {
		pid := *cur.ParentID
		if pid == ancestorID {
			return true, nil
		}
		if seen[pid] {
			return false, errBrokenAncestry
		}
		seen[pid] = true
		next, ok := byID[pid]
		if !ok {
			return false, errBrokenAncestry
		}
		cur = next
	}
	return false, nil
}

// checkNotUnder rejects placing dragged at or below target.
func checkNotUnder(byID map[uuid.UUID]*types.Goal, draggedID, targetID uuid.UUID) error {
	under, err := isDescendant(byID, draggedID, targetID)
	if err != nil {
		return err
	}
	if under {
		return errDescendantDrop
	}
	return nil
}

// besideOrder places the dragged goal next to target. With a neighbour at
// least half a step away this is target ± 0.5; a closer neighbour gets the
// midpoint so the drop never jumps past it.
func besideOrder(siblings []*types.Goal, target *types.Goal, zone DropZone) float64 {
	step := 0.5
	if zone == ZoneBefore {
		step = -0.5
	}
	want := target.DisplayOrder + step
	for _, s := range siblings {
		if s.ID == target.ID {
			continue
		}
		o := s.DisplayOrder
		if zone == ZoneBefore && o < target.DisplayOrder && o > want {
			want = o
		}
		if zone == ZoneAfter && o > target.DisplayOrder && o < want {
			want = o
		}
	}
	if want != target.DisplayOrder+step {
		return (want + target.DisplayOrder) / 2
	}
	return want
}

func nextOrder(siblings []*types.Goal) float64 {
	if len(siblings) == 0 {
		return 0
	}
	max := siblings[0].DisplayOrder
	for _, s := range siblings[1:] {
		if s.DisplayOrder > max {
			max = s.DisplayOrder
		}
	}
	return max + 1
}

// childrenOf returns the goals whose declared parent is parentID (nil for
// roots), skipping exclude.
func childrenOf(goals []*types.Goal, parentID *uuid.UUID, exclude uuid.UUID) []*types.Goal {
	out := make([]*types.Goal, 0)
	for _, g := range goals {
		if g == nil || g.ID == exclude {
			continue
		}
		if sameParent(g.ParentID, parentID) {
			out = append(out, g)
		}
	}
	return out
}

func sameParent(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func index(goals []*types.Goal) map[uuid.UUID]*types.Goal {
	byID := make(map[uuid.UUID]*types.Goal, len(goals))
	for _, g := range goals {
		if g == nil {
			continue
		}
		if _, dup := byID[g.ID]; !dup {
			byID[g.ID] = g
		}
	}
	return byID
}

func cloneID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
