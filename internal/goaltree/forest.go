package goaltree

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	types "github.com/yungbote/goalflow-backend/internal/domain"
	"github.com/yungbote/goalflow-backend/internal/platform/apierr"
)

// PersistFunc stores a move. A non-nil error rolls the forest back.
type PersistFunc func(ctx context.Context, mv Move) error

// Forest is one owner's goals held in memory. Moves are applied
// optimistically and undone when persisting them fails.
type Forest struct {
	applyMu sync.Mutex

	mu    sync.RWMutex
	order []uuid.UUID
	goals map[uuid.UUID]*types.Goal
}

func NewForest(goals []*types.Goal) *Forest {
	f := &Forest{goals: make(map[uuid.UUID]*types.Goal, len(goals))}
	for _, g := range goals {
		if g == nil {
			continue
		}
		if _, dup := f.goals[g.ID]; dup {
			continue
		}
		cp := *g
		f.order = append(f.order, g.ID)
		f.goals[g.ID] = &cp
	}
	return f
}

// Goals returns copies in their original input order.
func (f *Forest) Goals() []*types.Goal {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.copyLocked()
}

func (f *Forest) Tree() []*Node {
	return Build(f.Goals())
}

func (f *Forest) Get(id uuid.UUID) (*types.Goal, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	g, ok := f.goals[id]
	if !ok {
		return nil, false
	}
	cp := *g
	return &cp, true
}

func (f *Forest) PlanMove(draggedID, targetID uuid.UUID, zone DropZone) (Move, error) {
	return PlanMove(f.Goals(), draggedID, targetID, zone)
}

func (f *Forest) PlanMoveToRoot(draggedID uuid.UUID) (Move, error) {
	return PlanMoveToRoot(f.Goals(), draggedID)
}

// Apply validates mv against the current state, applies it, then calls
// persist. If persist fails the forest is restored to exactly what it was
// before Apply and the persist error is returned.
func (f *Forest) Apply(ctx context.Context, mv Move, persist PersistFunc) error {
	f.applyMu.Lock()
	defer f.applyMu.Unlock()

	snap, err := f.applyLocked(mv)
	if err != nil {
		return err
	}
	if persist == nil {
		return nil
	}
	if err := persist(ctx, mv); err != nil {
		f.restore(snap)
		return fmt.Errorf("persist move: %w", err)
	}
	return nil
}

type snapshot struct {
	order []uuid.UUID
	goals map[uuid.UUID]types.Goal
}

func (f *Forest) applyLocked(mv Move) (snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	g, ok := f.goals[mv.GoalID]
	if !ok {
		return snapshot{}, apierr.NotFound("goal")
	}
	if mv.ParentID != nil {
		if *mv.ParentID == mv.GoalID {
			return snapshot{}, errSelfDrop
		}
		if _, ok := f.goals[*mv.ParentID]; !ok {
			return snapshot{}, apierr.NotFound("parent goal")
		}
		if err := checkNotUnder(f.goals, mv.GoalID, *mv.ParentID); err != nil {
			return snapshot{}, err
		}
	}

	snap := snapshot{
		order: append([]uuid.UUID(nil), f.order...),
		goals: make(map[uuid.UUID]types.Goal, len(f.goals)),
	}
	for id, goal := range f.goals {
		snap.goals[id] = *goal
	}

	g.ParentID = cloneID(mv.ParentID)
	g.DisplayOrder = mv.DisplayOrder
	return snap, nil
}

func (f *Forest) restore(s snapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.order = s.order
	f.goals = make(map[uuid.UUID]*types.Goal, len(s.goals))
	for id, g := range s.goals {
		cp := g
		f.goals[id] = &cp
	}
}

// SetOrders overwrites display orders, typically after Renormalize.
func (f *Forest) SetOrders(changes []Move) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range changes {
		if g, ok := f.goals[c.GoalID]; ok {
			g.DisplayOrder = c.DisplayOrder
		}
	}
}

// Siblings returns the goals that currently share parentID.
func (f *Forest) Siblings(parentID *uuid.UUID) []*types.Goal {
	return childrenOf(f.Goals(), parentID, uuid.Nil)
}

func (f *Forest) copyLocked() []*types.Goal {
	out := make([]*types.Goal, 0, len(f.order))
	for _, id := range f.order {
		g := f.goals[id]
		cp := *g
		cp.ParentID = cloneID(g.ParentID)
		out = append(out, &cp)
	}
	return out
}
