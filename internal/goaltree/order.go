package goaltree

import (
	"sort"

	types "github.com/yungbote/goalflow-backend/internal/domain"
)

// MinOrderGap is the smallest spacing between adjacent siblings before the
// group is renormalized. Midpoint inserts halve the gap each time, so a
// group starting at integral orders reaches this after about 20 inserts at
// the same spot, well before float64 runs out of precision.
const MinOrderGap = 1.0 / (1 << 20)

// NeedsRenormalize reports whether any two siblings are closer than
// MinOrderGap (ties included).
func NeedsRenormalize(siblings []*types.Goal) bool {
	if len(siblings) < 2 {
		return false
	}
	orders := make([]float64, 0, len(siblings))
	for _, s := range siblings {
		orders = append(orders, s.DisplayOrder)
	}
	sort.Float64s(orders)
	for i := 1; i < len(orders); i++ {
		if orders[i]-orders[i-1] < MinOrderGap {
			return true
		}
	}
	return false
}

// Renormalize assigns 0, 1, 2, ... to siblings in their current order and
// returns only the goals whose order changed. Equal keys keep input order.
func Renormalize(siblings []*types.Goal) []Move {
	sorted := make([]*types.Goal, 0, len(siblings))
	for _, s := range siblings {
		if s != nil {
			sorted = append(sorted, s)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DisplayOrder < sorted[j].DisplayOrder
	})
	changes := make([]Move, 0)
	for i, s := range sorted {
		want := float64(i)
		if s.DisplayOrder == want {
			continue
		}
		changes = append(changes, Move{GoalID: s.ID, ParentID: cloneID(s.ParentID), DisplayOrder: want})
	}
	return changes
}
