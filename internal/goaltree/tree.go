package goaltree

import (
	"sort"

	"github.com/google/uuid"

	types "github.com/yungbote/goalflow-backend/internal/domain"
)

// Node is one goal with its ordered children.
type Node struct {
	*types.Goal
	Children []*Node `json:"children"`
}

// Build arranges a flat goal list into a forest. A goal whose parent is
// missing from the input, or whose ancestor chain loops, becomes a root.
// Every sibling group is ordered by display_order; equal keys keep input order.
func Build(goals []*types.Goal) []*Node {
	byID := make(map[uuid.UUID]*types.Goal, len(goals))
	nodes := make(map[uuid.UUID]*Node, len(goals))
	ordered := make([]*Node, 0, len(goals))
	for _, g := range goals {
		if g == nil {
			continue
		}
		if _, dup := nodes[g.ID]; dup {
			continue
		}
		n := &Node{Goal: g, Children: []*Node{}}
		byID[g.ID] = g
		nodes[g.ID] = n
		ordered = append(ordered, n)
	}

	anchored := make(map[uuid.UUID]bool, len(ordered))
	roots := make([]*Node, 0)
	for _, n := range ordered {
		if n.ParentID != nil && reachesRoot(byID, n.ID, anchored) {
			if parent, ok := nodes[*n.ParentID]; ok {
				parent.Children = append(parent.Children, n)
				continue
			}
		}
		roots = append(roots, n)
	}
	sortNodes(roots)
	return roots
}

// reachesRoot reports whether id's parent is present and the chain above it
// ends at a goal with no resolvable parent without revisiting anything.
func reachesRoot(byID map[uuid.UUID]*types.Goal, id uuid.UUID, memo map[uuid.UUID]bool) bool {
	seen := map[uuid.UUID]bool{}
	cur := byID[id]
	for cur != nil {
		if ok, done := memo[cur.ID]; done {
			return ok
		}
		if seen[cur.ID] {
			for k := range seen {
				memo[k] = false
			}
			return false
		}
		seen[cur.ID] = true
		if cur.ParentID == nil {
			break
		}
		next, ok := byID[*cur.ParentID]
		if !ok {
			break
		}
		cur = next
	}
	for k := range seen {
		memo[k] = true
	}
	return true
}

func sortNodes(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].DisplayOrder < nodes[j].DisplayOrder
	})
	for _, n := range nodes {
		sortNodes(n.Children)
	}
}

// Count returns the number of nodes in the forest.
func Count(roots []*Node) int {
	total := 0
	for _, n := range roots {
		total += 1 + Count(n.Children)
	}
	return total
}

// Row is a node flattened for display with its depth from the root.
type Row struct {
	Goal        *types.Goal `json:"goal"`
	Depth       int         `json:"depth"`
	HasChildren bool        `json:"has_children"`
	Expanded    bool        `json:"expanded"`
}

// Expansion tracks collapsed nodes. Everything is expanded until collapsed.
type Expansion struct {
	collapsed map[uuid.UUID]bool
}

func NewExpansion(collapsed ...uuid.UUID) *Expansion {
	e := &Expansion{collapsed: map[uuid.UUID]bool{}}
	for _, id := range collapsed {
		e.collapsed[id] = true
	}
	return e
}

func (e *Expansion) IsExpanded(id uuid.UUID) bool {
	if e == nil {
		return true
	}
	return !e.collapsed[id]
}

// Toggle flips id and returns whether it is now expanded.
func (e *Expansion) Toggle(id uuid.UUID) bool {
	if e.collapsed[id] {
		delete(e.collapsed, id)
		return true
	}
	e.collapsed[id] = true
	return false
}

func (e *Expansion) ExpandAll() { e.collapsed = map[uuid.UUID]bool{} }

// Rows walks the forest depth first, skipping the subtrees of collapsed nodes.
func (e *Expansion) Rows(roots []*Node) []Row {
	out := make([]Row, 0, Count(roots))
	var walk func(nodes []*Node, depth int)
	walk = func(nodes []*Node, depth int) {
		for _, n := range nodes {
			open := e.IsExpanded(n.ID)
			out = append(out, Row{Goal: n.Goal, Depth: depth, HasChildren: len(n.Children) > 0, Expanded: open})
			if open {
				walk(n.Children, depth+1)
			}
		}
	}
	walk(roots, 0)
	return out
}
