package backlog

import (
	"github.com/Brightside-Labs/Compass/internal/store"
)

// LaneRoots selects the items that render as top-level cards in the
// given board lane: items holding the lane status whose parent (if any)
// does not share it. The walk covers the full forest, not just roots:
// a lane root can sit at any depth, e.g. an in-progress story under a
// done feature.
func LaneRoots(roots []*store.BacklogItem, status store.ItemStatus) []*store.BacklogItem {
	var out []*store.BacklogItem
	var walk func(items []*store.BacklogItem, parent *store.BacklogItem)
	walk = func(items []*store.BacklogItem, parent *store.BacklogItem) {
		for _, item := range items {
			if item.Status == status && (parent == nil || parent.Status != status) {
				out = append(out, item)
			}
			walk(item.Children, item)
		}
	}
	walk(roots, nil)
	return out
}

// Board groups lane roots for all four statuses.
func Board(roots []*store.BacklogItem) map[store.ItemStatus][]*store.BacklogItem {
	board := make(map[store.ItemStatus][]*store.BacklogItem, len(store.Statuses))
	for _, status := range store.Statuses {
		lane := LaneRoots(roots, status)
		if lane == nil {
			lane = []*store.BacklogItem{}
		}
		board[status] = lane
	}
	return board
}
