package backlog

import (
	"github.com/google/uuid"

	"github.com/Brightside-Labs/Compass/internal/store"
)

// Build reconstructs the epic → feature → story forest from a flat,
// order-irrelevant item list. Each item's Children slice is reset and
// repopulated; an item whose parent_id does not resolve to any known id
// is promoted to a root. Cycle-freedom is an unchecked precondition:
// the pass itself is single-level, but downstream recursive walks would
// not terminate on a genuine cycle.
func Build(items []*store.BacklogItem) []*store.BacklogItem {
	byID := make(map[uuid.UUID]*store.BacklogItem, len(items))
	for _, item := range items {
		item.Children = nil
		byID[item.ID] = item
	}

	var roots []*store.BacklogItem
	for _, item := range items {
		if item.ParentID != nil {
			if parent, ok := byID[*item.ParentID]; ok {
				parent.Children = append(parent.Children, item)
				continue
			}
		}
		roots = append(roots, item)
	}
	return roots
}

// Dangling returns the IDs of items whose parent_id does not resolve to
// any item in the list. Build silently promotes these to roots; callers
// that care about referential integrity can log them.
func Dangling(items []*store.BacklogItem) []uuid.UUID {
	byID := make(map[uuid.UUID]struct{}, len(items))
	for _, item := range items {
		byID[item.ID] = struct{}{}
	}

	var dangling []uuid.UUID
	for _, item := range items {
		if item.ParentID == nil {
			continue
		}
		if _, ok := byID[*item.ParentID]; !ok {
			dangling = append(dangling, item.ID)
		}
	}
	return dangling
}

// Flatten walks the forest depth-first and returns every item as a flat
// list. Inverse of Build up to sibling order.
func Flatten(roots []*store.BacklogItem) []*store.BacklogItem {
	var out []*store.BacklogItem
	var walk func(items []*store.BacklogItem)
	walk = func(items []*store.BacklogItem) {
		for _, item := range items {
			out = append(out, item)
			walk(item.Children)
		}
	}
	walk(roots)
	return out
}

type dupKey struct {
	title    string
	parentID uuid.UUID
	itemType store.ItemType
}

// CollapseDuplicates merges items sharing the same (title, parent_id,
// type) identity, keeping the newest by CreatedAt (input order breaks
// ties). Relative order of survivors is preserved. This is a display
// heuristic, not a storage uniqueness constraint.
func CollapseDuplicates(items []*store.BacklogItem) []*store.BacklogItem {
	keep := make(map[dupKey]int, len(items))
	for i, item := range items {
		key := dupKey{title: item.Title, itemType: item.Type}
		if item.ParentID != nil {
			key.parentID = *item.ParentID
		}
		if j, ok := keep[key]; ok {
			if !item.CreatedAt.Before(items[j].CreatedAt) {
				keep[key] = i
			}
			continue
		}
		keep[key] = i
	}

	kept := make(map[int]bool, len(keep))
	for _, i := range keep {
		kept[i] = true
	}

	out := make([]*store.BacklogItem, 0, len(keep))
	for i, item := range items {
		if kept[i] {
			out = append(out, item)
		}
	}
	return out
}
